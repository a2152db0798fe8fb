package domain

// BatchSummary collects the outcome of one batch run.
type BatchSummary struct {
	Processed int `json:"processed"`
	Written   int `json:"written"`
	Empty     int `json:"empty"`
	Failed    int `json:"failed"`

	// Per written report, in write order.
	CommitCounts []float64 `json:"commit_counts"`
	FileCounts   []float64 `json:"file_counts"`
	Files        []string  `json:"files"`
}

// RecordWritten adds one written report to the summary.
func (s *BatchSummary) RecordWritten(path string, a *Activity) {
	s.Written++
	s.Files = append(s.Files, path)
	s.CommitCounts = append(s.CommitCounts, float64(len(a.Commits)))
	s.FileCounts = append(s.FileCounts, float64(a.FileCount()))
}
