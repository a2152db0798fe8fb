package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used for configuration, git
// arguments and file names.
const DateLayout = "2006-01-02"

// Granularity selects how a date range is cut into buckets.
type Granularity string

const (
	Weekly Granularity = "weekly"
	Daily  Granularity = "daily"
)

// Bucket is one contiguous, inclusive date range covered by a single report.
type Bucket struct {
	Granularity Granularity
	Start       time.Time
	End         time.Time
}

// StartString returns the bucket start as YYYY-MM-DD.
func (b Bucket) StartString() string {
	return b.Start.Format(DateLayout)
}

// EndString returns the bucket end as YYYY-MM-DD.
func (b Bucket) EndString() string {
	return b.End.Format(DateLayout)
}

// Label is the human readable range embedded in the report title.
func (b Bucket) Label() string {
	if b.Granularity == Daily {
		return b.EndString()
	}
	return fmt.Sprintf("%s to %s", b.StartString(), b.EndString())
}

// FileName is the deterministic report file name for the bucket.
func (b Bucket) FileName() string {
	if b.Granularity == Daily {
		return fmt.Sprintf("worklog_%s.md", b.EndString())
	}
	return fmt.Sprintf("worklog_summary_%s_to_%s.md", b.StartString(), b.EndString())
}

// Days is the number of calendar days the bucket covers.
func (b Bucket) Days() int {
	return int(b.End.Sub(b.Start).Hours()/24) + 1
}
