package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/git-worklog/internal/classifier"
	"github.com/naka-gawa/git-worklog/internal/domain"
	"github.com/naka-gawa/git-worklog/internal/gateway"
	"github.com/naka-gawa/git-worklog/internal/parser"
	"github.com/naka-gawa/git-worklog/internal/report"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate git without running it.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchLog(ctx context.Context, author string, window gateway.Window) (string, error) {
	args := m.Called(ctx, author, window)
	return args.String(0), args.Error(1)
}

// window matches a gateway.Window by its "since..until" form.
func window(s string) interface{} {
	return mock.MatchedBy(func(w gateway.Window) bool { return w.String() == s })
}

const sampleLog = "---COMMIT---\nfeat: add api\n---FILES---\nA\tsrc/services/api.ts\n" +
	"---COMMIT---\ndocs: drop readme\n---FILES---\nD\tdocs/readme.md\n"

func newTestBatch(fetcher gateway.Fetcher) (*Batch, *bytes.Buffer) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	out := &bytes.Buffer{}
	gen := report.NewGenerator(classifier.Default(), report.Options{})
	return NewBatch(fetcher, parser.New(logger), gen, logger, out), out
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestBatch_Run_Weekly(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "drafts")
	fetcher := new(mockFetcher)
	fetcher.On("FetchLog", mock.Anything, "dev", window("2025-07-08..2025-07-14")).Return(sampleLog, nil)
	fetcher.On("FetchLog", mock.Anything, "dev", window("2025-07-01..2025-07-07")).
		Return("", &gateway.FetchError{Stderr: "fatal: bad revision", Err: errors.New("exit status 128")})

	batch, out := newTestBatch(fetcher)
	summary, err := batch.Run(context.Background(), BatchOptions{
		Author:      "dev",
		Granularity: domain.Weekly,
		Start:       day(t, "2025-07-14"),
		Stop:        day(t, "2025-07-01"),
		OutputDir:   dir,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Written)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, []float64{2}, summary.CommitCounts)
	assert.Equal(t, []float64{2}, summary.FileCounts)
	assert.Equal(t, []string{"worklog_summary_2025-07-08_to_2025-07-14.md"}, listDir(t, dir))

	content, err := os.ReadFile(filepath.Join(dir, "worklog_summary_2025-07-08_to_2025-07-14.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "# 📅 Worklog - 2025-07-08 to 2025-07-14")
	assert.Contains(t, string(content), "- `src/services/api.ts`")

	assert.Contains(t, out.String(), "[Week 1] 2025-07-08 to 2025-07-14")
	assert.Contains(t, out.String(), "[Week 2] 2025-07-01 to 2025-07-07")
	assert.Contains(t, out.String(), "git log failed, skipping this week.")
	assert.Contains(t, out.String(), "1 written, 0 empty, 1 failed")
	assert.Contains(t, out.String(), "mean 2.00, median 2.00")
	fetcher.AssertExpectations(t)
}

func TestBatch_Run_DailySkipsEmptyDays(t *testing.T) {
	dir := t.TempDir()
	fetcher := new(mockFetcher)
	fetcher.On("FetchLog", mock.Anything, "dev", window("2025-07-03")).Return(sampleLog, nil)
	fetcher.On("FetchLog", mock.Anything, "dev", window("2025-07-02")).Return("", nil)
	fetcher.On("FetchLog", mock.Anything, "dev", window("2025-07-01")).Return("---COMMIT---\n\n---FILES---\n", nil)

	batch, out := newTestBatch(fetcher)
	summary, err := batch.Run(context.Background(), BatchOptions{
		Author:      "dev",
		Granularity: domain.Daily,
		Start:       day(t, "2025-07-03"),
		Stop:        day(t, "2025-07-01"),
		OutputDir:   dir,
		SkipEmpty:   false,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 1, summary.Written)
	assert.Equal(t, 2, summary.Empty)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, []string{"worklog_2025-07-03.md"}, listDir(t, dir))
	assert.Contains(t, out.String(), "[Day 2] 2025-07-02")
	assert.Contains(t, out.String(), "No activity, skipping.")
	fetcher.AssertExpectations(t)
}

func TestBatch_Run_WeeklyEmptyBuckets(t *testing.T) {
	testCases := []struct {
		name          string
		skipEmpty     bool
		expectedFiles []string
		expectedEmpty int
	}{
		{name: "written by default", skipEmpty: false, expectedFiles: []string{"worklog_summary_2025-07-01_to_2025-07-07.md"}},
		{name: "dropped with skip empty", skipEmpty: true, expectedFiles: []string{}, expectedEmpty: 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			fetcher := new(mockFetcher)
			fetcher.On("FetchLog", mock.Anything, "dev", window("2025-07-01..2025-07-07")).Return("", nil)

			batch, _ := newTestBatch(fetcher)
			summary, err := batch.Run(context.Background(), BatchOptions{
				Author:      "dev",
				Granularity: domain.Weekly,
				Start:       day(t, "2025-07-07"),
				Stop:        day(t, "2025-07-01"),
				OutputDir:   dir,
				SkipEmpty:   tc.skipEmpty,
			})

			require.NoError(t, err)
			assert.Equal(t, tc.expectedFiles, listDir(t, dir))
			assert.Equal(t, tc.expectedEmpty, summary.Empty)
			if !tc.skipEmpty {
				content, err := os.ReadFile(filepath.Join(dir, tc.expectedFiles[0]))
				require.NoError(t, err)
				assert.Contains(t, string(content), "No commits in this period.")
			}
		})
	}
}

func TestBatch_Run_OverwritesExistingReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "worklog_2025-07-01.md")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	fetcher := new(mockFetcher)
	fetcher.On("FetchLog", mock.Anything, "dev", window("2025-07-01")).Return(sampleLog, nil)

	batch, _ := newTestBatch(fetcher)
	_, err := batch.Run(context.Background(), BatchOptions{
		Author:      "dev",
		Granularity: domain.Daily,
		Start:       day(t, "2025-07-01"),
		Stop:        day(t, "2025-07-01"),
		OutputDir:   dir,
	})

	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "stale")
	assert.Contains(t, string(content), "feat: add api")
}

func TestBatch_Run_WriteFailureContinues(t *testing.T) {
	dir := t.TempDir()
	// A directory squatting on the report name makes the write fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "worklog_2025-07-02.md"), 0o755))

	fetcher := new(mockFetcher)
	fetcher.On("FetchLog", mock.Anything, "dev", mock.Anything).Return(sampleLog, nil)

	batch, out := newTestBatch(fetcher)
	summary, err := batch.Run(context.Background(), BatchOptions{
		Author:      "dev",
		Granularity: domain.Daily,
		Start:       day(t, "2025-07-02"),
		Stop:        day(t, "2025-07-01"),
		OutputDir:   dir,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Written)
	assert.FileExists(t, filepath.Join(dir, "worklog_2025-07-01.md"))
	assert.Contains(t, out.String(), "Failed to save")
}

func TestBatch_Run_DryRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-created")
	fetcher := new(mockFetcher)
	fetcher.On("FetchLog", mock.Anything, "dev", window("2025-07-01")).Return(sampleLog, nil)

	batch, out := newTestBatch(fetcher)
	summary, err := batch.Run(context.Background(), BatchOptions{
		Author:      "dev",
		Granularity: domain.Daily,
		Start:       day(t, "2025-07-01"),
		Stop:        day(t, "2025-07-01"),
		OutputDir:   dir,
		DryRun:      true,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "worklog_2025-07-01.md")}, summary.Files)
	assert.NoDirExists(t, dir)
	assert.Contains(t, out.String(), "Would write:")
	assert.Contains(t, out.String(), "(2 commits, 2 files)")
}

func TestBatch_Run_Errors(t *testing.T) {
	t.Run("start before stop", func(t *testing.T) {
		fetcher := new(mockFetcher)
		batch, _ := newTestBatch(fetcher)

		summary, err := batch.Run(context.Background(), BatchOptions{
			Author:      "dev",
			Granularity: domain.Weekly,
			Start:       day(t, "2025-07-01"),
			Stop:        day(t, "2025-08-01"),
			OutputDir:   t.TempDir(),
		})

		assert.True(t, errors.Is(err, ErrInvalidRange))
		assert.Nil(t, summary)
		fetcher.AssertNotCalled(t, "FetchLog", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("output directory cannot be created", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0o644))
		fetcher := new(mockFetcher)
		batch, _ := newTestBatch(fetcher)

		_, err := batch.Run(context.Background(), BatchOptions{
			Author:      "dev",
			Granularity: domain.Daily,
			Start:       day(t, "2025-07-01"),
			Stop:        day(t, "2025-07-01"),
			OutputDir:   filepath.Join(file, "drafts"),
		})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create output directory")
		fetcher.AssertNotCalled(t, "FetchLog", mock.Anything, mock.Anything, mock.Anything)
	})
}
