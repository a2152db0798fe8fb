// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/naka-gawa/git-worklog/internal/domain"
	"github.com/naka-gawa/git-worklog/internal/gateway"
	"github.com/naka-gawa/git-worklog/internal/parser"
	"github.com/naka-gawa/git-worklog/internal/report"
)

// BatchOptions describes one batch run.
type BatchOptions struct {
	Author      string
	Granularity domain.Granularity
	Start       time.Time
	Stop        time.Time
	OutputDir   string
	// SkipEmpty drops weekly reports for buckets without activity; by
	// default they are written with the no-commits marker. Daily buckets
	// without activity are always skipped.
	SkipEmpty bool
	// DryRun reports what would be written without touching the disk.
	DryRun bool
}

// Batch is the use case for producing worklog drafts bucket by bucket.
// It orchestrates fetching, parsing, rendering and writing.
type Batch struct {
	fetcher   gateway.Fetcher
	parser    *parser.Parser
	generator *report.Generator
	logger    *logrus.Logger
	out       io.Writer
}

// NewBatch creates a new Batch instance. Progress is printed to out.
func NewBatch(fetcher gateway.Fetcher, p *parser.Parser, g *report.Generator, logger *logrus.Logger, out io.Writer) *Batch {
	return &Batch{
		fetcher:   fetcher,
		parser:    p,
		generator: g,
		logger:    logger,
		out:       out,
	}
}

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed)
)

// Run processes every bucket sequentially. Only an invalid range or an
// unusable output directory abort the run; per-bucket failures are
// counted in the summary.
func (b *Batch) Run(ctx context.Context, opts BatchOptions) (*domain.BatchSummary, error) {
	buckets, err := PlanBuckets(opts.Granularity, opts.Start, opts.Stop)
	if err != nil {
		return nil, err
	}
	if !opts.DryRun {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", opts.OutputDir, err)
		}
	}

	fmt.Fprintf(b.out, "--- Processing %s worklogs for %s: %s back to %s ---\n",
		opts.Granularity, opts.Author, opts.Start.Format(domain.DateLayout), opts.Stop.Format(domain.DateLayout))

	summary := &domain.BatchSummary{}
	for i, bucket := range buckets {
		summary.Processed++
		fmt.Fprintf(b.out, "\n[%s %d] %s\n", unitTitle(opts.Granularity), i+1, bucket.Label())
		b.processBucket(ctx, opts, bucket, summary)
	}

	b.printSummary(summary)
	return summary, nil
}

func (b *Batch) processBucket(ctx context.Context, opts BatchOptions, bucket domain.Bucket, summary *domain.BatchSummary) {
	log := b.logger.WithField("bucket", bucket.Label())

	raw, err := b.fetcher.FetchLog(ctx, opts.Author, gateway.WindowFor(bucket))
	if err != nil {
		log.WithError(err).Warn("Fetching git log failed")
		failColor.Fprintf(b.out, "  > ❌ git log failed, skipping this %s.\n", unitName(opts.Granularity))
		summary.Failed++
		return
	}

	activity := b.parser.Parse(raw)
	if activity.IsEmpty() && (opts.Granularity == domain.Daily || opts.SkipEmpty) {
		warnColor.Fprintf(b.out, "  > 💤 No activity, skipping.\n")
		summary.Empty++
		return
	}

	doc, err := b.generator.Generate(bucket.Label(), activity)
	if err != nil {
		log.WithError(err).Error("Rendering worklog failed")
		failColor.Fprintf(b.out, "  > ❌ Rendering failed: %v\n", err)
		summary.Failed++
		return
	}

	path := filepath.Join(opts.OutputDir, bucket.FileName())
	if opts.DryRun {
		okColor.Fprintf(b.out, "  > 📝 Would write: %s (%d commits, %d files)\n", path, len(activity.Commits), activity.FileCount())
		summary.RecordWritten(path, activity)
		return
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		log.WithError(err).Error("Writing worklog failed")
		failColor.Fprintf(b.out, "  > ❌ Failed to save: %v\n", err)
		summary.Failed++
		return
	}
	log.WithFields(logrus.Fields{
		"path":    path,
		"commits": len(activity.Commits),
		"files":   activity.FileCount(),
	}).Debug("Worklog written")
	okColor.Fprintf(b.out, "  > ✅ Saved: %s\n", path)
	summary.RecordWritten(path, activity)
}

func (b *Batch) printSummary(s *domain.BatchSummary) {
	fmt.Fprintf(b.out, "\n--- Batch complete: %d buckets, %d written, %d empty, %d failed ---\n",
		s.Processed, s.Written, s.Empty, s.Failed)
	if s.Written == 0 {
		return
	}
	for _, row := range []struct {
		name string
		data stats.Float64Data
	}{
		{"Commits per report", s.CommitCounts},
		{"Files per report", s.FileCounts},
	} {
		mean, err := row.data.Mean()
		if err != nil {
			continue
		}
		median, err := row.data.Median()
		if err != nil {
			continue
		}
		fmt.Fprintf(b.out, "%-19s mean %.2f, median %.2f\n", row.name+":", mean, median)
	}
}

func unitName(g domain.Granularity) string {
	if g == domain.Daily {
		return "day"
	}
	return "week"
}

func unitTitle(g domain.Granularity) string {
	if g == domain.Daily {
		return "Day"
	}
	return "Week"
}
