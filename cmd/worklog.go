package cmd

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/git-worklog/internal/config"
	"github.com/naka-gawa/git-worklog/internal/domain"
	"github.com/naka-gawa/git-worklog/internal/gateway"
	"github.com/naka-gawa/git-worklog/internal/parser"
	"github.com/naka-gawa/git-worklog/internal/report"
	"github.com/naka-gawa/git-worklog/internal/usecase"
)

func newWeeklyCmd() *cobra.Command {
	weeklyCmd := &cobra.Command{
		Use:   "weekly",
		Short: "Writes one worklog draft per week",
		Long: `Walks back from --start to --stop in seven day windows and writes one
worklog_summary_<start>_to_<end>.md per week. The oldest week is cut short at --stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorklog(cmd, domain.Weekly)
		},
	}
	weeklyCmd.Flags().Bool("skip-empty", false, "Do not write drafts for weeks without activity")
	return weeklyCmd
}

func newDailyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Writes one worklog draft per day with activity",
		Long: `Walks back from --start to --stop one day at a time and writes
worklog_<date>.md for every day with at least one commit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorklog(cmd, domain.Daily)
		},
	}
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

func runWorklog(cmd *cobra.Command, g domain.Granularity) error {
	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	logger := newLogger(cmd.ErrOrStderr(), verbose)

	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags(), g)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	start, stop, err := cfg.Dates()
	if err != nil {
		return err
	}
	cl, err := cfg.Classifier()
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"author": cfg.Author,
		"repo":   cfg.RepoDir,
		"output": cfg.OutputDir,
	}).Debug("Configuration loaded")
	for i, r := range cl.Rules() {
		logger.WithFields(logrus.Fields{
			"match":    r.Match,
			"patterns": r.Patterns,
			"label":    r.Label,
		}).Debugf("Rule %d", i+1)
	}
	logger.WithField("fallback", cl.Fallback()).Debug("Rules loaded")

	// Inject dependencies and run the main business logic.
	fetcher := gateway.NewGitGateway(gateway.Options{
		RepoDir:     cfg.RepoDir,
		SubjectOnly: cfg.SubjectOnly,
	}, logger)
	generator := report.NewGenerator(cl, report.Options{GroupCommits: cfg.GroupCommits})
	batch := usecase.NewBatch(fetcher, parser.New(logger), generator, logger, cmd.OutOrStdout())

	_, err = batch.Run(context.Background(), usecase.BatchOptions{
		Author:      cfg.Author,
		Granularity: g,
		Start:       start,
		Stop:        stop,
		OutputDir:   cfg.OutputDir,
		SkipEmpty:   cfg.SkipEmpty,
		DryRun:      cfg.DryRun,
	})
	return err
}
