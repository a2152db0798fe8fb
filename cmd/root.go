// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "git-worklog",
		Short: "A CLI tool to draft worklogs from your git history.",
		Long: `git-worklog reads your commits from git log over a date range and writes
one markdown worklog draft per week or per day, listing commit messages and
the files you created, modified and deleted, grouped by project area.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: .git-worklog.yaml in . or $HOME)")
	rootCmd.PersistentFlags().StringP("author", "a", "", "Git author to filter commits by (required)")
	rootCmd.PersistentFlags().String("start", "", "Newest date to include, YYYY-MM-DD (default: today)")
	rootCmd.PersistentFlags().String("stop", "", "Oldest date to include, YYYY-MM-DD (required)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Directory for the generated drafts")
	rootCmd.PersistentFlags().String("repo", "", "Repository to read history from (default: .)")
	rootCmd.PersistentFlags().String("rules", "", "YAML file with path classification rules")
	rootCmd.PersistentFlags().Bool("subject-only", false, "List commit titles instead of full messages")
	rootCmd.PersistentFlags().Bool("group-commits", false, "Group commits by conventional commit type")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Print what would be written without writing files")

	rootCmd.AddCommand(newWeeklyCmd())
	rootCmd.AddCommand(newDailyCmd())
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
