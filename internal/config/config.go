// Package config loads run settings from defaults, config files, .env
// files, WORKLOG_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/naka-gawa/git-worklog/internal/classifier"
	"github.com/naka-gawa/git-worklog/internal/domain"
)

// PlaceholderAuthor is the value shipped in example configs; it must be
// replaced before a run.
const PlaceholderAuthor = "your-git-username"

// EnvPrefix is prepended to every environment override, e.g. WORKLOG_AUTHOR.
const EnvPrefix = "WORKLOG"

// Config holds all configuration settings for one run.
type Config struct {
	Author       string `mapstructure:"author" yaml:"author"`
	Start        string `mapstructure:"start" yaml:"start"`
	Stop         string `mapstructure:"stop" yaml:"stop"`
	OutputDir    string `mapstructure:"output" yaml:"output"`
	RepoDir      string `mapstructure:"repo" yaml:"repo"`
	RulesFile    string `mapstructure:"rules" yaml:"rules"`
	SubjectOnly  bool   `mapstructure:"subject_only" yaml:"subject_only"`
	GroupCommits bool   `mapstructure:"group_commits" yaml:"group_commits"`
	SkipEmpty    bool   `mapstructure:"skip_empty" yaml:"skip_empty"`
	DryRun       bool   `mapstructure:"dry_run" yaml:"dry_run"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"author":        "author",
	"start":         "start",
	"stop":          "stop",
	"output":        "output",
	"repo":          "repo",
	"rules":         "rules",
	"subject-only":  "subject_only",
	"group-commits": "group_commits",
	"skip-empty":    "skip_empty",
	"dry-run":       "dry_run",
}

var now = time.Now

// DefaultOutputDir is the drafts directory used when none is configured.
func DefaultOutputDir(g domain.Granularity) string {
	if g == domain.Daily {
		return "Daily_Worklog_Drafts"
	}
	return "Weekly_Worklog_Drafts"
}

// Default returns default configuration.
func Default(g domain.Granularity) *Config {
	return &Config{
		Start:     now().Format(domain.DateLayout),
		OutputDir: DefaultOutputDir(g),
		RepoDir:   ".",
	}
}

// Load resolves the configuration. path may be empty, in which case
// .git-worklog.yaml is searched in the working and home directories.
// flags may be nil.
func Load(path string, flags *pflag.FlagSet, g domain.Granularity) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default(g)
	v.SetDefault("author", cfg.Author)
	v.SetDefault("start", cfg.Start)
	v.SetDefault("stop", cfg.Stop)
	v.SetDefault("output", cfg.OutputDir)
	v.SetDefault("repo", cfg.RepoDir)
	v.SetDefault("rules", cfg.RulesFile)
	v.SetDefault("subject_only", cfg.SubjectOnly)
	v.SetDefault("group_commits", cfg.GroupCommits)
	v.SetDefault("skip_empty", cfg.SkipEmpty)
	v.SetDefault("dry_run", cfg.DryRun)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".git-worklog")
		v.AddConfigPath(".")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(homeDir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence. Variables already
// present in the environment are never overwritten.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		homeEnvFile := filepath.Join(homeDir, ".git-worklog.env")
		if _, err := os.Stat(homeEnvFile); err == nil {
			_ = godotenv.Load(homeEnvFile)
		}
	}
}

// Dates parses the start and stop dates.
func (c *Config) Dates() (start, stop time.Time, err error) {
	start, err = time.Parse(domain.DateLayout, c.Start)
	if err != nil {
		return time.Time{}, time.Time{}, &ConfigError{Field: "start", Value: c.Start, Reason: "expected YYYY-MM-DD", Err: err}
	}
	stop, err = time.Parse(domain.DateLayout, c.Stop)
	if err != nil {
		return time.Time{}, time.Time{}, &ConfigError{Field: "stop", Value: c.Stop, Reason: "expected YYYY-MM-DD", Err: err}
	}
	return start, stop, nil
}

// Validate checks everything that must hold before any bucket is processed.
func (c *Config) Validate() error {
	author := strings.TrimSpace(c.Author)
	if author == "" || author == PlaceholderAuthor {
		return &ConfigError{Field: "author", Value: c.Author, Reason: "set your git author name (see `git config user.name`)"}
	}
	start, stop, err := c.Dates()
	if err != nil {
		return err
	}
	if start.Before(stop) {
		return &ConfigError{Field: "start", Value: c.Start, Reason: "must not be before stop date " + c.Stop}
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return &ConfigError{Field: "output", Reason: "output directory is required"}
	}
	return nil
}

// Classifier builds the path classifier from RulesFile, or the default
// rule set when none is configured.
func (c *Config) Classifier() (*classifier.Classifier, error) {
	if c.RulesFile == "" {
		return classifier.Default(), nil
	}
	cl, err := classifier.LoadRules(c.RulesFile)
	if err != nil {
		return nil, &ConfigError{Field: "rules", Value: c.RulesFile, Reason: "invalid rule set", Err: err}
	}
	return cl, nil
}
