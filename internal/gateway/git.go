// Package gateway provides a gateway to the local git history,
// abstracting away how the git binary is invoked.
package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/git-worklog/internal/domain"
	"github.com/naka-gawa/git-worklog/internal/parser"
)

// Window is the inclusive calendar range passed to git log.
type Window struct {
	Since time.Time
	Until time.Time
}

// SingleDay returns a Window covering only d.
func SingleDay(d time.Time) Window {
	return Window{Since: d, Until: d}
}

// WindowFor returns the Window matching a bucket.
func WindowFor(b domain.Bucket) Window {
	return Window{Since: b.Start, Until: b.End}
}

func (w Window) String() string {
	since, until := w.Since.Format(domain.DateLayout), w.Until.Format(domain.DateLayout)
	if since == until {
		return since
	}
	return since + ".." + until
}

// Fetcher defines the behavior of a gateway for fetching history from git.
type Fetcher interface {
	// FetchLog returns the raw log text for author in window. An empty
	// string with a nil error means there was no activity.
	FetchLog(ctx context.Context, author string, window Window) (string, error)
}

// FetchError reports a git invocation that could not produce a log.
type FetchError struct {
	Window Window
	Stderr string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("git log for %s failed: %v: %s", e.Window, e.Err, e.Stderr)
	}
	return fmt.Sprintf("git log for %s failed: %v", e.Window, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Options configures a GitGateway.
type Options struct {
	// Binary is the git executable, "git" when empty.
	Binary string
	// RepoDir is the working tree to query, the current directory when empty.
	RepoDir string
	// SubjectOnly requests commit titles instead of full messages.
	SubjectOnly bool
}

// GitGateway is the concrete implementation of the Fetcher interface.
type GitGateway struct {
	binary      string
	repoDir     string
	subjectOnly bool
	logger      *logrus.Logger
}

// NewGitGateway is a constructor that creates a new instance of GitGateway.
func NewGitGateway(opts Options, logger *logrus.Logger) *GitGateway {
	binary := opts.Binary
	if binary == "" {
		binary = "git"
	}
	return &GitGateway{
		binary:      binary,
		repoDir:     opts.RepoDir,
		subjectOnly: opts.SubjectOnly,
		logger:      logger,
	}
}

// Args returns the git arguments used for author and window.
func (g *GitGateway) Args(author string, window Window) []string {
	message := "%B"
	if g.subjectOnly {
		message = "%s"
	}
	var args []string
	if g.repoDir != "" {
		args = append(args, "-C", g.repoDir)
	}
	return append(args,
		"log",
		"--author="+author,
		"--since="+window.Since.Format(domain.DateLayout)+" 00:00:00",
		"--until="+window.Until.Format(domain.DateLayout)+" 23:59:59",
		"--no-color",
		"--name-status",
		"--pretty=format:"+parser.CommitDelimiter+"%n"+message+"%n"+parser.FilesDelimiter,
	)
}

func (g *GitGateway) FetchLog(ctx context.Context, author string, window Window) (string, error) {
	args := g.Args(author, window)
	g.logger.WithField("args", strings.Join(args, " ")).Debug("Running git log")

	cmd := exec.CommandContext(ctx, g.binary, args...)
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return "", &FetchError{Window: window, Err: err}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", &FetchError{Window: window, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return "", &FetchError{Window: window, Err: err}
	}

	// Drain both pipes so a verbose stderr cannot block stdout.
	var stdout, stderr bytes.Buffer
	var eg errgroup.Group
	eg.Go(func() error {
		_, err := io.Copy(&stdout, stdoutPipe)
		return err
	})
	eg.Go(func() error {
		_, err := io.Copy(&stderr, stderrPipe)
		return err
	})
	readErr := eg.Wait()
	runErr := cmd.Wait()
	if runErr == nil && readErr != nil {
		runErr = readErr
	}

	return interpretResult(window, stdout.String(), stderr.String(), runErr)
}

// interpretResult separates "no activity" from genuine failures. git can
// exit nonzero without output for an empty range, so a nonzero exit is a
// failure only when stderr carries a diagnostic.
func interpretResult(window Window, stdout, stderr string, runErr error) (string, error) {
	if runErr == nil {
		return stdout, nil
	}
	diagnostic := strings.TrimSpace(stderr)
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) && diagnostic == "" {
		return "", nil
	}
	return "", &FetchError{Window: window, Stderr: diagnostic, Err: runErr}
}
