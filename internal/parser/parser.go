// Package parser turns raw git log output into a bucket's Activity.
package parser

import (
	"strings"

	"github.com/naka-gawa/git-worklog/internal/domain"
	"github.com/sirupsen/logrus"
)

// Delimiters written by the git log pretty format. They must match the
// format string built by the gateway.
const (
	CommitDelimiter = "---COMMIT---"
	FilesDelimiter  = "---FILES---"
)

// Parser splits raw log text into commits and per-status file sets.
type Parser struct {
	logger *logrus.Logger
}

// New creates a Parser that reports dropped records through logger.
func New(logger *logrus.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse never fails. Malformed chunks and lines are logged and dropped.
func (p *Parser) Parse(raw string) *domain.Activity {
	activity := domain.NewActivity()
	if strings.TrimSpace(raw) == "" {
		return activity
	}

	for i, chunk := range strings.Split(raw, CommitDelimiter) {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		parts := strings.Split(chunk, FilesDelimiter)
		if len(parts) != 2 {
			p.logger.WithFields(logrus.Fields{
				"chunk": i,
				"parts": len(parts),
			}).Warn("Dropping malformed commit record")
			continue
		}

		if msg := normalizeMessage(parts[0]); msg != "" {
			activity.Commits.Add(msg)
		}
		p.parseFiles(activity, parts[1])
	}
	return activity
}

func (p *Parser) parseFiles(activity *domain.Activity, block string) {
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		token, path, ok := strings.Cut(line, "\t")
		if !ok {
			p.logger.WithField("line", line).Warn("Dropping file line without a tab separator")
			continue
		}
		status, ok := domain.ParseStatus(strings.TrimSpace(token))
		if !ok {
			// Renames and copies carry two paths and a score, e.g. R100.
			p.logger.WithField("line", line).Debug("Skipping unsupported status token")
			continue
		}
		path = DecodePath(path)
		if path == "" {
			p.logger.WithField("line", line).Warn("Dropping file line with an empty path")
			continue
		}
		activity.AddFile(status, path)
	}
}

// normalizeMessage trims the message and unifies line endings.
func normalizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	return strings.TrimSpace(msg)
}
