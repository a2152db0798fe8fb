package report

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CommitGroup is one conventional commit type with its messages.
type CommitGroup struct {
	Type     string
	Messages []string
}

// commitTypes is the display order of recognised conventional commit types.
var commitTypes = []string{"Feat", "Fix", "Refactor", "Docs", "Chore", "Style", "Test", "Others"}

var conventionalPrefix = regexp.MustCompile(`^\s*(\w+)(?:\([\w\s-]+\))?!?:\s*`)

// classifyCommit returns the commit type and the message with a recognised
// type prefix stripped. Unrecognised messages keep their full text.
func classifyCommit(msg string) (string, string) {
	m := conventionalPrefix.FindStringSubmatchIndex(msg)
	if m == nil {
		return "Others", msg
	}
	kind := cases.Title(language.English).String(msg[m[2]:m[3]])
	rest := strings.TrimSpace(msg[m[1]:])
	if rest == "" || !isKnownType(kind) {
		return "Others", msg
	}
	return kind, rest
}

func isKnownType(kind string) bool {
	for _, t := range commitTypes {
		if t == kind {
			return true
		}
	}
	return false
}

// GroupCommits buckets sorted messages by type. Empty types are omitted
// and messages are deduplicated after the prefix is stripped.
func GroupCommits(messages []string) []CommitGroup {
	byType := make(map[string][]string)
	seen := make(map[string]bool)
	for _, msg := range messages {
		kind, text := classifyCommit(msg)
		key := kind + "\x00" + text
		if seen[key] {
			continue
		}
		seen[key] = true
		byType[kind] = append(byType[kind], text)
	}

	var groups []CommitGroup
	for _, kind := range commitTypes {
		if msgs := byType[kind]; len(msgs) > 0 {
			groups = append(groups, CommitGroup{Type: kind, Messages: sortStrings(msgs)})
		}
	}
	return groups
}
