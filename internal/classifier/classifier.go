// Package classifier maps repository-relative file paths to category labels
// using an ordered list of prefix and suffix rules.
package classifier

import (
	"sort"
	"strings"
)

// Match is the kind of comparison a Rule performs.
type Match string

const (
	MatchPrefix Match = "prefix"
	MatchSuffix Match = "suffix"
)

// Category labels used by the default rule set.
const (
	LabelEdgeFunctions     = "Edge Functions"
	LabelMigrations        = "Database Migrations"
	LabelComponents        = "Components"
	LabelPages             = "Pages"
	LabelHooks             = "Hooks"
	LabelServices          = "Services"
	LabelTypes             = "Types"
	LabelDocs              = "Docs"
	LabelSQLScripts        = "SQL Scripts"
	LabelDeploymentScripts = "Deployment Scripts"
	LabelFrontendCore      = "Frontend Core"
	LabelOther             = "Other"
)

// Rule assigns Label to any path matching one of Patterns.
type Rule struct {
	Match    Match
	Patterns []string
	Label    string
}

func (r Rule) matches(path string) bool {
	for _, p := range r.Patterns {
		switch r.Match {
		case MatchPrefix:
			if strings.HasPrefix(path, p) {
				return true
			}
		case MatchSuffix:
			if strings.HasSuffix(path, p) {
				return true
			}
		}
	}
	return false
}

// Classifier evaluates rules in order; the first match wins.
type Classifier struct {
	rules    []Rule
	fallback string
}

// New creates a Classifier. An empty fallback becomes LabelOther.
func New(rules []Rule, fallback string) *Classifier {
	if fallback == "" {
		fallback = LabelOther
	}
	return &Classifier{rules: rules, fallback: fallback}
}

// Default returns the built-in rule set for a Supabase + React project.
// Specific source directories are checked before extensions, and the
// broad src/ prefix only after both.
func Default() *Classifier {
	return New([]Rule{
		{Match: MatchPrefix, Patterns: []string{"supabase/functions/"}, Label: LabelEdgeFunctions},
		{Match: MatchPrefix, Patterns: []string{"supabase/migrations/"}, Label: LabelMigrations},
		{Match: MatchPrefix, Patterns: []string{"src/components/"}, Label: LabelComponents},
		{Match: MatchPrefix, Patterns: []string{"src/pages/"}, Label: LabelPages},
		{Match: MatchPrefix, Patterns: []string{"src/hooks/"}, Label: LabelHooks},
		{Match: MatchPrefix, Patterns: []string{"src/services/"}, Label: LabelServices},
		{Match: MatchPrefix, Patterns: []string{"src/types/"}, Label: LabelTypes},
		{Match: MatchPrefix, Patterns: []string{"docs/"}, Label: LabelDocs},
		{Match: MatchSuffix, Patterns: []string{".sql"}, Label: LabelSQLScripts},
		{Match: MatchSuffix, Patterns: []string{".ps1", ".sh"}, Label: LabelDeploymentScripts},
		{Match: MatchPrefix, Patterns: []string{"src/"}, Label: LabelFrontendCore},
	}, LabelOther)
}

// Classify returns the label of the first rule matching path.
func (c *Classifier) Classify(path string) string {
	for _, r := range c.rules {
		if r.matches(path) {
			return r.Label
		}
	}
	return c.fallback
}

// Rules returns a copy of the configured rules.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Fallback returns the label used when no rule matches.
func (c *Classifier) Fallback() string {
	return c.fallback
}

// Group is one category of a file manifest section.
type Group struct {
	Label string
	Paths []string
}

// Count is the number of paths in the group.
func (g Group) Count() int {
	return len(g.Paths)
}

// Group sorts paths and buckets them by label. Groups appear in the order
// their label is first seen while walking the sorted paths.
func (c *Classifier) Group(paths []string) []Group {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	var groups []Group
	index := make(map[string]int)
	for _, p := range sorted {
		label := c.Classify(p)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Label: label})
		}
		groups[i].Paths = append(groups[i].Paths, p)
	}
	return groups
}
