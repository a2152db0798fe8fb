// Package domain contains the core data structures and domain logic for the application.
package domain

import "sort"

// Status is the single-letter change marker git attaches to a file line.
type Status string

const (
	StatusAdded    Status = "A"
	StatusModified Status = "M"
	StatusDeleted  Status = "D"
)

// ParseStatus maps a raw status token to a supported Status.
// Rename, copy and type-change tokens are not supported.
func ParseStatus(token string) (Status, bool) {
	switch Status(token) {
	case StatusAdded, StatusModified, StatusDeleted:
		return Status(token), true
	}
	return "", false
}

// StringSet is an unordered set of strings with sorted iteration.
type StringSet map[string]struct{}

// Add inserts s into the set.
func (s StringSet) Add(v string) {
	s[v] = struct{}{}
}

// Has reports whether v is in the set.
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in lexicographic order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Activity holds everything parsed from one bucket's git log output.
// Each set is deduplicated on its own, so a path may show up in more
// than one of Added, Modified and Deleted.
type Activity struct {
	Commits  StringSet
	Added    StringSet
	Modified StringSet
	Deleted  StringSet
}

// NewActivity returns an Activity with all sets initialised.
func NewActivity() *Activity {
	return &Activity{
		Commits:  StringSet{},
		Added:    StringSet{},
		Modified: StringSet{},
		Deleted:  StringSet{},
	}
}

// AddFile records path under the set matching status.
func (a *Activity) AddFile(status Status, path string) {
	switch status {
	case StatusAdded:
		a.Added.Add(path)
	case StatusModified:
		a.Modified.Add(path)
	case StatusDeleted:
		a.Deleted.Add(path)
	}
}

// FileCount is the total number of entries across the three file sets.
func (a *Activity) FileCount() int {
	return len(a.Added) + len(a.Modified) + len(a.Deleted)
}

// IsEmpty reports whether no commit and no file was recorded.
func (a *Activity) IsEmpty() bool {
	return len(a.Commits) == 0 && a.FileCount() == 0
}
