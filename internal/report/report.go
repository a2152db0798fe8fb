// Package report renders a bucket's Activity into a markdown worklog draft.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/naka-gawa/git-worklog/internal/classifier"
	"github.com/naka-gawa/git-worklog/internal/domain"
)

// Placeholder headings left for manual or downstream completion.
var placeholders = []string{
	"🚀 Pending Deployments",
	"📊 Work Statistics",
	"🎯 Quality Assurance",
	"🎉 Key Achievements",
	"🎊 Summary",
}

// Generator builds worklog documents. It performs no I/O.
type Generator struct {
	classifier   *classifier.Classifier
	groupCommits bool
	tmpl         *template.Template
}

// Options configures a Generator.
type Options struct {
	// GroupCommits splits commits by conventional commit type.
	GroupCommits bool
}

// NewGenerator creates a Generator that groups manifests with c.
func NewGenerator(c *classifier.Classifier, opts Options) *Generator {
	return &Generator{
		classifier:   c,
		groupCommits: opts.GroupCommits,
		tmpl: template.Must(template.New("worklog").Funcs(template.FuncMap{
			"bullet": bullet,
			"files":  files,
		}).Parse(worklogTemplate)),
	}
}

type manifest struct {
	Heading string
	Groups  []classifier.Group
}

// templateData holds all data for the worklog template.
type templateData struct {
	Label        string
	HasCommits   bool
	Commits      []string
	CommitGroups []CommitGroup
	Manifests    []manifest
	Placeholders []string
}

// Generate renders the document for one bucket. Output is byte-identical
// for identical inputs.
func (g *Generator) Generate(label string, a *domain.Activity) (string, error) {
	data := templateData{
		Label:        label,
		HasCommits:   len(a.Commits) > 0,
		Placeholders: placeholders,
	}
	if g.groupCommits {
		data.CommitGroups = GroupCommits(a.Commits.Sorted())
	} else {
		data.Commits = a.Commits.Sorted()
	}

	sections := []struct {
		heading string
		set     domain.StringSet
	}{
		{"📦 Created Files", a.Added},
		{"🔧 Modified Files", a.Modified},
		{"🗑️ Deleted Files", a.Deleted},
	}
	for _, s := range sections {
		if len(s.set) == 0 {
			continue
		}
		data.Manifests = append(data.Manifests, manifest{
			Heading: s.heading,
			Groups:  g.classifier.Group(s.set.Sorted()),
		})
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render worklog for %s: %w", label, err)
	}
	return buf.String(), nil
}

// bullet renders a possibly multi-line message as one list item. Inner
// lines become markdown hard breaks indented under the bullet; blank lines
// start a new paragraph inside the item.
func bullet(msg string) string {
	var b strings.Builder
	b.WriteString("- ")
	prev := ""
	for i, line := range strings.Split(msg, "\n") {
		line = strings.TrimRight(line, " \t")
		if i == 0 {
			b.WriteString(line)
			prev = line
			continue
		}
		if line != "" && prev != "" {
			b.WriteString("  ")
		}
		b.WriteString("\n")
		if line != "" {
			b.WriteString("  " + line)
		}
		prev = line
	}
	return b.String()
}

const fileCountKey = "%d files"

var messages = newCatalog()

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder()
	if err := b.Set(language.English, fileCountKey, plural.Selectf(1, "%d",
		plural.One, "%d file",
		plural.Other, "%d files",
	)); err != nil {
		panic(err)
	}
	return b
}

// files formats a manifest group's file count with English plural rules.
func files(n int) string {
	return message.NewPrinter(language.English, message.Catalog(messages)).Sprintf(fileCountKey, n)
}

const worklogTemplate = `# 📅 Worklog - {{ .Label }}

## ✅ Completed Tasks (Commits)

*(Summarize the commits below into 'Task 1: ...', 'Task 2: ...')*

{{ if not .HasCommits -}}
No commits in this period.

{{ else if .CommitGroups -}}
{{ range .CommitGroups -}}
### {{ .Type }}:
{{ range .Messages -}}
{{ bullet . }}
{{ end }}
{{ end -}}
{{ else -}}
{{ range .Commits -}}
{{ bullet . }}
{{ end }}
{{ end -}}
{{ range .Manifests -}}
## {{ .Heading }}

{{ range .Groups -}}
### {{ .Label }} ({{ files .Count }})
{{ range .Paths -}}
- ` + "`{{ . }}`" + `
{{ end }}
{{ end -}}
{{ end -}}
{{ range $i, $p := .Placeholders -}}
{{ if $i }}
{{ end -}}
## {{ $p }}

*(to be filled in...)*
{{ end -}}
`

func sortStrings(v []string) []string {
	out := append([]string(nil), v...)
	sort.Strings(out)
	return out
}
