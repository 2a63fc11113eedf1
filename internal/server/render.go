package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templatesFS embed.FS

// parseTemplates loads every page and fragment. Each file is addressed by
// its base name, e.g. "list.html".
func (s *Server) parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"slug":     slug,
		"date":     formatDate,
		"dateptr":  formatDatePtr,
		"barStyle": barStyle,
		"catClass": func(category string) string {
			idx := s.categoryIndex(category)
			if idx < 0 {
				idx = 0
			}
			return fmt.Sprintf("cat-%d", idx%len(timelineColors))
		},
	}
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}

// slug turns a category name into a DOM id fragment
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 2, 2006")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatDate(*t)
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(extension.GFM))
}

// renderMarkdown converts notes to HTML and strips anything unsafe
func renderMarkdown(md goldmark.Markdown, policy *bluemonday.Policy, notes string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(notes), &buf); err != nil {
		return "", err
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil
}
