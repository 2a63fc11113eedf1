package theme

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dori/projboard/internal/model"
)

// RenderBoard lays out active projects as one list per category
func (s Styles) RenderBoard(projects []model.Project, categories []string) string {
	grouped := model.GroupByCategory(projects, categories)

	sections := make([]string, 0, len(categories))
	for i, category := range categories {
		var b strings.Builder
		b.WriteString(s.Category(i).Render(category))
		b.WriteString("\n")

		list := grouped[category]
		if len(list) == 0 {
			b.WriteString(s.Empty.Render("  nothing here yet"))
		}
		for j, p := range list {
			if j > 0 {
				b.WriteString("\n")
			}
			b.WriteString(s.renderLine(p))
		}
		sections = append(sections, b.String())
	}
	return strings.Join(sections, "\n\n")
}

func (s Styles) renderLine(p model.Project) string {
	marker := "○"
	if p.IsStarted() {
		marker = "●"
	}
	return fmt.Sprintf("%s %s %s %s",
		s.Position.Render(fmt.Sprint(p.Position)),
		s.Status(p.Status).Render(marker),
		s.Value.Render(p.Name),
		s.Empty.Render(fmt.Sprintf("#%d", p.ID)),
	)
}

// RenderDetails renders the header block for a single project
func (s Styles) RenderDetails(p *model.Project) string {
	rows := []string{
		s.Title.Render(p.Name),
		s.row("Category", p.Category),
		s.Label.Render("Status") + s.Status(p.Status).Render(p.Status.String()),
		s.row("Created", formatDate(&p.CreationTime)),
		s.row("Started", formatDate(p.StartTime)),
		s.row("Completed", formatDate(p.CompletionTime)),
	}
	if d := p.Duration(); d > 0 {
		rows = append(rows, s.row("Took", d.Round(time.Minute).String()))
	}
	return s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (s Styles) row(label, value string) string {
	return s.Label.Render(label) + s.Value.Render(value)
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
