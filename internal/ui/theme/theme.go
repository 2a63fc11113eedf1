// Package theme styles the terminal output of the projboard CLI.
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/projboard/internal/model"
)

// Theme defines the color scheme used by the CLI
type Theme struct {
	Name string

	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Border     lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Error     lipgloss.Color

	// Categories are assigned to configured categories in order, wrapping
	Categories []lipgloss.Color

	StatusPending   lipgloss.Color
	StatusStarted   lipgloss.Color
	StatusCompleted lipgloss.Color
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	theme Theme

	Title    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Position lipgloss.Style
	Empty    lipgloss.Style
	Error    lipgloss.Style

	Panel lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		theme: t,

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Width(11),

		Value: lipgloss.NewStyle().
			Foreground(t.Foreground),

		Position: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Width(3).
			Align(lipgloss.Right),

		Empty: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Italic(true),

		Error: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
	}
}

// Status returns the style for a project status badge
func (s Styles) Status(status model.Status) lipgloss.Style {
	color := s.theme.StatusPending
	switch status {
	case model.StatusStarted:
		color = s.theme.StatusStarted
	case model.StatusCompleted:
		color = s.theme.StatusCompleted
	}
	return lipgloss.NewStyle().Foreground(color)
}

// Category returns the heading style for the idx'th configured category
func (s Styles) Category(idx int) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true).Underline(true)
	if len(s.theme.Categories) == 0 {
		return style.Foreground(s.theme.Primary)
	}
	if idx < 0 {
		idx = 0
	}
	return style.Foreground(s.theme.Categories[idx%len(s.theme.Categories)])
}

// Default is the theme used when none is configured
var Default = Nord

// Available returns all available themes
func Available() []Theme {
	return []Theme{
		Nord,
		Gruvbox,
	}
}

// ByName returns a theme by its name
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}
