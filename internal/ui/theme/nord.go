package theme

import "github.com/charmbracelet/lipgloss"

// Nord theme - Arctic, north-bluish color palette
// https://www.nordtheme.com/
var Nord = Theme{
	Name: "nord",

	Foreground: lipgloss.Color("#ECEFF4"),
	Subtle:     lipgloss.Color("#4C566A"),
	Border:     lipgloss.Color("#4C566A"),

	Primary:   lipgloss.Color("#88C0D0"), // Nord8
	Secondary: lipgloss.Color("#81A1C1"), // Nord9
	Error:     lipgloss.Color("#BF616A"), // Nord11

	// Same pair as the web timeline
	Categories: []lipgloss.Color{
		lipgloss.Color("#E19F42"),
		lipgloss.Color("#4299E1"),
	},

	StatusPending:   lipgloss.Color("#EBCB8B"), // Yellow
	StatusStarted:   lipgloss.Color("#88C0D0"), // Cyan
	StatusCompleted: lipgloss.Color("#A3BE8C"), // Green
}
