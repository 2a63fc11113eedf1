package theme

import "github.com/charmbracelet/lipgloss"

// Gruvbox theme - Retro groove color scheme
// https://github.com/morhetz/gruvbox
var Gruvbox = Theme{
	Name: "gruvbox",

	Foreground: lipgloss.Color("#EBDBB2"),
	Subtle:     lipgloss.Color("#928374"),
	Border:     lipgloss.Color("#504945"),

	Primary:   lipgloss.Color("#83A598"), // Aqua
	Secondary: lipgloss.Color("#8EC07C"), // Green
	Error:     lipgloss.Color("#FB4934"), // Red

	Categories: []lipgloss.Color{
		lipgloss.Color("#FE8019"), // Orange
		lipgloss.Color("#83A598"), // Aqua
	},

	StatusPending:   lipgloss.Color("#FABD2F"), // Yellow
	StatusStarted:   lipgloss.Color("#83A598"), // Aqua
	StatusCompleted: lipgloss.Color("#B8BB26"), // Green
}
