package ui

import "github.com/charmbracelet/lipgloss"

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // Cyan/green - for titles, improvements
	ColorHighlight = "205" // Magenta - for borders
	ColorDanger    = "196" // Red - for failing streaks, stop banner
	ColorMuted     = "241" // Gray - for dimmed text, hints
	ColorText      = "252" // Light gray - for normal text
	ColorWarning   = "208" // Orange - for neutral updates
)

// Styles contains shared style definitions used across the monitor views.
var Styles = struct {
	Title   lipgloss.Style // Bold accent color - for the header
	Box     lipgloss.Style // Rounded border around the scrollback
	Good    lipgloss.Style // Improving updates
	Warn    lipgloss.Style // Neutral (non-improving) updates
	Bad     lipgloss.Style // Failing updates and the stop banner
	Muted   lipgloss.Style // Hints and dimmed text
	Normal  lipgloss.Style // Normal text
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 1),
	Good: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Warn: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)),
	Bad: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
}
