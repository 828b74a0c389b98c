package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorTeal   = lipgloss.AdaptiveColor{Dark: "#3CBAA2", Light: "#23806E"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
	ColorStripe = lipgloss.AdaptiveColor{Dark: "#282828", Light: "#C0C0C0"}
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps help and command palette content.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// RowStyle is the base style for announcement rows.
var RowStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// StripedRowStyle alternates with RowStyle.
var StripedRowStyle = RowStyle.
	Background(ColorStripe)

// SelectedRowStyle highlights the focused announcement.
var SelectedRowStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// DateStyle renders an announcement's creation date.
var DateStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// DeleteHintStyle renders the per-row delete affordance.
var DeleteHintStyle = lipgloss.NewStyle().
	Foreground(ColorRed)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// WindowTabStyle returns the style for a date window tab.
func WindowTabStyle(active bool) lipgloss.Style {
	base := lipgloss.NewStyle().
		Padding(0, 1).
		MarginRight(1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	if active {
		return base.
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorGreen).
			BorderForeground(ColorGreen)
	}
	return base.Foreground(ColorTeal)
}
