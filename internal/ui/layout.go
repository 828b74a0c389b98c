package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/sap-board/internal/model"
	"github.com/nhle/sap-board/internal/theme"
)

// Layout manages the terminal frame: header, window tabs, content, status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	TabsHeight      int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		TabsHeight:      3,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height left for the main content area.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.TabsHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader renders the title bar with a right-aligned status.
func (l Layout) RenderHeader(title string, status string) string {
	return fillBar(theme.HeaderStyle, l.Width, title, status)
}

// RenderWindowTabs renders one tab per date window, highlighting active.
func (l Layout) RenderWindowTabs(active model.Window) string {
	tabs := make([]string, 0, len(model.Windows))
	for i, w := range model.Windows {
		label := string(rune('1'+i)) + " " + w.Label()
		tabs = append(tabs, theme.WindowTabStyle(w == active).Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	return fillBar(theme.StatusBarStyle, l.Width, hints, "")
}

// RenderWithFrame stacks header, tabs, content and status bar.
func (l Layout) RenderWithFrame(header, tabs, content, statusBar string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		tabs,
		content,
		statusBar,
	)
}

// fillBar renders left and right text in style, padding the gap between
// them with the style's background so the bar spans width.
func fillBar(style lipgloss.Style, width int, left, right string) string {
	leftRendered := style.Render(left)
	rightRendered := ""
	if right != "" {
		rightRendered = style.Align(lipgloss.Right).Render(right)
	}

	gap := width - lipgloss.Width(leftRendered) - lipgloss.Width(rightRendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, leftRendered, filler, rightRendered)
}
