package announcements

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/sap-board/internal/filter"
	"github.com/nhle/sap-board/internal/keys"
	"github.com/nhle/sap-board/internal/model"
	"github.com/nhle/sap-board/internal/theme"
)

// WindowSelectedMsg asks the parent to switch the date window.
type WindowSelectedMsg struct {
	Window model.Window
}

// DeleteConfirmedMsg is sent once the user has confirmed deleting the
// announcement at Position.
type DeleteConfirmedMsg struct {
	Position int
}

// ComposeRequestMsg asks the parent to open the compose form.
type ComposeRequestMsg struct{}

type boardMode int

const (
	modeList boardMode = iota
	modeConfirmDelete
)

// formBindings keeps huh's Value pointers valid across model copies.
type formBindings struct {
	confirm bool
}

// Model renders the visible announcements and turns keys into board
// actions. It holds a projection of the board, never the board itself.
type Model struct {
	mode        boardMode
	keys        *keys.KeyMap
	rows        []filter.Row
	window      model.Window
	total       int
	selectedIdx int
	offset      int
	pending     filter.Row
	confirmForm *huh.Form
	fb          *formBindings
	width       int
	height      int
}

// New creates an empty announcement list.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:   modeList,
		keys:   k,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// SetRows replaces the rows shown under window. total is the size of the
// whole board, used for the empty-state text.
func (m *Model) SetRows(rows []filter.Row, window model.Window, total int) {
	m.rows = rows
	m.window = window
	m.total = total

	if m.selectedIdx >= len(m.rows) {
		m.selectedIdx = len(m.rows) - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
	m.clampOffset()
}

// Rows returns the rows currently shown.
func (m Model) Rows() []filter.Row {
	return m.rows
}

// Selected returns the focused row, if any.
func (m Model) Selected() (filter.Row, bool) {
	if len(m.rows) == 0 {
		return filter.Row{}, false
	}
	return m.rows[m.selectedIdx], true
}

// Confirming reports whether the delete prompt has focus.
func (m Model) Confirming() bool {
	return m.mode == modeConfirmDelete
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the announcement list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.mode == modeConfirmDelete {
		return m.updateConfirm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleListKey(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if len(m.rows) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.rows)
			m.clampOffset()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.rows) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.rows) - 1
			}
			m.clampOffset()
		}
		return m, nil

	case key.Matches(msg, m.keys.Compose):
		return m, func() tea.Msg { return ComposeRequestMsg{} }

	case key.Matches(msg, m.keys.Delete):
		row, ok := m.Selected()
		if !ok {
			return m, nil
		}
		m.pending = row
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()

	case key.Matches(msg, m.keys.WindowAll):
		return m, selectWindow(model.WindowAll)
	case key.Matches(msg, m.keys.WindowToday):
		return m, selectWindow(model.WindowToday)
	case key.Matches(msg, m.keys.WindowWeek):
		return m, selectWindow(model.WindowWeek)
	case key.Matches(msg, m.keys.WindowMonth):
		return m, selectWindow(model.WindowMonth)
	}
	return m, nil
}

func selectWindow(w model.Window) tea.Cmd {
	return func() tea.Msg { return WindowSelectedMsg{Window: w} }
}

func (m Model) buildConfirmForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Delete Announcement").
				Description(fmt.Sprintf("%q\n\nAre you sure?", preview(m.pending.Announcement.Text, 60))).
				Affirmative("Yes").
				Negative("No").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		m.mode = modeList
		return m, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keys.Back) {
		m.mode = modeList
		return m, nil
	}

	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}

	switch m.confirmForm.State {
	case huh.StateCompleted:
		m.mode = modeList
		if m.fb.confirm {
			position := m.pending.Position
			return m, func() tea.Msg { return DeleteConfirmedMsg{Position: position} }
		}
		return m, nil
	case huh.StateAborted:
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// View renders the list, or the delete prompt over it.
func (m Model) View() string {
	if m.mode == modeConfirmDelete && m.confirmForm != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.confirmForm.View())
	}
	if len(m.rows) == 0 {
		return m.renderEmptyState()
	}

	var b strings.Builder
	end := min(m.offset+m.visibleRows(), len(m.rows))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(i))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) renderRow(i int) string {
	row := m.rows[i]
	date := theme.DateStyle.Render(row.Announcement.CreatedDate.String())
	hint := ""
	if i == m.selectedIdx {
		hint = theme.DeleteHintStyle.Render(" [d] Delete")
	}

	textWidth := m.width - lipgloss.Width(date) - lipgloss.Width(hint) - 4
	if textWidth < 10 {
		textWidth = 10
	}
	text := lipgloss.NewStyle().
		Width(textWidth).
		MaxWidth(textWidth).
		Render(preview(row.Announcement.Text, textWidth))

	line := lipgloss.JoinHorizontal(lipgloss.Top, text, " ", date, hint)

	switch {
	case i == m.selectedIdx:
		return theme.SelectedRowStyle.Render(line)
	case i%2 == 1:
		return theme.StripedRowStyle.Render(line)
	default:
		return theme.RowStyle.Render(line)
	}
}

// renderEmptyState shows guidance text when nothing is visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.total > 0 {
		return style.Render(fmt.Sprintf(
			"No announcements in %s.\nPress 1 to show all %d.",
			strings.ToLower(m.window.Label()), m.total,
		))
	}
	return style.Render("No announcements yet.\n\nPress n to create one.")
}

// preview flattens text onto one line and cuts it to at most width runes.
func preview(text string, width int) string {
	flat := strings.Join(strings.Fields(text), " ")
	r := []rune(flat)
	if width > 1 && len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return flat
}

func (m Model) visibleRows() int {
	if m.height < 1 {
		return 1
	}
	return m.height
}

func (m *Model) clampOffset() {
	n := m.visibleRows()
	if m.selectedIdx < m.offset {
		m.offset = m.selectedIdx
	}
	if m.selectedIdx >= m.offset+n {
		m.offset = m.selectedIdx - n + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampOffset()
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}
