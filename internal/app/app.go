package app

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/sap-board/internal/board"
	"github.com/nhle/sap-board/internal/keys"
	"github.com/nhle/sap-board/internal/model"
	"github.com/nhle/sap-board/internal/ui"
	"github.com/nhle/sap-board/internal/ui/announcements"
	"github.com/nhle/sap-board/internal/ui/command"
	"github.com/nhle/sap-board/internal/ui/compose"
	helpview "github.com/nhle/sap-board/internal/ui/help"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewCompose
	ViewHelp
	ViewCommand
)

// Model is the root Bubble Tea model. It routes between views and
// translates their messages into Session handler calls; the Session is
// only ever touched from Update.
type Model struct {
	currentView   ViewState
	previousView  ViewState
	layout        ui.Layout
	session       *board.Session
	keys          *keys.KeyMap
	title         string
	announcements announcements.Model
	composeView   compose.Model
	helpView      helpview.Model
	commandView   command.Model
	statusMsg     string
	ready         bool
	quitting      bool
}

// New creates the root model over an opened session.
func New(s *board.Session, title string) Model {
	k := keys.DefaultKeyMap()
	m := Model{
		currentView:   ViewBoard,
		session:       s,
		keys:          k,
		title:         title,
		layout:        ui.NewLayout(80, 24),
		announcements: announcements.New(k, 80, 19),
		composeView:   compose.New(80, 19),
		helpView:      helpview.New(k, 80, 19),
		commandView:   command.New(80),
	}
	m.refresh()
	if skipped := len(s.LoadReport().Skipped); skipped > 0 {
		m.statusMsg = fmt.Sprintf("%d saved announcement(s) could not be restored and will be dropped on save", skipped)
	}
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Quitting reports whether the user asked to close the board.
func (m Model) Quitting() bool {
	return m.quitting
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.announcements.SetSize(w, h)
		m.composeView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w)
		return m.updateActiveView(msg)

	case announcements.WindowSelectedMsg:
		m.session.OnFilterSelect(msg.Window)
		m.statusMsg = ""
		m.refresh()
		return m, nil

	case announcements.DeleteConfirmedMsg:
		if err := m.session.OnDelete(msg.Position); err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", err)
		} else {
			m.statusMsg = "Announcement deleted"
		}
		m.refresh()
		return m, nil

	case announcements.ComposeRequestMsg:
		return m, m.openCompose()

	case compose.SubmittedMsg:
		m.currentView = ViewBoard
		return m, m.create(msg.Text)

	case compose.CancelMsg:
		m.currentView = ViewBoard
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}

		switch m.currentView {
		case ViewBoard:
			if m.announcements.Confirming() {
				break
			}
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m.quit()
			case key.Matches(msg, m.keys.Help):
				m.previousView = m.currentView
				m.currentView = ViewHelp
				return m, nil
			case key.Matches(msg, m.keys.Command):
				m.previousView = m.currentView
				m.currentView = ViewCommand
				return m, m.commandView.Focus()
			}

		case ViewHelp:
			if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) {
				m.currentView = m.previousView
				return m, nil
			}

		case ViewCommand:
			if key.Matches(msg, m.keys.Back) {
				m.currentView = m.previousView
				return m, nil
			}
		}
	}

	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewBoard:
		m.announcements, cmd = m.announcements.Update(msg)
	case ViewCompose:
		m.composeView, cmd = m.composeView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// create hands text to the session. Empty input is dropped without a
// message, the same as pressing create on an empty field.
func (m *Model) create(text string) tea.Cmd {
	_, err := m.session.OnCreate(text)
	switch {
	case errors.Is(err, board.ErrEmptyInput):
		return nil
	case err != nil:
		m.statusMsg = fmt.Sprintf("Error: %v", err)
		return nil
	}

	m.statusMsg = "Announcement created"
	m.refresh()
	return nil
}

func (m *Model) openCompose() tea.Cmd {
	m.previousView = ViewBoard
	m.currentView = ViewCompose
	return m.composeView.Start()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// refresh recomputes the visible rows after any change to the board or
// the window.
func (m *Model) refresh() {
	m.announcements.SetRows(m.session.Rows(), m.session.Window(), m.session.Len())
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "new", "create":
		return m.openCompose()
	case "help":
		m.previousView = ViewBoard
		m.currentView = ViewHelp
		return nil
	case "quit", "q", "exit":
		m.quitting = true
		return tea.Quit
	}

	w, err := model.ParseWindow(cmd)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Unknown command %q", cmd)
		return nil
	}
	m.session.OnFilterSelect(w)
	m.statusMsg = ""
	m.refresh()
	return nil
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.quitting {
		return ""
	}

	status := fmt.Sprintf("%s · %d of %d",
		m.session.Window().Label(),
		len(m.announcements.Rows()),
		m.session.Len(),
	)
	header := m.layout.RenderHeader(m.title, status)
	tabs := m.layout.RenderWindowTabs(m.session.Window())
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, tabs, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewCompose:
		return m.composeView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return m.announcements.View()
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewCompose:
		return "enter create | alt+enter newline | esc cancel"
	}

	if m.announcements.Confirming() {
		return "←/→ choose | enter confirm | esc cancel"
	}
	if m.statusMsg != "" {
		return m.statusMsg
	}
	return "q quit | ? help | n new | d delete | 1-4 window | : command"
}
