package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Board actions
	Compose key.Binding
	Delete  key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Date windows
	WindowAll   key.Binding
	WindowToday key.Binding
	WindowWeek  key.Binding
	WindowMonth key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Compose: key.NewBinding(
			key.WithKeys("n", "c"),
			key.WithHelp("n", "new announcement"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete", "x"),
			key.WithHelp("d", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "save & quit"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		WindowAll: key.NewBinding(
			key.WithKeys("1", "a"),
			key.WithHelp("1", "all"),
		),
		WindowToday: key.NewBinding(
			key.WithKeys("2", "t"),
			key.WithHelp("2", "today"),
		),
		WindowWeek: key.NewBinding(
			key.WithKeys("3", "w"),
			key.WithHelp("3", "last 7 days"),
		),
		WindowMonth: key.NewBinding(
			key.WithKeys("4", "m"),
			key.WithHelp("4", "last 30 days"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Compose, k.Delete, k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Compose, k.Delete},
		{k.WindowAll, k.WindowToday, k.WindowWeek, k.WindowMonth},
		{k.Command, k.Help, k.Back, k.Quit},
	}
}
