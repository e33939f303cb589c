package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the shell key bindings.
type KeyMap struct {
	Add     key.Binding
	Input   key.Binding
	Leave   key.Binding
	Up      key.Binding
	Down    key.Binding
	Process key.Binding
	Export  key.Binding
	Remove  key.Binding
	Retry   key.Binding
	Reset   key.Binding
	Copy    key.Binding
	NextTab key.Binding
	Quit    key.Binding
}

// DefaultKeys are the bindings used by New.
var DefaultKeys = KeyMap{
	Add: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "add"),
	),
	Input: key.NewBinding(
		key.WithKeys("i", "a"),
		key.WithHelp("i", "edit input"),
	),
	Leave: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "leave input"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Process: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "process"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Remove: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "remove"),
	),
	Retry: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "retry"),
	),
	Reset: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reset"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy URL"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next tab"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k KeyMap) inputHelp() []key.Binding {
	return []key.Binding{k.Add, k.Leave}
}

func (k KeyMap) listHelp() []key.Binding {
	return []key.Binding{k.Input, k.Process, k.Export, k.Remove, k.Retry, k.Reset, k.Copy, k.NextTab, k.Quit}
}
