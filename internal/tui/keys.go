package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Enter    key.Binding
	Up       key.Binding
	Down     key.Binding
	Complete key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "ausführen"),
	),
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "älter"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "neuer"),
	),
	// Handled by the text input; listed for the help view only.
	Complete: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "vervollständigen"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "hilfe"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "beenden"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Complete, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Enter, k.Complete},
		{k.Up, k.Down},
		{k.Help, k.Quit},
	}
}
