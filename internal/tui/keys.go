package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/mmcdole/infigrid/internal/tui/components"
)

// KeyMap defines all key bindings for the application
type KeyMap struct {
	Grid components.GridKeyMap

	// Actions
	Reset key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Grid: components.DefaultGridKeyMap(),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grid.Down, k.Reset, k.Grid.Filter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Grid.Up, k.Grid.Down, k.Grid.Left, k.Grid.Right},
		{k.Grid.HalfUp, k.Grid.HalfDown, k.Grid.PageUp, k.Grid.PageDown},
		{k.Grid.Home, k.Grid.End, k.Grid.Filter, k.Grid.Escape},
		{k.Reset, k.Help, k.Quit},
	}
}
