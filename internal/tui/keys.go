package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Toggle   key.Binding
	Delete   key.Binding
	Add      key.Binding
	Reload   key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	MoveUp:   key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "move up")),
	MoveDown: key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "move down")),
	Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.MoveUp, k.MoveDown, k.Toggle, k.Delete, k.Add, k.Reload, k.Quit}
}
