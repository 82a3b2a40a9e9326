package pane

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Today   key.Binding
	Refresh key.Binding
	Back    key.Binding
	Log     key.Binding
	Config  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	var bindings []key.Binding
	for _, b := range []key.Binding{k.Enter, k.Up, k.Down, k.Today, k.Refresh, k.Back, k.Log, k.Config} {
		if b.Enabled() {
			bindings = append(bindings, b)
		}
	}
	return bindings
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit/open")),
		Today:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "today")),
		Refresh: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Log:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "log")),
		Config:  key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "config")),
	}
}

// selectKeys has no back binding, the select pane is the start pane
func selectKeys() keyMap {
	k := newKeyMap()
	k.Back.SetEnabled(false)
	return k
}

func timesKeys() keyMap {
	k := newKeyMap()
	k.Today.SetEnabled(false)
	k.Enter.SetHelp("enter", "append")
	return k
}

func utilKeys() keyMap {
	k := newKeyMap()
	k.Enter.SetEnabled(false)
	k.Today.SetEnabled(false)
	k.Log.SetEnabled(false)
	k.Config.SetEnabled(false)
	return k
}
