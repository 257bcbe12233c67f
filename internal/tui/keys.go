package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle  key.Binding
	Refetch key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	out := make([]key.Binding, 0, 3)
	for _, b := range []key.Binding{k.Refetch, k.Toggle, k.Quit} {
		if b.Enabled() {
			out = append(out, b)
		}
	}
	return out
}

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func newKeyMap(withToggle bool) keyMap {
	k := keyMap{
		Toggle:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle query")),
		Refetch: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refetch")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	k.Toggle.SetEnabled(withToggle)
	return k
}
