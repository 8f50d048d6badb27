package tui

import "github.com/charmbracelet/bubbles/key"

type browserKeys struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Enter    key.Binding
	Toggle   key.Binding
	Confirm  key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newBrowserKeys(multi bool) browserKeys {
	k := browserKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "left"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "right"), key.WithHelp("pgdn", "page down")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/pick")),
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Confirm:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "confirm")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	if multi {
		k.Enter.SetHelp("enter", "open/toggle")
	} else {
		k.Toggle.SetEnabled(false)
		k.Confirm.SetEnabled(false)
	}
	return k
}

func (k browserKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Toggle, k.Confirm, k.Quit, k.Help}
}

func (k browserKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Enter, k.Toggle, k.Confirm, k.Refresh},
		{k.Help, k.Quit},
	}
}

type skinKeys struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Apply    key.Binding
	Yes      key.Binding
	No       key.Binding
	About    key.Binding
	Quit     key.Binding
}

func newSkinKeys() skinKeys {
	return skinKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "down")),
		PageUp:   key.NewBinding(key.WithKeys("left", "pgup"), key.WithHelp("←", "page up")),
		PageDown: key.NewBinding(key.WithKeys("right", "pgdown"), key.WithHelp("→", "page down")),
		Apply:    key.NewBinding(key.WithKeys("enter", "g"), key.WithHelp("enter/g", "save")),
		Yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "restart now")),
		No:       key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "not now")),
		About:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "about")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "close")),
	}
}

func (k skinKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Apply, k.About, k.Quit}
}

func (k skinKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.PageUp, k.PageDown}, {k.Apply, k.About, k.Quit}}
}
