package keys

import "github.com/charmbracelet/bubbles/key"

// MonitorKeys are the key bindings for the interactive monitor
type MonitorKeys struct {
	Quit        key.Binding
	Help        key.Binding
	InsertMode  key.Binding
	Escape      key.Binding
	Clear       key.Binding
	ToggleTable key.Binding
}

func NewMonitorKeys() MonitorKeys {
	return MonitorKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		InsertMode: key.NewBinding(
			key.WithKeys("i", "I"),
			key.WithHelp("i", "insert mode"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "normal mode"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear history"),
		),
		ToggleTable: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle table view"),
		),
	}
}

func (k MonitorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.InsertMode, k.Clear, k.Quit}
}

func (k MonitorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.InsertMode, k.Escape, k.Clear, k.ToggleTable},
		{k.Help, k.Quit},
	}
}
