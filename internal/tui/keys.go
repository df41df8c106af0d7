package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	NextPage key.Binding

	// Actions
	Quit    key.Binding
	Help    key.Binding
	Escape  key.Binding
	Search  key.Binding
	Submit  key.Binding
	Refresh key.Binding

	// Source visibility
	ToggleSteam  key.Binding
	ToggleGOG    key.Binding
	ToggleCustom key.Binding

	// Filters
	ToggleInstalled    key.Binding
	ToggleShared       key.Binding
	ToggleGames        key.Binding
	ToggleApplications key.Binding
	ToggleTools        key.Binding
	ToggleDemos        key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "load more"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave search"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "keep query"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),

		ToggleSteam: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "steam"),
		),
		ToggleGOG: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "gog"),
		),
		ToggleCustom: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "custom"),
		),

		ToggleInstalled: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "installed only"),
		),
		ToggleShared: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "shared"),
		),
		ToggleGames: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "games"),
		),
		ToggleApplications: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "applications"),
		),
		ToggleTools: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tools"),
		),
		ToggleDemos: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "demos"),
		),
	}
}

// HelpBindings returns the bindings shown in the help overlay, in display order.
func (k KeyMap) HelpBindings() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.PageDown, k.End, k.NextPage,
		k.Search, k.Escape, k.Refresh,
		k.ToggleSteam, k.ToggleGOG, k.ToggleCustom,
		k.ToggleInstalled, k.ToggleShared, k.ToggleGames, k.ToggleApplications, k.ToggleTools, k.ToggleDemos,
		k.Help, k.Quit,
	}
}
