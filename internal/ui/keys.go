package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	NextView   key.Binding
	PrevView   key.Binding
	Back       key.Binding
	Refresh    key.Binding
	Instances  key.Binding

	// View switching
	ViewLibrary     key.Binding
	ViewMissing     key.Binding
	ViewQueue       key.Binding
	ViewCalendar    key.Binding
	ViewUnmonitored key.Binding
	ViewStatus      key.Binding
	ViewSearch      key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Actions
	Open      key.Binding
	Remove    key.Binding
	Blocklist key.Binding
	Confirm   key.Binding
	Toggle    key.Binding
	Left      key.Binding
	Right     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous view"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close / back"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),
		Instances: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "Switch instance"),
		),

		ViewLibrary: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Library"),
		),
		ViewMissing: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Missing"),
		),
		ViewQueue: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Queue"),
		),
		ViewCalendar: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Calendar"),
		),
		ViewUnmonitored: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "Unmonitored"),
		),
		ViewStatus: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "Status"),
		),
		ViewSearch: key.NewBinding(
			key.WithKeys("/", "a"),
			key.WithHelp("/", "Search and add"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("ctrl+u", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("ctrl+d", "Page down"),
		),

		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Details / add"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Remove queue item"),
		),
		Blocklist: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Remove and blocklist"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "Confirm"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Toggle option"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("h/left", "Previous choice"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("l/right", "Next choice"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings grouped for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ViewLibrary, k.ViewMissing, k.ViewQueue, k.ViewCalendar, k.ViewUnmonitored, k.ViewStatus, k.ViewSearch, k.NextView},
		{k.Up, k.Down, k.Top, k.Bottom, k.PageDown, k.PageUp},
		{k.Open, k.Remove, k.Blocklist, k.Toggle, k.Left, k.Right},
		{k.Refresh, k.Instances, k.CycleTheme, k.Back, k.Help, k.Quit},
	}
}

var helpSectionTitles = []string{"Views", "Navigation", "Actions", "General"}
