package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the viewer keybindings
type KeyMap struct {
	ToggleTouchpad    key.Binding
	ToggleAlternative key.Binding
	ToggleMiddlePan   key.Binding
	ToggleAutoDetect  key.Binding
	ToggleCursorZoom  key.Binding
	LockZoom          key.Binding
	LockPan           key.Binding
	Reset             key.Binding
	Cancel            key.Binding
	Help              key.Binding
	Quit              key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ToggleTouchpad: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "mouse/touchpad mode"),
		),
		ToggleAlternative: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "mouse/alternative mode"),
		),
		ToggleMiddlePan: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "middle-button pan"),
		),
		ToggleAutoDetect: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "touchpad auto-detect"),
		),
		ToggleCursorZoom: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "zoom around cursor"),
		),
		LockZoom: key.NewBinding(
			key.WithKeys("Z"),
			key.WithHelp("Z", "LockView zoom lock"),
		),
		LockPan: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "LockView pan lock"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset view"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel drag"),
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
	return []key.Binding{k.ToggleTouchpad, k.ToggleAlternative, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ToggleTouchpad, k.ToggleAlternative, k.ToggleAutoDetect},
		{k.ToggleMiddlePan, k.ToggleCursorZoom, k.Reset, k.Cancel},
		{k.LockZoom, k.LockPan},
		{k.Help, k.Quit},
	}
}
