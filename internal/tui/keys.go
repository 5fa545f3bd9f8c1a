package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines keybindings for the TUI
type KeyMap struct {
	mode string

	Up     key.Binding
	Down   key.Binding
	Raise  key.Binding
	Lower  key.Binding
	Toggle key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

// NewKeyMap creates a new keymap for the given mode
func NewKeyMap(mode string) *KeyMap {
	if mode == "" {
		mode = "vim"
	}

	k := &KeyMap{
		mode: mode,
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Raise: key.NewBinding(
			key.WithKeys("shift+down"),
			key.WithHelp("shift+↓", "raise priority"),
		),
		Lower: key.NewBinding(
			key.WithKeys("shift+up"),
			key.WithHelp("shift+↑", "lower priority"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}

	if mode == "vim" {
		k.Up = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k", "up"))
		k.Down = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j", "down"))
		k.Raise = key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "raise priority"))
		k.Lower = key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "lower priority"))
	}

	return k
}

// Mode returns the current keybinding mode
func (k *KeyMap) Mode() string {
	return k.mode
}

// IsUp returns true if the key is an "up" navigation key
func (k *KeyMap) IsUp(msg tea.KeyMsg) bool {
	return key.Matches(msg, k.Up)
}

// IsDown returns true if the key is a "down" navigation key
func (k *KeyMap) IsDown(msg tea.KeyMsg) bool {
	return key.Matches(msg, k.Down)
}

// IsRaise returns true if the key raises the selected entry's priority
func (k *KeyMap) IsRaise(msg tea.KeyMsg) bool {
	return key.Matches(msg, k.Raise)
}

// IsLower returns true if the key lowers the selected entry's priority
func (k *KeyMap) IsLower(msg tea.KeyMsg) bool {
	return key.Matches(msg, k.Lower)
}

// IsToggle returns true if the key toggles the selected entry
func (k *KeyMap) IsToggle(msg tea.KeyMsg) bool {
	return key.Matches(msg, k.Toggle)
}

// IsCancel returns true if the key is a cancel/back key
func (k *KeyMap) IsCancel(msg tea.KeyMsg) bool {
	return key.Matches(msg, k.Cancel)
}

// IsQuit returns true if the key is a quit key
func (k *KeyMap) IsQuit(msg tea.KeyMsg) bool {
	return key.Matches(msg, k.Quit)
}
