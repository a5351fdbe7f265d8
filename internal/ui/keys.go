package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts for the application.
// Related bindings (Up/Down, Left/Right) share help text since they appear
// as a single row in the footer.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Space key.Binding
	Home  key.Binding
	End   key.Binding

	// Actions
	Enter     key.Binding
	Details   key.Binding
	More      key.Binding
	Fewer     key.Binding
	Copy      key.Binding
	Refresh   key.Binding
	Back      key.Binding
	Quit      key.Binding
	Search    key.Binding
	Backspace key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/↓ j/k", "move"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↑/↓ j/k", "move"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/→ h/l", "collapse/expand"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("←/→ h/l", "collapse/expand"),
		),
		Space: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Details: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "details"),
		),
		More: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+/-", "more/fewer"),
		),
		Fewer: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("+/-", "more/fewer"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy email"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
		),
	}
}

// chartHelp lists the bindings shown in the chart footer.
func (k KeyMap) chartHelp() []key.Binding {
	return []key.Binding{k.Up, k.Left, k.Search, k.More, k.Details, k.Copy, k.Back, k.Quit}
}

// pickerHelp lists the bindings shown on the view pickers.
func (k KeyMap) pickerHelp() []key.Binding {
	return []key.Binding{k.Up, k.Enter, k.Back, k.Quit}
}
