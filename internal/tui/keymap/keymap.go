// Package keymap defines the key bindings of the task graph TUI. Bindings
// are declared once here and drive both input handling and the help view.
package keymap

import "github.com/charmbracelet/bubbles/key"

// Mode represents the current input mode of the TUI.
type Mode string

const (
	ModeNormal  Mode = "normal"  // Browsing the task list
	ModeInput   Mode = "input"   // Typing into the prompt line
	ModeConfirm Mode = "confirm" // Answering a yes/no question
)

// Keymap holds every binding of normal mode plus the prompt keys.
type Keymap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Leave key.Binding

	Select      key.Binding
	ClearSelect key.Binding

	Add      key.Binding
	Rename   key.Binding
	Describe key.Binding
	Delete   key.Binding

	ProgressUp   key.Binding
	ProgressDown key.Binding
	Done         key.Binding
	Priority     key.Binding
	Difficulty   key.Binding

	Link   key.Binding
	Unlink key.Binding

	New    key.Binding
	Open   key.Binding
	Save   key.Binding
	SaveAs key.Binding
	Reload key.Binding

	Help key.Binding
	Quit key.Binding

	// Prompt keys
	Yes    key.Binding
	No     key.Binding
	Submit key.Binding
	Cancel key.Binding
}

// Default returns the default bindings.
func Default() *Keymap {
	return &Keymap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Enter: key.NewBinding(key.WithKeys("enter", "right", "l"), key.WithHelp("enter", "open subtasks")),
		Leave: key.NewBinding(key.WithKeys("backspace", "left", "h"), key.WithHelp("⌫", "back to parent")),

		Select:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		ClearSelect: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),

		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Rename:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Describe: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit description")),
		Delete:   key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete subtree")),

		ProgressUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "progress +10")),
		ProgressDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "progress -10")),
		Done:         key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "mark done")),
		Priority:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "cycle priority")),
		Difficulty:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle difficulty")),

		Link:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "selected → depend")),
		Unlink: key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "remove dependencies")),

		New:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new project")),
		Open:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open")),
		Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		SaveAs: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "save as")),
		Reload: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload from disk")),

		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		No:     key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k *Keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Add, k.Done, k.Save, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap. Columns group navigation, editing,
// progress and files.
func (k *Keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Leave, k.Select, k.ClearSelect},
		{k.Add, k.Rename, k.Describe, k.Delete, k.Link, k.Unlink},
		{k.ProgressUp, k.ProgressDown, k.Done, k.Priority, k.Difficulty},
		{k.New, k.Open, k.Save, k.SaveAs, k.Reload, k.Help, k.Quit},
	}
}

// PromptHelp returns the bindings shown while a prompt is active.
func (k *Keymap) PromptHelp(mode Mode) []key.Binding {
	switch mode {
	case ModeConfirm:
		return []key.Binding{k.Yes, k.No}
	case ModeInput:
		return []key.Binding{k.Submit, k.Cancel}
	default:
		return k.ShortHelp()
	}
}
