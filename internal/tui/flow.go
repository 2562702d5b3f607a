package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/taskgraph/internal/i18n"
	"github.com/Iron-Ham/taskgraph/internal/tui/keymap"
)

// prompt identifies what the prompt line is asking for.
type prompt int

const (
	promptNone prompt = iota
	promptYouSure
	promptSaveChanges
	promptSavePath
	promptOpenPath
	promptTaskName
	promptRename
	promptDescription
)

// fileAction is a workspace command started from the TUI.
type fileAction int

const (
	actionNew fileAction = iota
	actionOpen
	actionReload
	actionSave
	actionSaveAs
	actionQuit
)

func (a fileAction) confirms() bool {
	return a == actionNew || a == actionOpen || a == actionReload || a == actionQuit
}

// scriptedDialogs answers workspace prompts from answers collected in
// advance by the TUI. Workspace commands are synchronous, while the TUI can
// only ask between Update calls, so the TUI asks first and replays.
type scriptedDialogs struct {
	answers  []bool
	openPath string
	savePath string
	messages []string
}

func (d *scriptedDialogs) Ask(context.Context, string, string) (bool, error) {
	if len(d.answers) == 0 {
		return false, nil
	}
	a := d.answers[0]
	d.answers = d.answers[1:]
	return a, nil
}

func (d *scriptedDialogs) Message(_ context.Context, _, message string) error {
	d.messages = append(d.messages, message)
	return nil
}

func (d *scriptedDialogs) PickOpen(context.Context, string) (string, error) {
	return d.openPath, nil
}

func (d *scriptedDialogs) PickSave(context.Context, string) (string, error) {
	return d.savePath, nil
}

// pendingCommand is a file command whose prompts are being collected.
type pendingCommand struct {
	action  fileAction
	path    string // for actionReload
	dialogs *scriptedDialogs
	gotSave bool
	gotOpen bool
}

// startFile begins a file command, asking the unsaved-changes questions
// first when they apply.
func (m *Model) startFile(action fileAction, path string) tea.Cmd {
	m.pending = &pendingCommand{action: action, path: path, dialogs: &scriptedDialogs{}}
	if action.confirms() && m.ws.File.IsDirty() {
		m.ask(promptYouSure)
		return nil
	}
	return m.collect()
}

// collect asks for whichever paths the pending command still needs, then
// runs it.
func (m *Model) collect() tea.Cmd {
	p := m.pending
	needsSave := p.action == actionSaveAs ||
		(p.action == actionSave && m.ws.File.Path() == "")
	if needsSave && !p.gotSave {
		m.askInput(promptSavePath, "")
		return nil
	}
	if p.action == actionOpen && !p.gotOpen {
		m.askInput(promptOpenPath, "")
		return nil
	}
	return m.execute()
}

func (m *Model) ask(p prompt) {
	m.prompt = p
	m.mode = keymap.ModeConfirm
}

func (m *Model) askInput(p prompt, value string) {
	m.prompt = p
	m.mode = keymap.ModeInput
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Placeholder = ""
	m.input.SetSuggestions(nil)
	switch p {
	case promptOpenPath:
		if m.ws.Recent != nil {
			m.input.SetSuggestions(m.ws.Recent.Files())
		}
	case promptSavePath:
		m.input.Placeholder = "project." + m.ws.Extension
	}
	m.input.Focus()
}

func (m *Model) endPrompt() {
	m.prompt = promptNone
	m.mode = keymap.ModeNormal
	m.input.Blur()
	m.input.SetValue("")
}

// answer handles y/n for the confirmation prompts.
func (m *Model) answer(yes bool) tea.Cmd {
	p := m.pending
	if p == nil {
		m.endPrompt()
		return nil
	}
	p.dialogs.answers = append(p.dialogs.answers, yes)
	switch m.prompt {
	case promptYouSure:
		if !yes {
			// The workspace sees the refusal and cancels.
			return m.execute()
		}
		m.ask(promptSaveChanges)
		return nil
	case promptSaveChanges:
		if yes && m.ws.File.Path() == "" {
			m.askInput(promptSavePath, "")
			return nil
		}
		// A known path is saved to directly, so no save path is needed.
		p.gotSave = p.gotSave || yes
	}
	return m.collect()
}

// submit handles enter on an input prompt.
func (m *Model) submit(value string) tea.Cmd {
	switch m.prompt {
	case promptSavePath:
		m.pending.dialogs.savePath = value
		m.pending.gotSave = true
		if value == "" {
			return m.execute()
		}
		return m.collect()
	case promptOpenPath:
		m.pending.dialogs.openPath = value
		m.pending.gotOpen = true
		return m.collect()
	default:
		m.applyText(m.prompt, value)
		m.endPrompt()
		return nil
	}
}

// execute runs the pending command against the workspace with the collected
// answers.
func (m *Model) execute() tea.Cmd {
	p := m.pending
	m.pending = nil
	m.endPrompt()

	prev := m.ws.Dialogs
	m.ws.Dialogs = p.dialogs
	defer func() { m.ws.Dialogs = prev }()

	ctx := m.ctx
	var (
		ok  bool
		err error
	)
	switch p.action {
	case actionNew:
		ok, err = m.ws.New(ctx)
	case actionOpen:
		var path string
		path, err = m.ws.Open(ctx)
		ok = path != ""
	case actionReload:
		ok, err = m.ws.OpenRecent(ctx, p.path)
	case actionSave:
		ok, err = m.ws.Save(ctx)
	case actionSaveAs:
		var path string
		path, err = m.ws.SaveAs(ctx)
		ok = path != ""
	case actionQuit:
		ok, err = m.ws.ConfirmClose(ctx)
	}

	switch {
	case err != nil:
		m.setError(err.Error())
	case len(p.dialogs.messages) > 0:
		m.setError(p.dialogs.messages[len(p.dialogs.messages)-1])
	case ok && (p.action == actionSave || p.action == actionSaveAs):
		m.setStatus(m.text.T(i18n.KeySaved) + ": " + m.ws.File.Path())
	case ok && p.action != actionQuit:
		m.setStatus("")
	}

	if ok && p.action == actionQuit {
		m.quitting = true
		return tea.Quit
	}
	if ok && p.action != actionSave && p.action != actionSaveAs {
		m.cursor, m.offset = 0, 0
	}
	m.clampCursor()
	return m.titleCmd()
}
