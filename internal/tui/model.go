// Package tui is the interactive terminal front end: a Bubble Tea program
// that browses one level of the task forest at a time and edits it through
// the graph engine, with file commands routed through a project workspace.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/taskgraph/internal/graph"
	"github.com/Iron-Ham/taskgraph/internal/i18n"
	"github.com/Iron-Ham/taskgraph/internal/project"
	"github.com/Iron-Ham/taskgraph/internal/task"
	"github.com/Iron-Ham/taskgraph/internal/tui/keymap"
	"github.com/Iron-Ham/taskgraph/internal/tui/styles"
)

// Options configures the model.
type Options struct {
	Theme       string
	ShowBlocked bool
}

// Model is the Bubble Tea model of the TUI.
type Model struct {
	ctx    context.Context
	ws     *project.Workspace
	engine *graph.Engine
	text   i18n.Localizer

	keys   *keymap.Keymap
	styles *styles.Styles
	help   help.Model
	input  textinput.Model

	mode        keymap.Mode
	prompt      prompt
	pending     *pendingCommand
	editTaskID  string
	showHelp    bool
	showBlocked bool

	cursor int
	offset int
	width  int
	height int

	status    string
	statusErr bool
	titles    *titleSink
	quitting  bool
}

// titleSink receives window titles from the workspace so Update can turn
// them into tea.SetWindowTitle commands.
type titleSink struct {
	title   string
	changed bool
}

func (s *titleSink) SetTitle(title string) {
	s.title = title
	s.changed = true
}

// New creates the model. It installs itself as the workspace's title
// receiver.
func New(ctx context.Context, ws *project.Workspace, opts Options) *Model {
	input := textinput.New()
	input.CharLimit = 0
	input.ShowSuggestions = true

	m := &Model{
		ctx:         ctx,
		ws:          ws,
		engine:      ws.Engine,
		text:        ws.Text,
		keys:        keymap.Default(),
		styles:      styles.ForTheme(opts.Theme),
		help:        help.New(),
		input:       input,
		mode:        keymap.ModeNormal,
		showBlocked: opts.ShowBlocked,
		width:       80,
		height:      24,
		titles:      &titleSink{},
	}
	ws.Title = m.titles
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.SetWindowTitle(m.ws.WindowTitle())
}

// current returns the task under the cursor.
func (m *Model) current() (task.Task, bool) {
	visible := m.engine.VisibleTasks()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return task.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.engine.VisibleTasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(msg string) {
	m.status, m.statusErr = msg, false
}

func (m *Model) setError(msg string) {
	m.status, m.statusErr = msg, true
}

// titleCmd flushes a pending window title change.
func (m *Model) titleCmd() tea.Cmd {
	if !m.titles.changed {
		return nil
	}
	m.titles.changed = false
	return tea.SetWindowTitle(m.titles.title)
}
