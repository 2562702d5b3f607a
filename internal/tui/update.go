package tui

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/taskgraph/internal/i18n"
	"github.com/Iron-Ham/taskgraph/internal/task"
	"github.com/Iron-Ham/taskgraph/internal/tui/keymap"
)

// progressStep is how much +/- changes a leaf's progress.
const progressStep = 10

// fileChangedMsg reports that another program changed or removed the open
// project file.
type fileChangedMsg struct {
	path    string
	removed bool
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-30, 10)
		return m, nil

	case fileChangedMsg:
		if !samePath(msg.path, m.ws.File.Path()) {
			return m, nil
		}
		if msg.removed {
			m.setError(m.text.T(i18n.KeyRemovedOnDisk))
		} else {
			m.setError(m.text.T(i18n.KeyChangedOnDisk) + " (" + m.text.T(i18n.KeyReloadHint) + ")")
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case keymap.ModeConfirm:
			return m, m.handleConfirmKey(msg)
		case keymap.ModeInput:
			return m, m.handleInputKey(msg)
		default:
			return m, m.handleNormalKey(msg)
		}
	}

	if m.mode == keymap.ModeInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Yes):
		return m.answer(true)
	case key.Matches(msg, m.keys.No):
		return m.answer(false)
	}
	return nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.pending = nil
		m.endPrompt()
		return nil
	case key.Matches(msg, m.keys.Submit):
		return m.submit(strings.TrimSpace(m.input.Value()))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m.startFile(actionQuit, "")
	case key.Matches(msg, k.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, k.Down):
		if m.cursor < len(m.engine.VisibleTasks())-1 {
			m.cursor++
		}
	case key.Matches(msg, k.Enter):
		if t, ok := m.current(); ok && m.engine.EnterParent(t.ID) {
			m.cursor, m.offset = 0, 0
		}
	case key.Matches(msg, k.Leave):
		m.leaveParent()

	case key.Matches(msg, k.Select):
		m.toggleSelection()
	case key.Matches(msg, k.ClearSelect):
		m.engine.UpdateSelection(nil, nil)

	case key.Matches(msg, k.Add):
		m.askInput(promptTaskName, "")
	case key.Matches(msg, k.Rename):
		if t, ok := m.current(); ok {
			m.editTaskID = t.ID
			m.askInput(promptRename, t.Name)
		}
	case key.Matches(msg, k.Describe):
		if t, ok := m.current(); ok {
			m.editTaskID = t.ID
			m.askInput(promptDescription, t.Description)
		}
	case key.Matches(msg, k.Delete):
		if t, ok := m.current(); ok {
			removed := m.engine.DeleteTask(t.ID)
			m.setStatus(fmt.Sprintf("deleted %d task(s)", len(removed)))
			m.clampCursor()
		}

	case key.Matches(msg, k.ProgressUp):
		m.stepProgress(progressStep)
	case key.Matches(msg, k.ProgressDown):
		m.stepProgress(-progressStep)
	case key.Matches(msg, k.Done):
		m.engine.MarkTasksAsDone(m.targets())
	case key.Matches(msg, k.Priority):
		if t, ok := m.current(); ok {
			m.engine.UpdatePriority(t.ID, nextPriority(t.Priority))
		}
	case key.Matches(msg, k.Difficulty):
		if t, ok := m.current(); ok {
			m.engine.UpdateDifficulty(t.ID, nextDifficulty(t.Difficulty))
		}

	case key.Matches(msg, k.Link):
		m.link()
	case key.Matches(msg, k.Unlink):
		m.unlink()

	case key.Matches(msg, k.New):
		return m.startFile(actionNew, "")
	case key.Matches(msg, k.Open):
		return m.startFile(actionOpen, "")
	case key.Matches(msg, k.Save):
		return m.startFile(actionSave, "")
	case key.Matches(msg, k.SaveAs):
		return m.startFile(actionSaveAs, "")
	case key.Matches(msg, k.Reload):
		if path := m.ws.File.Path(); path != "" {
			return m.startFile(actionReload, path)
		}
	}
	return nil
}

// leaveParent moves up one level and puts the cursor on the task that was
// left.
func (m *Model) leaveParent() {
	left, ok := m.engine.ActiveParent()
	if !ok || !m.engine.LeaveParent() {
		return
	}
	m.cursor = 0
	for i, t := range m.engine.VisibleTasks() {
		if t.ID == left {
			m.cursor = i
			break
		}
	}
}

func (m *Model) toggleSelection() {
	t, ok := m.current()
	if !ok {
		return
	}
	ids := m.engine.SelectedTaskIDs()
	if i := slices.Index(ids, t.ID); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	} else {
		ids = append(ids, t.ID)
	}
	m.engine.UpdateTaskSelection(ids)
}

// targets returns the selected task ids, or the cursor task when nothing is
// selected.
func (m *Model) targets() []string {
	if ids := m.engine.SelectedTaskIDs(); len(ids) > 0 {
		return ids
	}
	if t, ok := m.current(); ok {
		return []string{t.ID}
	}
	return nil
}

func (m *Model) stepProgress(delta float64) {
	t, ok := m.current()
	if !ok {
		return
	}
	if m.engine.HasChildren(t.ID) {
		m.setError(m.text.T(i18n.KeyComputed))
		return
	}
	v := min(max(t.Progress+delta, task.ProgressMin), task.ProgressDone)
	m.engine.UpdateProgress(t.ID, v)
}

// link makes the cursor task depend on every selected task.
func (m *Model) link() {
	t, ok := m.current()
	if !ok {
		return
	}
	added := 0
	for _, dep := range m.engine.SelectedTaskIDs() {
		if dep == t.ID || t.DependsOn(dep) {
			continue
		}
		m.engine.AddDependency(dep, t.ID)
		added++
	}
	m.setStatus(fmt.Sprintf("%s: +%d", t.Name, added))
}

// unlink removes the selected tasks from the cursor task's dependencies, or
// all of them when nothing is selected.
func (m *Model) unlink() {
	t, ok := m.current()
	if !ok {
		return
	}
	deps := m.engine.SelectedTaskIDs()
	if len(deps) == 0 {
		deps = t.DependencyTasks
	}
	removed := 0
	for _, dep := range deps {
		if t.DependsOn(dep) {
			m.engine.RemoveDependency(dep, t.ID)
			removed++
		}
	}
	m.setStatus(fmt.Sprintf("%s: -%d", t.Name, removed))
}

// applyText finishes the task text prompts.
func (m *Model) applyText(p prompt, value string) {
	switch p {
	case promptTaskName:
		if value == "" {
			return
		}
		parent, _ := m.engine.ActiveParent()
		m.engine.CreateTask(task.Form{
			Name:         value,
			Priority:     task.PriorityMedium,
			Difficulty:   task.DifficultyNormal,
			ParentTaskID: task.ParentRef(parent),
		})
		m.cursor = len(m.engine.VisibleTasks()) - 1
	case promptRename:
		if value != "" {
			m.engine.UpdateName(m.editTaskID, value)
		}
	case promptDescription:
		m.engine.UpdateDescription(m.editTaskID, value)
	}
	m.editTaskID = ""
}

func nextPriority(p int) int {
	if p < task.PriorityCritical || p >= task.PriorityNone {
		return task.PriorityCritical
	}
	return p + 1
}

func nextDifficulty(d float64) float64 {
	switch d {
	case task.DifficultyEasy:
		return task.DifficultyNormal
	case task.DifficultyNormal:
		return task.DifficultyHard
	case task.DifficultyHard:
		return task.DifficultyEasy
	default:
		return task.DifficultyNormal
	}
}
