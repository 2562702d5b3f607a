package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/taskgraph/internal/i18n"
	"github.com/Iron-Ham/taskgraph/internal/task"
	"github.com/Iron-Ham/taskgraph/internal/tui/keymap"
	"github.com/Iron-Ham/taskgraph/internal/tui/styles"
	"github.com/Iron-Ham/taskgraph/internal/util"
)

// Layout constants
const (
	barWidth       = 12 // progress bar cells per row
	overallBar     = 24 // progress bar cells in the header
	rowFixedWidth  = 4 + barWidth + 6 + 12 + 6
	chromeHeight   = 6 // header, breadcrumb, overall, blank, prompt, status
	detailMaxLines = 8
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.styles

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(s.Breadcrumb.Render(m.breadcrumb()))
	b.WriteString("\n")
	b.WriteString(m.text.T(i18n.KeyOverallProgress) + " " + s.ProgressBar(m.engine.OverallProgress(), overallBar))
	b.WriteString("\n\n")

	detail := m.renderDetail()
	help := m.renderHelp()
	listHeight := m.height - chromeHeight - lipgloss.Height(detail) - lipgloss.Height(help)
	b.WriteString(m.renderList(max(listHeight, 3)))
	b.WriteString("\n")
	if detail != "" {
		b.WriteString(detail)
		b.WriteString("\n")
	}
	if line := m.renderPrompt(); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.status != "" {
		style := s.Muted
		if m.statusErr {
			style = s.Error
		}
		b.WriteString(style.Render(util.Truncate(m.status, m.width)))
		b.WriteString("\n")
	}
	b.WriteString(help)
	return b.String()
}

func (m *Model) renderHeader() string {
	s := m.styles
	header := s.Title.Render(m.ws.WindowTitle())
	if m.ws.File.IsDirty() {
		header += " " + s.Dirty.Render("● "+m.text.T(i18n.KeyUnsaved))
	}
	return header
}

// breadcrumb renders the path from the root to the active parent.
func (m *Model) breadcrumb() string {
	parent, ok := m.engine.ActiveParent()
	if !ok {
		return "/"
	}
	names := []string{}
	if t, found := m.engine.FindTaskByID(parent); found {
		names = append(names, t.Name)
	}
	for _, a := range m.engine.Ancestors(parent) {
		names = append(names, a.Name)
	}
	slices.Reverse(names)
	return "/ " + strings.Join(names, " / ")
}

func (m *Model) renderList(height int) string {
	s := m.styles
	visible := m.engine.VisibleTasks()
	if len(visible) == 0 {
		return s.Muted.Render(m.text.T(i18n.KeyNoTasks))
	}

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}
	end := min(m.offset+height, len(visible))

	selected := m.engine.SelectedTaskIDs()
	nameWidth := max(m.width-rowFixedWidth, 10)
	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.renderRow(visible[i], i == m.cursor, slices.Contains(selected, visible[i].ID), nameWidth))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderRow(t task.Task, isCursor, isSelected bool, nameWidth int) string {
	s := m.styles

	marker := "  "
	if isCursor {
		marker = s.Primary.Render("› ")
	}
	check := "  "
	if isSelected {
		check = s.SelectedRow.Render("◆ ")
	}

	name := t.Name
	if n := len(m.engine.FindTasksByParent(t.ID)); n > 0 {
		name += " " + s.ChildMarker.Render(fmt.Sprintf("▸%d", n))
	}
	nameStyle := s.Row
	switch {
	case isCursor:
		nameStyle = s.CursorRow
	case isSelected:
		nameStyle = s.SelectedRow
	}
	name = nameStyle.Render(util.PadRight(name, nameWidth))

	priority := lipgloss.NewStyle().
		Foreground(s.PriorityColor(t.Priority)).
		Render(util.PadRight(task.PriorityName(t.Priority), 9))

	row := marker + check + name + " " + s.ProgressBar(t.Progress, barWidth) + "  " + priority
	if m.showBlocked && m.engine.IsBlocked(t.ID) {
		row += " " + s.Blocked.Render(m.text.T(i18n.KeyBlocked))
	}
	return row
}

func (m *Model) renderDetail() string {
	t, ok := m.current()
	if !ok {
		return ""
	}
	s := m.styles

	lines := []string{s.Title.Render(t.Name)}
	if t.Description != "" {
		lines = append(lines, util.Truncate(util.FirstLine(t.Description), max(m.width-6, 10)))
	}
	lines = append(lines, fmt.Sprintf("%s %s   %s %s",
		s.DetailLabel.Render("priority"), task.PriorityName(t.Priority),
		s.DetailLabel.Render("difficulty"), task.DifficultyName(t.Difficulty)))

	deps := s.DetailLabel.Render(m.text.T(i18n.KeyDependencies))
	if len(t.DependencyTasks) == 0 {
		lines = append(lines, deps+" "+s.Muted.Render(m.text.T(i18n.KeyNoDependencies)))
	} else {
		lines = append(lines, deps+" "+m.percent(m.engine.DependencyProgress(t.ID)))
		for _, id := range t.DependencyTasks {
			if len(lines) >= detailMaxLines {
				break
			}
			dep, found := m.engine.FindTaskByID(id)
			if !found {
				continue
			}
			lines = append(lines, "  "+util.PadRight(dep.Name, 30)+" "+s.ProgressBar(dep.Progress, barWidth))
		}
	}
	return s.DetailBox.Width(max(m.width-2, 20)).Render(strings.Join(lines, "\n"))
}

func (m *Model) percent(v float64) string {
	return lipgloss.NewStyle().Foreground(m.styles.ProgressColor(v)).Render(styles.FormatPercent(v))
}

func (m *Model) renderPrompt() string {
	s := m.styles
	switch m.mode {
	case keymap.ModeConfirm:
		question := m.text.T(i18n.KeyYouSure)
		if m.prompt == promptSaveChanges {
			question = m.text.T(i18n.KeySaveChanges)
		}
		return s.DialogBox.Render(question + " " + s.Muted.Render(m.text.T(i18n.KeyYesNo)))
	case keymap.ModeInput:
		return s.Prompt.Render(m.promptLabel()+": ") + m.input.View()
	}
	return ""
}

func (m *Model) promptLabel() string {
	switch m.prompt {
	case promptSavePath:
		return m.text.T(i18n.KeySavePath)
	case promptOpenPath:
		return m.text.T(i18n.KeyOpenPath)
	case promptRename:
		return m.text.T(i18n.KeyRenameTask)
	case promptDescription:
		return m.text.T(i18n.KeyEditDescription)
	default:
		return m.text.T(i18n.KeyNewTaskName)
	}
}

func (m *Model) renderHelp() string {
	if m.mode != keymap.ModeNormal {
		return m.help.ShortHelpView(m.keys.PromptHelp(m.mode))
	}
	if m.showHelp {
		return m.help.FullHelpView(m.keys.FullHelp())
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}
