package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/taskgraph/internal/task"
)

// Styles contains all the lipgloss styles built from a color palette.
type Styles struct {
	Palette *ColorPalette

	Primary lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Text    lipgloss.Style

	Title      lipgloss.Style
	Breadcrumb lipgloss.Style

	// Task list rows
	Row         lipgloss.Style
	CursorRow   lipgloss.Style
	SelectedRow lipgloss.Style
	Blocked     lipgloss.Style
	ChildMarker lipgloss.Style

	// Details pane
	DetailBox   lipgloss.Style
	DetailLabel lipgloss.Style

	// Status bar and prompts
	StatusBar lipgloss.Style
	Dirty     lipgloss.Style
	Prompt    lipgloss.Style
	DialogBox lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
}

// New builds the styles for a palette.
func New(p *ColorPalette) *Styles {
	s := &Styles{Palette: p}

	s.Primary = lipgloss.NewStyle().Foreground(p.Primary)
	s.Muted = lipgloss.NewStyle().Foreground(p.Muted)
	s.Error = lipgloss.NewStyle().Foreground(p.Error)
	s.Warning = lipgloss.NewStyle().Foreground(p.Warning)
	s.Text = lipgloss.NewStyle().Foreground(p.Text)

	s.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)
	s.Breadcrumb = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)

	s.Row = lipgloss.NewStyle().Foreground(p.Text)
	s.CursorRow = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text).
		Background(p.Surface)
	s.SelectedRow = lipgloss.NewStyle().Foreground(p.Selected)
	s.Blocked = lipgloss.NewStyle().Foreground(p.Blocked)
	s.ChildMarker = lipgloss.NewStyle().Foreground(p.Muted)

	s.DetailBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)
	s.DetailLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Muted)

	s.StatusBar = lipgloss.NewStyle().
		Foreground(p.Text).
		Background(p.Surface).
		Padding(0, 1)
	s.Dirty = lipgloss.NewStyle().Foreground(p.Warning)
	s.Prompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)
	s.DialogBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Warning).
		Padding(0, 1)

	s.HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)
	s.HelpDesc = lipgloss.NewStyle().Foreground(p.Muted)

	return s
}

// ForTheme builds the styles for a theme name.
func ForTheme(name string) *Styles {
	return New(GetPalette(ThemeName(name)))
}

// ProgressColor returns the bar color for a progress value.
func (s *Styles) ProgressColor(v float64) lipgloss.Color {
	switch {
	case v >= task.ProgressDone:
		return s.Palette.ProgressDone
	case v > task.ProgressMin:
		return s.Palette.ProgressPartial
	default:
		return s.Palette.Muted
	}
}

// PriorityColor returns the color for a priority rank.
func (s *Styles) PriorityColor(p int) lipgloss.Color {
	switch p {
	case task.PriorityCritical:
		return s.Palette.Error
	case task.PriorityHigh:
		return s.Palette.Orange
	case task.PriorityMedium:
		return s.Palette.Yellow
	case task.PriorityLow:
		return s.Palette.Blue
	default:
		return s.Palette.Muted
	}
}

// ProgressBar renders a bar of width cells followed by the percentage.
func (s *Styles) ProgressBar(v float64, width int) string {
	if width < 1 {
		width = 1
	}
	v = min(max(v, task.ProgressMin), task.ProgressDone)
	filled := int(v / task.ProgressDone * float64(width))
	fill := lipgloss.NewStyle().Foreground(s.ProgressColor(v)).Render(strings.Repeat("█", filled))
	empty := lipgloss.NewStyle().Foreground(s.Palette.ProgressEmpty).Render(strings.Repeat("░", width-filled))
	return fill + empty + " " + FormatPercent(v)
}

// FormatPercent formats a progress value without a trailing ".0".
func FormatPercent(v float64) string {
	if v == float64(int(v)) {
		return fmt.Sprintf("%d%%", int(v))
	}
	return fmt.Sprintf("%.1f%%", v)
}
