package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskgraph/internal/config"
	"github.com/Iron-Ham/taskgraph/internal/graph"
	"github.com/Iron-Ham/taskgraph/internal/i18n"
	"github.com/Iron-Ham/taskgraph/internal/task"
	"github.com/Iron-Ham/taskgraph/internal/tui/styles"
	"github.com/Iron-Ham/taskgraph/internal/util"
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the task tree with progress",
	Long: `Print every task as a tree, with its progress bar, priority, and a
marker on tasks whose dependencies are not finished yet.

Use --json for machine-readable output.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().Bool("json", false, "print JSON instead of a tree")
	showCmd.Flags().Bool("ids", false, "print task ids next to names")
	rootCmd.AddCommand(showCmd)
}

// shownTask is the --json form of a task.
type shownTask struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Progress           float64     `json:"progress"`
	Priority           string      `json:"priority"`
	Difficulty         float64     `json:"difficulty"`
	Blocked            bool        `json:"blocked"`
	DependencyProgress float64     `json:"dependencyProgress"`
	Children           []shownTask `json:"children,omitempty"`
}

type shownProject struct {
	OverallProgress float64     `json:"overallProgress"`
	Tasks           []shownTask `json:"tasks"`
}

func runShow(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	withIDs, _ := cmd.Flags().GetBool("ids")

	return withProject(cmd, args[0], func(e *env, out io.Writer) (bool, error) {
		if asJSON {
			data, err := json.MarshalIndent(shownProject{
				OverallProgress: e.engine().OverallProgress(),
				Tasks:           shownTree(e.engine(), e.engine().TopLevelTasks()),
			}, "", "  ")
			if err != nil {
				return false, fmt.Errorf("failed to encode tree: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return false, nil
		}

		p := &treePrinter{
			out:         out,
			engine:      e.engine(),
			styles:      themeStyles(e),
			text:        e.text,
			showBlocked: e.cfg.UI.ShowBlocked,
			withIDs:     withIDs,
		}
		p.print()
		return false, nil
	})
}

func shownTree(engine *graph.Engine, tasks []task.Task) []shownTask {
	out := make([]shownTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, shownTask{
			ID:                 t.ID,
			Name:               t.Name,
			Progress:           t.Progress,
			Priority:           task.PriorityName(t.Priority),
			Difficulty:         t.Weight(),
			Blocked:            engine.IsBlocked(t.ID),
			DependencyProgress: engine.DependencyProgress(t.ID),
			Children:           shownTree(engine, engine.FindTasksByParent(t.ID)),
		})
	}
	return out
}

// themeStyles returns the styles for the configured theme.
func themeStyles(e *env) *styles.Styles {
	loadCustomThemes(e)
	return styles.ForTheme(e.cfg.UI.Theme)
}

// loadCustomThemes registers the themes in the config directory. Broken
// theme files are logged and skipped.
func loadCustomThemes(e *env) {
	_, errs := styles.DiscoverCustomThemes(appFs, config.ThemesDir())
	for _, err := range errs {
		e.logger.Warn("failed to load theme", "error", err.Error())
	}
}

type treePrinter struct {
	out         io.Writer
	engine      *graph.Engine
	styles      *styles.Styles
	text        i18n.Localizer
	showBlocked bool
	withIDs     bool
}

const (
	treeBarWidth  = 12
	treeNameWidth = 40
)

func (p *treePrinter) print() {
	s := p.styles
	fmt.Fprintln(p.out, p.text.T(i18n.KeyOverallProgress)+" "+s.ProgressBar(p.engine.OverallProgress(), 24))
	roots := p.engine.TopLevelTasks()
	if len(roots) == 0 {
		fmt.Fprintln(p.out, s.Muted.Render("(empty)"))
		return
	}
	p.level(roots, "")
}

func (p *treePrinter) level(tasks []task.Task, indent string) {
	for i, t := range tasks {
		last := i == len(tasks)-1
		branch, next := "├─ ", "│  "
		if last {
			branch, next = "└─ ", "   "
		}
		p.row(t, indent+branch)
		p.level(p.engine.FindTasksByParent(t.ID), indent+next)
	}
}

func (p *treePrinter) row(t task.Task, prefix string) {
	s := p.styles
	width := max(treeNameWidth-len([]rune(prefix)), 8)
	name := util.PadRight(util.Truncate(t.Name, width), width)

	var b strings.Builder
	b.WriteString(s.Muted.Render(prefix))
	b.WriteString(name)
	b.WriteString(" ")
	b.WriteString(s.ProgressBar(t.Progress, treeBarWidth))
	b.WriteString("  ")
	b.WriteString(util.PadRight(task.PriorityName(t.Priority), 9))
	if p.showBlocked && p.engine.IsBlocked(t.ID) {
		b.WriteString(" " + s.Blocked.Render(p.text.T(i18n.KeyBlocked)))
	}
	if p.withIDs {
		b.WriteString(" " + s.Muted.Render(t.ID))
	}
	fmt.Fprintln(p.out, b.String())
}
