package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskgraph/internal/errors"
	"github.com/Iron-Ham/taskgraph/internal/task"
	"github.com/Iron-Ham/taskgraph/internal/tui/styles"
)

var addCmd = &cobra.Command{
	Use:   "add <file> <name>",
	Short: "Add a task",
	Long: `Add a task to a project and print its id.

Without --parent the task is added at the top level.

Examples:
  taskgraph add plan.tgproj "Write docs" --priority high --difficulty hard
  taskgraph add plan.tgproj "Proofread" --parent 3f1c...`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

var rmCmd = &cobra.Command{
	Use:     "rm <file> <id>",
	Aliases: []string{"remove"},
	Short:   "Delete a task and all of its subtasks",
	Args:    cobra.ExactArgs(2),
	RunE:    runRm,
}

var progressCmd = &cobra.Command{
	Use:   "progress <file> <id> <value>",
	Short: "Set the progress of a task without subtasks",
	Long: `Set the progress (0-100) of a task without subtasks. The progress of
every ancestor is recomputed from its children, weighted by difficulty.`,
	Args: cobra.ExactArgs(3),
	RunE: runProgress,
}

var doneCmd = &cobra.Command{
	Use:   "done <file> <id>...",
	Short: "Mark tasks as done",
	Long:  `Set progress to 100 on the given tasks. Tasks with subtasks are skipped.`,
	Args:  cobra.MinimumNArgs(2),
	RunE:  runDone,
}

var setCmd = &cobra.Command{
	Use:   "set <file> <id>",
	Short: "Change fields of a task",
	Long: `Change one or more fields of a task. Only the flags given are applied.

Examples:
  taskgraph set plan.tgproj 3f1c... --name "Write user docs"
  taskgraph set plan.tgproj 3f1c... --priority critical --difficulty 1.5`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func init() {
	addCmd.Flags().StringP("description", "d", "", "task description")
	addCmd.Flags().StringP("priority", "p", "medium", "critical, high, medium, low, none or 1-5")
	addCmd.Flags().String("difficulty", "normal", "easy, normal, hard or a positive weight")
	addCmd.Flags().String("parent", "", "id of the parent task")
	addCmd.Flags().Float64("x", 0, "node x position")
	addCmd.Flags().Float64("y", 0, "node y position")

	setCmd.Flags().String("name", "", "new name")
	setCmd.Flags().StringP("description", "d", "", "new description")
	setCmd.Flags().StringP("priority", "p", "", "critical, high, medium, low, none or 1-5")
	setCmd.Flags().String("difficulty", "", "easy, normal, hard or a positive weight")
	setCmd.Flags().Float64("x", 0, "node x position")
	setCmd.Flags().Float64("y", 0, "node y position")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(setCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	description, _ := flags.GetString("description")
	priorityArg, _ := flags.GetString("priority")
	difficultyArg, _ := flags.GetString("difficulty")
	parent, _ := flags.GetString("parent")
	x, _ := flags.GetFloat64("x")
	y, _ := flags.GetFloat64("y")

	priority, err := task.ParsePriority(priorityArg)
	if err != nil {
		return err
	}
	difficulty, err := task.ParseDifficulty(difficultyArg)
	if err != nil {
		return err
	}
	form := task.Form{
		Name:         strings.TrimSpace(args[1]),
		Description:  description,
		Priority:     priority,
		Difficulty:   difficulty,
		ParentTaskID: task.ParentRef(parent),
		NodeX:        x,
		NodeY:        y,
	}
	if err := task.ValidateForm(form); err != nil {
		return err
	}

	return withProject(cmd, args[0], func(e *env, out io.Writer) (bool, error) {
		if parent != "" {
			if _, err := e.mustFind(parent); err != nil {
				return false, err
			}
		}
		t := e.engine().CreateTask(form)
		fmt.Fprintln(out, t.ID)
		return true, nil
	})
}

func runRm(cmd *cobra.Command, args []string) error {
	return withProject(cmd, args[0], func(e *env, out io.Writer) (bool, error) {
		if _, err := e.mustFind(args[1]); err != nil {
			return false, err
		}
		removed := e.engine().DeleteTask(args[1])
		fmt.Fprintf(out, "Removed %d task(s)\n", len(removed))
		return true, nil
	})
}

func runProgress(cmd *cobra.Command, args []string) error {
	value, err := cast.ToFloat64E(strings.TrimSuffix(strings.TrimSpace(args[2]), "%"))
	if err != nil {
		return errors.NewValidationError("must be a number").
			WithField("progress").WithValue(args[2]).WithCause(err)
	}
	if err := task.ValidateProgress(value); err != nil {
		return err
	}

	return withProject(cmd, args[0], func(e *env, out io.Writer) (bool, error) {
		t, err := e.mustFind(args[1])
		if err != nil {
			return false, err
		}
		if e.engine().HasChildren(t.ID) {
			return false, errors.NewValidationError("is computed from the subtasks").
				WithField("progress").WithValue(t.ID)
		}
		e.engine().UpdateProgress(t.ID, value)
		printProgress(out, e, t.ID)
		return true, nil
	})
}

func runDone(cmd *cobra.Command, args []string) error {
	ids := args[1:]
	return withProject(cmd, args[0], func(e *env, out io.Writer) (bool, error) {
		for _, id := range ids {
			if _, err := e.mustFind(id); err != nil {
				return false, err
			}
		}
		e.engine().MarkTasksAsDone(ids)
		for _, id := range ids {
			if e.engine().HasChildren(id) {
				fmt.Fprintf(out, "skipped %s: has subtasks\n", id)
				continue
			}
			printProgress(out, e, id)
		}
		return true, nil
	})
}

// printProgress prints the task's progress followed by each ancestor's
// recomputed progress.
func printProgress(out io.Writer, e *env, id string) {
	t, _ := e.engine().FindTaskByID(id)
	fmt.Fprintf(out, "%s: %s\n", t.Name, styles.FormatPercent(t.Progress))
	for _, a := range e.engine().Ancestors(id) {
		fmt.Fprintf(out, "  %s: %s\n", a.Name, styles.FormatPercent(a.Progress))
	}
}

func runSet(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	changed := false
	for _, name := range []string{"name", "description", "priority", "difficulty", "x", "y"} {
		changed = changed || flags.Changed(name)
	}
	if !changed {
		return fmt.Errorf("nothing to change; pass at least one of --name, --description, --priority, --difficulty, --x, --y")
	}

	var (
		name     string
		priority int
		weight   float64
		err      error
	)
	if flags.Changed("name") {
		name, _ = flags.GetString("name")
		if strings.TrimSpace(name) == "" {
			return errors.NewValidationError("must not be empty").WithField("name")
		}
	}
	if flags.Changed("priority") {
		arg, _ := flags.GetString("priority")
		if priority, err = task.ParsePriority(arg); err != nil {
			return err
		}
	}
	if flags.Changed("difficulty") {
		arg, _ := flags.GetString("difficulty")
		if weight, err = task.ParseDifficulty(arg); err != nil {
			return err
		}
	}

	return withProject(cmd, args[0], func(e *env, out io.Writer) (bool, error) {
		t, err := e.mustFind(args[1])
		if err != nil {
			return false, err
		}
		g := e.engine()
		if flags.Changed("name") {
			g.UpdateName(t.ID, strings.TrimSpace(name))
		}
		if flags.Changed("description") {
			description, _ := flags.GetString("description")
			g.UpdateDescription(t.ID, description)
		}
		if flags.Changed("priority") {
			g.UpdatePriority(t.ID, priority)
		}
		if flags.Changed("difficulty") {
			g.UpdateDifficulty(t.ID, weight)
		}
		if flags.Changed("x") || flags.Changed("y") {
			x, y := t.NodeX, t.NodeY
			if flags.Changed("x") {
				x, _ = flags.GetFloat64("x")
			}
			if flags.Changed("y") {
				y, _ = flags.GetFloat64("y")
			}
			g.UpdateNodePosition(t.ID, x, y)
		}

		updated, _ := g.FindTaskByID(t.ID)
		fmt.Fprintf(out, "%s  %s  priority=%s difficulty=%s\n", updated.ID, updated.Name,
			task.PriorityName(updated.Priority), task.DifficultyName(updated.Difficulty))
		return true, nil
	})
}
