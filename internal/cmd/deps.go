package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskgraph/internal/errors"
	"github.com/Iron-Ham/taskgraph/internal/task"
	"github.com/Iron-Ham/taskgraph/internal/tui/styles"
)

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Add or remove dependency links",
	Long: `Add or remove dependency links. A task depending on another is
blocked until the other (and every other dependency) is done.`,
}

var depAddCmd = &cobra.Command{
	Use:   "add <file> <task> <dependency>",
	Short: "Make a task depend on another",
	Args:  cobra.ExactArgs(3),
	RunE:  runDepAdd,
}

var depRmCmd = &cobra.Command{
	Use:     "rm <file> <task> <dependency>",
	Aliases: []string{"remove"},
	Short:   "Remove a dependency link",
	Args:    cobra.ExactArgs(3),
	RunE:    runDepRm,
}

var depsCmd = &cobra.Command{
	Use:   "deps <file> <id>",
	Short: "Show a task's dependencies and their combined progress",
	Args:  cobra.ExactArgs(2),
	RunE:  runDeps,
}

var blockedCmd = &cobra.Command{
	Use:   "blocked <file>",
	Short: "List tasks whose dependencies are not finished",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlocked,
}

func init() {
	depCmd.AddCommand(depAddCmd)
	depCmd.AddCommand(depRmCmd)
	rootCmd.AddCommand(depCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(blockedCmd)
}

func runDepAdd(cmd *cobra.Command, args []string) error {
	id, depID := args[1], args[2]
	if id == depID {
		return errors.NewValidationError("a task cannot depend on itself").
			WithField("dependency").WithValue(depID)
	}
	return withProject(cmd, args[0], func(e *env, out io.Writer) (bool, error) {
		t, err := e.mustFind(id)
		if err != nil {
			return false, err
		}
		dep, err := e.mustFind(depID)
		if err != nil {
			return false, err
		}
		if t.DependsOn(depID) {
			fmt.Fprintf(out, "%s already depends on %s\n", t.Name, dep.Name)
			return false, nil
		}
		e.engine().AddDependency(depID, id)
		fmt.Fprintf(out, "%s now depends on %s\n", t.Name, dep.Name)
		return true, nil
	})
}

func runDepRm(cmd *cobra.Command, args []string) error {
	id, depID := args[1], args[2]
	return withProject(cmd, args[0], func(e *env, out io.Writer) (bool, error) {
		t, err := e.mustFind(id)
		if err != nil {
			return false, err
		}
		// Dangling ids can still be removed.
		if !t.DependsOn(depID) {
			return false, errors.NewNotFoundError("dependency", depID)
		}
		e.engine().RemoveDependency(depID, id)
		fmt.Fprintf(out, "%s no longer depends on %s\n", t.Name, depID)
		return true, nil
	})
}

func runDeps(cmd *cobra.Command, args []string) error {
	return withProject(cmd, args[0], func(e *env, out io.Writer) (bool, error) {
		t, err := e.mustFind(args[1])
		if err != nil {
			return false, err
		}
		g := e.engine()
		st := themeStyles(e)

		fmt.Fprintf(out, "%s\n", t.Name)
		fmt.Fprintf(out, "Dependency progress: %s\n", styles.FormatPercent(g.DependencyProgress(t.ID)))
		if len(t.DependencyTasks) == 0 {
			fmt.Fprintln(out, st.Muted.Render("no dependencies"))
			return false, nil
		}
		for _, id := range t.DependencyTasks {
			dep, ok := g.FindTaskByID(id)
			if !ok {
				fmt.Fprintf(out, "  %s %s\n", id, st.Muted.Render("(missing)"))
				continue
			}
			fmt.Fprintf(out, "  %-36s %s  %s\n", dep.Name, st.ProgressBar(dep.Progress, treeBarWidth), dep.ID)
		}
		return false, nil
	})
}

func runBlocked(cmd *cobra.Command, args []string) error {
	return withProject(cmd, args[0], func(e *env, out io.Writer) (bool, error) {
		blocked := e.engine().BlockedTasks()
		if len(blocked) == 0 {
			fmt.Fprintln(out, "Nothing is blocked")
			return false, nil
		}
		for _, t := range blocked {
			fmt.Fprintf(out, "%s  %s  waiting on %s  (%s)\n", t.ID, t.Name,
				styles.FormatPercent(e.engine().DependencyProgress(t.ID)), task.PriorityName(t.Priority))
		}
		return false, nil
	})
}
