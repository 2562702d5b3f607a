package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskgraph/internal/project"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently opened projects",
	Long: `List recently opened or saved projects, most recent first.
Files that no longer exist are marked.`,
	Args: cobra.NoArgs,
	RunE: runRecentList,
}

var recentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all recent projects",
	Args:  cobra.NoArgs,
	RunE:  runRecentClear,
}

var recentRmCmd = &cobra.Command{
	Use:     "rm <file>",
	Aliases: []string{"remove"},
	Short:   "Forget one recent project",
	Args:    cobra.ExactArgs(1),
	RunE:    runRecentRm,
}

func init() {
	recentCmd.AddCommand(recentClearCmd)
	recentCmd.AddCommand(recentRmCmd)
	rootCmd.AddCommand(recentCmd)
}

func runRecentList(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, nil, false)
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.OutOrStdout()
	files := e.ws.Recent.Files()
	if len(files) == 0 {
		fmt.Fprintln(out, "No recent projects")
		return nil
	}
	st := themeStyles(e)
	for i, path := range files {
		line := fmt.Sprintf("%2d. %-24s %s", i+1, project.FileBaseName(path), st.Muted.Render(path))
		if ok, _ := afero.Exists(appFs, path); !ok {
			line += " " + st.Error.Render("(missing)")
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func runRecentClear(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, nil, false)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.ws.Recent.Clear(); err != nil {
		return fmt.Errorf("failed to clear recent projects: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Recent projects cleared")
	return nil
}

func runRecentRm(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, nil, false)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.ws.Recent.Remove(args[0]); err != nil {
		return fmt.Errorf("failed to update recent projects: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from recent projects\n", args[0])
	return nil
}
