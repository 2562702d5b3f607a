package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskgraph/internal/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Open the interactive editor",
	Long: `Open a project in the terminal editor. A file that does not exist yet
is created empty.

Without a file the most recent project is reopened; --new starts an
unsaved empty project instead. Press ? inside the editor for key bindings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().Bool("new", false, "start with a new empty project")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	if !stdinIsTerminal() {
		return fmt.Errorf("edit needs an interactive terminal")
	}
	startNew, _ := cmd.Flags().GetBool("new")

	dialogs := newTermDialogs(cmd.InOrStdin(), cmd.ErrOrStderr(), true)
	e, err := newEnv(cmd, dialogs, true)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	switch {
	case len(args) == 1:
		path := absPath(withExtension(args[0], e.ws.Extension))
		if exists, _ := afero.Exists(appFs, path); !exists {
			if err := e.ws.SaveTo(path); err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
		} else if err := e.ws.ReadFile(ctx, path); err != nil {
			return err
		}
	case !startNew:
		if files := e.ws.Recent.Files(); len(files) > 0 {
			// A stale entry falls back to a new project; the dialog has
			// already told the user.
			if err := e.ws.ReadFile(ctx, files[0]); err != nil {
				e.logger.Warn("could not reopen last project", "path", files[0], "error", err.Error())
			}
		}
	}

	loadCustomThemes(e)
	app := tui.NewApp(ctx, e.ws, tui.Options{
		Theme:       e.cfg.UI.Theme,
		ShowBlocked: e.cfg.UI.ShowBlocked,
	})
	return app.Run(ctx)
}
