package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskgraph/internal/graph"
)

var newCmd = &cobra.Command{
	Use:   "new <file>",
	Short: "Create a project file",
	Long: `Create an empty project file. The configured extension (default
.tgproj) is appended when the name has none.

Use --seed to start from the sample project instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().Bool("seed", false, "write the sample project")
	newCmd.Flags().BoolP("force", "f", false, "overwrite an existing file")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	seed, _ := cmd.Flags().GetBool("seed")
	force, _ := cmd.Flags().GetBool("force")

	e, err := newEnv(cmd, nil, false)
	if err != nil {
		return err
	}
	defer e.Close()

	path := absPath(withExtension(args[0], e.ws.Extension))
	if exists, _ := afero.Exists(appFs, path); exists && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if seed {
		data, err := json.Marshal(graph.SeedTasks())
		if err != nil {
			return fmt.Errorf("failed to encode sample project: %w", err)
		}
		if err := e.engine().Load(data); err != nil {
			return fmt.Errorf("failed to load sample project: %w", err)
		}
	}

	if err := e.ws.SaveTo(path); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%d tasks)\n", path, e.engine().Len())
	return nil
}

// withExtension appends ".ext" to path when it has no extension.
func withExtension(path, ext string) string {
	if ext == "" || filepath.Ext(path) != "" {
		return path
	}
	return path + "." + ext
}
