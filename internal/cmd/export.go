package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskgraph/internal/graph"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the project as JSON or YAML",
	Long: `Write every task of the project, with the same field names the
project file uses, to stdout or to --output.

Examples:
  taskgraph export plan.tgproj --format yaml
  taskgraph export plan.tgproj -o backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("format", "f", graph.FormatJSON, "json or yaml")
	exportCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	return withProject(cmd, args[0], func(e *env, out io.Writer) (bool, error) {
		data, err := e.engine().Export(format)
		if err != nil {
			return false, err
		}
		if output == "" {
			fmt.Fprintln(out, string(data))
			return false, nil
		}
		if err := afero.WriteFile(appFs, output, data, 0o644); err != nil {
			return false, fmt.Errorf("writing to %s: %w", output, err)
		}
		fmt.Fprintf(out, "Exported %d tasks to %s\n", e.engine().Len(), output)
		return false, nil
	})
}
