package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	appconfig "github.com/Iron-Ham/taskgraph/internal/config"
	"github.com/Iron-Ham/taskgraph/internal/tui/styles"
)

// Indirections so tests can run against a temporary directory.
var (
	themeFs   afero.Fs = afero.NewOsFs()
	themesDir          = appconfig.ThemesDir
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Manage color themes",
	Long: `Manage color themes for the editor and the tree output.

Taskgraph supports both built-in themes and custom user-defined themes.
Custom themes are stored in $XDG_CONFIG_HOME/taskgraph/themes/ as YAML files.`,
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available themes",
	RunE:  runThemeList,
}

var themeExportCmd = &cobra.Command{
	Use:   "export <theme-name> [output-file]",
	Short: "Export a theme to YAML",
	Long: `Export a theme to YAML format for customization or sharing.

If no output file is specified, the YAML is printed to stdout.

Examples:
  taskgraph config theme export default
  taskgraph config theme export dracula my-theme.yaml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runThemeExport,
}

var themePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the custom themes directory path",
	RunE:  runThemePath,
}

var themeCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new custom theme from the default template",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemeCreate,
}

func init() {
	themeCmd.AddCommand(themeListCmd)
	themeCmd.AddCommand(themeExportCmd)
	themeCmd.AddCommand(themePathCmd)
	themeCmd.AddCommand(themeCreateCmd)
	configCmd.AddCommand(themeCmd)
}

// discover loads the custom themes and returns the load errors.
func discover() []error {
	_, errs := styles.DiscoverCustomThemes(themeFs, themesDir())
	return errs
}

func runThemeList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if loadErrs := discover(); len(loadErrs) > 0 {
		errOut := cmd.ErrOrStderr()
		fmt.Fprintln(errOut, "Warning: Some themes failed to load:")
		for _, err := range loadErrs {
			fmt.Fprintf(errOut, "  - %v\n", err)
		}
		fmt.Fprintln(errOut)
	}

	fmt.Fprintln(out, "Built-in themes:")
	for _, name := range styles.BuiltinThemes() {
		fmt.Fprintf(out, "  - %s\n", name)
	}

	customNames := styles.CustomThemeNames()
	if len(customNames) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Custom themes:")
		sort.Strings(customNames)
		for _, name := range customNames {
			theme := styles.GetCustomTheme(styles.ThemeName(name))
			if theme == nil {
				continue
			}
			if theme.Author != "" {
				fmt.Fprintf(out, "  - %s (by %s)\n", name, theme.Author)
			} else {
				fmt.Fprintf(out, "  - %s\n", name)
			}
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Custom themes directory: %s\n", themesDir())
	return nil
}

func runThemeExport(cmd *cobra.Command, args []string) error {
	themeName := args[0]
	loadErrs := discover()

	if !styles.IsValidTheme(themeName) {
		for _, err := range loadErrs {
			errStr := err.Error()
			if strings.HasPrefix(errStr, themeName+".yaml:") || strings.HasPrefix(errStr, themeName+".yml:") {
				return fmt.Errorf("theme '%s' exists but failed to load: %v", themeName, err)
			}
		}
		return fmt.Errorf("unknown theme: %s\n\nRun 'taskgraph config theme list' to see available themes", themeName)
	}

	data, err := styles.ExportTheme(styles.ThemeName(themeName))
	if err != nil {
		return fmt.Errorf("exporting theme: %w", err)
	}

	if len(args) > 1 {
		outputPath := args[1]
		if err := afero.WriteFile(themeFs, outputPath, data, 0o644); err != nil {
			return fmt.Errorf("writing to %s: %w", outputPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme exported to: %s\n", outputPath)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runThemePath(cmd *cobra.Command, args []string) error {
	dir := themesDir()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, dir)

	if exists, _ := afero.DirExists(themeFs, dir); !exists {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Note: This directory does not exist yet.")
		fmt.Fprintln(out, "It will be created when you add your first custom theme.")
	}
	return nil
}

func runThemeCreate(cmd *cobra.Command, args []string) error {
	name := args[0]

	if name == "" {
		return fmt.Errorf("theme name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\:*?\"<>|") {
		return fmt.Errorf("theme name contains invalid characters")
	}
	if styles.IsBuiltinTheme(name) {
		return fmt.Errorf("cannot create custom theme with built-in name '%s'", name)
	}

	dir := themesDir()
	themePath := filepath.Join(dir, name+".yaml")
	if exists, _ := afero.Exists(themeFs, themePath); exists {
		return fmt.Errorf("theme '%s' already exists at %s", name, themePath)
	}

	p := styles.DefaultPalette()
	theme := &styles.ThemeFile{
		Name:        capitalizeFirst(name),
		Description: "A custom taskgraph theme",
		Version:     "1",
		Colors: styles.ThemeColors{
			Primary:   string(p.Primary),
			Secondary: string(p.Secondary),
			Warning:   string(p.Warning),
			Error:     string(p.Error),
			Muted:     string(p.Muted),
			Surface:   string(p.Surface),
			Text:      string(p.Text),
			Border:    string(p.Border),
		},
	}
	if err := styles.SaveTheme(themeFs, dir, name, theme); err != nil {
		return fmt.Errorf("creating theme: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created new theme: %s\n", themePath)
	fmt.Fprintf(out, "To use it, run:\n  taskgraph config set ui.theme %s\n", name)
	return nil
}

// capitalizeFirst capitalizes the first character of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
