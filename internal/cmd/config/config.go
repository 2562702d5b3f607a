// Package config provides CLI commands for managing taskgraph configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appconfig "github.com/Iron-Ham/taskgraph/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify taskgraph configuration",
	Long: `View or modify taskgraph configuration.

Without arguments, prints the effective configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  taskgraph config set ui.theme dracula
  taskgraph config set recent.max_files 20
  taskgraph config set project.watch false

Valid keys:
  logging.enabled      - Write a log file to the state directory (true/false)
  logging.level        - debug, info, warn or error
  logging.max_size_mb  - Rotate the log file at this size
  logging.max_backups  - Rotated log files to keep
  recent.max_files     - Length of the recent projects list
  recent.file          - Where the recent projects list is stored
  ui.locale            - Message language (en, ru); empty follows $LANG
  ui.theme             - Color theme (see 'taskgraph config theme list')
  ui.show_blocked      - Mark tasks with unfinished dependencies (true/false)
  project.extension    - Extension of project files
  project.app_name     - Name shown in window titles
  project.watch        - Notice when another program changes the open file`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at $XDG_CONFIG_HOME/taskgraph/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration for invalid values",
	RunE:  runConfigValidate,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configValidateCmd)
}

// Register adds all config-related commands to the given parent command.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := appconfig.Get()
	out := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	section := ""
	for _, key := range appconfig.Keys() {
		head, name, _ := strings.Cut(key, ".")
		if head != section {
			fmt.Fprintf(out, "%s:\n", head)
			section = head
		}
		v, _ := cfg.Value(key)
		fmt.Fprintf(out, "  %s: %v\n", name, v)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	v, ok := appconfig.Get().Value(args[0])
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'taskgraph config set --help' to see valid keys", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), v)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	typedValue, err := appconfig.Coerce(key, value)
	if err != nil {
		return fmt.Errorf("%w\nRun 'taskgraph config set --help' to see valid keys", err)
	}

	// Validate the whole configuration with the new value before writing it.
	previous := viper.Get(key)
	viper.Set(key, typedValue)
	if _, err := appconfig.Load(); err != nil {
		viper.Set(key, previous)
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	if err := os.MkdirAll(appconfig.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	configFile := appconfig.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

const defaultConfigContent = `# Taskgraph Configuration

# Log file in $XDG_STATE_HOME/taskgraph
logging:
  enabled: true
  # debug, info, warn or error
  level: info
  max_size_mb: 5
  max_backups: 3

# Recently opened projects
recent:
  max_files: 10
  # Defaults to $XDG_STATE_HOME/taskgraph/recent.yaml
  file: ""

ui:
  # en or ru; empty follows $LANG
  locale: ""
  # default, monokai, dracula, nord, or a custom theme name
  theme: default
  # Mark tasks whose dependencies are not finished
  show_blocked: true

project:
  extension: tgproj
  app_name: Task Graph
  # Notice when another program changes the open file
  watch: true
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'taskgraph config set' to modify values", configFile)
	}
	if err := os.MkdirAll(appconfig.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", appconfig.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", appconfig.ConfigFile())
	fmt.Fprintf(out, "  2. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: TASKGRAPH_* (e.g., TASKGRAPH_UI_THEME)")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if _, err := appconfig.Load(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
	return nil
}
