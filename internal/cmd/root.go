package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/taskgraph/internal/cmd/config"
	appconfig "github.com/Iron-Ham/taskgraph/internal/config"
	"github.com/Iron-Ham/taskgraph/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:   "taskgraph",
	Short: "Plan projects as a tree of weighted, dependent tasks",
	Long: `Taskgraph keeps a project plan in a single .tgproj file: tasks nested
into subtasks, dependency links between them, and progress that rolls up
from leaves to parents weighted by difficulty.

Run 'taskgraph edit <file>' for the interactive editor, or use the
subcommands to script changes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and prints any error it returns.
func Execute(version string) error {
	rootCmd.Version = version
	err := rootCmd.Execute()
	reportError(rootCmd.ErrOrStderr(), err)
	return err
}

// reportError prints err for the user. Cancelled prompts print nothing, and
// unexpected failures point at the log.
func reportError(w io.Writer, err error) {
	if err == nil || errors.Is(err, errors.ErrCancelled) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
	if !errors.IsUserFacing(err) && errors.GetSeverity(err) == errors.SeverityError {
		fmt.Fprintln(w, "Run 'taskgraph logs --level error' for details.")
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $XDG_CONFIG_HOME/taskgraph/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "override logging.level for this run")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	config.Register(rootCmd)
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	appconfig.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(appconfig.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TASKGRAPH")
	// e.g. TASKGRAPH_UI_THEME for ui.theme
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
