package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// AppDirName is the directory name used under the config and state roots.
const AppDirName = "taskgraph"

// Config represents the complete taskgraph configuration
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Recent  RecentConfig  `mapstructure:"recent"`
	UI      UIConfig      `mapstructure:"ui"`
	Project ProjectConfig `mapstructure:"project"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether the log file is written (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// MaxSizeMB is the log file size that triggers rotation (default: 5)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
}

// RecentConfig controls the recent-files list
type RecentConfig struct {
	// MaxFiles caps the list length (default: 10)
	MaxFiles int `mapstructure:"max_files"`
	// File is where the list is stored. Empty means <state dir>/recent.yaml.
	File string `mapstructure:"file"`
}

// UIConfig controls the terminal UI
type UIConfig struct {
	// Locale selects the message catalog ("en", "ru"). Empty means take it
	// from LC_ALL/LC_MESSAGES/LANG.
	Locale string `mapstructure:"locale"`
	// Theme is the color theme (default: "default")
	Theme string `mapstructure:"theme"`
	// ShowBlocked marks tasks whose dependencies are incomplete (default: true)
	ShowBlocked bool `mapstructure:"show_blocked"`
}

// ProjectConfig controls project file handling
type ProjectConfig struct {
	// Extension is the project file extension without the dot (default: "tgproj")
	Extension string `mapstructure:"extension"`
	// AppName prefixes the window/terminal title (default: "Task Graph")
	AppName string `mapstructure:"app_name"`
	// Watch reloads prompts when the open file changes on disk (default: true)
	Watch bool `mapstructure:"watch"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
		Recent: RecentConfig{
			MaxFiles: 10,
		},
		UI: UIConfig{
			Theme:       "default",
			ShowBlocked: true,
		},
		Project: ProjectConfig{
			Extension: "tgproj",
			AppName:   "Task Graph",
			Watch:     true,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	d := Default()

	viper.SetDefault("logging.enabled", d.Logging.Enabled)
	viper.SetDefault("logging.level", d.Logging.Level)
	viper.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", d.Logging.MaxBackups)

	viper.SetDefault("recent.max_files", d.Recent.MaxFiles)
	viper.SetDefault("recent.file", d.Recent.File)

	viper.SetDefault("ui.locale", d.UI.Locale)
	viper.SetDefault("ui.theme", d.UI.Theme)
	viper.SetDefault("ui.show_blocked", d.UI.ShowBlocked)

	viper.SetDefault("project.extension", d.Project.Extension)
	viper.SetDefault("project.app_name", d.Project.AppName)
	viper.SetDefault("project.watch", d.Project.Watch)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults when it
// cannot be loaded.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppDirName
	}
	return filepath.Join(home, ".config", AppDirName)
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StateDir returns the directory holding the log file and the recent-files
// list.
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, AppDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppDirName
	}
	return filepath.Join(home, ".local", "state", AppDirName)
}

// RecentFilePath returns where the recent-files list is stored.
func (c *Config) RecentFilePath() string {
	if c.Recent.File != "" {
		return c.Recent.File
	}
	return filepath.Join(StateDir(), "recent.yaml")
}
