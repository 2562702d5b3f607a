package config

import (
	"fmt"
	"slices"

	"github.com/spf13/cast"
)

// Keys returns every settable configuration key in file order.
func Keys() []string {
	return []string{
		"logging.enabled",
		"logging.level",
		"logging.max_size_mb",
		"logging.max_backups",
		"recent.max_files",
		"recent.file",
		"ui.locale",
		"ui.theme",
		"ui.show_blocked",
		"project.extension",
		"project.app_name",
		"project.watch",
	}
}

// Coerce converts a command-line string into the type the key's default
// has, so that "config set recent.max_files 5" stores an int.
func Coerce(key, value string) (any, error) {
	if !slices.Contains(Keys(), key) {
		return nil, fmt.Errorf("unknown config key %q", key)
	}
	switch defaultValue(key).(type) {
	case bool:
		v, err := cast.ToBoolE(value)
		if err != nil {
			return nil, fmt.Errorf("%s expects a boolean: %w", key, err)
		}
		return v, nil
	case int:
		v, err := cast.ToIntE(value)
		if err != nil {
			return nil, fmt.Errorf("%s expects an integer: %w", key, err)
		}
		return v, nil
	default:
		return cast.ToString(value), nil
	}
}

// Value returns the effective value of key from a loaded Config.
func (c *Config) Value(key string) (any, bool) {
	switch key {
	case "logging.enabled":
		return c.Logging.Enabled, true
	case "logging.level":
		return c.Logging.Level, true
	case "logging.max_size_mb":
		return c.Logging.MaxSizeMB, true
	case "logging.max_backups":
		return c.Logging.MaxBackups, true
	case "recent.max_files":
		return c.Recent.MaxFiles, true
	case "recent.file":
		return c.Recent.File, true
	case "ui.locale":
		return c.UI.Locale, true
	case "ui.theme":
		return c.UI.Theme, true
	case "ui.show_blocked":
		return c.UI.ShowBlocked, true
	case "project.extension":
		return c.Project.Extension, true
	case "project.app_name":
		return c.Project.AppName, true
	case "project.watch":
		return c.Project.Watch, true
	}
	return nil, false
}

func defaultValue(key string) any {
	v, _ := Default().Value(key)
	return v
}
