package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/Iron-Ham/taskgraph/internal/i18n"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "recent.max_files")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

var extensionRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidThemes returns the built-in theme names. It must match
// styles.BuiltinThemes (kept separate to avoid an import cycle).
func ValidThemes() []string {
	return []string{"default", "monokai", "dracula", "nord"}
}

// ThemesDir returns the directory holding custom theme files.
func ThemesDir() string {
	return filepath.Join(ConfigDir(), "themes")
}

// isCustomTheme reports whether a theme file named name exists in ThemesDir.
func isCustomTheme(name string) bool {
	for _, ext := range []string{".yaml", ".yml"} {
		if _, err := os.Stat(filepath.Join(ThemesDir(), name+ext)); err == nil {
			return true
		}
	}
	return false
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateRecent()...)
	errors = append(errors, c.validateUI()...)
	errors = append(errors, c.validateProject()...)
	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	const maxLogSizeMB = 1000
	if c.Logging.MaxSizeMB <= 0 || c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("must be between 1 and %d", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateRecent() []ValidationError {
	const maxRecentFiles = 100
	if c.Recent.MaxFiles < 0 || c.Recent.MaxFiles > maxRecentFiles {
		return []ValidationError{{
			Field:   "recent.max_files",
			Value:   c.Recent.MaxFiles,
			Message: fmt.Sprintf("must be between 0 and %d", maxRecentFiles),
		}}
	}
	return nil
}

func (c *Config) validateUI() []ValidationError {
	var errors []ValidationError

	if c.UI.Locale != "" && !slices.Contains(i18n.Locales(), i18n.Normalize(c.UI.Locale)) {
		errors = append(errors, ValidationError{
			Field:   "ui.locale",
			Value:   c.UI.Locale,
			Message: fmt.Sprintf("must be empty or one of: %s", strings.Join(i18n.Locales(), ", ")),
		})
	}

	if c.UI.Theme != "" && !slices.Contains(ValidThemes(), c.UI.Theme) && !isCustomTheme(c.UI.Theme) {
		errors = append(errors, ValidationError{
			Field:   "ui.theme",
			Value:   c.UI.Theme,
			Message: fmt.Sprintf("must be one of: %s, or a theme file in %s", strings.Join(ValidThemes(), ", "), ThemesDir()),
		})
	}

	return errors
}

func (c *Config) validateProject() []ValidationError {
	var errors []ValidationError

	if !extensionRegex.MatchString(c.Project.Extension) {
		errors = append(errors, ValidationError{
			Field:   "project.extension",
			Value:   c.Project.Extension,
			Message: "must be non-empty and alphanumeric, without a leading dot",
		})
	}

	if strings.TrimSpace(c.Project.AppName) == "" {
		errors = append(errors, ValidationError{
			Field:   "project.app_name",
			Value:   c.Project.AppName,
			Message: "must not be empty",
		})
	}

	return errors
}
