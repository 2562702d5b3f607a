package styles

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ThemeFile represents a custom theme definition loaded from YAML.
type ThemeFile struct {
	// Name is the theme's display name (e.g., "Sunset")
	Name string `yaml:"name"`
	// Author is the theme creator's name (optional)
	Author string `yaml:"author,omitempty"`
	// Description provides details about the theme (optional)
	Description string `yaml:"description,omitempty"`
	// Version is the theme file format version (currently "1")
	Version string `yaml:"version"`
	// Colors defines the color palette
	Colors ThemeColors `yaml:"colors"`
}

// ThemeColors contains all color definitions for a theme.
// All colors should be hex format (#RRGGBB or #RGB).
type ThemeColors struct {
	// Base colors
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
	Warning   string `yaml:"warning"`
	Error     string `yaml:"error"`
	Muted     string `yaml:"muted"`
	Surface   string `yaml:"surface"`
	Text      string `yaml:"text"`
	Border    string `yaml:"border"`

	// Progress colors (optional - default to base colors)
	Progress ThemeProgressColors `yaml:"progress,omitempty"`

	Blocked  string `yaml:"blocked,omitempty"`
	Selected string `yaml:"selected,omitempty"`

	// Accent colors (optional - default to base colors)
	Accents ThemeAccentColors `yaml:"accents,omitempty"`
}

// ThemeProgressColors defines progress bar colors.
type ThemeProgressColors struct {
	Done    string `yaml:"done,omitempty"`
	Partial string `yaml:"partial,omitempty"`
	Empty   string `yaml:"empty,omitempty"`
}

// ThemeAccentColors defines additional accent colors.
type ThemeAccentColors struct {
	Blue   string `yaml:"blue,omitempty"`
	Yellow string `yaml:"yellow,omitempty"`
	Orange string `yaml:"orange,omitempty"`
}

var hexColorRegex = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// LoadThemeFile loads a theme from a YAML file on fs.
func LoadThemeFile(fs afero.Fs, path string) (*ThemeFile, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file: %w", err)
	}

	var theme ThemeFile
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, fmt.Errorf("parsing theme file: %w", err)
	}

	if err := theme.Validate(); err != nil {
		return nil, fmt.Errorf("invalid theme: %w", err)
	}

	return &theme, nil
}

// Validate checks that the theme file is well-formed.
func (t *ThemeFile) Validate() error {
	if t.Name == "" {
		return errors.New("theme name is required")
	}
	if t.Version == "" {
		return errors.New("theme version is required")
	}
	if t.Version != "1" {
		return fmt.Errorf("unsupported theme version: %s (supported: 1)", t.Version)
	}

	required := map[string]string{
		"primary":   t.Colors.Primary,
		"secondary": t.Colors.Secondary,
		"warning":   t.Colors.Warning,
		"error":     t.Colors.Error,
		"muted":     t.Colors.Muted,
		"surface":   t.Colors.Surface,
		"text":      t.Colors.Text,
		"border":    t.Colors.Border,
	}
	for _, name := range sortedKeys(required) {
		color := required[name]
		if color == "" {
			return fmt.Errorf("color '%s' is required", name)
		}
		if !isValidHexColor(color) {
			return fmt.Errorf("color '%s' has invalid format: %s (expected #RGB or #RRGGBB)", name, color)
		}
	}

	optional := map[string]string{
		"progress.done":    t.Colors.Progress.Done,
		"progress.partial": t.Colors.Progress.Partial,
		"progress.empty":   t.Colors.Progress.Empty,
		"blocked":          t.Colors.Blocked,
		"selected":         t.Colors.Selected,
		"accents.blue":     t.Colors.Accents.Blue,
		"accents.yellow":   t.Colors.Accents.Yellow,
		"accents.orange":   t.Colors.Accents.Orange,
	}
	for _, name := range sortedKeys(optional) {
		if color := optional[name]; color != "" && !isValidHexColor(color) {
			return fmt.Errorf("color '%s' has invalid format: %s (expected #RGB or #RRGGBB)", name, color)
		}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func isValidHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}

// ToPalette converts the theme file to a ColorPalette, filling optional
// colors from the base ones.
func (t *ThemeFile) ToPalette() *ColorPalette {
	c := t.Colors
	return &ColorPalette{
		Primary:   lipgloss.Color(c.Primary),
		Secondary: lipgloss.Color(c.Secondary),
		Warning:   lipgloss.Color(c.Warning),
		Error:     lipgloss.Color(c.Error),
		Muted:     lipgloss.Color(c.Muted),
		Surface:   lipgloss.Color(c.Surface),
		Text:      lipgloss.Color(c.Text),
		Border:    lipgloss.Color(c.Border),

		ProgressDone:    colorOrDefault(c.Progress.Done, c.Secondary),
		ProgressPartial: colorOrDefault(c.Progress.Partial, c.Primary),
		ProgressEmpty:   colorOrDefault(c.Progress.Empty, c.Border),

		Blocked:  colorOrDefault(c.Blocked, c.Warning),
		Selected: colorOrDefault(c.Selected, c.Primary),

		Blue:   colorOrDefault(c.Accents.Blue, c.Primary),
		Yellow: colorOrDefault(c.Accents.Yellow, c.Warning),
		Orange: colorOrDefault(c.Accents.Orange, c.Warning),
	}
}

func colorOrDefault(color, fallback string) lipgloss.Color {
	if color != "" {
		return lipgloss.Color(color)
	}
	return lipgloss.Color(fallback)
}

var (
	customMu     sync.RWMutex
	customThemes = make(map[ThemeName]*ThemeFile)
)

// RegisterCustomTheme makes theme available under name.
func RegisterCustomTheme(name ThemeName, theme *ThemeFile) {
	customMu.Lock()
	defer customMu.Unlock()
	customThemes[name] = theme
}

// GetCustomTheme returns a registered custom theme, or nil.
func GetCustomTheme(name ThemeName) *ThemeFile {
	customMu.RLock()
	defer customMu.RUnlock()
	return customThemes[name]
}

// IsCustomTheme checks if a theme name is a registered custom theme.
func IsCustomTheme(name string) bool {
	return GetCustomTheme(ThemeName(name)) != nil
}

// CustomThemeNames returns the registered custom theme names, sorted.
func CustomThemeNames() []string {
	customMu.RLock()
	defer customMu.RUnlock()
	names := make([]string, 0, len(customThemes))
	for name := range customThemes {
		names = append(names, string(name))
	}
	slices.Sort(names)
	return names
}

// ClearCustomThemes removes every registered custom theme.
func ClearCustomThemes() {
	customMu.Lock()
	defer customMu.Unlock()
	customThemes = make(map[ThemeName]*ThemeFile)
}

// DiscoverCustomThemes loads every *.yaml / *.yml file in dir and registers
// it under its file name. A missing directory is not an error. Invalid
// files, and files that would shadow a built-in theme, are skipped and
// reported.
func DiscoverCustomThemes(fs afero.Fs, dir string) ([]string, []error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if exists, _ := afero.DirExists(fs, dir); !exists {
			return nil, nil
		}
		return nil, []error{fmt.Errorf("reading themes directory: %w", err)}
	}

	var loaded []string
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		theme, err := LoadThemeFile(fs, filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}

		themeName := strings.TrimSuffix(name, ext)
		if IsBuiltinTheme(themeName) {
			errs = append(errs, fmt.Errorf("%s: cannot override built-in theme '%s'", name, themeName))
			continue
		}
		RegisterCustomTheme(ThemeName(themeName), theme)
		loaded = append(loaded, themeName)
	}
	return loaded, errs
}

// ExportTheme renders a theme as YAML, ready to be edited and saved as a
// custom theme.
func ExportTheme(name ThemeName) ([]byte, error) {
	if custom := GetCustomTheme(name); custom != nil {
		return yaml.Marshal(custom)
	}
	if !IsBuiltinTheme(string(name)) {
		return nil, fmt.Errorf("unknown theme %q", name)
	}
	return yaml.Marshal(paletteToThemeFile(string(name), GetPalette(name)))
}

func paletteToThemeFile(name string, p *ColorPalette) *ThemeFile {
	return &ThemeFile{
		Name:        name,
		Description: fmt.Sprintf("Exported from built-in theme '%s'", name),
		Version:     "1",
		Colors: ThemeColors{
			Primary:   string(p.Primary),
			Secondary: string(p.Secondary),
			Warning:   string(p.Warning),
			Error:     string(p.Error),
			Muted:     string(p.Muted),
			Surface:   string(p.Surface),
			Text:      string(p.Text),
			Border:    string(p.Border),
			Progress: ThemeProgressColors{
				Done:    string(p.ProgressDone),
				Partial: string(p.ProgressPartial),
				Empty:   string(p.ProgressEmpty),
			},
			Blocked:  string(p.Blocked),
			Selected: string(p.Selected),
			Accents: ThemeAccentColors{
				Blue:   string(p.Blue),
				Yellow: string(p.Yellow),
				Orange: string(p.Orange),
			},
		},
	}
}

// SaveTheme writes theme to dir as <name>.yaml.
func SaveTheme(fs afero.Fs, dir, name string, theme *ThemeFile) error {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating themes directory: %w", err)
	}
	data, err := yaml.Marshal(theme)
	if err != nil {
		return fmt.Errorf("marshaling theme: %w", err)
	}
	if err := afero.WriteFile(fs, filepath.Join(dir, name+".yaml"), data, 0o644); err != nil {
		return fmt.Errorf("writing theme file: %w", err)
	}
	return nil
}
