// Package styles holds the lipgloss color palettes and styles of the task
// graph TUI. Four themes are built in; more can be added as YAML files.
package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names.
const (
	ThemeDefault ThemeName = "default" // Purple/green dark theme
	ThemeMonokai ThemeName = "monokai" // Classic Monokai editor colors
	ThemeDracula ThemeName = "dracula" // Dracula theme colors
	ThemeNord    ThemeName = "nord"    // Nord theme - cool blue-gray
)

// BuiltinThemes returns all built-in theme names.
func BuiltinThemes() []string {
	return []string{
		string(ThemeDefault),
		string(ThemeMonokai),
		string(ThemeDracula),
		string(ThemeNord),
	}
}

// ValidThemes returns all valid theme names (built-in + custom).
func ValidThemes() []string {
	return append(BuiltinThemes(), CustomThemeNames()...)
}

// IsValidTheme checks if a theme name is valid (built-in or custom).
func IsValidTheme(name string) bool {
	return IsBuiltinTheme(name) || IsCustomTheme(name)
}

// IsBuiltinTheme checks if a theme name is a built-in theme.
func IsBuiltinTheme(name string) bool {
	return slices.Contains(BuiltinThemes(), name)
}

// ColorPalette defines the color scheme for a theme.
type ColorPalette struct {
	Primary   lipgloss.Color // titles, cursor
	Secondary lipgloss.Color // completed work
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
	Surface   lipgloss.Color
	Text      lipgloss.Color
	Border    lipgloss.Color

	// Progress bar fill by state.
	ProgressDone    lipgloss.Color
	ProgressPartial lipgloss.Color
	ProgressEmpty   lipgloss.Color

	Blocked  lipgloss.Color
	Selected lipgloss.Color

	// Accents, also used for priorities.
	Blue   lipgloss.Color
	Yellow lipgloss.Color
	Orange lipgloss.Color
}

// DefaultPalette returns the default purple/green dark theme palette.
func DefaultPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#A78BFA"), // Purple (violet-400)
		Secondary: lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#F87171"), // Red (red-400)
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Surface:   lipgloss.Color("#1F2937"), // Dark surface
		Text:      lipgloss.Color("#F9FAFB"), // Light text
		Border:    lipgloss.Color("#6B7280"), // Gray-500

		ProgressDone:    lipgloss.Color("#10B981"),
		ProgressPartial: lipgloss.Color("#60A5FA"),
		ProgressEmpty:   lipgloss.Color("#374151"),

		Blocked:  lipgloss.Color("#FB923C"),
		Selected: lipgloss.Color("#F472B6"),

		Blue:   lipgloss.Color("#60A5FA"),
		Yellow: lipgloss.Color("#FBBF24"),
		Orange: lipgloss.Color("#FB923C"),
	}
}

// MonokaiPalette returns the classic Monokai editor theme palette.
func MonokaiPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#F92672"), // Monokai pink/magenta
		Secondary: lipgloss.Color("#A6E22E"), // Monokai green
		Warning:   lipgloss.Color("#E6DB74"), // Monokai yellow
		Error:     lipgloss.Color("#F92672"),
		Muted:     lipgloss.Color("#75715E"), // Monokai comment gray
		Surface:   lipgloss.Color("#272822"), // Monokai background
		Text:      lipgloss.Color("#F8F8F2"), // Monokai foreground
		Border:    lipgloss.Color("#49483E"), // Monokai selection

		ProgressDone:    lipgloss.Color("#A6E22E"),
		ProgressPartial: lipgloss.Color("#66D9EF"),
		ProgressEmpty:   lipgloss.Color("#49483E"),

		Blocked:  lipgloss.Color("#FD971F"),
		Selected: lipgloss.Color("#AE81FF"),

		Blue:   lipgloss.Color("#66D9EF"), // Cyan
		Yellow: lipgloss.Color("#E6DB74"),
		Orange: lipgloss.Color("#FD971F"),
	}
}

// DraculaPalette returns the Dracula theme palette.
func DraculaPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#BD93F9"), // Dracula purple
		Secondary: lipgloss.Color("#50FA7B"), // Dracula green
		Warning:   lipgloss.Color("#F1FA8C"), // Dracula yellow
		Error:     lipgloss.Color("#FF5555"), // Dracula red
		Muted:     lipgloss.Color("#6272A4"), // Dracula comment
		Surface:   lipgloss.Color("#282A36"), // Dracula background
		Text:      lipgloss.Color("#F8F8F2"), // Dracula foreground
		Border:    lipgloss.Color("#44475A"), // Dracula selection

		ProgressDone:    lipgloss.Color("#50FA7B"),
		ProgressPartial: lipgloss.Color("#8BE9FD"),
		ProgressEmpty:   lipgloss.Color("#44475A"),

		Blocked:  lipgloss.Color("#FFB86C"),
		Selected: lipgloss.Color("#FF79C6"),

		Blue:   lipgloss.Color("#8BE9FD"), // Cyan
		Yellow: lipgloss.Color("#F1FA8C"),
		Orange: lipgloss.Color("#FFB86C"),
	}
}

// NordPalette returns the Nord theme palette.
func NordPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#88C0D0"), // Nord frost (cyan)
		Secondary: lipgloss.Color("#A3BE8C"), // Nord aurora green
		Warning:   lipgloss.Color("#EBCB8B"), // Nord aurora yellow
		Error:     lipgloss.Color("#BF616A"), // Nord aurora red
		Muted:     lipgloss.Color("#4C566A"), // Nord polar night 3
		Surface:   lipgloss.Color("#2E3440"), // Nord polar night 0
		Text:      lipgloss.Color("#ECEFF4"), // Nord snow storm 2
		Border:    lipgloss.Color("#3B4252"), // Nord polar night 1

		ProgressDone:    lipgloss.Color("#A3BE8C"),
		ProgressPartial: lipgloss.Color("#81A1C1"),
		ProgressEmpty:   lipgloss.Color("#3B4252"),

		Blocked:  lipgloss.Color("#D08770"),
		Selected: lipgloss.Color("#B48EAD"),

		Blue:   lipgloss.Color("#81A1C1"), // Frost blue
		Yellow: lipgloss.Color("#EBCB8B"),
		Orange: lipgloss.Color("#D08770"),
	}
}

// GetPalette returns the palette for a theme name. Custom themes are
// consulted after built-ins; unknown names get the default palette.
func GetPalette(name ThemeName) *ColorPalette {
	switch name {
	case ThemeDefault:
		return DefaultPalette()
	case ThemeMonokai:
		return MonokaiPalette()
	case ThemeDracula:
		return DraculaPalette()
	case ThemeNord:
		return NordPalette()
	}
	if custom := GetCustomTheme(name); custom != nil {
		return custom.ToPalette()
	}
	return DefaultPalette()
}
