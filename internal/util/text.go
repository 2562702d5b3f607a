// Package util holds terminal text helpers shared by the TUI and the CLI.
package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const ellipsis = "…"

// Truncate shortens s to maxWidth terminal columns, ending in an ellipsis
// when cut. Styled strings keep their escape sequences.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, ellipsis)
}

// PadRight pads s with spaces to width columns, truncating it first when it
// is wider.
func PadRight(s string, width int) string {
	s = Truncate(s, width)
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// FirstLine returns the first line of s, marked with an ellipsis when more
// lines follow.
func FirstLine(s string) string {
	line, rest, found := strings.Cut(s, "\n")
	if found && strings.TrimSpace(rest) != "" {
		return strings.TrimRight(line, "\r") + ellipsis
	}
	return strings.TrimRight(line, "\r")
}
