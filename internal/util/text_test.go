package util

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"short unchanged", "hello", 10, "hello"},
		{"exact unchanged", "hello", 5, "hello"},
		{"cut with ellipsis", "hello world", 6, "hello…"},
		{"zero width", "hello", 0, ""},
		{"wide runes", "задача", 4, "зад…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.width); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
			}
		})
	}
}

func TestTruncate_Styled(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("a long task name")
	got := Truncate(styled, 6)
	if w := lipgloss.Width(got); w > 6 {
		t.Errorf("width = %d, want <= 6", w)
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 4); got != "ab  " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadRight("abcdef", 4); lipgloss.Width(got) != 4 {
		t.Errorf("PadRight of long string = %q", got)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"one", "one"},
		{"one\ntwo", "one…"},
		{"one\r\n", "one"},
		{"one\n  ", "one"},
	}
	for _, tt := range tests {
		if got := FirstLine(tt.in); got != tt.want {
			t.Errorf("FirstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
