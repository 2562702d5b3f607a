package project

import "testing"

func TestFileBaseName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", ""},
		{"plan.tgproj", "plan.tgproj"},
		{"/home/me/plan.tgproj", "plan.tgproj"},
		{`C:\Users\me\plan.tgproj`, "plan.tgproj"},
		{`C:\Users\me/mixed\plan.tgproj`, "plan.tgproj"},
		{"/dir/", ""},
	}
	for _, tt := range tests {
		if got := FileBaseName(tt.path); got != tt.want {
			t.Errorf("FileBaseName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
