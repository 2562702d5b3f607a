package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestDefault_IsValid(t *testing.T) {
	if errs := Default().Validate(); len(errs) != 0 {
		t.Errorf("Default() has validation errors: %v", ValidationErrors(errs))
	}
}

func TestLoad_FromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "recent:\n  max_files: 4\nui:\n  locale: ru\n  theme: nord\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Recent.MaxFiles != 4 || cfg.UI.Locale != "ru" || cfg.UI.Theme != "nord" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Project.Extension != "tgproj" || !cfg.Logging.Enabled {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoad_InvalidFallsBackInGet(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set("recent.max_files", -1)

	if _, err := Load(); err == nil {
		t.Fatal("Load should fail validation")
	}
	if got := Get().Recent.MaxFiles; got != 10 {
		t.Errorf("Get() should fall back to defaults, got max_files=%d", got)
	}
}

func TestDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")

	if got := ConfigDir(); got != filepath.Join("/tmp/cfg", AppDirName) {
		t.Errorf("ConfigDir() = %q", got)
	}
	if got := ConfigFile(); !strings.HasSuffix(got, filepath.Join(AppDirName, "config.yaml")) {
		t.Errorf("ConfigFile() = %q", got)
	}
	if got := StateDir(); got != filepath.Join("/tmp/state", AppDirName) {
		t.Errorf("StateDir() = %q", got)
	}

	cfg := Default()
	if got := cfg.RecentFilePath(); got != filepath.Join("/tmp/state", AppDirName, "recent.yaml") {
		t.Errorf("RecentFilePath() = %q", got)
	}
	cfg.Recent.File = "/elsewhere/recent.yaml"
	if got := cfg.RecentFilePath(); got != "/elsewhere/recent.yaml" {
		t.Errorf("RecentFilePath() = %q", got)
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr bool
	}{
		{"recent.max_files", "5", 5, false},
		{"recent.max_files", "five", nil, true},
		{"project.watch", "false", false, false},
		{"ui.show_blocked", "1", true, false},
		{"ui.show_blocked", "maybe", nil, true},
		{"ui.theme", "dracula", "dracula", false},
		{"no.such.key", "x", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			got, err := Coerce(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestValue_CoversAllKeys(t *testing.T) {
	cfg := Default()
	for _, key := range Keys() {
		if _, ok := cfg.Value(key); !ok {
			t.Errorf("Value(%q) not handled", key)
		}
	}
	if _, ok := cfg.Value("bogus"); ok {
		t.Error("Value(bogus) should report false")
	}
}
