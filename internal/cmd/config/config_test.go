package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appconfig "github.com/Iron-Ham/taskgraph/internal/config"
)

// freshConfig gives the test its own config directory and viper state.
func freshConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	viper.Reset()
	appconfig.SetDefaults()
	t.Cleanup(viper.Reset)
	return filepath.Join(dir, "taskgraph")
}

func capture(t *testing.T, c *cobra.Command, fn func(*cobra.Command) error) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	c.SetOut(&buf)
	t.Cleanup(func() { c.SetOut(nil) })
	err := fn(c)
	return buf.String(), err
}

func TestRunConfigShow(t *testing.T) {
	freshConfig(t)

	out, err := capture(t, configShowCmd, func(c *cobra.Command) error { return runConfigShow(c, nil) })
	if err != nil {
		t.Fatalf("runConfigShow() error = %v", err)
	}
	for _, want := range []string{"none - using defaults", "logging:", "  level: info", "ui:", "  theme: default", "  extension: tgproj"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunConfigSet(t *testing.T) {
	dir := freshConfig(t)

	out, err := capture(t, configSetCmd, func(c *cobra.Command) error {
		return runConfigSet(c, []string{"recent.max_files", "5"})
	})
	if err != nil {
		t.Fatalf("runConfigSet() error = %v", err)
	}
	if !strings.Contains(out, "Set recent.max_files = 5") {
		t.Errorf("output = %q", out)
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "max_files: 5") {
		t.Errorf("config file missing value:\n%s", data)
	}

	got, err := capture(t, configGetCmd, func(c *cobra.Command) error {
		return runConfigGet(c, []string{"recent.max_files"})
	})
	if err != nil || strings.TrimSpace(got) != "5" {
		t.Errorf("get = %q, %v", got, err)
	}
}

func TestRunConfigSetRejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "tui.theme", "dracula"},
		{"not a number", "recent.max_files", "many"},
		{"not a boolean", "project.watch", "sometimes"},
		{"unknown theme", "ui.theme", "solarized"},
		{"bad level", "logging.level", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := freshConfig(t)
			if err := runConfigSet(configSetCmd, []string{tt.key, tt.value}); err == nil {
				t.Fatal("expected an error")
			}
			if _, err := os.Stat(filepath.Join(dir, "config.yaml")); !os.IsNotExist(err) {
				t.Error("a rejected value must not be written")
			}
		})
	}
}

func TestRunConfigGetUnknown(t *testing.T) {
	freshConfig(t)
	if err := runConfigGet(configGetCmd, []string{"nope"}); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestRunConfigInit(t *testing.T) {
	dir := freshConfig(t)

	if _, err := capture(t, configInitCmd, func(c *cobra.Command) error { return runConfigInit(c, nil) }); err != nil {
		t.Fatalf("runConfigInit() error = %v", err)
	}
	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	// The generated file must load and validate.
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("generated config does not parse: %v", err)
	}
	if _, err := appconfig.Load(); err != nil {
		t.Errorf("generated config is invalid: %v", err)
	}

	if err := runConfigInit(configInitCmd, nil); err == nil {
		t.Error("second init should refuse to overwrite")
	}
}

func TestRunConfigValidate(t *testing.T) {
	freshConfig(t)
	if _, err := capture(t, configValidateCmd, func(c *cobra.Command) error { return runConfigValidate(c, nil) }); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	viper.Set("project.extension", ".tgproj")
	if err := runConfigValidate(configValidateCmd, nil); err == nil {
		t.Error("leading dot in extension should fail validation")
	}
}

func TestRunConfigPath(t *testing.T) {
	dir := freshConfig(t)
	out, err := capture(t, configPathCmd, func(c *cobra.Command) error { return runConfigPath(c, nil) })
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, filepath.Join(dir, "config.yaml")) || !strings.Contains(out, "TASKGRAPH_") {
		t.Errorf("output = %q", out)
	}
}
