package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	tgerrors "github.com/Iron-Ham/taskgraph/internal/errors"
)

// setupCLI isolates config, state and the filesystem for one test.
func setupCLI(t *testing.T) afero.Fs {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("TASKGRAPH_LOGGING_ENABLED", "false")
	t.Setenv("TASKGRAPH_UI_LOCALE", "en")
	viper.Reset()

	fs := afero.NewMemMapFs()
	orig := appFs
	appFs = fs
	t.Cleanup(func() {
		appFs = orig
		viper.Reset()
	})
	return fs
}

// resetFlags restores every flag to its default so one test's flags do not
// leak into the next command.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs the root command with args and returns captured output
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := executeCommand(t, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

const seeded = "/work/plan.tgproj"

func newSeeded(t *testing.T) {
	t.Helper()
	mustExecute(t, "new", "/work/plan", "--seed")
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "taskgraph" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "taskgraph")
	}

	expectedCmds := []string{"new", "show", "add", "rm", "progress", "done", "set", "dep", "deps", "blocked", "export", "edit", "recent", "logs", "config"}
	cmdMap := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		cmdMap[c.Name()] = true
	}
	for _, expected := range expectedCmds {
		if !cmdMap[expected] {
			t.Errorf("expected subcommand %q not found", expected)
		}
	}
}

func TestNewAndShow(t *testing.T) {
	fs := setupCLI(t)

	out := mustExecute(t, "new", "/work/plan", "--seed")
	if !strings.Contains(out, "Created /work/plan.tgproj (4 tasks)") {
		t.Errorf("new output = %q", out)
	}
	if ok, _ := afero.Exists(fs, seeded); !ok {
		t.Fatal("project file not written")
	}

	out = mustExecute(t, "show", seeded, "--ids")
	for _, want := range []string{"Overall progress", "Wsx", "Asd", "Rfv", "blocked", "asd"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	if _, err := executeCommand(t, "new", seeded); err == nil {
		t.Error("new should refuse to overwrite an existing file")
	}
	mustExecute(t, "new", seeded, "--force")
	out = mustExecute(t, "show", seeded)
	if !strings.Contains(out, "(empty)") {
		t.Errorf("forced new should leave an empty project:\n%s", out)
	}
}

func TestShowJSON(t *testing.T) {
	setupCLI(t)
	newSeeded(t)

	out := mustExecute(t, "show", seeded, "--json")
	var got shownProject
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(got.Tasks) != 3 {
		t.Fatalf("top-level tasks = %d, want 3", len(got.Tasks))
	}
	wsx := got.Tasks[1]
	if wsx.ID != "wsx" || len(wsx.Children) != 1 || wsx.Children[0].ID != "asd" {
		t.Errorf("wsx = %+v", wsx)
	}
	if !got.Tasks[0].Blocked {
		t.Error("qaz depends on an unfinished task and should be blocked")
	}
}

func TestAddProgressDone(t *testing.T) {
	setupCLI(t)
	path := "/work/release.tgproj"
	mustExecute(t, "new", path)

	parent := strings.TrimSpace(mustExecute(t, "add", path, "Release"))
	docs := strings.TrimSpace(mustExecute(t, "add", path, "Docs", "--parent", parent, "--difficulty", "hard"))
	code := strings.TrimSpace(mustExecute(t, "add", path, "Code", "--parent", parent))

	out := mustExecute(t, "progress", path, docs, "30")
	if !strings.Contains(out, "Docs: 30%") || !strings.Contains(out, "Release: 20%") {
		t.Errorf("progress output = %q", out)
	}

	out = mustExecute(t, "done", path, code)
	if !strings.Contains(out, "Code: 100%") || !strings.Contains(out, "Release: 53.3%") {
		t.Errorf("done output = %q", out)
	}

	if _, err := executeCommand(t, "progress", path, parent, "10"); err == nil {
		t.Error("setting progress on a parent should fail")
	}
	if _, err := executeCommand(t, "progress", path, docs, "120"); err == nil {
		t.Error("progress above 100 should fail")
	}
	if _, err := executeCommand(t, "add", path, "Orphan", "--parent", "missing"); err == nil {
		t.Error("unknown parent should fail")
	}
	if _, err := executeCommand(t, "add", path, "Bad", "--priority", "urgent"); err == nil {
		t.Error("unknown priority should fail")
	}
}

func TestNonFiniteValuesRejected(t *testing.T) {
	setupCLI(t)
	newSeeded(t)

	cases := [][]string{
		{"progress", seeded, "asd", "NaN"},
		{"progress", seeded, "asd", "+Inf"},
		{"add", seeded, "Endless", "--difficulty", "inf"},
		{"set", seeded, "asd", "--difficulty", "nan"},
	}
	for _, args := range cases {
		_, err := executeCommand(t, args...)
		if !errors.Is(err, tgerrors.ErrInvalidInput) {
			t.Errorf("%v: err = %v, want a validation error", args, err)
		}
	}

	// The project is still saveable and its aggregates are finite.
	out := mustExecute(t, "show", seeded, "--json")
	if strings.Contains(out, "NaN") || strings.Contains(out, "Inf") {
		t.Errorf("show output contains a non-finite value:\n%s", out)
	}
}

func TestRmCascades(t *testing.T) {
	setupCLI(t)
	newSeeded(t)

	out := mustExecute(t, "rm", seeded, "wsx")
	if !strings.Contains(out, "Removed 2 task(s)") {
		t.Errorf("rm output = %q", out)
	}

	out = mustExecute(t, "export", seeded)
	var tasks []struct {
		ID              string   `json:"id"`
		DependencyTasks []string `json:"dependencyTasks"`
	}
	if err := json.Unmarshal([]byte(out), &tasks); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("tasks left = %d, want 2", len(tasks))
	}
	for _, tk := range tasks {
		for _, dep := range tk.DependencyTasks {
			if dep == "wsx" || dep == "asd" {
				t.Errorf("%s still depends on deleted %s", tk.ID, dep)
			}
		}
	}
}

func TestUnknownTask(t *testing.T) {
	setupCLI(t)
	newSeeded(t)

	_, err := executeCommand(t, "rm", seeded, "nope")
	var nf *tgerrors.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("err = %v, want NotFoundError", err)
	}
}

func TestOpenFailures(t *testing.T) {
	fs := setupCLI(t)

	if _, err := executeCommand(t, "show", "/work/missing.tgproj"); err == nil {
		t.Error("missing file should fail")
	}

	if err := afero.WriteFile(fs, "/work/bad.tgproj", []byte(`{"not":"an array"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := executeCommand(t, "show", "/work/bad.tgproj")
	if !errors.Is(err, tgerrors.ErrMalformedProject) {
		t.Errorf("err = %v, want malformed project", err)
	}
}

func TestSet(t *testing.T) {
	setupCLI(t)
	newSeeded(t)

	out := mustExecute(t, "set", seeded, "qaz", "--name", "Renamed", "--priority", "critical", "--x", "10")
	if !strings.Contains(out, "Renamed") || !strings.Contains(out, "priority=critical") {
		t.Errorf("set output = %q", out)
	}

	out = mustExecute(t, "export", seeded, "--format", "yaml")
	for _, want := range []string{"name: Renamed", "nodeX: 10", "nodeY: 125", "parentTaskId: wsx"} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml export missing %q", want)
		}
	}

	if _, err := executeCommand(t, "set", seeded, "qaz"); err == nil {
		t.Error("set without flags should fail")
	}
	if _, err := executeCommand(t, "set", seeded, "qaz", "--name", " "); err == nil {
		t.Error("blank name should fail")
	}
}

func TestDependencies(t *testing.T) {
	setupCLI(t)
	newSeeded(t)

	out := mustExecute(t, "dep", "add", seeded, "asd", "rfv")
	if !strings.Contains(out, "Asd now depends on Rfv") {
		t.Errorf("dep add output = %q", out)
	}
	out = mustExecute(t, "dep", "add", seeded, "asd", "rfv")
	if !strings.Contains(out, "already depends") {
		t.Errorf("second dep add output = %q", out)
	}
	if _, err := executeCommand(t, "dep", "add", seeded, "asd", "asd"); err == nil {
		t.Error("self dependency should fail")
	}

	out = mustExecute(t, "deps", seeded, "asd")
	if !strings.Contains(out, "Dependency progress: 10%") || !strings.Contains(out, "Rfv") {
		t.Errorf("deps output = %q", out)
	}

	out = mustExecute(t, "blocked", seeded)
	for _, id := range []string{"qaz", "rfv", "asd"} {
		if !strings.Contains(out, id) {
			t.Errorf("blocked output missing %s:\n%s", id, out)
		}
	}

	mustExecute(t, "dep", "rm", seeded, "asd", "rfv")
	out = mustExecute(t, "deps", seeded, "asd")
	if !strings.Contains(out, "Dependency progress: 100%") || !strings.Contains(out, "no dependencies") {
		t.Errorf("deps after rm = %q", out)
	}
	if _, err := executeCommand(t, "dep", "rm", seeded, "asd", "rfv"); err == nil {
		t.Error("removing a missing link should fail")
	}
}

func TestExportToFile(t *testing.T) {
	fs := setupCLI(t)
	newSeeded(t)

	out := mustExecute(t, "export", seeded, "-o", "/out/plan.json")
	if !strings.Contains(out, "Exported 4 tasks") {
		t.Errorf("export output = %q", out)
	}
	data, err := afero.ReadFile(fs, "/out/plan.json")
	if err != nil || !bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		t.Errorf("exported file = %q, %v", data, err)
	}
	if _, err := executeCommand(t, "export", seeded, "--format", "xml"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestRecent(t *testing.T) {
	setupCLI(t)

	out := mustExecute(t, "recent")
	if !strings.Contains(out, "No recent projects") {
		t.Errorf("recent output = %q", out)
	}

	mustExecute(t, "new", "/work/a")
	mustExecute(t, "new", "/work/b")
	mustExecute(t, "show", "/work/a.tgproj")

	out = mustExecute(t, "recent")
	a, b := strings.Index(out, "/work/a.tgproj"), strings.Index(out, "/work/b.tgproj")
	if a < 0 || b < 0 || a > b {
		t.Errorf("recent should list a before b:\n%s", out)
	}

	mustExecute(t, "recent", "rm", "/work/a.tgproj")
	out = mustExecute(t, "recent")
	if strings.Contains(out, "/work/a.tgproj") {
		t.Errorf("a should be forgotten:\n%s", out)
	}

	mustExecute(t, "recent", "clear")
	out = mustExecute(t, "recent")
	if !strings.Contains(out, "No recent projects") {
		t.Errorf("recent after clear = %q", out)
	}
}

func TestEditNeedsTerminal(t *testing.T) {
	setupCLI(t)
	if stdinIsTerminal() {
		t.Skip("stdin is a terminal")
	}
	if _, err := executeCommand(t, "edit", "--new"); err == nil {
		t.Error("edit without a terminal should fail")
	}
}

func TestWithExtension(t *testing.T) {
	tests := []struct {
		path, ext, want string
	}{
		{"plan", "tgproj", "plan.tgproj"},
		{"plan.json", "tgproj", "plan.json"},
		{"dir.v2/plan", "tgproj", "dir.v2/plan.tgproj"},
		{"plan", "", "plan"},
	}
	for _, tt := range tests {
		if got := withExtension(tt.path, tt.ext); got != tt.want {
			t.Errorf("withExtension(%q, %q) = %q, want %q", tt.path, tt.ext, got, tt.want)
		}
	}
}

func TestTermDialogs(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		input       string
		interactive bool
		want        bool
	}{
		{"yes", "y\n", true, true},
		{"full word", "YES\n", true, true},
		{"no", "n\n", true, false},
		{"empty defaults to no", "\n", true, false},
		{"eof", "", true, false},
		{"not interactive", "y\n", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			d := newTermDialogs(strings.NewReader(tt.input), &out, tt.interactive)
			got, err := d.Ask(ctx, "Title", "Question?")
			if err != nil {
				t.Fatalf("Ask() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Ask() = %v, want %v", got, tt.want)
			}
			if tt.interactive != strings.Contains(out.String(), "Question?") {
				t.Errorf("prompt shown = %q", out.String())
			}
		})
	}

	d := newTermDialogs(strings.NewReader("  /tmp/x.tgproj \n"), &bytes.Buffer{}, true)
	if path, _ := d.PickSave(ctx, "tgproj"); path != "/tmp/x.tgproj" {
		t.Errorf("PickSave() = %q", path)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := d.PickOpen(cancelled, "tgproj"); !errors.Is(err, tgerrors.ErrCancelled) {
		t.Errorf("PickOpen() on cancelled context = %v", err)
	}
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		want     string
		wantHint bool
	}{
		{name: "nil", err: nil},
		{name: "cancelled", err: tgerrors.ErrCancelled},
		{name: "not found", err: tgerrors.NewNotFoundError("task", "qaz"), want: "Error: task 'qaz' not found"},
		{name: "unexpected", err: errors.New("disk on fire"), want: "Error: disk on fire", wantHint: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportError(&buf, tt.err)
			out := buf.String()
			if tt.want == "" {
				if out != "" {
					t.Errorf("output = %q, want nothing", out)
				}
				return
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
			if got := strings.Contains(out, "taskgraph logs"); got != tt.wantHint {
				t.Errorf("hint shown = %v, want %v", got, tt.wantHint)
			}
		})
	}
}
