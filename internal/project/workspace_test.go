package project

import (
	"context"
	"slices"
	"testing"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/taskgraph/internal/event"
	"github.com/Iron-Ham/taskgraph/internal/graph"
	"github.com/Iron-Ham/taskgraph/internal/i18n"
	"github.com/Iron-Ham/taskgraph/internal/testutil"
)

// fakeDialogs answers Ask from a script and records every prompt.
type fakeDialogs struct {
	answers  []bool
	asked    []string
	messages []string
	openPath string
	savePath string
	picks    int
}

func (d *fakeDialogs) Ask(_ context.Context, title, _ string) (bool, error) {
	d.asked = append(d.asked, title)
	if len(d.answers) == 0 {
		return false, nil
	}
	a := d.answers[0]
	d.answers = d.answers[1:]
	return a, nil
}

func (d *fakeDialogs) Message(_ context.Context, title, message string) error {
	d.messages = append(d.messages, title+": "+message)
	return nil
}

func (d *fakeDialogs) PickOpen(context.Context, string) (string, error) {
	d.picks++
	return d.openPath, nil
}

func (d *fakeDialogs) PickSave(context.Context, string) (string, error) {
	d.picks++
	return d.savePath, nil
}

type titleRecorder struct{ titles []string }

func (r *titleRecorder) SetTitle(title string) { r.titles = append(r.titles, title) }

func (r *titleRecorder) last() string {
	if len(r.titles) == 0 {
		return ""
	}
	return r.titles[len(r.titles)-1]
}

type fixture struct {
	ws      *Workspace
	fs      afero.Fs
	dialogs *fakeDialogs
	titles  *titleRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	engine := graph.New(graph.WithBus(event.NewBus()), graph.WithTasks(graph.SeedTasks()))
	dialogs := &fakeDialogs{}
	titles := &titleRecorder{}
	ws := NewWorkspace(engine, NewStore(fs, nil), NewRecentFiles(fs, recentPath, 10),
		dialogs, i18n.New("en"), "Task Graph", ".tgproj", WithTitleSetter(titles))
	t.Cleanup(func() { _ = ws.Close() })
	return &fixture{ws: ws, fs: fs, dialogs: dialogs, titles: titles}
}

func (f *fixture) makeDirty(t *testing.T) {
	t.Helper()
	f.ws.Engine.UpdateName("qaz", "renamed")
	if !f.ws.File.IsDirty() {
		t.Fatal("engine edit should mark the project dirty")
	}
}

func TestWorkspace_AskConfirmation(t *testing.T) {
	tests := []struct {
		name    string
		dirty   bool
		answers []bool
		want    Confirmation
		asks    int
	}{
		{"clean project", false, nil, ConfirmNo, 0},
		{"declined discard", true, []bool{false}, ConfirmCancel, 1},
		{"discard and save", true, []bool{true, true}, ConfirmYes, 2},
		{"discard without saving", true, []bool{true, false}, ConfirmNo, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.dirty {
				f.makeDirty(t)
			}
			f.dialogs.answers = tt.answers

			got, err := f.ws.AskConfirmation(context.Background())
			if err != nil {
				t.Fatalf("AskConfirmation: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if len(f.dialogs.asked) != tt.asks {
				t.Errorf("asked %d questions, want %d", len(f.dialogs.asked), tt.asks)
			}
		})
	}
}

func TestWorkspace_SaveNewProjectAsksForPath(t *testing.T) {
	f := newFixture(t)
	f.dialogs.savePath = "/work/plan"

	ok, err := f.ws.Save(context.Background())
	if err != nil || !ok {
		t.Fatalf("Save = %v, %v", ok, err)
	}

	const want = "/work/plan.tgproj"
	if f.ws.File.Path() != want {
		t.Errorf("Path = %q, want %q", f.ws.File.Path(), want)
	}
	if f.ws.File.IsDirty() || f.ws.File.IsNew() {
		t.Error("saved project should be clean and not new")
	}
	if f.titles.last() != "Task Graph - plan.tgproj" {
		t.Errorf("title = %q", f.titles.last())
	}
	if !slices.Equal(f.ws.Recent.Files(), []string{want}) {
		t.Errorf("recent = %v", f.ws.Recent.Files())
	}

	reloaded := graph.New()
	if err := reloaded.Load(testutil.ReadFile(t, f.fs, want)); err != nil {
		t.Fatalf("saved file does not load: %v", err)
	}
	if reloaded.Len() != 4 {
		t.Errorf("saved %d tasks, want 4", reloaded.Len())
	}
}

func TestWorkspace_SaveKeepsExplicitExtension(t *testing.T) {
	f := newFixture(t)
	f.dialogs.savePath = "/work/plan.json"

	path, err := f.ws.SaveAs(context.Background())
	if err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	if path != "/work/plan.json" {
		t.Errorf("path = %q", path)
	}
}

func TestWorkspace_SaveCancelled(t *testing.T) {
	f := newFixture(t)

	ok, err := f.ws.Save(context.Background())
	if err != nil || ok {
		t.Fatalf("Save = %v, %v, want false, nil", ok, err)
	}
	if !f.ws.File.IsNew() {
		t.Error("cancelled save should leave the project new")
	}
	if len(f.titles.titles) != 0 {
		t.Errorf("cancelled save set title %v", f.titles.titles)
	}
}

func TestWorkspace_SaveExistingPathSkipsDialog(t *testing.T) {
	f := newFixture(t)
	f.dialogs.savePath = "/work/plan.tgproj"
	if _, err := f.ws.Save(context.Background()); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	f.makeDirty(t)
	picks := f.dialogs.picks

	if ok, err := f.ws.Save(context.Background()); err != nil || !ok {
		t.Fatalf("second Save = %v, %v", ok, err)
	}
	if f.dialogs.picks != picks {
		t.Error("save to a known path should not show the file picker")
	}
	if f.ws.File.IsDirty() {
		t.Error("project should be clean after save")
	}
}

func TestWorkspace_Open(t *testing.T) {
	f := newFixture(t)
	path := "/work/other.tgproj"
	testutil.WriteFile(t, f.fs, path, testutil.ProjectJSON(t, testutil.TaskList("x", "y")))
	f.dialogs.openPath = path

	got, err := f.ws.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got != path {
		t.Errorf("Open = %q, want %q", got, path)
	}
	if f.ws.Engine.Len() != 2 {
		t.Errorf("engine has %d tasks, want 2", f.ws.Engine.Len())
	}
	if f.ws.File.Path() != path || f.ws.File.IsDirty() || f.ws.File.IsNew() {
		t.Errorf("file state after open: path:%q dirty:%v new:%v",
			f.ws.File.Path(), f.ws.File.IsDirty(), f.ws.File.IsNew())
	}
	if f.titles.last() != "Task Graph - other.tgproj" {
		t.Errorf("title = %q", f.titles.last())
	}
	if !slices.Equal(f.ws.Recent.Files(), []string{path}) {
		t.Errorf("recent = %v", f.ws.Recent.Files())
	}
}

func TestWorkspace_OpenUnreadableShowsMessage(t *testing.T) {
	tests := []struct {
		name  string
		write bool
	}{
		{"missing file", false},
		{"malformed file", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			path := "/work/broken.tgproj"
			if tt.write {
				testutil.WriteFile(t, f.fs, path, []byte("{not json"))
			}
			f.dialogs.openPath = path

			got, err := f.ws.Open(context.Background())
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if got != "" {
				t.Errorf("Open = %q, want empty", got)
			}
			want := `Error: Unable to open file "/work/broken.tgproj"`
			if !slices.Equal(f.dialogs.messages, []string{want}) {
				t.Errorf("messages = %v, want [%s]", f.dialogs.messages, want)
			}
			if f.ws.Engine.Len() != 4 {
				t.Errorf("engine changed: %d tasks", f.ws.Engine.Len())
			}
			if !f.ws.File.IsNew() {
				t.Error("failed open should not change the current file")
			}
		})
	}
}

func TestWorkspace_OpenCancelledByConfirmation(t *testing.T) {
	f := newFixture(t)
	f.makeDirty(t)
	f.dialogs.answers = []bool{false}

	got, err := f.ws.Open(context.Background())
	if err != nil || got != "" {
		t.Fatalf("Open = %q, %v", got, err)
	}
	if f.dialogs.picks != 0 {
		t.Error("file picker should not be shown after cancel")
	}
}

func TestWorkspace_OpenAbortsWhenSaveFirstIsCancelled(t *testing.T) {
	f := newFixture(t)
	f.makeDirty(t)
	f.dialogs.answers = []bool{true, true}
	f.dialogs.openPath = "/never.tgproj"

	got, err := f.ws.Open(context.Background())
	if err != nil || got != "" {
		t.Fatalf("Open = %q, %v", got, err)
	}
	// Only the save picker was shown.
	if f.dialogs.picks != 1 {
		t.Errorf("picks = %d, want 1", f.dialogs.picks)
	}
	if !f.ws.File.IsDirty() {
		t.Error("project should still be dirty")
	}
}

func TestWorkspace_New(t *testing.T) {
	f := newFixture(t)
	f.dialogs.savePath = "/work/plan.tgproj"
	if _, err := f.ws.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	f.makeDirty(t)
	f.dialogs.answers = []bool{true, false}

	ok, err := f.ws.New(context.Background())
	if err != nil || !ok {
		t.Fatalf("New = %v, %v", ok, err)
	}
	if f.ws.Engine.Len() != 0 {
		t.Errorf("engine has %d tasks after New", f.ws.Engine.Len())
	}
	if !f.ws.File.IsNew() || f.ws.File.IsDirty() || f.ws.File.Path() != "" {
		t.Error("New should reset the file state")
	}
	if f.titles.last() != "Task Graph - New project" {
		t.Errorf("title = %q", f.titles.last())
	}
}

func TestWorkspace_OpenRecent(t *testing.T) {
	f := newFixture(t)
	path := "/work/recent.tgproj"
	testutil.WriteFile(t, f.fs, path, testutil.ProjectJSON(t, testutil.TaskList("r")))

	ok, err := f.ws.OpenRecent(context.Background(), path)
	if err != nil || !ok {
		t.Fatalf("OpenRecent = %v, %v", ok, err)
	}
	if f.ws.Engine.Len() != 1 || f.ws.File.Path() != path {
		t.Errorf("engine len %d, path %q", f.ws.Engine.Len(), f.ws.File.Path())
	}
}

func TestWorkspace_ConfirmClose(t *testing.T) {
	f := newFixture(t)
	if ok, _ := f.ws.ConfirmClose(context.Background()); !ok {
		t.Error("clean project should close without asking")
	}

	f.makeDirty(t)
	f.dialogs.answers = []bool{false}
	if ok, _ := f.ws.ConfirmClose(context.Background()); ok {
		t.Error("declined confirmation should block close")
	}
}

func TestWorkspace_LoadDoesNotDirty(t *testing.T) {
	f := newFixture(t)
	path := "/work/a.tgproj"
	testutil.WriteFile(t, f.fs, path, testutil.ProjectJSON(t, testutil.TaskList("a")))

	if err := f.ws.ReadFile(context.Background(), path); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if f.ws.File.IsDirty() {
		t.Error("loading a file should not mark it dirty")
	}
}

func TestConfirmation_String(t *testing.T) {
	for c, want := range map[Confirmation]string{ConfirmYes: "yes", ConfirmNo: "no", ConfirmCancel: "cancel"} {
		if c.String() != want {
			t.Errorf("%d.String() = %q, want %q", c, c.String(), want)
		}
	}
}
