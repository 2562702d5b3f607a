// Package internal contains integration tests that check the engine, the
// event bus and the project layer working together.
package internal

import (
	"context"
	"slices"
	"testing"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/taskgraph/internal/event"
	"github.com/Iron-Ham/taskgraph/internal/graph"
	"github.com/Iron-Ham/taskgraph/internal/i18n"
	"github.com/Iron-Ham/taskgraph/internal/project"
	"github.com/Iron-Ham/taskgraph/internal/testutil"
)

// silentDialogs declines every question and never picks a file.
type silentDialogs struct{ messages int }

func (d *silentDialogs) Ask(context.Context, string, string) (bool, error) { return false, nil }
func (d *silentDialogs) Message(context.Context, string, string) error {
	d.messages++
	return nil
}
func (d *silentDialogs) PickOpen(context.Context, string) (string, error) { return "", nil }
func (d *silentDialogs) PickSave(context.Context, string) (string, error) { return "", nil }

func newWorkspace(t *testing.T, fs afero.Fs, engine *graph.Engine, dialogs project.Dialogs) *project.Workspace {
	t.Helper()
	recent := project.NewRecentFiles(fs, "/state/recent.yaml", 10)
	ws := project.NewWorkspace(engine, project.NewStore(fs, nil), recent, dialogs,
		i18n.New("en"), "Task Graph", "tgproj")
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

// TestEditSaveReopen walks a project through an edit, a save and a reopen in
// a second engine, checking the events and the recomputed progress on the way.
func TestEditSaveReopen(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()

	bus := event.NewBus()
	rec := testutil.Record(t, bus)
	engine := graph.New(graph.WithBus(bus), graph.WithTasks(graph.SeedTasks()))
	ws := newWorkspace(t, fs, engine, &silentDialogs{})

	engine.UpdateProgress("asd", 100)
	if !ws.File.IsDirty() {
		t.Fatal("progress change should mark the project dirty")
	}
	changes := rec.Changes()
	if len(changes) != 1 || changes[0].Op != event.OpProgress {
		t.Fatalf("changes = %+v, want one progress change", changes)
	}
	if wsx, _ := engine.FindTaskByID("wsx"); wsx.Progress != 100 {
		t.Errorf("wsx progress = %v, want 100 from its only child", wsx.Progress)
	}

	const path = "/work/plan.tgproj"
	if err := ws.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	if ws.File.IsDirty() || ws.File.Path() != path {
		t.Errorf("after save: dirty=%v path=%q", ws.File.IsDirty(), ws.File.Path())
	}
	if got := ws.Recent.Files(); !slices.Equal(got, []string{path}) {
		t.Errorf("recent = %v", got)
	}
	if ws.WindowTitle() != "Task Graph - plan.tgproj" {
		t.Errorf("title = %q", ws.WindowTitle())
	}

	bus2 := event.NewBus()
	rec2 := testutil.Record(t, bus2)
	engine2 := graph.New(graph.WithBus(bus2))
	ws2 := newWorkspace(t, fs, engine2, &silentDialogs{})
	if err := ws2.ReadFile(ctx, path); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if engine2.Len() != 4 {
		t.Fatalf("reopened %d tasks, want 4", engine2.Len())
	}
	if len(rec2.Events(event.TypeTasksLoaded)) != 1 {
		t.Error("expected one tasks.loaded event")
	}
	if ws2.File.IsDirty() {
		t.Error("a freshly opened project should not be dirty")
	}
	if engine2.IsBlocked("qaz") {
		t.Error("qaz depends only on the finished wsx")
	}
	if !engine2.IsBlocked("rfv") {
		t.Error("rfv still waits for qaz")
	}

	removed := engine2.DeleteTask("wsx")
	slices.Sort(removed)
	if !slices.Equal(removed, []string{"asd", "wsx"}) {
		t.Errorf("removed = %v", removed)
	}
	for _, id := range []string{"qaz", "rfv"} {
		tk, _ := engine2.FindTaskByID(id)
		if slices.Contains(tk.DependencyTasks, "wsx") {
			t.Errorf("%s still depends on the deleted wsx", id)
		}
	}
	if !ws2.File.IsDirty() {
		t.Error("delete should mark the reopened project dirty")
	}
}

// TestBrokenFileLeavesEngineAlone checks that a malformed file is reported
// through the dialogs without touching the loaded tasks.
func TestBrokenFileLeavesEngineAlone(t *testing.T) {
	fs := afero.NewMemMapFs()
	testutil.WriteFile(t, fs, "/broken.tgproj", []byte(`{"tasks": 3}`))

	engine := graph.New(graph.WithBus(event.NewBus()), graph.WithTasks(testutil.TaskList("a", "b")))
	dialogs := &silentDialogs{}
	ws := newWorkspace(t, fs, engine, dialogs)

	if err := ws.ReadFile(context.Background(), "/broken.tgproj"); err == nil {
		t.Fatal("expected an error for a malformed project")
	}
	if dialogs.messages != 1 {
		t.Errorf("messages shown = %d, want 1", dialogs.messages)
	}
	if engine.Len() != 2 {
		t.Errorf("engine has %d tasks, want the original 2", engine.Len())
	}
	if ws.File.Path() != "" {
		t.Errorf("current file = %q, want none", ws.File.Path())
	}
}
