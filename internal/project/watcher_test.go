package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Iron-Ham/taskgraph/internal/event"
)

func startWatcher(t *testing.T) (*Watcher, <-chan event.FileChangedOnDiskEvent) {
	t.Helper()
	bus := event.NewBus()
	ch := make(chan event.FileChangedOnDiskEvent, 8)
	bus.Subscribe(event.TypeFileChangedOnDisk, func(e event.Event) {
		ch <- e.(event.FileChangedOnDiskEvent)
	})
	w, err := NewWatcher(bus, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	w.Start()
	t.Cleanup(func() { _ = w.Close() })
	return w, ch
}

func waitEvent(t *testing.T, ch <-chan event.FileChangedOnDiskEvent) event.FileChangedOnDiskEvent {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change event")
		return event.FileChangedOnDiskEvent{}
	}
}

func TestWatcher_ReportsForeignWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.tgproj")
	if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	w, ch := startWatcher(t)
	w.Retarget(path)
	w.Expect([]byte("[]"))

	if err := os.WriteFile(path, []byte(`[{"id":"x"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	e := waitEvent(t, ch)
	if e.Removed {
		t.Error("write reported as removal")
	}
	if e.Path != w.Path() {
		t.Errorf("Path = %q, want %q", e.Path, w.Path())
	}
}

func TestWatcher_IgnoresExpectedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.tgproj")
	if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	w, ch := startWatcher(t)
	w.Retarget(path)

	own := []byte(`[{"id":"mine"}]`)
	w.Expect(own)
	if err := os.WriteFile(path, own, 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)

	if err := os.WriteFile(path, []byte(`[{"id":"theirs"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	waitEvent(t, ch)

	select {
	case e := <-ch:
		t.Errorf("unexpected extra event %+v", e)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_ReportsRemoval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.tgproj")
	if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	w, ch := startWatcher(t)
	w.Retarget(path)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if e := waitEvent(t, ch); !e.Removed {
		t.Error("removal not reported")
	}
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.tgproj")
	if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	w, ch := startWatcher(t)
	w.Retarget(path)

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case e := <-ch:
		t.Errorf("sibling write reported: %+v", e)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_RetargetEmptyStops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.tgproj")
	if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	w, ch := startWatcher(t)
	w.Retarget(path)
	w.Retarget("")
	if w.Path() != "" {
		t.Errorf("Path = %q after Retarget(\"\")", w.Path())
	}

	if err := os.WriteFile(path, []byte("[1]"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case e := <-ch:
		t.Errorf("event after stop: %+v", e)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_NilSafe(t *testing.T) {
	var w *Watcher
	w.Start()
	w.Retarget("/x")
	w.Expect([]byte("x"))
	if w.Path() != "" {
		t.Error("nil watcher Path should be empty")
	}
	if err := w.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}
