package project

import (
	"testing"

	"github.com/Iron-Ham/taskgraph/internal/event"
	"github.com/Iron-Ham/taskgraph/internal/testutil"
)

func fileStates(r *testutil.Recorder) []event.FileState {
	var states []event.FileState
	for _, e := range r.Events(event.TypeFileState) {
		states = append(states, e.(event.FileStateEvent).State)
	}
	return states
}

func TestCurrentFile_InitialState(t *testing.T) {
	c := NewCurrentFile()
	if !c.IsNew() || c.IsDirty() || c.Path() != "" {
		t.Errorf("new file state = new:%v dirty:%v path:%q", c.IsNew(), c.IsDirty(), c.Path())
	}
}

func TestCurrentFile_Transitions(t *testing.T) {
	c := NewCurrentFile()

	c.SetOpened("/p/a.tgproj")
	if c.IsNew() || c.IsDirty() || c.Path() != "/p/a.tgproj" {
		t.Fatalf("after SetOpened: new:%v dirty:%v path:%q", c.IsNew(), c.IsDirty(), c.Path())
	}

	c.SetDirty()
	if !c.IsDirty() {
		t.Fatal("SetDirty should mark dirty")
	}

	c.SetSaved("")
	if c.IsDirty() || c.Path() != "/p/a.tgproj" {
		t.Errorf("SetSaved(\"\") should keep the path: dirty:%v path:%q", c.IsDirty(), c.Path())
	}

	c.SetSaved("/p/b.tgproj")
	if c.Path() != "/p/b.tgproj" {
		t.Errorf("SetSaved(path) path = %q", c.Path())
	}

	c.SetNew()
	if !c.IsNew() || c.IsDirty() || c.Path() != "" {
		t.Errorf("after SetNew: new:%v dirty:%v path:%q", c.IsNew(), c.IsDirty(), c.Path())
	}
}

func TestCurrentFile_TrackMarksDirty(t *testing.T) {
	bus := event.NewBus()
	rec := testutil.Record(t, bus)
	c := NewCurrentFile()
	c.Track(bus)

	bus.Publish(event.NewTasksChangedEvent(event.OpCreate, "a"))
	bus.Publish(event.NewTasksChangedEvent(event.OpUpdate, "a"))

	if !c.IsDirty() {
		t.Fatal("tasks.changed should mark the file dirty")
	}
	states := fileStates(rec)
	if len(states) != 1 || states[0] != event.FileDirty {
		t.Errorf("file states = %v, want a single dirty transition", states)
	}

	c.SetSaved("/p/a.tgproj")
	states = fileStates(rec)
	if states[len(states)-1] != event.FileSaved {
		t.Errorf("last state = %v, want saved", states[len(states)-1])
	}
}

func TestCurrentFile_Untrack(t *testing.T) {
	bus := event.NewBus()
	c := NewCurrentFile()
	c.Track(bus)
	c.Untrack()

	bus.Publish(event.NewTasksChangedEvent(event.OpCreate, "a"))
	if c.IsDirty() {
		t.Error("untracked file should ignore tasks.changed")
	}
	if bus.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount = %d, want 0", bus.SubscriptionCount())
	}
}

func TestCurrentFile_TrackMovesSubscription(t *testing.T) {
	first, second := event.NewBus(), event.NewBus()
	c := NewCurrentFile()
	c.Track(first)
	c.Track(second)

	if first.SubscriptionCount() != 0 {
		t.Error("re-tracking should unsubscribe from the previous bus")
	}
	second.Publish(event.NewTasksChangedEvent(event.OpDelete, "a"))
	if !c.IsDirty() {
		t.Error("file should track the new bus")
	}
}
