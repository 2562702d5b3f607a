// Package testutil provides helpers shared by taskgraph tests: task
// builders, an event recorder and afero file fixtures.
package testutil

import (
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/taskgraph/internal/event"
	"github.com/Iron-Ham/taskgraph/internal/task"
)

// Task builds a task with the fields aggregation cares about. An empty
// parent makes a root task.
func Task(id, parent string, progress, difficulty float64) task.Task {
	return task.Task{
		ID:              id,
		Name:            id,
		Priority:        task.PriorityMedium,
		Progress:        progress,
		Difficulty:      difficulty,
		ParentTaskID:    task.ParentRef(parent),
		DependencyTasks: []string{},
	}
}

// WithDeps returns t depending on deps.
func WithDeps(t task.Task, deps ...string) task.Task {
	t.DependencyTasks = append([]string{}, deps...)
	return t
}

// ProjectJSON encodes tasks the way a .tgproj file stores them.
func ProjectJSON(t *testing.T, tasks []task.Task) []byte {
	t.Helper()
	data, err := json.Marshal(tasks)
	if err != nil {
		t.Fatalf("failed to encode project: %v", err)
	}
	return data
}

// WriteFile writes data to path on fs, creating parent directories.
func WriteFile(t *testing.T, fs afero.Fs, path string, data []byte) {
	t.Helper()
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// ReadFile reads path from fs.
func ReadFile(t *testing.T, fs afero.Fs, path string) []byte {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return data
}

// Recorder captures every event published on a bus.
type Recorder struct {
	mu     sync.Mutex
	events []event.Event
}

// Record subscribes a new Recorder to all events on bus. The subscription is
// removed when the test ends.
func Record(t *testing.T, bus *event.Bus) *Recorder {
	t.Helper()
	r := &Recorder{}
	id := bus.SubscribeAll(func(e event.Event) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, e)
	})
	t.Cleanup(func() { bus.Unsubscribe(id) })
	return r
}

// Events returns the recorded events of the given type, or all events when
// eventType is empty.
func (r *Recorder) Events(eventType string) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, e := range r.events {
		if eventType == "" || e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Changes returns the recorded tasks.changed events.
func (r *Recorder) Changes() []event.TasksChangedEvent {
	var out []event.TasksChangedEvent
	for _, e := range r.Events(event.TypeTasksChanged) {
		out = append(out, e.(event.TasksChangedEvent))
	}
	return out
}

// Reset discards the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// TaskList builds root tasks with the given ids.
func TaskList(ids ...string) []task.Task {
	tasks := make([]task.Task, len(ids))
	for i, id := range ids {
		tasks[i] = Task(id, "", 0, task.DifficultyNormal)
	}
	return tasks
}
