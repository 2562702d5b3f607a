package event

import (
	"slices"
	"time"
)

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a "category.action" identifier.
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeTasksChanged      = "tasks.changed"
	TypeTasksLoaded       = "tasks.loaded"
	TypeSelectionChanged  = "selection.changed"
	TypeFileState         = "file.state"
	TypeFileChangedOnDisk = "file.changed_on_disk"
)

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Engine Events
// -----------------------------------------------------------------------------

// Op names the kind of mutation carried by a TasksChangedEvent.
type Op string

const (
	OpCreate     Op = "create"
	OpDelete     Op = "delete"
	OpUpdate     Op = "update"
	OpProgress   Op = "progress"
	OpDependency Op = "dependency"
	OpMove       Op = "move"
	OpClear      Op = "clear"
)

// TasksChangedEvent is emitted after a mutation changes persisted content.
// It is the signal the file layer uses to mark a project dirty.
type TasksChangedEvent struct {
	baseEvent
	Op      Op
	TaskIDs []string // tasks directly touched by the mutation
}

// NewTasksChangedEvent creates a TasksChangedEvent. ids is copied.
func NewTasksChangedEvent(op Op, ids ...string) TasksChangedEvent {
	return TasksChangedEvent{
		baseEvent: newBaseEvent(TypeTasksChanged),
		Op:        op,
		TaskIDs:   slices.Clone(ids),
	}
}

// TasksLoadedEvent is emitted when the collection is replaced from a
// project file. It does not mark the project dirty.
type TasksLoadedEvent struct {
	baseEvent
	Count int
}

// NewTasksLoadedEvent creates a TasksLoadedEvent.
func NewTasksLoadedEvent(count int) TasksLoadedEvent {
	return TasksLoadedEvent{
		baseEvent: newBaseEvent(TypeTasksLoaded),
		Count:     count,
	}
}

// SelectionChangedEvent is emitted when the task or link selection is replaced.
type SelectionChangedEvent struct {
	baseEvent
	TaskIDs []string
	LinkIDs []string
}

// NewSelectionChangedEvent creates a SelectionChangedEvent. Both slices are copied.
func NewSelectionChangedEvent(taskIDs, linkIDs []string) SelectionChangedEvent {
	return SelectionChangedEvent{
		baseEvent: newBaseEvent(TypeSelectionChanged),
		TaskIDs:   slices.Clone(taskIDs),
		LinkIDs:   slices.Clone(linkIDs),
	}
}

// -----------------------------------------------------------------------------
// File Events
// -----------------------------------------------------------------------------

// FileState is the lifecycle state of the open project file.
type FileState string

const (
	FileNew    FileState = "new"
	FileOpened FileState = "opened"
	FileSaved  FileState = "saved"
	FileDirty  FileState = "dirty"
)

// FileStateEvent is emitted when the open project file changes state.
type FileStateEvent struct {
	baseEvent
	State FileState
	Path  string // empty for a new, never-saved project
}

// NewFileStateEvent creates a FileStateEvent.
func NewFileStateEvent(state FileState, path string) FileStateEvent {
	return FileStateEvent{
		baseEvent: newBaseEvent(TypeFileState),
		State:     state,
		Path:      path,
	}
}

// FileChangedOnDiskEvent is emitted when another process writes, renames or
// removes the open project file.
type FileChangedOnDiskEvent struct {
	baseEvent
	Path    string
	Removed bool
}

// NewFileChangedOnDiskEvent creates a FileChangedOnDiskEvent.
func NewFileChangedOnDiskEvent(path string, removed bool) FileChangedOnDiskEvent {
	return FileChangedOnDiskEvent{
		baseEvent: newBaseEvent(TypeFileChangedOnDisk),
		Path:      path,
		Removed:   removed,
	}
}
