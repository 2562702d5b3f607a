package project

import (
	"sync"

	"github.com/Iron-Ham/taskgraph/internal/event"
)

// CurrentFile tracks which file the open project belongs to and whether it
// has unsaved changes. A fresh CurrentFile is a new, clean, path-less
// project. It is safe for concurrent use.
type CurrentFile struct {
	mu    sync.RWMutex
	path  string
	dirty bool
	isNew bool

	bus   *event.Bus
	subID string
}

// NewCurrentFile returns the state of a new, never-saved project.
func NewCurrentFile() *CurrentFile {
	return &CurrentFile{isNew: true}
}

// Path returns the file path, or "" for a never-saved project.
func (c *CurrentFile) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

// IsDirty reports whether there are unsaved changes.
func (c *CurrentFile) IsDirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

// IsNew reports whether the project has never been saved or opened.
func (c *CurrentFile) IsNew() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isNew
}

// SetNew resets to a new, clean, path-less project.
func (c *CurrentFile) SetNew() {
	c.set(func() {
		c.path = ""
		c.dirty = false
		c.isNew = true
	}, event.FileNew)
}

// SetDirty marks unsaved changes.
func (c *CurrentFile) SetDirty() {
	c.mu.Lock()
	already := c.dirty
	c.dirty = true
	path, bus := c.path, c.bus
	c.mu.Unlock()

	if !already {
		bus.Publish(event.NewFileStateEvent(event.FileDirty, path))
	}
}

// SetSaved marks the project clean after a save. An empty path keeps the
// current one.
func (c *CurrentFile) SetSaved(path string) {
	c.set(func() {
		if path != "" {
			c.path = path
		}
		c.dirty = false
		c.isNew = false
	}, event.FileSaved)
}

// SetOpened records a freshly opened file.
func (c *CurrentFile) SetOpened(path string) {
	c.set(func() {
		c.path = path
		c.dirty = false
		c.isNew = false
	}, event.FileOpened)
}

func (c *CurrentFile) set(apply func(), state event.FileState) {
	c.mu.Lock()
	apply()
	path, bus := c.path, c.bus
	c.mu.Unlock()

	bus.Publish(event.NewFileStateEvent(state, path))
}

// Track marks the project dirty on every tasks.changed event from bus and
// publishes file state changes on it. Calling Track again moves the
// subscription to the new bus.
func (c *CurrentFile) Track(bus *event.Bus) {
	c.Untrack()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.bus = bus
	c.subID = bus.Subscribe(event.TypeTasksChanged, func(event.Event) {
		c.SetDirty()
	})
}

// Untrack removes the subscription installed by Track.
func (c *CurrentFile) Untrack() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bus != nil && c.subID != "" {
		c.bus.Unsubscribe(c.subID)
	}
	c.bus = nil
	c.subID = ""
}
