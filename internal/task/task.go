// Package task defines the Task entity of a taskgraph project: a work item
// that is a node in both a containment forest (via ParentTaskID) and a
// dependency graph (via DependencyTasks).
package task

import (
	"slices"

	"github.com/google/uuid"
)

// Task is a single work item. JSON keys match the on-disk .tgproj format
// exactly; YAML export uses the same names.
type Task struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`

	// Priority is a descriptive rank from 1 (critical) to 5 (none).
	Priority int `json:"priority" yaml:"priority"`

	// Progress is in [0,100]. For a task with children it is always the
	// computed aggregate of the children and is never set directly.
	Progress float64 `json:"progress" yaml:"progress"`

	// Difficulty weights this task's contribution to its parent's progress.
	Difficulty float64 `json:"difficulty" yaml:"difficulty"`

	// ParentTaskID is nil for root tasks.
	ParentTaskID *string `json:"parentTaskId" yaml:"parentTaskId"`

	// DependencyTasks holds the ids of prerequisite tasks. It is a set with
	// insertion order preserved for display. Ids may dangle.
	DependencyTasks []string `json:"dependencyTasks" yaml:"dependencyTasks"`

	// NodeX and NodeY are layout coordinates owned by the renderer.
	NodeX float64 `json:"nodeX" yaml:"nodeX"`
	NodeY float64 `json:"nodeY" yaml:"nodeY"`
}

// Form carries the user-editable fields for creating a task.
type Form struct {
	Name         string
	Description  string
	Priority     int
	Difficulty   float64
	ParentTaskID *string
	NodeX        float64
	NodeY        float64
}

// New builds a fully populated task from a creation form. The returned task
// has zero progress and no dependencies.
func New(form Form, id string) Task {
	return Task{
		ID:              id,
		Name:            form.Name,
		Description:     form.Description,
		Priority:        form.Priority,
		Progress:        0,
		Difficulty:      form.Difficulty,
		ParentTaskID:    cloneID(form.ParentTaskID),
		DependencyTasks: []string{},
		NodeX:           form.NodeX,
		NodeY:           form.NodeY,
	}
}

// NewID returns a fresh opaque task id.
func NewID() string {
	return uuid.NewString()
}

// ParentRef returns a pointer suitable for Form.ParentTaskID. An empty id
// yields nil, meaning a root task.
func ParentRef(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// IsRoot reports whether the task has no parent.
func (t Task) IsRoot() bool {
	return t.ParentTaskID == nil
}

// Parent returns the parent id, or "" for a root task.
func (t Task) Parent() string {
	if t.ParentTaskID == nil {
		return ""
	}
	return *t.ParentTaskID
}

// HasParent reports whether the task's parent is id.
func (t Task) HasParent(id string) bool {
	return t.ParentTaskID != nil && *t.ParentTaskID == id
}

// DependsOn reports whether id is among the task's dependencies.
func (t Task) DependsOn(id string) bool {
	return slices.Contains(t.DependencyTasks, id)
}

// Weight returns the aggregation weight of the task. A missing difficulty
// (decoded as zero) counts as normal difficulty. A missing value and an
// explicit zero decode the same way, so an explicit zero or negative
// difficulty also weighs 1. Project files that relied on a 0 weight to
// exclude a child from its parent's average aggregate differently here.
// ValidateDifficulty keeps such values out of user input.
func (t Task) Weight() float64 {
	if t.Difficulty <= 0 {
		return DifficultyNormal
	}
	return t.Difficulty
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	c.ParentTaskID = cloneID(t.ParentTaskID)
	if t.DependencyTasks != nil {
		c.DependencyTasks = slices.Clone(t.DependencyTasks)
	}
	return c
}

func cloneID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
