package graph

import (
	"github.com/Iron-Ham/taskgraph/internal/progress"
	"github.com/Iron-Ham/taskgraph/internal/task"
)

// Len returns the number of tasks in the collection.
func (e *Engine) Len() int {
	return len(e.tasks)
}

// Tasks returns a deep copy of the collection in order.
func (e *Engine) Tasks() []task.Task {
	return copyTasks(e.tasks)
}

// FindTaskByID returns a copy of the first task with id.
func (e *Engine) FindTaskByID(id string) (task.Task, bool) {
	t, ok := e.find(id)
	if !ok {
		return task.Task{}, false
	}
	return t.Clone(), true
}

// FindTasksByParent returns the children of parentID in collection order.
func (e *Engine) FindTasksByParent(parentID string) []task.Task {
	return copyTasks(e.children(parentID))
}

// HasChildren reports whether any task names id as its parent.
func (e *Engine) HasChildren(id string) bool {
	return !e.isLeaf(id)
}

// TopLevelTasks returns the tasks without a parent.
func (e *Engine) TopLevelTasks() []task.Task {
	var out []task.Task
	for _, t := range e.tasks {
		if t.IsRoot() {
			out = append(out, t.Clone())
		}
	}
	return out
}

// OverallProgress is the weighted average over the top-level tasks.
func (e *Engine) OverallProgress() float64 {
	return progress.WeightedAverage(e.TopLevelTasks())
}

// DependencyProgress returns the weighted average progress of the tasks id
// depends on. Dangling dependency ids are ignored. An unknown id, or a task
// with no dependencies, yields 100; a task whose dependencies all dangle
// yields 0.
func (e *Engine) DependencyProgress(id string) float64 {
	t, ok := e.find(id)
	if !ok || len(t.DependencyTasks) == 0 {
		return task.ProgressDone
	}
	var deps []task.Task
	for _, depID := range t.DependencyTasks {
		if dep, ok := e.find(depID); ok {
			deps = append(deps, *dep)
		}
	}
	return progress.WeightedAverage(deps)
}

// IsBlocked reports whether the dependencies of id are not all complete.
func (e *Engine) IsBlocked(id string) bool {
	return e.DependencyProgress(id) < task.ProgressDone
}

// BlockedTasks returns the tasks whose dependencies are not all complete.
func (e *Engine) BlockedTasks() []task.Task {
	var out []task.Task
	for _, t := range e.tasks {
		if e.IsBlocked(t.ID) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Ancestors returns the parent chain of id, nearest first. The walk stops at
// a missing parent or at a task already visited, so parent cycles terminate.
func (e *Engine) Ancestors(id string) []task.Task {
	t, ok := e.find(id)
	if !ok {
		return nil
	}
	var out []task.Task
	visited := map[string]bool{id: true}
	for !t.IsRoot() {
		parent, ok := e.find(t.Parent())
		if !ok || visited[parent.ID] {
			break
		}
		visited[parent.ID] = true
		out = append(out, parent.Clone())
		t = parent
	}
	return out
}

func copyTasks(src []*task.Task) []task.Task {
	if len(src) == 0 {
		return nil
	}
	out := make([]task.Task, len(src))
	for i, t := range src {
		out[i] = t.Clone()
	}
	return out
}
