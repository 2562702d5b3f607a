package graph

import (
	"slices"

	"github.com/Iron-Ham/taskgraph/internal/event"
	"github.com/Iron-Ham/taskgraph/internal/progress"
	"github.com/Iron-Ham/taskgraph/internal/task"
)

// CreateTask appends a new task built from form and returns a copy of it.
func (e *Engine) CreateTask(form task.Form) task.Task {
	t := task.New(form, e.nextID())
	e.tasks = append(e.tasks, &t)
	if _, ok := e.index[t.ID]; !ok {
		e.index[t.ID] = &t
	}
	progress.Recalculate(e.tasks)
	e.changed(event.OpCreate, t.ID)
	return t.Clone()
}

// DeleteTask removes the task and its entire descendant subtree, and strips
// id from every remaining dependency list. It returns the removed ids, the
// deleted task first, or nil when id is unknown.
//
// Dependencies on the deleted descendants are left dangling. Selection is
// not pruned.
func (e *Engine) DeleteTask(id string) []string {
	target, ok := e.find(id)
	if !ok {
		return nil
	}
	parent := target.Parent()

	for _, t := range e.tasks {
		t.DependencyTasks = slices.DeleteFunc(t.DependencyTasks, func(dep string) bool {
			return dep == id
		})
	}

	removed := []string{id}
	seen := map[string]bool{id: true}
	for queue := []string{id}; len(queue) > 0; queue = queue[1:] {
		for _, child := range e.children(queue[0]) {
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			removed = append(removed, child.ID)
			queue = append(queue, child.ID)
		}
	}

	e.tasks = slices.DeleteFunc(e.tasks, func(t *task.Task) bool {
		return seen[t.ID]
	})
	e.reindex()

	if e.activeParent != "" && seen[e.activeParent] {
		e.activeParent = ""
		if _, ok := e.find(parent); ok {
			e.activeParent = parent
		}
	}

	progress.Recalculate(e.tasks)
	e.changed(event.OpDelete, removed...)
	return removed
}

// AddDependency records depID as a prerequisite of task id. Existence of
// depID and cycles are not checked.
func (e *Engine) AddDependency(depID, id string) {
	t, ok := e.find(id)
	if !ok || t.DependsOn(depID) {
		return
	}
	t.DependencyTasks = append(t.DependencyTasks, depID)
	e.changed(event.OpDependency, id)
}

// RemoveDependency removes depID from the dependencies of task id.
func (e *Engine) RemoveDependency(depID, id string) {
	t, ok := e.find(id)
	if !ok || !t.DependsOn(depID) {
		return
	}
	t.DependencyTasks = slices.DeleteFunc(t.DependencyTasks, func(dep string) bool {
		return dep == depID
	})
	e.changed(event.OpDependency, id)
}

// UpdateProgress sets the progress of a leaf task. Progress of a task with
// children is derived and the call leaves it alone. A full recalculation runs
// either way.
func (e *Engine) UpdateProgress(id string, value float64) {
	t, ok := e.find(id)
	if !ok {
		return
	}
	changed := false
	if e.isLeaf(id) && t.Progress != value {
		t.Progress = value
		changed = true
	}
	progress.Recalculate(e.tasks)
	if changed {
		e.changed(event.OpProgress, id)
	}
}

// MarkTasksAsDone sets progress to 100 on every leaf among ids. Unknown ids
// and tasks with children are skipped.
func (e *Engine) MarkTasksAsDone(ids []string) {
	var done []string
	for _, id := range ids {
		t, ok := e.find(id)
		if !ok || !e.isLeaf(id) || t.Progress == task.ProgressDone {
			continue
		}
		t.Progress = task.ProgressDone
		done = append(done, id)
	}
	progress.Recalculate(e.tasks)
	if len(done) > 0 {
		e.changed(event.OpProgress, done...)
	}
}

// UpdateName renames a task.
func (e *Engine) UpdateName(id, name string) {
	if t, ok := e.find(id); ok && t.Name != name {
		t.Name = name
		e.changed(event.OpUpdate, id)
	}
}

// UpdateDescription replaces a task's description.
func (e *Engine) UpdateDescription(id, description string) {
	if t, ok := e.find(id); ok && t.Description != description {
		t.Description = description
		e.changed(event.OpUpdate, id)
	}
}

// UpdatePriority sets a task's priority rank.
func (e *Engine) UpdatePriority(id string, priority int) {
	if t, ok := e.find(id); ok && t.Priority != priority {
		t.Priority = priority
		e.changed(event.OpUpdate, id)
	}
}

// UpdateDifficulty sets a task's difficulty and recalculates, since
// difficulty is the weight the parent aggregates with.
func (e *Engine) UpdateDifficulty(id string, difficulty float64) {
	t, ok := e.find(id)
	if !ok || t.Difficulty == difficulty {
		return
	}
	t.Difficulty = difficulty
	progress.Recalculate(e.tasks)
	e.changed(event.OpUpdate, id)
}

// UpdateNodePosition stores layout coordinates for a task.
func (e *Engine) UpdateNodePosition(id string, x, y float64) {
	t, ok := e.find(id)
	if !ok || (t.NodeX == x && t.NodeY == y) {
		return
	}
	t.NodeX, t.NodeY = x, y
	e.changed(event.OpMove, id)
}

// Clear empties the collection. Selection is left as is.
func (e *Engine) Clear() {
	e.tasks = nil
	e.reindex()
	e.activeParent = ""
	e.changed(event.OpClear)
}
