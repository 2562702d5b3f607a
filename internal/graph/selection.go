package graph

import (
	"slices"
	"strings"

	"github.com/Iron-Ham/taskgraph/internal/event"
	"github.com/Iron-Ham/taskgraph/internal/task"
)

// Link is a resolved dependency edge: Target depends on Source.
type Link struct {
	Source task.Task
	Target task.Task
}

// LinkID builds the selection id of the edge from source to target.
func LinkID(source, target string) string {
	return source + " " + target
}

// parseLinkID splits a link id into its endpoints. Only the first two
// space-separated tokens count; the target is the last of those, so an id
// without a space names the same task at both ends.
func parseLinkID(id string) (source, target string) {
	parts := strings.SplitN(id, " ", 3)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return parts[0], parts[len(parts)-1]
}

// UpdateTaskSelection replaces the selected task ids.
func (e *Engine) UpdateTaskSelection(ids []string) {
	e.selectedTasks = slices.Clone(ids)
	e.selectionChanged()
}

// UpdateLinkSelection replaces the selected link ids.
func (e *Engine) UpdateLinkSelection(ids []string) {
	e.selectedLinks = slices.Clone(ids)
	e.selectionChanged()
}

// UpdateSelection replaces both selections at once.
func (e *Engine) UpdateSelection(taskIDs, linkIDs []string) {
	e.selectedTasks = slices.Clone(taskIDs)
	e.selectedLinks = slices.Clone(linkIDs)
	e.selectionChanged()
}

func (e *Engine) selectionChanged() {
	e.bus.Publish(event.NewSelectionChangedEvent(e.selectedTasks, e.selectedLinks))
}

// SelectedTaskIDs returns the last assigned task selection, including ids
// that no longer resolve.
func (e *Engine) SelectedTaskIDs() []string {
	return slices.Clone(e.selectedTasks)
}

// SelectedLinkIDs returns the last assigned link selection.
func (e *Engine) SelectedLinkIDs() []string {
	return slices.Clone(e.selectedLinks)
}

// SelectedTasks resolves the task selection against the live collection,
// dropping ids that no longer exist.
func (e *Engine) SelectedTasks() []task.Task {
	var out []task.Task
	for _, id := range e.selectedTasks {
		if t, ok := e.find(id); ok {
			out = append(out, t.Clone())
		}
	}
	return out
}

// SelectedLinks resolves the link selection, dropping links with a missing
// endpoint.
func (e *Engine) SelectedLinks() []Link {
	var out []Link
	for _, id := range e.selectedLinks {
		sourceID, targetID := parseLinkID(id)
		source, ok := e.find(sourceID)
		if !ok {
			continue
		}
		target, ok := e.find(targetID)
		if !ok {
			continue
		}
		out = append(out, Link{Source: source.Clone(), Target: target.Clone()})
	}
	return out
}

// EnterParent makes id the active parent so VisibleTasks lists its
// children. Unknown ids are ignored and false is returned.
func (e *Engine) EnterParent(id string) bool {
	if _, ok := e.find(id); !ok {
		return false
	}
	e.activeParent = id
	return true
}

// LeaveParent moves the active parent one level up. It returns false when
// already at the root level.
func (e *Engine) LeaveParent() bool {
	if e.activeParent == "" {
		return false
	}
	t, ok := e.find(e.activeParent)
	if !ok {
		e.activeParent = ""
		return true
	}
	e.activeParent = t.Parent()
	if _, ok := e.find(e.activeParent); !ok {
		e.activeParent = ""
	}
	return true
}

// ActiveParent returns the active parent id, if any.
func (e *Engine) ActiveParent() (string, bool) {
	return e.activeParent, e.activeParent != ""
}

// VisibleTasks returns the children of the active parent, or the top-level
// tasks when there is none.
func (e *Engine) VisibleTasks() []task.Task {
	if e.activeParent == "" {
		return e.TopLevelTasks()
	}
	return e.FindTasksByParent(e.activeParent)
}
