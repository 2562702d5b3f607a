// Package progress implements the weighted-average roll-up that derives the
// progress of every task with children from the progress of its children.
//
// A task's weight is its difficulty. Leaves carry user-set progress; every
// other task is recomputed bottom-up in a single breadth-first pass that
// starts at the leaves and walks toward the roots.
package progress

import (
	"math"

	"github.com/Iron-Ham/taskgraph/internal/task"
)

// WeightedAverage returns sum(progress*weight)/sum(weight) over tasks.
// Non-integer results are rounded to one decimal place; an empty input
// yields 0.
func WeightedAverage(tasks []task.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	var sum, weights float64
	for _, t := range tasks {
		w := t.Weight()
		sum += t.Progress * w
		weights += w
	}
	avg := sum / weights
	if avg == math.Trunc(avg) {
		return avg
	}
	return math.Round(avg*10) / 10
}

// Recalculate recomputes progress for every task that has children, in
// place. Tasks caught in a parent cycle are never reached from a leaf and
// keep whatever progress they had.
func Recalculate(tasks []*task.Task) {
	if len(tasks) == 0 {
		return
	}

	byID := make(map[string]*task.Task, len(tasks))
	children := make(map[string][]*task.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	for _, t := range tasks {
		if !t.IsRoot() {
			children[t.Parent()] = append(children[t.Parent()], t)
		}
	}

	queued := make(map[*task.Task]bool, len(tasks))
	processed := make(map[*task.Task]bool, len(tasks))

	var frontier []*task.Task
	for _, t := range tasks {
		if len(children[t.ID]) == 0 {
			frontier = append(frontier, t)
			queued[t] = true
		}
	}

	for len(frontier) > 0 {
		var next []*task.Task
		for _, t := range frontier {
			if kids := children[t.ID]; len(kids) > 0 {
				t.Progress = WeightedAverage(values(kids))
			}
			processed[t] = true

			if t.IsRoot() {
				continue
			}
			parent, ok := byID[t.Parent()]
			if !ok || queued[parent] || !allProcessed(children[parent.ID], processed) {
				continue
			}
			queued[parent] = true
			next = append(next, parent)
		}
		frontier = next
	}
}

func allProcessed(kids []*task.Task, processed map[*task.Task]bool) bool {
	for _, k := range kids {
		if !processed[k] {
			return false
		}
	}
	return true
}

func values(ptrs []*task.Task) []task.Task {
	out := make([]task.Task, len(ptrs))
	for i, p := range ptrs {
		out[i] = *p
	}
	return out
}
