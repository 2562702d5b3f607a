package progress

import (
	"testing"

	"github.com/Iron-Ham/taskgraph/internal/task"
)

func mk(id, parent string, progress, difficulty float64) *task.Task {
	return &task.Task{
		ID:              id,
		ParentTaskID:    task.ParentRef(parent),
		Progress:        progress,
		Difficulty:      difficulty,
		DependencyTasks: []string{},
	}
}

func TestWeightedAverage(t *testing.T) {
	tests := []struct {
		name  string
		tasks []task.Task
		want  float64
	}{
		{"empty", nil, 0},
		{"single", []task.Task{{Progress: 40, Difficulty: 1}}, 40},
		{"rounded to one decimal", []task.Task{{Progress: 50, Difficulty: 0.5}, {Progress: 10, Difficulty: 1}}, 23.3},
		{"all done", []task.Task{{Progress: 100, Difficulty: 1}, {Progress: 100, Difficulty: 1}}, 100},
		{"difficulty weights", []task.Task{{Progress: 100, Difficulty: 2}, {Progress: 0, Difficulty: 1}}, 66.7},
		{"missing difficulty counts as one", []task.Task{{Progress: 100}, {Progress: 0, Difficulty: 1}}, 50},
		{"non-integer kept to one decimal", []task.Task{{Progress: 12.5, Difficulty: 1}}, 12.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeightedAverage(tt.tasks); got != tt.want {
				t.Errorf("WeightedAverage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecalculate_TwoLevels(t *testing.T) {
	root := mk("root", "", 0, 1)
	mid := mk("mid", "root", 0, 1)
	leafA := mk("a", "mid", 50, 0.5)
	leafB := mk("b", "mid", 10, 1)
	sibling := mk("s", "root", 100, 1)

	Recalculate([]*task.Task{root, mid, leafA, leafB, sibling})

	if mid.Progress != 23.3 {
		t.Errorf("mid.Progress = %v, want 23.3", mid.Progress)
	}
	if want := WeightedAverage([]task.Task{*mid, *sibling}); root.Progress != want {
		t.Errorf("root.Progress = %v, want %v", root.Progress, want)
	}
	if root.Progress <= 23.3 || root.Progress >= 100 {
		t.Errorf("root.Progress = %v, want between children", root.Progress)
	}
	if leafA.Progress != 50 || leafB.Progress != 10 || sibling.Progress != 100 {
		t.Error("leaf progress must not change")
	}
}

func TestRecalculate_UnevenDepth(t *testing.T) {
	// root has a direct leaf child and a deeper branch; the root must wait
	// until the deep branch has been aggregated.
	root := mk("root", "", 0, 1)
	shallow := mk("shallow", "root", 0, 1)
	branch := mk("branch", "root", 0, 1)
	inner := mk("inner", "branch", 0, 1)
	deep := mk("deep", "inner", 100, 1)

	Recalculate([]*task.Task{deep, root, shallow, branch, inner})

	if inner.Progress != 100 || branch.Progress != 100 {
		t.Fatalf("branch = %v, inner = %v, want 100", branch.Progress, inner.Progress)
	}
	if root.Progress != 50 {
		t.Errorf("root.Progress = %v, want 50", root.Progress)
	}
}

func TestRecalculate_CycleLeftStale(t *testing.T) {
	a := mk("a", "b", 7, 1)
	b := mk("b", "a", 9, 1)
	self := mk("self", "self", 3, 1)
	leaf := mk("leaf", "", 40, 1)

	Recalculate([]*task.Task{a, b, self, leaf})

	if a.Progress != 7 || b.Progress != 9 || self.Progress != 3 {
		t.Errorf("cyclic tasks changed: a=%v b=%v self=%v", a.Progress, b.Progress, self.Progress)
	}
	if leaf.Progress != 40 {
		t.Errorf("leaf.Progress = %v", leaf.Progress)
	}
}

func TestRecalculate_DanglingParent(t *testing.T) {
	orphan := mk("orphan", "gone", 30, 1)
	Recalculate([]*task.Task{orphan})
	if orphan.Progress != 30 {
		t.Errorf("orphan.Progress = %v, want 30", orphan.Progress)
	}
}

func TestRecalculate_EmptyParentID(t *testing.T) {
	// A parent reference to "" points at the task whose id is "", not at the
	// top level.
	empty := ""
	parent := &task.Task{ID: "", Progress: 10, Difficulty: 1}
	child := &task.Task{ID: "c", ParentTaskID: &empty, Progress: 80, Difficulty: 1}
	Recalculate([]*task.Task{parent, child})
	if parent.Progress != 80 {
		t.Errorf("parent.Progress = %v, want 80", parent.Progress)
	}
}

func TestRecalculate_Empty(t *testing.T) {
	Recalculate(nil)
}
