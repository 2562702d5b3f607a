package graph

import (
	"strings"

	"github.com/Iron-Ham/taskgraph/internal/task"
)

// SeedTasks returns the sample project shown to first-time users.
func SeedTasks() []task.Task {
	long := "Qaz" + strings.Repeat("a", 71)
	return []task.Task{
		{
			ID:              "qaz",
			Name:            long,
			Description:     long,
			Priority:        task.PriorityMedium,
			Progress:        50,
			Difficulty:      task.DifficultyEasy,
			DependencyTasks: []string{"wsx"},
			NodeX:           125,
			NodeY:           125,
		},
		{
			ID:              "wsx",
			Name:            "Wsx",
			Priority:        task.PriorityLow,
			Progress:        50,
			Difficulty:      task.DifficultyEasy,
			DependencyTasks: []string{},
		},
		{
			ID:              "rfv",
			Name:            "Rfv",
			Priority:        task.PriorityNone,
			Progress:        10,
			Difficulty:      task.DifficultyNormal,
			DependencyTasks: []string{"wsx", "qaz"},
			NodeX:           250,
		},
		{
			ID:              "asd",
			Name:            "Asd",
			Priority:        task.PriorityLow,
			Progress:        50,
			Difficulty:      task.DifficultyEasy,
			ParentTaskID:    task.ParentRef("wsx"),
			DependencyTasks: []string{},
		},
	}
}
