package graph

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/taskgraph/internal/errors"
	"github.com/Iron-Ham/taskgraph/internal/event"
	"github.com/Iron-Ham/taskgraph/internal/progress"
	"github.com/Iron-Ham/taskgraph/internal/task"
)

// ErrMalformedProject is returned by Load when the payload is not a JSON
// array.
var ErrMalformedProject = errors.ErrMalformedProject

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Load replaces the collection with the tasks in data, a JSON array of task
// records. A payload that is not valid JSON or not an array returns
// ErrMalformedProject and leaves the engine untouched.
//
// Elements are decoded field by field: a field with the wrong type keeps its
// zero value and a non-object element becomes an empty task. Load clears the
// selection and the active parent and publishes a tasks.loaded event; it
// does not mark the project dirty.
func (e *Engine) Load(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedProject, err)
	}
	if raw == nil {
		// "null" decodes into a nil slice without error.
		return ErrMalformedProject
	}

	tasks := make([]*task.Task, 0, len(raw))
	for _, elem := range raw {
		t := decodeLenient(elem)
		tasks = append(tasks, &t)
	}

	e.tasks = tasks
	e.reindex()
	e.activeParent = ""
	e.selectedTasks = nil
	e.selectedLinks = nil
	progress.Recalculate(e.tasks)

	e.logger.Debug("tasks loaded", "count", len(tasks))
	e.bus.Publish(event.NewTasksLoadedEvent(len(tasks)))
	return nil
}

// decodeLenient decodes one task record, keeping every field that decodes
// and leaving the rest at their zero values.
func decodeLenient(elem json.RawMessage) task.Task {
	t := task.Task{DependencyTasks: []string{}}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(elem, &fields); err != nil {
		return t
	}

	field := func(name string, dst any) {
		if v, ok := fields[name]; ok {
			_ = json.Unmarshal(v, dst)
		}
	}
	field("id", &t.ID)
	field("name", &t.Name)
	field("description", &t.Description)
	field("priority", &t.Priority)
	field("progress", &t.Progress)
	field("difficulty", &t.Difficulty)
	field("nodeX", &t.NodeX)
	field("nodeY", &t.NodeY)

	field("parentTaskId", &t.ParentTaskID)

	if v, ok := fields["dependencyTasks"]; ok {
		var items []json.RawMessage
		if json.Unmarshal(v, &items) == nil {
			for _, item := range items {
				var dep string
				if json.Unmarshal(item, &dep) == nil {
					t.DependencyTasks = append(t.DependencyTasks, dep)
				}
			}
		}
	}
	return t
}

// Marshal encodes the collection as a JSON array in collection order.
func (e *Engine) Marshal() ([]byte, error) {
	return json.MarshalIndent(e.persistable(), "", "  ")
}

// Export encodes the collection in the given format, "json" or "yaml".
func (e *Engine) Export(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return e.Marshal()
	case FormatYAML, "yml":
		return yaml.Marshal(e.persistable())
	default:
		return nil, errors.NewValidationError("unsupported export format").
			WithField("format").WithValue(format)
	}
}

// persistable returns copies with a non-nil DependencyTasks so the encoded
// field is always an array.
func (e *Engine) persistable() []task.Task {
	out := make([]task.Task, len(e.tasks))
	for i, t := range e.tasks {
		out[i] = t.Clone()
		if out[i].DependencyTasks == nil {
			out[i].DependencyTasks = []string{}
		}
	}
	return out
}
