// Package graph is the task graph engine: an ordered collection of tasks
// forming a parent/child forest with dependency edges layered on top.
//
// The engine owns the collection and keeps every derived progress value
// consistent with its children after each mutation. It performs no I/O and
// holds no locks; callers serialize access. Lookups by id never fail: an
// unknown id makes a mutation a no-op and a query return its documented
// default.
//
// Mutations that change persisted content publish an
// [event.TasksChangedEvent] on the engine's bus, which the file layer uses to
// mark the project dirty.
package graph

import (
	"github.com/Iron-Ham/taskgraph/internal/event"
	"github.com/Iron-Ham/taskgraph/internal/logging"
	"github.com/Iron-Ham/taskgraph/internal/progress"
	"github.com/Iron-Ham/taskgraph/internal/task"
)

// Engine holds the task collection, the current selection and the parent
// navigation context.
type Engine struct {
	tasks []*task.Task          // collection order is display and save order
	index map[string]*task.Task // first task for each id

	selectedTasks []string
	selectedLinks []string
	activeParent  string

	bus    *event.Bus
	logger *logging.Logger
	nextID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithBus sets the bus mutation events are published on.
func WithBus(bus *event.Bus) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithLogger sets the logger. Mutations are logged at DEBUG.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger.WithComponent("graph")
		}
	}
}

// WithIDGenerator replaces the id source used by CreateTask.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.nextID = gen
		}
	}
}

// WithTasks seeds the collection. The tasks are copied and recalculated.
func WithTasks(tasks []task.Task) Option {
	return func(e *Engine) {
		e.tasks = make([]*task.Task, 0, len(tasks))
		for _, t := range tasks {
			c := t.Clone()
			if c.DependencyTasks == nil {
				c.DependencyTasks = []string{}
			}
			e.tasks = append(e.tasks, &c)
		}
	}
}

// New creates an engine. Without WithTasks it starts empty.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: logging.NopLogger(),
		nextID: task.NewID,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.reindex()
	progress.Recalculate(e.tasks)
	return e
}

// Bus returns the bus the engine publishes on, or nil.
func (e *Engine) Bus() *event.Bus {
	return e.bus
}

func (e *Engine) reindex() {
	e.index = make(map[string]*task.Task, len(e.tasks))
	for _, t := range e.tasks {
		if _, ok := e.index[t.ID]; !ok {
			e.index[t.ID] = t
		}
	}
}

func (e *Engine) find(id string) (*task.Task, bool) {
	t, ok := e.index[id]
	return t, ok
}

func (e *Engine) children(id string) []*task.Task {
	var out []*task.Task
	for _, t := range e.tasks {
		if t.HasParent(id) {
			out = append(out, t)
		}
	}
	return out
}

func (e *Engine) isLeaf(id string) bool {
	for _, t := range e.tasks {
		if t.HasParent(id) {
			return false
		}
	}
	return true
}

func (e *Engine) changed(op event.Op, ids ...string) {
	e.logger.Debug("tasks changed", "op", string(op), "task_ids", ids)
	e.bus.Publish(event.NewTasksChangedEvent(op, ids...))
}

// Recalculate runs a full bottom-up progress pass. Mutations already do this;
// it is exposed for callers that edit a loaded collection in bulk.
func (e *Engine) Recalculate() {
	progress.Recalculate(e.tasks)
}
