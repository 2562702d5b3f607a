// Package event provides the synchronous pub-sub bus taskgraph uses as the
// side channel between the task graph engine and its observers.
//
// The engine publishes an event after every mutation that changes persisted
// content. The file layer listens for those events to mark the open project
// dirty; the TUI listens to refresh. Neither the engine nor its observers
// import each other.
//
// # Main Types
//
//   - [Event]: EventType() and Timestamp()
//   - [Bus]: synchronous dispatcher, safe for concurrent use
//   - [Handler]: func(Event)
//
// # Event Types
//
// Engine events:
//   - [TasksChangedEvent] ("tasks.changed"): collection content changed
//   - [TasksLoadedEvent] ("tasks.loaded"): collection replaced from a file
//   - [SelectionChangedEvent] ("selection.changed"): task or link selection replaced
//
// File events:
//   - [FileStateEvent] ("file.state"): the open file became new, saved or opened
//   - [FileChangedOnDiskEvent] ("file.changed_on_disk"): the open file was
//     modified by another process
//
// # Basic Usage
//
//	bus := event.NewBus()
//	bus.Subscribe(event.TypeTasksChanged, func(e event.Event) {
//	    changed := e.(event.TasksChangedEvent)
//	    log.Printf("%s %v", changed.Op, changed.TaskIDs)
//	})
package event
