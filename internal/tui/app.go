package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/taskgraph/internal/event"
	"github.com/Iron-Ham/taskgraph/internal/project"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   *Model
	ws      *project.Workspace
}

// NewApp creates the TUI application for a workspace.
func NewApp(ctx context.Context, ws *project.Workspace, opts Options) *App {
	return &App{
		model: New(ctx, ws, opts),
		ws:    ws,
	}
}

// Model returns the program's model.
func (a *App) Model() *Model {
	return a.model
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run(ctx context.Context) error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	// SIGTERM and SIGHUP go through the quit key, so unsaved changes are
	// confirmed like an interactive quit.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		if _, ok := <-sigChan; ok {
			a.program.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
		}
	}()

	// Changes on disk arrive from the watcher goroutine.
	var subID string
	if bus := a.ws.Engine.Bus(); bus != nil {
		subID = bus.Subscribe(event.TypeFileChangedOnDisk, func(e event.Event) {
			if ev, ok := e.(event.FileChangedOnDiskEvent); ok {
				a.program.Send(fileChangedMsg{path: ev.Path, removed: ev.Removed})
			}
		})
	}

	_, err := a.program.Run()

	signal.Stop(sigChan)
	close(sigChan)
	if subID != "" {
		a.ws.Engine.Bus().Unsubscribe(subID)
	}
	return err
}
