package cmd

import (
	"context"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/taskgraph/internal/config"
	"github.com/Iron-Ham/taskgraph/internal/errors"
	"github.com/Iron-Ham/taskgraph/internal/event"
	"github.com/Iron-Ham/taskgraph/internal/graph"
	"github.com/Iron-Ham/taskgraph/internal/i18n"
	"github.com/Iron-Ham/taskgraph/internal/logging"
	"github.com/Iron-Ham/taskgraph/internal/project"
	"github.com/Iron-Ham/taskgraph/internal/task"
)

// appFs is the filesystem every command reads and writes through. Tests
// swap it for an in-memory one.
var appFs afero.Fs = afero.NewOsFs()

// env is what a project command needs: configuration, a logger, and a
// workspace around a fresh engine.
type env struct {
	cfg    *config.Config
	logger *logging.Logger
	text   *i18n.Catalog
	ws     *project.Workspace
}

// newEnv loads the configuration and builds a workspace. With watch set and
// project.watch enabled the workspace also watches the open file for
// changes made by other programs. The caller must Close it.
func newEnv(cmd *cobra.Command, dialogs project.Dialogs, watch bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	logger := newLogger(cfg)
	text := i18n.New(cfg.UI.Locale)
	if cfg.UI.Locale == "" {
		text = i18n.FromEnv()
	}

	recent := project.NewRecentFiles(appFs, cfg.RecentFilePath(), cfg.Recent.MaxFiles)
	if err := recent.Load(); err != nil {
		logger.Warn("failed to load recent files", "error", err.Error())
	}

	bus := event.NewBus()
	bus.SetLogger(logger.Slog())
	engine := graph.New(graph.WithBus(bus), graph.WithLogger(logger))

	if dialogs == nil {
		dialogs = newTermDialogs(cmd.InOrStdin(), cmd.ErrOrStderr(), false)
	}
	opts := []project.WorkspaceOption{project.WithWorkspaceLogger(logger)}
	if watch && cfg.Project.Watch {
		w, err := project.NewWatcher(bus, project.WithWatcherLogger(logger))
		if err != nil {
			logger.Warn("file watching disabled", "error", err.Error())
		} else {
			w.Start()
			opts = append(opts, project.WithWatcher(w))
		}
	}
	ws := project.NewWorkspace(engine, project.NewStore(appFs, logger), recent, dialogs,
		text, cfg.Project.AppName, cfg.Project.Extension, opts...)

	return &env{cfg: cfg, logger: logger, text: text, ws: ws}, nil
}

// newLogger opens the rotating log file in the state directory. Logging
// problems never stop a command; they fall back to a no-op logger.
func newLogger(cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}
	rotation := logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   true,
	}
	logger, err := logging.NewLoggerWithRotation(config.StateDir(), cfg.Logging.Level, rotation)
	if err != nil {
		return logging.NopLogger()
	}
	return logger
}

// Close releases the workspace and flushes the log.
func (e *env) Close() {
	_ = e.ws.Close()
	_ = e.logger.Close()
}

func (e *env) engine() *graph.Engine {
	return e.ws.Engine
}

// open loads path into the engine.
func (e *env) open(ctx context.Context, path string) error {
	return e.ws.ReadFile(ctx, absPath(path))
}

// absPath makes path absolute so the recent-files list does not depend on
// the working directory.
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// save writes the engine back to the file it was opened from.
func (e *env) save() error {
	path := e.ws.File.Path()
	if path == "" {
		return errors.ErrNoFilePath
	}
	return e.ws.SaveTo(path)
}

// mustFind returns the task with id, or a NotFoundError the user can read.
func (e *env) mustFind(id string) (task.Task, error) {
	t, ok := e.engine().FindTaskByID(id)
	if !ok {
		return task.Task{}, errors.NewNotFoundError("task", id)
	}
	return t, nil
}

// withProject opens path, runs fn, and saves when fn reports a change.
func withProject(cmd *cobra.Command, path string, fn func(e *env, out io.Writer) (bool, error)) error {
	e, err := newEnv(cmd, nil, false)
	if err != nil {
		return err
	}
	defer e.Close()

	log := e.logger.WithProject(path).WithComponent("cli")
	if err := e.open(cmd.Context(), path); err != nil {
		return err
	}
	changed, err := fn(e, cmd.OutOrStdout())
	if err != nil {
		log.Debug("command failed", "command", cmd.Name(), "error", err.Error())
		return err
	}
	if !changed {
		return nil
	}
	if err := e.save(); err != nil {
		return errors.Wrapf(err, "failed to save %s", path)
	}
	log.Info("command applied", "command", cmd.Name(), "tasks", e.engine().Len())
	return nil
}
