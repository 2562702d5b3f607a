package project

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/taskgraph/internal/errors"
	"github.com/Iron-Ham/taskgraph/internal/graph"
	"github.com/Iron-Ham/taskgraph/internal/i18n"
	"github.com/Iron-Ham/taskgraph/internal/logging"
)

// Confirmation is the answer to "discard or save unsaved changes?".
type Confirmation int

const (
	// ConfirmNo proceeds without saving. It is also the answer when there
	// is nothing unsaved.
	ConfirmNo Confirmation = iota
	// ConfirmYes saves first, then proceeds.
	ConfirmYes
	// ConfirmCancel aborts the command.
	ConfirmCancel
)

func (c Confirmation) String() string {
	switch c {
	case ConfirmYes:
		return "yes"
	case ConfirmCancel:
		return "cancel"
	default:
		return "no"
	}
}

// Dialogs is the user interaction surface the file commands need.
// PickOpen and PickSave return "" when the user cancels.
type Dialogs interface {
	Ask(ctx context.Context, title, message string) (bool, error)
	Message(ctx context.Context, title, message string) error
	PickOpen(ctx context.Context, extension string) (string, error)
	PickSave(ctx context.Context, extension string) (string, error)
}

// TitleSetter receives the window title after every file state change.
type TitleSetter interface {
	SetTitle(title string)
}

// Workspace wires an engine to a file: it implements the New, Open, Open
// Recent, Save and Save As commands.
type Workspace struct {
	Engine  *graph.Engine
	File    *CurrentFile
	Store   *Store
	Recent  *RecentFiles
	Dialogs Dialogs
	Text    i18n.Localizer
	Title   TitleSetter
	Watcher *Watcher // optional

	AppName   string
	Extension string

	logger *logging.Logger
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*Workspace)

// WithWatcher attaches a watcher that follows the open file.
func WithWatcher(w *Watcher) WorkspaceOption {
	return func(ws *Workspace) { ws.Watcher = w }
}

// WithTitleSetter sets the title receiver.
func WithTitleSetter(t TitleSetter) WorkspaceOption {
	return func(ws *Workspace) { ws.Title = t }
}

// WithWorkspaceLogger sets the logger.
func WithWorkspaceLogger(l *logging.Logger) WorkspaceOption {
	return func(ws *Workspace) {
		if l != nil {
			ws.logger = l
		}
	}
}

// NewWorkspace builds a Workspace and starts tracking the engine's bus for
// dirty state. The engine must have a bus.
func NewWorkspace(engine *graph.Engine, store *Store, recent *RecentFiles, dialogs Dialogs,
	text i18n.Localizer, appName, extension string, opts ...WorkspaceOption) *Workspace {
	ws := &Workspace{
		Engine:    engine,
		File:      NewCurrentFile(),
		Store:     store,
		Recent:    recent,
		Dialogs:   dialogs,
		Text:      text,
		AppName:   appName,
		Extension: strings.TrimPrefix(extension, "."),
		logger:    logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(ws)
	}
	ws.logger = ws.logger.WithComponent("project")
	if bus := engine.Bus(); bus != nil {
		ws.File.Track(bus)
	}
	return ws
}

// WindowTitle returns "<app> - <file base name>", or the new-project label
// for a never-saved project.
func (ws *Workspace) WindowTitle() string {
	if ws.File.IsNew() || ws.File.Path() == "" {
		return ws.AppName + " - " + ws.Text.T(i18n.KeyNewProject)
	}
	return ws.AppName + " - " + FileBaseName(ws.File.Path())
}

func (ws *Workspace) updateTitle() {
	if ws.Title != nil {
		ws.Title.SetTitle(ws.WindowTitle())
	}
}

// AskConfirmation asks whether to discard unsaved changes and, if so,
// whether to save them first. With nothing unsaved it returns ConfirmNo
// without asking.
func (ws *Workspace) AskConfirmation(ctx context.Context) (Confirmation, error) {
	if !ws.File.IsDirty() {
		return ConfirmNo, nil
	}
	ok, err := ws.Dialogs.Ask(ctx, ws.Text.T(i18n.KeyTitleYouSure), ws.Text.T(i18n.KeyYouSure))
	if err != nil {
		return ConfirmCancel, err
	}
	if !ok {
		return ConfirmCancel, nil
	}
	save, err := ws.Dialogs.Ask(ctx, ws.Text.T(i18n.KeyTitleSaveChanges), ws.Text.T(i18n.KeySaveChanges))
	if err != nil {
		return ConfirmCancel, err
	}
	if save {
		return ConfirmYes, nil
	}
	return ConfirmNo, nil
}

// proceed runs the confirmation flow shared by New, Open, Open Recent and
// Close. It reports whether the caller may discard the current project.
func (ws *Workspace) proceed(ctx context.Context) (bool, error) {
	answer, err := ws.AskConfirmation(ctx)
	if err != nil {
		return false, err
	}
	switch answer {
	case ConfirmCancel:
		return false, nil
	case ConfirmYes:
		return ws.Save(ctx)
	default:
		return true, nil
	}
}

// New replaces the project with an empty, never-saved one.
func (ws *Workspace) New(ctx context.Context) (bool, error) {
	ok, err := ws.proceed(ctx)
	if err != nil || !ok {
		return false, err
	}
	ws.Engine.Clear()
	ws.File.SetNew()
	ws.Watcher.Retarget("")
	ws.updateTitle()
	ws.logger.Info("new project")
	return true, nil
}

// Open asks for a file and opens it. It returns the opened path, or "" when
// the user cancelled or the file could not be read.
func (ws *Workspace) Open(ctx context.Context) (string, error) {
	ok, err := ws.proceed(ctx)
	if err != nil || !ok {
		return "", err
	}
	path, err := ws.Dialogs.PickOpen(ctx, ws.Extension)
	if err != nil || path == "" {
		return "", err
	}
	if err := ws.ReadFile(ctx, path); err != nil {
		return "", nil
	}
	return path, nil
}

// OpenRecent opens path after the confirmation flow.
func (ws *Workspace) OpenRecent(ctx context.Context, path string) (bool, error) {
	ok, err := ws.proceed(ctx)
	if err != nil || !ok {
		return false, err
	}
	return ws.ReadFile(ctx, path) == nil, nil
}

// Save writes to the current path, or falls back to Save As for a
// never-saved project. It reports whether the project was saved.
func (ws *Workspace) Save(ctx context.Context) (bool, error) {
	if path := ws.File.Path(); path != "" {
		if err := ws.SaveTo(path); err != nil {
			return false, err
		}
		return true, nil
	}
	path, err := ws.SaveAs(ctx)
	return path != "", err
}

// SaveAs asks for a destination and saves there. The configured extension
// is appended when the chosen name has none. It returns "" when cancelled.
func (ws *Workspace) SaveAs(ctx context.Context) (string, error) {
	path, err := ws.Dialogs.PickSave(ctx, ws.Extension)
	if err != nil || path == "" {
		return "", err
	}
	if filepath.Ext(path) == "" && ws.Extension != "" {
		path += "." + ws.Extension
	}
	if err := ws.SaveTo(path); err != nil {
		return "", err
	}
	return path, nil
}

// ConfirmClose runs the confirmation flow before quitting and reports
// whether the caller may exit.
func (ws *Workspace) ConfirmClose(ctx context.Context) (bool, error) {
	return ws.proceed(ctx)
}

// ReadFile loads path into the engine and makes it the current file. On
// failure the user is shown the unable-to-open message and the engine is
// left as it was.
func (ws *Workspace) ReadFile(ctx context.Context, path string) error {
	data, err := ws.Store.Read(path)
	if err == nil {
		err = ws.Engine.Load(data)
	}
	if err != nil {
		ws.logger.Error("failed to open project", "path", path, "error", err.Error())
		msg := ws.Text.T(i18n.KeyUnableToOpenFile) + ` "` + path + `"`
		if derr := ws.Dialogs.Message(ctx, ws.Text.T(i18n.KeyError), msg); derr != nil {
			return errors.Join(err, derr)
		}
		return errors.NewProjectError("unable to open file", err).WithPath(path)
	}

	ws.File.SetOpened(path)
	ws.Watcher.Retarget(path)
	ws.Watcher.Expect(data)
	ws.pushRecent(path)
	ws.updateTitle()
	ws.logger.Info("project opened", "path", path, "tasks", ws.Engine.Len())
	return nil
}

// SaveTo writes the engine's tasks to path and makes it the current file.
func (ws *Workspace) SaveTo(path string) error {
	data, err := ws.Engine.Marshal()
	if err != nil {
		return errors.NewProjectError("failed to encode project", err).WithPath(path)
	}
	ws.Watcher.Expect(data)
	if err := ws.Store.Write(path, data); err != nil {
		ws.logger.Error("failed to save project", "path", path, "error", err.Error())
		return err
	}
	ws.Watcher.Retarget(path)
	ws.Watcher.Expect(data)

	ws.File.SetSaved(path)
	ws.pushRecent(path)
	ws.updateTitle()
	ws.logger.Info("project saved", "path", path, "tasks", ws.Engine.Len())
	return nil
}

// pushRecent records path in the recent list. A failure to persist the list
// is logged and does not fail the surrounding command.
func (ws *Workspace) pushRecent(path string) {
	if ws.Recent == nil {
		return
	}
	if err := ws.Recent.Push(path); err != nil {
		ws.logger.Warn("failed to update recent files", "error", err.Error())
	}
}

// Close stops tracking the engine and the watcher.
func (ws *Workspace) Close() error {
	ws.File.Untrack()
	return ws.Watcher.Close()
}
