package project

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Iron-Ham/taskgraph/internal/event"
	"github.com/Iron-Ham/taskgraph/internal/logging"
)

// DefaultDebounce is how long the watcher waits for a burst of filesystem
// events to settle. Editors often emit several events for a single save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changes other processes make to the open project file.
// It watches the file's directory, so atomic replace-by-rename saves are
// seen. Content the workspace wrote itself (announced via Expect) is not
// reported. All methods are safe on a nil *Watcher.
type Watcher struct {
	fsw      *fsnotify.Watcher
	bus      *event.Bus
	logger   *logging.Logger
	debounce time.Duration

	mu       sync.Mutex
	path     string
	dir      string
	expected [sha256.Size]byte
	expects  bool

	stopCh    chan struct{}
	closeOnce sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher creates a watcher that publishes FileChangedOnDiskEvent on bus.
// It watches nothing until Retarget is called and Start begins the loop.
func NewWatcher(bus *event.Bus, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		bus:      bus,
		logger:   logging.NopLogger(),
		debounce: DefaultDebounce,
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("watcher")
	return w, nil
}

// Start begins processing filesystem events.
func (w *Watcher) Start() {
	if w == nil {
		return
	}
	go w.watchLoop()
}

// Path returns the watched file, or "" when nothing is watched.
func (w *Watcher) Path() string {
	if w == nil {
		return ""
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Retarget switches the watch to path. An empty path stops watching.
func (w *Watcher) Retarget(path string) {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	if path == w.path {
		return
	}
	if w.dir != "" {
		_ = w.fsw.Remove(w.dir)
	}
	w.path, w.dir, w.expects = path, "", false
	if path == "" {
		return
	}

	dir := filepath.Dir(path)
	if err := w.fsw.Add(dir); err != nil {
		w.logger.Warn("failed to watch project directory", "dir", dir, "error", err.Error())
		return
	}
	w.dir = dir
	w.logger.Debug("watching project file", "path", path)
}

// Expect records data as the file's known content. A later change event
// whose file content matches is not reported.
func (w *Watcher) Expect(data []byte) {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.expected = sha256.Sum256(data)
	w.expects = true
}

// Close stops the loop and releases the underlying watcher.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	var err error
	w.closeOnce.Do(func() {
		close(w.stopCh)
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) watchLoop() {
	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C

	var pending fsnotify.Op
	var sawEvent bool

	for {
		select {
		case <-w.stopCh:
			debounceTimer.Stop()
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.isTarget(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending |= ev.Op
			sawEvent = true
			debounceTimer.Reset(w.debounce)

		case <-debounceTimer.C:
			if sawEvent {
				w.settle(pending)
			}
			pending, sawEvent = 0, false

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err.Error())
		}
	}
}

func (w *Watcher) isTarget(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path != "" && filepath.Clean(name) == w.path
}

// settle decides what a burst of events amounted to. The file's current
// content is authoritative: a remove followed by a create (an atomic save)
// is a change, not a removal.
func (w *Watcher) settle(ops fsnotify.Op) {
	w.mu.Lock()
	path := w.path
	w.mu.Unlock()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			w.logger.Info("project file removed", "path", path)
			w.bus.Publish(event.NewFileChangedOnDiskEvent(path, true))
			return
		}
		w.logger.Warn("failed to read changed project file", "path", path, "error", err.Error())
		return
	}

	sum := sha256.Sum256(data)
	w.mu.Lock()
	if w.path != path || (w.expects && sum == w.expected) {
		w.mu.Unlock()
		return
	}
	w.expected, w.expects = sum, true
	w.mu.Unlock()

	w.logger.Info("project file changed on disk", "path", path, "ops", ops.String())
	w.bus.Publish(event.NewFileChangedOnDiskEvent(path, false))
}
