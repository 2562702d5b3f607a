package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/taskgraph/internal/errors"
	"github.com/Iron-Ham/taskgraph/internal/logging"
)

// Store reads and writes project files on an afero filesystem. Writes are
// atomic (temp file plus rename). On the OS filesystem a write also holds an
// advisory lock so two processes cannot interleave saves of the same file.
type Store struct {
	fs     afero.Fs
	lock   bool
	logger *logging.Logger
}

// NewStore returns a Store over fs. Locking is enabled only for
// *afero.OsFs, since flock needs real file descriptors.
func NewStore(fs afero.Fs, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.NopLogger()
	}
	_, isOS := fs.(*afero.OsFs)
	return &Store{
		fs:     fs,
		lock:   isOS,
		logger: logger.WithComponent("store"),
	}
}

// NewOSStore returns a Store over the real filesystem.
func NewOSStore(logger *logging.Logger) *Store {
	return NewStore(afero.NewOsFs(), logger)
}

// Fs returns the underlying filesystem.
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// Read returns the content of the project file at path.
func (s *Store) Read(path string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("file", path).WithCause(err)
		}
		return nil, errors.NewProjectError("failed to read project", err).WithPath(path)
	}
	s.logger.Debug("project read", "path", path, "bytes", len(data))
	return data, nil
}

// Exists reports whether path exists.
func (s *Store) Exists(path string) bool {
	ok, err := afero.Exists(s.fs, path)
	return err == nil && ok
}

// Write atomically replaces the project file at path with data.
func (s *Store) Write(path string, data []byte) error {
	if s.lock {
		fl := NewFileLock(path)
		ok, err := fl.TryLock()
		if err != nil {
			return errors.NewProjectError("failed to lock project", err).WithPath(path)
		}
		if !ok {
			return errors.NewProjectError("failed to save project", errors.ErrProjectLocked).WithPath(path)
		}
		defer func() { _ = fl.Unlock() }()
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return errors.NewProjectError("failed to create directory", err).WithPath(path)
		}
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0644); err != nil {
		return errors.NewProjectError("failed to write temp file", err).WithPath(path)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp) // best-effort cleanup
		return errors.NewProjectError(fmt.Sprintf("failed to rename %s", filepath.Base(tmp)), err).WithPath(path)
	}

	s.logger.Debug("project written", "path", path, "bytes", len(data))
	return nil
}
