package project

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultMaxRecentFiles caps the recent-files list when no limit is configured.
const DefaultMaxRecentFiles = 10

type recentState struct {
	Files []string `yaml:"files"`
}

// RecentFiles is the most-recent-first list of project paths, persisted as
// YAML. Entries are unique.
type RecentFiles struct {
	fs    afero.Fs
	path  string
	max   int
	files []string
}

// NewRecentFiles returns an empty list stored at path on fs. A max of zero
// or less disables the cap.
func NewRecentFiles(fs afero.Fs, path string, max int) *RecentFiles {
	return &RecentFiles{fs: fs, path: path, max: max}
}

// Load replaces the in-memory list with the stored one. A missing file
// yields an empty list.
func (r *RecentFiles) Load() error {
	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.files = nil
			return nil
		}
		return fmt.Errorf("read recent files: %w", err)
	}
	var state recentState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("parse recent files: %w", err)
	}
	r.files = r.capped(compactUnique(state.Files))
	return nil
}

// Push moves path to the front of the list and saves it.
func (r *RecentFiles) Push(path string) error {
	files := make([]string, 0, len(r.files)+1)
	files = append(files, path)
	for _, f := range r.files {
		if f != path {
			files = append(files, f)
		}
	}
	r.files = r.capped(files)
	return r.save()
}

// Remove drops path from the list and saves it.
func (r *RecentFiles) Remove(path string) error {
	if !slices.Contains(r.files, path) {
		return nil
	}
	r.files = slices.DeleteFunc(r.files, func(f string) bool { return f == path })
	return r.save()
}

// Clear empties the list and saves it.
func (r *RecentFiles) Clear() error {
	r.files = nil
	return r.save()
}

// Files returns the paths, most recent first.
func (r *RecentFiles) Files() []string {
	return slices.Clone(r.files)
}

// Names returns the base names of the paths, most recent first.
func (r *RecentFiles) Names() []string {
	names := make([]string, len(r.files))
	for i, f := range r.files {
		names[i] = FileBaseName(f)
	}
	return names
}

func (r *RecentFiles) capped(files []string) []string {
	if r.max > 0 && len(files) > r.max {
		return files[:r.max]
	}
	return files
}

func (r *RecentFiles) save() error {
	data, err := yaml.Marshal(recentState{Files: r.files})
	if err != nil {
		return fmt.Errorf("encode recent files: %w", err)
	}
	if err := r.fs.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("create recent files directory: %w", err)
	}
	if err := afero.WriteFile(r.fs, r.path, data, 0644); err != nil {
		return fmt.Errorf("write recent files: %w", err)
	}
	return nil
}

func compactUnique(files []string) []string {
	seen := make(map[string]bool, len(files))
	out := make([]string, 0, len(files))
	for _, f := range files {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
