// Package osfs implements platform.Store on the local file system.
package osfs

import (
	"errors"
	"io/fs"
	"os"
	"sort"
)

// Store writes artifacts to disk.
type Store struct{}

// New returns a Store.
func New() *Store { return &Store{} }

// ListDir returns the entry names of dir, sorted. A missing directory has
// no entries.
func (Store) ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes path recursively.
func (Store) Remove(path string) error {
	return os.RemoveAll(path)
}

// MkdirAll creates dir and its parents.
func (Store) MkdirAll(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// WriteFile replaces the file at path.
func (Store) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
