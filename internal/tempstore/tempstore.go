// Package tempstore keeps uploaded images on disk for the duration of one
// analysis.
package tempstore

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Store struct {
	dir string
}

// New returns a store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes data under a fresh name that keeps the extension of filename
// and returns that name.
func (s *Store) Save(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	name := uuid.NewString() + ext
	if err := os.WriteFile(s.Path(name), data, 0o600); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return name, nil
}

// Path returns the on-disk location of a saved name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Delete removes a saved file. Deleting a missing file is not an error.
func (s *Store) Delete(name string) error {
	if err := os.Remove(s.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete upload %s: %w", name, err)
	}
	return nil
}

// WithFile saves data, calls fn with the saved path and deletes the file
// afterwards, also when fn returns an error or panics.
func (s *Store) WithFile(filename string, data []byte, fn func(path string) error) error {
	name, err := s.Save(filename, data)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Delete(name); err != nil {
			slog.Warn("Unable to remove temporary upload", "name", name, "err", err)
		}
	}()
	return fn(s.Path(name))
}
