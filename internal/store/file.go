package store

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	crerrors "github.com/tessro/crate/internal/errors"
)

// fileStore holds what the file-backed stores share: a directory of one
// file per playlist.
type fileStore struct {
	dir string
	ext string
	log *zap.Logger
}

var nameReplacer = strings.NewReplacer("/", "_", "\\", "_", ":", "_", "\x00", "")

// fileName turns a playlist name into a safe file stem.
func fileName(name string) string {
	return strings.TrimLeft(nameReplacer.Replace(strings.TrimSpace(name)), ".")
}

// path resolves location to a file path.
func (s *fileStore) path(location string) (string, error) {
	if s.hasExt(location) {
		return location, nil
	}
	stem := fileName(location)
	if stem == "" {
		return "", fmt.Errorf("location %q: %w", location, crerrors.ErrInvalidName)
	}
	return filepath.Join(s.dir, stem+s.ext), nil
}

func (s *fileStore) hasExt(location string) bool {
	return strings.EqualFold(filepath.Ext(location), s.ext)
}

// write stores data at path with owner-only permissions.
func (s *fileStore) write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create playlist directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write playlist file: %w", err)
	}
	s.log.Debug("saved playlist", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

// read returns the file at location, or nil data if it does not exist.
func (s *fileStore) read(location string) (string, []byte, error) {
	path, err := s.path(location)
	if err != nil {
		return "", nil, err
	}
	data, err := s.readPath(path)
	return path, data, err
}

func (s *fileStore) readPath(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read playlist file: %w", err)
	}
	return data, nil
}

// Delete removes the playlist file at location.
func (s *fileStore) Delete(location string) error {
	path, err := s.path(location)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", crerrors.ErrPlaylistNotFound, location)
		}
		return fmt.Errorf("failed to delete playlist file: %w", err)
	}
	s.log.Debug("deleted playlist", zap.String("path", path))
	return nil
}

// List returns the names of the playlist files in the directory.
func (s *fileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !s.hasExt(e.Name()) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	slices.Sort(names)
	return names, nil
}

// IsValidFormat reports whether location is a bare name or carries the
// store's extension.
func (s *fileStore) IsValidFormat(location string) bool {
	if location == "" {
		return false
	}
	return filepath.Ext(location) == "" || s.hasExt(location)
}

// Extension returns the file extension, including the dot.
func (s *fileStore) Extension() string {
	return s.ext
}

// Dir returns the directory playlists are stored in.
func (s *fileStore) Dir() string {
	return s.dir
}

// Close is a no-op for file stores.
func (s *fileStore) Close() error {
	return nil
}
