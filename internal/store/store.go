// Package store persists playlists. A location names a saved playlist: for
// file-backed stores it is either a bare name resolved inside the store's
// directory or a path carrying the store's extension.
package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tessro/crate/internal/config"
	crerrors "github.com/tessro/crate/internal/errors"
	"github.com/tessro/crate/internal/playlist"
)

// Store saves and loads the full state of a playlist: name, tracks in
// canonical order, modes, shuffle permutation and cursor.
type Store interface {
	// Save writes pl to location, replacing anything already there.
	Save(pl *playlist.Playlist, location string) error
	// Load reads the playlist at location. It returns nil, nil when nothing
	// is stored there.
	Load(location string) (*playlist.Playlist, error)
	// Delete removes the playlist at location.
	Delete(location string) error
	// List returns the locations of all stored playlists, sorted.
	List() ([]string, error)
	// IsValidFormat reports whether location looks like something this
	// store can read.
	IsValidFormat(location string) bool
	// Extension returns the file extension the store writes.
	Extension() string
	Close() error
}

// Open returns the store selected by cfg.Format.
func Open(cfg config.PlaylistsConfig, log *zap.Logger) (Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dir := config.ExpandPath(cfg.Dir)

	switch cfg.Format {
	case "", config.FormatJSON:
		return NewJSONStore(dir, log), nil
	case config.FormatM3U:
		return NewM3UStore(dir, log), nil
	case config.FormatSQLite:
		return NewSQLiteStore(filepath.Join(dir, "crate.db"), log)
	default:
		return nil, fmt.Errorf("%w: %s", crerrors.ErrUnsupportedStore, cfg.Format)
	}
}

// ForPath returns a file store that can read or write path, chosen by its
// extension. It is used for import and export outside the configured store.
func ForPath(path string, log *zap.Logger) (Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dir := filepath.Dir(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case jsonExt:
		return NewJSONStore(dir, log), nil
	case m3uExt, ".m3u8":
		return NewM3UStore(dir, log), nil
	default:
		return nil, fmt.Errorf("%w: %s", crerrors.ErrUnsupportedStore, filepath.Ext(path))
	}
}

// LoadAll loads every stored playlist. Playlists that fail to load are
// reported in the result's errors and left out of its data.
func LoadAll(s Store) *crerrors.PartialResult[[]*playlist.Playlist] {
	result := &crerrors.PartialResult[[]*playlist.Playlist]{}

	locations, err := s.List()
	if err != nil {
		result.AddError(err)
		return result
	}

	for _, loc := range locations {
		pl, err := s.Load(loc)
		if err != nil {
			result.AddError(fmt.Errorf("%s: %w", loc, err))
			continue
		}
		if pl != nil {
			result.Data = append(result.Data, pl)
		}
	}
	return result
}

// LoadOrNotFound loads location and turns an absent playlist into
// ErrPlaylistNotFound.
func LoadOrNotFound(s Store, location string) (*playlist.Playlist, error) {
	pl, err := s.Load(location)
	if err != nil {
		return nil, err
	}
	if pl == nil {
		return nil, fmt.Errorf("%w: %s", crerrors.ErrPlaylistNotFound, location)
	}
	return pl, nil
}
