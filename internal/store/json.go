package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/crate/internal/playlist"
)

const (
	jsonExt = ".json"

	// FormatVersion is written into every JSON playlist document.
	FormatVersion = 1
)

// jsonDocument is the on-disk form of a playlist.
type jsonDocument struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`
	playlist.State
}

// JSONStore keeps one pretty-printed JSON document per playlist.
type JSONStore struct {
	fileStore
}

// NewJSONStore creates a JSON store rooted at dir.
func NewJSONStore(dir string, log *zap.Logger) *JSONStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &JSONStore{fileStore{dir: dir, ext: jsonExt, log: log}}
}

// Save writes pl as JSON.
func (s *JSONStore) Save(pl *playlist.Playlist, location string) error {
	path, err := s.path(location)
	if err != nil {
		return err
	}

	doc := jsonDocument{
		Version: FormatVersion,
		SavedAt: time.Now().UTC(),
		State:   pl.Snapshot(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal playlist: %w", err)
	}

	return s.write(path, append(data, '\n'))
}

// Load reads a JSON playlist. It returns nil, nil if the file does not exist.
func (s *JSONStore) Load(location string) (*playlist.Playlist, error) {
	path, data, err := s.read(location)
	if err != nil || data == nil {
		return nil, err
	}

	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse playlist file %s: %w", path, err)
	}
	if doc.Version > FormatVersion {
		return nil, fmt.Errorf("playlist file %s has version %d, newer than supported %d", path, doc.Version, FormatVersion)
	}

	return playlist.FromState(doc.State)
}
