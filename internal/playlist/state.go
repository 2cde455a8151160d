package playlist

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/mitchellh/hashstructure/v2"
	"github.com/tessro/crate/internal/core"
	crerrors "github.com/tessro/crate/internal/errors"
)

// State is the full persisted form of a playlist.
type State struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Tracks       []*core.Track `json:"tracks"`
	CurrentIndex int           `json:"current_index"`
	Shuffle      bool          `json:"shuffle"`
	Repeat       bool          `json:"repeat"`
	ShuffleOrder []int         `json:"shuffle_order,omitempty"`
}

// Snapshot captures the playlist's state. Track pointers are shared.
func (p *Playlist) Snapshot() State {
	return State{
		ID:           p.id,
		Name:         p.name,
		Tracks:       p.Tracks(),
		CurrentIndex: p.current,
		Shuffle:      p.shuffle,
		Repeat:       p.repeat,
		ShuffleOrder: p.ShuffleOrder(),
	}
}

// FromState rebuilds a playlist from a snapshot. A shuffled snapshot without
// a permutation gets a fresh one.
func FromState(s State, opts ...Option) (*Playlist, error) {
	if s.Name == "" {
		return nil, fmt.Errorf("restore playlist: %w", crerrors.ErrInvalidName)
	}
	for i, t := range s.Tracks {
		if t == nil {
			return nil, fmt.Errorf("restore %q: track %d is nil: %w", s.Name, i, crerrors.ErrInvalidArgument)
		}
	}

	p := New(s.Name, append([]Option{WithID(s.ID)}, opts...)...)
	p.tracks = append([]*core.Track(nil), s.Tracks...)
	p.repeat = s.Repeat
	p.shuffle = s.Shuffle

	switch {
	case !s.Shuffle && len(s.ShuffleOrder) > 0:
		return nil, fmt.Errorf("restore %q: shuffle order without shuffle mode: %w", s.Name, crerrors.ErrInvalidArgument)
	case s.Shuffle && len(s.ShuffleOrder) == 0:
		p.generateOrder()
	case s.Shuffle:
		if !isPermutation(s.ShuffleOrder, len(s.Tracks)) {
			return nil, fmt.Errorf("restore %q: shuffle order is not a permutation of %d tracks: %w",
				s.Name, len(s.Tracks), crerrors.ErrInvalidArgument)
		}
		p.order = append([]int(nil), s.ShuffleOrder...)
	}

	if s.CurrentIndex < 0 || s.CurrentIndex >= max(1, p.effectiveLen()) {
		return nil, fmt.Errorf("restore %q: cursor %d: %w", s.Name, s.CurrentIndex, crerrors.ErrIndexOutOfRange)
	}
	p.current = s.CurrentIndex

	return p, nil
}

func isPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, i := range order {
		if i < 0 || i >= n || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}

// Clone copies the playlist: canonical order, permutation, cursor and
// modes. The copy gets its own ID and an independently seeded generator, so
// later reshuffles of the two playlists do not track each other.
func (p *Playlist) Clone() *Playlist {
	return &Playlist{
		id:      uuid.New().String(),
		name:    p.name,
		tracks:  p.Tracks(),
		current: p.current,
		shuffle: p.shuffle,
		repeat:  p.repeat,
		order:   p.ShuffleOrder(),
		rng:     newRand(rand.Uint64()),
	}
}

// Fingerprint returns a hash of the playlist's persisted state. Two
// playlists with equal fingerprints save to the same content.
func (p *Playlist) Fingerprint() (uint64, error) {
	return hashstructure.Hash(p.Snapshot(), hashstructure.FormatV2, nil)
}
