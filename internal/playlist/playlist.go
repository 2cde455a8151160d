// Package playlist implements an ordered track collection with a play
// cursor, independent shuffle and repeat modes, and search/sort helpers.
//
// A Playlist is not safe for concurrent use; callers serialize access.
package playlist

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"github.com/tessro/crate/internal/core"
	crerrors "github.com/tessro/crate/internal/errors"
)

// DefaultName is used when a playlist is created without a name.
const DefaultName = "New Playlist"

// Playlist owns an ordered sequence of shared tracks and a cursor into its
// effective order.
type Playlist struct {
	id      string
	name    string
	tracks  []*core.Track
	current int
	shuffle bool
	repeat  bool

	// order is a permutation of canonical indices, non-empty only while
	// shuffle is on and the playlist has tracks.
	order []int
	rng   *rand.Rand
}

// Option configures a Playlist at construction.
type Option func(*Playlist)

// WithTracks seeds the playlist with an initial track list. Nil entries are
// skipped.
func WithTracks(tracks ...*core.Track) Option {
	return func(p *Playlist) {
		for _, t := range tracks {
			if t != nil {
				p.tracks = append(p.tracks, t)
			}
		}
	}
}

// WithSeed makes shuffle permutations reproducible.
func WithSeed(seed uint64) Option {
	return func(p *Playlist) {
		p.rng = newRand(seed)
	}
}

// WithID sets the playlist identifier instead of generating one.
func WithID(id string) Option {
	return func(p *Playlist) {
		if id != "" {
			p.id = id
		}
	}
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// New creates a playlist. An empty name falls back to DefaultName.
func New(name string, opts ...Option) *Playlist {
	if name == "" {
		name = DefaultName
	}
	p := &Playlist{
		id:   uuid.New().String(),
		name: name,
		rng:  newRand(rand.Uint64()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns the playlist identifier.
func (p *Playlist) ID() string {
	return p.id
}

// Name returns the playlist name.
func (p *Playlist) Name() string {
	return p.name
}

// SetName renames the playlist. Empty names are rejected.
func (p *Playlist) SetName(name string) error {
	if name == "" {
		return fmt.Errorf("rename %q: %w", p.name, crerrors.ErrInvalidName)
	}
	p.name = name
	return nil
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// IsEmpty returns true if the playlist has no tracks.
func (p *Playlist) IsEmpty() bool {
	return len(p.tracks) == 0
}

// CurrentIndex returns the cursor position in effective order.
func (p *Playlist) CurrentIndex() int {
	return p.current
}

// Shuffle reports whether shuffle mode is on.
func (p *Playlist) Shuffle() bool {
	return p.shuffle
}

// Repeat reports whether repeat mode is on.
func (p *Playlist) Repeat() bool {
	return p.repeat
}

// AddTrack appends a track to the canonical order.
func (p *Playlist) AddTrack(t *core.Track) error {
	if t == nil {
		return fmt.Errorf("add track to %q: track is nil: %w", p.name, crerrors.ErrInvalidArgument)
	}
	p.tracks = append(p.tracks, t)
	if p.shuffle {
		p.generateOrder()
	}
	return nil
}

// AddTracks appends several tracks, skipping nil entries, and returns how
// many were added.
func (p *Playlist) AddTracks(tracks []*core.Track) int {
	added := 0
	for _, t := range tracks {
		if t == nil {
			continue
		}
		p.tracks = append(p.tracks, t)
		added++
	}
	if p.shuffle {
		p.generateOrder()
	}
	return added
}

// Append adds every track of other to the end of p.
func (p *Playlist) Append(other *Playlist) int {
	if other == nil {
		return 0
	}
	return p.AddTracks(other.Tracks())
}

// RemoveAt removes the canonical-order entry at index. It returns false and
// leaves the playlist untouched if index is out of range.
func (p *Playlist) RemoveAt(index int) bool {
	if index < 0 || index >= len(p.tracks) {
		return false
	}

	p.tracks = slices.Delete(p.tracks, index, index+1)

	switch {
	case len(p.tracks) == 0:
		p.current = 0
	case p.current >= len(p.tracks):
		p.current = len(p.tracks) - 1
	}

	if p.shuffle {
		p.generateOrder()
	}
	return true
}

// Remove removes the first track equal to t (same path).
func (p *Playlist) Remove(t *core.Track) bool {
	index, ok := p.Find(t)
	if !ok {
		return false
	}
	return p.RemoveAt(index)
}

// Clear removes every track and resets the cursor.
func (p *Playlist) Clear() {
	p.tracks = nil
	p.order = nil
	p.current = 0
}

// Track returns the canonical-order track at index, or nil if out of range.
func (p *Playlist) Track(index int) *core.Track {
	if index < 0 || index >= len(p.tracks) {
		return nil
	}
	return p.tracks[index]
}

// At is an alias for Track.
func (p *Playlist) At(index int) *core.Track {
	return p.Track(index)
}

// Current returns the track under the cursor in effective order, or nil if
// the playlist is empty.
func (p *Playlist) Current() *core.Track {
	if len(p.tracks) == 0 {
		return nil
	}
	return p.Track(p.canonicalIndex(p.current))
}

// Find returns the canonical position of the first track equal to t.
func (p *Playlist) Find(t *core.Track) (int, bool) {
	if t == nil {
		return 0, false
	}
	for i, candidate := range p.tracks {
		if candidate.Equal(t) {
			return i, true
		}
	}
	return 0, false
}

// Tracks returns a copy of the canonical order.
func (p *Playlist) Tracks() []*core.Track {
	out := make([]*core.Track, len(p.tracks))
	copy(out, p.tracks)
	return out
}

// ShuffleOrder returns a copy of the shuffle permutation.
func (p *Playlist) ShuffleOrder() []int {
	if len(p.order) == 0 {
		return nil
	}
	out := make([]int, len(p.order))
	copy(out, p.order)
	return out
}
