package playlist

import (
	"sort"
	"strings"
	"time"

	"github.com/tessro/crate/internal/core"
)

// LessFunc reports whether a sorts before b.
type LessFunc func(a, b *core.Track) bool

// TotalDuration returns the sum of all track durations.
func (p *Playlist) TotalDuration() time.Duration {
	var total time.Duration
	for _, t := range p.tracks {
		if t != nil {
			total += t.Duration
		}
	}
	return total
}

// SortByTitle sorts the canonical order by title.
func (p *Playlist) SortByTitle() {
	p.SortBy(func(a, b *core.Track) bool { return a.Title < b.Title })
}

// SortByArtist sorts the canonical order by artist.
func (p *Playlist) SortByArtist() {
	p.SortBy(func(a, b *core.Track) bool { return a.Artist < b.Artist })
}

// SortByAlbum sorts the canonical order by album.
func (p *Playlist) SortByAlbum() {
	p.SortBy(func(a, b *core.Track) bool { return a.Album < b.Album })
}

// SortBy sorts the canonical order with a caller-supplied comparison. Equal
// elements keep their relative order. An active shuffle is redrawn since the
// old permutation no longer refers to the same tracks.
func (p *Playlist) SortBy(less LessFunc) {
	if less == nil {
		return
	}
	sort.SliceStable(p.tracks, func(i, j int) bool {
		return less(p.tracks[i], p.tracks[j])
	})
	if p.shuffle {
		p.generateOrder()
	}
}

// SearchByTitle returns tracks whose title contains query, in canonical
// order. Matching is case-sensitive.
func (p *Playlist) SearchByTitle(query string) []*core.Track {
	return p.search(func(t *core.Track) string { return t.Title }, query)
}

// SearchByArtist returns tracks whose artist contains query, in canonical
// order. Matching is case-sensitive.
func (p *Playlist) SearchByArtist(query string) []*core.Track {
	return p.search(func(t *core.Track) string { return t.Artist }, query)
}

// SearchByAlbum returns tracks whose album contains query, in canonical
// order. Matching is case-sensitive.
func (p *Playlist) SearchByAlbum(query string) []*core.Track {
	return p.search(func(t *core.Track) string { return t.Album }, query)
}

func (p *Playlist) search(field func(*core.Track) string, query string) []*core.Track {
	var results []*core.Track
	for _, t := range p.tracks {
		if t != nil && strings.Contains(field(t), query) {
			results = append(results, t)
		}
	}
	return results
}
