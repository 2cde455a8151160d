package playlist

import "github.com/tessro/crate/internal/core"

// effectiveLen is the length of the order the cursor moves through.
func (p *Playlist) effectiveLen() int {
	if p.shuffle {
		return len(p.order)
	}
	return len(p.tracks)
}

// canonicalIndex maps a cursor position to a canonical index.
func (p *Playlist) canonicalIndex(pos int) int {
	if p.shuffle && len(p.order) > 0 {
		return p.order[pos%len(p.order)]
	}
	return pos
}

// Next advances the cursor and returns the new current track.
//
// Without repeat, stepping past the last position leaves the cursor on the
// last position and returns nil to signal the end of the playlist. With
// repeat, the cursor wraps to 0.
func (p *Playlist) Next() *core.Track {
	if len(p.tracks) == 0 {
		return nil
	}

	limit := p.effectiveLen()
	p.current++

	if p.current >= limit {
		if !p.repeat {
			p.current = max(limit-1, 0)
			return nil
		}
		p.current = 0
	}

	return p.Current()
}

// Previous moves the cursor back and returns the current track. At position
// 0 it wraps to the end with repeat on, and stays put otherwise.
func (p *Playlist) Previous() *core.Track {
	if len(p.tracks) == 0 {
		return nil
	}

	switch {
	case p.current > 0:
		p.current--
	case p.repeat:
		p.current = max(p.effectiveLen()-1, 0)
	}

	return p.Current()
}

// SetCurrentIndex moves the cursor to a position in effective order. It
// returns false and changes nothing if index is out of range.
func (p *Playlist) SetCurrentIndex(index int) bool {
	if index < 0 || index >= p.effectiveLen() {
		return false
	}
	p.current = index
	return true
}

// SetShuffle turns shuffle mode on or off. Turning it on draws a fresh
// permutation; turning it off discards it. The cursor value is kept as is,
// so it may point at a different track afterwards.
func (p *Playlist) SetShuffle(enabled bool) {
	p.shuffle = enabled
	if enabled {
		p.generateOrder()
		return
	}
	p.order = nil
}

// SetRepeat turns repeat mode on or off.
func (p *Playlist) SetRepeat(enabled bool) {
	p.repeat = enabled
}

// generateOrder draws a uniform permutation of the canonical indices.
func (p *Playlist) generateOrder() {
	if len(p.tracks) == 0 {
		p.order = nil
		return
	}
	order := make([]int, len(p.tracks))
	for i := range order {
		order[i] = i
	}
	p.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	p.order = order
}

// Queue returns a snapshot of the playlist in effective order.
func (p *Playlist) Queue() *core.Queue {
	q := &core.Queue{
		Name:         p.name,
		Tracks:       make([]*core.Track, 0, p.effectiveLen()),
		CurrentIndex: p.current,
		Shuffle:      p.shuffle,
		Repeat:       p.repeat,
	}
	for pos := 0; pos < p.effectiveLen(); pos++ {
		q.Tracks = append(q.Tracks, p.tracks[p.canonicalIndex(pos)])
	}
	return q
}

// CanonicalIndex maps a position in effective order to the canonical index
// of the same entry. It returns false if pos is out of range.
func (p *Playlist) CanonicalIndex(pos int) (int, bool) {
	if pos < 0 || pos >= p.effectiveLen() {
		return 0, false
	}
	return p.canonicalIndex(pos), true
}

// Position maps a canonical index to its position in effective order, the
// inverse of CanonicalIndex. It returns false if index is out of range.
func (p *Playlist) Position(index int) (int, bool) {
	if index < 0 || index >= len(p.tracks) {
		return 0, false
	}
	if !p.shuffle {
		return index, true
	}
	for pos, c := range p.order {
		if c == index {
			return pos, true
		}
	}
	return 0, false
}
