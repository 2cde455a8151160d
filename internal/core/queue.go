package core

// Queue is a read-only view of a playlist in effective order: canonical
// order normally, the shuffle permutation while shuffle is on.
type Queue struct {
	Name         string   `json:"name"`
	Tracks       []*Track `json:"tracks"`
	CurrentIndex int      `json:"current_index"`
	Shuffle      bool     `json:"shuffle"`
	Repeat       bool     `json:"repeat"`
}

// Current returns the track under the cursor, or nil if the queue is empty.
func (q *Queue) Current() *Track {
	if q == nil || len(q.Tracks) == 0 || q.CurrentIndex < 0 || q.CurrentIndex >= len(q.Tracks) {
		return nil
	}
	return q.Tracks[q.CurrentIndex]
}

// Upcoming returns tracks after the cursor.
func (q *Queue) Upcoming() []*Track {
	if q == nil || len(q.Tracks) == 0 || q.CurrentIndex < 0 || q.CurrentIndex >= len(q.Tracks)-1 {
		return nil
	}
	return q.Tracks[q.CurrentIndex+1:]
}

// Len returns the total number of tracks in the queue.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Tracks)
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}
