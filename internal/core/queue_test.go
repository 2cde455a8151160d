package core

import (
	"testing"
	"time"
)

func TestQueueCurrentAndUpcoming(t *testing.T) {
	a := &Track{Path: "a", Title: "A"}
	b := &Track{Path: "b", Title: "B"}
	c := &Track{Path: "c", Title: "C"}

	q := &Queue{Tracks: []*Track{a, b, c}, CurrentIndex: 1}
	if q.Current() != b {
		t.Errorf("Current() = %v, want B", q.Current())
	}
	up := q.Upcoming()
	if len(up) != 1 || up[0] != c {
		t.Errorf("Upcoming() = %v, want [C]", up)
	}

	q.CurrentIndex = 2
	if q.Upcoming() != nil {
		t.Error("Upcoming() at last index should be nil")
	}

	q.CurrentIndex = 5
	if q.Current() != nil {
		t.Error("Current() out of range should be nil")
	}
}

func TestQueueEmpty(t *testing.T) {
	var q *Queue
	if !q.IsEmpty() || q.Len() != 0 || q.Current() != nil {
		t.Error("nil queue should be empty")
	}
}

func TestPlaybackStateProgress(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := &PlaybackState{
		Track:     &Track{Duration: 4 * time.Minute},
		IsPlaying: true,
		StartedAt: start,
	}

	if got := s.Progress(start.Add(time.Minute)); got != time.Minute {
		t.Errorf("Progress() = %v, want 1m", got)
	}
	if got := s.ProgressPercent(start.Add(time.Minute)); got != 25 {
		t.Errorf("ProgressPercent() = %v, want 25", got)
	}
	if got := s.Progress(start.Add(time.Hour)); got != 4*time.Minute {
		t.Errorf("Progress() = %v, want capped at duration", got)
	}

	s.IsPlaying = false
	if got := s.Progress(start.Add(time.Minute)); got != 0 {
		t.Errorf("Progress() when stopped = %v, want 0", got)
	}
	if !s.HasTrack() {
		t.Error("HasTrack() = false, want true")
	}
}
