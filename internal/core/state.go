package core

import "time"

// PlaybackState describes what a player is doing with a track.
type PlaybackState struct {
	Track     *Track    `json:"track"`
	Playlist  string    `json:"playlist,omitempty"`
	IsPlaying bool      `json:"is_playing"`
	StartedAt time.Time `json:"started_at,omitempty"`
	Simulated bool      `json:"simulated"`
}

// HasTrack returns true if there is an active track.
func (s *PlaybackState) HasTrack() bool {
	return s != nil && s.Track != nil
}

// Progress returns the time elapsed since playback started, capped at the
// track duration when known.
func (s *PlaybackState) Progress(now time.Time) time.Duration {
	if s == nil || !s.IsPlaying || s.StartedAt.IsZero() {
		return 0
	}
	elapsed := now.Sub(s.StartedAt)
	if s.Track != nil && s.Track.Duration > 0 && elapsed > s.Track.Duration {
		return s.Track.Duration
	}
	return elapsed
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *PlaybackState) ProgressPercent(now time.Time) float64 {
	if s == nil || s.Track == nil || s.Track.Duration == 0 {
		return 0
	}
	return float64(s.Progress(now)) / float64(s.Track.Duration) * 100
}
