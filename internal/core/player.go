package core

import "context"

// Player receives tracks to play. The playlist engine never calls it; the
// application reads the current track and hands it over.
type Player interface {
	// Play starts playback of a track, replacing anything already playing.
	Play(ctx context.Context, track *Track) error
	// Wait blocks until the current track finishes or ctx is done.
	Wait(ctx context.Context) error
	// Stop ends playback.
	Stop(ctx context.Context) error

	GetState(ctx context.Context) (*PlaybackState, error)
}
