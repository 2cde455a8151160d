package scanner

import (
	"context"

	"github.com/tessro/crate/internal/core"
)

// Pending is the handle of a scan running on its own goroutine. It yields
// exactly one result. There is no cancellation: once started, a scan runs to
// completion.
type Pending struct {
	done   chan struct{}
	tracks []*core.Track
	err    error
}

// ScanForTracksAsync starts ScanForTracks on a new goroutine and returns
// immediately. The scan uses a copy of the scanner's configuration taken at
// call time; the progress callback, if set, runs on the scan goroutine.
func (s *Scanner) ScanForTracksAsync(root string) *Pending {
	p := &Pending{done: make(chan struct{})}
	worker := s.Clone()

	go func() {
		defer close(p.done)
		p.tracks, p.err = worker.ScanForTracks(root)
	}()

	return p
}

// Done is closed when the scan has finished.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the scan finishes and returns its result.
func (p *Pending) Wait() ([]*core.Track, error) {
	<-p.done
	return p.tracks, p.err
}

// WaitContext is Wait with a deadline on the caller's side. If ctx ends
// first it returns ctx.Err(); the scan itself keeps running and its result
// stays available through Wait.
func (p *Pending) WaitContext(ctx context.Context) ([]*core.Track, error) {
	select {
	case <-p.done:
		return p.tracks, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
