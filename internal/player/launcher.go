// Package player hands tracks to an external media player. Crate does no
// audio decoding of its own.
package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/crate/internal/core"
	crerrors "github.com/tessro/crate/internal/errors"
)

// Launcher implements core.Player by running a configured command with the
// track path as its last argument. With no command it only tracks state, so
// the rest of the application behaves the same without a player installed.
type Launcher struct {
	argv []string
	log  *zap.Logger
	now  func() time.Time

	mu       sync.Mutex
	cmd      *exec.Cmd
	done     chan struct{}
	exitErr  error
	state    core.PlaybackState
	playlist string
}

var _ core.Player = (*Launcher)(nil)

// Option configures a Launcher.
type Option func(*Launcher)

// WithLogger sets the launcher's logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Launcher) {
		if log != nil {
			l.log = log
		}
	}
}

// WithClock overrides the time source used for playback state.
func WithClock(now func() time.Time) Option {
	return func(l *Launcher) {
		l.now = now
	}
}

// New creates a launcher for command, a program followed by fixed
// arguments, e.g. "mpv --no-video". An empty command simulates playback.
func New(command string, opts ...Option) *Launcher {
	l := &Launcher{
		argv: strings.Fields(command),
		log:  zap.NewNop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Simulated reports whether no external command is configured.
func (l *Launcher) Simulated() bool {
	return len(l.argv) == 0
}

// SetPlaylist records which playlist tracks are played from.
func (l *Launcher) SetPlaylist(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.playlist = name
}

// Play starts track, stopping whatever is playing. The process is killed if
// ctx ends.
func (l *Launcher) Play(ctx context.Context, track *core.Track) error {
	if track == nil {
		return fmt.Errorf("play: %w", crerrors.ErrInvalidArgument)
	}
	if track.Path == "" {
		return fmt.Errorf("play %q: track has no file: %w", track.Title, crerrors.ErrInvalidTrack)
	}

	if err := l.Stop(ctx); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.exitErr = nil
	l.done = make(chan struct{})

	if l.Simulated() {
		close(l.done)
		l.log.Info("simulating playback", zap.String("track", track.DisplayName()))
		l.setPlaying(track)
		return nil
	}

	args := append(append([]string(nil), l.argv[1:]...), track.Path)
	cmd := exec.CommandContext(ctx, l.argv[0], args...)
	if err := cmd.Start(); err != nil {
		close(l.done)
		return fmt.Errorf("%w: start %s: %w", crerrors.ErrPlayerFailed, l.argv[0], err)
	}

	l.cmd = cmd
	l.setPlaying(track)
	l.log.Debug("player started",
		zap.String("command", l.argv[0]),
		zap.String("path", track.Path),
		zap.Int("pid", cmd.Process.Pid))

	done := l.done
	go func() {
		err := cmd.Wait()
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.cmd == cmd {
			l.cmd = nil
			l.exitErr = err
			l.state.IsPlaying = false
		}
		l.log.Debug("player exited", zap.String("path", track.Path), zap.Error(err))
		close(done)
	}()

	return nil
}

// setPlaying must be called with mu held.
func (l *Launcher) setPlaying(track *core.Track) {
	l.state = core.PlaybackState{
		Track:     track,
		Playlist:  l.playlist,
		IsPlaying: true,
		StartedAt: l.now(),
		Simulated: l.Simulated(),
	}
}

// Wait blocks until the current track's process exits. In simulated mode it
// returns immediately. A non-zero exit is reported as ErrPlayerFailed.
func (l *Launcher) Wait(ctx context.Context) error {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()

	if done == nil {
		return nil
	}

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Simulated() {
		l.state.IsPlaying = false
	}
	if l.exitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(l.exitErr, &exitErr) {
			return fmt.Errorf("%w: exit status %d", crerrors.ErrPlayerFailed, exitErr.ExitCode())
		}
		return fmt.Errorf("%w: %w", crerrors.ErrPlayerFailed, l.exitErr)
	}
	return nil
}

// Stop kills the running player process, if any.
func (l *Launcher) Stop(ctx context.Context) error {
	l.mu.Lock()
	cmd := l.cmd
	done := l.done
	l.cmd = nil
	l.state.IsPlaying = false
	l.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}

	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("%w: stop: %w", crerrors.ErrPlayerFailed, err)
	}

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// GetState returns a copy of the playback state.
func (l *Launcher) GetState(ctx context.Context) (*core.PlaybackState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	state := l.state
	return &state, nil
}
