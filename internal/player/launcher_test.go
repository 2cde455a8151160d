package player

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/tessro/crate/internal/core"
	crerrors "github.com/tessro/crate/internal/errors"
)

func testTrack() *core.Track {
	return &core.Track{Path: "/music/song.mp3", Title: "Song", Artist: "Band", Duration: 3 * time.Minute}
}

func requireCommand(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestSimulatedPlayback(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := New("", WithClock(func() time.Time { return start }))
	l.SetPlaylist("Road Trip")
	ctx := context.Background()

	if !l.Simulated() {
		t.Fatal("Simulated() = false with empty command")
	}

	track := testTrack()
	if err := l.Play(ctx, track); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	state, err := l.GetState(ctx)
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if !state.IsPlaying || !state.Simulated || state.Track != track {
		t.Errorf("GetState() = %+v, want simulated playback of track", state)
	}
	if state.Playlist != "Road Trip" {
		t.Errorf("Playlist = %q, want %q", state.Playlist, "Road Trip")
	}
	if !state.StartedAt.Equal(start) {
		t.Errorf("StartedAt = %v, want %v", state.StartedAt, start)
	}

	if err := l.Wait(ctx); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
	state, _ = l.GetState(ctx)
	if state.IsPlaying {
		t.Error("IsPlaying = true after Wait in simulated mode")
	}
}

func TestWaitWithoutPlay(t *testing.T) {
	if err := New("").Wait(context.Background()); err != nil {
		t.Errorf("Wait() before Play error = %v", err)
	}
}

func TestPlayRejectsBadTracks(t *testing.T) {
	l := New("")
	ctx := context.Background()

	if err := l.Play(ctx, nil); !errors.Is(err, crerrors.ErrInvalidArgument) {
		t.Errorf("Play(nil) error = %v, want ErrInvalidArgument", err)
	}
	if err := l.Play(ctx, core.NewTrack("", "Ad hoc", "Nobody", "")); !errors.Is(err, crerrors.ErrInvalidTrack) {
		t.Errorf("Play(no path) error = %v, want ErrInvalidTrack", err)
	}
}

func TestExternalCommandSuccess(t *testing.T) {
	requireCommand(t, "true")
	l := New("true --ignored")
	ctx := context.Background()

	if err := l.Play(ctx, testTrack()); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if err := l.Wait(ctx); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
	state, _ := l.GetState(ctx)
	if state.IsPlaying || state.Simulated {
		t.Errorf("GetState() = %+v, want finished real playback", state)
	}
}

func TestExternalCommandFailure(t *testing.T) {
	requireCommand(t, "false")
	l := New("false")
	ctx := context.Background()

	if err := l.Play(ctx, testTrack()); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if err := l.Wait(ctx); !errors.Is(err, crerrors.ErrPlayerFailed) {
		t.Errorf("Wait() error = %v, want ErrPlayerFailed", err)
	}
}

func TestMissingCommand(t *testing.T) {
	l := New("/nonexistent/crate-player")
	if err := l.Play(context.Background(), testTrack()); !errors.Is(err, crerrors.ErrPlayerFailed) {
		t.Errorf("Play() error = %v, want ErrPlayerFailed", err)
	}
}

func TestStopKillsPlayer(t *testing.T) {
	requireCommand(t, "sleep")
	// sleep receives the track path as its last argument; give it a number
	l := New("sleep")
	ctx := context.Background()
	track := &core.Track{Path: "30", Title: "Long", Artist: "Band"}

	if err := l.Play(ctx, track); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	state, _ := l.GetState(ctx)
	if !state.IsPlaying {
		t.Fatal("IsPlaying = false right after Play")
	}

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := l.Stop(stopCtx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := l.Wait(stopCtx); err != nil {
		t.Errorf("Wait() after Stop error = %v", err)
	}
	state, _ = l.GetState(ctx)
	if state.IsPlaying {
		t.Error("IsPlaying = true after Stop")
	}
}

func TestWaitHonorsContext(t *testing.T) {
	requireCommand(t, "sleep")
	l := New("sleep")
	track := &core.Track{Path: "30", Title: "Long", Artist: "Band"}

	if err := l.Play(context.Background(), track); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	defer l.Stop(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want DeadlineExceeded", err)
	}
}
