package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tessro/crate/internal/core"
	crerrors "github.com/tessro/crate/internal/errors"
	"github.com/tessro/crate/internal/metrics"
	"github.com/tessro/crate/internal/scanner"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func drain(w *Watcher) []Event {
	var out []Event
	for {
		select {
		case e := <-w.events:
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestScanBaselineIsSilent(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.mp3"))
	touch(t, filepath.Join(root, "b.mp3"))

	w := New(scanner.New(), root, time.Second, WithNotify(false))
	known := w.scan(nil)

	if len(known) != 2 {
		t.Errorf("baseline size = %d, want 2", len(known))
	}
	if events := drain(w); len(events) != 0 {
		t.Errorf("baseline emitted %d events, want 0", len(events))
	}
}

func TestScanEmitsDifferences(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "keep.mp3"))
	touch(t, filepath.Join(root, "gone.mp3"))

	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := metrics.New()
	w := New(scanner.New(), root, time.Second,
		WithNotify(false),
		WithMetrics(rec),
		WithClock(func() time.Time { return stamp }),
	)
	known := w.scan(nil)

	os.Remove(filepath.Join(root, "gone.mp3"))
	touch(t, filepath.Join(root, "new.ogg"))
	touch(t, filepath.Join(root, "notes.txt"))

	known = w.scan(known)
	events := drain(w)

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(events), events)
	}
	if events[0].Type != EventTrackAdded || filepath.Base(events[0].Path) != "new.ogg" {
		t.Errorf("events[0] = %v %s, want track_added new.ogg", events[0].Type, events[0].Path)
	}
	if events[0].Track == nil || events[0].Track.Title != "new" {
		t.Errorf("events[0].Track = %+v, want title %q", events[0].Track, "new")
	}
	if events[1].Type != EventTrackRemoved || filepath.Base(events[1].Path) != "gone.mp3" {
		t.Errorf("events[1] = %v %s, want track_removed gone.mp3", events[1].Type, events[1].Path)
	}
	if !events[1].Timestamp.Equal(stamp) {
		t.Errorf("Timestamp = %v, want %v", events[1].Timestamp, stamp)
	}
	if len(known) != 2 {
		t.Errorf("known size = %d, want 2", len(known))
	}

	if got := testutil.ToFloat64(rec.WatchEvents.WithLabelValues("track_added")); got != 1 {
		t.Errorf("track_added metric = %v, want 1", got)
	}
}

func TestScanKeepsTrackIdentity(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.mp3"))

	w := New(scanner.New(), root, time.Second, WithNotify(false))
	first := w.scan(nil)
	second := w.scan(first)

	p := filepath.Join(root, "a.mp3")
	if first[p] != second[p] {
		t.Error("rescan replaced an unchanged track, want the same pointer")
	}
}

func TestScanFailure(t *testing.T) {
	root := filepath.Join(t.TempDir(), "library")
	touch(t, filepath.Join(root, "a.mp3"))

	w := New(scanner.New(), root, time.Second, WithNotify(false))
	known := w.scan(nil)

	if err := os.RemoveAll(root); err != nil {
		t.Fatalf("RemoveAll() error = %v", err)
	}
	after := w.scan(known)

	events := drain(w)
	if len(events) != 1 || events[0].Type != EventScanFailed {
		t.Fatalf("events = %+v, want one scan_failed", events)
	}
	if !errors.Is(events[0].Err, crerrors.ErrScanRoot) {
		t.Errorf("Err = %v, want ErrScanRoot", events[0].Err)
	}
	// a failed rescan keeps the previous set
	if len(after) != 1 {
		t.Errorf("known after failure = %d, want 1", len(after))
	}
}

func TestScanRespectsDepth(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "top.mp3"))

	s := scanner.New(scanner.WithRecursive(true, 1))
	w := New(s, root, time.Second, WithNotify(false))
	known := w.scan(nil)

	touch(t, filepath.Join(root, "one", "ok.mp3"))
	touch(t, filepath.Join(root, "one", "two", "deep.mp3"))
	w.scan(known)

	events := drain(w)
	if len(events) != 1 || filepath.Base(events[0].Path) != "ok.mp3" {
		t.Errorf("events = %+v, want only ok.mp3", events)
	}
}

func TestNewCopiesScanner(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.flac"))

	s := scanner.New()
	w := New(s, root, time.Second, WithNotify(false))
	s.AddExtension(".flac")

	if known := w.scan(nil); len(known) != 0 {
		t.Errorf("watcher saw %d files, want 0: scanner changes after New must not leak in", len(known))
	}
}

func TestDropWhenFull(t *testing.T) {
	w := New(scanner.New(), t.TempDir(), time.Second, WithNotify(false))
	for i := 0; i < cap(w.events)+5; i++ {
		w.emit(Event{Type: EventTrackAdded, Path: "x"})
	}
	if got := len(w.events); got != cap(w.events) {
		t.Errorf("buffered events = %d, want %d", got, cap(w.events))
	}
}

func TestWatchable(t *testing.T) {
	root := t.TempDir()
	w := New(scanner.New(scanner.WithRecursive(true, 2)), root, time.Second)

	tests := []struct {
		dir  string
		want bool
	}{
		{root, true},
		{filepath.Join(root, "a"), true},
		{filepath.Join(root, "a", "b"), true},
		{filepath.Join(root, "a", "b", "c"), false},
		{filepath.Join(root, ".hidden"), false},
		{filepath.Dir(root), false},
	}
	for _, tt := range tests {
		if got := w.watchable(tt.dir); got != tt.want {
			t.Errorf("watchable(%q) = %v, want %v", tt.dir, got, tt.want)
		}
	}

	flat := New(scanner.New(), root, time.Second)
	if flat.watchable(filepath.Join(root, "a")) {
		t.Error("non-recursive watcher should only watch the root")
	}
}

func TestStartStop(t *testing.T) {
	w := New(scanner.New(), t.TempDir(), 10*time.Millisecond, WithNotify(false))

	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(context.Background()) }()

	w.Stop()
	w.Stop()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Start() error = %v, want nil after Stop", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after Stop")
	}

	if _, ok := <-w.Events(); ok {
		t.Error("Events() still open after Start returned")
	}
}

func TestStartContextCancel(t *testing.T) {
	w := New(scanner.New(), t.TempDir(), 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Start() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after cancel")
	}
}

func waitForAdded(t *testing.T, w *Watcher, name string) {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case e, ok := <-w.Events():
			if !ok {
				t.Fatal("events closed before track was added")
			}
			if e.Type == EventTrackAdded && filepath.Base(e.Path) == name {
				return
			}
		case <-timeout:
			t.Fatalf("no track_added event for %s", name)
		}
	}
}

func TestStartDetectsNewFiles(t *testing.T) {
	for _, notify := range []bool{false, true} {
		name := "poll"
		if notify {
			name = "notify"
		}
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			interval := 20 * time.Millisecond
			if notify {
				// long enough that only the notification can trigger the rescan in time
				interval = time.Hour
			}
			w := New(scanner.New(), root, interval,
				WithNotify(notify), WithDebounce(10*time.Millisecond))

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Start(ctx)

			// let the baseline scan finish first
			time.Sleep(100 * time.Millisecond)
			touch(t, filepath.Join(root, "fresh.mp3"))

			waitForAdded(t, w, "fresh.mp3")
		})
	}
}

func TestDiffPathsOrder(t *testing.T) {
	prev := map[string]*core.Track{
		"/m/z.mp3": core.NewTrack("/m/z.mp3", "z", "", ""),
		"/m/b.mp3": core.NewTrack("/m/b.mp3", "b", "", ""),
		"/m/c.mp3": core.NewTrack("/m/c.mp3", "c", "", ""),
	}
	next, events := diffPaths(prev, []string{"/m/c.mp3"}, time.Time{})

	if len(next) != 1 {
		t.Errorf("next size = %d, want 1", len(next))
	}
	var got []string
	for _, e := range events {
		got = append(got, e.Type.String()+":"+e.Path)
	}
	want := "track_removed:/m/b.mp3,track_removed:/m/z.mp3"
	if strings.Join(got, ",") != want {
		t.Errorf("events = %v, want %s", got, want)
	}
}
