// Package watch follows a music library directory and reports tracks that
// appear or disappear.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/metrics"
	"github.com/tessro/crate/internal/scanner"
)

// EventType represents the type of library event.
type EventType int

const (
	EventTrackAdded EventType = iota
	EventTrackRemoved
	EventScanFailed
)

// DefaultDebounce is how long filesystem notifications are coalesced before
// a rescan.
const DefaultDebounce = 250 * time.Millisecond

// Event represents a library change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Path      string
	Track     *core.Track
	Err       error
}

// Watcher rescans a library root on a ticker, and on filesystem
// notifications when enabled, and emits the differences as events.
type Watcher struct {
	scanner  *scanner.Scanner
	root     string
	interval time.Duration
	debounce time.Duration
	notify   bool
	log      *zap.Logger
	metrics  *metrics.Recorder
	now      func() time.Time

	events   chan Event
	done     chan struct{}
	stopOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithNotify toggles fsnotify-triggered rescans. Polling always runs.
func WithNotify(enabled bool) Option {
	return func(w *Watcher) {
		w.notify = enabled
	}
}

// WithDebounce sets the notification coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(w *Watcher) {
		if log != nil {
			w.log = log
		}
	}
}

// WithMetrics counts emitted events.
func WithMetrics(m *metrics.Recorder) Option {
	return func(w *Watcher) {
		w.metrics = m
	}
}

// WithClock sets the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) {
		if now != nil {
			w.now = now
		}
	}
}

// New creates a watcher for root. The scanner's configuration is copied, so
// later changes to s do not affect the watcher.
func New(s *scanner.Scanner, root string, interval time.Duration, opts ...Option) *Watcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	w := &Watcher{
		scanner:  s.Clone(),
		root:     root,
		interval: interval,
		debounce: DefaultDebounce,
		notify:   true,
		log:      zap.NewNop(),
		now:      time.Now,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Events returns the channel of library events. It is closed when Start
// returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start scans the library once to establish a baseline, without emitting
// events, then watches for changes until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	var fsEvents <-chan fsnotify.Event
	var fsErrors <-chan error
	var fsw *fsnotify.Watcher
	if w.notify {
		var err error
		fsw, err = fsnotify.NewWatcher()
		if err != nil {
			w.log.Warn("filesystem notifications unavailable, polling only", zap.Error(err))
		} else {
			defer func() {
				if err := fsw.Close(); err != nil {
					w.log.Debug("closing fsnotify watcher", zap.Error(err))
				}
			}()
			n := w.addDirectories(fsw)
			w.log.Debug("watching directories", zap.String("root", w.root), zap.Int("count", n))
			fsEvents, fsErrors = fsw.Events, fsw.Errors
		}
	}

	known := w.scan(nil)

	var rescan <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case <-ticker.C:
			known = w.scan(known)
		case <-rescan:
			rescan = nil
			known = w.scan(known)
		case ev, ok := <-fsEvents:
			if !ok {
				fsEvents = nil
				continue
			}
			w.handleNotify(fsw, ev)
			if rescan == nil {
				rescan = time.After(w.debounce)
			}
		case err, ok := <-fsErrors:
			if !ok {
				fsErrors = nil
				continue
			}
			w.log.Warn("fsnotify error", zap.Error(err))
		}
	}
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
}

// scan rescans the root and emits the difference from known. A nil known
// means no baseline yet: the result becomes the baseline silently.
func (w *Watcher) scan(known map[string]*core.Track) map[string]*core.Track {
	paths, err := w.scanner.ScanDirectory(w.root)
	if err != nil {
		w.log.Debug("rescan failed", zap.String("root", w.root), zap.Error(err))
		w.emit(Event{Type: EventScanFailed, Timestamp: w.now(), Path: w.root, Err: err})
		return known
	}

	next, events := diffPaths(known, paths, w.now())
	if known == nil {
		return next
	}
	for _, e := range events {
		w.emit(e)
	}
	return next
}

func (w *Watcher) emit(e Event) {
	select {
	case w.events <- e:
		w.metrics.ObserveWatchEvent(e.Type.String())
	default:
		w.log.Debug("dropping event, channel full", zap.String("path", e.Path))
	}
}

// diffPaths compares the previous track set with freshly scanned paths.
// Added events follow scan order, then removed events in path order.
func diffPaths(prev map[string]*core.Track, paths []string, now time.Time) (map[string]*core.Track, []Event) {
	next := make(map[string]*core.Track, len(paths))
	var events []Event

	for _, p := range paths {
		if t, ok := prev[p]; ok {
			next[p] = t
			continue
		}
		t, err := core.TrackFromFile(p)
		if err != nil {
			// vanished between the walk and the stat
			continue
		}
		next[p] = t
		events = append(events, Event{Type: EventTrackAdded, Timestamp: now, Path: p, Track: t})
	}

	var removed []string
	for p := range prev {
		if _, ok := next[p]; !ok {
			removed = append(removed, p)
		}
	}
	slices.Sort(removed)
	for _, p := range removed {
		events = append(events, Event{Type: EventTrackRemoved, Timestamp: now, Path: p, Track: prev[p]})
	}

	return next, events
}

// addDirectories registers root and every directory the scanner would enter.
func (w *Watcher) addDirectories(fsw *fsnotify.Watcher) int {
	count := 0
	err := filepath.WalkDir(w.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != w.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if !w.watchable(path) {
			return filepath.SkipDir
		}
		if addErr := fsw.Add(path); addErr != nil {
			w.log.Debug("failed to watch directory", zap.String("path", path), zap.Error(addErr))
			return nil
		}
		count++
		return nil
	})
	if err != nil {
		w.log.Warn("walking library for watcher", zap.Error(err))
	}
	return count
}

// watchable reports whether dir lies within the scanner's depth limit.
func (w *Watcher) watchable(dir string) bool {
	rel, err := filepath.Rel(w.root, dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	if rel == "." {
		return true
	}
	if strings.HasPrefix(filepath.Base(dir), ".") {
		return false
	}
	d := strings.Count(rel, string(filepath.Separator)) + 1
	return w.scanner.Recursive() && d <= w.scanner.MaxDepth()
}

// handleNotify starts watching newly created directories.
func (w *Watcher) handleNotify(fsw *fsnotify.Watcher, ev fsnotify.Event) {
	w.log.Debug("filesystem event", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
	if !ev.Has(fsnotify.Create) {
		return
	}
	info, err := os.Stat(ev.Name)
	if err != nil || !info.IsDir() || !w.watchable(ev.Name) {
		return
	}
	if err := fsw.Add(ev.Name); err != nil {
		w.log.Debug("failed to watch new directory", zap.String("path", ev.Name), zap.Error(err))
	}
}
