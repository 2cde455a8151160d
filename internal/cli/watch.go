package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/crate/internal/config"
	"github.com/tessro/crate/internal/playlist"
	"github.com/tessro/crate/internal/scanner"
	"github.com/tessro/crate/internal/store"
	"github.com/tessro/crate/internal/watch"
)

var (
	watchNoEmoji   bool
	watchTimestamp bool
	watchFormat    string
	watchInterval  time.Duration
	watchPoll      bool
	watchSync      string
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Follow changes to the music library",
	Long: `Watch a directory and print tracks as they are added or removed.
Without a directory, watches library.root from the config.

The directory is rescanned every --interval, and right after filesystem
notifications unless --poll is set.

With --sync, the named playlist follows the library: new files are
appended and deleted files removed. Files already on disk when the watch
starts are added first.

Template fields for --format:
  {{.Type}} {{.Emoji}} {{.Timestamp}} {{.Path}} {{.Title}} {{.Artist}}
  {{.Album}} {{.Error}}`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchNoEmoji, "no-emoji", false, "disable emoji output")
	watchCmd.Flags().BoolVarP(&watchTimestamp, "timestamp", "t", false, "show timestamps")
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "", "custom format template")
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 0, "rescan interval (default from watch.interval)")
	watchCmd.Flags().BoolVar(&watchPoll, "poll", false, "only poll; ignore filesystem notifications")
	watchCmd.Flags().StringVar(&watchSync, "sync", "", "keep this playlist in step with the library")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := config.ExpandPath(cfg.Library.Root)
	if len(args) > 0 {
		root = args[0]
	}

	interval := watchInterval
	if interval <= 0 {
		interval = time.Duration(cfg.Watch.Interval) * time.Millisecond
	}

	formatter := watch.NewFormatter(
		watch.WithEmoji(!watchNoEmoji),
		watch.WithTimestamp(watchTimestamp),
		watch.WithTemplate(watchFormat),
	)

	sc := newScanner(cfg.Library)

	var follower *syncer
	if watchSync != "" {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		follower, err = newSyncer(s, watchSync)
		if err != nil {
			return err
		}
		added, err := follower.reconcile(sc, root)
		if err != nil {
			return err
		}
		if !JSONOutput() {
			fmt.Printf("Syncing %s: added %d tracks already in %s\n", watchSync, added, root)
		}
	}

	watcher := watch.New(sc, root, interval,
		watch.WithNotify(!watchPoll && !cfg.Watch.PollOnly),
		watch.WithLogger(log),
		watch.WithMetrics(recorder),
	)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	if !JSONOutput() {
		fmt.Printf("Watching %s (Ctrl+C to stop)\n", root)
	}

	for {
		select {
		case event := <-watcher.Events():
			if err := printEvent(formatter, event); err != nil {
				return err
			}
			if follower != nil {
				if err := follower.apply(event); err != nil {
					log.Warn("failed to sync playlist", zap.String("playlist", watchSync), zap.Error(err))
				}
			}

		case err := <-errCh:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

func printEvent(f *watch.Formatter, e watch.Event) error {
	if !JSONOutput() {
		fmt.Println(f.Format(e))
		return nil
	}
	out := map[string]any{
		"type":      e.Type.String(),
		"timestamp": e.Timestamp.Format(time.RFC3339),
		"path":      e.Path,
	}
	if e.Track != nil {
		out["track"] = trackJSON(e.Track)
	}
	if e.Err != nil {
		out["error"] = e.Err.Error()
	}
	return printJSON(out)
}

// syncer keeps a stored playlist in step with watch events.
type syncer struct {
	store store.Store
	name  string
	pl    *playlist.Playlist
}

func newSyncer(s store.Store, name string) (*syncer, error) {
	pl, _, err := loadOrCreate(s, name)
	if err != nil {
		return nil, err
	}
	return &syncer{store: s, name: name, pl: pl}, nil
}

// reconcile appends tracks found under root that the playlist lacks.
func (s *syncer) reconcile(sc *scanner.Scanner, root string) (int, error) {
	tracks, err := sc.ScanForTracks(root)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, t := range tracks {
		if _, found := s.pl.Find(t); !found && s.pl.AddTrack(t) == nil {
			added++
		}
	}
	return added, savePlaylist(s.store, s.pl, s.name)
}

// apply updates the playlist for one event and saves it when it changed.
func (s *syncer) apply(e watch.Event) error {
	changed := false
	switch e.Type {
	case watch.EventTrackAdded:
		if _, found := s.pl.Find(e.Track); !found {
			changed = s.pl.AddTrack(e.Track) == nil
		}
	case watch.EventTrackRemoved:
		for s.pl.Remove(e.Track) {
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return savePlaylist(s.store, s.pl, s.name)
}
