package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/crate/internal/core"
	crerrors "github.com/tessro/crate/internal/errors"
	"github.com/tessro/crate/internal/player"
	"github.com/tessro/crate/internal/playlist"
)

var (
	playContinuous bool
	playFrom       int
)

var playCmd = &cobra.Command{
	Use:   "play [playlist]",
	Short: "Play the current track",
	Long: `Hand the current track of a playlist to player.command and wait for it
to finish. With --continuous, keep advancing until the end of the playlist
(or forever with repeat on). Without player.command, playback is simulated.

Examples:
  crate play                  # Current track of the default playlist
  crate play Road --from 3    # Start at track 3 in play order
  crate play Road -C          # Play through to the end`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVarP(&playContinuous, "continuous", "C", false, "advance to the next track until the end of the playlist")
	playCmd.Flags().IntVar(&playFrom, "from", 0, "start at this track number in play order")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withPlaylist(args, 0, func(pl *playlist.Playlist) (bool, error) {
		if pl.IsEmpty() {
			return false, fmt.Errorf("%s: %w", pl.Name(), crerrors.ErrEmptyPlaylist)
		}
		if playFrom > 0 && !pl.SetCurrentIndex(playFrom-1) {
			return false, fmt.Errorf("track %d of %d: %w", playFrom, pl.Len(), crerrors.ErrIndexOutOfRange)
		}

		launcher := player.New(cfg.Player.Command, player.WithLogger(log))
		launcher.SetPlaylist(pl.Name())
		if launcher.Simulated() && !JSONOutput() {
			fmt.Println("No player.command configured; simulating playback")
		}

		err := playTracks(ctx, launcher, pl)
		if errors.Is(err, context.Canceled) {
			stopCtx := context.WithoutCancel(ctx)
			if stopErr := launcher.Stop(stopCtx); stopErr != nil {
				log.Warn("failed to stop player", zap.Error(stopErr))
			}
			return true, nil
		}
		return true, err
	})
}

// playTracks plays the current track and, in continuous mode, each next
// one. The cursor is left on the last track started. A simulated player
// finishes instantly, so it gets at most one pass over the playlist.
func playTracks(ctx context.Context, p core.Player, pl *playlist.Playlist) error {
	sim, _ := p.(interface{ Simulated() bool })
	simulated := sim != nil && sim.Simulated()

	track := pl.Current()
	for played := 0; track != nil; played++ {
		if simulated && played == pl.Len() {
			return nil
		}
		if err := p.Play(ctx, track); err != nil {
			return err
		}
		recorder.ObservePlayback()
		if err := announce(pl, track); err != nil {
			return err
		}

		if err := p.Wait(ctx); err != nil {
			return err
		}
		if !playContinuous {
			return nil
		}
		track = pl.Next()
	}

	if !JSONOutput() {
		fmt.Println("End of playlist")
	}
	return nil
}

func announce(pl *playlist.Playlist, t *core.Track) error {
	if JSONOutput() {
		return printJSON(map[string]any{
			"event":    "playing",
			"playlist": pl.Name(),
			"position": pl.CurrentIndex() + 1,
			"track":    trackJSON(t),
		})
	}
	printTrack(fmt.Sprintf("▶ [%d/%d]", pl.CurrentIndex()+1, pl.Len()), t)
	return nil
}
