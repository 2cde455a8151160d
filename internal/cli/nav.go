package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessro/crate/internal/core"
	crerrors "github.com/tessro/crate/internal/errors"
	"github.com/tessro/crate/internal/playlist"
)

var navPlaylist string

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Move to the next track",
	Long: `Advance the playlist cursor. Without repeat, stepping past the last
track reports the end of the playlist and stays on the last track.`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

var prevCmd = &cobra.Command{
	Use:     "prev",
	Aliases: []string{"previous"},
	Short:   "Move to the previous track",
	Args:    cobra.NoArgs,
	RunE:    runPrev,
}

var gotoCmd = &cobra.Command{
	Use:   "goto <n>",
	Short: "Jump to track n in play order",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoto,
}

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the current track",
	Args:  cobra.NoArgs,
	RunE:  runCurrent,
}

func init() {
	for _, c := range []*cobra.Command{nextCmd, prevCmd, gotoCmd, currentCmd} {
		c.Flags().StringVarP(&navPlaylist, "playlist", "p", "", "playlist to navigate (default from playlists.default)")
		rootCmd.AddCommand(c)
	}
}

// navigate runs fn on the selected playlist and persists the cursor.
func navigate(save bool, fn func(pl *playlist.Playlist) error) error {
	return withPlaylist([]string{navPlaylist}, 0, func(pl *playlist.Playlist) (bool, error) {
		if pl.IsEmpty() {
			return false, fmt.Errorf("%s: %w", pl.Name(), crerrors.ErrEmptyPlaylist)
		}
		return save, fn(pl)
	})
}

// printPosition reports where the cursor is.
func printPosition(pl *playlist.Playlist, t *core.Track, ended bool) error {
	if JSONOutput() {
		out := map[string]any{
			"playlist": pl.Name(),
			"position": pl.CurrentIndex() + 1,
			"total":    pl.Len(),
			"ended":    ended,
		}
		if t != nil {
			out["track"] = trackJSON(t)
		}
		return printJSON(out)
	}
	if ended {
		fmt.Println("End of playlist")
		return nil
	}
	printTrack(fmt.Sprintf("[%d/%d]", pl.CurrentIndex()+1, pl.Len()), t)
	return nil
}

func runNext(cmd *cobra.Command, args []string) error {
	return navigate(true, func(pl *playlist.Playlist) error {
		t := pl.Next()
		return printPosition(pl, t, t == nil)
	})
}

func runPrev(cmd *cobra.Command, args []string) error {
	return navigate(true, func(pl *playlist.Playlist) error {
		return printPosition(pl, pl.Previous(), false)
	})
}

func runGoto(cmd *cobra.Command, args []string) error {
	pos, err := parsePosition(args[0])
	if err != nil {
		return err
	}
	return navigate(true, func(pl *playlist.Playlist) error {
		if !pl.SetCurrentIndex(pos) {
			return fmt.Errorf("track %d of %d: %w", pos+1, pl.Len(), crerrors.ErrIndexOutOfRange)
		}
		return printPosition(pl, pl.Current(), false)
	})
}

func runCurrent(cmd *cobra.Command, args []string) error {
	return navigate(false, func(pl *playlist.Playlist) error {
		return printPosition(pl, pl.Current(), false)
	})
}
