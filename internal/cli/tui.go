package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/crate/internal/player"
	"github.com/tessro/crate/internal/tui"
)

var tuiRefresh int

var tuiCmd = &cobra.Command{
	Use:     "ui [playlist]",
	Aliases: []string{"tui"},
	Short:   "Launch interactive dashboard",
	Long: `Launch the interactive terminal dashboard for a playlist.

The dashboard provides a live view with:
  • Now Playing - current track, progress, shuffle and repeat
  • Playlist - tracks in play order
  • Playlists - saved playlists to switch between
  • History - tracks played this session

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  /            Search
  Space        Play/Stop
  n / p        Next / previous track
  s / r        Toggle shuffle / repeat
  t / a / l    Sort by title / artist / album
  j / k        Move selection
  Enter        Play selected track
  d            Remove selected track
  y            Copy selected track's path
  Tab          Switch panel

Changes are saved when the dashboard exits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVar(&tuiRefresh, "refresh", 0, "refresh interval in milliseconds (default from tui.refresh_interval)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	name := cfg.Playlists.Default
	if len(args) > 0 {
		name = args[0]
	}
	pl, _, err := loadOrCreate(s, name)
	if err != nil {
		return err
	}

	refresh := tuiRefresh
	if refresh <= 0 {
		refresh = cfg.TUI.RefreshInterval
	}

	launcher := player.New(cfg.Player.Command, player.WithLogger(log))

	return tui.Run(tui.Options{
		Store:       s,
		Player:      launcher,
		Playlist:    pl,
		Location:    name,
		Format:      cfg.Playlists.Format,
		RefreshRate: time.Duration(refresh) * time.Millisecond,
		Theme:       cfg.TUI.Theme,
		Logger:      log,
		Metrics:     recorder,
	})
}
