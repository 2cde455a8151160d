package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/crate/internal/config"
	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/scanner"
	"github.com/tessro/crate/internal/wizard"
)

var (
	scanRecursive  bool
	scanDepth      int
	scanExts       []string
	scanMatch      string
	scanCount      bool
	scanPlaylist   string
	scanAsync      bool
	scanNoProgress bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Find audio files in a directory",
	Long: `Scan a directory for audio files and list them as tracks.
Without a directory, scans library.root from the config.

Examples:
  crate scan ~/Music -r                 # Scan recursively
  crate scan --ext .flac --ext .mp3     # Only FLAC and MP3
  crate scan --match '*live*'           # Only files matching a glob
  crate scan -r --playlist "Library"    # Append new tracks to a playlist
  crate scan --count                    # Just count supported files`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVarP(&scanRecursive, "recursive", "r", false, "descend into subdirectories (default from library.recursive)")
	scanCmd.Flags().IntVar(&scanDepth, "depth", 0, "maximum subdirectory depth (default from library.max_depth)")
	scanCmd.Flags().StringSliceVar(&scanExts, "ext", nil, "file extension to accept; repeatable (default from library.extensions)")
	scanCmd.Flags().StringVarP(&scanMatch, "match", "m", "", "only accept file names matching this glob")
	scanCmd.Flags().BoolVar(&scanCount, "count", false, "print the number of supported files and exit")
	scanCmd.Flags().StringVarP(&scanPlaylist, "playlist", "p", "", "append tracks not already present to this playlist")
	scanCmd.Flags().BoolVar(&scanAsync, "async", false, "scan on a background goroutine")
	scanCmd.Flags().BoolVar(&scanNoProgress, "no-progress", false, "hide the progress indicator")
	rootCmd.AddCommand(scanCmd)
}

// scanOptions merges scan flags over the [library] config section.
func scanOptions(cmd *cobra.Command) (config.LibraryConfig, error) {
	lib := cfg.Library
	if cmd.Flags().Changed("recursive") {
		lib.Recursive = scanRecursive
	}
	if cmd.Flags().Changed("depth") {
		lib.MaxDepth = scanDepth
		if scanDepth > 0 && !cmd.Flags().Changed("recursive") {
			lib.Recursive = true
		}
	}
	if len(scanExts) > 0 {
		lib.Extensions = scanExts
	}
	if err := lib.Validate(); err != nil {
		return lib, err
	}
	return lib, nil
}

// globFilter accepts paths whose base name matches pattern.
func globFilter(pattern string) (scanner.Filter, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid --match pattern %q: %w", pattern, err)
	}
	return func(path string) bool {
		ok, _ := filepath.Match(pattern, filepath.Base(path))
		return ok
	}, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	lib, err := scanOptions(cmd)
	if err != nil {
		return err
	}

	root := config.ExpandPath(lib.Root)
	if len(args) > 0 {
		root = args[0]
	}

	s := newScanner(lib)
	if scanMatch != "" {
		filter, err := globFilter(scanMatch)
		if err != nil {
			return err
		}
		s.SetFilter(filter)
	}

	if scanCount {
		n := s.CountSupportedFiles(root)
		if JSONOutput() {
			return printJSON(map[string]any{"root": root, "count": n})
		}
		fmt.Println(n)
		return nil
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Scanning"),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetVisibility(!scanNoProgress && !JSONOutput() && wizard.IsTerminal()),
	)
	s.SetProgressCallback(func(string) {
		_ = bar.Add(1)
	})

	start := time.Now()
	var tracks []*core.Track
	if scanAsync {
		tracks, err = s.ScanForTracksAsync(root).WaitContext(cmd.Context())
	} else {
		tracks, err = s.ScanForTracks(root)
	}
	_ = bar.Finish()
	recorder.ObserveScan(time.Since(start), len(tracks), err)
	if err != nil {
		return err
	}
	log.Debug("scan finished",
		zap.String("root", root),
		zap.Int("tracks", len(tracks)),
		zap.Duration("took", time.Since(start)))

	added := -1
	if scanPlaylist != "" {
		added, err = addScanned(scanPlaylist, tracks)
		if err != nil {
			return err
		}
	}

	if JSONOutput() {
		items := make([]map[string]any, len(tracks))
		for i, t := range tracks {
			items[i] = trackJSON(t)
		}
		out := map[string]any{
			"root":   root,
			"tracks": items,
			"count":  len(tracks),
		}
		if added >= 0 {
			out["playlist"] = scanPlaylist
			out["added"] = added
		}
		return printJSON(out)
	}

	if len(tracks) == 0 {
		fmt.Printf("No supported files in %s\n", root)
		return nil
	}

	var total time.Duration
	var size int64
	table := NewTable("#", "TITLE", "FORMAT", "SIZE", "LENGTH", "PATH")
	for i, t := range tracks {
		total += t.Duration
		size += t.Size
		rel, err := filepath.Rel(root, t.Path)
		if err != nil {
			rel = t.Path
		}
		table.Row(
			fmt.Sprintf("%d", i+1),
			TruncateString(t.Title, 40),
			string(t.Format),
			FormatSize(t.Size),
			FormatDuration(t.Duration),
			rel,
		)
	}
	table.Flush()

	fmt.Printf("\n%d tracks, %s, about %s\n", len(tracks), FormatSize(size), FormatDuration(total))
	if added >= 0 {
		fmt.Printf("Added %d new tracks to %s\n", added, scanPlaylist)
	}
	return nil
}

// addScanned appends the tracks whose paths are not yet in the named
// playlist, creating it if needed, and returns how many were added.
func addScanned(name string, tracks []*core.Track) (int, error) {
	s, err := openStore()
	if err != nil {
		return 0, err
	}
	defer func() { _ = s.Close() }()

	pl, _, err := loadOrCreate(s, name)
	if err != nil {
		return 0, err
	}

	var fresh []*core.Track
	for _, t := range tracks {
		if _, found := pl.Find(t); !found {
			fresh = append(fresh, t)
		}
	}
	added := pl.AddTracks(fresh)

	if err := savePlaylist(s, pl, name); err != nil {
		return 0, err
	}
	return added, nil
}
