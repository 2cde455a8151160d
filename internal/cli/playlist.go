package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tessro/crate/internal/core"
	crerrors "github.com/tessro/crate/internal/errors"
	"github.com/tessro/crate/internal/playlist"
	"github.com/tessro/crate/internal/store"
	"github.com/tessro/crate/internal/wizard"
)

var (
	plShuffle   bool
	plRepeat    bool
	plForce     bool
	plSortBy    string
	plField     string
	plCanonical bool
	plLimit     int
	plTitle     string
	plArtist    string
	plAlbum     string
	plImportAs  string
)

var playlistCmd = &cobra.Command{
	Use:     "playlist",
	Aliases: []string{"pl"},
	Short:   "Manage saved playlists",
	Long:    `Create, inspect and edit saved playlists.`,
}

var playlistListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved playlists",
	Args:    cobra.NoArgs,
	RunE:    runPlaylistList,
}

var playlistShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show the tracks of a playlist",
	Long: `Show the tracks of a playlist in play order, marking the current track.
With shuffle on, play order is the shuffled order; --canonical shows the
stored order instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlaylistShow,
}

var playlistCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistCreate,
}

var playlistDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a playlist",
	Args:    cobra.ExactArgs(1),
	RunE:    runPlaylistDelete,
}

var playlistRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a playlist",
	Args:  cobra.ExactArgs(2),
	RunE:  runPlaylistRename,
}

var playlistAddCmd = &cobra.Command{
	Use:   "add <name> <path>...",
	Short: "Add files or directories to a playlist",
	Long: `Add audio files to a playlist, creating it if needed. Directories are
scanned with the [library] settings.

Examples:
  crate playlist add Road ~/Music/song.mp3
  crate playlist add Road ~/Music/Albums/Kind\ of\ Blue
  crate playlist add Road take.wav --title "Take Five" --artist "Dave Brubeck"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runPlaylistAdd,
}

var playlistRemoveCmd = &cobra.Command{
	Use:   "remove <name> <n|path>",
	Short: "Remove a track by number or file path",
	Long: `Remove a track by its number in 'crate playlist show --canonical', or
the first track with the given file path.`,
	Args: cobra.ExactArgs(2),
	RunE: runPlaylistRemove,
}

var playlistClearCmd = &cobra.Command{
	Use:   "clear [name]",
	Short: "Remove every track from a playlist",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlaylistClear,
}

var playlistSortCmd = &cobra.Command{
	Use:   "sort [name]",
	Short: "Sort a playlist by title, artist or album",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlaylistSort,
}

var playlistSearchCmd = &cobra.Command{
	Use:   "search [name] [query]",
	Short: "Find tracks in a playlist",
	Long: `Find tracks whose title, artist or album contains query. Matching is
case-sensitive. Without a query in a terminal, opens an interactive search;
choosing a result makes it the current track.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runPlaylistSearch,
}

var playlistShuffleCmd = &cobra.Command{
	Use:   "shuffle [name] [on|off|toggle]",
	Short: "Turn shuffle on or off",
	Long:  `Turn shuffle on or off. Turning it on draws a fresh random order.`,
	Args:  cobra.MaximumNArgs(2),
	RunE:  runPlaylistShuffle,
}

var playlistRepeatCmd = &cobra.Command{
	Use:   "repeat [name] [on|off|toggle]",
	Short: "Turn repeat on or off",
	Args:  cobra.MaximumNArgs(2),
	RunE:  runPlaylistRepeat,
}

var playlistDurationCmd = &cobra.Command{
	Use:   "duration [name]",
	Short: "Show the total length of a playlist",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlaylistDuration,
}

var playlistExportCmd = &cobra.Command{
	Use:   "export <name> <file>",
	Short: "Write a playlist to a .json or .m3u file",
	Args:  cobra.ExactArgs(2),
	RunE:  runPlaylistExport,
}

var playlistImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Save a .json or .m3u file as a playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlaylistImport,
}

func init() {
	playlistShowCmd.Flags().BoolVar(&plCanonical, "canonical", false, "show stored order instead of play order")
	playlistShowCmd.Flags().IntVarP(&plLimit, "limit", "l", 0, "maximum number of tracks to show")

	playlistCreateCmd.Flags().BoolVar(&plShuffle, "shuffle", false, "start with shuffle on (default from defaults.shuffle)")
	playlistCreateCmd.Flags().BoolVar(&plRepeat, "repeat", false, "start with repeat on (default from defaults.repeat)")

	playlistDeleteCmd.Flags().BoolVarP(&plForce, "force", "f", false, "delete without asking")

	playlistAddCmd.Flags().StringVar(&plTitle, "title", "", "title for a single added file")
	playlistAddCmd.Flags().StringVar(&plArtist, "artist", "", "artist for a single added file")
	playlistAddCmd.Flags().StringVar(&plAlbum, "album", "", "album for a single added file")

	playlistSortCmd.Flags().StringVar(&plSortBy, "by", "artist", "sort key: title, artist or album")
	playlistSearchCmd.Flags().StringVar(&plField, "field", "all", "field to match: all, title, artist or album")
	playlistImportCmd.Flags().StringVar(&plImportAs, "name", "", "save under this name instead of the file's")

	playlistCmd.AddCommand(
		playlistListCmd,
		playlistShowCmd,
		playlistCreateCmd,
		playlistDeleteCmd,
		playlistRenameCmd,
		playlistAddCmd,
		playlistRemoveCmd,
		playlistClearCmd,
		playlistSortCmd,
		playlistSearchCmd,
		playlistShuffleCmd,
		playlistRepeatCmd,
		playlistDurationCmd,
		playlistExportCmd,
		playlistImportCmd,
	)
	rootCmd.AddCommand(playlistCmd)
}

// withPlaylist loads the playlist named by args[i] (or the default), runs fn
// and saves the playlist afterwards when fn reports a change.
func withPlaylist(args []string, i int, fn func(pl *playlist.Playlist) (bool, error)) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	name, err := playlistName(s, args, i)
	if err != nil {
		return err
	}
	pl, err := loadPlaylist(s, name)
	if err != nil {
		return err
	}

	changed, err := fn(pl)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return savePlaylist(s, pl, name)
}

func runPlaylistList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	result := store.LoadAll(s)
	if result.HasErrors() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", strings.TrimSpace(result.ErrorSummary()))
	}

	if JSONOutput() {
		items := make([]map[string]any, 0, len(result.Data))
		for _, pl := range result.Data {
			items = append(items, map[string]any{
				"id":       pl.ID(),
				"name":     pl.Name(),
				"tracks":   pl.Len(),
				"duration": pl.TotalDuration().String(),
				"shuffle":  pl.Shuffle(),
				"repeat":   pl.Repeat(),
				"default":  pl.Name() == cfg.Playlists.Default,
			})
		}
		return printJSON(items)
	}

	if len(result.Data) == 0 {
		fmt.Println("No saved playlists")
		return nil
	}

	table := NewTable("", "NAME", "TRACKS", "LENGTH", "SHUFFLE", "REPEAT")
	for _, pl := range result.Data {
		table.Row(
			StatusIcon(pl.Name() == cfg.Playlists.Default),
			TruncateString(pl.Name(), 32),
			strconv.Itoa(pl.Len()),
			FormatDuration(pl.TotalDuration()),
			onOff(pl.Shuffle()),
			onOff(pl.Repeat()),
		)
	}
	table.Flush()
	return nil
}

func runPlaylistShow(cmd *cobra.Command, args []string) error {
	return withPlaylist(args, 0, func(pl *playlist.Playlist) (bool, error) {
		tracks := pl.Queue().Tracks
		if plCanonical {
			tracks = pl.Tracks()
		}
		current := pl.CurrentIndex()
		if plCanonical {
			current = -1
			if idx, ok := pl.CanonicalIndex(pl.CurrentIndex()); ok {
				current = idx
			}
		}
		shown := tracks
		if plLimit > 0 && len(shown) > plLimit {
			shown = shown[:plLimit]
		}

		if JSONOutput() {
			items := make([]map[string]any, len(shown))
			for i, t := range shown {
				item := trackJSON(t)
				item["position"] = i + 1
				item["current"] = i == current
				items[i] = item
			}
			return false, printJSON(map[string]any{
				"name":     pl.Name(),
				"tracks":   items,
				"total":    len(tracks),
				"current":  pl.CurrentIndex() + 1,
				"shuffle":  pl.Shuffle(),
				"repeat":   pl.Repeat(),
				"duration": pl.TotalDuration().String(),
			})
		}

		fmt.Printf("%s (%d tracks, %s) shuffle %s, repeat %s\n",
			pl.Name(), pl.Len(), FormatDuration(pl.TotalDuration()),
			onOff(pl.Shuffle()), onOff(pl.Repeat()))
		if len(tracks) == 0 {
			fmt.Println("  (empty)")
			return false, nil
		}

		table := NewTable("", "#", "TITLE", "ARTIST", "ALBUM", "LENGTH")
		for i, t := range shown {
			marker := " "
			if i == current {
				marker = "▶"
			}
			table.Row(
				marker,
				strconv.Itoa(i+1),
				TruncateString(t.Title, 40),
				TruncateString(t.Artist, 24),
				TruncateString(t.Album, 24),
				FormatDuration(t.Duration),
			)
		}
		table.Flush()

		if len(tracks) > len(shown) {
			fmt.Printf("\n... and %d more tracks\n", len(tracks)-len(shown))
		}
		return false, nil
	})
}

func runPlaylistCreate(cmd *cobra.Command, args []string) error {
	name := args[0]
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("create: %w", crerrors.ErrInvalidName)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	found, err := exists(s, name)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("%w: %s", crerrors.ErrPlaylistExists, name)
	}

	defaults := cfg.Defaults
	if cmd.Flags().Changed("shuffle") {
		defaults.Shuffle = plShuffle
	}
	if cmd.Flags().Changed("repeat") {
		defaults.Repeat = plRepeat
	}
	pl := newPlaylist(name, defaults)
	if err := savePlaylist(s, pl, name); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]any{"status": "created", "name": name, "id": pl.ID()})
	}
	fmt.Printf("Created playlist %s\n", name)
	return nil
}

func runPlaylistDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if !plForce && !JSONOutput() && wizard.IsTerminal() {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete playlist %q?", name)).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return fmt.Errorf("confirmation cancelled: %w", err)
		}
		if !confirmed {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := s.Delete(name); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "deleted", "name": name})
	}
	fmt.Printf("Deleted playlist %s\n", name)
	return nil
}

func runPlaylistRename(cmd *cobra.Command, args []string) error {
	oldName, newName := args[0], args[1]

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	pl, err := loadPlaylist(s, oldName)
	if err != nil {
		return err
	}
	if err := pl.SetName(newName); err != nil {
		return err
	}
	found, err := exists(s, newName)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("%w: %s", crerrors.ErrPlaylistExists, newName)
	}

	if err := savePlaylist(s, pl, newName); err != nil {
		return err
	}
	if err := s.Delete(oldName); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "renamed", "from": oldName, "to": newName})
	}
	fmt.Printf("Renamed %s to %s\n", oldName, newName)
	return nil
}

// collectTracks turns paths into tracks: directories are scanned, files
// are read directly.
func collectTracks(paths []string) ([]*core.Track, error) {
	sc := newScanner(cfg.Library)

	var tracks []*core.Track
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if info.IsDir() {
			found, err := sc.ScanForTracks(p)
			if err != nil {
				return nil, err
			}
			tracks = append(tracks, found...)
			continue
		}
		t, err := core.TrackFromFile(p)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

// applyTags sets the --title, --artist and --album flags on t.
func applyTags(t *core.Track) error {
	if plTitle != "" {
		if err := t.SetTitle(plTitle); err != nil {
			return err
		}
	}
	if plArtist != "" {
		if err := t.SetArtist(plArtist); err != nil {
			return err
		}
	}
	if plAlbum != "" {
		t.SetAlbum(plAlbum)
	}
	return nil
}

func runPlaylistAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	tracks, err := collectTracks(args[1:])
	if err != nil {
		return err
	}
	if plTitle != "" || plArtist != "" || plAlbum != "" {
		if len(tracks) != 1 {
			return fmt.Errorf("--title, --artist and --album need exactly one file, got %d: %w", len(tracks), crerrors.ErrInvalidArgument)
		}
		if err := applyTags(tracks[0]); err != nil {
			return err
		}
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	pl, created, err := loadOrCreate(s, name)
	if err != nil {
		return err
	}
	added := pl.AddTracks(tracks)
	if err := savePlaylist(s, pl, name); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]any{"status": "added", "name": name, "added": added, "created": created, "total": pl.Len()})
	}
	if created {
		fmt.Printf("Created playlist %s\n", name)
	}
	fmt.Printf("Added %d tracks to %s (%d total)\n", added, name, pl.Len())
	return nil
}

// parsePosition parses a 1-based track number.
func parsePosition(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid track number %q: %w", arg, crerrors.ErrInvalidArgument)
	}
	return n - 1, nil
}

func runPlaylistRemove(cmd *cobra.Command, args []string) error {
	return withPlaylist(args, 0, func(pl *playlist.Playlist) (bool, error) {
		var removed *core.Track
		if index, err := parsePosition(args[1]); err == nil {
			removed = pl.Track(index)
			if !pl.RemoveAt(index) {
				return false, fmt.Errorf("track %d of %d: %w", index+1, pl.Len(), crerrors.ErrIndexOutOfRange)
			}
		} else {
			probe := &core.Track{Path: args[1]}
			i, found := pl.Find(probe)
			if !found {
				return false, fmt.Errorf("%s: %w", args[1], crerrors.ErrTrackNotFound)
			}
			removed = pl.Track(i)
			pl.Remove(probe)
		}

		if JSONOutput() {
			return true, printJSON(map[string]any{"status": "removed", "track": trackJSON(removed)})
		}
		fmt.Printf("Removed %s\n", removed.DisplayName())
		return true, nil
	})
}

func runPlaylistClear(cmd *cobra.Command, args []string) error {
	return withPlaylist(args, 0, func(pl *playlist.Playlist) (bool, error) {
		n := pl.Len()
		pl.Clear()
		if JSONOutput() {
			return true, printJSON(map[string]any{"status": "cleared", "name": pl.Name(), "removed": n})
		}
		fmt.Printf("Removed %d tracks from %s\n", n, pl.Name())
		return true, nil
	})
}

func runPlaylistSort(cmd *cobra.Command, args []string) error {
	var sortFn func(pl *playlist.Playlist)
	switch strings.ToLower(plSortBy) {
	case "title":
		sortFn = (*playlist.Playlist).SortByTitle
	case "artist":
		sortFn = (*playlist.Playlist).SortByArtist
	case "album":
		sortFn = (*playlist.Playlist).SortByAlbum
	default:
		return fmt.Errorf("unknown sort key %q (use title, artist or album): %w", plSortBy, crerrors.ErrInvalidArgument)
	}

	return withPlaylist(args, 0, func(pl *playlist.Playlist) (bool, error) {
		sortFn(pl)
		if JSONOutput() {
			return true, printJSON(map[string]string{"status": "sorted", "name": pl.Name(), "by": plSortBy})
		}
		fmt.Printf("Sorted %s by %s\n", pl.Name(), strings.ToLower(plSortBy))
		return true, nil
	})
}

// parseField maps a --field value to a search field.
func parseField(s string) (wizard.SearchField, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return wizard.SearchAll, nil
	case "title":
		return wizard.SearchTitle, nil
	case "artist":
		return wizard.SearchArtist, nil
	case "album":
		return wizard.SearchAlbum, nil
	}
	return 0, fmt.Errorf("unknown search field %q: %w", s, crerrors.ErrInvalidArgument)
}

func runPlaylistSearch(cmd *cobra.Command, args []string) error {
	field, err := parseField(plField)
	if err != nil {
		return err
	}

	return withPlaylist(args, 0, func(pl *playlist.Playlist) (bool, error) {
		search := wizard.PlaylistSearch(pl)

		if len(args) < 2 {
			interactive := wizard.NewInteractive()
			interactive.SetEnabled(!JSONOutput())
			interactive.SetSearchFunc(search)
			res, err := interactive.PromptSearch()
			if err != nil {
				return false, err
			}
			if res == nil {
				return false, fmt.Errorf("search needs a query when not running in a terminal: %w", crerrors.ErrInvalidArgument)
			}
			pos, ok := pl.Position(res.Index)
			if !ok || !pl.SetCurrentIndex(pos) {
				return false, fmt.Errorf("track %d: %w", res.Index+1, crerrors.ErrIndexOutOfRange)
			}
			fmt.Printf("Now at %s\n", res.Track.DisplayName())
			return true, nil
		}

		results, err := search(args[1], field)
		if err != nil {
			return false, err
		}

		if JSONOutput() {
			items := make([]map[string]any, len(results))
			for i, r := range results {
				item := trackJSON(r.Track)
				item["position"] = r.Index + 1
				items[i] = item
			}
			return false, printJSON(map[string]any{"query": args[1], "results": items})
		}

		if len(results) == 0 {
			fmt.Printf("No tracks matching %q\n", args[1])
			return false, nil
		}
		table := NewTable("#", "TITLE", "ARTIST", "ALBUM")
		for _, r := range results {
			table.Row(
				strconv.Itoa(r.Index+1),
				TruncateString(r.Track.Title, 40),
				TruncateString(r.Track.Artist, 24),
				TruncateString(r.Track.Album, 24),
			)
		}
		table.Flush()
		return false, nil
	})
}

// parseToggle interprets an on/off/toggle argument against the current
// value. No argument toggles.
func parseToggle(args []string, current bool) (bool, error) {
	if len(args) == 0 {
		return !current, nil
	}
	switch strings.ToLower(args[0]) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	case "toggle":
		return !current, nil
	}
	return false, fmt.Errorf("expected on, off or toggle, got %q: %w", args[0], crerrors.ErrInvalidArgument)
}

// splitModeArgs separates an optional playlist name from a trailing
// on/off/toggle argument.
func splitModeArgs(args []string) (nameArgs, modeArgs []string) {
	switch len(args) {
	case 0:
		return nil, nil
	case 1:
		if _, err := parseToggle(args, false); err == nil {
			return nil, args
		}
		return args, nil
	default:
		return args[:1], args[1:]
	}
}

func runPlaylistShuffle(cmd *cobra.Command, args []string) error {
	nameArgs, modeArgs := splitModeArgs(args)
	return withPlaylist(nameArgs, 0, func(pl *playlist.Playlist) (bool, error) {
		on, err := parseToggle(modeArgs, pl.Shuffle())
		if err != nil {
			return false, err
		}
		pl.SetShuffle(on)
		return true, printMode(pl, "shuffle", on)
	})
}

func runPlaylistRepeat(cmd *cobra.Command, args []string) error {
	nameArgs, modeArgs := splitModeArgs(args)
	return withPlaylist(nameArgs, 0, func(pl *playlist.Playlist) (bool, error) {
		on, err := parseToggle(modeArgs, pl.Repeat())
		if err != nil {
			return false, err
		}
		pl.SetRepeat(on)
		return true, printMode(pl, "repeat", on)
	})
}

func printMode(pl *playlist.Playlist, mode string, on bool) error {
	if JSONOutput() {
		return printJSON(map[string]any{"name": pl.Name(), mode: on})
	}
	fmt.Printf("%s: %s %s\n", pl.Name(), mode, onOff(on))
	return nil
}

func runPlaylistDuration(cmd *cobra.Command, args []string) error {
	return withPlaylist(args, 0, func(pl *playlist.Playlist) (bool, error) {
		total := pl.TotalDuration()
		if JSONOutput() {
			return false, printJSON(map[string]any{
				"name":     pl.Name(),
				"tracks":   pl.Len(),
				"duration": total.String(),
				"seconds":  int(total.Seconds()),
			})
		}
		fmt.Printf("%s: %d tracks, %s\n", pl.Name(), pl.Len(), FormatDuration(total))
		return false, nil
	})
}

func runPlaylistExport(cmd *cobra.Command, args []string) error {
	name, path := args[0], args[1]

	target, err := store.ForPath(path, log)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	pl, err := loadPlaylist(s, name)
	if err != nil {
		return err
	}
	if err := target.Save(pl, path); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "exported", "name": name, "path": path})
	}
	fmt.Printf("Exported %s to %s\n", name, path)
	return nil
}

func runPlaylistImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	source, err := store.ForPath(path, log)
	if err != nil {
		return err
	}
	imported, err := store.LoadOrNotFound(source, path)
	if err != nil {
		return err
	}

	// A fresh ID keeps the import distinct from the playlist it was
	// exported from.
	pl := imported.Clone()
	if plImportAs != "" {
		if err := pl.SetName(plImportAs); err != nil {
			return err
		}
	}
	name := pl.Name()

	s, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	found, err := exists(s, name)
	if err != nil {
		return err
	}
	if found {
		return crerrors.WithSuggestion(
			fmt.Errorf("%w: %s", crerrors.ErrPlaylistExists, name),
			"Pass --name to import under another name")
	}
	if err := savePlaylist(s, pl, name); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]any{"status": "imported", "name": name, "tracks": pl.Len()})
	}
	fmt.Printf("Imported %s (%d tracks)\n", name, pl.Len())
	return nil
}
