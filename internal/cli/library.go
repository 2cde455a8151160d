package cli

import (
	"fmt"

	"github.com/tessro/crate/internal/config"
	crerrors "github.com/tessro/crate/internal/errors"
	"github.com/tessro/crate/internal/playlist"
	"github.com/tessro/crate/internal/scanner"
	"github.com/tessro/crate/internal/store"
	"github.com/tessro/crate/internal/wizard"
)

// openStore opens the configured playlist store. Callers close it.
func openStore() (store.Store, error) {
	s, err := store.Open(cfg.Playlists, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist store: %w", err)
	}
	return s, nil
}

// playlistName picks the playlist a command works on: the positional
// argument at index i, a picker choice when running in a terminal, or the
// configured default.
func playlistName(s store.Store, args []string, i int) (string, error) {
	if len(args) > i && args[i] != "" {
		return args[i], nil
	}
	if !JSONOutput() {
		names, err := s.List()
		if err == nil && len(names) > 1 {
			interactive := wizard.NewInteractive()
			interactive.SetPlaylists(names, cfg.Playlists.Default)
			name, err := interactive.PromptPlaylist()
			if err != nil {
				return "", err
			}
			if name != "" {
				return name, nil
			}
		}
	}
	if cfg.Playlists.Default == "" {
		return "", fmt.Errorf("no playlist given and playlists.default is unset: %w", crerrors.ErrInvalidArgument)
	}
	return cfg.Playlists.Default, nil
}

// loadPlaylist loads name, failing with ErrPlaylistNotFound if it is absent.
func loadPlaylist(s store.Store, name string) (*playlist.Playlist, error) {
	return store.LoadOrNotFound(s, name)
}

// loadOrCreate loads name, or returns a new empty playlist carrying the
// configured default modes when nothing is stored under it yet.
func loadOrCreate(s store.Store, name string) (*playlist.Playlist, bool, error) {
	pl, err := s.Load(name)
	if err != nil {
		return nil, false, err
	}
	if pl != nil {
		return pl, false, nil
	}
	return newPlaylist(name, cfg.Defaults), true, nil
}

// newPlaylist creates an empty playlist with the given default modes.
func newPlaylist(name string, defaults config.DefaultsConfig) *playlist.Playlist {
	pl := playlist.New(name)
	pl.SetShuffle(defaults.Shuffle)
	pl.SetRepeat(defaults.Repeat)
	return pl
}

// exists reports whether a playlist is stored under name.
func exists(s store.Store, name string) (bool, error) {
	pl, err := s.Load(name)
	if err != nil {
		return false, err
	}
	return pl != nil, nil
}

// savePlaylist writes pl to the store and counts the save.
func savePlaylist(s store.Store, pl *playlist.Playlist, location string) error {
	err := s.Save(pl, location)
	recorder.ObserveSave(cfg.Playlists.Format, err)
	if err != nil {
		return fmt.Errorf("failed to save playlist %s: %w", location, err)
	}
	return nil
}

// newScanner builds a scanner from the [library] section.
func newScanner(lib config.LibraryConfig) *scanner.Scanner {
	return scanner.New(
		scanner.WithExtensions(lib.Extensions...),
		scanner.WithRecursive(lib.Recursive, lib.MaxDepth),
		scanner.WithLogger(log),
	)
}
