package config

import (
	"os"
	"path/filepath"
)

// Playlist storage formats.
const (
	FormatJSON   = "json"
	FormatM3U    = "m3u"
	FormatSQLite = "sqlite"
)

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Library: LibraryConfig{
			Root:       defaultLibraryRoot(),
			Extensions: []string{".mp3", ".wav", ".ogg"},
			MaxDepth:   10,
		},
		Playlists: PlaylistsConfig{
			Dir:     defaultPlaylistDir(),
			Format:  FormatJSON,
			Default: "Library",
		},
		Watch: WatchConfig{
			Interval: 2000,
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 1000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func defaultLibraryRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Music")
}

// defaultPlaylistDir follows XDG_DATA_HOME, falling back to ~/.local/share.
func defaultPlaylistDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "crate", "playlists")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".crate", "playlists")
	}
	return filepath.Join(home, ".local", "share", "crate", "playlists")
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Library
	if c.Library.Root == "" {
		c.Library.Root = d.Library.Root
	}
	if len(c.Library.Extensions) == 0 {
		c.Library.Extensions = d.Library.Extensions
	}
	if c.Library.MaxDepth == 0 {
		c.Library.MaxDepth = d.Library.MaxDepth
	}

	// Playlists
	if c.Playlists.Dir == "" {
		c.Playlists.Dir = d.Playlists.Dir
	}
	if c.Playlists.Format == "" {
		c.Playlists.Format = d.Playlists.Format
	}
	if c.Playlists.Default == "" {
		c.Playlists.Default = d.Playlists.Default
	}

	// Watch
	if c.Watch.Interval == 0 {
		c.Watch.Interval = d.Watch.Interval
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || len(path) > 1 && path[0] == '~' && os.IsPathSeparator(path[1]) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
