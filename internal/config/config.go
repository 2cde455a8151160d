package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.craterc, $XDG_CONFIG_HOME/crate/config.toml, ~/.config/crate/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	// Try loading from file
	path := FindConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as TOML to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DefaultPath returns where a new config file is created.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".craterc"), nil
}

// FindConfigFile returns the first existing config file path.
func FindConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".craterc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "crate", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides loads .env from the working directory, if present, and
// then applies CRATE_* environment variables to the config. Variables
// already set in the environment win over .env entries.
func applyEnvOverrides(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	// Library
	if v := os.Getenv("CRATE_LIBRARY_ROOT"); v != "" {
		cfg.Library.Root = v
	}
	if v := os.Getenv("CRATE_LIBRARY_EXTENSIONS"); v != "" {
		cfg.Library.Extensions = splitList(v)
	}
	if v := os.Getenv("CRATE_LIBRARY_RECURSIVE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Library.Recursive = b
		}
	}
	if v := os.Getenv("CRATE_LIBRARY_MAX_DEPTH"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Library.MaxDepth = i
		}
	}

	// Playlists
	if v := os.Getenv("CRATE_PLAYLISTS_DIR"); v != "" {
		cfg.Playlists.Dir = v
	}
	if v := os.Getenv("CRATE_PLAYLISTS_FORMAT"); v != "" {
		cfg.Playlists.Format = v
	}
	if v := os.Getenv("CRATE_PLAYLISTS_DEFAULT"); v != "" {
		cfg.Playlists.Default = v
	}

	// Player
	if v := os.Getenv("CRATE_PLAYER_COMMAND"); v != "" {
		cfg.Player.Command = v
	}

	// Watch
	if v := os.Getenv("CRATE_WATCH_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Watch.Interval = i
		}
	}

	// TUI
	if v := os.Getenv("CRATE_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}
	if v := os.Getenv("CRATE_TUI_REFRESH_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.TUI.RefreshInterval = i
		}
	}

	// Log
	if v := os.Getenv("CRATE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CRATE_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("CRATE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	// Metrics
	if v := os.Getenv("CRATE_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}

	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
