package config

// Config is the root configuration structure.
type Config struct {
	Library   LibraryConfig   `toml:"library"`
	Playlists PlaylistsConfig `toml:"playlists"`
	Defaults  DefaultsConfig  `toml:"defaults"`
	Player    PlayerConfig    `toml:"player"`
	Watch     WatchConfig     `toml:"watch"`
	TUI       TUIConfig       `toml:"tui"`
	Log       LogConfig       `toml:"log"`
	Metrics   MetricsConfig   `toml:"metrics"`
}

// LibraryConfig describes where music lives and how to scan it.
type LibraryConfig struct {
	Root       string   `toml:"root"`
	Extensions []string `toml:"extensions"`
	Recursive  bool     `toml:"recursive"`
	MaxDepth   int      `toml:"max_depth"`
}

// PlaylistsConfig holds playlist storage settings.
type PlaylistsConfig struct {
	Dir     string `toml:"dir"`
	Format  string `toml:"format"`
	Default string `toml:"default"`
}

// DefaultsConfig holds the modes applied to newly created playlists.
type DefaultsConfig struct {
	Shuffle bool `toml:"shuffle"`
	Repeat  bool `toml:"repeat"`
}

// PlayerConfig holds external player settings.
type PlayerConfig struct {
	Command string `toml:"command"`
}

// WatchConfig holds settings for library watch mode. Interval is in
// milliseconds. PollOnly disables filesystem notifications.
type WatchConfig struct {
	Interval int  `toml:"interval"`
	PollOnly bool `toml:"poll_only"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme"`
	RefreshInterval int    `toml:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	File   string `toml:"file"`
	Format string `toml:"format"`
}

// MetricsConfig holds offline metrics settings. When Textfile is set, each
// command writes its counters there in Prometheus text format.
type MetricsConfig struct {
	Textfile string `toml:"textfile"`
}
