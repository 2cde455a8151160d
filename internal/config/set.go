package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// keys lists the settings Set understands, in display order.
var keys = []string{
	"library.root",
	"library.extensions",
	"library.recursive",
	"library.max_depth",
	"playlists.dir",
	"playlists.format",
	"playlists.default",
	"defaults.shuffle",
	"defaults.repeat",
	"player.command",
	"watch.interval",
	"watch.poll_only",
	"tui.theme",
	"tui.refresh_interval",
	"log.level",
	"log.file",
	"log.format",
	"metrics.textfile",
}

// Keys returns the dotted names accepted by Set.
func Keys() []string {
	return slices.Clone(keys)
}

// Set assigns value to the setting named by a dotted key such as
// "library.recursive". The value is parsed for the setting's type; list
// settings take a comma-separated value. Set does not validate the result.
func (c *Config) Set(key, value string) error {
	switch key {
	case "library.root":
		c.Library.Root = value
	case "library.extensions":
		c.Library.Extensions = splitList(value)
	case "library.recursive":
		return setBool(&c.Library.Recursive, key, value)
	case "library.max_depth":
		return setInt(&c.Library.MaxDepth, key, value)
	case "playlists.dir":
		c.Playlists.Dir = value
	case "playlists.format":
		c.Playlists.Format = strings.ToLower(value)
	case "playlists.default":
		c.Playlists.Default = value
	case "defaults.shuffle":
		return setBool(&c.Defaults.Shuffle, key, value)
	case "defaults.repeat":
		return setBool(&c.Defaults.Repeat, key, value)
	case "player.command":
		c.Player.Command = value
	case "watch.interval":
		return setInt(&c.Watch.Interval, key, value)
	case "watch.poll_only":
		return setBool(&c.Watch.PollOnly, key, value)
	case "tui.theme":
		c.TUI.Theme = value
	case "tui.refresh_interval":
		return setInt(&c.TUI.RefreshInterval, key, value)
	case "log.level":
		c.Log.Level = value
	case "log.file":
		c.Log.File = value
	case "log.format":
		c.Log.Format = value
	case "metrics.textfile":
		c.Metrics.Textfile = value
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}

func setBool(dst *bool, key, value string) error {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		*dst = true
	case "false", "0", "no", "off":
		*dst = false
	default:
		return fmt.Errorf("%s: value must be true or false, got %q", key, value)
	}
	return nil
}

func setInt(dst *int, key, value string) error {
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s: value must be an integer, got %q", key, value)
	}
	*dst = i
	return nil
}
