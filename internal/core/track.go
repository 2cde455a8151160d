package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	crerrors "github.com/tessro/crate/internal/errors"
)

// Format indicates the audio container of a track.
type Format string

const (
	FormatMP3     Format = "MP3"
	FormatWAV     Format = "WAV"
	FormatOGG     Format = "OGG"
	FormatFLAC    Format = "FLAC"
	FormatUnknown Format = "UNKNOWN"
)

// Year bounds for track metadata.
const (
	MinYear = 1900
	MaxYear = 2100
)

// Defaults used when metadata cannot be derived from the file.
const (
	DefaultTitle  = "Untitled"
	DefaultArtist = "Unknown Artist"
	DefaultAlbum  = "Unknown Album"
	DefaultGenre  = "Unknown"
)

// bytesPerMinute is the size heuristic for duration: roughly one MiB per
// minute of medium-quality MP3.
const bytesPerMinute = 1024 * 1024

// FormatFromExt maps a file extension to a Format, case-insensitively.
func FormatFromExt(ext string) Format {
	switch strings.ToLower(ext) {
	case ".mp3":
		return FormatMP3
	case ".wav":
		return FormatWAV
	case ".ogg":
		return FormatOGG
	case ".flac":
		return FormatFLAC
	default:
		return FormatUnknown
	}
}

// Track represents one audio file and its metadata.
//
// Tracks are shared by pointer: the same *Track may sit in several playlists.
type Track struct {
	Path     string        `json:"path"`
	Title    string        `json:"title"`
	Artist   string        `json:"artist"`
	Album    string        `json:"album"`
	Genre    string        `json:"genre"`
	Year     int           `json:"year,omitempty"`
	Duration time.Duration `json:"duration"`
	Size     int64         `json:"size"`
	Format   Format        `json:"format"`
}

// NewTrack creates a track from caller-supplied metadata.
// The path may be empty for ad-hoc tracks not backed by a file.
func NewTrack(path, title, artist, album string) *Track {
	t := &Track{
		Path:   path,
		Title:  title,
		Artist: artist,
		Album:  album,
		Genre:  DefaultGenre,
		Format: FormatFromExt(filepath.Ext(path)),
	}
	if path == "" {
		t.Format = FormatMP3
	}
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		t.Size = info.Size()
	}
	return t
}

// TrackFromFile builds a track for a file on disk using filename and size
// heuristics. It fails when the path does not exist or is a directory.
func TrackFromFile(path string) (*Track, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, crerrors.ErrInvalidTrack)
	}

	ext := filepath.Ext(path)
	title := strings.TrimSuffix(filepath.Base(path), ext)
	if title == "" {
		title = DefaultTitle
	}

	t := &Track{
		Path:   path,
		Title:  title,
		Artist: DefaultArtist,
		Album:  DefaultAlbum,
		Genre:  DefaultGenre,
		Size:   info.Size(),
		Format: FormatFromExt(ext),
	}
	if t.Size > 0 {
		minutes := t.Size / bytesPerMinute
		t.Duration = time.Duration(minutes) * time.Minute
	}
	return t, nil
}

// SetTitle sets the title. Titles cannot be empty.
func (t *Track) SetTitle(title string) error {
	if title == "" {
		return fmt.Errorf("title cannot be empty: %w", crerrors.ErrInvalidTrack)
	}
	t.Title = title
	return nil
}

// SetArtist sets the artist. Artists cannot be empty.
func (t *Track) SetArtist(artist string) error {
	if artist == "" {
		return fmt.Errorf("artist cannot be empty: %w", crerrors.ErrInvalidTrack)
	}
	t.Artist = artist
	return nil
}

// SetAlbum sets the album.
func (t *Track) SetAlbum(album string) {
	t.Album = album
}

// SetGenre sets the genre.
func (t *Track) SetGenre(genre string) {
	t.Genre = genre
}

// SetYear sets the release year, which must lie in [MinYear, MaxYear].
func (t *Track) SetYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("year %d outside %d-%d: %w", year, MinYear, MaxYear, crerrors.ErrInvalidTrack)
	}
	t.Year = year
	return nil
}

// SetDuration sets the duration, which cannot be negative.
func (t *Track) SetDuration(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("duration cannot be negative: %w", crerrors.ErrInvalidTrack)
	}
	t.Duration = d
	return nil
}

// SetPath points the track at a different file.
func (t *Track) SetPath(path string) {
	t.Path = path
	t.Format = FormatFromExt(filepath.Ext(path))
}

// Validate checks the metadata invariants.
func (t *Track) Validate() error {
	if t == nil {
		return fmt.Errorf("track is nil: %w", crerrors.ErrInvalidArgument)
	}
	if t.Title == "" {
		return fmt.Errorf("title cannot be empty: %w", crerrors.ErrInvalidTrack)
	}
	if t.Artist == "" {
		return fmt.Errorf("artist cannot be empty: %w", crerrors.ErrInvalidTrack)
	}
	if t.Year != 0 && (t.Year < MinYear || t.Year > MaxYear) {
		return fmt.Errorf("year %d outside %d-%d: %w", t.Year, MinYear, MaxYear, crerrors.ErrInvalidTrack)
	}
	if t.Duration < 0 {
		return fmt.Errorf("duration cannot be negative: %w", crerrors.ErrInvalidTrack)
	}
	if t.Size < 0 {
		return fmt.Errorf("size cannot be negative: %w", crerrors.ErrInvalidTrack)
	}
	return nil
}

// IsValid returns true if the track can be handed to a player: valid
// metadata and a path that exists on disk.
func (t *Track) IsValid() bool {
	if t == nil || t.Path == "" || t.Validate() != nil {
		return false
	}
	_, err := os.Stat(t.Path)
	return err == nil
}

// Playable returns true if the format is one a player is expected to handle.
func (t *Track) Playable() bool {
	switch t.Format {
	case FormatMP3, FormatWAV, FormatOGG, FormatFLAC:
		return true
	default:
		return false
	}
}

// Equal reports whether two tracks refer to the same file.
func (t *Track) Equal(other *Track) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Path == other.Path
}

// Less orders tracks by artist, then album, then title.
func (t *Track) Less(other *Track) bool {
	if t.Artist != other.Artist {
		return t.Artist < other.Artist
	}
	if t.Album != other.Album {
		return t.Album < other.Album
	}
	return t.Title < other.Title
}

// DisplayName returns "Artist - Title".
func (t *Track) DisplayName() string {
	return t.Artist + " - " + t.Title
}

// DurationString returns the duration as MM:SS.
func (t *Track) DurationString() string {
	total := int(t.Duration / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
