package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidTrack     = errors.New("invalid track")
	ErrInvalidName      = errors.New("invalid playlist name")
	ErrTrackNotFound    = errors.New("track not found")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrPlaylistExists   = errors.New("playlist already exists")
	ErrEmptyPlaylist    = errors.New("playlist is empty")
	ErrScanRoot         = errors.New("scan root not found")
	ErrNotDirectory     = errors.New("not a directory")
	ErrUnsupportedStore = errors.New("unsupported playlist format")
	ErrPlayerFailed     = errors.New("player failed")
	ErrConfigNotFound   = errors.New("config file not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// CrateError wraps an error with a user-friendly suggestion.
type CrateError struct {
	Err        error
	Suggestion string
}

func (e *CrateError) Error() string {
	return e.Err.Error()
}

func (e *CrateError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &CrateError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var crateErr *CrateError
	if errors.As(err, &crateErr) && crateErr.Suggestion != "" {
		return crateErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	// Scan errors
	if errors.Is(err, ErrScanRoot) || errors.Is(err, ErrNotDirectory) {
		return "Check the path, or set library.root in ~/.craterc"
	}

	// Playlist lookups
	if errors.Is(err, ErrPlaylistNotFound) {
		return "Run 'crate playlist list' to see saved playlists"
	}
	if errors.Is(err, ErrPlaylistExists) {
		return "Pick another name, or delete the existing playlist first"
	}
	if errors.Is(err, ErrEmptyPlaylist) {
		return "Add tracks with 'crate scan --playlist NAME' or 'crate playlist add'"
	}

	if errors.Is(err, ErrTrackNotFound) || errors.Is(err, ErrIndexOutOfRange) {
		return "Run 'crate playlist show' to see track positions"
	}

	if errors.Is(err, ErrInvalidName) {
		return "Playlist names cannot be empty"
	}

	if errors.Is(err, ErrInvalidTrack) {
		return "Titles and artists cannot be empty; years must be between 1900 and 2100"
	}

	if errors.Is(err, ErrUnsupportedStore) {
		return "Set playlists.format to json, m3u or sqlite"
	}

	// Player
	if errors.Is(err, ErrPlayerFailed) || strings.Contains(errStr, "executable file not found") {
		return "Set player.command in ~/.craterc to a media player such as 'mpv --no-video'"
	}

	// Config errors
	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) || strings.Contains(errStr, "config") {
		return "Run 'crate config init' to create a configuration file"
	}

	if strings.Contains(errStr, "permission denied") {
		return "Check file permissions for the path"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
