package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestGetSuggestion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"scan root", fmt.Errorf("scan /nope: %w", ErrScanRoot), "Check the path"},
		{"not a directory", fmt.Errorf("scan file.mp3: %w", ErrNotDirectory), "Check the path"},
		{"playlist missing", ErrPlaylistNotFound, "crate playlist list"},
		{"index", fmt.Errorf("remove 9: %w", ErrIndexOutOfRange), "crate playlist show"},
		{"invalid track", ErrInvalidTrack, "Titles and artists"},
		{"config", ErrInvalidConfig, "crate config init"},
		{"unknown", errors.New("something odd"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetSuggestion(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("GetSuggestion() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("GetSuggestion() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestWithSuggestionOverrides(t *testing.T) {
	err := WithSuggestion(ErrPlaylistNotFound, "try again")
	if got := GetSuggestion(err); got != "try again" {
		t.Errorf("GetSuggestion() = %q, want %q", got, "try again")
	}
	if !errors.Is(err, ErrPlaylistNotFound) {
		t.Error("WithSuggestion() should keep the wrapped error")
	}
}

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}

	got := Format(ErrEmptyPlaylist)
	if !strings.HasPrefix(got, "Error: playlist is empty") {
		t.Errorf("Format() = %q, want error prefix", got)
	}
	if !strings.Contains(got, "Suggestion:") {
		t.Errorf("Format() = %q, want a suggestion", got)
	}

	if got := Format(errors.New("plain")); got != "Error: plain" {
		t.Errorf("Format() = %q, want %q", got, "Error: plain")
	}
}

func TestPartialResult(t *testing.T) {
	var p PartialResult[[]string]
	if p.HasErrors() {
		t.Error("HasErrors() = true on empty result")
	}

	p.AddError(nil)
	if p.HasErrors() {
		t.Error("AddError(nil) should be ignored")
	}

	p.AddError(errors.New("first"))
	if p.ErrorSummary() != "first" {
		t.Errorf("ErrorSummary() = %q, want %q", p.ErrorSummary(), "first")
	}

	p.AddError(errors.New("second"))
	summary := p.ErrorSummary()
	if !strings.HasPrefix(summary, "2 errors occurred") {
		t.Errorf("ErrorSummary() = %q, want count prefix", summary)
	}
}
