package wizard

import (
	"os"

	"golang.org/x/term"
)

// Interactive provides interactive fallback functionality.
type Interactive struct {
	enabled    bool
	searchFunc SearchFunc
	names      []string
	active     string
}

// NewInteractive creates a new interactive handler.
func NewInteractive() *Interactive {
	return &Interactive{
		enabled: true,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// SetSearchFunc sets the search function for the search wizard.
func (i *Interactive) SetSearchFunc(fn SearchFunc) {
	i.searchFunc = fn
}

// SetPlaylists sets the names offered by the playlist picker and the one
// currently open.
func (i *Interactive) SetPlaylists(names []string, active string) {
	i.names = names
	i.active = active
}

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// PromptSearch launches the search wizard if interactive mode is available.
// Returns the selected result, or nil if cancelled or not interactive.
func (i *Interactive) PromptSearch() (*SearchResult, error) {
	if !i.CanInteract() || i.searchFunc == nil {
		return nil, nil
	}
	return RunSearch(i.searchFunc)
}

// PromptPlaylist launches the playlist picker if interactive mode is
// available. Returns "" if cancelled or not interactive.
func (i *Interactive) PromptPlaylist() (string, error) {
	if !i.CanInteract() || len(i.names) == 0 {
		return "", nil
	}
	return RunPlaylistPicker(i.names, i.active)
}
