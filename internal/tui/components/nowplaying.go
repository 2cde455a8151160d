package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/tui/styles"
)

// NowPlaying displays the current track and the playlist's modes.
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel. state may be nil when nothing has
// been played yet; the queue's current track is shown instead.
func (n *NowPlaying) Render(state *core.PlaybackState, queue *core.Queue, now time.Time, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	track := queue.Current()
	playing := false
	if state.HasTrack() {
		track = state.Track
		playing = state.IsPlaying
	}

	var content string
	if track == nil {
		content = styles.Muted.Render("Playlist is empty")
	} else {
		content = n.renderTrack(track, state, playing, now, width-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
		"",
		n.renderModes(queue),
	))
}

func (n *NowPlaying) renderTrack(track *core.Track, state *core.PlaybackState, playing bool, now time.Time, width int) string {
	icon := styles.StatusIcon(playing)
	title := styles.Title.Render(styles.Truncate(track.Title, width-4))
	artist := styles.Subtitle.Render(styles.Truncate(track.Artist, width-2))
	album := styles.Dim.Render(styles.Truncate(track.Album, width-2))

	progressWidth := max(width-14, 10)
	var elapsed time.Duration
	var percent float64
	if playing {
		elapsed = state.Progress(now)
		percent = state.ProgressPercent(now)
	}
	progress := fmt.Sprintf("%s %s %s",
		formatDuration(elapsed),
		styles.ProgressBar(percent, progressWidth),
		formatDuration(track.Duration))

	details := fmt.Sprintf("%s · %s", track.Format, humanize.Bytes(uint64(max(track.Size, 0))))
	if state != nil && state.Simulated && playing {
		details += " · simulated"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+title,
		"  "+artist,
		"  "+album,
		"",
		progress,
		styles.Dim.Render(details),
	)
}

func (n *NowPlaying) renderModes(queue *core.Queue) string {
	if queue == nil {
		return ""
	}
	pos := fmt.Sprintf("%d/%d", min(queue.CurrentIndex+1, queue.Len()), queue.Len())
	return fmt.Sprintf("%s  %s  %s",
		styles.ModeBadge("shuffle", queue.Shuffle),
		styles.ModeBadge("repeat", queue.Repeat),
		styles.Dim.Render(pos))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
