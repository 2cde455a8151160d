package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/tui/styles"
)

// Playlist displays a playlist in effective order with a movable selection.
// The playlist cursor is marked separately from the selection.
type Playlist struct {
	offset   int
	selected int
}

// NewPlaylist creates a new Playlist component
func NewPlaylist() *Playlist {
	return &Playlist{}
}

// SelectNext moves the selection down, stopping at the last of n rows.
func (p *Playlist) SelectNext(n int) {
	if p.selected < n-1 {
		p.selected++
	}
}

// SelectPrev moves the selection up.
func (p *Playlist) SelectPrev() {
	if p.selected > 0 {
		p.selected--
	}
}

// Select moves the selection to index, clamped to n rows.
func (p *Playlist) Select(index, n int) {
	p.selected = min(max(index, 0), max(n-1, 0))
}

// Selected returns the selected position in effective order.
func (p *Playlist) Selected() int {
	return p.selected
}

// Render renders the playlist panel
func (p *Playlist) Render(queue *core.Queue, width, height int, focused bool) string {
	name := "Playlist"
	if queue != nil && queue.Name != "" {
		name = queue.Name
	}
	title := styles.PanelTitle(name, focused)

	var content string
	if queue.IsEmpty() {
		content = styles.Muted.Render("No tracks. Run crate scan --playlist " + name)
	} else {
		content = p.renderTracks(queue, width-4, height-4, focused)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

// visibleRange scrolls so the selection stays in view.
func (p *Playlist) visibleRange(total, rows int) (int, int) {
	p.selected = min(max(p.selected, 0), total-1)
	rows = max(rows, 1)
	if p.selected < p.offset {
		p.offset = p.selected
	}
	if p.selected >= p.offset+rows {
		p.offset = p.selected - rows + 1
	}
	p.offset = min(p.offset, max(total-rows, 0))
	return p.offset, min(p.offset+rows, total)
}

func (p *Playlist) renderTracks(queue *core.Queue, width, maxLines int, focused bool) string {
	tracks := queue.Tracks

	// Leave room for the "more" indicator
	start, end := p.visibleRange(len(tracks), maxLines-1)

	lines := make([]string, 0, end-start+1)

	// Fixed overhead: "XXX. " (5) + "▶ " (2) + " — " (3) + duration (6)
	const overhead = 16

	for i := start; i < end; i++ {
		track := tracks[i]
		num := fmt.Sprintf("%3d.", i+1)

		available := width - overhead
		var title, artist string
		if styles.Width(track.Title)+styles.Width(track.Artist) <= available {
			title = track.Title
			artist = track.Artist
		} else {
			// give the artist at least a third of the space, min 10 cells
			artistSpace := min(max(available/3, 10), available-10)
			artistSpace = min(artistSpace, styles.Width(track.Artist))
			title = styles.Truncate(track.Title, available-artistSpace)
			artist = styles.Truncate(track.Artist, artistSpace)
		}

		marker := "  "
		if i == queue.CurrentIndex {
			marker = "▶ "
		}

		var line string
		switch {
		case focused && i == p.selected:
			line = styles.Selected.Render(fmt.Sprintf("%s %s%s — %s", num, marker, title, artist))
		case i == queue.CurrentIndex:
			line = styles.Playing.Render(fmt.Sprintf("%s %s%s — %s", num, marker, title, artist))
		default:
			line = fmt.Sprintf("%s %s%s — %s",
				styles.Dim.Render(num),
				marker,
				title,
				styles.Muted.Render(artist))
		}
		line += " " + styles.Dim.Render(track.DurationString())

		lines = append(lines, line)
	}

	if end < len(tracks) {
		more := styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(tracks)-end))
		lines = append(lines, more)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
