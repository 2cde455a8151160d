package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/crate/internal/tui/styles"
)

// Playlists lists the saved playlists so another can be opened.
type Playlists struct {
	selected int
}

// NewPlaylists creates a new Playlists component
func NewPlaylists() *Playlists {
	return &Playlists{}
}

// SelectNext selects the next playlist of n.
func (p *Playlists) SelectNext(n int) {
	if p.selected < n-1 {
		p.selected++
	}
}

// SelectPrev selects the previous playlist
func (p *Playlists) SelectPrev() {
	if p.selected > 0 {
		p.selected--
	}
}

// Selected returns the selected playlist index
func (p *Playlists) Selected() int {
	return p.selected
}

// Render renders the playlists panel. active is the open playlist's name.
func (p *Playlists) Render(names []string, active string, width, height int, focused bool) string {
	title := styles.PanelTitle("Playlists", focused)

	var content string
	if len(names) == 0 {
		content = styles.Muted.Render("No saved playlists")
	} else {
		content = p.renderNames(names, active, width-4, height-4, focused)
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

func (p *Playlists) renderNames(names []string, active string, width, maxLines int, focused bool) string {
	p.selected = min(max(p.selected, 0), len(names)-1)

	lines := make([]string, 0, len(names))
	for i, name := range names {
		selector := "  "
		if focused && i == p.selected {
			selector = "▸ "
		}

		marker := ""
		if name == active {
			marker = styles.Playing.Render(" ●")
		}

		label := styles.Truncate(name, width-4)
		if focused && i == p.selected {
			label = styles.Highlight.Render(label)
		}

		lines = append(lines, fmt.Sprintf("%s%s%s", selector, label, marker))
		if len(lines) >= maxLines {
			break
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
