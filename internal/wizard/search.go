package wizard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/crate/internal/core"
	"github.com/tessro/crate/internal/playlist"
)

// SearchField selects which track fields a search matches.
type SearchField int

const (
	SearchAll SearchField = iota
	SearchTitle
	SearchArtist
	SearchAlbum
	searchFieldCount
)

func (f SearchField) String() string {
	switch f {
	case SearchTitle:
		return "Title"
	case SearchArtist:
		return "Artist"
	case SearchAlbum:
		return "Album"
	default:
		return "All"
	}
}

// SearchResult is one matching track.
type SearchResult struct {
	Track    *core.Track
	Index    int // canonical index in the searched playlist
	Title    string
	Subtitle string
}

// SearchFunc looks up tracks matching query in the given field.
type SearchFunc func(query string, field SearchField) ([]SearchResult, error)

// SearchModel is a track finder: a query box, field tabs and a result list.
type SearchModel struct {
	input    textinput.Model
	search   SearchFunc
	field    SearchField
	debounce time.Duration

	results  []SearchResult
	cursor   int
	selected *SearchResult
	err      error

	lastQuery string
	searching bool
	height    int
}

var (
	searchHeading  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	searchTab      = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#9CA3AF"))
	searchTabOn    = searchTab.Bold(true).Foreground(lipgloss.Color("#F9FAFB")).Background(lipgloss.Color("#7C3AED"))
	searchRow      = lipgloss.NewStyle().PaddingLeft(2)
	searchRowOn    = searchRow.Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	searchDim      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	searchErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

// NewSearchModel creates a search model backed by search.
func NewSearchModel(search SearchFunc) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "title, artist or album"
	ti.Prompt = "/ "
	ti.CharLimit = 100
	ti.Width = 50
	ti.Focus()

	return SearchModel{
		input:    ti,
		search:   search,
		field:    SearchAll,
		debounce: 250 * time.Millisecond,
		height:   20,
	}
}

func (m SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

type debounceMsg struct {
	query string
}

type searchResultsMsg struct {
	query   string
	results []SearchResult
	err     error
}

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.handleKey(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 10)

	case debounceMsg:
		if msg.query == m.input.Value() && msg.query != m.lastQuery {
			m.lastQuery = msg.query
			return m, m.run(msg.query)
		}
		return m, nil

	case searchResultsMsg:
		m.searching = false
		m.results = msg.results
		m.err = msg.err
		m.cursor = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	query := m.input.Value()
	if query == m.lastQuery {
		return m, cmd
	}
	return m, tea.Batch(cmd, tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return debounceMsg{query: query}
	}))
}

// handleKey processes navigation keys. Anything else goes to the input.
func (m *SearchModel) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return true, tea.Quit
	case "enter":
		if m.cursor < len(m.results) {
			m.selected = &m.results[m.cursor]
			return true, tea.Quit
		}
		return true, nil
	case "up", "ctrl+p":
		m.cursor = max(m.cursor-1, 0)
		return true, nil
	case "down", "ctrl+n":
		m.cursor = max(min(m.cursor+1, len(m.results)-1), 0)
		return true, nil
	case "tab":
		return true, m.cycleField(1)
	case "shift+tab":
		return true, m.cycleField(-1)
	}
	return false, nil
}

// cycleField moves to the next or previous field and reruns the query.
func (m *SearchModel) cycleField(delta int) tea.Cmd {
	m.field = SearchField((int(m.field) + delta + int(searchFieldCount)) % int(searchFieldCount))
	if m.input.Value() == "" {
		return nil
	}
	return m.run(m.input.Value())
}

// run marks a search in flight and returns the command performing it.
func (m *SearchModel) run(query string) tea.Cmd {
	m.searching = true
	search, field := m.search, m.field
	return func() tea.Msg {
		if query == "" {
			return searchResultsMsg{query: query}
		}
		results, err := search(query, field)
		return searchResultsMsg{query: query, results: results, err: err}
	}
}

func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(searchHeading.Render("Find a track"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.renderResults())
	b.WriteString("\n")
	b.WriteString(searchDim.Render("↑/↓ move • tab field • enter jump • esc cancel"))

	return b.String()
}

func (m SearchModel) renderTabs() string {
	tabs := make([]string, 0, searchFieldCount)
	for f := SearchAll; f < searchFieldCount; f++ {
		style := searchTab
		if f == m.field {
			style = searchTabOn
		}
		tabs = append(tabs, style.Render(f.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m SearchModel) renderResults() string {
	switch {
	case m.err != nil:
		return searchErrStyle.Render("Error: " + m.err.Error())
	case m.searching:
		return searchDim.Render("Searching...")
	case len(m.results) == 0 && m.input.Value() != "":
		return searchDim.Render("No matching tracks")
	}

	limit := max(m.height-10, 5)
	var b strings.Builder
	for i, r := range m.results {
		if i == limit {
			fmt.Fprintf(&b, "%s\n", searchDim.Render(fmt.Sprintf("  ... %d more", len(m.results)-limit)))
			break
		}
		line := fmt.Sprintf("%3d  %s  %s", r.Index+1, r.Title, searchDim.Render(r.Subtitle))
		if i == m.cursor {
			b.WriteString(searchRowOn.Render("▸ " + line))
		} else {
			b.WriteString(searchRow.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Selected returns the chosen result, or nil if the search was cancelled.
func (m SearchModel) Selected() *SearchResult {
	return m.selected
}

// RunSearch shows the search model full screen and returns the choice.
func RunSearch(search SearchFunc) (*SearchResult, error) {
	final, err := tea.NewProgram(NewSearchModel(search), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}
	return final.(SearchModel).Selected(), nil
}

// PlaylistSearch returns a SearchFunc over pl's tracks in stored order.
// Matching is case-sensitive, like the playlist's own search.
func PlaylistSearch(pl *playlist.Playlist) SearchFunc {
	return func(query string, field SearchField) ([]SearchResult, error) {
		var results []SearchResult
		for i, t := range pl.Tracks() {
			if !matches(t, query, field) {
				continue
			}
			results = append(results, SearchResult{
				Track:    t,
				Index:    i,
				Title:    t.Title,
				Subtitle: fmt.Sprintf("%s · %s · %s", t.Artist, t.Album, t.DurationString()),
			})
		}
		return results, nil
	}
}

func matches(t *core.Track, query string, field SearchField) bool {
	switch field {
	case SearchTitle:
		return strings.Contains(t.Title, query)
	case SearchArtist:
		return strings.Contains(t.Artist, query)
	case SearchAlbum:
		return strings.Contains(t.Album, query)
	default:
		return strings.Contains(t.Title, query) ||
			strings.Contains(t.Artist, query) ||
			strings.Contains(t.Album, query)
	}
}
