package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/tessro/crate/internal/core"
	crerrors "github.com/tessro/crate/internal/errors"
	"github.com/tessro/crate/internal/metrics"
	"github.com/tessro/crate/internal/playlist"
	"github.com/tessro/crate/internal/store"
	"github.com/tessro/crate/internal/tui/components"
	"github.com/tessro/crate/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelNowPlaying Panel = iota
	PanelPlaylist
	PanelPlaylists
	PanelHistory
	panelCount
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

type searchResult struct {
	Track *core.Track
	Index int // canonical index
}

const (
	searchDebounce = 150 * time.Millisecond
	statusDuration = 5 * time.Second
	maxHistory     = 50
)

// Options configures the dashboard.
type Options struct {
	Store       store.Store
	Player      core.Player
	Playlist    *playlist.Playlist
	Location    string
	Format      string
	RefreshRate time.Duration
	Theme       string
	Logger      *zap.Logger
	Metrics     *metrics.Recorder
}

// App holds the state shared by every copy of the Model. The playlist is
// only touched from the bubbletea update loop.
type App struct {
	store       store.Store
	player      core.Player
	log         *zap.Logger
	metrics     *metrics.Recorder
	format      string
	refreshRate time.Duration
	now         func() time.Time
	copy        func(string) error

	pl       *playlist.Playlist
	location string
	saved    uint64
}

// NewApp creates the dashboard state for an open playlist.
func NewApp(opts Options) (*App, error) {
	if opts.Playlist == nil || opts.Store == nil || opts.Player == nil {
		return nil, fmt.Errorf("tui: playlist, store and player are required: %w", crerrors.ErrInvalidArgument)
	}
	a := &App{
		store:       opts.Store,
		player:      opts.Player,
		log:         opts.Logger,
		metrics:     opts.Metrics,
		format:      opts.Format,
		refreshRate: opts.RefreshRate,
		now:         time.Now,
		copy:        clipboard.WriteAll,
		location:    opts.Location,
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	if a.refreshRate <= 0 {
		a.refreshRate = time.Second
	}
	if a.location == "" {
		a.location = opts.Playlist.Name()
	}
	a.setPlaylist(opts.Playlist, a.location)
	return a, nil
}

// Playlist returns the open playlist.
func (a *App) Playlist() *playlist.Playlist {
	return a.pl
}

func (a *App) setPlaylist(pl *playlist.Playlist, location string) {
	a.pl = pl
	a.location = location
	a.saved, _ = pl.Fingerprint()
	if p, ok := a.player.(interface{ SetPlaylist(string) }); ok {
		p.SetPlaylist(pl.Name())
	}
}

// SaveIfChanged saves the open playlist when its fingerprint differs from
// the one it had when opened or last saved.
func (a *App) SaveIfChanged() (bool, error) {
	fp, err := a.pl.Fingerprint()
	if err == nil && fp == a.saved {
		return false, nil
	}
	err = a.store.Save(a.pl, a.location)
	a.metrics.ObserveSave(a.format, err)
	if err != nil {
		return false, err
	}
	a.saved = fp
	a.log.Debug("saved playlist", zap.String("location", a.location))
	return true, nil
}

// Model is the main TUI model
type Model struct {
	app          *App
	width        int
	height       int
	focusedPanel Panel

	state   *core.PlaybackState
	names   []string
	history []components.HistoryEntry

	// playSeq identifies the current playback so stale completions are ignored
	playSeq int
	playing bool

	nowPlaying    *components.NowPlaying
	playlistView  *components.Playlist
	playlistsView *components.Playlists
	historyView   *components.History

	showHelp bool

	showSearch    bool
	searchInput   textinput.Model
	searchResults []searchResult
	searchCursor  int
	searchField   SearchField
	lastQuery     string

	status       string
	statusErr    bool
	statusExpiry time.Time

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(app *App) Model {
	ti := textinput.New()
	ti.Placeholder = "Search title, artist, album..."
	ti.CharLimit = 100
	ti.Width = 50

	m := Model{
		app:           app,
		focusedPanel:  PanelPlaylist,
		nowPlaying:    components.NewNowPlaying(),
		playlistView:  components.NewPlaylist(),
		playlistsView: components.NewPlaylists(),
		historyView:   components.NewHistory(),
		searchInput:   ti,
	}
	m.playlistView.Select(app.pl.CurrentIndex(), app.pl.Len())
	return m
}

// Messages
type tickMsg time.Time
type stateMsg *core.PlaybackState
type namesMsg []string
type errMsg error

type playStartedMsg struct {
	seq   int
	track *core.Track
	err   error
}

type trackDoneMsg struct {
	seq int
	err error
}

type playlistLoadedMsg struct {
	pl       *playlist.Playlist
	location string
	err      error
}

type searchDebounceMsg struct{ query string }

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.app.refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchState() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		state, err := m.app.player.GetState(ctx)
		if err != nil {
			return errMsg(err)
		}
		return stateMsg(state)
	}
}

func (m Model) fetchNames() tea.Cmd {
	return func() tea.Msg {
		names, err := m.app.store.List()
		if err != nil {
			return errMsg(err)
		}
		return namesMsg(names)
	}
}

func (m Model) loadPlaylist(location string) tea.Cmd {
	return func() tea.Msg {
		pl, err := store.LoadOrNotFound(m.app.store, location)
		return playlistLoadedMsg{pl: pl, location: location, err: err}
	}
}

// play starts track on the player. The completion is reported separately so
// a finished track can advance the playlist.
func (m *Model) play(track *core.Track) tea.Cmd {
	if track == nil {
		return nil
	}
	m.playSeq++
	m.playing = true
	seq := m.playSeq
	player := m.app.player
	return func() tea.Msg {
		err := player.Play(context.Background(), track)
		return playStartedMsg{seq: seq, track: track, err: err}
	}
}

func (m Model) waitForTrack(seq int) tea.Cmd {
	player := m.app.player
	return func() tea.Msg {
		return trackDoneMsg{seq: seq, err: player.Wait(context.Background())}
	}
}

func (m *Model) stop() tea.Cmd {
	m.playSeq++
	m.playing = false
	player := m.app.player
	return func() tea.Msg {
		if err := player.Stop(context.Background()); err != nil {
			return errMsg(err)
		}
		return refreshMsg{}
	}
}

type refreshMsg struct{}

// simulated reports whether the player only pretends to play. Simulated
// tracks finish instantly, so they never auto-advance.
func (m Model) simulated() bool {
	s, ok := m.app.player.(interface{ Simulated() bool })
	return ok && s.Simulated()
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tick(),
		m.fetchState(),
		m.fetchNames(),
	)
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
	m.statusExpiry = m.app.now().Add(statusDuration)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if m.status != "" && m.app.now().After(m.statusExpiry) {
			m.status = ""
		}
		return m, tea.Batch(m.tick(), m.fetchState())

	case stateMsg:
		m.state = msg
		return m, nil

	case refreshMsg:
		return m, m.fetchState()

	case namesMsg:
		m.names = msg
		return m, nil

	case errMsg:
		m.setStatus("Error: "+msg.Error(), true)
		return m, nil

	case playStartedMsg:
		if msg.seq != m.playSeq {
			return m, nil
		}
		if msg.err != nil {
			m.playing = false
			m.setStatus("Error: "+msg.err.Error(), true)
			return m, nil
		}
		m.app.metrics.ObservePlayback()
		m.addToHistory(msg.track)
		if m.simulated() {
			return m, m.fetchState()
		}
		return m, tea.Batch(m.fetchState(), m.waitForTrack(msg.seq))

	case trackDoneMsg:
		if msg.seq != m.playSeq || !m.playing {
			return m, nil
		}
		if msg.err != nil {
			m.playing = false
			m.setStatus("Error: "+msg.err.Error(), true)
			return m, m.fetchState()
		}
		next := m.app.pl.Next()
		m.playlistView.Select(m.app.pl.CurrentIndex(), m.app.pl.Len())
		if next == nil {
			m.playing = false
			m.setStatus("End of playlist", false)
			return m, m.fetchState()
		}
		cmd := m.play(next)
		return m, cmd

	case playlistLoadedMsg:
		if msg.err != nil {
			m.setStatus("Error: "+msg.err.Error(), true)
			return m, nil
		}
		m.app.setPlaylist(msg.pl, msg.location)
		m.playlistView.Select(msg.pl.CurrentIndex(), msg.pl.Len())
		m.focusedPanel = PanelPlaylist
		m.setStatus("Opened "+msg.pl.Name(), false)
		return m, nil

	case searchDebounceMsg:
		if msg.query == m.searchInput.Value() && msg.query != m.lastQuery {
			m.lastQuery = msg.query
			m.searchResults = m.search(msg.query)
			m.searchCursor = 0
		}
		return m, nil
	}

	if m.showSearch {
		var inputCmd tea.Cmd
		m.searchInput, inputCmd = m.searchInput.Update(msg)
		return m, inputCmd
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc":
			m.showHelp = false
		}
		return m, nil
	}

	if m.showSearch {
		return m.handleSearchKeyPress(msg)
	}

	pl := m.app.pl

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "/":
		m.showSearch = true
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		m.searchResults = nil
		m.searchCursor = 0
		m.searchField = SearchAll
		m.lastQuery = ""
		return m, textinput.Blink

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % panelCount
		return m, nil

	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + panelCount - 1) % panelCount
		return m, nil

	case "ctrl+r":
		return m, tea.Batch(m.fetchState(), m.fetchNames())
	}

	// Playlist controls
	switch msg.String() {
	case " ":
		if m.playing {
			cmd := m.stop()
			return m, cmd
		}
		cmd := m.play(pl.Current())
		return m, cmd

	case "n":
		m.markSkipped()
		next := pl.Next()
		m.playlistView.Select(pl.CurrentIndex(), pl.Len())
		if next == nil {
			if !pl.IsEmpty() {
				m.setStatus("End of playlist", false)
			}
			return m, nil
		}
		if m.playing {
			cmd := m.play(next)
			return m, cmd
		}
		return m, nil

	case "p":
		m.markSkipped()
		prev := pl.Previous()
		m.playlistView.Select(pl.CurrentIndex(), pl.Len())
		if m.playing && prev != nil {
			cmd := m.play(prev)
			return m, cmd
		}
		return m, nil

	case "s":
		pl.SetShuffle(!pl.Shuffle())
		m.playlistView.Select(pl.CurrentIndex(), pl.Len())
		m.setStatus(fmt.Sprintf("Shuffle %s", onOff(pl.Shuffle())), false)
		return m, nil

	case "r":
		pl.SetRepeat(!pl.Repeat())
		m.setStatus(fmt.Sprintf("Repeat %s", onOff(pl.Repeat())), false)
		return m, nil

	case "t":
		pl.SortByTitle()
		m.setStatus("Sorted by title", false)
		return m, nil

	case "a":
		pl.SortByArtist()
		m.setStatus("Sorted by artist", false)
		return m, nil

	case "l":
		pl.SortByAlbum()
		m.setStatus("Sorted by album", false)
		return m, nil
	}

	switch m.focusedPanel {
	case PanelPlaylist:
		return m.handlePlaylistKey(msg)
	case PanelPlaylists:
		return m.handlePlaylistsKey(msg)
	}

	return m, nil
}

func (m Model) handlePlaylistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pl := m.app.pl
	switch msg.String() {
	case "j", "down":
		m.playlistView.SelectNext(pl.Len())
	case "k", "up":
		m.playlistView.SelectPrev()
	case "enter":
		if !pl.SetCurrentIndex(m.playlistView.Selected()) {
			return m, nil
		}
		cmd := m.play(pl.Current())
		return m, cmd
	case "d":
		idx, ok := pl.CanonicalIndex(m.playlistView.Selected())
		if !ok {
			return m, nil
		}
		track := pl.Track(idx)
		pl.RemoveAt(idx)
		m.playlistView.Select(m.playlistView.Selected(), pl.Len())
		m.setStatus("Removed "+track.DisplayName(), false)
	case "y":
		idx, ok := pl.CanonicalIndex(m.playlistView.Selected())
		if !ok {
			return m, nil
		}
		path := pl.Track(idx).Path
		if err := m.app.copy(path); err != nil {
			m.setStatus("Error: "+err.Error(), true)
			return m, nil
		}
		m.setStatus("Copied "+path, false)
	}
	return m, nil
}

func (m Model) handlePlaylistsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.playlistsView.SelectNext(len(m.names))
	case "k", "up":
		m.playlistsView.SelectPrev()
	case "enter":
		i := m.playlistsView.Selected()
		if i < 0 || i >= len(m.names) || m.names[i] == m.app.location {
			return m, nil
		}
		if _, err := m.app.SaveIfChanged(); err != nil {
			m.setStatus("Error: "+err.Error(), true)
			return m, nil
		}
		load := m.loadPlaylist(m.names[i])
		if m.playing {
			stop := m.stop()
			return m, tea.Batch(stop, load)
		}
		return m, load
	}
	return m, nil
}

func (m Model) handleSearchKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showSearch = false
		m.searchInput.Blur()
		return m, nil

	case "enter":
		if m.searchCursor < len(m.searchResults) {
			result := m.searchResults[m.searchCursor]
			m.showSearch = false
			m.searchInput.Blur()
			if pos, ok := m.app.pl.Position(result.Index); ok {
				m.playlistView.Select(pos, m.app.pl.Len())
				m.focusedPanel = PanelPlaylist
			}
		}
		return m, nil

	case "up", "ctrl+p":
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil

	case "down", "ctrl+n":
		if m.searchCursor < len(m.searchResults)-1 {
			m.searchCursor++
		}
		return m, nil

	case "ctrl+t":
		m.searchField = (m.searchField + 1) % searchFieldCount
		m.searchResults = m.search(m.searchInput.Value())
		m.searchCursor = 0
		return m, nil
	}

	var inputCmd tea.Cmd
	m.searchInput, inputCmd = m.searchInput.Update(msg)
	cmds := []tea.Cmd{inputCmd}

	if query := m.searchInput.Value(); query != m.lastQuery {
		cmds = append(cmds, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
			return searchDebounceMsg{query: query}
		}))
	}

	return m, tea.Batch(cmds...)
}

// search matches query against the open playlist, in canonical order.
func (m Model) search(query string) []searchResult {
	if query == "" {
		return nil
	}
	pl := m.app.pl

	var hits []*core.Track
	switch m.searchField {
	case SearchTitle:
		hits = pl.SearchByTitle(query)
	case SearchArtist:
		hits = pl.SearchByArtist(query)
	case SearchAlbum:
		hits = pl.SearchByAlbum(query)
	default:
		for _, t := range pl.Tracks() {
			if strings.Contains(t.Title, query) || strings.Contains(t.Artist, query) || strings.Contains(t.Album, query) {
				hits = append(hits, t)
			}
		}
	}

	results := make([]searchResult, 0, len(hits))
	tracks := pl.Tracks()
	next := 0
	for _, hit := range hits {
		// hits are in canonical order, so scan forward to keep duplicates apart
		for i := next; i < len(tracks); i++ {
			if tracks[i] == hit {
				results = append(results, searchResult{Track: hit, Index: i})
				next = i + 1
				break
			}
		}
	}
	return results
}

func (m *Model) addToHistory(track *core.Track) {
	entry := components.HistoryEntry{
		Track:    track,
		PlayedAt: m.app.now(),
	}
	m.history = append([]components.HistoryEntry{entry}, m.history...)
	if len(m.history) > maxHistory {
		m.history = m.history[:maxHistory]
	}
}

// markSkipped flags the playing track as skipped in history.
func (m *Model) markSkipped() {
	if m.playing && len(m.history) > 0 {
		m.history[0].Skipped = true
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.showSearch {
		return m.renderSearch()
	}

	// Left: Now Playing (top), Playlist (bottom)
	// Right: Playlists (top), History (bottom)
	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 2
	topHeight := m.height * 40 / 100
	bottomHeight := m.height - topHeight - 2

	now := m.app.now()
	queue := m.app.pl.Queue()

	nowPlaying := m.nowPlaying.Render(m.state, queue, now, leftWidth-2, topHeight-2, m.focusedPanel == PanelNowPlaying)
	playlistView := m.playlistView.Render(queue, leftWidth-2, bottomHeight-2, m.focusedPanel == PanelPlaylist)
	playlistsView := m.playlistsView.Render(m.names, m.app.location, rightWidth-2, topHeight-2, m.focusedPanel == PanelPlaylists)
	historyView := m.historyView.Render(m.history, now, rightWidth-2, bottomHeight-2, m.focusedPanel == PanelHistory)

	leftCol := lipgloss.JoinVertical(lipgloss.Left, nowPlaying, playlistView)
	rightCol := lipgloss.JoinVertical(lipgloss.Left, playlistsView, historyView)

	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, rightCol)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	status := styles.Dim.Render("q:quit  ?:help  /:search  space:play/stop  n/p:next/prev  s:shuffle  r:repeat  tab:switch panel")

	if m.status != "" {
		if m.statusErr {
			status = styles.ErrorText.Render(m.status)
		} else {
			status = styles.Playing.Render(m.status)
		}
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := "Crate - Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	help := `
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit (saves changes)
  ?            Toggle help
  /            Search playlist
  Tab          Next panel
  Shift+Tab    Previous panel
  Ctrl+R       Refresh

  Playlist
  ────────
  Space        Play/Stop current track
  n            Next track
  p            Previous track
  s            Toggle shuffle
  r            Toggle repeat
  t / a / l    Sort by title / artist / album

  Playlist Panel
  ──────────────
  j/↓  k/↑     Move selection
  Enter        Jump to selection and play
  d            Remove selected track
  y            Copy selected path

  Playlists Panel
  ───────────────
  j/↓  k/↑     Move selection
  Enter        Open playlist

  Press ? or Esc to close
`

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(help))
}

func (m Model) renderSearch() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Primary)
	b.WriteString(titleStyle.Render("Search " + m.app.pl.Name()))
	b.WriteString("\n\n")

	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	tabs := []string{"All", "Title", "Artist", "Album"}
	activeTabStyle := lipgloss.NewStyle().Padding(0, 1).Background(styles.Primary).Foreground(lipgloss.Color("0"))
	tabStyle := lipgloss.NewStyle().Padding(0, 1).Foreground(styles.TextDim)
	for i, tab := range tabs {
		if SearchField(i) == m.searchField {
			b.WriteString(activeTabStyle.Render(tab))
		} else {
			b.WriteString(tabStyle.Render(tab))
		}
	}
	b.WriteString("\n\n")

	selectedStyle := lipgloss.NewStyle().Background(lipgloss.Color("237"))

	if len(m.searchResults) == 0 && m.lastQuery != "" {
		b.WriteString(styles.Muted.Render("No matches"))
	} else {
		const maxResults = 10
		for i, result := range m.searchResults {
			if i >= maxResults {
				b.WriteString(styles.Muted.Render(fmt.Sprintf("  ...and %d more", len(m.searchResults)-maxResults)))
				break
			}

			line := styles.Truncate(result.Track.Title, 30) + " " +
				styles.Muted.Render(styles.Truncate(result.Track.Artist+" · "+result.Track.Album, 24))

			if i == m.searchCursor {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("Ctrl+t:field  ↑/↓:nav  Enter:select  Esc:close"))

	content := lipgloss.NewStyle().
		Width(60).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.FocusedBorder.Render(content))
}

// Run starts the dashboard and saves the playlist on exit when it changed.
func Run(opts Options) error {
	styles.ApplyTheme(opts.Theme)

	app, err := NewApp(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewModel(app), tea.WithAltScreen())
	final, runErr := p.Run()

	if m, ok := final.(Model); ok && m.playing {
		_ = app.player.Stop(context.Background())
	}
	if _, err := app.SaveIfChanged(); err != nil {
		return fmt.Errorf("saving playlist: %w", err)
	}
	return runErr
}
