package wizard

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var pickerDefault = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))

// PickerModel chooses one saved playlist by name.
type PickerModel struct {
	names    []string
	active   string
	cursor   int
	selected string
}

// NewPickerModel creates a picker over names. active, if present, is
// marked and preselected.
func NewPickerModel(names []string, active string) PickerModel {
	m := PickerModel{names: names, active: active}
	for i, name := range names {
		if name == active {
			m.cursor = i
			break
		}
	}
	return m
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	last := max(len(m.names)-1, 0)
	switch key.String() {
	case "ctrl+c", "esc", "q":
		return m, tea.Quit
	case "enter", " ":
		if len(m.names) > 0 {
			m.selected = m.names[m.cursor]
			return m, tea.Quit
		}
	case "up", "k", "ctrl+p":
		m.cursor = max(m.cursor-1, 0)
	case "down", "j", "ctrl+n":
		m.cursor = min(m.cursor+1, last)
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = last
	}
	return m, nil
}

func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(searchHeading.Render("Choose a playlist"))
	b.WriteString("\n\n")

	if len(m.names) == 0 {
		b.WriteString(searchDim.Render("No saved playlists"))
		b.WriteString("\n")
		b.WriteString(searchDim.Render("Create one with: crate playlist create NAME"))
		b.WriteString("\n")
	}
	for i, name := range m.names {
		line := name
		if name == m.active {
			line += pickerDefault.Render(" (default)")
		}
		if i == m.cursor {
			b.WriteString(searchRowOn.Render("▸ " + line))
		} else {
			b.WriteString(searchRow.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(searchDim.Render("↑/↓ move • enter choose • esc cancel"))
	return b.String()
}

// Selected returns the chosen name, or "" if the picker was cancelled.
func (m PickerModel) Selected() string {
	return m.selected
}

// RunPlaylistPicker shows the picker and returns the chosen playlist name.
func RunPlaylistPicker(names []string, active string) (string, error) {
	final, err := tea.NewProgram(NewPickerModel(names, active)).Run()
	if err != nil {
		return "", err
	}
	return final.(PickerModel).Selected(), nil
}
