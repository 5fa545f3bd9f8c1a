// Package views contains the individual screens of the TUI.
package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Row is one display line in an ordered list: a mod or a plugin with
// its derived state.
type Row struct {
	Name       string
	Enabled    bool
	Conflict   bool
	Obsolete   bool
	Fomod      bool
	Configured bool
}

// ToggleMsg asks the app to flip the enabled state of an entry
type ToggleMsg struct {
	Index int
}

// ReorderMsg asks the app to move an entry to a new priority
type ReorderMsg struct {
	FromIndex int
	ToIndex   int
}

// ConfigureMsg asks the app to open the installer wizard for an entry
type ConfigureMsg struct {
	Index int
}

// CommitMsg asks the app to commit pending changes
type CommitMsg struct{}

// DeleteMsg asks the app to delete an entry
type DeleteMsg struct {
	Index int
}

// ModList renders an ordered, navigable list of mods or plugins.
type ModList struct {
	title    string
	rows     []Row
	selected int
	width    int
	height   int
}

// NewModList creates a list view with the given title and rows
func NewModList(title string, rows []Row) ModList {
	return ModList{
		title:    title,
		rows:     rows,
		selected: 0,
		width:    80,
		height:   24,
	}
}

// Selected returns the currently selected index
func (m ModList) Selected() int {
	return m.selected
}

// RowCount returns the number of rows
func (m ModList) RowCount() int {
	return len(m.rows)
}

// SetRows replaces the rows, keeping the cursor in range.
func (m ModList) SetRows(rows []Row) ModList {
	m.rows = rows
	if m.selected >= len(rows) {
		m.selected = len(rows) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	return m
}

// Init implements tea.Model
func (m ModList) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m ModList) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m ModList) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "c" {
		return m, func() tea.Msg { return CommitMsg{} }
	}
	if len(m.rows) == 0 {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		m.selected--
		if m.selected < 0 {
			m.selected = len(m.rows) - 1
		}
		return m, nil

	case "down", "j":
		m.selected++
		if m.selected >= len(m.rows) {
			m.selected = 0
		}
		return m, nil

	case " ", "enter": // Toggle enabled
		return m, func() tea.Msg {
			return ToggleMsg{Index: m.selected}
		}

	case "J": // Raise priority (towards the winning end)
		if m.selected < len(m.rows)-1 {
			from := m.selected
			m.selected++
			return m, func() tea.Msg {
				return ReorderMsg{FromIndex: from, ToIndex: from + 1}
			}
		}
		return m, nil

	case "K": // Lower priority
		if m.selected > 0 {
			from := m.selected
			m.selected--
			return m, func() tea.Msg {
				return ReorderMsg{FromIndex: from, ToIndex: from - 1}
			}
		}
		return m, nil

	case "o": // Open installer wizard
		if m.rows[m.selected].Fomod {
			return m, func() tea.Msg {
				return ConfigureMsg{Index: m.selected}
			}
		}
		return m, nil

	case "d", "delete":
		return m, func() tea.Msg {
			return DeleteMsg{Index: m.selected}
		}
	}

	return m, nil
}

// View implements tea.Model
func (m ModList) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(dimStyle.Render("  (empty)"))
		return b.String()
	}

	for i, row := range m.rows {
		line := fmt.Sprintf("[%s] %3d  %-8s %s", checkbox(row.Enabled), i, markers(row), row.Name)
		if row.Fomod && !row.Configured {
			line += dimStyle.Render("  (unconfigured)")
		}
		if i == m.selected {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("space: toggle  J/K: reorder  o: configure  d: delete  c: commit"))
	return b.String()
}

func checkbox(enabled bool) string {
	if enabled {
		return "*"
	}
	return " "
}

// markers renders the derived-state column: '*' for a destination
// conflict, 'x' for an obsolete mod whose files are all shadowed.
func markers(row Row) string {
	var m string
	if row.Conflict {
		m += "*"
	}
	if row.Obsolete {
		m += "x"
	}
	return m
}
