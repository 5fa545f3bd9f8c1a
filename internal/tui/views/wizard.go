package views

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"omm/internal/domain"
	"omm/internal/fomod"
)

// WizardDoneMsg is sent when the wizard reaches its terminal transition
type WizardDoneMsg struct {
	ModIndex int
}

// WizardCancelMsg is sent when the user abandons the wizard
type WizardCancelMsg struct{}

// Wizard drives an installer wizard session page by page.
type Wizard struct {
	session  *fomod.Session
	modIndex int
	selected int
	err      error
	width    int
	height   int
}

// NewWizard creates a wizard view over an open session
func NewWizard(session *fomod.Session, modIndex int) Wizard {
	return Wizard{
		session:  session,
		modIndex: modIndex,
		width:    80,
		height:   24,
	}
}

// Selected returns the selection cursor on the current page
func (w Wizard) Selected() int {
	return w.selected
}

// Session returns the underlying wizard session
func (w Wizard) Session() *fomod.Session {
	return w.session
}

// Init implements tea.Model
func (w Wizard) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (w Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return w.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		return w, nil
	}

	return w, nil
}

func (w Wizard) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := w.session.CurrentPage()

	switch msg.String() {
	case "up", "k":
		if page != nil && w.selected > 0 {
			w.selected--
		}
		return w, nil

	case "down", "j":
		if page != nil && w.selected < len(page.Selections)-1 {
			w.selected++
		}
		return w, nil

	case " ", "enter":
		if page != nil {
			w.err = w.session.Select(w.selected)
		}
		return w, nil

	case "n": // Next page
		w.err = nil
		if done := w.session.Advance(); done {
			index := w.modIndex
			return w, func() tea.Msg {
				return WizardDoneMsg{ModIndex: index}
			}
		}
		w.selected = 0
		return w, nil

	case "b": // Previous page
		w.err = w.session.Retreat()
		if w.err == nil {
			w.selected = 0
		}
		return w, nil

	case "esc":
		return w, func() tea.Msg {
			return WizardCancelMsg{}
		}
	}

	return w, nil
}

// View implements tea.Model
func (w Wizard) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	page := w.session.CurrentPage()
	if page == nil {
		return dimStyle.Render("No pages to configure.")
	}

	index, total := w.session.Position()

	var b strings.Builder
	b.WriteString(titleStyle.Render(w.session.ModuleName()))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s - %s  (page %d/%d)", page.StepName, page.Name, index+1, total)))
	b.WriteString("\n\n")

	for i, sel := range page.Selections {
		line := fmt.Sprintf("[%s] %s", checkbox(sel.Selected), sel.Name)
		if sel.Description != "" {
			line += dimStyle.Render("  " + firstLine(sel.Description))
		}
		if i == w.selected {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if w.err != nil && !errors.Is(w.err, domain.ErrPageBoundary) {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(w.err.Error()))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("space: select  n: next  b: back  esc: cancel"))
	return b.String()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
