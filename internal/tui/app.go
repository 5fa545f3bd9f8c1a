// Package tui is the interactive terminal front end over a core session.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"omm/internal/core"
	"omm/internal/tui/views"
)

// ViewType represents different screens in the TUI
type ViewType int

const (
	ViewMods ViewType = iota
	ViewPlugins
	ViewWizard
)

// App is the main TUI application model
type App struct {
	session     *core.Session
	keys        *KeyMap
	currentView ViewType
	width       int
	height      int
	err         error
	status      string

	mods    views.ModList
	plugins views.ModList
	wizard  tea.Model
}

// NewApp creates a new TUI application over an open session
func NewApp(session *core.Session, keybindings string) App {
	a := App{
		session:     session,
		keys:        NewKeyMap(keybindings),
		currentView: ViewMods,
		width:       80,
		height:      24,
	}
	a.mods = views.NewModList("Mods", a.modRows())
	a.plugins = views.NewModList("Plugins", a.pluginRows())
	return a
}

// CurrentView returns the current view type
func (a App) CurrentView() ViewType {
	return a.currentView
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a.updateCurrentView(msg)

	case views.ToggleMsg:
		a.toggle(msg.Index)
		return a.refresh(), nil

	case views.ReorderMsg:
		a.err = a.session.Move(a.kind(), msg.FromIndex, msg.ToIndex)
		return a.refresh(), nil

	case views.CommitMsg:
		collisions, err := a.session.Commit()
		a.err = err
		if err == nil {
			a.status = "committed"
			if len(collisions) > 0 {
				a.status = fmt.Sprintf("committed with %d collision(s); run the conflicts report", len(collisions))
			}
		}
		return a.refresh(), nil

	case views.DeleteMsg:
		a.err = a.session.Delete(a.kind(), msg.Index)
		return a.refresh(), nil

	case views.ConfigureMsg:
		wizard, err := a.session.Configure(msg.Index)
		if err != nil {
			a.err = err
			return a, nil
		}
		a.err = nil
		a.wizard = views.NewWizard(wizard, msg.Index)
		a.currentView = ViewWizard
		return a, nil

	case views.WizardDoneMsg:
		if wizard, ok := a.wizard.(views.Wizard); ok {
			a.err = a.session.FinishConfigure(msg.ModIndex, wizard.Session())
		}
		a.wizard = nil
		a.currentView = ViewMods
		return a.refresh(), nil

	case views.WizardCancelMsg:
		a.wizard = nil
		a.currentView = ViewMods
		return a, nil
	}

	return a.updateCurrentView(msg)
}

func (a App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The wizard owns the keyboard while it is open.
	if a.currentView == ViewWizard {
		return a.updateCurrentView(msg)
	}

	switch {
	case a.keys.IsQuit(msg):
		return a, tea.Quit
	}

	switch msg.String() {
	case "1":
		a.currentView = ViewMods
		return a, nil
	case "2":
		a.currentView = ViewPlugins
		return a, nil
	case "r":
		a.err = a.session.Refresh()
		return a.refresh(), nil
	case "s":
		if a.currentView == ViewPlugins {
			a.session.SortPlugins()
			return a.refresh(), nil
		}
	}

	return a.updateCurrentView(msg)
}

func (a App) updateCurrentView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var model tea.Model

	switch a.currentView {
	case ViewMods:
		model, cmd = a.mods.Update(msg)
		a.mods = model.(views.ModList)
	case ViewPlugins:
		model, cmd = a.plugins.Update(msg)
		a.plugins = model.(views.ModList)
	case ViewWizard:
		if a.wizard != nil {
			a.wizard, cmd = a.wizard.Update(msg)
		}
	}

	return a, cmd
}

// View implements tea.Model
func (a App) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	activeTabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	header := titleStyle.Render(fmt.Sprintf("omm - %s", a.session.Game().Name))

	tabs := []string{"[1]Mods", "[2]Plugins"}
	tabBar := ""
	for i, tab := range tabs {
		if ViewType(i) == a.currentView {
			tabBar += activeTabStyle.Render(tab) + "  "
		} else {
			tabBar += tabStyle.Render(tab) + "  "
		}
	}
	if a.session.Pending() {
		tabBar += tabStyle.Render("(uncommitted changes)")
	}

	content := a.renderCurrentView()

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)
	footer := footerStyle.Render("q: quit  r: refresh  1/2: switch list")

	if a.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		footer = errStyle.Render(fmt.Sprintf("Error: %v", a.err)) + "\n" + footer
	} else if a.status != "" {
		footer = footerStyle.Render(a.status) + "\n" + footer
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", header, tabBar, content, footer)
}

func (a App) renderCurrentView() string {
	switch a.currentView {
	case ViewPlugins:
		return a.plugins.View()
	case ViewWizard:
		if a.wizard != nil {
			return a.wizard.View()
		}
		return "No wizard open."
	default:
		return a.mods.View()
	}
}

func (a App) kind() core.Kind {
	if a.currentView == ViewPlugins {
		return core.KindPlugin
	}
	return core.KindMod
}

func (a *App) toggle(index int) {
	kind := a.kind()

	var enabled bool
	switch kind {
	case core.KindPlugin:
		if index < 0 || index >= len(a.session.Plugins) {
			return
		}
		enabled = a.session.Plugins[index].Enabled
	default:
		if index < 0 || index >= len(a.session.Mods) {
			return
		}
		enabled = a.session.Mods[index].Enabled
	}

	if enabled {
		a.err = a.session.Deactivate(kind, index)
	} else {
		a.err = a.session.Activate(kind, index)
	}
}

// refresh rebuilds both list views from the session state.
func (a App) refresh() App {
	a.mods = a.mods.SetRows(a.modRows())
	a.plugins = a.plugins.SetRows(a.pluginRows())
	return a
}

func (a App) modRows() []views.Row {
	rows := make([]views.Row, 0, len(a.session.Mods))
	for _, mod := range a.session.Mods {
		rows = append(rows, views.Row{
			Name:       mod.Name,
			Enabled:    mod.Enabled,
			Conflict:   mod.Conflict,
			Obsolete:   mod.Obsolete,
			Fomod:      mod.Fomod,
			Configured: mod.Configured(),
		})
	}
	return rows
}

func (a App) pluginRows() []views.Row {
	rows := make([]views.Row, 0, len(a.session.Plugins))
	for _, plugin := range a.session.Plugins {
		rows = append(rows, views.Row{
			Name:     plugin.Name,
			Enabled:  plugin.Enabled,
			Conflict: plugin.Conflict,
		})
	}
	return rows
}

// Run starts the TUI application
func Run(session *core.Session, keybindings string) error {
	app := NewApp(session, keybindings)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
