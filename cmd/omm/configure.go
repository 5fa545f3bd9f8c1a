package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"omm/internal/core"
	"omm/internal/tui/views"
)

var configureCmd = &cobra.Command{
	Use:   "configure <index>",
	Short: "Run a mod's installer wizard",
	Long: `Open the installer wizard for the mod at the given index and write
the selected files into the mod's wizard output tree. The mod can be
enabled once the wizard completes.

Example:
  omm configure 3`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

// wizardModel adapts the wizard view to a standalone program: it quits
// on completion or cancellation and remembers which one happened.
type wizardModel struct {
	wizard views.Wizard
	done   bool
}

func (m wizardModel) Init() tea.Cmd {
	return nil
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case views.WizardDoneMsg:
		m.done = true
		return m, tea.Quit
	case views.WizardCancelMsg:
		return m, tea.Quit
	}

	model, cmd := m.wizard.Update(msg)
	m.wizard = model.(views.Wizard)
	return m, cmd
}

func (m wizardModel) View() string {
	return m.wizard.View()
}

func runConfigure(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	session, closer, err := openSession()
	if err != nil {
		return err
	}
	defer closer()

	return configureInteractive(session, index)
}

func configureInteractive(session *core.Session, index int) error {
	wizard, err := session.Configure(index)
	if err != nil {
		return err
	}

	p := tea.NewProgram(wizardModel{wizard: views.NewWizard(wizard, index)}, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}

	model := final.(wizardModel)
	if !model.done {
		fmt.Println("Aborted.")
		return nil
	}

	if err := session.FinishConfigure(index, wizard); err != nil {
		return err
	}
	if err := session.Save(); err != nil {
		return err
	}

	fmt.Printf("Configured %s.\n", session.Mods[index].Name)
	return nil
}
