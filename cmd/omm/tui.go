package main

import (
	"github.com/spf13/cobra"

	"omm/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive interface",
	Long: `Open the interactive terminal interface: browse mods and plugins,
toggle and reorder them, run installer wizards and commit, all in one
screen.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	session, closer, err := openSession()
	if err != nil {
		return err
	}
	defer closer()

	return tui.Run(session, session.Config().Keybindings)
}
