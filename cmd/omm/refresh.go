package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-scan mods and orders from disk",
	Long: `Discard in-memory state and re-scan the mods directory and both
order files. Mods added or removed outside omm show up after a
refresh.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	session, closer, err := openSession()
	if err != nil {
		return err
	}
	defer closer()

	if err := session.Refresh(); err != nil {
		return err
	}
	if err := session.Save(); err != nil {
		return err
	}

	fmt.Printf("Found %d mod(s) and %d plugin(s).\n", len(session.Mods), len(session.Plugins))
	return nil
}
