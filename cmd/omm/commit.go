package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Apply the mod order to the game directory",
	Long: `Make the game directory agree with the saved mod order: both order
files are written, last commit's links are removed and the current
overlay plan is deployed in priority order.

Files in the game directory that omm does not manage are never
overwritten; they are reported as collisions instead.`,
	Args: cobra.NoArgs,
	RunE: runCommit,
}

func init() {
	rootCmd.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	session, closer, err := openSession()
	if err != nil {
		return err
	}
	defer closer()

	collisions, err := session.Commit()
	if err != nil {
		return err
	}

	fmt.Printf("Committed %d file(s) for %s.\n", len(session.Plan())-len(collisions), session.Game().Name)
	printCollisions(collisions)
	return nil
}
