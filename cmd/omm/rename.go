package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <index> <new-name>",
	Short: "Rename a mod",
	Long: `Rename the mod at the given index on disk and update every
reference to it, then re-commit so the deployed links stay valid.

Names may only contain alphanumeric characters and underscores.

Example:
  omm rename 3 Static_Mesh_Improvement_Mod`,
	Args: cobra.ExactArgs(2),
	RunE: runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	session, closer, err := openSession()
	if err != nil {
		return err
	}
	defer closer()

	if err := session.Rename(index, args[1]); err != nil {
		return err
	}

	fmt.Printf("Renamed to %s.\n", args[1])
	return nil
}
