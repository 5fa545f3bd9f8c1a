package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Sort plugins to follow mod priority",
	Long: `Reorder the plugin list so plugins follow their owning mod's
priority, with master files (.esm, .esl) hoisted ahead of regular
plugins and base-game entries first of all.`,
	Args: cobra.NoArgs,
	RunE: runSort,
}

func init() {
	rootCmd.AddCommand(sortCmd)
}

func runSort(cmd *cobra.Command, args []string) error {
	session, closer, err := openSession()
	if err != nil {
		return err
	}
	defer closer()

	session.SortPlugins()
	if err := session.Save(); err != nil {
		return err
	}

	fmt.Printf("Sorted %d plugin(s).\n", len(session.Plugins))
	return nil
}
