package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move <mod|plugin> <from> <to>",
	Short: "Change an entry's priority",
	Long: `Move the mod or plugin at index <from> to index <to>, renumbering
everything between. Higher indexes win file conflicts. A target past
the end of the list clamps to the end.

Examples:
  omm move mod 0 5
  omm move plugin 2 0`,
	Args: cobra.ExactArgs(3),
	RunE: runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	from, err := parseIndex(args[1])
	if err != nil {
		return err
	}
	to, err := parseIndex(args[2])
	if err != nil {
		return err
	}

	session, closer, err := openSession()
	if err != nil {
		return err
	}
	defer closer()

	if err := session.Move(kind, from, to); err != nil {
		return err
	}
	if err := session.Save(); err != nil {
		return err
	}

	fmt.Println("Saved. Run 'omm commit' to apply the change to the game directory.")
	return nil
}
