package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"omm/internal/core"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <mod|plugin> <index>",
	Short: "Delete a mod or a plugin entry",
	Long: `Delete the entry at the given priority index. Deleting a mod
deactivates it, removes its private file tree and re-commits so its
overlay files disappear from the game directory; deleting a plugin
only drops it from the load order.

Deleting a mod cannot be undone.

Examples:
  omm delete mod 3 --yes
  omm delete plugin 0`,
	Args: cobra.ExactArgs(2),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	index, err := parseIndex(args[1])
	if err != nil {
		return err
	}

	session, closer, err := openSession()
	if err != nil {
		return err
	}
	defer closer()

	var name string
	switch kind {
	case core.KindPlugin:
		if index < 0 || index >= len(session.Plugins) {
			return fmt.Errorf("no plugin at index %d", index)
		}
		name = session.Plugins[index].Name
	default:
		if index < 0 || index >= len(session.Mods) {
			return fmt.Errorf("no mod at index %d", index)
		}
		name = session.Mods[index].Name

		if !deleteYes && !confirm(fmt.Sprintf("Delete %s and all of its files?", name)) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := session.Delete(kind, index); err != nil {
		return err
	}
	if kind == core.KindPlugin {
		if err := session.Save(); err != nil {
			return err
		}
	}

	fmt.Printf("Deleted %s.\n", name)
	return nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}
