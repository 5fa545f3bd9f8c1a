package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var activateCmd = &cobra.Command{
	Use:   "activate <mod|plugin> <index>",
	Short: "Enable a mod or plugin",
	Long: `Enable the mod or plugin at the given priority index.

The change is saved to the order file immediately but the game
directory is only touched by 'omm commit'.

Examples:
  omm activate mod 3
  omm activate plugin 0`,
	Args: cobra.ExactArgs(2),
	RunE: runActivate,
}

var deactivateCmd = &cobra.Command{
	Use:   "deactivate <mod|plugin> <index>",
	Short: "Disable a mod or plugin",
	Long: `Disable the mod or plugin at the given priority index. Disabling a
mod also disables the plugins it provides.

Examples:
  omm deactivate mod 3
  omm deactivate plugin 0`,
	Args: cobra.ExactArgs(2),
	RunE: runDeactivate,
}

func init() {
	rootCmd.AddCommand(activateCmd)
	rootCmd.AddCommand(deactivateCmd)
}

func runActivate(cmd *cobra.Command, args []string) error {
	return runToggle(args, true)
}

func runDeactivate(cmd *cobra.Command, args []string) error {
	return runToggle(args, false)
}

func runToggle(args []string, enable bool) error {
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

	if enable {
		err = session.Activate(kind, index)
	} else {
		err = session.Deactivate(kind, index)
	}
	if err != nil {
		return err
	}

	if err := session.Save(); err != nil {
		return err
	}

	fmt.Println("Saved. Run 'omm commit' to apply the change to the game directory.")
	return nil
}
