package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type listJSONOutput struct {
	GameID  string           `json:"game_id"`
	Pending bool             `json:"pending_changes"`
	Mods    []listModJSON    `json:"mods"`
	Plugins []listPluginJSON `json:"plugins"`
}

type listModJSON struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Enabled  bool   `json:"enabled"`
	Conflict bool   `json:"conflict"`
	Obsolete bool   `json:"obsolete"`
	Fomod    bool   `json:"fomod"`
}

type listPluginJSON struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Owner    string `json:"owner,omitempty"`
	Enabled  bool   `json:"enabled"`
	Conflict bool   `json:"conflict"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List mods and plugins in priority order",
	Long: `List the game's mods and plugins in ascending priority order.
Higher indexes win file conflicts.

A '*' in the FLAGS column marks a destination conflict with another
enabled mod; an 'x' marks an obsolete mod whose files are all shadowed.

Examples:
  omm list --game skyrim
  omm list --game skyrim --json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	session, closer, err := openSession()
	if err != nil {
		return err
	}
	defer closer()

	if jsonOutput {
		out := listJSONOutput{
			GameID:  gameID,
			Pending: session.Pending(),
			Mods:    []listModJSON{},
			Plugins: []listPluginJSON{},
		}
		for i, mod := range session.Mods {
			out.Mods = append(out.Mods, listModJSON{
				Index:    i,
				Name:     mod.Name,
				Enabled:  mod.Enabled,
				Conflict: mod.Conflict,
				Obsolete: mod.Obsolete,
				Fomod:    mod.Fomod,
			})
		}
		for i, plugin := range session.Plugins {
			out.Plugins = append(out.Plugins, listPluginJSON{
				Index:    i,
				Name:     plugin.Name,
				Owner:    plugin.Owner,
				Enabled:  plugin.Enabled,
				Conflict: plugin.Conflict,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(session.Mods) == 0 {
		fmt.Println("No mods installed.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tENABLED\tFLAGS\tNAME")
	for i, mod := range session.Mods {
		flags := ""
		if mod.Conflict {
			flags += "*"
		}
		if mod.Obsolete {
			flags += "x"
		}
		name := mod.Name
		if mod.Fomod && !mod.Configured() {
			name += " (unconfigured)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, yesNo(mod.Enabled), flags, name)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(session.Plugins) > 0 {
		fmt.Println()
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "INDEX\tENABLED\tFLAGS\tPLUGIN\tOWNER")
		for i, plugin := range session.Plugins {
			flags := ""
			if plugin.Conflict {
				flags += "*"
			}
			owner := plugin.Owner
			if owner == "" {
				owner = "(base game)"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i, yesNo(plugin.Enabled), flags, plugin.Name, owner)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
