package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

type conflictsJSONOutput struct {
	GameID    string         `json:"game_id"`
	Mod       string         `json:"mod"`
	Conflicts []conflictJSON `json:"conflicts"`
}

type conflictJSON struct {
	Path      string   `json:"path"`
	Providers []string `json:"providers"`
	Winner    string   `json:"winner"`
}

var conflictsCmd = &cobra.Command{
	Use:   "conflicts <index>",
	Short: "Show a mod's file conflicts",
	Long: `Display every staged destination the mod at the given index
contests with other enabled mods. Providers are listed in ascending
priority order; the last one wins.

Examples:
  omm conflicts --game skyrim 3
  omm conflicts --game skyrim 3 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runConflicts,
}

func init() {
	rootCmd.AddCommand(conflictsCmd)
}

func runConflicts(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}

	session, closer, err := openSession()
	if err != nil {
		return err
	}
	defer closer()

	report, err := session.Collisions(index)
	if err != nil {
		return err
	}

	paths := make([]string, 0, len(report))
	for path := range report {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	if jsonOutput {
		out := conflictsJSONOutput{
			GameID:    gameID,
			Mod:       session.Mods[index].Name,
			Conflicts: []conflictJSON{},
		}
		for _, path := range paths {
			providers := report[path]
			out.Conflicts = append(out.Conflicts, conflictJSON{
				Path:      path,
				Providers: providers,
				Winner:    providers[len(providers)-1],
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(paths) == 0 {
		fmt.Println("No conflicts.")
		return nil
	}

	for _, path := range paths {
		providers := report[path]
		fmt.Println(path)
		for i, name := range providers {
			marker := " "
			if i == len(providers)-1 {
				marker = colorYellow("*")
			}
			fmt.Printf("  %s %s\n", marker, name)
		}
	}
	return nil
}
