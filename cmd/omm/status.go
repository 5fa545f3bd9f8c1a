package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type statusJSONOutput struct {
	GameID     string `json:"game_id"`
	GameName   string `json:"game_name"`
	LinkMethod string `json:"link_method"`
	Mods       int    `json:"mods"`
	Enabled    int    `json:"enabled_mods"`
	Plugins    int    `json:"plugins"`
	Conflicts  int    `json:"conflicting_mods"`
	Staged     int    `json:"staged_files"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the state of a game's mod setup",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	session, closer, err := openSession()
	if err != nil {
		return err
	}
	defer closer()

	enabled, conflicts := 0, 0
	for _, mod := range session.Mods {
		if mod.Enabled {
			enabled++
		}
		if mod.Conflict {
			conflicts++
		}
	}

	if jsonOutput {
		out := statusJSONOutput{
			GameID:     gameID,
			GameName:   session.Game().Name,
			LinkMethod: session.Config().LinkMethod.String(),
			Mods:       len(session.Mods),
			Enabled:    enabled,
			Plugins:    len(session.Plugins),
			Conflicts:  conflicts,
			Staged:     len(session.Plan()),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	game := session.Game()
	fmt.Printf("Game:        %s (%s)\n", game.Name, game.ID)
	fmt.Printf("Directory:   %s\n", game.Directory)
	fmt.Printf("Link method: %s\n", session.Config().LinkMethod)
	fmt.Printf("Mods:        %d (%d enabled)\n", len(session.Mods), enabled)
	fmt.Printf("Plugins:     %d\n", len(session.Plugins))
	fmt.Printf("Staged:      %d file(s)\n", len(session.Plan()))
	if conflicts > 0 {
		fmt.Println(colorYellow(fmt.Sprintf("Conflicts:   %d mod(s); see 'omm conflicts <index>'", conflicts)))
	}
	return nil
}
