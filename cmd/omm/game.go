package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"omm/internal/domain"
)

var (
	gameName     string
	gamePath     string
	gameData     string
	gamePlugins  string
	gameDLC      string
	gameInverted bool
)

var gameCmd = &cobra.Command{
	Use:   "game",
	Short: "Manage configured games",
}

var gameListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured games",
	Args:  cobra.NoArgs,
	RunE:  runGameList,
}

var gameAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Register a game",
	Long: `Register a game installation so its mods can be managed.

Examples:
  omm game add skyrim --name "Skyrim Special Edition" \
    --path ~/games/skyrim-se \
    --plugin-file ~/games/skyrim-se/Plugins.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runGameAdd,
}

func init() {
	gameAddCmd.Flags().StringVar(&gameName, "name", "", "display name (required)")
	gameAddCmd.Flags().StringVar(&gamePath, "path", "", "game installation directory (required)")
	gameAddCmd.Flags().StringVar(&gameData, "data", "", "data directory (default: <path>/Data)")
	gameAddCmd.Flags().StringVar(&gamePlugins, "plugin-file", "", "plugin load-order file")
	gameAddCmd.Flags().StringVar(&gameDLC, "dlc-file", "", "base-game content list file")
	gameAddCmd.Flags().BoolVar(&gameInverted, "inverted-marker", false, "plugin file marks disabled lines instead of enabled ones")
	_ = gameAddCmd.MarkFlagRequired("name")
	_ = gameAddCmd.MarkFlagRequired("path")

	gameCmd.AddCommand(gameListCmd)
	gameCmd.AddCommand(gameAddCmd)
	rootCmd.AddCommand(gameCmd)
}

func runGameList(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return err
	}
	defer service.Close()

	games := service.Games()
	if len(games) == 0 {
		fmt.Println("No games configured. Add one with 'omm game add'.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDIRECTORY")
	for _, game := range games {
		fmt.Fprintf(w, "%s\t%s\t%s\n", game.ID, game.Name, game.Directory)
	}
	return w.Flush()
}

func runGameAdd(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return err
	}
	defer service.Close()

	directory, err := filepath.Abs(gamePath)
	if err != nil {
		return err
	}
	data := gameData
	if data == "" {
		data = filepath.Join(directory, "Data")
	}

	game := &domain.Game{
		ID:             args[0],
		Name:           gameName,
		Directory:      directory,
		Data:           data,
		PluginFile:     gamePlugins,
		DLCFile:        gameDLC,
		InvertedMarker: gameInverted,
	}
	if err := service.AddGame(game); err != nil {
		return err
	}

	fmt.Printf("Added %s (%s).\n", game.Name, game.ID)
	return nil
}
