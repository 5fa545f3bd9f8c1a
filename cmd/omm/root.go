package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"omm/internal/core"
	"omm/internal/logging"
	"omm/internal/storage/config"
)

var (
	version = "0.3.0"

	// Global flags
	configDir  string
	dataDir    string
	gameID     string
	verbosity  int
	jsonOutput bool
	noColor    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "omm",
	Short: "omm - overlay mod manager",
	Long: `omm manages prioritized mod overlays for games: mods are kept in
private file trees and linked into the game directory in priority
order, so the game directory itself stays untouched.

Use subcommands for operations, or 'omm tui' for the interactive
interface. Run 'omm --help' for available commands.`,
	Version:       version,
	SilenceUsage:  true, // Runtime errors should not print usage
	SilenceErrors: true, // We handle error output in Execute()
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbosity)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default: ~/.config/omm)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default: ~/.local/share/omm)")
	rootCmd.PersistentFlags().StringVarP(&gameID, "game", "g", "", "game ID to operate on")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format (list, status, conflicts)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// colorEnabled returns true if colored output should be used (respects --no-color and NO_COLOR env).
func colorEnabled() bool {
	if noColor {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return true
}

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
)

// colorRed returns s with red ANSI when color is enabled, otherwise s.
func colorRed(s string) string {
	if !colorEnabled() {
		return s
	}
	return ansiRed + s + ansiReset
}

// colorYellow returns s with yellow ANSI when color is enabled, otherwise s.
func colorYellow(s string) string {
	if !colorEnabled() {
		return s
	}
	return ansiYellow + s + ansiReset
}

// Execute runs the root command. Exit codes: 0 = success, 1 = error.
// When --json is set and an error occurs, prints {"error":"..."} to stdout.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if jsonOutput {
			fmt.Printf(`{"error":%q}`+"\n", err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "%s\n", colorRed(fmt.Sprintf("Error: %v", err)))
		}
		os.Exit(1)
	}
}

// getServiceConfig returns the service configuration with defaults.
func getServiceConfig() core.ServiceConfig {
	cfg := core.ServiceConfig{
		ConfigDir: configDir,
		DataDir:   dataDir,
	}
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = config.DefaultConfigDir()
	}
	if cfg.DataDir == "" {
		cfg.DataDir = config.DefaultDataDir()
	}
	return cfg
}

// initService creates and initializes the core service
func initService() (*core.Service, error) {
	cfg := getServiceConfig()

	if err := os.MkdirAll(cfg.ConfigDir, 0755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	return core.NewService(cfg)
}

// requireGame ensures a game is specified, checking config for a default
// if the flag is absent.
func requireGame() error {
	if gameID != "" {
		return nil
	}

	cfg, err := config.Load(getServiceConfig().ConfigDir)
	if err == nil && cfg.DefaultGame != "" {
		gameID = cfg.DefaultGame
		return nil
	}

	return fmt.Errorf("no game specified; use --game or -g, or set default_game in config.yaml")
}

// openSession initializes the service and opens a session for the
// selected game. The returned closer shuts the service down.
func openSession() (*core.Session, func(), error) {
	if err := requireGame(); err != nil {
		return nil, nil, err
	}

	service, err := initService()
	if err != nil {
		return nil, nil, fmt.Errorf("initializing service: %w", err)
	}

	session, err := service.Session(gameID)
	if err != nil {
		service.Close()
		return nil, nil, err
	}

	return session, func() { _ = service.Close() }, nil
}
