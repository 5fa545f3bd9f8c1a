package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"omm/internal/domain"

	"gopkg.in/yaml.v3"
)

// GameConfig is the YAML representation of a game
type GameConfig struct {
	Name           string `yaml:"name"`
	Directory      string `yaml:"directory"`
	Data           string `yaml:"data"`
	PluginFile     string `yaml:"plugin_file"`
	DLCFile        string `yaml:"dlc_file"`
	InvertedMarker bool   `yaml:"inverted_marker"`
}

// GamesFile is the top-level games.yaml structure
type GamesFile struct {
	Games map[string]GameConfig `yaml:"games"`
}

// LoadGames reads all game configurations from the config directory.
// Bookkeeping paths the config omits (mods dir, order file) default to
// per-game directories below dataDir.
func LoadGames(configDir, dataDir string) (map[string]*domain.Game, error) {
	gamesPath := filepath.Join(configDir, "games.yaml")
	data, err := os.ReadFile(gamesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]*domain.Game), nil
		}
		return nil, fmt.Errorf("reading games.yaml: %w", err)
	}

	var gamesFile GamesFile
	if err := yaml.Unmarshal(data, &gamesFile); err != nil {
		return nil, fmt.Errorf("parsing games.yaml: %w", err)
	}

	games := make(map[string]*domain.Game)
	for id, cfg := range gamesFile.Games {
		gameData := cfg.Data
		if gameData == "" {
			gameData = filepath.Join(cfg.Directory, "Data")
		}
		home := filepath.Join(dataDir, id)
		games[id] = &domain.Game{
			ID:             id,
			Name:           cfg.Name,
			Directory:      cfg.Directory,
			Data:           gameData,
			PluginFile:     cfg.PluginFile,
			DLCFile:        cfg.DLCFile,
			ModsDir:        filepath.Join(home, "mods"),
			ConfFile:       filepath.Join(home, "omm.conf"),
			InvertedMarker: cfg.InvertedMarker,
		}
	}

	return games, nil
}

// SaveGame adds or updates a game in games.yaml
func SaveGame(configDir string, game *domain.Game) error {
	gamesPath := filepath.Join(configDir, "games.yaml")

	var gamesFile GamesFile
	data, err := os.ReadFile(gamesPath)
	if err == nil {
		if err := yaml.Unmarshal(data, &gamesFile); err != nil {
			return fmt.Errorf("parsing games.yaml: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading games.yaml: %w", err)
	}
	if gamesFile.Games == nil {
		gamesFile.Games = make(map[string]GameConfig)
	}

	gamesFile.Games[game.ID] = GameConfig{
		Name:           game.Name,
		Directory:      game.Directory,
		Data:           game.Data,
		PluginFile:     game.PluginFile,
		DLCFile:        game.DLCFile,
		InvertedMarker: game.InvertedMarker,
	}

	out, err := yaml.Marshal(&gamesFile)
	if err != nil {
		return fmt.Errorf("marshaling games: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	if err := os.WriteFile(gamesPath, out, 0644); err != nil {
		return fmt.Errorf("writing games.yaml: %w", err)
	}

	return nil
}
