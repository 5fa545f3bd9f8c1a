// Package core orchestrates mod management: it owns the per-game
// session state and drives staging, wizard configuration and commits.
package core

import (
	"fmt"
	"path/filepath"
	"sort"

	"omm/internal/domain"
	"omm/internal/storage/config"
	"omm/internal/storage/db"
)

// ServiceConfig holds configuration for the core service
type ServiceConfig struct {
	ConfigDir string // Directory for configuration files
	DataDir   string // Directory for database, mod trees and order files
}

// Service is the entry point for mod management operations
type Service struct {
	config *config.Config
	db     *db.DB
	games  map[string]*domain.Game

	configDir string
	dataDir   string
}

// NewService creates a new core service instance
func NewService(cfg ServiceConfig) (*Service, error) {
	appConfig, err := config.Load(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "omm.db")
	database, err := db.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	games, err := config.LoadGames(cfg.ConfigDir, cfg.DataDir)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("loading games: %w", err)
	}

	return &Service{
		config:    appConfig,
		db:        database,
		games:     games,
		configDir: cfg.ConfigDir,
		dataDir:   cfg.DataDir,
	}, nil
}

// Close releases resources held by the service
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Config returns the loaded application configuration.
func (s *Service) Config() *config.Config {
	return s.config
}

// Game retrieves a configured game by ID
func (s *Service) Game(id string) (*domain.Game, error) {
	game, ok := s.games[id]
	if !ok {
		return nil, fmt.Errorf("game %q is not configured", id)
	}
	return game, nil
}

// Games returns all configured games sorted by ID.
func (s *Service) Games() []*domain.Game {
	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	games := make([]*domain.Game, 0, len(ids))
	for _, id := range ids {
		games = append(games, s.games[id])
	}
	return games
}

// AddGame registers a game and persists it to games.yaml
func (s *Service) AddGame(game *domain.Game) error {
	if err := config.SaveGame(s.configDir, game); err != nil {
		return err
	}
	s.games[game.ID] = game
	return nil
}

// Session opens a mod management session for the given game.
func (s *Service) Session(gameID string) (*Session, error) {
	game, err := s.Game(gameID)
	if err != nil {
		return nil, err
	}
	return NewSession(game, s.config, s.db)
}
