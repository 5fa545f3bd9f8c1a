package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"omm/internal/domain"
	"omm/internal/linker"
	"omm/internal/logging"
	"omm/internal/staging"
	"omm/internal/storage/config"
	"omm/internal/storage/db"
	"omm/internal/storage/loadorder"
)

// Kind selects which of the two ordered lists an operation targets.
type Kind int

const (
	KindMod Kind = iota
	KindPlugin
)

// Session holds the in-memory state for one game: the prioritized mod
// and plugin lists, the current overlay plan and the dirty flag. All
// mutations stay in memory until Commit writes them out.
type Session struct {
	game   *domain.Game
	cfg    *config.Config
	db     *db.DB
	linker linker.Linker
	logger zerolog.Logger

	Mods    []*domain.Mod
	Plugins []*domain.Plugin

	plan    staging.Plan
	changes bool
}

// NewSession loads the session state for game from disk.
func NewSession(game *domain.Game, cfg *config.Config, database *db.DB) (*Session, error) {
	s := &Session{
		game:   game,
		cfg:    cfg,
		db:     database,
		linker: linker.New(cfg.LinkMethod),
		logger: logging.GetLogger("session").With().Str("game", game.ID).Logger(),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Game returns the game this session manages.
func (s *Session) Game() *domain.Game {
	return s.game
}

// Config returns the application configuration in effect.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// Pending reports whether uncommitted changes exist.
func (s *Session) Pending() bool {
	return s.changes
}

// Plan returns the current overlay plan.
func (s *Session) Plan() staging.Plan {
	return s.plan
}

// Refresh discards in-memory state and reloads everything from disk.
func (s *Session) Refresh() error {
	return s.load()
}

// load scans the mods directory, merges the scan with the persisted mod
// order, rebuilds the plugin list and recomputes the overlay plan.
func (s *Session) load() error {
	scanned, err := s.scanMods()
	if err != nil {
		return err
	}

	order, err := loadorder.Load(s.game.ConfFile, false)
	if err != nil {
		return err
	}

	// Persisted order first; mods on disk but not in the order file are
	// appended disabled at the lowest priority end.
	s.Mods = nil
	for _, entry := range order {
		if mod, ok := scanned[strings.ToLower(entry.Name)]; ok {
			mod.Enabled = entry.Enabled
			s.Mods = append(s.Mods, mod)
			delete(scanned, strings.ToLower(entry.Name))
		}
	}
	var extra []string
	for key := range scanned {
		extra = append(extra, key)
	}
	sort.Strings(extra)
	for _, key := range extra {
		s.Mods = append(s.Mods, scanned[key])
	}

	if err := s.loadPlugins(); err != nil {
		return err
	}

	s.refreshStage()
	s.changes = false

	s.logger.Debug().
		Int("mods", len(s.Mods)).
		Int("plugins", len(s.Plugins)).
		Msg("session loaded")
	return nil
}

// scanMods builds a mod per directory under the game's mods dir, keyed
// by lowercased name.
func (s *Session) scanMods() (map[string]*domain.Mod, error) {
	mods := make(map[string]*domain.Mod)

	entries, err := os.ReadDir(s.game.ModsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return mods, nil
		}
		return nil, fmt.Errorf("scanning mods directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		mod := domain.NewMod(filepath.Join(s.game.ModsDir, entry.Name()), s.game)
		mods[strings.ToLower(mod.Name)] = mod
	}
	return mods, nil
}

// loadPlugins merges the persisted plugin order with the plugins the
// current mod list provides. Persisted entries survive with their
// enabled state as long as an enabled mod still provides them or they
// belong to the base game; newly provided plugins are appended
// disabled.
func (s *Session) loadPlugins() error {
	persisted, err := loadorder.Load(s.game.PluginFile, s.game.InvertedMarker)
	if err != nil {
		return err
	}

	dlc := make(map[string]bool)
	dlcEntries, err := loadorder.Load(s.game.DLCFile, false)
	if err != nil {
		return err
	}
	for _, entry := range dlcEntries {
		dlc[strings.ToLower(entry.Name)] = true
	}

	s.Plugins = nil
	seen := make(map[string]bool)
	for _, entry := range persisted {
		key := strings.ToLower(entry.Name)
		if seen[key] {
			continue
		}
		owner := s.pluginOwner(entry.Name)
		if owner == "" && !dlc[key] {
			continue // stale entry, provider is gone
		}
		enabled := entry.Enabled
		if owner != "" && !s.modEnabled(owner) {
			// A hand-edited plugin file may mark this enabled; the
			// owning mod being disabled wins.
			enabled = false
		}
		seen[key] = true
		s.Plugins = append(s.Plugins, &domain.Plugin{
			Name:    entry.Name,
			Owner:   owner,
			Enabled: enabled,
		})
	}

	for _, mod := range s.Mods {
		if !mod.Enabled {
			continue
		}
		for _, name := range mod.Plugins {
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			s.Plugins = append(s.Plugins, &domain.Plugin{
				Name:  name,
				Owner: s.pluginOwner(name),
			})
		}
	}

	// Base-game content that was never in the plugin file shows up as
	// disabled, ownerless entries so it can be enabled and ordered.
	for _, entry := range dlcEntries {
		key := strings.ToLower(entry.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		s.Plugins = append(s.Plugins, &domain.Plugin{Name: entry.Name})
	}
	return nil
}

// pluginOwner resolves which mod provides the named plugin. The highest
// priority enabled provider wins, matching the overlay rule; with no
// enabled provider the highest priority disabled one is reported so the
// entry keeps a traceable owner.
func (s *Session) pluginOwner(name string) string {
	for i := len(s.Mods) - 1; i >= 0; i-- {
		if s.Mods[i].Enabled && s.Mods[i].HasPlugin(name) {
			return s.Mods[i].Name
		}
	}
	for i := len(s.Mods) - 1; i >= 0; i-- {
		if s.Mods[i].HasPlugin(name) {
			return s.Mods[i].Name
		}
	}
	return ""
}

// refreshStage recomputes the overlay plan, the derived mod flags, the
// plugin conflict flags and plugin ownership. Runs after every mutation.
func (s *Session) refreshStage() {
	s.plan = staging.Stage(s.game, s.Mods)
	staging.PluginConflicts(s.Mods, s.Plugins)
	for _, plugin := range s.Plugins {
		owner := s.pluginOwner(plugin.Name)
		if owner != "" {
			plugin.Owner = owner
		}
	}
}

// Collisions reports, for the mod at index, every staged destination
// contested by more than one enabled mod, with the providers listed in
// ascending priority order (the last one wins).
func (s *Session) Collisions(index int) (map[string][]string, error) {
	if index < 0 || index >= len(s.Mods) {
		return nil, domain.ErrInvalidIndex
	}
	target := s.Mods[index]

	providers := staging.Providers(s.game, s.Mods)

	report := make(map[string][]string)
	for dest, names := range providers {
		if len(names) < 2 {
			continue
		}
		for _, name := range names {
			if name == target.Name {
				report[dest] = names
				break
			}
		}
	}
	return report, nil
}
