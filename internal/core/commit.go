package core

import (
	"errors"
	"fmt"
	"os"

	"omm/internal/domain"
	"omm/internal/linker"
	"omm/internal/storage/loadorder"
)

// Collision records one destination Commit could not deploy because an
// unmanaged file already sits there. Collisions are warnings, not
// failures; the rest of the plan still deploys.
type Collision struct {
	Dest    string
	ModName string
}

// Commit makes the filesystem agree with the session: it persists both
// orders, tears down the previously deployed links and deploys the
// current overlay plan. Pre-existing unmanaged files are never
// clobbered; they come back as collision warnings instead.
func (s *Session) Commit() ([]Collision, error) {
	if err := s.saveOrders(); err != nil {
		return nil, err
	}

	s.refreshStage()

	if err := s.undeployAll(); err != nil {
		return nil, err
	}

	var collisions []Collision
	for _, dest := range s.plan.Destinations() {
		entry := s.plan[dest]
		err := s.linker.Deploy(entry.Source, dest)
		if errors.Is(err, domain.ErrDestinationExists) {
			collisions = append(collisions, Collision{Dest: dest, ModName: entry.ModName})
			continue
		}
		if err != nil {
			return collisions, fmt.Errorf("deploying %s: %w", dest, err)
		}
		if err := s.db.SaveLink(s.game.ID, dest, entry.ModName, entry.Source); err != nil {
			return collisions, fmt.Errorf("recording link: %w", err)
		}
	}

	s.changes = false

	s.logger.Info().
		Int("deployed", len(s.plan)-len(collisions)).
		Int("collisions", len(collisions)).
		Msg("committed")
	return collisions, nil
}

// Save persists the current order and enabled flags without touching
// the deployed overlay. The filesystem catches up on the next Commit.
func (s *Session) Save() error {
	return s.saveOrders()
}

// saveOrders writes both ordering files.
func (s *Session) saveOrders() error {
	modEntries := make([]loadorder.Entry, 0, len(s.Mods))
	for _, mod := range s.Mods {
		modEntries = append(modEntries, loadorder.Entry{Name: mod.Name, Enabled: mod.Enabled})
	}
	if err := loadorder.Save(s.game.ConfFile, modEntries, false); err != nil {
		return err
	}

	// Games without a plugin system have no plugin file to write.
	if s.game.PluginFile == "" {
		return nil
	}
	pluginEntries := make([]loadorder.Entry, 0, len(s.Plugins))
	for _, plugin := range s.Plugins {
		pluginEntries = append(pluginEntries, loadorder.Entry{Name: plugin.Name, Enabled: plugin.Enabled})
	}
	return loadorder.Save(s.game.PluginFile, pluginEntries, s.game.InvertedMarker)
}

// undeployAll removes every link the database says we deployed last
// time and prunes the directories that emptied out. Links that
// disappeared out from under us are skipped silently.
func (s *Session) undeployAll() error {
	links, err := s.db.Links(s.game.ID)
	if err != nil {
		return fmt.Errorf("loading committed links: %w", err)
	}

	for _, link := range links {
		if err := s.undeployLink(link.Dest); err != nil {
			return err
		}
	}
	linker.CleanupEmptyDirs(s.game.Directory)

	return s.db.DeleteLinks(s.game.ID)
}

// undeployLink removes one recorded link. A destination that vanished
// or was replaced out-of-band with a file we did not deploy is no
// longer ours to manage, so it is skipped rather than aborting the
// whole commit.
func (s *Session) undeployLink(dest string) error {
	err := s.linker.Undeploy(dest)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	case errors.Is(err, domain.ErrNotManaged):
		s.logger.Warn().Str("dest", dest).Msg("skipping foreign file at recorded link")
		return nil
	default:
		return fmt.Errorf("removing %s: %w", dest, err)
	}
}

// undeployMod removes only the named mod's deployed links, ahead of a
// rename. The follow-up commit rebuilds the full overlay.
func (s *Session) undeployMod(name string) error {
	links, err := s.db.LinksForMod(s.game.ID, name)
	if err != nil {
		return fmt.Errorf("loading committed links: %w", err)
	}
	for _, link := range links {
		if err := s.undeployLink(link.Dest); err != nil {
			return err
		}
	}
	linker.CleanupEmptyDirs(s.game.Directory)
	return nil
}
