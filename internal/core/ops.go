package core

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"omm/internal/domain"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Activate enables the entry at index. Enabling a mod that ships an
// unconfigured installer descriptor and enabling a plugin whose owning
// mod is disabled are both rejected.
func (s *Session) Activate(kind Kind, index int) error {
	switch kind {
	case KindPlugin:
		if index < 0 || index >= len(s.Plugins) {
			return domain.ErrInvalidIndex
		}
		plugin := s.Plugins[index]
		if plugin.Owned() && !s.modEnabled(plugin.Owner) {
			return fmt.Errorf("enabling %s: %w", plugin.Name, domain.ErrOwnerDisabled)
		}
		plugin.Enabled = true
	default:
		if index < 0 || index >= len(s.Mods) {
			return domain.ErrInvalidIndex
		}
		mod := s.Mods[index]
		if mod.Fomod && !mod.Configured() {
			return fmt.Errorf("enabling %s: %w", mod.Name, domain.ErrUnconfigured)
		}
		mod.Enabled = true
		s.adoptPlugins(mod)
	}

	s.changes = true
	s.refreshStage()
	return nil
}

// Deactivate disables the entry at index. Disabling a mod also drops
// its plugins from the load order unless another enabled mod still
// provides them.
func (s *Session) Deactivate(kind Kind, index int) error {
	switch kind {
	case KindPlugin:
		if index < 0 || index >= len(s.Plugins) {
			return domain.ErrInvalidIndex
		}
		s.Plugins[index].Enabled = false
	default:
		if index < 0 || index >= len(s.Mods) {
			return domain.ErrInvalidIndex
		}
		mod := s.Mods[index]
		mod.Enabled = false
		s.dropOrphanedPlugins()
	}

	s.changes = true
	s.refreshStage()
	return nil
}

// Move shifts the entry at from to position to, renumbering everything
// between. A target beyond the end clamps to the end; moving an entry
// onto itself is a no-op.
func (s *Session) Move(kind Kind, from, to int) error {
	switch kind {
	case KindPlugin:
		moved, err := moveEntry(s.Plugins, from, to)
		if err != nil {
			return err
		}
		s.Plugins = moved
	default:
		moved, err := moveEntry(s.Mods, from, to)
		if err != nil {
			return err
		}
		s.Mods = moved
	}

	s.changes = true
	s.refreshStage()
	return nil
}

func moveEntry[T any](entries []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(entries) || to < 0 {
		return nil, domain.ErrInvalidIndex
	}
	if to >= len(entries) {
		to = len(entries) - 1
	}
	if from == to {
		return entries, nil
	}

	entry := entries[from]
	entries = append(entries[:from], entries[from+1:]...)

	out := make([]T, 0, len(entries)+1)
	out = append(out, entries[:to]...)
	out = append(out, entry)
	out = append(out, entries[to:]...)
	return out, nil
}

// SortPlugins reorders the plugin list to follow mod priority: plugins
// sort by their owning mod's position, with masters (.esm, .esl) hoisted
// ahead of regular plugins and base-game entries ahead of everything.
// The sort is stable so unaffected relative order survives.
func (s *Session) SortPlugins() {
	position := make(map[string]int, len(s.Mods))
	for i, mod := range s.Mods {
		position[mod.Name] = i + 1
	}

	sort.SliceStable(s.Plugins, func(i, j int) bool {
		a, b := s.Plugins[i], s.Plugins[j]
		if ma, mb := isMaster(a.Name), isMaster(b.Name); ma != mb {
			return ma
		}
		return position[a.Owner] < position[b.Owner]
	})

	s.changes = true
	s.refreshStage()
}

func isMaster(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".esm", ".esl":
		return true
	}
	return false
}

// Rename renames the mod at index on disk and updates every reference.
// It refuses to run with pending changes so the deployed tree and the
// database stay consistent, and re-commits afterwards.
func (s *Session) Rename(index int, newName string) error {
	if s.changes {
		return domain.ErrPendingChanges
	}
	if index < 0 || index >= len(s.Mods) {
		return domain.ErrInvalidIndex
	}
	if err := s.validateName(newName); err != nil {
		return err
	}

	mod := s.Mods[index]
	oldName := mod.Name
	if err := s.undeployMod(oldName); err != nil {
		return err
	}

	newLocation := filepath.Join(s.game.ModsDir, newName)
	if err := os.Rename(mod.Location, newLocation); err != nil {
		return fmt.Errorf("renaming mod directory: %w", err)
	}

	s.logger.Info().Str("from", oldName).Str("to", newName).Msg("renamed mod")

	mod.Name = newName
	mod.Location = newLocation
	mod.Refresh(s.game)

	for _, plugin := range s.Plugins {
		if plugin.Owner == oldName {
			plugin.Owner = newName
		}
	}

	s.changes = true
	s.refreshStage()
	_, err := s.Commit()
	return err
}

// Delete removes the entry at index. Deleting a mod removes its file
// tree and re-commits so its overlay files disappear from the game
// directory; deleting a plugin only drops its load-order entry. Both
// refuse to run with pending changes.
func (s *Session) Delete(kind Kind, index int) error {
	if s.changes {
		return domain.ErrPendingChanges
	}

	if kind == KindPlugin {
		if index < 0 || index >= len(s.Plugins) {
			return domain.ErrInvalidIndex
		}
		s.Plugins = append(s.Plugins[:index], s.Plugins[index+1:]...)
		s.changes = true
		s.refreshStage()
		return nil
	}

	if index < 0 || index >= len(s.Mods) {
		return domain.ErrInvalidIndex
	}

	mod := s.Mods[index]
	mod.Enabled = false
	s.Mods = append(s.Mods[:index], s.Mods[index+1:]...)
	s.dropOrphanedPlugins()

	if err := os.RemoveAll(mod.Location); err != nil {
		return fmt.Errorf("deleting mod tree: %w", err)
	}

	s.logger.Info().Str("mod", mod.Name).Msg("deleted mod")

	s.changes = true
	s.refreshStage()
	_, err := s.Commit()
	return err
}

// validateName enforces the naming rules: alphanumerics and
// underscores only, no clash with another mod, and no shadowing of a
// path component of the game's data directory.
func (s *Session) validateName(name string) error {
	if !namePattern.MatchString(name) {
		return domain.ErrInvalidName
	}
	for _, mod := range s.Mods {
		if strings.EqualFold(mod.Name, name) {
			return domain.ErrNameTaken
		}
	}
	for _, part := range strings.Split(s.game.Data, string(os.PathSeparator)) {
		if strings.EqualFold(part, name) {
			return domain.ErrInvalidName
		}
	}
	return nil
}

// adoptPlugins appends the mod's plugins to the load order when no
// entry for them exists yet. New entries start disabled.
func (s *Session) adoptPlugins(mod *domain.Mod) {
	seen := make(map[string]bool, len(s.Plugins))
	for _, plugin := range s.Plugins {
		seen[strings.ToLower(plugin.Name)] = true
	}
	for _, name := range mod.Plugins {
		if seen[strings.ToLower(name)] {
			continue
		}
		s.Plugins = append(s.Plugins, &domain.Plugin{Name: name, Owner: mod.Name})
	}
}

// dropOrphanedPlugins removes load-order entries no mod provides
// anymore and force-disables entries whose owner is disabled. Base-game
// entries always survive.
func (s *Session) dropOrphanedPlugins() {
	kept := s.Plugins[:0]
	for _, plugin := range s.Plugins {
		if !plugin.Owned() {
			kept = append(kept, plugin)
			continue
		}
		owner := s.pluginOwner(plugin.Name)
		if owner == "" {
			continue
		}
		plugin.Owner = owner
		if !s.modEnabled(owner) {
			plugin.Enabled = false
		}
		kept = append(kept, plugin)
	}
	s.Plugins = kept
}

func (s *Session) modEnabled(name string) bool {
	for _, mod := range s.Mods {
		if mod.Name == name {
			return mod.Enabled
		}
	}
	return false
}
