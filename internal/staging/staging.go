// Package staging computes the final destination→source overlay mapping
// for an ordered mod list without touching the filesystem.
package staging

import (
	"path/filepath"
	"sort"
	"strings"

	"omm/internal/domain"
	"omm/internal/logging"
	"omm/internal/paths"
)

// Entry records the winning mod and source file for one destination.
type Entry struct {
	ModName string
	Source  string
}

// Plan maps each absolute destination path to the entry that owns it.
type Plan map[string]Entry

// Stage computes the overlay plan for mods in ascending priority order
// (index 0 = lowest priority; the last enabled mod wins every collision)
// and recomputes each mod's Conflict and Obsolete flags in place.
//
// Stage is a total function: it never fails and callers must re-run it
// after every mutation that could change the destination set rather than
// patching the derived flags by hand.
func Stage(game *domain.Game, mods []*domain.Mod) Plan {
	logger := logging.GetLogger("staging")

	for _, mod := range mods {
		mod.Conflict = false
		mod.Obsolete = true
	}

	var enabled []*domain.Mod
	for _, mod := range mods {
		if mod.Enabled {
			enabled = append(enabled, mod)
		}
	}

	plan := make(Plan)
	for _, mod := range enabled {
		for _, file := range mod.Files {
			dest := paths.Normalize(filepath.Join(mod.InstallDir, file.Dest), game.Directory)
			if prior, ok := plan[dest]; ok && prior.ModName != mod.Name {
				mod.Conflict = true
				if loser := findMod(enabled, prior.ModName); loser != nil {
					loser.Conflict = true
				}
			}
			plan[dest] = Entry{ModName: mod.Name, Source: file.Source}
		}
	}

	// A mod is obsolete when nothing in the final plan is owned by it.
	for _, entry := range plan {
		if mod := findMod(enabled, entry.ModName); mod != nil {
			mod.Obsolete = false
		}
	}

	logger.Debug().
		Int("mods", len(enabled)).
		Int("destinations", len(plan)).
		Msg("staged overlay plan")

	return plan
}

// PluginConflicts recomputes the Conflict flag on every plugin: true iff
// more than one enabled mod exposes a plugin of that exact name.
func PluginConflicts(mods []*domain.Mod, plugins []*domain.Plugin) {
	counts := make(map[string]int)
	for _, mod := range mods {
		if !mod.Enabled {
			continue
		}
		for _, name := range mod.Plugins {
			counts[strings.ToLower(name)]++
		}
	}
	for _, plugin := range plugins {
		plugin.Conflict = counts[strings.ToLower(plugin.Name)] > 1
	}
}

// Providers groups every enabled mod's normalized destinations: for
// each destination, the names of all enabled mods that stage a file
// there, in ascending priority order. Unlike a Plan it keeps the losers,
// which is what collision reports need.
func Providers(game *domain.Game, mods []*domain.Mod) map[string][]string {
	providers := make(map[string][]string)
	for _, mod := range mods {
		if !mod.Enabled {
			continue
		}
		for _, file := range mod.Files {
			dest := paths.Normalize(filepath.Join(mod.InstallDir, file.Dest), game.Directory)
			names := providers[dest]
			if len(names) > 0 && names[len(names)-1] == mod.Name {
				continue
			}
			providers[dest] = append(names, mod.Name)
		}
	}
	return providers
}

// Destinations returns the plan's destination paths in sorted order, for
// deterministic iteration during commit and in reports.
func (p Plan) Destinations() []string {
	dests := make([]string, 0, len(p))
	for dest := range p {
		dests = append(dests, dest)
	}
	sort.Strings(dests)
	return dests
}

// OwnedBy returns the destinations the named mod owns in the plan.
func (p Plan) OwnedBy(name string) []string {
	var dests []string
	for dest, entry := range p {
		if entry.ModName == name {
			dests = append(dests, dest)
		}
	}
	sort.Strings(dests)
	return dests
}

func findMod(mods []*domain.Mod, name string) *domain.Mod {
	for _, mod := range mods {
		if mod.Name == name {
			return mod
		}
	}
	return nil
}
