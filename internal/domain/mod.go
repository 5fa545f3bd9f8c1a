package domain

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// WizardOutputDir is the subtree inside a mod's location that holds the
// output of a completed installer wizard session. Mods that ship an
// installer descriptor stage their files from here instead of from the
// location root.
const WizardOutputDir = "omm_fomod"

// PluginExts are the file extensions the game consumes via its load order.
var PluginExts = map[string]bool{".esp": true, ".esl": true, ".esm": true}

// FileMapping pairs an absolute source file with its destination path
// relative to the owning mod's install directory.
type FileMapping struct {
	Source string
	Dest   string
}

// Mod is one prioritized, enableable bundle of files overlaid onto the
// install target. Conflict and Obsolete are derived by staging and must
// never be set by hand.
type Mod struct {
	Name       string
	Location   string // Private file tree, owned exclusively by this mod
	InstallDir string // Absolute root this mod's files are relative to
	Files      []FileMapping
	Enabled    bool
	Conflict   bool
	Obsolete   bool
	Fomod      bool   // Ships an installer descriptor
	ModConf    string // Path to the descriptor, when Fomod is set
	Plugins    []string
}

// NewMod creates a mod rooted at location and scans its files.
func NewMod(location string, game *Game) *Mod {
	m := &Mod{
		Name:     filepath.Base(location),
		Location: location,
	}
	m.Refresh(game)
	return m
}

// Refresh re-scans the mod's file tree, reclassifies its install
// directory and rebuilds its plugin list. Called at construction and
// again whenever the location's contents may have changed (rename,
// wizard completion).
func (m *Mod) Refresh(game *Game) {
	m.InstallDir = game.Data
	m.Files = nil
	m.Plugins = nil
	m.Fomod = false
	m.ModConf = ""

	entries, err := os.ReadDir(m.Location)
	if err != nil {
		return
	}

	// Surface-level inspection decides where this mod's tree belongs.
	for _, entry := range entries {
		if entry.IsDir() {
			switch strings.ToLower(entry.Name()) {
			case "data", "data files", "edit scripts", "oblivionremastered":
				m.InstallDir = game.Directory
			case "~mods":
				m.InstallDir = filepath.Dir(game.PakDir())
			case "fomod":
				if conf := findModuleConf(filepath.Join(m.Location, entry.Name())); conf != "" {
					m.ModConf = conf
					m.Fomod = true
					m.InstallDir = game.Directory
				}
			}
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".dll":
			m.InstallDir = game.DLLDir()
		case ".pak":
			m.InstallDir = game.PakDir()
		}
	}

	// Wizard mods only contribute files their configurator produced.
	root := m.Location
	if m.Fomod {
		root = filepath.Join(m.Location, WizardOutputDir)
	}
	if _, err := os.Stat(root); err != nil {
		return
	}

	m.populateFiles(root)
	m.populatePlugins(root, game)
}

// ContentRoot returns the directory this mod's Files are relative to.
func (m *Mod) ContentRoot() string {
	if m.Fomod {
		return filepath.Join(m.Location, WizardOutputDir)
	}
	return m.Location
}

// Configured reports whether a wizard mod has completed configuration.
// Non-wizard mods are always configured.
func (m *Mod) Configured() bool {
	if !m.Fomod {
		return true
	}
	info, err := os.Stat(filepath.Join(m.Location, WizardOutputDir))
	return err == nil && info.IsDir()
}

func (m *Mod) populateFiles(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		m.Files = append(m.Files, FileMapping{Source: path, Dest: rel})
		return nil
	})
}

// populatePlugins finds load-order files. They live either at the top of
// the content root or at the top of a nested data directory.
func (m *Mod) populatePlugins(root string, game *Game) {
	pluginDir := root
	dataName := strings.ToLower(game.DataName())
	for _, f := range m.Files {
		if strings.ToLower(filepath.Base(filepath.Dir(f.Dest))) == dataName {
			pluginDir = filepath.Dir(f.Source)
			break
		}
	}

	entries, err := os.ReadDir(pluginDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if PluginExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			m.Plugins = append(m.Plugins, entry.Name())
		}
	}
}

// HasPlugin reports whether this mod exposes a load-order file of the
// given name (case-insensitive, as the game treats plugin names).
func (m *Mod) HasPlugin(name string) bool {
	for _, p := range m.Plugins {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}

// findModuleConf scans the given directory's surface for a descriptor.
func findModuleConf(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(entry.Name(), "ModuleConfig.xml") {
			return filepath.Join(dir, entry.Name())
		}
	}
	return ""
}
