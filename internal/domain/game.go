package domain

import (
	"path/filepath"
	"strings"
)

// Game describes one managed install target and the bookkeeping files
// that live alongside it.
type Game struct {
	ID         string // Unique slug, e.g. "skyrim-se"
	Name       string // Display name
	Directory  string // Game installation root; overlay destinations live below here
	Data       string // Data directory below the root; default install target for mods
	PluginFile string // Load-order persistence file (one plugin per line)
	DLCFile    string // Base-game content list; plugins here but not in PluginFile are DLC
	ModsDir    string // Where each mod's private file tree is kept
	ConfFile   string // Mod-order persistence file (one mod per line)

	// InvertedMarker is set for games whose plugin file marks *disabled*
	// lines with the enable marker instead of enabled ones.
	InvertedMarker bool
}

// PakDir returns the UE5-style pak mod directory for this game.
func (g *Game) PakDir() string {
	project := strings.ReplaceAll(g.Name, " ", "")
	return filepath.Join(g.Directory, project, "Content", "Paks", "~mods")
}

// DLLDir returns the directory native plugin libraries are loaded from.
func (g *Game) DLLDir() string {
	project := strings.ReplaceAll(g.Name, " ", "")
	return filepath.Join(g.Directory, project, "Binaries", "Win64")
}

// DataName returns the leaf name of the data directory, e.g. "Data".
func (g *Game) DataName() string {
	return filepath.Base(g.Data)
}
