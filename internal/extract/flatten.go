package extract

import (
	"fmt"
	"os"
	"path/filepath"
)

// Flatten hoists the contents of a lone wrapper directory up into root.
// Many archives wrap the mod in a single top-level folder named after
// the release; the engine expects the mod tree directly under root.
// Does nothing when root holds more than one entry, a single file, or a
// single recognized content directory.
func Flatten(root string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("reading %s: %w", root, err)
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		return nil
	}
	if contentDir(entries[0].Name()) {
		return nil
	}

	wrapper := filepath.Join(root, entries[0].Name())
	inner, err := os.ReadDir(wrapper)
	if err != nil {
		return fmt.Errorf("reading %s: %w", wrapper, err)
	}

	for _, entry := range inner {
		src := filepath.Join(wrapper, entry.Name())
		dst := filepath.Join(root, entry.Name())
		if err := os.Rename(src, dst); err != nil {
			return fmt.Errorf("moving %s: %w", entry.Name(), err)
		}
	}
	return os.Remove(wrapper)
}

// contentDir reports whether name is a directory the engine treats as
// mod content in its own right, which must stay where it is.
func contentDir(name string) bool {
	switch filepath.Base(name) {
	case "data", "Data", "Data Files", "fomod", "meshes", "textures", "scripts",
		"SKSE", "skse", "~mods", "Edit Scripts":
		return true
	}
	return false
}
