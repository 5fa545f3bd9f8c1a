// Package linker realizes staged overlay entries as filesystem links.
package linker

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Method determines how staged files are realized in the game directory.
type Method int

const (
	Symlink  Method = iota // Default: symlink (space efficient)
	Hardlink               // Hardlink (transparent to games)
	Copy                   // Copy (maximum compatibility)
)

func (m Method) String() string {
	switch m {
	case Hardlink:
		return "hardlink"
	case Copy:
		return "copy"
	default:
		return "symlink"
	}
}

// ParseMethod converts a string to a Method.
func ParseMethod(s string) Method {
	switch s {
	case "hardlink":
		return Hardlink
	case "copy":
		return Copy
	default:
		return Symlink
	}
}

// Linker deploys and undeploys overlay files to the game directory.
// Deploy must refuse to overwrite a pre-existing unmanaged path and
// report domain.ErrDestinationExists instead.
type Linker interface {
	Deploy(src, dst string) error
	Undeploy(dst string) error
	IsDeployed(dst string) (bool, error)
	Method() Method
}

// New creates a linker for the given method.
func New(method Method) Linker {
	switch method {
	case Hardlink:
		return NewHardlinkLinker()
	case Copy:
		return NewCopyLinker()
	default:
		return NewSymlinkLinker()
	}
}

// CleanupEmptyDirs removes empty directories below root, deepest first.
func CleanupEmptyDirs(root string) {
	var dirs []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	for i := len(dirs) - 1; i >= 0; i-- {
		// Fails on non-empty directories, which is the point.
		_ = os.Remove(dirs[i])
	}
}
