// Package paths canonicalizes overlay destination paths so that mixed-case
// references to the same logical directory always collapse onto one
// physical path.
package paths

import (
	"path/filepath"
	"strings"
)

// canonicalDirs is the allow-list of directory names that keep their
// author-intended capitalization. Everything else below the root is
// folded to lowercase. Order matters: longer names are replaced before
// their substrings so "Data Files" never degrades to "Data files".
var canonicalDirs = []string{
	"NetScriptFramework",
	"Data Files",
	"Data",
	"DynDOLOD",
	"Plugins",
	"SKSE",
	"Edit Scripts",
	"Docs",
	"Scripts",
	"Source",
}

// Normalize case-folds the directory portion of dest below root and
// re-capitalizes any canonical directory names, leaving the file name
// untouched. Pure; total over well-formed input.
func Normalize(dest, root string) string {
	dir, file := filepath.Split(dest)

	local := dir
	if i := strings.LastIndex(dir, root); i >= 0 {
		local = dir[i+len(root):]
	}
	local = strings.ToLower(local)

	for _, name := range canonicalDirs {
		local = strings.ReplaceAll(local, strings.ToLower(name), name)
	}

	return filepath.Join(root, strings.TrimLeft(local, string(filepath.Separator)), file)
}
