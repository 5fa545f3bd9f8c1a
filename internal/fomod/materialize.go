package fomod

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"omm/internal/domain"
	"omm/internal/logging"
	"omm/internal/paths"
)

// Materialize copies the resolved nodes into the mod's wizard output
// subtree, replacing whatever a previous configuration session left
// there. On success the mod's file set is rebuilt from the new subtree;
// on failure no partial subtree is retained and the mod is left
// unconfigured.
func Materialize(mod *domain.Mod, game *domain.Game, nodes []Node) error {
	logger := logging.GetLogger("fomod")

	outputRoot := filepath.Join(mod.Location, domain.WizardOutputDir)
	target := filepath.Join(outputRoot, game.DataName())

	// Start from a clean target regardless of previous sessions.
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("clearing wizard output: %w", err)
	}
	if err := os.MkdirAll(target, 0755); err != nil {
		return fmt.Errorf("creating wizard output: %w", err)
	}

	if err := materialize(mod, outputRoot, target, nodes); err != nil {
		// A failed attempt keeps nothing.
		_ = os.RemoveAll(outputRoot)
		return err
	}

	logger.Info().Str("mod", mod.Name).Int("nodes", len(nodes)).Msg("wizard output materialized")

	mod.Refresh(game)
	return nil
}

func materialize(mod *domain.Mod, outputRoot, target string, nodes []Node) error {
	// destination -> source, so a node overwriting its own earlier files
	// resolves before anything is copied.
	stage := make(map[string]string)

	for _, node := range nodes {
		src, err := resolveSource(mod.Location, node.Source)
		if err != nil {
			return err
		}

		dest := target
		for _, segment := range splitDescriptorPath(node.Destination) {
			dest = filepath.Join(dest, segment)
		}
		dest = paths.Normalize(dest, outputRoot)

		info, err := os.Stat(src)
		if err != nil {
			return fmt.Errorf("%w: %s", domain.ErrMissingSource, node.Source)
		}
		if !info.IsDir() {
			stage[dest] = src
			continue
		}

		// Directory nodes localize every nested path under the destination.
		err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(src, path)
			if err != nil {
				return err
			}
			stage[filepath.Join(dest, rel)] = path
			return nil
		})
		if err != nil {
			return fmt.Errorf("walking %s: %w", node.Source, err)
		}
	}

	for dest, src := range stage {
		if err := copyFile(src, dest); err != nil {
			return err
		}
	}
	return nil
}

// resolveSource maps a descriptor-declared source path onto the real
// file tree segment by segment, matching case-insensitively: authors
// frequently declare "00 Core/Meshes" when the directory on disk is
// "00 Core/meshes".
func resolveSource(root, source string) (string, error) {
	resolved := root
	for _, segment := range splitDescriptorPath(source) {
		entries, err := os.ReadDir(resolved)
		if err != nil {
			return "", fmt.Errorf("%w: %s", domain.ErrMissingSource, source)
		}
		name := segment
		for _, entry := range entries {
			if strings.EqualFold(entry.Name(), segment) {
				name = entry.Name()
				break
			}
		}
		resolved = filepath.Join(resolved, name)
	}
	if _, err := os.Stat(resolved); err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrMissingSource, source)
	}
	return resolved, nil
}

// splitDescriptorPath splits a descriptor path on either separator;
// descriptors ship from Windows tooling and use backslashes.
func splitDescriptorPath(p string) []string {
	var segments []string
	for _, segment := range strings.FieldsFunc(p, func(r rune) bool {
		return r == '\\' || r == '/'
	}) {
		if segment != "" && segment != "." {
			segments = append(segments, segment)
		}
	}
	return segments
}

func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating destination dir: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode())
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying file: %w", err)
	}
	return nil
}
