package linker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"omm/internal/domain"
)

// SymlinkLinker deploys overlay files as symbolic links.
type SymlinkLinker struct{}

// NewSymlinkLinker creates a new symlink linker.
func NewSymlinkLinker() *SymlinkLinker {
	return &SymlinkLinker{}
}

// Deploy creates a symlink from src to dst. A pre-existing managed link
// is replaced; anything else at dst is left alone and reported as
// domain.ErrDestinationExists.
func (l *SymlinkLinker) Deploy(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating destination dir: %w", err)
	}

	if info, err := os.Lstat(dst); err == nil {
		if info.Mode()&os.ModeSymlink == 0 {
			return fmt.Errorf("%w: %s", domain.ErrDestinationExists, dst)
		}
		if err := os.Remove(dst); err != nil {
			return fmt.Errorf("removing stale link: %w", err)
		}
	}

	if err := os.Symlink(src, dst); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", domain.ErrDestinationExists, dst)
		}
		return fmt.Errorf("creating symlink: %w", err)
	}
	return nil
}

// Undeploy removes the symlink at dst. Anything that is not a symlink
// is not ours and is left in place.
func (l *SymlinkLinker) Undeploy(dst string) error {
	info, err := os.Lstat(dst)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Already removed
		}
		return fmt.Errorf("checking file: %w", err)
	}

	if info.Mode()&os.ModeSymlink == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotManaged, dst)
	}

	if err := os.Remove(dst); err != nil {
		return fmt.Errorf("removing symlink: %w", err)
	}
	return nil
}

// IsDeployed checks if dst is a symlink.
func (l *SymlinkLinker) IsDeployed(dst string) (bool, error) {
	info, err := os.Lstat(dst)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}

// Method returns the link method.
func (l *SymlinkLinker) Method() Method {
	return Symlink
}
