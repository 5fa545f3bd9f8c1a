package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"omm/internal/domain"
	"omm/internal/extract"
)

// InstallArchive extracts an archive into a new mod directory and
// appends the mod to the order, disabled. An empty name derives one
// from the archive filename.
func (s *Session) InstallArchive(ctx context.Context, archivePath, name string) (*domain.Mod, error) {
	if name == "" {
		name = nameFromArchive(archivePath)
	}
	if err := s.validateName(name); err != nil {
		return nil, err
	}

	location := filepath.Join(s.game.ModsDir, name)
	if _, err := os.Stat(location); err == nil {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrNameTaken)
	}

	extractor := extract.NewExtractor()
	if err := extractor.Extract(ctx, archivePath, location); err != nil {
		os.RemoveAll(location)
		return nil, fmt.Errorf("extracting %s: %w", filepath.Base(archivePath), err)
	}
	if err := extract.Flatten(location); err != nil {
		os.RemoveAll(location)
		return nil, err
	}

	mod := domain.NewMod(location, s.game)
	s.Mods = append(s.Mods, mod)

	s.logger.Info().Str("mod", mod.Name).Str("archive", archivePath).Msg("installed mod")

	s.changes = true
	s.refreshStage()
	return mod, nil
}

// Downloads lists the extractable archives in the configured downloads
// directory, sorted by name.
func (s *Session) Downloads() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.DownloadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading downloads directory: %w", err)
	}

	extractor := extract.NewExtractor()
	var archives []string
	for _, entry := range entries {
		if entry.IsDir() || !extractor.CanExtract(entry.Name()) {
			continue
		}
		archives = append(archives, filepath.Join(s.cfg.DownloadsDir, entry.Name()))
	}
	sort.Strings(archives)
	return archives, nil
}

// nameFromArchive turns "Cool Mod-1.2.zip" into "Cool_Mod_1_2".
func nameFromArchive(path string) string {
	name := filepath.Base(path)
	for ext := filepath.Ext(name); ext != ""; ext = filepath.Ext(name) {
		if !extract.NewExtractor().CanExtract(name) && !strings.EqualFold(ext, ".tar") {
			break
		}
		name = strings.TrimSuffix(name, ext)
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
