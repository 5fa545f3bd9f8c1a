package core

import (
	"fmt"

	"omm/internal/domain"
	"omm/internal/fomod"
)

// Configure opens an installer wizard session for the mod at index. It
// is refused while uncommitted changes exist because finishing a wizard
// rewrites the mod's staged file list.
func (s *Session) Configure(index int) (*fomod.Session, error) {
	if s.changes {
		return nil, domain.ErrPendingChanges
	}
	if index < 0 || index >= len(s.Mods) {
		return nil, domain.ErrInvalidIndex
	}

	mod := s.Mods[index]
	if !mod.Fomod {
		return nil, fmt.Errorf("%s: %w", mod.Name, domain.ErrNotConfigurable)
	}
	return fomod.NewSession(mod.ModConf)
}

// FinishConfigure resolves the wizard's selections and materializes
// them into the mod's wizard output tree, then restages. The wizard
// must have reached its terminal transition.
func (s *Session) FinishConfigure(index int, wizard *fomod.Session) error {
	if index < 0 || index >= len(s.Mods) {
		return domain.ErrInvalidIndex
	}
	mod := s.Mods[index]

	nodes, err := wizard.ResolveNodes()
	if err != nil {
		return err
	}
	if err := fomod.Materialize(mod, s.game, nodes); err != nil {
		return err
	}

	s.logger.Info().Str("mod", mod.Name).Int("nodes", len(nodes)).Msg("configured installer")

	s.changes = true
	s.refreshStage()
	return nil
}
