package fomod

import (
	"fmt"

	"omm/internal/domain"
	"omm/internal/logging"

	"github.com/rs/zerolog"
)

// Session is one configuration run of an installer wizard. It owns the
// mutable selection state; the full page list is fixed at parse time and
// only the visible projection changes as flags change.
//
// Sessions are single-owner and synchronous: every transition runs to
// completion before the next is accepted.
type Session struct {
	desc      *Descriptor
	flags     map[string]bool
	visible   []*Page
	pageIndex int
	logger    zerolog.Logger
}

// NewSession parses the descriptor at path and positions the cursor on
// the first visible page.
func NewSession(path string) (*Session, error) {
	desc, err := Parse(path)
	if err != nil {
		return nil, err
	}
	return NewSessionFrom(desc), nil
}

// NewSessionFrom starts a session over an already-parsed descriptor.
func NewSessionFrom(desc *Descriptor) *Session {
	s := &Session{
		desc:   desc,
		logger: logging.GetLogger("fomod"),
	}
	s.recompute()
	return s
}

// ModuleName returns the descriptor's module name.
func (s *Session) ModuleName() string {
	return s.desc.ModuleName
}

// CurrentPage returns the page under the cursor, or nil when the
// descriptor has no visible pages at all.
func (s *Session) CurrentPage() *Page {
	if s.pageIndex >= len(s.visible) {
		return nil
	}
	return s.visible[s.pageIndex]
}

// Position returns the cursor's 0-based index and the visible page count.
func (s *Session) Position() (index, total int) {
	return s.pageIndex, len(s.visible)
}

// Flags returns a copy of the current global flag state.
func (s *Session) Flags() map[string]bool {
	flags := make(map[string]bool, len(s.flags))
	for k, v := range s.flags {
		flags[k] = v
	}
	return flags
}

// Select toggles the selection at index on the current page, honoring
// the page's arity. Out-of-range indexes are a usage error with no state
// change.
func (s *Session) Select(index int) error {
	page := s.CurrentPage()
	if page == nil {
		return fmt.Errorf("%w: no page to select on", domain.ErrInvalidIndex)
	}
	if index < 0 || index >= len(page.Selections) {
		return fmt.Errorf("%w: %d", domain.ErrInvalidIndex, index)
	}

	target := !page.Selections[index].Selected
	switch page.Arity {
	case SelectExactlyOne:
		for i, sel := range page.Selections {
			sel.Selected = i == index
		}
	case SelectAtMostOne:
		for _, sel := range page.Selections {
			sel.Selected = false
		}
		page.Selections[index].Selected = target
	default:
		page.Selections[index].Selected = target
	}
	return nil
}

// Advance recomputes flags and page visibility from the current
// selections, then moves the cursor forward in the new visible
// projection. It returns done == true on the terminal transition, when
// the cursor moved past the last visible page; the caller then resolves
// and installs the selected nodes.
func (s *Session) Advance() (done bool) {
	s.pageIndex++
	s.recompute()
	if s.pageIndex >= len(s.visible) {
		s.logger.Debug().Int("flags", len(s.flags)).Msg("wizard reached terminal transition")
		return true
	}
	return false
}

// Retreat moves the cursor back one visible page. Retreating past the
// first page is a usage error with no state change.
func (s *Session) Retreat() error {
	if s.pageIndex == 0 {
		return domain.ErrPageBoundary
	}
	s.pageIndex--
	return nil
}

// recompute folds the global flag state from scratch out of every
// selected selection, then filters the visible page projection. Flags
// are rebuilt rather than patched so selection state and flag state can
// never drift; same-named flags are overwritten in page order, last
// writer wins.
func (s *Session) recompute() {
	s.flags = make(map[string]bool)
	for _, page := range s.desc.Pages {
		for _, sel := range page.Selections {
			if !sel.Selected {
				continue
			}
			for _, flag := range sel.Flags {
				s.flags[flag.Name] = flag.Value
			}
		}
	}

	s.visible = s.visible[:0]
	for _, page := range s.desc.Pages {
		if len(page.Dependency.Flags) == 0 || s.flagsMatch(page.Dependency.Flags, page.Dependency.Operator) {
			s.visible = append(s.visible, page)
		}
	}
}

// flagsMatch evaluates a dependency expression against the global flags.
// Under "and" every expected pair must be present and equal. Under "or"
// (or no operator) one present, equal pair suffices; expected flags that
// are absent from the global state are ignored rather than failed.
func (s *Session) flagsMatch(expected []Flag, operator string) bool {
	match := false
	for _, flag := range expected {
		if actual, ok := s.flags[flag.Name]; ok {
			if actual != flag.Value {
				if operator == "and" {
					return false
				}
				continue
			}
			match = true
		} else if operator == "and" {
			return false
		}
	}
	return match
}

// ResolveNodes computes the final selected-node set: nodes of selected
// unconditional selections, nodes of selected conditional selections
// whose own flags match, descriptor-level patterns whose dependency
// matches (or that declare none), and the required list regardless of
// anything. An empty union is a fatal configuration error.
func (s *Session) ResolveNodes() ([]Node, error) {
	var nodes []Node

	for _, page := range s.desc.Pages {
		for _, sel := range page.Selections {
			if !sel.Selected {
				continue
			}
			if sel.Conditional && !s.flagsMatch(sel.Flags, "") {
				continue
			}
			nodes = append(nodes, sel.Files...)
		}
	}

	for _, pattern := range s.desc.Patterns {
		if len(pattern.Dependency.Flags) == 0 || s.flagsMatch(pattern.Dependency.Flags, pattern.Dependency.Operator) {
			nodes = append(nodes, pattern.Files...)
		}
	}

	nodes = append(nodes, s.desc.Required...)

	if len(nodes) == 0 {
		return nil, domain.ErrNoInstallableFiles
	}
	return nodes, nil
}
