// Package runestate holds the shared state a flow run threads through its
// task runners: the rune's immutable blueprint/env/flow references plus the
// one piece of mutable shared state, the handle registry (spec §4.4).
package runestate

import (
	"strings"

	"github.com/itwasneo/runer/internal/registry"
	runemodel "github.com/itwasneo/runer/internal/rune"
)

// State is the aggregate a flow executor and its task runners read from.
// Each rune-derived field is nil when the source rune left that section
// empty, mirroring spec §4.4's "each optional to reflect partial runes".
type State struct {
	Blueprints map[string]runemodel.Blueprint
	Env        map[string]runemodel.EnvBundle
	Flows      []runemodel.Flow
	Handles    *registry.Registry
}

// FromRune builds a State from a loaded Rune. The handle registry is
// allocated only when the rune declares at least one flow, since a
// blueprint/env-only rune never runs anything.
func FromRune(r *runemodel.Rune) *State {
	s := &State{}
	if len(r.Blueprints) > 0 {
		s.Blueprints = r.Blueprints
	}
	if len(r.Env) > 0 {
		s.Env = r.Env
	}
	if len(r.Flows) > 0 {
		s.Flows = r.Flows
		s.Handles = registry.New()
	}
	return s
}

// SerializeBlueprintNames returns every blueprint name, newline-separated,
// for external front ends that just need a name listing (spec §4.4).
func (s *State) SerializeBlueprintNames() string {
	names := make([]string, 0, len(s.Blueprints))
	for name := range s.Blueprints {
		names = append(names, name)
	}
	return strings.Join(names, "\n")
}
