package piece

import "github.com/nrslib/takt/internal/util"

// GateOverrides maps a movement name (or "*" for every movement) to an
// explicit quality-gate list. A nil entry for a movement means "no override
// at this layer"; a present-but-empty slice means "explicitly cleared at
// this layer" — the two are distinguished by map membership, not length.
type GateOverrides map[string][]string

func (g GateOverrides) lookup(movement string) ([]string, bool) {
	if gates, ok := g[movement]; ok {
		return gates, true
	}
	gates, ok := g["*"]
	return gates, ok
}

// ApplyGateOverlay applies project then user quality-gate overrides to every
// movement in p, in additive priority order: a project override replaces the
// movement's own authored gate list (or leaves it untouched if project has
// no override); a user override is then merged additively on top of
// whatever the project layer produced. The result is deduplicated.
//
// When both project and user explicitly set an empty list for a movement,
// the merged result is empty — additive merging of two empty sets is still
// empty, it is not a fallback to the piece's authored gates.
func ApplyGateOverlay(p *Piece, project, user GateOverrides) {
	for _, m := range p.Movements {
		gates := m.QualityGates

		if override, ok := project.lookup(m.Name); ok {
			gates = override
		}
		if override, ok := user.lookup(m.Name); ok {
			gates = append(append([]string{}, gates...), override...)
		}

		m.QualityGates = util.DedupeStrings(gates)
	}
}
