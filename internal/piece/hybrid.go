package piece

// GenerateHybridCodex produces the "-hybrid-codex" variant of every piece in
// pieces whose name is not in skip. Each variant is a deep clone renamed to
// "<name>-hybrid-codex" with provider "codex" forced onto the persona named
// "coder" (creating the mapping if the original piece had none); every other
// field is preserved unchanged. The transform is deterministic: running it
// twice over the same input produces byte-for-byte identical variants.
func GenerateHybridCodex(pieces []*Piece, skip []string) []*Piece {
	skipSet := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		skipSet[s] = struct{}{}
	}

	var variants []*Piece
	for _, p := range pieces {
		if _, skipped := skipSet[p.Name]; skipped {
			continue
		}
		variants = append(variants, hybridCodexVariant(p))
	}
	return variants
}

func hybridCodexVariant(p *Piece) *Piece {
	clone := *p
	clone.Name = p.Name + "-hybrid-codex"
	clone.Movements = make([]*Movement, len(p.Movements))
	for i, m := range p.Movements {
		mc := *m
		mc.Rules = append([]Rule{}, m.Rules...)
		mc.Parallel = append([]string{}, m.Parallel...)
		mc.QualityGates = append([]string{}, m.QualityGates...)
		if m.TeamLeader != nil {
			tl := *m.TeamLeader
			mc.TeamLeader = &tl
		}
		clone.Movements[i] = &mc
	}

	clone.Personas = make(map[string]PersonaRef, len(p.Personas)+1)
	for name, ref := range p.Personas {
		clone.Personas[name] = ref
	}
	coder := clone.Personas["coder"]
	coder.Name = "coder"
	coder.Provider = "codex"
	clone.Personas["coder"] = coder

	clone.buildIndex()
	return &clone
}
