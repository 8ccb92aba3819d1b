// Package provider resolves the effective (provider, model) pair for a
// movement invocation by a five-level priority chain.
package provider

import "github.com/nrslib/takt/internal/piece"

// Layer is one source in the priority chain, from highest to lowest
// priority. Provider and Model may each be empty, meaning "not set at this
// layer".
type Layer struct {
	Provider string
	Model    string
}

// Resolution is the outcome of Resolve: the chosen provider and model, each
// tagged with the layer name that won, for diagnostics and session-log
// context.
type Resolution struct {
	Provider      string
	Model         string
	ProviderLayer string
	ModelLayer    string
}

// Resolve picks (provider, model) independently for each axis. Layers are
// given highest-priority first: CLI, persona, movement, project, global.
// First layer with a non-empty value wins per axis — except that a model
// value from the project or global layer (index 3 or 4) is only eligible
// when that same layer's Provider equals the already-resolved provider; a
// model attached to a provider that lost the provider vote never leaks
// through.
func Resolve(cli, persona, movement, project, global Layer) Resolution {
	layers := []struct {
		name string
		l    Layer
	}{
		{"cli", cli},
		{"persona", persona},
		{"movement", movement},
		{"project", project},
		{"global", global},
	}

	var res Resolution
	for _, lyr := range layers {
		if res.Provider == "" && lyr.l.Provider != "" {
			res.Provider = lyr.l.Provider
			res.ProviderLayer = lyr.name
		}
	}

	for i, lyr := range layers {
		if res.Model != "" {
			break
		}
		if lyr.l.Model == "" {
			continue
		}
		isConfigLayer := i >= 3 // project, global
		if isConfigLayer {
			if lyr.l.Provider == "" || lyr.l.Provider != res.Provider {
				continue
			}
		}
		res.Model = lyr.l.Model
		res.ModelLayer = lyr.name
	}

	return res
}

// FromPersona builds the persona layer for a movement, given the piece's
// persona map keyed by the movement's declared persona name.
func FromPersona(p *piece.Piece, personaName string) Layer {
	if p == nil || personaName == "" {
		return Layer{}
	}
	ref, ok := p.Personas[personaName]
	if !ok {
		return Layer{}
	}
	return Layer{Provider: ref.Provider, Model: ref.Model}
}

// FromMovement builds the movement layer from a movement's own
// provider/model override fields.
func FromMovement(m *piece.Movement) Layer {
	if m == nil {
		return Layer{}
	}
	return Layer{Provider: m.Provider, Model: m.Model}
}
