package provider

import "testing"

func TestResolve_CLIWinsBothAxes(t *testing.T) {
	res := Resolve(
		Layer{Provider: "claude", Model: "opus"},
		Layer{Provider: "codex", Model: "gpt-5"},
		Layer{Provider: "codex", Model: "gpt-5"},
		Layer{Provider: "codex", Model: "gpt-5"},
		Layer{Provider: "codex", Model: "gpt-5"},
	)
	if res.Provider != "claude" || res.Model != "opus" {
		t.Errorf("got (%s, %s), want (claude, opus)", res.Provider, res.Model)
	}
}

func TestResolve_PersonaBeatsMovement(t *testing.T) {
	res := Resolve(
		Layer{}, Layer{Provider: "codex"}, Layer{Provider: "claude"}, Layer{}, Layer{},
	)
	if res.Provider != "codex" {
		t.Errorf("Provider = %q, want codex (persona beats movement)", res.Provider)
	}
}

func TestResolve_ConfigModelIneligibleWhenProviderMismatched(t *testing.T) {
	// Movement resolves provider to codex (persona layer). Project config
	// sets provider:claude, model:opus as a pair — that model must not
	// apply to the resolved codex provider.
	res := Resolve(
		Layer{},
		Layer{Provider: "codex"},
		Layer{},
		Layer{Provider: "claude", Model: "opus"},
		Layer{Model: "gpt-5-mini"},
	)
	if res.Provider != "codex" {
		t.Fatalf("Provider = %q, want codex", res.Provider)
	}
	if res.Model != "" {
		t.Errorf("Model = %q, want empty (project model paired with the wrong provider is ineligible, global model has no paired provider)", res.Model)
	}
}

func TestResolve_ConfigModelEligibleWhenProviderMatches(t *testing.T) {
	res := Resolve(
		Layer{}, Layer{Provider: "claude"}, Layer{}, Layer{Provider: "claude", Model: "opus"}, Layer{},
	)
	if res.Model != "opus" {
		t.Errorf("Model = %q, want opus", res.Model)
	}
}

func TestResolve_GlobalFallback(t *testing.T) {
	res := Resolve(Layer{}, Layer{}, Layer{}, Layer{}, Layer{Provider: "claude", Model: "haiku"})
	if res.Provider != "claude" || res.Model != "haiku" {
		t.Errorf("got (%s, %s), want (claude, haiku)", res.Provider, res.Model)
	}
	if res.ProviderLayer != "global" || res.ModelLayer != "global" {
		t.Errorf("layers = (%s, %s), want (global, global)", res.ProviderLayer, res.ModelLayer)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	l := []Layer{{Provider: "codex"}, {}, {Provider: "claude", Model: "opus"}, {}, {}}
	a := Resolve(l[0], l[1], l[2], l[3], l[4])
	b := Resolve(l[0], l[1], l[2], l[3], l[4])
	if a != b {
		t.Errorf("Resolve is not idempotent: %+v != %+v", a, b)
	}
}
