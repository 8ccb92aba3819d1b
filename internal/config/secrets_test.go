package config

import "testing"

func TestResolveSecret_EnvTakesPrecedence(t *testing.T) {
	t.Setenv(EnvAnthropicAPIKey, "env-value")
	merged := Merged{Secrets: map[string]string{EnvAnthropicAPIKey: "config-value"}}

	v, ok, err := ResolveSecret(EnvAnthropicAPIKey, merged)
	if err != nil {
		t.Fatalf("ResolveSecret() error = %v", err)
	}
	if !ok || v != "env-value" {
		t.Errorf("got (%q, %v), want (env-value, true)", v, ok)
	}
}

func TestResolveSecret_FallsBackToConfig(t *testing.T) {
	t.Setenv(EnvAnthropicAPIKey, "")
	merged := Merged{Secrets: map[string]string{EnvAnthropicAPIKey: "config-value"}}

	v, ok, err := ResolveSecret(EnvAnthropicAPIKey, merged)
	if err != nil {
		t.Fatalf("ResolveSecret() error = %v", err)
	}
	if !ok || v != "config-value" {
		t.Errorf("got (%q, %v), want (config-value, true)", v, ok)
	}
}

func TestResolveSecret_NeitherSource(t *testing.T) {
	t.Setenv(EnvAnthropicAPIKey, "")
	v, ok, err := ResolveSecret(EnvAnthropicAPIKey, Merged{})
	if err != nil {
		t.Fatalf("ResolveSecret() error = %v", err)
	}
	if ok || v != "" {
		t.Errorf("got (%q, %v), want (\"\", false)", v, ok)
	}
}

func TestValidatePathEnv_RelativeRejected(t *testing.T) {
	if err := ValidatePathEnv(EnvCodexCLIPath, "relative/path"); err == nil {
		t.Error("expected error for relative path")
	}
}

func TestValidatePathEnv_ControlCharsRejected(t *testing.T) {
	if err := ValidatePathEnv(EnvCodexCLIPath, "/usr/bin/codex\x01"); err == nil {
		t.Error("expected error for control characters")
	}
}

func TestValidatePathEnv_NonexistentRejected(t *testing.T) {
	if err := ValidatePathEnv(EnvCodexCLIPath, "/does/not/exist/codex"); err == nil {
		t.Error("expected error for nonexistent path")
	}
}
