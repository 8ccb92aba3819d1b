package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ProjectOverridesUser(t *testing.T) {
	dir := t.TempDir()
	userDir := filepath.Join(dir, "user")
	projectDir := filepath.Join(dir, "project")
	mustWriteConfig(t, userDir, "defaultPiece: review\nconcurrency: 2\n")
	mustWriteConfig(t, projectDir, "defaultPiece: ship\n")

	m, err := Load(userDir, projectDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.DefaultPiece != "ship" {
		t.Errorf("DefaultPiece = %q, want ship", m.DefaultPiece)
	}
	if m.Concurrency != 2 {
		t.Errorf("Concurrency = %d, want 2 (inherited from user layer)", m.Concurrency)
	}
}

func TestLoad_MissingFilesAreNotErrors(t *testing.T) {
	dir := t.TempDir()
	m, err := Load(filepath.Join(dir, "user"), filepath.Join(dir, "project"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Concurrency != 1 {
		t.Errorf("Concurrency = %d, want default 1", m.Concurrency)
	}
	if !m.AutoFetch {
		t.Errorf("AutoFetch = false, want default true")
	}
}

func TestResetConfig_BacksUpExisting(t *testing.T) {
	dir := t.TempDir()
	mustWriteConfig(t, dir, "defaultPiece: old\n")

	if err := ResetConfig(dir, []byte("defaultPiece: builtin\n")); err != nil {
		t.Fatalf("ResetConfig() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var sawBackup bool
	for _, e := range entries {
		if e.Name() != "config.yaml" && filepath.Ext(e.Name()) == ".old" {
			sawBackup = true
		}
	}
	if !sawBackup {
		t.Errorf("expected a .old backup file, entries = %v", entries)
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "defaultPiece: builtin\n" {
		t.Errorf("config.yaml = %q, want builtin default", data)
	}
}

func mustWriteConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
