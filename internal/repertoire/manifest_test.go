package repertoire

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(content), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func TestLoadManifest_ValidWithFacetsDir(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "takt:\n  min_version: 1.0.0\n")
	if err := os.MkdirAll(filepath.Join(dir, "facets"), 0755); err != nil {
		t.Fatal(err)
	}
	m, err := LoadManifest(dir, "1.2.0")
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if m.Takt.MinVersion != "1.0.0" {
		t.Errorf("MinVersion = %q", m.Takt.MinVersion)
	}
}

func TestLoadManifest_MissingFacetsAndPiecesRejected(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "{}\n")
	if _, err := LoadManifest(dir, "1.0.0"); err == nil {
		t.Fatal("expected error for manifest with neither facets/ nor pieces/")
	}
}

func TestLoadManifest_AbsolutePathRejected(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "path: /etc\n")
	if err := os.MkdirAll(filepath.Join(dir, "pieces"), 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(dir, "1.0.0"); err == nil {
		t.Fatal("expected error for absolute path")
	}
}

func TestLoadManifest_DotDotPathRejected(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "path: ../escape\n")
	if err := os.MkdirAll(filepath.Join(dir, "pieces"), 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(dir, "1.0.0"); err == nil {
		t.Fatal("expected error for path containing ..")
	}
}

func TestLoadManifest_MinVersionTooHighRejected(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "takt:\n  min_version: 2.0.0\n")
	if err := os.MkdirAll(filepath.Join(dir, "pieces"), 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(dir, "1.9.9"); err == nil {
		t.Fatal("expected error when running version is older than min_version")
	}
}

func TestLoadManifest_MalformedMinVersionRejected(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "takt:\n  min_version: v1\n")
	if err := os.MkdirAll(filepath.Join(dir, "pieces"), 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(dir, "1.0.0"); err == nil {
		t.Fatal("expected error for malformed min_version")
	}
}

func TestLoadManifest_PathWithSubdirResolvesFacetsThere(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "path: pkg\n")
	if err := os.MkdirAll(filepath.Join(dir, "pkg", "pieces"), 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(dir, "1.0.0"); err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
}
