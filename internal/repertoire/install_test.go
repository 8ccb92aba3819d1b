package repertoire

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func initPackageRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v: %s", args, err, out)
		}
	}
	run("init", "-b", "main")
	run("config", "user.email", "test@test.com")
	run("config", "user.name", "Test User")
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte("takt:\n  min_version: 1.0.0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "pieces"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pieces", "review.yaml"), []byte("name: review\n"), 0644); err != nil {
		t.Fatal(err)
	}
	run("add", ".")
	run("commit", "-m", "initial")
	return dir
}

func TestInstall_FreshInstallWritesLockfile(t *testing.T) {
	source := initPackageRepo(t)
	root := t.TempDir()

	lock, err := Install(Options{
		Root: root, Owner: "acme", Repo: "pack", Ref: "main",
		SourceURL: source, RunningVersion: "1.2.0",
	}, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if lock.Source != "github:acme/pack" || lock.Ref != "main" || lock.Commit == "" {
		t.Errorf("lock = %+v", lock)
	}

	target := TargetDir(root, "acme", "pack")
	if _, err := os.Stat(filepath.Join(target, "pieces", "review.yaml")); err != nil {
		t.Errorf("installed content missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(target, LockfileName)); err != nil {
		t.Errorf("lockfile missing: %v", err)
	}
	if _, err := os.Stat(target + ".tmp"); !os.IsNotExist(err) {
		t.Errorf(".tmp not cleaned up")
	}
	if _, err := os.Stat(target + ".bak"); !os.IsNotExist(err) {
		t.Errorf(".bak not cleaned up")
	}
}

func TestInstall_ReinstallReplacesExisting(t *testing.T) {
	source := initPackageRepo(t)
	root := t.TempDir()
	opts := Options{Root: root, Owner: "acme", Repo: "pack", Ref: "main", SourceURL: source, RunningVersion: "1.0.0"}

	if _, err := Install(opts, time.Now().UTC()); err != nil {
		t.Fatalf("first Install() error = %v", err)
	}
	target := TargetDir(root, "acme", "pack")
	if err := os.WriteFile(filepath.Join(target, "stale.txt"), []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Install(opts, time.Now().UTC()); err != nil {
		t.Fatalf("second Install() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(target, "stale.txt")); !os.IsNotExist(err) {
		t.Errorf("stale file from previous install survived reinstall")
	}
	if _, err := os.Stat(target + ".bak"); !os.IsNotExist(err) {
		t.Errorf(".bak left behind after reinstall")
	}
}

func TestInstall_RejectsManifestMissingFacetsAndPieces(t *testing.T) {
	source := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = source
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v: %s", args, err, out)
		}
	}
	run("init", "-b", "main")
	run("config", "user.email", "test@test.com")
	run("config", "user.name", "Test User")
	if err := os.WriteFile(filepath.Join(source, ManifestName), []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	run("add", ".")
	run("commit", "-m", "initial")

	root := t.TempDir()
	if _, err := Install(Options{Root: root, Owner: "acme", Repo: "pack", Ref: "main", SourceURL: source, RunningVersion: "1.0.0"}, time.Now().UTC()); err == nil {
		t.Fatal("expected validation error")
	}
	target := TargetDir(root, "acme", "pack")
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Errorf("invalid package should not have been promoted")
	}
	if _, err := os.Stat(target + ".tmp"); !os.IsNotExist(err) {
		t.Errorf(".tmp not cleaned up after validation failure")
	}
}

func TestRecover_RemovesStaleTmp(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "@acme", "pack")
	if err := os.MkdirAll(target+".tmp", 0755); err != nil {
		t.Fatal(err)
	}
	if err := Recover(target); err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if _, err := os.Stat(target + ".tmp"); !os.IsNotExist(err) {
		t.Error(".tmp survived Recover")
	}
}

func TestRecover_FinishesInterruptedSwap(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "@acme", "pack")
	if err := os.MkdirAll(target+".tmp", 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target+".tmp", "new.txt"), []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(target+".bak", 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target+".bak", "old.txt"), []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Recover(target); err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(target, "new.txt")); err != nil {
		t.Errorf("staged content not promoted: %v", err)
	}
	if _, err := os.Stat(target + ".bak"); !os.IsNotExist(err) {
		t.Error(".bak survived Recover")
	}
	if _, err := os.Stat(target + ".tmp"); !os.IsNotExist(err) {
		t.Error(".tmp survived Recover")
	}
}

func TestRecover_RestoresBackupWhenTargetMissing(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "@acme", "pack")
	if err := os.MkdirAll(target+".bak", 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target+".bak", "old.txt"), []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Recover(target); err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(target, "old.txt")); err != nil {
		t.Errorf("backup not restored: %v", err)
	}
	if _, err := os.Stat(target + ".bak"); !os.IsNotExist(err) {
		t.Error(".bak survived Recover")
	}
}

func TestRecover_NoopWhenOnlyTargetExists(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "@acme", "pack")
	if err := os.MkdirAll(target, 0755); err != nil {
		t.Fatal(err)
	}
	if err := Recover(target); err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("target removed by Recover: %v", err)
	}
}
