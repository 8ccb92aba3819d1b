package repertoire

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRemove_DeletesPackageAndEmptyOwnerDir(t *testing.T) {
	root := t.TempDir()
	target := TargetDir(root, "acme", "pack")
	if err := os.MkdirAll(target, 0755); err != nil {
		t.Fatal(err)
	}

	if err := Remove(root, "acme", "pack"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("package dir not removed")
	}
	if _, err := os.Stat(filepath.Dir(target)); !os.IsNotExist(err) {
		t.Error("empty @acme dir not removed")
	}
}

func TestRemove_KeepsOwnerDirWithOtherPackages(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(TargetDir(root, "acme", "pack"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(TargetDir(root, "acme", "other"), 0755); err != nil {
		t.Fatal(err)
	}

	if err := Remove(root, "acme", "pack"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(TargetDir(root, "acme", "pack"))); err != nil {
		t.Error("@acme dir removed despite still having a package")
	}
}

func TestRemove_MissingPackageErrors(t *testing.T) {
	root := t.TempDir()
	if err := Remove(root, "acme", "ghost"); err == nil {
		t.Fatal("expected error removing a package that isn't installed")
	}
}

func TestFindReferencingPieces_MatchesFromField(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "review.yaml"), []byte("name: review\nfrom: \"@acme/pack\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "fix.yaml"), []byte("name: fix\n"), 0644); err != nil {
		t.Fatal(err)
	}

	refs, err := FindReferencingPieces([]string{dir}, "acme", "pack")
	if err != nil {
		t.Fatalf("FindReferencingPieces() error = %v", err)
	}
	if len(refs) != 1 || refs[0] != filepath.Join(dir, "review.yaml") {
		t.Errorf("refs = %v", refs)
	}
}

func TestFindReferencingPieces_MissingDirIgnored(t *testing.T) {
	refs, err := FindReferencingPieces([]string{filepath.Join(t.TempDir(), "nope")}, "acme", "pack")
	if err != nil {
		t.Fatalf("FindReferencingPieces() error = %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("refs = %v, want empty", refs)
	}
}

func TestList_SortsByOwnerThenRepo(t *testing.T) {
	root := t.TempDir()
	for _, p := range []struct{ owner, repo string }{
		{"zeta", "pack"}, {"acme", "widgets"}, {"acme", "pack"},
	} {
		target := TargetDir(root, p.owner, p.repo)
		if err := os.MkdirAll(target, 0755); err != nil {
			t.Fatal(err)
		}
		lock := &Lockfile{Source: "https://github.com/" + p.owner + "/" + p.repo + ".git", Ref: "main", Commit: "abcdef1234"}
		if err := WriteLockfile(target, lock); err != nil {
			t.Fatal(err)
		}
	}

	packages, err := List(root)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(packages) != 3 {
		t.Fatalf("got %d packages, want 3", len(packages))
	}
	want := []string{"acme/pack", "acme/widgets", "zeta/pack"}
	for i, p := range packages {
		got := p.Owner + "/" + p.Repo
		if got != want[i] {
			t.Errorf("packages[%d] = %s, want %s", i, got, want[i])
		}
		if p.Lock == nil || p.Lock.Ref != "main" {
			t.Errorf("packages[%d].Lock = %+v, want Ref main", i, p.Lock)
		}
	}
}

func TestList_EmptyRootReturnsNil(t *testing.T) {
	packages, err := List(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(packages) != 0 {
		t.Errorf("packages = %v, want empty", packages)
	}
}
