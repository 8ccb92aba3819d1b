package repertoire

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Remove deletes an installed package and, if it was the last package under
// that owner, the now-empty @<owner>/ directory too.
func Remove(root, owner, repo string) error {
	target := TargetDir(root, owner, repo)
	if !dirExists(target) {
		return fmt.Errorf("package %s/%s is not installed", owner, repo)
	}
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("removing %s/%s: %w", owner, repo, err)
	}

	ownerDir := filepath.Dir(target)
	entries, err := os.ReadDir(ownerDir)
	if err != nil {
		return nil
	}
	if len(entries) == 0 {
		_ = os.Remove(ownerDir)
	}
	return nil
}

// Package describes one installed repertoire package for listing.
type Package struct {
	Owner string
	Repo  string
	Lock  *Lockfile
}

// List returns every installed package under root, sorted by owner then
// repo. A package whose lockfile is missing or unreadable is still listed
// with a nil Lock.
func List(root string) ([]Package, error) {
	owners, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing repertoire root: %w", err)
	}

	var out []Package
	for _, o := range owners {
		if !o.IsDir() || !strings.HasPrefix(o.Name(), "@") {
			continue
		}
		owner := strings.TrimPrefix(o.Name(), "@")
		repos, err := os.ReadDir(filepath.Join(root, o.Name()))
		if err != nil {
			continue
		}
		for _, r := range repos {
			if !r.IsDir() {
				continue
			}
			target := filepath.Join(root, o.Name(), r.Name())
			lock, _ := ReadLockfile(target)
			out = append(out, Package{Owner: owner, Repo: r.Name(), Lock: lock})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Owner != out[j].Owner {
			return out[i].Owner < out[j].Owner
		}
		return out[i].Repo < out[j].Repo
	})
	return out, nil
}

// FindReferencingPieces scans piece YAML files under pieceDirs for a
// "from: @owner/repo" reference, so callers can warn about pieces left
// pointing at a package being removed.
func FindReferencingPieces(pieceDirs []string, owner, repo string) ([]string, error) {
	want := fmt.Sprintf("@%s/%s", owner, repo)
	var refs []string
	for _, dir := range pieceDirs {
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
				continue
			}
			path := filepath.Join(dir, e.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if referencesFrom(string(data), want) {
				refs = append(refs, path)
			}
		}
	}
	return refs, nil
}

func referencesFrom(content, want string) bool {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "from:") {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(line, "from:"))
		value = strings.Trim(value, `"'`)
		if value == want {
			return true
		}
	}
	return false
}
