package repertoire

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nrslib/takt/internal/gitutil"
)

// TargetDir is where an installed package lives: <root>/@<owner>/<repo>.
func TargetDir(root, owner, repo string) string {
	return filepath.Join(root, "@"+owner, repo)
}

// Options configures Install.
type Options struct {
	Root           string // repertoire root directory
	Owner, Repo    string
	Ref            string // git ref to clone (branch, tag, or commit-ish)
	SourceURL      string // overrides the default https://github.com/<owner>/<repo>.git
	RunningVersion string // this build's own version, for takt.min_version checks
}

// Install fetches source's Ref into a staging directory, validates its
// manifest, then atomically swaps it in for any existing package at the
// same coordinates.
func Install(opts Options, now time.Time) (*Lockfile, error) {
	target := TargetDir(opts.Root, opts.Owner, opts.Repo)
	if err := Recover(target); err != nil {
		return nil, fmt.Errorf("recovering %s before install: %w", target, err)
	}

	tmp := target + ".tmp"
	_ = os.RemoveAll(tmp)

	url := opts.SourceURL
	if url == "" {
		url = fmt.Sprintf("https://github.com/%s/%s.git", opts.Owner, opts.Repo)
	}
	if err := gitutil.Clone(url, tmp, gitutil.CloneOptions{Branch: opts.Ref}); err != nil {
		_ = os.RemoveAll(tmp)
		return nil, fmt.Errorf("fetching %s/%s@%s: %w", opts.Owner, opts.Repo, opts.Ref, err)
	}

	if _, err := LoadManifest(tmp, opts.RunningVersion); err != nil {
		_ = os.RemoveAll(tmp)
		return nil, err
	}

	commit, err := gitutil.New(tmp).RevParse("HEAD")
	if err != nil {
		_ = os.RemoveAll(tmp)
		return nil, fmt.Errorf("resolving installed commit: %w", err)
	}

	// .git no longer has any purpose once installed and would otherwise
	// confuse anything that walks the repertoire tree looking for repos.
	_ = os.RemoveAll(filepath.Join(tmp, ".git"))

	bak := target + ".bak"
	if dirExists(target) {
		if err := os.Rename(target, bak); err != nil {
			_ = os.RemoveAll(tmp)
			return nil, fmt.Errorf("backing up existing package: %w", err)
		}
	}
	if err := os.Rename(tmp, target); err != nil {
		if dirExists(bak) {
			_ = os.Rename(bak, target)
		}
		return nil, fmt.Errorf("promoting staged package: %w", err)
	}
	_ = os.RemoveAll(bak)

	lock := &Lockfile{
		Source:     fmt.Sprintf("github:%s/%s", opts.Owner, opts.Repo),
		Ref:        opts.Ref,
		Commit:     commit,
		ImportedAt: now.UTC(),
	}
	if err := WriteLockfile(target, lock); err != nil {
		return nil, fmt.Errorf("writing lockfile: %w", err)
	}
	return lock, nil
}

// Recover restores target to a consistent state after a crash mid-install.
// The end state is always exactly target/ or neither, never a lingering
// .tmp/ or .bak/.
func Recover(target string) error {
	tmp := target + ".tmp"
	bak := target + ".bak"
	tmpExists := dirExists(tmp)
	bakExists := dirExists(bak)
	targetExists := dirExists(target)

	if tmpExists && bakExists && !targetExists {
		// Crashed after the old package was moved aside but before the
		// staged one was promoted: finish the swap.
		if err := os.Rename(tmp, target); err != nil {
			return err
		}
		return os.RemoveAll(bak)
	}

	if tmpExists {
		// Any other state with a leftover .tmp means the fetch/validate
		// phase never reached a completed swap; it's safe to discard.
		if err := os.RemoveAll(tmp); err != nil {
			return err
		}
	}

	if bakExists {
		if !targetExists {
			// The only surviving copy is the backup; restore it.
			return os.Rename(bak, target)
		}
		// target is already complete; bak is a stray leftover.
		return os.RemoveAll(bak)
	}

	return nil
}
