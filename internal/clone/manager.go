// Package clone creates isolated git clones for task execution:
// sibling-directory placement, branch naming, reference clones with a
// shallow-reference fallback, and origin detachment.
package clone

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nrslib/takt/internal/gitutil"
)

// Submodules configures --recurse-submodules handling on the clone.
type Submodules struct {
	All   bool
	Paths []string
}

// Options configures one clone.
type Options struct {
	// Sibling is the directory the clone is created under (a sibling of
	// the source working copy).
	Sibling string

	// Issue, when non-empty, is folded into the directory and branch
	// names.
	Issue string
	Slug  string

	// Branch, when non-empty, is the branch to check out instead of the
	// auto-generated one (used when resuming a task's existing branch).
	Branch string

	AutoFetch  bool
	Submodules Submodules
}

// Result describes a created clone.
type Result struct {
	Path   string
	Branch string
	Base   string
}

// shallowReferenceErr is the stderr substring git emits when --reference
// points at a shallow repository step 2's fallback rule.
const shallowReferenceErr = "reference repository is shallow"

// Create clones source into a fresh sibling directory and checks out a
// branch for the task, per the ordered steps of
func Create(source string, opts Options, now time.Time) (*Result, error) {
	src := gitutil.New(source)

	base, ok := src.TryRemoteDefaultBranch()
	if !ok {
		current, err := src.CurrentBranch()
		if err != nil {
			return nil, fmt.Errorf("resolving base branch: %w", err)
		}
		base = current
	}

	timestamp := now.UTC().Format("20060102-150405")
	dest := filepath.Join(opts.Sibling, destName(timestamp, opts.Issue, opts.Slug))
	branch := opts.Branch
	if branch == "" {
		branch = branchName(timestamp, opts.Issue, opts.Slug)
	}

	cloneOpts := gitutil.CloneOptions{
		Reference:  source,
		Dissociate: true,
		Branch:     base,
	}
	if opts.Submodules.All {
		cloneOpts.RecurseAll = true
	} else {
		cloneOpts.RecursePaths = opts.Submodules.Paths
	}

	if err := gitutil.Clone(source, dest, cloneOpts); err != nil {
		if gitErr, isGitErr := err.(*gitutil.Error); isGitErr && strings.Contains(gitErr.Stderr, shallowReferenceErr) {
			cloneOpts.Reference = ""
			cloneOpts.Dissociate = false
			if err := gitutil.Clone(source, dest, cloneOpts); err != nil {
				return nil, fmt.Errorf("cloning %s (shallow-reference fallback): %w", source, err)
			}
		} else {
			return nil, fmt.Errorf("cloning %s: %w", source, err)
		}
	}

	dst := gitutil.New(dest)
	if err := dst.RemoteRemove("origin"); err != nil {
		return nil, fmt.Errorf("detaching clone from origin: %w", err)
	}

	propagateIdentity(src, dst)

	if opts.AutoFetch {
		if err := src.Fetch("origin"); err == nil {
			if commit, err := src.RevParse("origin/" + base); err == nil {
				_ = dst.ResetHard(commit)
			}
		}
		// Network failures during auto-fetch are non-fatal: the clone
		// already sits at whatever commit the reference clone produced.
	}

	if err := setupBranch(src, dst, branch, base); err != nil {
		return nil, fmt.Errorf("setting up branch %q: %w", branch, err)
	}

	return &Result{Path: dest, Branch: branch, Base: base}, nil
}

// propagateIdentity copies user.name/user.email from source to dest,
// silently skipping values that are unset.
func propagateIdentity(src, dst *gitutil.Git) {
	if name, err := src.ConfigGet("user.name"); err == nil && name != "" {
		_ = dst.ConfigSet("user.name", name)
	}
	if email, err := src.ConfigGet("user.email"); err == nil && email != "" {
		_ = dst.ConfigSet("user.email", email)
	}
}

// setupBranch checks out branch in dst: the source's local branch if it
// exists there, the same-named remote-tracking branch if that exists
// instead, or a new branch cut from base.
func setupBranch(src, dst *gitutil.Git, branch, base string) error {
	if src.BranchExists(branch) {
		return dst.CheckoutBranch(branch)
	}
	if src.RemoteTrackingBranchExists(branch) {
		return dst.CheckoutBranch(branch)
	}
	return dst.CheckoutNewBranch(branch, base)
}

func destName(timestamp, issue, slug string) string {
	if issue != "" {
		return fmt.Sprintf("%s-%s-%s", timestamp, issue, slug)
	}
	return fmt.Sprintf("%s-%s", timestamp, slug)
}

func branchName(timestamp, issue, slug string) string {
	if issue != "" {
		return fmt.Sprintf("takt/%s/%s", issue, slug)
	}
	return fmt.Sprintf("takt/%s-%s", timestamp, slug)
}
