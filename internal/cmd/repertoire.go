package cmd

import (
	"fmt"
	"regexp"
	"time"

	"github.com/spf13/cobra"

	"github.com/nrslib/takt/internal/repertoire"
	"github.com/nrslib/takt/internal/style"
	"github.com/nrslib/takt/internal/tui"
)

var repertoireCmd = &cobra.Command{
	Use:   "repertoire",
	Short: "Manage installed repertoire packages",
}

var repertoireAddCmd = &cobra.Command{
	Use:   "add github:<owner>/<repo>[@<ref>]",
	Args:  cobra.ExactArgs(1),
	RunE:  runRepertoireAdd,
}

var repertoireRemoveCmd = &cobra.Command{
	Use:   "remove @<owner>/<repo>",
	Args:  cobra.ExactArgs(1),
	RunE:  runRepertoireRemove,
}

var repertoireListCmd = &cobra.Command{
	Use:   "list",
	Args:  cobra.NoArgs,
	RunE:  runRepertoireList,
}

func init() {
	repertoireCmd.AddCommand(repertoireAddCmd, repertoireRemoveCmd, repertoireListCmd)
	rootCmd.AddCommand(repertoireCmd)
}

var repertoireAddPattern = regexp.MustCompile(`^github:([^/]+)/([^@]+)(?:@(.+))?$`)

func runRepertoireAdd(c *cobra.Command, args []string) error {
	m := repertoireAddPattern.FindStringSubmatch(args[0])
	if m == nil {
		return fmt.Errorf("expected github:<owner>/<repo>[@<ref>], got %q", args[0])
	}
	owner, repo, ref := m[1], m[2], m[3]
	if ref == "" {
		ref = "main"
	}

	a, err := newAppContext()
	if err != nil {
		return err
	}

	if a.Streams.IsInteractive() {
		if !a.Streams.Confirm(fmt.Sprintf("install %s/%s@%s into the repertoire?", owner, repo, ref)) {
			return nil
		}
	}

	lock, err := repertoire.Install(repertoire.Options{
		Root:           a.RepertoireRoot,
		Owner:          owner,
		Repo:           repo,
		Ref:            ref,
		RunningVersion: Version,
	}, time.Now())
	if err != nil {
		return err
	}
	style.PrintSuccess("installed %s/%s at %s", owner, repo, lock.Commit[:min(7, len(lock.Commit))])
	return nil
}

var repertoireRemovePattern = regexp.MustCompile(`^@([^/]+)/(.+)$`)

func runRepertoireRemove(c *cobra.Command, args []string) error {
	m := repertoireRemovePattern.FindStringSubmatch(args[0])
	if m == nil {
		return fmt.Errorf("expected @<owner>/<repo>, got %q", args[0])
	}
	owner, repo := m[1], m[2]

	a, err := newAppContext()
	if err != nil {
		return err
	}

	refs, err := repertoire.FindReferencingPieces(a.pieceDirs(), owner, repo)
	if err != nil {
		return err
	}
	if len(refs) > 0 {
		style.PrintWarning("referenced by pieces: %v", refs)
	}

	if a.Streams.IsInteractive() {
		if !a.Streams.Confirm(fmt.Sprintf("remove @%s/%s?", owner, repo)) {
			return nil
		}
	}

	if err := repertoire.Remove(a.RepertoireRoot, owner, repo); err != nil {
		return err
	}
	style.PrintSuccess("removed @%s/%s", owner, repo)
	return nil
}

func runRepertoireList(c *cobra.Command, args []string) error {
	a, err := newAppContext()
	if err != nil {
		return err
	}
	packages, err := repertoire.List(a.RepertoireRoot)
	if err != nil {
		return err
	}
	return tui.RunRepertoireList(packages)
}
