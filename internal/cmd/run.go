package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nrslib/takt/internal/scheduler"
	"github.com/nrslib/takt/internal/slackfmt"
	"github.com/nrslib/takt/internal/style"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drain pending tasks per the configured concurrency",
	Args:  cobra.NoArgs,
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(c *cobra.Command, args []string) error {
	a, err := newAppContext()
	if err != nil {
		return err
	}

	sched := &scheduler.Scheduler{
		Store:           a.store(),
		ProjectRoot:     a.ProjectRoot,
		Sibling:         filepath.Join(filepath.Dir(a.ProjectRoot), filepath.Base(a.ProjectRoot)+"-worktrees"),
		Concurrency:     a.Config.Concurrency,
		DefaultWorktree: a.Config.DefaultWorktree,
		Interactive:     a.Streams.IsInteractive(),
		Confirm:         a.Streams.Confirm,
		Run:             a.runTask,
	}

	results, err := sched.RunPending(context.Background())
	if err != nil {
		return err
	}
	for _, r := range results {
		status := "completed"
		if r.Error != nil {
			status = "failed"
		}
		fmt.Println(slackfmt.FormatRunSummary(slackfmt.RunSummary{
			Piece:  r.Task.Piece,
			Task:   r.Task.Name,
			Status: status,
		}))
		if r.Error != nil {
			style.PrintError("%s: %s", r.Task.Name, r.Error)
		}
	}
	return nil
}
