package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nrslib/takt/internal/provider"
	"github.com/nrslib/takt/internal/scheduler"
	"github.com/nrslib/takt/internal/style"
)

var rootCmd = &cobra.Command{
	Use:   "takt <task>",
	Short: "Run iterative multi-step LLM agent pieces against a repository",
	Args:  cobra.ArbitraryArgs,
	RunE:  runRootTask,
}

var (
	flagPiece          string
	flagProvider       string
	flagCreateWorktree string
)

func init() {
	rootCmd.Flags().StringVar(&flagPiece, "piece", "", "piece to run against the task")
	rootCmd.Flags().StringVar(&flagProvider, "provider", "", "override the resolved provider for this run")
	rootCmd.Flags().StringVar(&flagCreateWorktree, "create-worktree", "", "removed; set the task's worktree field instead")
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func runRootTask(c *cobra.Command, args []string) error {
	if flagCreateWorktree != "" {
		style.PrintError("--create-worktree has been removed")
		style.PrintHint("set the task's worktree field in tasks.yaml instead (absent/false/true/path)")
		return fmt.Errorf("--create-worktree is no longer supported")
	}
	if flagPiece == "" {
		return fmt.Errorf("--piece is required")
	}
	if len(args) == 0 {
		return fmt.Errorf("a task description is required")
	}

	a, err := newAppContext()
	if err != nil {
		return err
	}

	task := scheduler.TaskRecord{
		Name:      args[0],
		Content:   joinArgs(args),
		Piece:     flagPiece,
		Status:    scheduler.StatusRunning,
		CreatedAt: time.Now().UTC(),
	}

	if flagProvider != "" {
		a.CLIProvider = provider.Layer{Provider: flagProvider}
	}

	workDir := a.ProjectRoot
	ctx := context.Background()
	if err := a.runTask(ctx, &task, workDir); err != nil {
		style.PrintError("%s", err)
		return err
	}
	style.PrintSuccess("%s finished", task.Name)
	return nil
}

func joinArgs(args []string) string {
	s := args[0]
	for _, a := range args[1:] {
		s += " " + a
	}
	return s
}
