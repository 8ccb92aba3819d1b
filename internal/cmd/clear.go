package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nrslib/takt/internal/style"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove session state",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

// runClear deletes PROJECT/.takt/runs, the tree of per-run session logs
// written by sessionlog.Path. The task queue and config are untouched.
func runClear(c *cobra.Command, args []string) error {
	a, err := newAppContext()
	if err != nil {
		return err
	}
	runsDir := filepath.Join(a.ProjectTaktDir, "runs")
	if err := os.RemoveAll(runsDir); err != nil {
		return err
	}
	style.PrintSuccess("cleared session state")
	return nil
}
