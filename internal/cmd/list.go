package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nrslib/takt/internal/style"
	"github.com/nrslib/takt/internal/tui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Browse pending, failed, and completed tasks interactively",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(c *cobra.Command, args []string) error {
	a, err := newAppContext()
	if err != nil {
		return err
	}
	q, err := a.store().Load()
	if err != nil {
		return err
	}
	selected, err := tui.RunTaskList(q.Tasks)
	if err != nil {
		return err
	}
	if selected != nil {
		style.PrintInfo("selected %s (%s)", selected.Name, selected.Status)
	}
	return nil
}
