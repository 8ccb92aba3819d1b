package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nrslib/takt/internal/config"
	"github.com/nrslib/takt/internal/style"
)

var switchCmd = &cobra.Command{
	Use:   "switch <piece>",
	Short: "Set the default piece",
	Args:  cobra.ExactArgs(1),
	RunE:  runSwitch,
}

func init() {
	rootCmd.AddCommand(switchCmd)
}

func runSwitch(c *cobra.Command, args []string) error {
	a, err := newAppContext()
	if err != nil {
		return err
	}
	name := args[0]
	if _, err := a.findPiece(name); err != nil {
		fmt.Printf("piece %q not found\n", name)
		return nil
	}
	if err := config.SetDefaultPiece(a.ProjectTaktDir, name); err != nil {
		return err
	}
	style.PrintSuccess("default piece set to %s", name)
	return nil
}
