package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nrslib/takt/internal/config"
	"github.com/nrslib/takt/internal/style"
)

var configCmd = &cobra.Command{
	Use:   "config <mode>",
	Short: "Set the permission mode (default, sacrifice-my-pc)",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(c *cobra.Command, args []string) error {
	mode := config.PermissionPreset(args[0])
	if mode != config.PermissionDefault && mode != config.PermissionSacrificeMyPC {
		fmt.Println("Invalid mode")
		return nil
	}
	a, err := newAppContext()
	if err != nil {
		return err
	}
	if err := config.SetPermissionMode(a.ProjectTaktDir, mode); err != nil {
		return err
	}
	style.PrintSuccess("permission mode set to %s", mode)
	return nil
}
