package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nrslib/takt/internal/config"
	"github.com/nrslib/takt/internal/style"
)

var resetCmd = &cobra.Command{
	Use:   "reset <config|categories>",
	Short: "Reset project configuration or piece categories to builtin defaults",
	Args:  cobra.ExactArgs(1),
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(c *cobra.Command, args []string) error {
	a, err := newAppContext()
	if err != nil {
		return err
	}

	switch args[0] {
	case "config":
		if err := config.ResetConfig(a.ProjectTaktDir, builtinDefaultConfig); err != nil {
			return err
		}
		style.PrintSuccess("config reset to defaults")
	case "categories":
		if err := config.ResetCategories(a.ProjectTaktDir); err != nil {
			return err
		}
		style.PrintSuccess("piece categories reset")
	default:
		style.PrintError("unknown reset target %q (expected config or categories)", args[0])
	}
	return nil
}

// builtinDefaultConfig is the config.yaml content `reset config` restores.
var builtinDefaultConfig = []byte(`permissionMode: default
concurrency: 1
`)
