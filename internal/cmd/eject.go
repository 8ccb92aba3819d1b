package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nrslib/takt/internal/style"
)

var ejectCmd = &cobra.Command{
	Use:   "eject [<name>]",
	Short: "Copy a builtin piece into PROJECT/.takt/pieces/ for local editing",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEject,
}

func init() {
	rootCmd.AddCommand(ejectCmd)
}

func runEject(c *cobra.Command, args []string) error {
	a, err := newAppContext()
	if err != nil {
		return err
	}

	name := a.Config.DefaultPiece
	if len(args) == 1 {
		name = args[0]
	}
	if name == "" {
		return fmt.Errorf("a piece name is required (no default piece configured)")
	}

	var src string
	for _, dir := range a.pieceDirs() {
		candidate := filepath.Join(dir, name+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			src = candidate
			break
		}
	}
	if src == "" {
		return fmt.Errorf("piece %q not found", name)
	}

	destDir := filepath.Join(a.ProjectTaktDir, "pieces")
	dest := filepath.Join(destDir, name+".yaml")
	if _, err := os.Stat(dest); err == nil {
		style.PrintWarning("%s already ejected at %s, not overwriting", name, dest)
		return nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return err
	}
	style.PrintSuccess("ejected %s to %s", name, dest)
	return nil
}
