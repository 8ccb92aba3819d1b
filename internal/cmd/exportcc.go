package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nrslib/takt/internal/style"
)

var exportCCCmd = &cobra.Command{
	Use:   "export-cc",
	Short: "Deploy takt skill files under $HOME/.claude/skills/takt/",
	Args:  cobra.NoArgs,
	RunE:  runExportCC,
}

func init() {
	rootCmd.AddCommand(exportCCCmd)
}

func runExportCC(c *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dest := filepath.Join(home, ".claude", "skills", "takt")
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	for name, content := range ccSkillFiles {
		if err := os.WriteFile(filepath.Join(dest, name), []byte(content), 0644); err != nil {
			return err
		}
	}
	style.PrintSuccess("exported skill files to %s", dest)
	return nil
}

var ccSkillFiles = map[string]string{
	"SKILL.md": `---
name: takt
description: Run iterative multi-step agent pieces against this repository via the takt CLI.
---

Use ` + "`takt <task> --piece <piece>`" + ` to run a piece against a task description,
` + "`takt add <task>`" + ` to enqueue one for later, and ` + "`takt list`" + ` to browse
the queue. See ` + "`takt catalog`" + ` for the personas, policies, and output
contracts a piece can reference.
`,
}
