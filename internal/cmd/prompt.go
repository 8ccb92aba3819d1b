package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nrslib/takt/internal/movement"
	"github.com/nrslib/takt/internal/piece"
)

var promptCmd = &cobra.Command{
	Use:   "prompt <piece-or-path>",
	Short: "Render the first movement's prompt for a piece",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrompt,
}

func init() {
	rootCmd.AddCommand(promptCmd)
}

func runPrompt(c *cobra.Command, args []string) error {
	a, err := newAppContext()
	if err != nil {
		return err
	}

	arg := args[0]
	var p *piece.Piece
	if strings.HasSuffix(arg, ".yaml") {
		if _, statErr := os.Stat(arg); statErr != nil {
			fmt.Printf("piece %q not found\n", arg)
			return nil
		}
		p, err = piece.Load(arg, a.Resolver)
	} else {
		p, err = a.findPiece(arg)
		if err != nil {
			fmt.Printf("piece %q not found\n", arg)
			return nil
		}
	}
	if err != nil {
		return err
	}

	first := p.MovementByName(p.InitialMovement)
	if first == nil {
		return fmt.Errorf("piece %q has no movement named %q", arg, p.InitialMovement)
	}

	ctx := movement.PromptContext{
		Task:         "<task description>",
		ReportDir:    p.Name,
		ProjectRoot:  a.ProjectRoot,
		WorkDir:      a.ProjectRoot,
		Policies:     p.Policies,
		Knowledge:    p.Knowledge,
		Instructions: p.Instructions,
		ReportFormat: p.ReportFormat,
	}
	fmt.Println(movement.RenderPrompt(first.InstructionTemplate, ctx))
	return nil
}
