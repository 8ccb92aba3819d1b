package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nrslib/takt/internal/ghapi"
	"github.com/nrslib/takt/internal/scheduler"
	"github.com/nrslib/takt/internal/style"
)

var flagAddPR string

var addCmd = &cobra.Command{
	Use:   "add <task>",
	Short: "Enqueue a task to run later",
	Args:  cobra.ArbitraryArgs,
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&flagAddPR, "pr", "", "build the task from a PR URL's review comments")
	rootCmd.AddCommand(addCmd)
}

func runAdd(c *cobra.Command, args []string) error {
	a, err := newAppContext()
	if err != nil {
		return err
	}

	var name, content string
	if flagAddPR != "" {
		comments, err := ghapi.FetchReviewComments(context.Background(), flagAddPR)
		if err != nil {
			return err
		}
		if len(comments) == 0 {
			return fmt.Errorf("PR %s has no review comments", flagAddPR)
		}
		content = renderReviewComments(comments)
		name = "pr-review: " + flagAddPR
	} else {
		if len(args) == 0 {
			return fmt.Errorf("a task description is required")
		}
		name = args[0]
		content = joinArgs(args)
	}

	task := scheduler.TaskRecord{
		Name:      name,
		Content:   content,
		Piece:     a.Config.DefaultPiece,
		Status:    scheduler.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.store().Append(task); err != nil {
		return err
	}
	style.PrintSuccess("queued %s", task.Name)
	return nil
}

func renderReviewComments(comments []ghapi.Comment) string {
	s := "Address the following review comments:\n"
	for _, c := range comments {
		s += fmt.Sprintf("- %s (%s): %s\n", c.Author, c.Path, c.Body)
	}
	return s
}
