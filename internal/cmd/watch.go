package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nrslib/takt/internal/scheduler"
	"github.com/nrslib/takt/internal/style"
)

const watchPollInterval = 2 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll tasks/ for new task files and run each as it appears",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// runWatch polls ProjectRoot/tasks for *.md files, enqueues and runs each
// once, and exits cleanly on SIGINT/SIGTERM. A fixed poll interval keeps
// this a plain stdlib loop rather than pulling in a filesystem
// notification dependency for a low-frequency, non-interactive command.
func runWatch(c *cobra.Command, args []string) error {
	a, err := newAppContext()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		style.PrintInfo("stopping watch")
		cancel()
	}()

	dir := filepath.Join(a.ProjectRoot, "tasks")
	seen := make(map[string]bool)

	style.PrintInfo("watching %s", dir)
	ticker := time.NewTicker(watchPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			entries, err := os.ReadDir(dir)
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return fmt.Errorf("reading %s: %w", dir, err)
			}
			for _, e := range entries {
				if e.IsDir() || filepath.Ext(e.Name()) != ".md" || seen[e.Name()] {
					continue
				}
				seen[e.Name()] = true
				path := filepath.Join(dir, e.Name())
				if err := processWatchedTask(ctx, a, path); err != nil {
					style.PrintError("%s: %s", e.Name(), err)
				}
			}
		}
	}
}

func processWatchedTask(ctx context.Context, a *appContext, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	name := filepath.Base(path)
	task := scheduler.TaskRecord{
		Name:      name,
		Content:   string(data),
		Piece:     a.Config.DefaultPiece,
		Status:    scheduler.StatusRunning,
		CreatedAt: time.Now().UTC(),
	}
	style.PrintInfo("running %s", name)
	if err := a.runTask(ctx, &task, a.ProjectRoot); err != nil {
		return err
	}
	style.PrintSuccess("%s finished", name)
	return nil
}
