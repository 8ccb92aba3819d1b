package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nrslib/takt/internal/analytics"
	"github.com/nrslib/takt/internal/engine"
	"github.com/nrslib/takt/internal/movement"
	"github.com/nrslib/takt/internal/scheduler"
	"github.com/nrslib/takt/internal/sessionlog"
)

func (a *appContext) analyticsWriter() *analytics.Writer {
	return analytics.NewWriter(userHomeDir())
}

func userHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// runTask builds a fresh invoker and PieceEngine for task and drives it to
// completion inside workDir. It satisfies scheduler.TaskRunner.
func (a *appContext) runTask(ctx context.Context, task *scheduler.TaskRecord, workDir string) error {
	p, err := a.findPiece(task.Piece)
	if err != nil {
		return err
	}

	runID := sessionlog.NewRunID()
	logPath := sessionlog.Path(a.ProjectTaktDir, runID)
	log, err := sessionlog.Open(logPath)
	if err != nil {
		return fmt.Errorf("opening session log: %w", err)
	}
	defer log.Close()

	inv := newInvoker(p, a.Config, a.CLIProvider, workDir)
	moveEngine := movement.NewEngine(inv.Invoke)

	content := task.Content
	if task.ContentFile != "" {
		resolved, err := resolveContentFile(a.ProjectRoot, task.ContentFile)
		if err != nil {
			return err
		}
		content = resolved
	}

	base := movement.PromptContext{
		Task:         content,
		ReportDir:    task.Name,
		ProjectRoot:  a.ProjectRoot,
		WorkDir:      workDir,
		Policies:     p.Policies,
		Knowledge:    p.Knowledge,
		Instructions: p.Instructions,
		ReportFormat: p.ReportFormat,
	}

	pe := engine.NewPieceEngine(p, moveEngine, log, buildJudgeFunc(inv), base)
	pe.Analytics = a.analyticsWriter()

	return pe.Run(ctx)
}

func resolveContentFile(projectRoot, contentFile string) (string, error) {
	path := contentFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectRoot, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading content_file %s: %w", contentFile, err)
	}
	return string(data), nil
}
