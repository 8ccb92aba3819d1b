package scheduler

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/nrslib/takt/internal/clone"
	"github.com/nrslib/takt/internal/gitutil"
)

// TaskRunner executes one task's piece against workDir. quiet suppresses
// interactive output for parallel-batch tasks.
type TaskRunner func(ctx context.Context, task *TaskRecord, workDir string) error

// Scheduler drains a project's task queue, sequentially or in
// concurrency-bounded batches, cloning a working copy per task when
// requested.
type Scheduler struct {
	Store *Store

	// ProjectRoot is the project's own working copy; clones are created
	// as its siblings.
	ProjectRoot string
	Sibling     string

	Concurrency int

	// DefaultWorktree is the project's configured default for tasks
	// whose record leaves the worktree field absent.
	DefaultWorktree bool

	// Interactive is false for pipeline/non-interactive invocations,
	// where clone-gating auto-falls-back instead of prompting.
	Interactive bool
	// Confirm prompts the user; nil when non-interactive.
	Confirm func(prompt string) bool

	Run TaskRunner
}

// RunBatchResult reports one task's outcome within a batch.
type RunBatchResult struct {
	Task  TaskRecord
	Error error
}

// RunPending drains the queue: sequentially when Concurrency <= 1,
// otherwise in batches of up to Concurrency tasks run concurrently.
func (s *Scheduler) RunPending(ctx context.Context) ([]RunBatchResult, error) {
	if s.Concurrency <= 1 {
		return s.runSequential(ctx)
	}
	return s.runBatches(ctx)
}

func (s *Scheduler) runSequential(ctx context.Context) ([]RunBatchResult, error) {
	var results []RunBatchResult
	for {
		task, found, err := s.claimNext()
		if err != nil {
			return results, err
		}
		if !found {
			return results, nil
		}
		err = s.execute(ctx, task, false)
		s.finish(task, err)
		results = append(results, RunBatchResult{Task: *task, Error: err})
	}
}

func (s *Scheduler) runBatches(ctx context.Context) ([]RunBatchResult, error) {
	var all []RunBatchResult
	for {
		batch, err := s.claimBatch(s.Concurrency)
		if err != nil {
			return all, err
		}
		if len(batch) == 0 {
			return all, nil
		}

		results := make([]RunBatchResult, len(batch))
		var wg sync.WaitGroup
		for i, task := range batch {
			wg.Add(1)
			go func(i int, task *TaskRecord) {
				defer wg.Done()
				err := s.execute(ctx, task, true)
				s.finish(task, err)
				results[i] = RunBatchResult{Task: *task, Error: err}
			}(i, task)
		}
		wg.Wait()
		all = append(all, results...)
	}
}

// claimNext marks the first pending task running and returns it.
func (s *Scheduler) claimNext() (*TaskRecord, bool, error) {
	var claimed *TaskRecord
	err := s.Store.WithLock(func() error {
		q, err := s.Store.Load()
		if err != nil {
			return err
		}
		for i := range q.Tasks {
			if q.Tasks[i].Status == StatusPending {
				now := time.Now().UTC()
				q.Tasks[i].Status = StatusRunning
				q.Tasks[i].StartedAt = &now
				claimed = &q.Tasks[i]
				return s.Store.SaveUnlocked(q)
			}
		}
		return nil
	})
	return claimed, claimed != nil, err
}

// claimBatch marks up to n pending tasks running in one locked pass.
func (s *Scheduler) claimBatch(n int) ([]*TaskRecord, error) {
	var claimed []*TaskRecord
	err := s.Store.WithLock(func() error {
		q, err := s.Store.Load()
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		for i := range q.Tasks {
			if len(claimed) >= n {
				break
			}
			if q.Tasks[i].Status == StatusPending {
				q.Tasks[i].Status = StatusRunning
				q.Tasks[i].StartedAt = &now
				claimed = append(claimed, &q.Tasks[i])
			}
		}
		if len(claimed) == 0 {
			return nil
		}
		return s.Store.SaveUnlocked(q)
	})
	return claimed, err
}

// finish marks task completed or failed, recording the final record back
// into tasks.yaml by name-match (a task's Name is its queue identity).
func (s *Scheduler) finish(task *TaskRecord, runErr error) {
	_ = s.Store.WithLock(func() error {
		q, err := s.Store.Load()
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		for i := range q.Tasks {
			if q.Tasks[i].Name != task.Name || q.Tasks[i].Status != StatusRunning {
				continue
			}
			q.Tasks[i].CompletedAt = &now
			if runErr != nil {
				q.Tasks[i].Status = StatusFailed
				q.Tasks[i].Failure = runErr.Error()
			} else {
				q.Tasks[i].Status = StatusCompleted
			}
			break
		}
		return s.Store.SaveUnlocked(q)
	})
}

func (s *Scheduler) execute(ctx context.Context, task *TaskRecord, quiet bool) error {
	workDir, err := s.resolveWorkDir(task)
	if err != nil {
		return err
	}
	return s.Run(ctx, task, workDir)
}

// resolveWorkDir implements clone-gating: absent worktree uses the
// project's configured default; false runs in place; true or a string
// requests a clone, subject to a readiness check that falls back to
// in-place execution (interactively confirmed, or automatically in
// pipeline mode) when the source repo isn't clone-ready.
func (s *Scheduler) resolveWorkDir(task *TaskRecord) (string, error) {
	wantClone := s.DefaultWorktree
	if task.Worktree.IsSet() {
		wantClone = task.Worktree.ShouldClone()
	}
	if !wantClone {
		return s.ProjectRoot, nil
	}

	g := gitutil.New(s.ProjectRoot)
	if !g.IsRepo() || !g.HasCommits() {
		if s.Interactive && s.Confirm != nil && s.Confirm(fmt.Sprintf("repository %s is not ready for a clone; run task %q in place instead?", s.ProjectRoot, task.Name)) {
			return s.ProjectRoot, nil
		}
		if !s.Interactive {
			return s.ProjectRoot, nil
		}
		return "", fmt.Errorf("repository not ready for a clone: task %q skipped", task.Name)
	}

	sibling := s.Sibling
	if path := task.Worktree.Path(); path != "" {
		sibling = path
	}
	res, err := clone.Create(s.ProjectRoot, clone.Options{
		Sibling: sibling,
		Issue:   task.Issue,
		Slug:    slugify(task.Name),
	}, time.Now())
	if err != nil {
		return "", fmt.Errorf("creating clone for task %q: %w", task.Name, err)
	}
	task.Branch = res.Branch
	return res.Path, nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "task"
	}
	if len(slug) > 40 {
		slug = slug[:40]
	}
	return slug
}
