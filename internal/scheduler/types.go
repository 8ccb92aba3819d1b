// Package scheduler implements the task queue: a single YAML file of
// TaskRecords executed sequentially or in bounded-concurrency batches
//.
package scheduler

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Status is a task's lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Worktree is the task record's tri-state worktree field: absent (use the
// project default), false (run in place), or true/a string path (clone).
// See DESIGN.md for the resolution this implementation chose.
type Worktree struct {
	set    bool
	clone  bool
	path   string
}

// IsSet reports whether the task record specified a worktree value at all.
func (w *Worktree) IsSet() bool { return w != nil && w.set }

// ShouldClone reports whether a clone should be created. Only meaningful
// when IsSet() is true.
func (w *Worktree) ShouldClone() bool { return w != nil && w.clone }

// Path returns the explicit clone path, if the value was a string.
func (w *Worktree) Path() string {
	if w == nil {
		return ""
	}
	return w.path
}

func (w *Worktree) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!bool" {
			var b bool
			if err := value.Decode(&b); err != nil {
				return err
			}
			w.set, w.clone = true, b
			return nil
		}
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		w.set, w.clone, w.path = true, true, s
		return nil
	default:
		return fmt.Errorf("worktree: expected a bool or string, got %v", value.Tag)
	}
}

func (w Worktree) MarshalYAML() (interface{}, error) {
	if !w.set {
		return nil, nil
	}
	if w.path != "" {
		return w.path, nil
	}
	return w.clone, nil
}

// TaskRecord is one entry in tasks.yaml.
type TaskRecord struct {
	Name        string     `yaml:"name"`
	Content     string     `yaml:"content,omitempty"`
	ContentFile string     `yaml:"content_file,omitempty"`
	Piece       string     `yaml:"piece"`
	Status      Status     `yaml:"status"`
	CreatedAt   time.Time  `yaml:"created_at"`
	StartedAt   *time.Time `yaml:"started_at,omitempty"`
	CompletedAt *time.Time `yaml:"completed_at,omitempty"`
	Branch      string     `yaml:"branch,omitempty"`
	Worktree    *Worktree  `yaml:"worktree,omitempty"`
	AutoPR      bool       `yaml:"auto_pr,omitempty"`
	Issue       string     `yaml:"issue,omitempty"`
	Failure     string     `yaml:"failure,omitempty"`
}

// Queue is the on-disk shape of tasks.yaml.
type Queue struct {
	Tasks []TaskRecord `yaml:"tasks"`
}
