package scheduler

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestWorktree_UnmarshalAbsentTrueFalseString(t *testing.T) {
	var q Queue
	data := []byte(`
tasks:
  - name: a
    piece: p
    status: pending
    created_at: 2026-01-01T00:00:00Z
  - name: b
    piece: p
    status: pending
    created_at: 2026-01-01T00:00:00Z
    worktree: false
  - name: c
    piece: p
    status: pending
    created_at: 2026-01-01T00:00:00Z
    worktree: true
  - name: d
    piece: p
    status: pending
    created_at: 2026-01-01T00:00:00Z
    worktree: takt/my-branch
`)
	if err := yaml.Unmarshal(data, &q); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if q.Tasks[0].Worktree.IsSet() {
		t.Error("task a: Worktree.IsSet() = true, want false (absent)")
	}
	if !q.Tasks[1].Worktree.IsSet() || q.Tasks[1].Worktree.ShouldClone() {
		t.Error("task b: want set, ShouldClone()=false")
	}
	if !q.Tasks[2].Worktree.IsSet() || !q.Tasks[2].Worktree.ShouldClone() {
		t.Error("task c: want set, ShouldClone()=true")
	}
	if !q.Tasks[3].Worktree.IsSet() || !q.Tasks[3].Worktree.ShouldClone() || q.Tasks[3].Worktree.Path() != "takt/my-branch" {
		t.Errorf("task d: Worktree = %+v", q.Tasks[3].Worktree)
	}
}
