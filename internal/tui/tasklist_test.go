package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nrslib/takt/internal/scheduler"
)

func sampleTasks() []scheduler.TaskRecord {
	return []scheduler.TaskRecord{
		{Name: "fix login bug", Piece: "review-fix", Status: scheduler.StatusPending},
		{Name: "add retry logic", Piece: "review-fix", Status: scheduler.StatusRunning},
		{Name: "audit dependencies", Piece: "audit", Status: scheduler.StatusCompleted},
	}
}

func TestTaskListModel_DownMovesCursor(t *testing.T) {
	m := NewTaskListModel(sampleTasks())
	mdl, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	m = mdl.(*TaskListModel)
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestTaskListModel_CursorClampsAtBounds(t *testing.T) {
	m := NewTaskListModel(sampleTasks())
	for i := 0; i < 10; i++ {
		mdl, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
		m = mdl.(*TaskListModel)
	}
	if m.cursor != len(m.filtered)-1 {
		t.Errorf("cursor = %d, want %d", m.cursor, len(m.filtered)-1)
	}
}

func TestTaskListModel_FilterNarrowsResults(t *testing.T) {
	m := NewTaskListModel(sampleTasks())
	m.filter = "audit"
	m.applyFilter()
	if len(m.filtered) != 1 {
		t.Fatalf("got %d filtered, want 1", len(m.filtered))
	}
	if m.tasks[m.filtered[0]].Name != "audit dependencies" {
		t.Errorf("filtered task = %q", m.tasks[m.filtered[0]].Name)
	}
}

func TestTaskListModel_EnterSelectsCurrentTask(t *testing.T) {
	m := NewTaskListModel(sampleTasks())
	mdl, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mdl.(*TaskListModel)
	if m.Selected() == nil || m.Selected().Name != "fix login bug" {
		t.Errorf("Selected() = %v, want first task", m.Selected())
	}
	if cmd == nil {
		t.Error("expected a quit command")
	}
}

func TestTaskListModel_QuitWithoutEnterLeavesSelectedNil(t *testing.T) {
	m := NewTaskListModel(sampleTasks())
	mdl, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = mdl.(*TaskListModel)
	if m.Selected() != nil {
		t.Errorf("Selected() = %v, want nil", m.Selected())
	}
}
