// Package tui provides interactive bubbletea browsers for `takt list`,
// `takt repertoire list`, and `takt catalog`. Unlike the activity-stream
// TUI it's grounded on, these browsers render data the caller already has
// in hand (the task queue, installed packages, resolved facets) rather than
// subscribing to a live event feed, so there is no fetch command or
// background refresh loop.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nrslib/takt/internal/scheduler"
)

// TaskListModel browses the task queue, filterable by status
// and fuzzy name.
type TaskListModel struct {
	tasks     []scheduler.TaskRecord
	filtered  []int // indices into tasks
	cursor    int
	filter    string
	filtering bool

	keys     KeyMap
	help     help.Model
	showHelp bool
	width    int
	height   int

	selected *scheduler.TaskRecord
	quitting bool
}

// NewTaskListModel builds a browser over tasks, most-recently-created
// first.
func NewTaskListModel(tasks []scheduler.TaskRecord) *TaskListModel {
	m := &TaskListModel{
		tasks: tasks,
		keys:  DefaultKeyMap(),
		help:  help.New(),
	}
	m.applyFilter()
	return m
}

// Selected returns the task the user picked with enter, or nil if they quit
// without selecting one.
func (m *TaskListModel) Selected() *scheduler.TaskRecord {
	return m.selected
}

func (m *TaskListModel) Init() tea.Cmd { return nil }

func (m *TaskListModel) applyFilter() {
	m.filtered = m.filtered[:0]
	needle := strings.ToLower(m.filter)
	for i, t := range m.tasks {
		if needle == "" || strings.Contains(strings.ToLower(t.Name), needle) ||
			strings.Contains(strings.ToLower(string(t.Status)), needle) {
			m.filtered = append(m.filtered, i)
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *TaskListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "enter", "esc":
				m.filtering = false
			case "backspace":
				if len(m.filter) > 0 {
					m.filter = m.filter[:len(m.filter)-1]
				}
				m.applyFilter()
			default:
				if len(msg.String()) == 1 {
					m.filter += msg.String()
					m.applyFilter()
				}
			}
			return m, nil
		}

		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "/":
			m.filtering = true
			return m, nil
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		case "g":
			m.cursor = 0
			return m, nil
		case "G":
			m.cursor = len(m.filtered) - 1
			return m, nil
		case "enter":
			if m.cursor >= 0 && m.cursor < len(m.filtered) {
				t := m.tasks[m.filtered[m.cursor]]
				m.selected = &t
			}
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *TaskListModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("takt tasks"))
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(DimStyle.Render("no tasks match"))
		b.WriteString("\n")
	}

	for row, idx := range m.filtered {
		t := m.tasks[idx]
		cursor := "  "
		if row == m.cursor {
			cursor = SelectedStyle.Render("▶ ")
		}
		b.WriteString(cursor)
		b.WriteString(statusStyle(t.Status).Render(fmt.Sprintf("%-10s", t.Status)))
		b.WriteString(" ")
		b.WriteString(fmt.Sprintf("%-30s", truncate(t.Name, 30)))
		b.WriteString(" ")
		b.WriteString(DimStyle.Render(t.Piece))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.filtering {
		b.WriteString(FilterStyle.Render("filter: " + m.filter + "█"))
	} else if m.filter != "" {
		b.WriteString(FilterStyle.Render(fmt.Sprintf("filter: %s (%d matches)", m.filter, len(m.filtered))))
	}
	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}

	return b.String()
}

func statusStyle(s scheduler.Status) lipgloss.Style {
	switch s {
	case scheduler.StatusPending:
		return PendingStyle
	case scheduler.StatusRunning:
		return RunningStyle
	case scheduler.StatusCompleted:
		return CompletedStyle
	case scheduler.StatusFailed:
		return FailedStyle
	default:
		return DimStyle
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
