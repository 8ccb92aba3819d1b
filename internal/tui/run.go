package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nrslib/takt/internal/facet"
	"github.com/nrslib/takt/internal/repertoire"
	"github.com/nrslib/takt/internal/scheduler"
)

// RunTaskList launches the task browser over tasks and returns the task the
// user picked with enter, or nil if they quit without selecting one.
func RunTaskList(tasks []scheduler.TaskRecord) (*scheduler.TaskRecord, error) {
	m := NewTaskListModel(tasks)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, fmt.Errorf("running task browser: %w", err)
	}
	return final.(*TaskListModel).Selected(), nil
}

// RunRepertoireList launches the installed-packages browser.
func RunRepertoireList(packages []repertoire.Package) error {
	_, err := tea.NewProgram(NewRepertoireListModel(packages)).Run()
	if err != nil {
		return fmt.Errorf("running repertoire browser: %w", err)
	}
	return nil
}

// RunCatalog launches the facet catalog browser over entries of typ,
// resolved through r.
func RunCatalog(r *facet.Resolver, typ facet.Type, entries []facet.Entry) error {
	_, err := tea.NewProgram(NewCatalogModel(r, typ, entries)).Run()
	if err != nil {
		return fmt.Errorf("running catalog browser: %w", err)
	}
	return nil
}
