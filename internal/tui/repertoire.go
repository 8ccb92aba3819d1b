package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nrslib/takt/internal/repertoire"
)

// RepertoireListModel browses installed repertoire packages, showing each
// package's source and pinned ref/commit.
type RepertoireListModel struct {
	packages []repertoire.Package
	cursor   int

	keys     KeyMap
	help     help.Model
	showHelp bool

	quitting bool
}

// NewRepertoireListModel builds a browser over installed packages.
func NewRepertoireListModel(packages []repertoire.Package) *RepertoireListModel {
	return &RepertoireListModel{
		packages: packages,
		keys:     DefaultKeyMap(),
		help:     help.New(),
	}
}

func (m *RepertoireListModel) Init() tea.Cmd { return nil }

func (m *RepertoireListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c", "enter":
			m.quitting = true
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.packages)-1 {
				m.cursor++
			}
			return m, nil
		case "g":
			m.cursor = 0
			return m, nil
		case "G":
			m.cursor = len(m.packages) - 1
			return m, nil
		}
	}
	return m, nil
}

func (m *RepertoireListModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("installed packages"))
	b.WriteString("\n\n")

	if len(m.packages) == 0 {
		b.WriteString(DimStyle.Render("no packages installed"))
		b.WriteString("\n")
	}

	for i, p := range m.packages {
		cursor := "  "
		if i == m.cursor {
			cursor = SelectedStyle.Render("▶ ")
		}
		ref := "?"
		commit := ""
		if p.Lock != nil {
			ref = p.Lock.Ref
			if len(p.Lock.Commit) >= 7 {
				commit = p.Lock.Commit[:7]
			} else {
				commit = p.Lock.Commit
			}
		}
		b.WriteString(cursor)
		b.WriteString(fmt.Sprintf("%-40s %-20s %s\n", "@"+p.Owner+"/"+p.Repo, ref, DimStyle.Render(commit)))
	}

	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}
