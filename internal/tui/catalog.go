package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/nrslib/takt/internal/facet"
)

// CatalogModel browses one facet type's resolved entries ('s
// project/user/builtin layering), rendering the selected entry's markdown
// content with glamour.
type CatalogModel struct {
	typ      facet.Type
	entries  []facet.Entry
	resolver *facet.Resolver
	cursor   int

	renderer *glamour.TermRenderer
	preview  string

	keys     KeyMap
	help     help.Model
	showHelp bool

	quitting bool
}

// NewCatalogModel builds a browser over every entry visible under typ,
// resolved through r.
func NewCatalogModel(r *facet.Resolver, typ facet.Type, entries []facet.Entry) *CatalogModel {
	renderer, _ := glamour.NewTermRenderer(glamour.WithAutoStyle())
	m := &CatalogModel{
		typ:      typ,
		entries:  entries,
		resolver: r,
		renderer: renderer,
		keys:     DefaultKeyMap(),
		help:     help.New(),
	}
	m.renderPreview()
	return m
}

func (m *CatalogModel) Init() tea.Cmd { return nil }

func (m *CatalogModel) renderPreview() {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		m.preview = ""
		return
	}
	f, err := m.resolver.Resolve(m.typ, m.entries[m.cursor].Name)
	if err != nil {
		m.preview = DimStyle.Render(err.Error())
		return
	}
	if m.renderer == nil {
		m.preview = f.Content
		return
	}
	out, err := m.renderer.Render(f.Content)
	if err != nil {
		m.preview = f.Content
		return
	}
	m.preview = out
}

func (m *CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
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
				m.renderPreview()
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				m.renderPreview()
			}
			return m, nil
		case "g":
			m.cursor = 0
			m.renderPreview()
			return m, nil
		case "G":
			m.cursor = len(m.entries) - 1
			m.renderPreview()
			return m, nil
		}
	}
	return m, nil
}

func (m *CatalogModel) View() string {
	if m.quitting {
		return ""
	}

	var list strings.Builder
	list.WriteString(TitleStyle.Render(fmt.Sprintf("catalog: %s", m.typ)))
	list.WriteString("\n\n")
	if len(m.entries) == 0 {
		list.WriteString(DimStyle.Render("no entries found"))
	}
	for i, e := range m.entries {
		cursor := "  "
		if i == m.cursor {
			cursor = SelectedStyle.Render("▶ ")
		}
		list.WriteString(cursor)
		list.WriteString(fmt.Sprintf("%-30s %s\n", e.Name, DimStyle.Render(e.Layer)))
	}

	var b strings.Builder
	b.WriteString(list.String())
	b.WriteString("\n")
	b.WriteString(BorderStyle.Render(m.preview))
	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}
