package style

import "github.com/charmbracelet/lipgloss"

// Shared styles used across the CLI and TUI. Kept few and reused rather than
// defined ad hoc at each call site.
var (
	Bold    = lipgloss.NewStyle().Bold(true)
	Dim     = lipgloss.NewStyle().Faint(true)
	Good    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	Warn    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	Bad     = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	Info    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	Persona = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
)
