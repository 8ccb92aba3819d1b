package tui

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("252"))

	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("246"))

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	FilterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	PendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	RunningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	CompletedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	FailedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
)
