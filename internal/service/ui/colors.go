package ui

import "github.com/charmbracelet/lipgloss"

// ANSI palette indexes rather than hex colors so the output follows the
// user's terminal theme.
var (
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle is dimmed for secondary text.
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	AssistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	WarnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)
