package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)

	columnTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true)

	columnStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Width(30)

	taskIDStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	statusStyles = map[string]lipgloss.Style{
		"todo":        lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		"in_progress": lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		"blocked":     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"completed":   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"refused":     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}

	logStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)
)
