package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	statusOnline  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusOffline = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	statusAlert   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("254")).Background(lipgloss.Color("237"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	headerCellStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))
)
