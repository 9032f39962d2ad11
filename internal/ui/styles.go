package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("205")
	colorMuted  = lipgloss.Color("241")
	colorError  = lipgloss.Color("196")

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	tabStyle       = lipgloss.NewStyle().Foreground(colorMuted)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	cursorStyle    = lipgloss.NewStyle().Foreground(colorAccent)
	completedStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(colorMuted)
	footerStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	helpStyle      = lipgloss.NewStyle().Foreground(colorMuted)
	loadingStyle   = lipgloss.NewStyle().Foreground(colorAccent)
	confirmStyle   = lipgloss.NewStyle().Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(colorError)
)
