package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorPrimary = lipgloss.Color("#6C63FF")
	colorMuted   = lipgloss.Color("#666666")
	colorSuccess = lipgloss.Color("#2ECC71")
	colorError   = lipgloss.Color("#E74C3C")
	colorFg      = lipgloss.Color("#C0CAF5")
)

// Styles
var (
	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)
