package action

import "github.com/charmbracelet/lipgloss"

var (
	colorSuccess = lipgloss.Color("#2ECC71")
	colorError   = lipgloss.Color("#E74C3C")
	colorMuted   = lipgloss.Color("#666666")
	colorFg      = lipgloss.Color("#C0CAF5")
)

var (
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorFg)
	barStyle     = lipgloss.NewStyle().Foreground(colorSuccess)
	emptyStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)
