package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorWarning = lipgloss.Color("214")
	colorDanger  = lipgloss.Color("196")
	colorSuccess = lipgloss.Color("34")
	colorMuted   = lipgloss.Color("240")
)

var (
	dangerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorDanger)
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)
