package ui

import "github.com/charmbracelet/lipgloss"

const (
	colorPrimary   = "#7C3AED"
	colorSuccess   = "#10B981"
	colorAccent    = "#60A5FA"
	colorWarning   = "#F59E0B"
	colorError     = "#EF4444"
	colorMuted     = "#6B7280"
	colorHighlight = "#1E293B"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorPrimary)).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorAccent)).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(colorHighlight)).
			Bold(true)

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSuccess))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorWarning))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))
)
