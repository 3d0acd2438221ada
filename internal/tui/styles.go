package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor = lipgloss.Color("39")  // Blue
	accentColor  = lipgloss.Color("205") // Pink
	mutedColor   = lipgloss.Color("241") // Gray
	successColor = lipgloss.Color("76")  // Green
	warningColor = lipgloss.Color("214") // Orange
	errorColor   = lipgloss.Color("196") // Red

	// Base styles
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	subtitleStyle = lipgloss.NewStyle().Foreground(mutedColor)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("117")) // Bright cyan
	statusStyle   = lipgloss.NewStyle().Foreground(successColor)
	warnStyle     = lipgloss.NewStyle().Foreground(warningColor)
	errStyle      = lipgloss.NewStyle().Foreground(errorColor)
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)

	// Layout
	borderColor    = lipgloss.Color("63") // Soft purple
	appBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(1, 2)

	// Header/Footer
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true) // Bright yellow

	// Clock face, one per timer state
	clockBase         = lipgloss.NewStyle().Bold(true).Padding(1, 4).Border(lipgloss.RoundedBorder())
	clockRunningStyle = clockBase.Foreground(accentColor).BorderForeground(successColor)
	clockPausedStyle  = clockBase.Foreground(warningColor).BorderForeground(warningColor).Faint(true)
	clockIdleStyle    = clockBase.Foreground(mutedColor).BorderForeground(mutedColor)

	timerRunningStyle = lipgloss.NewStyle().Bold(true).Foreground(successColor)
	timerPausedStyle  = lipgloss.NewStyle().Bold(true).Foreground(warningColor).Blink(true)
	timerIdleStyle    = lipgloss.NewStyle().Bold(true).Foreground(mutedColor)

	// A stopped run that is not in the database yet
	pendingStyle = lipgloss.NewStyle().Foreground(warningColor).Bold(true).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(errorColor).PaddingLeft(1)
)
