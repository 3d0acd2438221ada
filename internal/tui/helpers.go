package tui

import (
	"github.com/andy/tasktimer/internal/domain"
	"github.com/charmbracelet/bubbles/textinput"
)

// Fallback labels for sessions whose task or project is gone
const (
	unknownTask    = "Unknown Task"
	unknownProject = "Unknown Project"
)

// formatSeconds formats a duration in seconds as "Xh Ym"
func formatSeconds(seconds int64) string {
	return domain.FormatHoursMinutes(seconds)
}

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// newNameInput returns a focused single-line input for entity names
func newNameInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 100
	in.Width = 40
	in.Focus()
	return in
}

// clampCursor keeps a list cursor inside [0, n)
func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
