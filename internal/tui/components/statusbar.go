package components

import (
	"strings"

	"github.com/lokeshvpanchal/expense.ai/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// the signed-in user and an optional notice on the right.
func RenderStatusBar(width int, username, notice string) string {
	t := theme.Active

	style := lipgloss.NewStyle().Foreground(t.TextMuted).Width(width)

	left := " [a]dd  [r]eload  [?]help  [q]uit"
	right := username + " "
	if notice != "" {
		right = notice + "  " + right
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	return style.Render(left + strings.Repeat(" ", padding) + right)
}
