package components

import (
	"strings"

	"github.com/lokeshvpanchal/expense.ai/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune // shortcut; always the first letter of Name lowercased
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Expenses", Key: 'e'},
	{Name: "Categories", Key: 'c'},
	{Name: "Forecast", Key: 'f'},
	{Name: "Budget", Key: 'b'},
}

const tabGap = "  "

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts[i] = activeStyle.Render(" " + tab.Name + " ")
			continue
		}
		parts[i] = dimStyle.Render("[") + keyStyle.Render(tab.Name[:1]) + dimStyle.Render("]") +
			inactiveStyle.Render(tab.Name[1:])
	}
	return " " + strings.Join(parts, tabGap)
}

// TabAtX maps a click column in the tab bar to a tab index, or -1.
// Active and inactive tabs render at the same width: padding vs brackets.
func TabAtX(x int) int {
	pos := 1 // leading space
	for i, tab := range Tabs {
		w := len(tab.Name) + 2
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + len(tabGap)
	}
	return -1
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
