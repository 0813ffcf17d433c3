package components

import (
	"fmt"
	"strings"

	"github.com/lokeshvpanchal/expense.ai/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak <= 0 {
		peak = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3) // block chars are 3 bytes in UTF-8
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Render(buf.String())
}

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Text  string // rendered after the bar, usually the formatted value
}

// HBarChart renders one labelled horizontal bar per row, scaled to the largest value.
// width is the full line width available.
func HBarChart(bars []Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW, textW := 0, 0
	peak := 0.0
	for _, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		textW = max(textW, lipgloss.Width(b.Text))
		peak = max(peak, b.Value)
	}
	if labelW > width/3 {
		labelW = width / 3
	}
	barMax := width - labelW - textW - 2
	if barMax < 1 {
		barMax = 1
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Width(labelW).MaxWidth(labelW)
	barStyle := lipgloss.NewStyle().Foreground(t.Accent)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	lines := make([]string, len(bars))
	for i, b := range bars {
		n := 0
		if peak > 0 && b.Value > 0 {
			n = int(b.Value / peak * float64(barMax))
			if n == 0 {
				n = 1 // never hide a non-zero value
			}
		}
		lines[i] = fmt.Sprintf("%s %s%s %s",
			labelStyle.Render(b.Label),
			barStyle.Render(strings.Repeat("█", n)),
			strings.Repeat(" ", barMax-n),
			textStyle.Render(b.Text))
	}
	return strings.Join(lines, "\n")
}
