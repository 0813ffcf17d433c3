package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette for plain command output.
var (
	ColorBorder = lipgloss.Color("#71797E") // metallic grey
	ColorText   = lipgloss.Color("#F5F5F5")
	ColorMuted  = lipgloss.Color("#9AA1A6")
	ColorAccent = lipgloss.Color("#0077BE") // ocean blue
	ColorGreen  = lipgloss.Color("#879A39")
	ColorOrange = lipgloss.Color("#DA702C")
	ColorRed    = lipgloss.Color("#D14D41")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorText).Align(lipgloss.Center)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	valueStyle  = lipgloss.NewStyle().Foreground(ColorText)
	totalStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorText)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	borderStyle = lipgloss.NewStyle().Foreground(ColorBorder)
	okStyle     = lipgloss.NewStyle().Foreground(ColorGreen)
	warnStyle   = lipgloss.NewStyle().Foreground(ColorOrange)
	errStyle    = lipgloss.NewStyle().Foreground(ColorRed)
)

// Separator is a row value that renders as a horizontal rule.
const Separator = "---"

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Footer  []string // optional totals row, rendered bold under a rule
	Left    int      // number of leading left-aligned columns; defaults to 1
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return box.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers, rows and an optional footer.
// Columns after the first t.Left are right-aligned.
func RenderTable(t Table) string {
	cols := len(t.Headers)
	if cols == 0 && len(t.Rows) > 0 {
		cols = len(t.Rows[0])
	}
	if cols == 0 {
		return ""
	}
	left := t.Left
	if left <= 0 {
		left = 1
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		if !isSeparator(row) {
			measure(row)
		}
	}
	measure(t.Footer)

	rule := func(l, m, r string) string {
		parts := make([]string, cols)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return borderStyle.Render(l+strings.Join(parts, m)+r) + "\n"
	}
	line := func(row []string, style lipgloss.Style) string {
		var b strings.Builder
		b.WriteString(borderStyle.Render("│"))
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if i < left {
				cell = " " + cell + pad + " "
			} else {
				cell = " " + pad + cell + " "
			}
			b.WriteString(style.Render(cell))
			b.WriteString(borderStyle.Render("│"))
		}
		return b.String() + "\n"
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}
	b.WriteString(rule("╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(line(t.Headers, headerStyle))
		b.WriteString(rule("├", "┼", "┤"))
	}
	for _, row := range t.Rows {
		if isSeparator(row) {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}
		b.WriteString(line(row, valueStyle))
	}
	if len(t.Footer) > 0 {
		b.WriteString(rule("├", "┼", "┤"))
		b.WriteString(line(t.Footer, totalStyle))
	}
	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == Separator
}

// RenderProgressBar renders a percentage bar, coloured by how close pct is to 100.
func RenderProgressBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	frac := pct / 100
	if frac < 0 {
		frac = 0
	}
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}

	style := okStyle
	switch {
	case pct >= 100:
		style = errStyle
	case pct >= 80:
		style = warnStyle
	}
	bar := style.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("[%s] %s", bar, FormatPercent(pct))
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak <= 0 {
		peak = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

// RenderHorizontalBar renders one labelled bar scaled against maxValue.
func RenderHorizontalBar(label string, value, maxValue float64, labelWidth, maxWidth int) string {
	barLen := 0
	if maxValue > 0 && value > 0 {
		barLen = int(value / maxValue * float64(maxWidth))
	}
	pad := labelWidth - lipgloss.Width(label)
	if pad < 0 {
		pad = 0
	}
	return fmt.Sprintf("  %s%s %s", label, strings.Repeat(" ", pad), headerStyle.Render(strings.Repeat("█", barLen)))
}

// Muted renders s in the secondary text colour.
func Muted(s string) string { return mutedStyle.Render(s) }

// Warn renders s in the warning colour.
func Warn(s string) string { return warnStyle.Render(s) }

// OK renders s in the success colour.
func OK(s string) string { return okStyle.Render(s) }
