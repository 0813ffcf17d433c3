package tui

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lokeshvpanchal/expense.ai/internal/cli"
	"github.com/lokeshvpanchal/expense.ai/internal/forecast"
	"github.com/lokeshvpanchal/expense.ai/internal/ledger"
	"github.com/lokeshvpanchal/expense.ai/internal/model"
	"github.com/lokeshvpanchal/expense.ai/internal/tui/components"
	"github.com/lokeshvpanchal/expense.ai/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) renderExpensesTab(cw, h int) string {
	t := theme.Active
	exps := a.data.expenses

	var total decimal.Decimal
	for _, e := range exps {
		total = total.Add(e.Amount)
	}
	cards := components.MetricCardRow([]components.Metric{
		{Label: "Entries", Value: cli.FormatNumber(int64(len(exps)))},
		{Label: "Total spent", Value: cli.FormatMoney(total)},
		{Label: "Categories", Value: cli.FormatNumber(int64(len(a.data.categories)))},
	}, cw)

	if len(exps) == 0 {
		body := lipgloss.NewStyle().Foreground(t.TextMuted).Render("No expenses yet. Press a to add one.")
		return cards + "\n" + components.ContentCard("Expenses", body, cw)
	}

	inner := components.CardInnerWidth(cw)
	noteW := max(inner-12-18-14-3, 8)

	headStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)

	line := func(date, cat, amount, note string) string {
		return fmt.Sprintf("%-12s%-18s%14s   %-*s", date, cat, amount, noteW, note)
	}

	// Visible window keeps the cursor on screen.
	rows := max(h-lipgloss.Height(cards)-4, 1)
	start := 0
	if a.cursor >= rows {
		start = a.cursor - rows + 1
	}
	end := min(start+rows, len(exps))

	var b strings.Builder
	b.WriteString(headStyle.Render(line("Date", "Category", "Amount", "Note")))
	for i := start; i < end; i++ {
		e := exps[i]
		s := line(e.Date.Format(model.DateLayout), cli.Truncate(e.Category, 17),
			cli.FormatMoney(e.Amount), cli.Truncate(e.Note, noteW))
		b.WriteString("\n")
		if i == a.cursor {
			b.WriteString(selStyle.Render(s))
		} else {
			b.WriteString(rowStyle.Render(s))
		}
	}

	title := fmt.Sprintf("Expenses  %d-%d of %d", start+1, end, len(exps))
	return cards + "\n" + components.ContentCard(title, b.String(), cw)
}

func (a App) renderCategoriesTab(cw int) string {
	t := theme.Active
	cats := a.data.categories
	if len(cats) == 0 {
		return components.ContentCard("Categories", lipgloss.NewStyle().Foreground(t.TextMuted).Render("No expenses recorded."), cw)
	}

	var total decimal.Decimal
	for _, c := range cats {
		total = total.Add(c.Amount)
	}

	bars := make([]components.Bar, len(cats))
	for i, c := range cats {
		share := 0.0
		if total.IsPositive() {
			share = c.Amount.Div(total).InexactFloat64() * 100
		}
		bars[i] = components.Bar{
			Label: c.Key,
			Value: c.Amount.InexactFloat64(),
			Text:  fmt.Sprintf("%s  %s  (%d)", cli.FormatMoney(c.Amount), cli.FormatPercent(share), c.Count),
		}
	}
	return components.ContentCard("Spend by category", components.HBarChart(bars, components.CardInnerWidth(cw)), cw)
}

func (a App) renderForecastTab(cw int) string {
	t := theme.Active
	d := a.data
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)

	if len(d.months) == 0 {
		return components.ContentCard("Forecast", muted.Render("No monthly history yet."), cw)
	}

	observed := make([]float64, len(d.points))
	for i, p := range d.points {
		observed[i] = p.Total
	}

	var b strings.Builder
	b.WriteString(muted.Render("History  "))
	b.WriteString(components.Sparkline(observed, t.Accent))
	b.WriteString("\n\n")
	for _, m := range d.months {
		fmt.Fprintf(&b, "  %s  %14s\n", m.Key, cli.FormatMoney(m.Amount))
	}
	history := components.ContentCard("Monthly totals", strings.TrimRight(b.String(), "\n"), cw/2)

	b.Reset()
	switch {
	case errors.Is(d.fitErr, forecast.ErrInsufficientData):
		b.WriteString(muted.Render(fmt.Sprintf("A degree %d model needs %d months with spend, have %d.",
			a.opts.Degree, a.opts.Degree+1, len(d.points))))
	case d.fitErr != nil:
		b.WriteString(lipgloss.NewStyle().Foreground(t.Red).Render(d.fitErr.Error()))
	default:
		kind := fmt.Sprintf("degree %d", d.fit.Degree())
		if d.fit.Constant() {
			kind = "constant (flat history)"
		}
		fmt.Fprintf(&b, "%s %s\n", muted.Render("Model"), kind)
		if r2 := d.fit.RSquared(d.points); !math.IsNaN(r2) {
			fmt.Fprintf(&b, "%s %.3f\n", muted.Render("R²   "), r2)
		}
		b.WriteString("\n")
		for _, p := range d.projection {
			month := ledger.PeriodMonth(d.months[0].Key, int(p.Period))
			fmt.Fprintf(&b, "  %s  %14s\n", month, cli.FormatMoneyFloat(p.Total))
		}
	}
	projected := components.ContentCard("Projection", strings.TrimRight(b.String(), "\n"), cw-cw/2)

	return components.CardRow([]string{history, projected})
}

func (a App) renderBudgetTab(cw int) string {
	t := theme.Active
	st := a.data.budget

	metrics := []components.Metric{
		{Label: "Spent " + st.Month, Value: cli.FormatMoney(st.CurrentSpend)},
		{Label: "Daily burn", Value: cli.FormatMoney(st.DailyBurnRate) + "/day"},
		{Label: "Projected", Value: cli.FormatMoney(st.ProjectedMonthly)},
	}
	cards := components.MetricCardRow(metrics, cw)

	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	var body string
	if st.Budget == nil {
		body = muted.Render("No monthly budget set. Add [budget] monthly to config.toml.")
	} else {
		inner := components.CardInnerWidth(cw)
		barW := max(inner-16, 10)
		body = components.BudgetBar("Used", st.UsedPercent/100, 10, barW) + "\n\n" +
			muted.Render(fmt.Sprintf("Budget %s, %d days remaining", cli.FormatMoney(*st.Budget), st.DaysRemaining))
		if st.OverBudget() {
			body += "\n" + lipgloss.NewStyle().Foreground(t.Orange).Bold(true).
				Render("On pace to exceed the budget by "+cli.FormatMoney(st.ProjectedMonthly.Sub(*st.Budget)))
		}
	}
	return cards + "\n" + components.ContentCard("Monthly budget", body, cw)
}
