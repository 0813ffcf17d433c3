package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/lokeshvpanchal/expense.ai/internal/forecast"
	"github.com/lokeshvpanchal/expense.ai/internal/model"

	"github.com/shopspring/decimal"
)

// MonthKey formats the month bucket of d.
func MonthKey(d time.Time) string {
	return d.Format("2006-01")
}

// Totals groups expenses and returns buckets sorted for display:
// months ascending, categories by amount descending then name.
func Totals(expenses []model.Expense, by model.GroupBy) []model.Total {
	buckets := make(map[string]*model.Total)
	// Categories compare case-insensitively; the first spelling seen is kept.
	for _, e := range expenses {
		var key, label string
		switch by {
		case model.ByMonth:
			key = MonthKey(e.Date)
			label = key
		default:
			key = strings.ToLower(e.Category)
			label = e.Category
		}
		t, ok := buckets[key]
		if !ok {
			t = &model.Total{Key: label}
			buckets[key] = t
		}
		t.Amount = t.Amount.Add(e.Amount)
		t.Count++
	}

	out := make([]model.Total, 0, len(buckets))
	for _, t := range buckets {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if by == model.ByMonth {
			return out[i].Key < out[j].Key
		}
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// MonthlySeries returns the user's monthly totals as forecast points.
// Period 1 is the first month with expenses; later months are numbered by
// calendar distance from it, so months without spend leave gaps.
func (l *Ledger) MonthlySeries(ctx context.Context, sess *model.Session) ([]forecast.Point, []model.Total, error) {
	expenses, err := l.ListExpenses(ctx, sess, model.Filter{})
	if err != nil {
		return nil, nil, err
	}
	months := Totals(expenses, model.ByMonth)
	if len(months) == 0 {
		return nil, nil, nil
	}

	first, _ := time.Parse("2006-01", months[0].Key)
	points := make([]forecast.Point, 0, len(months))
	for _, m := range months {
		t, _ := time.Parse("2006-01", m.Key)
		points = append(points, forecast.Point{
			Period: float64(monthsBetween(first, t) + 1),
			Total:  m.Amount.InexactFloat64(),
		})
	}
	return points, months, nil
}

// PeriodMonth maps a period index from MonthlySeries back to its YYYY-MM key.
func PeriodMonth(firstMonth string, period int) string {
	first, err := time.Parse("2006-01", firstMonth)
	if err != nil {
		return ""
	}
	return MonthKey(first.AddDate(0, period-1, 0))
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// BudgetStatus computes month-to-date spend for the month containing now and
// a straight-line projection to month end. budget may be nil.
func (l *Ledger) BudgetStatus(ctx context.Context, sess *model.Session, now time.Time, budget *decimal.Decimal) (model.BudgetStatus, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	expenses, err := l.ListExpenses(ctx, sess, model.Filter{Range: &model.DateRange{From: start, To: end}})
	if err != nil {
		return model.BudgetStatus{}, err
	}

	st := model.BudgetStatus{
		Month:         MonthKey(start),
		Budget:        budget,
		DaysElapsed:   today.Day(),
		DaysRemaining: end.Day() - today.Day(),
	}
	for _, e := range expenses {
		st.CurrentSpend = st.CurrentSpend.Add(e.Amount)
	}

	daysInMonth := decimal.NewFromInt(int64(end.Day()))
	st.DailyBurnRate = st.CurrentSpend.Div(decimal.NewFromInt(int64(st.DaysElapsed))).Round(2)
	st.ProjectedMonthly = st.CurrentSpend.Div(decimal.NewFromInt(int64(st.DaysElapsed))).Mul(daysInMonth).Round(2)

	if budget != nil && budget.IsPositive() {
		st.UsedPercent = st.CurrentSpend.Div(*budget).InexactFloat64() * 100
	}
	return st, nil
}
