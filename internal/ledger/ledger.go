// Package ledger records and queries a user's expenses and computes aggregates.
package ledger

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lokeshvpanchal/expense.ai/internal/model"

	"github.com/shopspring/decimal"
)

// ExpenseStore is the persistence the ledger needs.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, e model.Expense) (int64, error)
	ListExpenses(ctx context.Context, userID int64, f model.Filter) ([]model.Expense, error)
}

const (
	maxCategoryLen = 64
	maxNoteLen     = 500

	// Amounts are bounded before any rescale so a value like 1e7000000
	// never expands into a megabyte string.
	maxIntDigits = 13
	maxScale     = 100
)

var (
	maxAmount = decimal.New(1, 12)

	// 1,234.50 or 1,234,567: commas only group thousands.
	groupedAmount = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)
)

// Ledger is the Expense Ledger.
type Ledger struct {
	store ExpenseStore
	now   func() time.Time
}

// New creates a ledger backed by s.
func New(s ExpenseStore) *Ledger {
	return &Ledger{store: s, now: time.Now}
}

// AddExpense records an expense for the session's user and returns its id.
// Zero amounts are allowed; negative amounts and unparseable dates are not.
func (l *Ledger) AddExpense(ctx context.Context, sess *model.Session, amount decimal.Decimal, category, date, note string) (int64, error) {
	if sess == nil {
		return 0, model.ErrNotLoggedIn
	}
	if amount.IsNegative() {
		return 0, fmt.Errorf("%w: %s is negative", model.ErrInvalidAmount, amount)
	}
	if err := checkMagnitude(amount); err != nil {
		return 0, err
	}
	d, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	category = strings.TrimSpace(category)
	if category == "" || len(category) > maxCategoryLen {
		return 0, fmt.Errorf("%w: %q", model.ErrInvalidCategory, category)
	}
	note = strings.TrimSpace(note)
	if r := []rune(note); len(r) > maxNoteLen {
		note = string(r[:maxNoteLen])
	}

	id, err := l.store.CreateExpense(ctx, model.Expense{
		UserID:    sess.UserID,
		Amount:    amount.Round(2),
		Category:  category,
		Date:      d,
		Note:      note,
		CreatedAt: l.now(),
	})
	if err != nil {
		return 0, fmt.Errorf("record expense: %w", err)
	}
	return id, nil
}

// ListExpenses returns the session user's expenses in ascending date order.
// Each call re-reads the store.
func (l *Ledger) ListExpenses(ctx context.Context, sess *model.Session, f model.Filter) ([]model.Expense, error) {
	if sess == nil {
		return nil, model.ErrNotLoggedIn
	}
	expenses, err := l.store.ListExpenses(ctx, sess.UserID, f)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// Aggregate sums the session user's expenses by category or by month (YYYY-MM).
func (l *Ledger) Aggregate(ctx context.Context, sess *model.Session, by model.GroupBy) (map[string]decimal.Decimal, error) {
	expenses, err := l.ListExpenses(ctx, sess, model.Filter{})
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal)
	for _, t := range Totals(expenses, by) {
		out[t.Key] = t.Amount
	}
	return out, nil
}

// ParseDate parses a YYYY-MM-DD calendar date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(model.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (want YYYY-MM-DD)", model.ErrInvalidDate, s)
	}
	return d, nil
}

// ParseAmount parses a decimal amount. A lone comma is a decimal separator
// (12,50); commas in 1,234.50 or 1,234,567 group thousands. Amounts above
// 1e12 in magnitude are rejected. Sign is preserved so AddExpense can reject
// negatives.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	switch {
	case groupedAmount.MatchString(s) && (strings.Contains(s, ".") || strings.Count(s, ",") > 1):
		s = strings.ReplaceAll(s, ",", "")
	case !strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ",", ".")
	}
	if s == "" {
		return decimal.Zero, model.ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", model.ErrInvalidAmount, s)
	}
	if err := checkMagnitude(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

func checkMagnitude(d decimal.Decimal) error {
	exp := int(d.Exponent())
	if exp < -maxScale {
		return fmt.Errorf("%w: more than %d decimal places", model.ErrInvalidAmount, maxScale)
	}
	if exp+d.NumDigits() > maxIntDigits || d.Abs().GreaterThan(maxAmount) {
		return fmt.Errorf("%w: magnitude exceeds %s", model.ErrInvalidAmount, maxAmount)
	}
	return nil
}
