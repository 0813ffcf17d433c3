package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GroupBy selects the aggregation key for ledger totals.
type GroupBy int

const (
	ByCategory GroupBy = iota
	ByMonth
)

// String implements fmt.Stringer.
func (g GroupBy) String() string {
	switch g {
	case ByCategory:
		return "category"
	case ByMonth:
		return "month"
	default:
		return "unknown"
	}
}

// ParseGroupBy maps "category" or "month" to a GroupBy.
func ParseGroupBy(s string) (GroupBy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "category", "cat":
		return ByCategory, true
	case "month", "monthly":
		return ByMonth, true
	default:
		return 0, false
	}
}

// DateRange is an inclusive range of calendar dates. Zero bounds are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether d falls inside the range.
func (r DateRange) Contains(d time.Time) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

// Filter narrows a ledger listing. Nil fields match everything.
type Filter struct {
	Range    *DateRange
	Category string
}

// Total is one aggregated bucket.
type Total struct {
	Key    string
	Amount decimal.Decimal
	Count  int
}
