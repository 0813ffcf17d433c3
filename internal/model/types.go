// Package model defines domain types for the expense ledger.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for expense dates everywhere.
const DateLayout = "2006-01-02"

// User is a registered account. Never mutated after registration.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Expense is one immutable ledger entry owned by a user.
type Expense struct {
	ID        int64
	UserID    int64
	Amount    decimal.Decimal
	Category  string
	Date      time.Time // UTC midnight
	Note      string
	CreatedAt time.Time
}

// Session is the process-local identity of the logged-in user.
type Session struct {
	ID        string
	UserID    int64
	Username  string
	StartedAt time.Time
}
