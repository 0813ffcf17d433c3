package model

import "github.com/shopspring/decimal"

// BudgetStatus holds month-to-date budget tracking and projection data.
type BudgetStatus struct {
	Month            string // YYYY-MM
	Budget           *decimal.Decimal
	CurrentSpend     decimal.Decimal
	DailyBurnRate    decimal.Decimal
	ProjectedMonthly decimal.Decimal
	DaysElapsed      int
	DaysRemaining    int
	UsedPercent      float64 // 0 when no budget is set
}

// OverBudget reports whether the projection exceeds the configured budget.
func (b BudgetStatus) OverBudget() bool {
	return b.Budget != nil && b.ProjectedMonthly.GreaterThan(*b.Budget)
}
