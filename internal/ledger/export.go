package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/lokeshvpanchal/expense.ai/internal/model"
)

// ExportCSV writes the user's expenses matching f as CSV with a header row.
func (l *Ledger) ExportCSV(ctx context.Context, sess *model.Session, w io.Writer, f model.Filter) (int, error) {
	expenses, err := l.ListExpenses(ctx, sess, f)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "category", "amount", "note"}); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		rec := []string{e.Date.Format(model.DateLayout), e.Category, e.Amount.StringFixed(2), e.Note}
		if err := cw.Write(rec); err != nil {
			return 0, fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	return len(expenses), nil
}
