package cmd

import (
	"context"
	"fmt"

	"github.com/lokeshvpanchal/expense.ai/internal/cli"
	"github.com/lokeshvpanchal/expense.ai/internal/ledger"
	"github.com/lokeshvpanchal/expense.ai/internal/model"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagFrom     string
	flagTo       string
	flagCategory string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses in date order",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	addFilterFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}

// addFilterFlags registers --from, --to and --category on c.
func addFilterFlags(c *cobra.Command) {
	c.Flags().StringVar(&flagFrom, "from", "", "First date to include (YYYY-MM-DD)")
	c.Flags().StringVar(&flagTo, "to", "", "Last date to include (YYYY-MM-DD)")
	c.Flags().StringVarP(&flagCategory, "category", "c", "", "Only this category")
}

// filterFromFlags builds a ledger filter from the filter flags.
func filterFromFlags() (model.Filter, error) {
	f := model.Filter{Category: flagCategory}
	if flagFrom == "" && flagTo == "" {
		return f, nil
	}
	r := &model.DateRange{}
	var err error
	if flagFrom != "" {
		if r.From, err = ledger.ParseDate(flagFrom); err != nil {
			return f, fmt.Errorf("--from: %w", err)
		}
	}
	if flagTo != "" {
		if r.To, err = ledger.ParseDate(flagTo); err != nil {
			return f, fmt.Errorf("--to: %w", err)
		}
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return f, fmt.Errorf("--to %s is before --from %s", flagTo, flagFrom)
	}
	f.Range = r
	return f, nil
}

func runList(_ *cobra.Command, _ []string) error {
	f, err := filterFromFlags()
	if err != nil {
		return err
	}
	return withSession(func(ctx context.Context, e *env, sess *model.Session) error {
		expenses, err := e.ledger.ListExpenses(ctx, sess, f)
		if err != nil {
			return err
		}
		if len(expenses) == 0 {
			fmt.Println("\n  No expenses found.")
			return nil
		}

		rows := make([][]string, 0, len(expenses))
		var total decimal.Decimal
		for _, x := range expenses {
			rows = append(rows, []string{
				x.Date.Format(model.DateLayout) + " " + cli.FormatDayOfWeek(int(x.Date.Weekday())),
				x.Category,
				cli.Truncate(x.Note, 40),
				cli.FormatMoney(x.Amount),
			})
			total = total.Add(x.Amount)
		}

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   fmt.Sprintf("Expenses for %s", sess.Username),
			Headers: []string{"Date", "Category", "Note", "Amount"},
			Rows:    rows,
			Footer:  []string{"Total", "", cli.FormatNumber(int64(len(expenses))) + " entries", cli.FormatMoney(total)},
			Left:    3,
		}))
		return nil
	})
}
