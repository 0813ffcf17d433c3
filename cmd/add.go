package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/lokeshvpanchal/expense.ai/internal/cli"
	"github.com/lokeshvpanchal/expense.ai/internal/ledger"
	"github.com/lokeshvpanchal/expense.ai/internal/model"
	"github.com/lokeshvpanchal/expense.ai/internal/tui"

	"github.com/spf13/cobra"
)

var errAddArgs = errors.New("add takes both AMOUNT and CATEGORY, or neither for the form")

var (
	flagAddDate string
	flagAddNote string
)

var addCmd = &cobra.Command{
	Use:   "add [AMOUNT CATEGORY]",
	Short: "Record an expense",
	Long:  "Record an expense. Without arguments a form asks for each field.",
	Example: `  expense add 12.50 Food --note lunch
  expense add 900 Rent --date 2024-03-01`,
	Args: cobra.MatchAll(cobra.RangeArgs(0, 2), func(_ *cobra.Command, args []string) error {
		if len(args) == 1 {
			return errAddArgs
		}
		return nil
	}),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&flagAddDate, "date", "", "Date as YYYY-MM-DD (default today)")
	addCmd.Flags().StringVar(&flagAddNote, "note", "", "Free-form note")
	rootCmd.AddCommand(addCmd)
}

func runAdd(_ *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, e *env, sess *model.Session) error {
		d := tui.ExpenseDraft{Date: flagAddDate, Note: flagAddNote}
		if d.Date == "" {
			d.Date = time.Now().Format(model.DateLayout)
		}

		if len(args) == 2 {
			d.Amount, d.Category = args[0], args[1]
		} else {
			cats, err := e.store.Categories(ctx, sess.UserID)
			if err != nil {
				return err
			}
			if err := tui.ExpenseForm(&d, cats).WithShowHelp(true).Run(); err != nil {
				return err
			}
		}

		amount, err := ledger.ParseAmount(d.Amount)
		if err != nil {
			return err
		}
		id, err := e.ledger.AddExpense(ctx, sess, amount, d.Category, d.Date, d.Note)
		if err != nil {
			return err
		}
		info("  Added #%d: %s %s on %s\n", id, cli.FormatMoney(amount.Round(2)), d.Category, d.Date)
		return nil
	})
}
