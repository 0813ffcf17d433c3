package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/lokeshvpanchal/expense.ai/internal/cli"
	"github.com/lokeshvpanchal/expense.ai/internal/ledger"
	"github.com/lokeshvpanchal/expense.ai/internal/model"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var flagGroupBy string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Totals by category or month",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&flagGroupBy, "by", "category", "Group by category or month")
	addFilterFlags(summaryCmd)
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	by, ok := model.ParseGroupBy(flagGroupBy)
	if !ok {
		return fmt.Errorf("unknown grouping %q: use category or month", flagGroupBy)
	}
	f, err := filterFromFlags()
	if err != nil {
		return err
	}

	return withSession(func(ctx context.Context, e *env, sess *model.Session) error {
		expenses, err := e.ledger.ListExpenses(ctx, sess, f)
		if err != nil {
			return err
		}
		totals := ledger.Totals(expenses, by)
		if len(totals) == 0 {
			fmt.Println("\n  No expenses found.")
			return nil
		}

		var grand decimal.Decimal
		var count int
		for _, t := range totals {
			grand = grand.Add(t.Amount)
			count += t.Count
		}

		rows := make([][]string, 0, len(totals))
		var prev *decimal.Decimal
		for _, t := range totals {
			share := 0.0
			if grand.IsPositive() {
				share = t.Amount.Div(grand).InexactFloat64() * 100
			}
			row := []string{t.Key, cli.FormatNumber(int64(t.Count)), cli.FormatMoney(t.Amount), cli.FormatPercent(share)}
			if by == model.ByMonth {
				delta := ""
				if prev != nil {
					delta = cli.FormatDelta(t.Amount, *prev)
				}
				row = append(row, delta)
				amt := t.Amount
				prev = &amt
			}
			rows = append(rows, row)
		}

		headers := []string{columnTitle(by), "Entries", "Total", "Share"}
		footer := []string{"Total", cli.FormatNumber(int64(count)), cli.FormatMoney(grand), "100.0%"}
		if by == model.ByMonth {
			headers = append(headers, "vs prev")
			footer = append(footer, "")
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle(fmt.Sprintf("SPEND BY %s  %s", strings.ToUpper(by.String()), sess.Username)))
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{Headers: headers, Rows: rows, Footer: footer}))

		if by == model.ByCategory && !flagQuiet {
			fmt.Println()
			peak := totals[0].Amount.InexactFloat64()
			labelW := 0
			for _, t := range totals {
				labelW = max(labelW, len([]rune(t.Key)))
			}
			for _, t := range totals {
				fmt.Println(cli.RenderHorizontalBar(t.Key, t.Amount.InexactFloat64(), peak, labelW, 40))
			}
		}
		return nil
	})
}

// columnTitle returns the grouping name as a column header.
func columnTitle(by model.GroupBy) string {
	s := by.String()
	return strings.ToUpper(s[:1]) + s[1:]
}
