package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/lokeshvpanchal/expense.ai/internal/cli"
	"github.com/lokeshvpanchal/expense.ai/internal/model"

	"github.com/spf13/cobra"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Month-to-date spend against the configured budget",
	Args:  cobra.NoArgs,
	RunE:  runBudget,
}

func init() {
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(_ *cobra.Command, _ []string) error {
	return withSession(func(ctx context.Context, e *env, sess *model.Session) error {
		budget, err := e.cfg.MonthlyBudget()
		if err != nil {
			return err
		}
		st, err := e.ledger.BudgetStatus(ctx, sess, time.Now(), budget)
		if err != nil {
			return err
		}

		rows := [][]string{
			{"Spent so far", cli.FormatMoney(st.CurrentSpend)},
			{"Daily burn", cli.FormatMoney(st.DailyBurnRate) + "/day"},
			{"Projected month", cli.FormatMoney(st.ProjectedMonthly)},
			{"Days elapsed", fmt.Sprintf("%d", st.DaysElapsed)},
			{"Days remaining", fmt.Sprintf("%d", st.DaysRemaining)},
		}
		if budget != nil {
			rows = append(rows,
				[]string{cli.Separator},
				[]string{"Budget", cli.FormatMoney(*budget)},
				[]string{"Remaining", cli.FormatMoney(budget.Sub(st.CurrentSpend))},
			)
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle("BUDGET  " + st.Month))
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{Headers: []string{"Metric", "Value"}, Rows: rows}))
		fmt.Println()

		if budget == nil {
			fmt.Println(cli.Muted("  No monthly budget set. Add [budget] monthly = \"1500\" to the config."))
			return nil
		}
		fmt.Println("  " + cli.RenderProgressBar(st.UsedPercent, 40))
		if st.OverBudget() {
			fmt.Println("  " + cli.Warn("On pace to exceed the budget by "+cli.FormatMoney(st.ProjectedMonthly.Sub(*budget))))
		} else {
			fmt.Println("  " + cli.OK("On pace to stay within budget"))
		}
		return nil
	})
}
