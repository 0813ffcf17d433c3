package cmd

import (
	"context"
	"fmt"

	"github.com/lokeshvpanchal/expense.ai/internal/cli"
	"github.com/lokeshvpanchal/expense.ai/internal/config"
	"github.com/lokeshvpanchal/expense.ai/internal/forecast"
	"github.com/lokeshvpanchal/expense.ai/internal/ledger"
	"github.com/lokeshvpanchal/expense.ai/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagDegree  int
	flagHorizon int
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Fit monthly totals and project future months",
	Long: `Fit a least-squares polynomial to monthly spend and project it forward.
Months are numbered from the first month with expenses; months without
spend are gaps, not zeros.`,
	Args: cobra.NoArgs,
	RunE: runForecast,
}

func init() {
	forecastCmd.Flags().IntVar(&flagDegree, "degree", 0, "Polynomial degree (default from config)")
	forecastCmd.Flags().IntVar(&flagHorizon, "horizon", 0, "Months to project (default from config)")
	rootCmd.AddCommand(forecastCmd)
}

// checkForecastFlags rejects out-of-range overrides. Zero means use the config.
func checkForecastFlags() error {
	if flagDegree < 0 || flagDegree > config.MaxDegree {
		return fmt.Errorf("invalid --degree %d: must be between 1 and %d", flagDegree, config.MaxDegree)
	}
	if flagHorizon < 0 || flagHorizon > config.MaxHorizon {
		return fmt.Errorf("invalid --horizon %d: must be between 1 and %d", flagHorizon, config.MaxHorizon)
	}
	return nil
}

func runForecast(_ *cobra.Command, _ []string) error {
	if err := checkForecastFlags(); err != nil {
		return err
	}
	return withSession(func(ctx context.Context, e *env, sess *model.Session) error {
		degree, horizon := e.cfg.Forecast.Degree, e.cfg.Forecast.Horizon
		if flagDegree != 0 {
			degree = flagDegree
		}
		if flagHorizon != 0 {
			horizon = flagHorizon
		}

		points, months, err := e.ledger.MonthlySeries(ctx, sess)
		if err != nil {
			return err
		}
		m, err := forecast.Fit(points, degree)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(months)+horizon+1)
		observed := make([]float64, 0, len(points)+horizon)
		for i, mo := range months {
			rows = append(rows, []string{
				mo.Key,
				fmt.Sprintf("%d", int(points[i].Period)),
				cli.FormatMoney(mo.Amount),
				cli.FormatMoneyFloat(m.Predict(points[i].Period)),
			})
			observed = append(observed, points[i].Total)
		}
		rows = append(rows, []string{cli.Separator})
		for _, p := range forecast.Project(m, points[len(points)-1].Period, horizon) {
			rows = append(rows, []string{
				ledger.PeriodMonth(months[0].Key, int(p.Period)),
				fmt.Sprintf("%d", int(p.Period)),
				"",
				cli.FormatMoneyFloat(p.Total),
			})
			observed = append(observed, p.Total)
		}

		title := fmt.Sprintf("degree %d fit, R² %.3f", m.Degree(), m.RSquared(points))
		if m.Constant() {
			title = "flat history: constant model at the mean"
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle("SPEND FORECAST  " + sess.Username))
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   title,
			Headers: []string{"Month", "Period", "Actual", "Model"},
			Rows:    rows,
			Left:    1,
		}))
		if !flagQuiet {
			fmt.Printf("\n  Trend  %s\n", cli.RenderSparkline(observed))
		}
		return nil
	})
}
