package cmd

import (
	"context"
	"fmt"

	"github.com/lokeshvpanchal/expense.ai/internal/model"
	"github.com/lokeshvpanchal/expense.ai/internal/tui"
	"github.com/lokeshvpanchal/expense.ai/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	return withSession(func(_ context.Context, e *env, sess *model.Session) error {
		theme.SetActive(e.cfg.Appearance.Theme)

		// Force TrueColor so themed styles always emit ANSI codes
		lipgloss.SetColorProfile(termenv.TrueColor)

		budget, err := e.cfg.MonthlyBudget()
		if err != nil {
			return err
		}
		app := tui.NewApp(e.ledger, sess, tui.Options{
			Degree:  e.cfg.Forecast.Degree,
			Horizon: e.cfg.Forecast.Horizon,
			Budget:  budget,
		})
		if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	})
}
