package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lokeshvpanchal/expense.ai/internal/config"
	"github.com/lokeshvpanchal/expense.ai/internal/tui"
	"github.com/lokeshvpanchal/expense.ai/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	if !interactive() {
		return errors.New("setup needs a terminal")
	}

	// Load existing config or defaults
	path := configPath()
	cfg, _ := config.LoadFrom(path)

	degree := strconv.Itoa(cfg.Forecast.Degree)
	horizon := strconv.Itoa(cfg.Forecast.Horizon)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to expense").
				Description("A few settings, saved to "+path+"."),
			huh.NewInput().
				Title("Default user").
				Description("Used when --user is not given").
				Value(&cfg.General.DefaultUser),
			huh.NewInput().
				Title("Database path").
				Placeholder(config.DBPath(config.Config{})).
				Value(&cfg.General.DBPath),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly budget").
				Description("Leave blank for none").
				Value(&cfg.Budget.Monthly).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					d, err := decimal.NewFromString(strings.TrimSpace(s))
					if err != nil || d.IsNegative() {
						return errors.New("enter a non-negative amount")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Forecast degree").
				Options(
					huh.NewOption("Linear (1)", "1"),
					huh.NewOption("Quadratic (2)", "2"),
					huh.NewOption("Cubic (3)", "3"),
				).
				Value(&degree),
			huh.NewInput().
				Title("Forecast horizon (months)").
				Value(&horizon).
				Validate(func(s string) error {
					if n, err := strconv.Atoi(s); err != nil || n < 1 || n > config.MaxHorizon {
						return fmt.Errorf("enter 1 to %d", config.MaxHorizon)
					}
					return nil
				}),
			tui.ThemeSelect(&cfg.Appearance.Theme, theme.Names()),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Forecast.Degree, _ = strconv.Atoi(degree)
	cfg.Forecast.Horizon, _ = strconv.Atoi(horizon)
	cfg.Budget.Monthly = strings.TrimSpace(cfg.Budget.Monthly)
	cfg.General.DefaultUser = strings.TrimSpace(cfg.General.DefaultUser)
	cfg.General.DBPath = strings.TrimSpace(cfg.General.DBPath)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.SaveTo(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", path)
	fmt.Println("  Run `expense register` to create a user, or `expense setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
