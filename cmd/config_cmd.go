package cmd

import (
	"fmt"

	"github.com/lokeshvpanchal/expense.ai/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	path := configPath()
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", path)
	if config.ExistsAt(path) {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	dbPath := flagDB
	if dbPath == "" {
		dbPath = config.DBPath(cfg)
	}
	fmt.Println("  [General]")
	fmt.Printf("    Database:      %s\n", dbPath)
	if cfg.General.DefaultUser != "" {
		fmt.Printf("    Default user:  %s\n", cfg.General.DefaultUser)
	} else {
		fmt.Println("    Default user:  not set")
	}
	fmt.Println()

	fmt.Println("  [Auth]")
	fmt.Printf("    Bcrypt cost:          %d\n", cfg.Auth.BcryptCost)
	fmt.Printf("    Min password length:  %d\n", cfg.Auth.MinPasswordLength)
	fmt.Println()

	fmt.Println("  [Forecast]")
	fmt.Printf("    Degree:   %d\n", cfg.Forecast.Degree)
	fmt.Printf("    Horizon:  %d months\n", cfg.Forecast.Horizon)
	fmt.Println()

	fmt.Println("  [Budget]")
	if cfg.Budget.Monthly != "" {
		fmt.Printf("    Monthly budget: %s\n", cfg.Budget.Monthly)
	} else {
		fmt.Println("    Monthly budget: not set")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		fmt.Printf("  %s\n\n", err)
	}
	fmt.Println("  Run `expense setup` to reconfigure.")
	return nil
}
