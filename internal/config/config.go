// Package config loads and saves the expense tracker configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

// Config holds all configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Auth       AuthConfig       `toml:"auth"`
	Forecast   ForecastConfig   `toml:"forecast"`
	Budget     BudgetConfig     `toml:"budget"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DBPath      string `toml:"db_path,omitempty"`
	DefaultUser string `toml:"default_user,omitempty"`
}

// AuthConfig holds password hashing settings.
type AuthConfig struct {
	BcryptCost        int `toml:"bcrypt_cost"`
	MinPasswordLength int `toml:"min_password_length"`
}

// ForecastConfig holds regression defaults.
type ForecastConfig struct {
	Degree  int `toml:"degree"`
	Horizon int `toml:"horizon"` // months to project
}

// BudgetConfig holds budget tracking settings.
type BudgetConfig struct {
	Monthly string `toml:"monthly,omitempty"` // decimal amount, empty for none
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// Forecast limits accepted by Validate and the forecast flags.
const (
	MaxDegree  = 6
	MaxHorizon = 36
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Auth: AuthConfig{
			BcryptCost:        12,
			MinPasswordLength: 8,
		},
		Forecast: ForecastConfig{
			Degree:  1,
			Horizon: 3,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "expense")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "expense")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the database.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "expense")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "expense")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path comes from flag or XDG dir
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // see LoadFrom
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists at the default path.
func Exists() bool {
	return ExistsAt(ConfigPath())
}

// ExistsAt returns true if a config file exists at path.
func ExistsAt(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Validate checks value ranges and returns every problem found.
func (c Config) Validate() error {
	var problems []string

	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		problems = append(problems, fmt.Sprintf("invalid bcrypt cost %d: must be between 4 and 31", c.Auth.BcryptCost))
	}
	if c.Auth.MinPasswordLength < 1 {
		problems = append(problems, fmt.Sprintf("invalid min password length %d: must be at least 1", c.Auth.MinPasswordLength))
	}
	if c.Forecast.Degree < 1 || c.Forecast.Degree > MaxDegree {
		problems = append(problems, fmt.Sprintf("invalid forecast degree %d: must be between 1 and %d", c.Forecast.Degree, MaxDegree))
	}
	if c.Forecast.Horizon < 1 || c.Forecast.Horizon > MaxHorizon {
		problems = append(problems, fmt.Sprintf("invalid forecast horizon %d: must be between 1 and %d", c.Forecast.Horizon, MaxHorizon))
	}
	if c.Budget.Monthly != "" {
		if _, err := c.MonthlyBudget(); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// MonthlyBudget parses the configured monthly budget. Nil means unset.
func (c Config) MonthlyBudget() (*decimal.Decimal, error) {
	s := strings.TrimSpace(c.Budget.Monthly)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return nil, fmt.Errorf("invalid monthly budget %q: must be a non-negative decimal", s)
	}
	return &d, nil
}

// DBPath returns the database path from env var or config, in that order,
// falling back to the data directory.
func DBPath(cfg Config) string {
	if p := os.Getenv("EXPENSE_DB_PATH"); p != "" {
		return p
	}
	if cfg.General.DBPath != "" {
		return cfg.General.DBPath
	}
	return filepath.Join(DataDir(), "expense.db")
}

// Password returns the EXPENSE_PASSWORD env var used for non-interactive login.
func Password() string {
	return os.Getenv("EXPENSE_PASSWORD")
}
