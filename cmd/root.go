// Package cmd implements the expense CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lokeshvpanchal/expense.ai/internal/auth"
	"github.com/lokeshvpanchal/expense.ai/internal/cli"
	"github.com/lokeshvpanchal/expense.ai/internal/config"
	"github.com/lokeshvpanchal/expense.ai/internal/ledger"
	"github.com/lokeshvpanchal/expense.ai/internal/model"
	"github.com/lokeshvpanchal/expense.ai/internal/store"
	"github.com/lokeshvpanchal/expense.ai/internal/tui"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	flagDB      string
	flagConfig  string
	flagUser    string
	flagVerbose bool
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:           "expense",
	Short:         "Personal expense tracker with spend forecasting",
	Long:          "Record expenses, review category and monthly totals, and forecast future monthly spend.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupRuntime(os.Stderr)
	},
}

// setupRuntime installs the logger first so loading .env is itself logged.
func setupRuntime(logOut io.Writer) {
	cli.SetupLogger(logOut, flagVerbose)
	cli.LoadEnvFile()
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %s\n", describeError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database file (default from config or $EXPENSE_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/expense/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "Username (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging to stderr")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
}

// describeError adds a hint for the errors a user can act on.
func describeError(err error) string {
	switch {
	case errors.Is(err, model.ErrStorageUnavailable):
		return err.Error() + "\n  Check that the database path is writable (--db or EXPENSE_DB_PATH)."
	case errors.Is(err, model.ErrInvalidCredentials):
		return "invalid username or password"
	default:
		return err.Error()
	}
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.ConfigPath()
}

func loadConfig() (config.Config, error) {
	cfg, err := config.LoadFrom(configPath())
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// env is the opened core for one command invocation.
type env struct {
	cfg    config.Config
	store  *store.Store
	auth   *auth.Service
	ledger *ledger.Ledger
}

func openEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	dbPath := flagDB
	if dbPath == "" {
		dbPath = config.DBPath(cfg)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:   cfg,
		store: s,
		auth: auth.NewService(s, auth.Options{
			BcryptCost:        cfg.Auth.BcryptCost,
			MinPasswordLength: cfg.Auth.MinPasswordLength,
		}),
		ledger: ledger.New(s),
	}, nil
}

// Close ends the session and closes the database.
func (e *env) Close() {
	e.auth.Logout()
	if err := e.store.Close(); err != nil {
		slog.Warn("closing database", "error", err)
	}
}

func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// credentials resolves a username and password from flags, config and env,
// prompting with a form for anything missing when stdin is a terminal.
func (e *env) credentials(register bool) (tui.Credentials, error) {
	c := tui.Credentials{Username: flagUser, Password: config.Password()}
	if c.Username == "" {
		c.Username = e.cfg.General.DefaultUser
	}
	if c.Username != "" && c.Password != "" && !register {
		return c, nil
	}
	if !interactive() {
		if c.Username == "" || c.Password == "" {
			return c, errors.New("no terminal: pass --user and set EXPENSE_PASSWORD")
		}
		return c, nil
	}

	if err := tui.CredentialsForm(&c, register).Run(); err != nil {
		return c, err
	}
	c.Username = strings.TrimSpace(c.Username)
	return c, nil
}

// withSession logs in, runs fn, and logs out when fn returns.
func withSession(fn func(ctx context.Context, e *env, sess *model.Session) error) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	c, err := e.credentials(false)
	if err != nil {
		return err
	}
	ctx := context.Background()
	sess, err := e.auth.Login(ctx, c.Username, c.Password)
	if err != nil {
		return err
	}
	slog.Debug("logged in", "user", sess.Username, "session", sess.ID)

	return fn(ctx, e, sess)
}

// info prints to stdout unless --quiet is set.
func info(format string, args ...any) {
	if !flagQuiet {
		fmt.Printf(format, args...)
	}
}
