package cmd

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lokeshvpanchal/expense.ai/internal/auth"
	"github.com/lokeshvpanchal/expense.ai/internal/forecast"
	"github.com/lokeshvpanchal/expense.ai/internal/ledger"
	"github.com/lokeshvpanchal/expense.ai/internal/model"
	"github.com/lokeshvpanchal/expense.ai/internal/store"

	"github.com/shopspring/decimal"
)

func TestFilterFromFlags(t *testing.T) {
	tests := []struct {
		name      string
		from, to  string
		wantRange bool
		wantErr   error
	}{
		{name: "none"},
		{name: "from only", from: "2024-01-01", wantRange: true},
		{name: "both", from: "2024-01-01", to: "2024-01-31", wantRange: true},
		{name: "bad from", from: "01/01/2024", wantErr: model.ErrInvalidDate},
		{name: "bad to", to: "2024-13-01", wantErr: model.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flagFrom, flagTo, flagCategory = tt.from, tt.to, "Food"
			t.Cleanup(func() { flagFrom, flagTo, flagCategory = "", "", "" })

			f, err := filterFromFlags()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("filterFromFlags: %v", err)
			}
			if (f.Range != nil) != tt.wantRange {
				t.Fatalf("Range = %+v, want set=%v", f.Range, tt.wantRange)
			}
			if f.Category != "Food" {
				t.Fatalf("Category = %q, want Food", f.Category)
			}
		})
	}
}

func TestFilterFromFlags_ReversedRange(t *testing.T) {
	flagFrom, flagTo = "2024-02-01", "2024-01-01"
	t.Cleanup(func() { flagFrom, flagTo = "", "" })

	if _, err := filterFromFlags(); err == nil {
		t.Fatal("expected error for --to before --from")
	}
}

func TestColumnTitle(t *testing.T) {
	if got := columnTitle(model.ByMonth); got != "Month" {
		t.Fatalf("columnTitle(ByMonth) = %q, want Month", got)
	}
	if got := columnTitle(model.ByCategory); got != "Category" {
		t.Fatalf("columnTitle(ByCategory) = %q, want Category", got)
	}
}

func TestDescribeError(t *testing.T) {
	if got := describeError(model.ErrInvalidCredentials); got != "invalid username or password" {
		t.Fatalf("describeError = %q", got)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"register", "login", "add", "list", "summary", "forecast", "budget", "export", "config", "setup", "tui"}
	for _, name := range want {
		c, _, err := rootCmd.Find([]string{name})
		if err != nil || c.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestRunForecast_RejectsBadFlags(t *testing.T) {
	tests := []struct {
		name            string
		degree, horizon int
	}{
		{name: "negative horizon", horizon: -5},
		{name: "horizon too far", horizon: 37},
		{name: "negative degree", degree: -1},
		{name: "degree too high", degree: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flagDegree, flagHorizon = tt.degree, tt.horizon
			t.Cleanup(func() { flagDegree, flagHorizon = 0, 0 })

			err := runForecast(nil, nil)
			if err == nil || !strings.Contains(err.Error(), "must be between 1 and") {
				t.Fatalf("runForecast err = %v, want range error", err)
			}
		})
	}
}

func TestCheckForecastFlags_Accepts(t *testing.T) {
	for _, v := range [][2]int{{0, 0}, {1, 1}, {6, 36}} {
		flagDegree, flagHorizon = v[0], v[1]
		if err := checkForecastFlags(); err != nil {
			t.Errorf("degree %d horizon %d: %v", v[0], v[1], err)
		}
	}
	flagDegree, flagHorizon = 0, 0
}

func TestSetupRuntime_LogsEnvFileWhenVerbose(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("EXPENSE_TEST_SETUP=1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Cleanup(func() { _ = os.Unsetenv("EXPENSE_TEST_SETUP") })

	flagVerbose = true
	t.Cleanup(func() { flagVerbose = false })

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	setupRuntime(&buf)
	if !strings.Contains(buf.String(), "loaded .env") {
		t.Fatalf("log output = %q, want the .env load message", buf.String())
	}
}

// seedUser registers alice with the given expenses and points the command
// flags at the database.
func seedUser(t *testing.T, dates ...string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "expense.db")
	s, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	ctx := context.Background()
	svc := auth.NewService(s, auth.Options{BcryptCost: 4, MinPasswordLength: 8})
	if _, err := svc.Register(ctx, "alice", "correct horse"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	sess, err := svc.Login(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	l := ledger.New(s)
	for _, d := range dates {
		if _, err := l.AddExpense(ctx, sess, decimal.NewFromInt(100), "Food", d, ""); err != nil {
			t.Fatalf("AddExpense: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	flagDB, flagConfig, flagUser = dbPath, filepath.Join(dir, "missing.toml"), "alice"
	t.Cleanup(func() { flagDB, flagConfig, flagUser = "", "", "" })
	t.Setenv("EXPENSE_PASSWORD", "correct horse")
}

func TestRunForecast_InsufficientHistoryMessage(t *testing.T) {
	seedUser(t, "2024-01-05")

	err := runForecast(nil, nil)
	if !errors.Is(err, forecast.ErrInsufficientData) {
		t.Fatalf("runForecast err = %v, want ErrInsufficientData", err)
	}
	if n := strings.Count(err.Error(), "needs"); n != 1 {
		t.Fatalf("err = %q, want the requirement stated once", err)
	}
}

func TestRunForecast_NegativeHorizonWithData(t *testing.T) {
	seedUser(t, "2024-01-05", "2024-02-05")
	flagHorizon = -5
	t.Cleanup(func() { flagHorizon = 0 })

	if err := runForecast(nil, nil); err == nil {
		t.Fatal("runForecast accepted --horizon -5")
	}
}
