package ledger

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lokeshvpanchal/expense.ai/internal/forecast"
	"github.com/lokeshvpanchal/expense.ai/internal/model"
	"github.com/lokeshvpanchal/expense.ai/internal/store"

	"github.com/shopspring/decimal"
)

type fixture struct {
	ledger *Ledger
	store  *store.Store
	alice  *model.Session
	bob    *model.Session
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "expense.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	a, err := s.CreateUser(ctx, "alice", "x")
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.CreateUser(ctx, "bob", "x")
	if err != nil {
		t.Fatal(err)
	}
	return fixture{
		ledger: New(s),
		store:  s,
		alice:  &model.Session{ID: "a", UserID: a.ID, Username: a.Username},
		bob:    &model.Session{ID: "b", UserID: b.ID, Username: b.Username},
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f fixture) add(t *testing.T, sess *model.Session, amount, category, date string) {
	t.Helper()
	if _, err := f.ledger.AddExpense(context.Background(), sess, dec(amount), category, date, ""); err != nil {
		t.Fatalf("AddExpense(%s, %s, %s): %v", amount, category, date, err)
	}
}

func TestAddExpense_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		sess     *model.Session
		amount   string
		category string
		date     string
		wantErr  error
	}{
		{"negative amount", f.alice, "-5", "Food", "2024-01-01", model.ErrInvalidAmount},
		{"zero amount", f.alice, "0", "Food", "2024-01-01", nil},
		{"positive amount", f.alice, "12.345", "Food", "2024-01-01", nil},
		{"huge amount", f.alice, "1e7000000", "Food", "2024-01-01", model.ErrInvalidAmount},
		{"unparseable date", f.alice, "1", "Food", "yesterday", model.ErrInvalidDate},
		{"impossible date", f.alice, "1", "Food", "2024-02-30", model.ErrInvalidDate},
		{"empty category", f.alice, "1", "  ", "2024-01-01", model.ErrInvalidCategory},
		{"no session", nil, "1", "Food", "2024-01-01", model.ErrNotLoggedIn},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := f.ledger.AddExpense(ctx, tc.sess, dec(tc.amount), tc.category, tc.date, "note")
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("AddExpense: %v", err)
				}
				if id == 0 {
					t.Fatal("AddExpense returned zero id")
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("AddExpense error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestAddExpense_RoundsToCents(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.alice, "12.345", "Food", "2024-01-01")

	got, err := f.ledger.ListExpenses(context.Background(), f.alice, model.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !got[0].Amount.Equal(dec("12.35")) {
		t.Fatalf("stored = %+v, want 12.35", got)
	}
}

func TestListExpenses_DateOrder(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.alice, "1", "A", "2024-01-01")
	f.add(t, f.alice, "3", "A", "2024-03-01")
	f.add(t, f.alice, "2", "A", "2024-02-01")
	f.add(t, f.bob, "9", "A", "2024-01-15")

	got, err := f.ledger.ListExpenses(context.Background(), f.alice, model.Filter{})
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	want := []string{"2024-01-01", "2024-02-01", "2024-03-01"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, e := range got {
		if d := e.Date.Format(model.DateLayout); d != want[i] {
			t.Errorf("position %d = %s, want %s", i, d, want[i])
		}
	}

	// Recomputed on every call.
	f.add(t, f.alice, "0.5", "A", "2023-12-31")
	again, _ := f.ledger.ListExpenses(context.Background(), f.alice, model.Filter{})
	if len(again) != 4 || again[0].Date.Format(model.DateLayout) != "2023-12-31" {
		t.Fatalf("second listing = %d entries, first %v", len(again), again[0].Date)
	}
}

func TestListExpenses_RequiresSession(t *testing.T) {
	f := newFixture(t)
	if _, err := f.ledger.ListExpenses(context.Background(), nil, model.Filter{}); !errors.Is(err, model.ErrNotLoggedIn) {
		t.Fatalf("error = %v, want ErrNotLoggedIn", err)
	}
}

func TestAggregate(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.alice, "10.10", "Food", "2024-01-05")
	f.add(t, f.alice, "0.20", "food", "2024-01-20")
	f.add(t, f.alice, "500", "Rent", "2024-01-01")
	f.add(t, f.alice, "7.70", "Food", "2024-02-03")
	f.add(t, f.bob, "1000", "Food", "2024-01-05")

	ctx := context.Background()
	byCat, err := f.ledger.Aggregate(ctx, f.alice, model.ByCategory)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(byCat) != 2 {
		t.Fatalf("categories = %v, want 2", byCat)
	}
	if !byCat["Food"].Equal(dec("18.00")) {
		t.Errorf("Food = %s, want 18.00", byCat["Food"])
	}
	if !byCat["Rent"].Equal(dec("500")) {
		t.Errorf("Rent = %s, want 500", byCat["Rent"])
	}

	byMonth, err := f.ledger.Aggregate(ctx, f.alice, model.ByMonth)
	if err != nil {
		t.Fatal(err)
	}
	if !byMonth["2024-01"].Equal(dec("510.30")) || !byMonth["2024-02"].Equal(dec("7.70")) {
		t.Fatalf("byMonth = %v", byMonth)
	}
}

func TestTotals_Sorting(t *testing.T) {
	day := func(s string) time.Time {
		d, _ := ParseDate(s)
		return d
	}
	expenses := []model.Expense{
		{Amount: dec("5"), Category: "b", Date: day("2024-03-01")},
		{Amount: dec("5"), Category: "a", Date: day("2024-01-01")},
		{Amount: dec("9"), Category: "c", Date: day("2024-02-01")},
	}

	cats := Totals(expenses, model.ByCategory)
	gotCats := []string{cats[0].Key, cats[1].Key, cats[2].Key}
	if strings.Join(gotCats, ",") != "c,a,b" {
		t.Fatalf("category order = %v, want c,a,b", gotCats)
	}

	months := Totals(expenses, model.ByMonth)
	if months[0].Key != "2024-01" || months[2].Key != "2024-03" {
		t.Fatalf("month order = %+v", months)
	}
}

func TestMonthlySeries_FeedsForecast(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.alice, "60", "A", "2024-01-03")
	f.add(t, f.alice, "40", "B", "2024-01-20")
	f.add(t, f.alice, "200", "A", "2024-02-11")
	f.add(t, f.alice, "300", "A", "2024-03-30")

	points, months, err := f.ledger.MonthlySeries(context.Background(), f.alice)
	if err != nil {
		t.Fatalf("MonthlySeries: %v", err)
	}
	want := []forecast.Point{{Period: 1, Total: 100}, {Period: 2, Total: 200}, {Period: 3, Total: 300}}
	if len(points) != len(want) || len(months) != len(want) {
		t.Fatalf("points = %v, want %v", points, want)
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, points[i], want[i])
		}
	}

	m, err := forecast.Fit(points, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Predict(4); got < 399.999 || got > 400.001 {
		t.Fatalf("Predict(4) = %v, want 400", got)
	}
	if got := PeriodMonth(months[0].Key, 4); got != "2024-04" {
		t.Fatalf("PeriodMonth = %s, want 2024-04", got)
	}
}

func TestMonthlySeries_GapsAndYearBoundary(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.alice, "10", "A", "2023-11-15")
	f.add(t, f.alice, "30", "A", "2024-02-01")

	points, _, err := f.ledger.MonthlySeries(context.Background(), f.alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 || points[0].Period != 1 || points[1].Period != 4 {
		t.Fatalf("points = %+v, want periods 1 and 4", points)
	}

	empty, _, err := f.ledger.MonthlySeries(context.Background(), f.bob)
	if err != nil || empty != nil {
		t.Fatalf("empty series = %v, %v", empty, err)
	}
	if _, err := forecast.Fit(empty, 1); !errors.Is(err, forecast.ErrInsufficientData) {
		t.Fatalf("Fit on empty series = %v, want ErrInsufficientData", err)
	}
}

func TestBudgetStatus(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.alice, "100", "A", "2024-04-01")
	f.add(t, f.alice, "50", "A", "2024-04-10")
	f.add(t, f.alice, "999", "A", "2024-03-31")

	budget := dec("400")
	now := time.Date(2024, 4, 10, 15, 0, 0, 0, time.UTC)
	st, err := f.ledger.BudgetStatus(context.Background(), f.alice, now, &budget)
	if err != nil {
		t.Fatalf("BudgetStatus: %v", err)
	}
	if st.Month != "2024-04" {
		t.Errorf("Month = %s, want 2024-04", st.Month)
	}
	if !st.CurrentSpend.Equal(dec("150")) {
		t.Errorf("CurrentSpend = %s, want 150", st.CurrentSpend)
	}
	if !st.DailyBurnRate.Equal(dec("15")) {
		t.Errorf("DailyBurnRate = %s, want 15", st.DailyBurnRate)
	}
	if !st.ProjectedMonthly.Equal(dec("450")) {
		t.Errorf("ProjectedMonthly = %s, want 450", st.ProjectedMonthly)
	}
	if st.DaysRemaining != 20 {
		t.Errorf("DaysRemaining = %d, want 20", st.DaysRemaining)
	}
	if st.UsedPercent < 37.49 || st.UsedPercent > 37.51 {
		t.Errorf("UsedPercent = %.2f, want 37.5", st.UsedPercent)
	}
	if !st.OverBudget() {
		t.Error("projection 450 > 400 should be over budget")
	}

	noBudget, err := f.ledger.BudgetStatus(context.Background(), f.alice, now, nil)
	if err != nil || noBudget.UsedPercent != 0 || noBudget.OverBudget() {
		t.Fatalf("no budget status = %+v, %v", noBudget, err)
	}
}

func TestExportCSV(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.ledger.AddExpense(ctx, f.alice, dec("4.5"), "Coffee", "2024-01-02", "flat white, large"); err != nil {
		t.Fatal(err)
	}
	f.add(t, f.alice, "20", "Books", "2024-01-01")

	var buf bytes.Buffer
	n, err := f.ledger.ExportCSV(ctx, f.alice, &buf, model.Filter{})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if n != 2 {
		t.Fatalf("rows = %d, want 2", n)
	}
	want := "date,category,amount,note\n" +
		"2024-01-01,Books,20.00,\n" +
		"2024-01-02,Coffee,4.50,\"flat white, large\"\n"
	if buf.String() != want {
		t.Fatalf("csv =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12.34", "12.34", true},
		{"12,34", "12.34", true},
		{" 7 ", "7", true},
		{"-5", "-5", true},
		{"0", "0", true},
		{"", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1,234.50", "1234.50", true},
		{"1,234,567", "1234567", true},
		{"1.234,50", "", false},
		{"1e12", "1000000000000", true},
		{"1000000000000.01", "", false},
		{"1e7000000", "", false},
		{"-1e7000000", "", false},
		{"1e-7000000", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(dec(tc.want)) {
				t.Fatalf("%q = %s (err=%v), want %s", tc.in, got, err, tc.want)
			}
			continue
		}
		if !errors.Is(err, model.ErrInvalidAmount) {
			t.Fatalf("%q error = %v, want ErrInvalidAmount", tc.in, err)
		}
	}
}
