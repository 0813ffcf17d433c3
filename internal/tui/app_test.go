package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lokeshvpanchal/expense.ai/internal/forecast"
	"github.com/lokeshvpanchal/expense.ai/internal/ledger"
	"github.com/lokeshvpanchal/expense.ai/internal/model"
	"github.com/lokeshvpanchal/expense.ai/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

func newTestApp(t *testing.T, opts Options) (App, *ledger.Ledger, *model.Session) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "expense.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	u, err := s.CreateUser(context.Background(), "alice", "x")
	if err != nil {
		t.Fatal(err)
	}
	sess := &model.Session{ID: "s", UserID: u.ID, Username: u.Username}
	l := ledger.New(s)
	return NewApp(l, sess, opts), l, sess
}

func addExpense(t *testing.T, l *ledger.Ledger, sess *model.Session, amount, category, date string) {
	t.Helper()
	if _, err := l.AddExpense(context.Background(), sess, decimal.RequireFromString(amount), category, date, ""); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
}

func TestLoadDashboard(t *testing.T) {
	budget := decimal.NewFromInt(300)
	_, l, sess := newTestApp(t, Options{})
	addExpense(t, l, sess, "100", "Rent", "2024-01-05")
	addExpense(t, l, sess, "200", "Rent", "2024-02-05")
	addExpense(t, l, sess, "250", "Food", "2024-03-01")
	addExpense(t, l, sess, "50", "food", "2024-03-02")

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	d, err := loadDashboard(context.Background(), l, sess, Options{Degree: 1, Horizon: 2, Budget: &budget}, now)
	if err != nil {
		t.Fatalf("loadDashboard: %v", err)
	}

	if len(d.expenses) != 4 {
		t.Fatalf("expenses = %d, want 4", len(d.expenses))
	}
	if len(d.categories) != 2 || d.categories[0].Key != "Food" {
		t.Fatalf("categories = %+v, want Food first", d.categories)
	}
	if d.fitErr != nil {
		t.Fatalf("fitErr = %v", d.fitErr)
	}
	if len(d.projection) != 2 || d.projection[0].Period != 4 {
		t.Fatalf("projection = %+v, want periods 4 and 5", d.projection)
	}
	if got := d.projection[0].Total; got < 399.99 || got > 400.01 {
		t.Fatalf("projected April = %v, want 400", got)
	}
	if !d.budget.CurrentSpend.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("budget spend = %s, want 300", d.budget.CurrentSpend)
	}
}

func TestLoadDashboard_InsufficientHistory(t *testing.T) {
	_, l, sess := newTestApp(t, Options{})
	addExpense(t, l, sess, "10", "Food", "2024-01-05")

	d, err := loadDashboard(context.Background(), l, sess, Options{Degree: 1, Horizon: 3}, time.Now())
	if err != nil {
		t.Fatalf("loadDashboard: %v", err)
	}
	if !errors.Is(d.fitErr, forecast.ErrInsufficientData) {
		t.Fatalf("fitErr = %v, want ErrInsufficientData", d.fitErr)
	}
	if d.projection != nil {
		t.Fatalf("projection = %+v, want none", d.projection)
	}
}

func TestUpdate_TabNavigation(t *testing.T) {
	a, _, _ := newTestApp(t, Options{Degree: 1, Horizon: 3})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = m.Update(dataLoadedMsg{})
	a = m.(App)

	press := func(a App, k tea.KeyMsg) App {
		m, _ := a.Update(k)
		return m.(App)
	}

	a = press(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	if a.activeTab != 2 {
		t.Fatalf("after 'f' activeTab = %d, want 2", a.activeTab)
	}
	a = press(a, tea.KeyMsg{Type: tea.KeyRight})
	if a.activeTab != 3 {
		t.Fatalf("after right activeTab = %d, want 3", a.activeTab)
	}
	a = press(a, tea.KeyMsg{Type: tea.KeyRight})
	if a.activeTab != 0 {
		t.Fatalf("right wraps: activeTab = %d, want 0", a.activeTab)
	}
	a = press(a, tea.KeyMsg{Type: tea.KeyLeft})
	if a.activeTab != 3 {
		t.Fatalf("left wraps: activeTab = %d, want 3", a.activeTab)
	}

	if a.View() == "" {
		t.Fatal("View is empty after load")
	}
}

func TestUpdate_LoadedMovesCursorToNewest(t *testing.T) {
	a, _, _ := newTestApp(t, Options{})
	exps := make([]model.Expense, 5)
	m, _ := a.Update(dataLoadedMsg{data: dashboardData{expenses: exps}})
	a = m.(App)
	if a.cursor != 4 {
		t.Fatalf("cursor = %d, want 4", a.cursor)
	}

	m, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	if got := m.(App).cursor; got != 0 {
		t.Fatalf("after 'g' cursor = %d, want 0", got)
	}
}

func TestUpdate_AddFormOpens(t *testing.T) {
	a, _, _ := newTestApp(t, Options{})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = m.Update(dataLoadedMsg{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	a = m.(App)
	if a.form == nil || a.draft == nil {
		t.Fatal("'a' should open the add form")
	}
	if a.draft.Date == "" {
		t.Fatal("draft date should default to today")
	}
}

func TestExpenseAddedError_ShowsNotice(t *testing.T) {
	a, _, _ := newTestApp(t, Options{})
	m, cmd := a.Update(expenseAddedMsg{err: model.ErrInvalidAmount})
	if cmd != nil {
		t.Fatal("failed add should not reload")
	}
	if m.(App).notice == "" {
		t.Fatal("failed add should set a notice")
	}
}

func TestAddExpenseCmd(t *testing.T) {
	a, l, sess := newTestApp(t, Options{})
	msg := a.addExpenseCmd(ExpenseDraft{Amount: "12,50", Category: "Food", Date: "2024-05-01"})()
	added, ok := msg.(expenseAddedMsg)
	if !ok || added.err != nil || added.id == 0 {
		t.Fatalf("addExpenseCmd = %+v", msg)
	}

	got, err := l.ListExpenses(context.Background(), sess, model.Filter{})
	if err != nil || len(got) != 1 || !got[0].Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("stored = %+v, %v", got, err)
	}

	msg = a.addExpenseCmd(ExpenseDraft{Amount: "-1", Category: "Food", Date: "2024-05-01"})()
	if added := msg.(expenseAddedMsg); !errors.Is(added.err, model.ErrInvalidAmount) {
		t.Fatalf("negative amount err = %v, want ErrInvalidAmount", added.err)
	}
}

func TestFormValidators(t *testing.T) {
	if validateAmount("abc") == nil || validateAmount("-3") == nil || validateAmount("3,50") != nil {
		t.Error("validateAmount mismatch")
	}
	if validateCategory("  ") == nil || validateCategory("Food") != nil {
		t.Error("validateCategory mismatch")
	}
	if validateDate("2024-02-30") == nil || validateDate("2024-02-29") != nil {
		t.Error("validateDate mismatch")
	}
}
