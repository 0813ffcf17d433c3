// Package tui provides the interactive Bubble Tea dashboard for the expense tracker.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lokeshvpanchal/expense.ai/internal/forecast"
	"github.com/lokeshvpanchal/expense.ai/internal/ledger"
	"github.com/lokeshvpanchal/expense.ai/internal/model"
	"github.com/lokeshvpanchal/expense.ai/internal/tui/components"
	"github.com/lokeshvpanchal/expense.ai/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Options controls the forecast and budget views.
type Options struct {
	Degree  int
	Horizon int
	Budget  *decimal.Decimal
}

// dashboardData is everything the tabs render, loaded in one pass.
type dashboardData struct {
	expenses   []model.Expense
	categories []model.Total
	months     []model.Total
	points     []forecast.Point
	fit        *forecast.Model
	fitErr     error
	projection []forecast.Point
	budget     model.BudgetStatus
}

// dataLoadedMsg is sent when a dashboard load finishes.
type dataLoadedMsg struct {
	data     dashboardData
	err      error
	loadTime time.Duration
}

// expenseAddedMsg is sent when the add form's expense has been stored.
type expenseAddedMsg struct {
	id  int64
	err error
}

// App is the root Bubble Tea model.
type App struct {
	ledger *ledger.Ledger
	sess   *model.Session
	opts   Options
	now    func() time.Time

	data     dashboardData
	loaded   bool
	loadErr  error
	loadTime time.Duration
	notice   string

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	cursor    int // selected row on the expenses tab

	// Add-expense form (huh); draft is shared with the form's bound fields.
	form  *huh.Form
	draft *ExpenseDraft

	spinner spinner.Model
}

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
	minContentHeight = 5
)

// NewApp creates the dashboard for the signed-in session.
func NewApp(l *ledger.Ledger, sess *model.Session, opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	return App{
		ledger:  l,
		sess:    sess,
		opts:    opts,
		now:     time.Now,
		spinner: sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		a.loadCmd(),
		a.spinner.Tick,
	)
}

func (a App) loadCmd() tea.Cmd {
	l, sess, opts, now := a.ledger, a.sess, a.opts, a.now()
	return func() tea.Msg {
		start := time.Now()
		data, err := loadDashboard(context.Background(), l, sess, opts, now)
		return dataLoadedMsg{data: data, err: err, loadTime: time.Since(start)}
	}
}

// loadDashboard gathers every tab's data from the ledger.
func loadDashboard(ctx context.Context, l *ledger.Ledger, sess *model.Session, opts Options, now time.Time) (dashboardData, error) {
	var d dashboardData

	expenses, err := l.ListExpenses(ctx, sess, model.Filter{})
	if err != nil {
		return d, err
	}
	d.expenses = expenses
	d.categories = ledger.Totals(expenses, model.ByCategory)

	if d.points, d.months, err = l.MonthlySeries(ctx, sess); err != nil {
		return d, err
	}
	d.fit, d.fitErr = forecast.Fit(d.points, opts.Degree)
	if d.fitErr == nil {
		d.projection = forecast.Project(d.fit, d.points[len(d.points)-1].Period, opts.Horizon)
	}

	if d.budget, err = l.BudgetStatus(ctx, sess, now, opts.Budget); err != nil {
		return d, err
	}
	return d, nil
}

func (a App) addExpenseCmd(d ExpenseDraft) tea.Cmd {
	l, sess := a.ledger, a.sess
	return func() tea.Msg {
		amount, err := ledger.ParseAmount(d.Amount)
		if err != nil {
			return expenseAddedMsg{err: err}
		}
		id, err := l.AddExpense(context.Background(), sess, amount, d.Category, d.Date, d.Note)
		return expenseAddedMsg{id: id, err: err}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(a.contentWidth())
		}
		return a, nil

	case dataLoadedMsg:
		a.loaded = true
		a.loadErr = msg.err
		a.loadTime = msg.loadTime
		if msg.err == nil {
			a.data = msg.data
			a.cursor = len(a.data.expenses) - 1
			if a.cursor < 0 {
				a.cursor = 0
			}
		}
		return a, nil

	case expenseAddedMsg:
		if msg.err != nil {
			a.notice = "not saved: " + msg.err.Error()
			return a, nil
		}
		a.notice = fmt.Sprintf("saved expense #%d", msg.id)
		return a, a.loadCmd()

	case spinner.TickMsg:
		if a.loaded {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	if a.form != nil {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := components.TabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "?":
		a.showHelp = true
	case "a":
		return a.openForm()
	case "r":
		a.notice = ""
		return a, a.loadCmd()
	case "right", "tab", "l":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	case "left", "shift+tab", "h":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "down", "j":
		if a.cursor < len(a.data.expenses)-1 {
			a.cursor++
		}
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "g", "home":
		a.cursor = 0
	case "G", "end":
		a.cursor = max(len(a.data.expenses)-1, 0)
	default:
		if len(msg.Runes) == 1 {
			if tab := components.TabIdxByKey(msg.Runes[0]); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) openForm() (tea.Model, tea.Cmd) {
	cats := make([]string, len(a.data.categories))
	for i, c := range a.data.categories {
		cats[i] = c.Key
	}
	a.draft = &ExpenseDraft{Date: a.now().Format(model.DateLayout)}
	a.form = ExpenseForm(a.draft, cats).WithWidth(a.contentWidth())
	a.notice = ""
	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		draft := *a.draft
		a.form, a.draft = nil, nil
		return a, a.addExpenseCmd(draft)
	case huh.StateAborted:
		a.form, a.draft = nil, nil
		a.notice = "add cancelled"
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols)\n  At least %d columns are needed.\n",
			a.width, minTerminalWidth)
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewLoading() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3).
		Render(a.spinner.View() + lipgloss.NewStyle().Foreground(t.TextMuted).Render(" Loading expenses..."))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewHelp() string {
	t := theme.Active

	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	bindings := []struct{ key, desc string }{
		{"e c f b", "Jump to tab"},
		{"← → tab", "Previous / Next tab"},
		{"j k", "Move through expenses"},
		{"g G", "First / last expense"},
		{"a", "Add an expense"},
		{"r", "Reload data"},
		{"esc", "Cancel the add form"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-8s", bind.key)), descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render("Press any key to close"))

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3).
		Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewMain() string {
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab)
	statusBar := components.RenderStatusBar(a.width, a.sess.Username, a.notice)

	contentH := a.height - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch {
	case a.form != nil:
		content = components.ContentCard("Add Expense", a.form.View(), cw)
	case a.loadErr != nil:
		content = a.renderError(cw)
	default:
		switch a.activeTab {
		case 0:
			content = a.renderExpensesTab(cw, contentH)
		case 1:
			content = a.renderCategoriesTab(cw)
		case 2:
			content = a.renderForecastTab(cw)
		case 3:
			content = a.renderBudgetTab(cw)
		}
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.PlaceHorizontal(a.width, lipgloss.Center, content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (a App) renderError(cw int) string {
	t := theme.Active
	msg := a.loadErr.Error()
	if errors.Is(a.loadErr, model.ErrStorageUnavailable) {
		msg = "The expense database could not be read.\n" + msg
	}
	body := lipgloss.NewStyle().Foreground(t.Red).Render(msg) + "\n\n" +
		lipgloss.NewStyle().Foreground(t.TextDim).Render("Press r to retry")
	return components.ContentCard("Error", body, cw)
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
