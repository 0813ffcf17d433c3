package tui

import (
	"errors"
	"strings"

	"github.com/lokeshvpanchal/expense.ai/internal/ledger"
	"github.com/lokeshvpanchal/expense.ai/internal/model"

	"github.com/charmbracelet/huh"
)

var errPasswordMismatch = errors.New("passwords do not match")

// ExpenseDraft holds the raw text fields of an expense being entered.
type ExpenseDraft struct {
	Amount   string
	Category string
	Date     string
	Note     string
}

// ExpenseForm builds the add-expense form bound to d. Validation mirrors the
// ledger so users see mistakes before anything is submitted.
func ExpenseForm(d *ExpenseDraft, categories []string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Amount").
				Placeholder("12.50").
				Value(&d.Amount).
				Validate(validateAmount),
			huh.NewInput().
				Title("Category").
				Placeholder("Food").
				Suggestions(categories).
				Value(&d.Category).
				Validate(validateCategory),
			huh.NewInput().
				Title("Date").
				Description(model.DateLayout).
				Value(&d.Date).
				Validate(validateDate),
			huh.NewInput().
				Title("Note").
				Placeholder("optional").
				Value(&d.Note),
		),
	).WithShowHelp(false)
}

// Credentials is the username/password pair collected by CredentialsForm.
type Credentials struct {
	Username string
	Password string
	Confirm  string
}

// CredentialsForm builds a login form, or a registration form with a
// password confirmation when register is true.
func CredentialsForm(c *Credentials, register bool) *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Username").
			Value(&c.Username).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return model.ErrInvalidUsername
				}
				return nil
			}),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&c.Password),
	}
	if register {
		fields = append(fields, huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Value(&c.Confirm).
			Validate(func(s string) error {
				if s != c.Password {
					return errPasswordMismatch
				}
				return nil
			}))
	}
	return huh.NewForm(huh.NewGroup(fields...))
}

// ThemeSelect builds a single-select over the available theme names.
func ThemeSelect(value *string, names []string) *huh.Select[string] {
	return huh.NewSelect[string]().
		Title("Color theme").
		Options(huh.NewOptions(names...)...).
		Value(value)
}

func validateAmount(s string) error {
	amt, err := ledger.ParseAmount(s)
	if err != nil {
		return err
	}
	if amt.IsNegative() {
		return model.ErrInvalidAmount
	}
	return nil
}

func validateCategory(s string) error {
	if strings.TrimSpace(s) == "" {
		return model.ErrInvalidCategory
	}
	return nil
}

func validateDate(s string) error {
	_, err := ledger.ParseDate(s)
	return err
}
