package cli

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"4.5", "4.50"},
		{"1234.5", "1,234.50"},
		{"1234567.891", "1,234,567.89"},
		{"-12.3", "-12.30"},
	}
	for _, tc := range cases {
		if got := FormatMoney(decimal.RequireFromString(tc.in)); got != tc.want {
			t.Errorf("FormatMoney(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDelta(t *testing.T) {
	a := decimal.RequireFromString("150")
	b := decimal.RequireFromString("100")
	if got := FormatDelta(a, b); got != "+50.00" {
		t.Errorf("FormatDelta up = %q", got)
	}
	if got := FormatDelta(b, a); got != "-50.00" {
		t.Errorf("FormatDelta down = %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(1234567); got != "1,234,567" {
		t.Errorf("FormatNumber = %q", got)
	}
	if got := FormatNumber(-1000); got != "-1,000" {
		t.Errorf("FormatNumber negative = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("groceries", 20); got != "groceries" {
		t.Errorf("short = %q", got)
	}
	if got := Truncate("groceries and more", 6); got != "groce…" {
		t.Errorf("long = %q", got)
	}
}

func TestFormatDayOfWeek(t *testing.T) {
	if FormatDayOfWeek(1) != "Mon" || FormatDayOfWeek(9) != "???" {
		t.Fatal("FormatDayOfWeek mismatch")
	}
}
