package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{40800, "$40,800.00"},
		{21000, "$21,000.00"},
		{-1234.56, "-$1,234.56"},
		{0, "$0.00"},
		{999.999, "$1,000.00"},
	}

	for _, tt := range tests {
		if got := Currency(tt.amount); got != tt.expected {
			t.Errorf("Currency(%v) = %q, expected %q", tt.amount, got, tt.expected)
		}
	}
}

func TestWholeDollars(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{40800, "$40,800"},
		{1234567.4, "$1,234,567"},
		{-4500.6, "-$4,501"},
		{0.2, "$0"},
	}

	for _, tt := range tests {
		if got := WholeDollars(tt.amount); got != tt.expected {
			t.Errorf("WholeDollars(%v) = %q, expected %q", tt.amount, got, tt.expected)
		}
	}
}

func TestHoursAndPercent(t *testing.T) {
	if got := Hours(1234.5); got != "1,234.5 hrs" {
		t.Errorf("Hours() = %q", got)
	}
	if got := Percent(0.04); got != "4%" {
		t.Errorf("Percent(0.04) = %q", got)
	}
	if got := Percent(0.06); got != "6%" {
		t.Errorf("Percent(0.06) = %q", got)
	}
}
