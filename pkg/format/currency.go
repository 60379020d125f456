// Package format renders money, hours and percentages for metrics, tables and
// text reports.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := printer().Sprintf("%.2f", math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-$" + formatted
	}
	return "$" + formatted
}

// WholeDollars is Currency without cents, as shown on metric cards (e.g., "$40,800").
func WholeDollars(amount float64) string {
	rounded := math.Round(amount)
	formatted := printer().Sprintf("%.0f", math.Abs(rounded))
	if rounded < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Hours renders an hour total with one decimal (e.g., "1,234.5 hrs").
func Hours(hours float64) string {
	return printer().Sprintf("%.1f hrs", hours)
}

// Percent renders a fraction as a whole percentage (0.04 -> "4%").
func Percent(fraction float64) string {
	return printer().Sprintf("%.0f%%", fraction*100)
}
