// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/eugene-roi/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Clamp bounds val to [lo, hi]. NaN collapses to lo.
func Clamp(val, lo, hi float64) float64 {
	if math.IsNaN(val) || val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// MinutesToHours converts per-unit minutes across a volume into hours.
func MinutesToHours(minutes, volume float64) float64 {
	return minutes / constants.MinutesPerHour * volume
}

// Sum adds up values in order.
func Sum(values ...float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
