// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/eugene-roi/internal/roi"
)

// FindSavings finds a savings row by test type in the results.
// Returns a pointer to the row if found, nil otherwise.
func FindSavings(results roi.Results, testType string) *roi.VariantSavings {
	for i := range results.Savings {
		if results.Savings[i].TestType == testType {
			return &results.Savings[i]
		}
	}
	return nil
}

// FindRevenue finds a revenue line by test type in the results.
func FindRevenue(results roi.Results, testType string) *roi.RevenueLine {
	for i := range results.Revenue {
		if results.Revenue[i].TestType == testType {
			return &results.Revenue[i]
		}
	}
	return nil
}
