// Package output provides utilities for formatting and displaying ROI results.
package output

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/iwvelando/eugene-roi/internal/report"
	"github.com/iwvelando/eugene-roi/internal/roi"
	"github.com/iwvelando/eugene-roi/pkg/constants"
	"github.com/iwvelando/eugene-roi/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Write renders results in the named format.
func Write(w io.Writer, res roi.Results, outputFormat string) error {
	switch outputFormat {
	case constants.OutputFormatPretty, "":
		return PrettyFormat(w, res)
	case constants.OutputFormatCSV:
		return CsvFormat(w, res)
	case constants.OutputFormatJSON:
		return JSONFormat(w, res)
	}
	return fmt.Errorf("unsupported output format %q", outputFormat)
}

func metricValue(m report.Metric) string {
	if m.Hours {
		return format.Hours(m.Value)
	}
	return format.Currency(m.Value)
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, res roi.Results) error {
	p := message.NewPrinter(language.English)
	ew := &errWriter{w: w}

	ew.printf("--- Eugene ROI for %s (%s, %s) ---\n", res.Specialty, res.Mode, res.BillingModel)
	for _, m := range report.SummaryMetrics(res) {
		ew.printf("%-32s | %s\n", m.Name, metricValue(m))
	}
	if res.AdditionalRevenue > 0 {
		ew.printf("%-32s | %s\n", "Additional Private Consult Value", format.Currency(res.AdditionalRevenue))
	}

	ew.printf("\n--- %s ---\n", report.RevenueSheet)
	ew.printf("Test Type                                | Volume    | MBS Rate  | Revenue\n")
	ew.printf("_________                                | ______    | ________  | _______\n")
	for _, line := range res.Revenue {
		ew.printf("%-40s | %-9s | %-9s | %s\n", line.TestType,
			p.Sprintf("%.1f", line.AnnualVolume), format.Currency(line.Rate), format.Currency(line.Revenue))
	}

	ew.printf("\n--- %s ---\n", report.SavingsSheet)
	ew.printf("Test Type                                | Volume    | Savings      | Hours Saved\n")
	ew.printf("_________                                | ______    | _______      | ___________\n")
	for _, row := range res.Savings {
		ew.printf("%-40s | %-9s | %-12s | %s\n", row.TestType,
			p.Sprintf("%.1f", row.AnnualVolume), format.Currency(row.TotalSavings), format.Hours(row.HoursSaved().Total()))
	}

	if rows := res.PatientSavingsRows(); len(rows) > 0 {
		ew.printf("\n--- %s ---\n", report.PatientSavingsSheet)
		for _, row := range rows {
			ew.printf("%-40s | %-9s | %-12s | %s\n", row.TestType,
				p.Sprintf("%.1f", row.AnnualVolume), report.Probability(res.Mode, row), format.Currency(row.GeneticCounselorCostAvoided))
		}
	}

	if len(res.Warnings) > 0 {
		ew.printf("\nWarnings:\n")
		for _, warning := range res.Warnings {
			ew.printf("  - %s\n", warning)
		}
	}
	return ew.err
}

// CsvFormat outputs one row per test variant in comma-separated value format.
func CsvFormat(w io.Writer, res roi.Results) error {
	ew := &errWriter{w: w}

	rates := make(map[string]roi.RevenueLine, len(res.Revenue))
	for _, line := range res.Revenue {
		rates[line.TestType] = line
	}

	ew.printf(`"test type","annual volume","mbs rate","revenue","total savings","admin hours","nurse hours","doctor hours","genetic counselor hours","patient savings"` + "\n")
	for _, row := range res.Savings {
		line := rates[row.TestType]
		h := row.HoursSaved()
		ew.printf(`"%s","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f"`+"\n",
			row.TestType, row.AnnualVolume, line.Rate, line.Revenue, row.TotalSavings,
			h.Admin, h.Nurse, h.Doctor, h.Genetic, row.GeneticCounselorCostAvoided)
	}
	ew.printf(`"total","","","%.2f","%.2f","","","","","%.2f"`+"\n",
		res.TotalRevenue, res.TotalAnnualSavings, res.PotentialPatientSavings)
	return ew.err
}

// JSONFormat outputs the full results as indented JSON.
func JSONFormat(w io.Writer, res roi.Results) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
