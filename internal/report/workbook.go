// Package report turns calculation results into the downloadable workbook.
package report

import (
	"fmt"
	"io"

	"github.com/iwvelando/eugene-roi/internal/roi"
	"github.com/iwvelando/eugene-roi/pkg/format"
	"github.com/xuri/excelize/v2"
)

// Sheet names, in workbook order.
const (
	SummarySheet        = "Summary"
	RevenueSheet        = "Revenue Breakdown"
	SavingsSheet        = "Time & Cost Savings"
	PatientSavingsSheet = "Patient Savings"
)

// Sheets lists the sheet names in workbook order.
var Sheets = []string{SummarySheet, RevenueSheet, SavingsSheet, PatientSavingsSheet}

// Column headers per sheet.
var (
	RevenueHeaders = []string{"Test Type", "Annual Volume", "MBS Rate ($)", "Revenue ($)"}
	SavingsHeaders = []string{
		"Test Type",
		"Annual Volume",
		"Total Savings ($)",
		"Admin Time Saved (hrs)",
		"Nurse Time Saved (hrs)",
		"Doctor Time Saved (hrs)",
		"Genetic Counselor Time Saved (hrs)",
		"Total Staff Time Saved (hrs)",
	}
	PatientSavingsHeaders = []string{
		"Test Type",
		"Annual Complex Volume",
		"Probability of Complex Finding",
		"Potential Patient Savings ($)",
	}
	ImpactHeaders = []string{"Category", "Amount ($)"}
)

// ManualEntry replaces the probability when complex volumes were entered by hand.
const ManualEntry = "Manual Entry"

// Metric is a labelled headline figure, in dollars unless Hours is set.
type Metric struct {
	Name  string
	Value float64
	Hours bool
}

// SummaryMetrics are the Summary sheet's figures. Logistical Costs only
// appear when logistics apply.
func SummaryMetrics(res roi.Results) []Metric {
	metrics := []Metric{
		{Name: "Total Revenue", Value: res.TotalRevenue},
		{Name: "Annual Savings", Value: res.TotalAnnualSavings},
		{Name: "Potential Patient Savings", Value: res.PotentialPatientSavings},
		{Name: "Annual Doctor Time Saved (hrs)", Value: res.DoctorHoursSaved, Hours: true},
		{Name: "Total Staff Time Saved (hrs)", Value: res.TotalStaffHoursSaved, Hours: true},
		{Name: "Workload-Based Staff Costs", Value: res.StaffCosts},
		{Name: "Net Annual Benefit", Value: res.NetAnnualBenefit},
	}
	if res.LogisticsApplies {
		metrics = append(metrics, Metric{Name: "Logistical Costs", Value: res.LogisticalCosts})
	}
	return metrics
}

// Impact is the savings and revenue overview shown as a bar chart.
func Impact(res roi.Results) []Metric {
	impact := []Metric{
		{Name: "Annual Efficiency Savings", Value: res.TotalAnnualSavings},
		{Name: "Potential Additional Revenue", Value: res.TotalRevenue},
	}
	if res.LogisticsApplies {
		impact = append(impact, Metric{Name: "Logistics Costs", Value: res.LogisticalCosts})
	}
	return impact
}

// Probability renders the complex-finding probability of a patient savings row.
func Probability(mode roi.Mode, row roi.VariantSavings) string {
	if mode == roi.ModeAdvanced {
		return ManualEntry
	}
	return format.Percent(row.Probability)
}

// sheetWriter keeps the first error so row writes can be chained.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (s *sheetWriter) row(sheet string, row int, values ...interface{}) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetSheetRow(sheet, cell, &values)
}

func (s *sheetWriter) header(sheet string, row int, style int, headers []string) {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	s.row(sheet, row, values...)
	if s.err != nil {
		return
	}

	first, _ := excelize.CoordinatesToCellName(1, row)
	last, err := excelize.CoordinatesToCellName(len(headers), row)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetCellStyle(sheet, first, last, style)
	if s.err != nil {
		return
	}

	lastCol, _, _ := excelize.SplitCellName(last)
	s.err = s.f.SetColWidth(sheet, "A", lastCol, 24)
}

func (s *sheetWriter) chart(sheet, cell string, chart *excelize.Chart) {
	if s.err != nil {
		return
	}
	s.err = s.f.AddChart(sheet, cell, chart)
}

func ref(sheet, col string, from, to int) string {
	return fmt.Sprintf("'%s'!$%s$%d:$%s$%d", sheet, col, from, col, to)
}

// Workbook builds the export workbook. The caller closes the file.
func Workbook(res roi.Results) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}
	for _, name := range Sheets[1:] {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	s := &sheetWriter{f: f}
	writeSummary(s, res, bold)
	writeRevenue(s, res, bold)
	writeSavings(s, res, bold)
	writePatientSavings(s, res, bold)
	if s.err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to build workbook: %w", s.err)
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteWorkbook streams the export workbook to w.
func WriteWorkbook(w io.Writer, res roi.Results) error {
	f, err := Workbook(res)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummary(s *sheetWriter, res roi.Results, style int) {
	metrics := SummaryMetrics(res)
	names := make([]string, len(metrics))
	values := make([]interface{}, len(metrics))
	for i, m := range metrics {
		names[i] = m.Name
		values[i] = m.Value
	}
	s.header(SummarySheet, 1, style, names)
	s.row(SummarySheet, 2, values...)

	impact := Impact(res)
	const top = 4
	s.header(SummarySheet, top, style, ImpactHeaders)
	for i, m := range impact {
		s.row(SummarySheet, top+1+i, m.Name, m.Value)
	}

	last := top + len(impact)
	s.chart(SummarySheet, "D4", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$%d", SummarySheet, top),
			Categories: ref(SummarySheet, "A", top+1, last),
			Values:     ref(SummarySheet, "B", top+1, last),
		}},
		Title:  []excelize.RichTextRun{{Text: "Eugene's Impact: Savings and Revenue Opportunities"}},
		Legend: excelize.ChartLegend{Position: "none"},
	})
}

func writeRevenue(s *sheetWriter, res roi.Results, style int) {
	s.header(RevenueSheet, 1, style, RevenueHeaders)
	for i, line := range res.Revenue {
		s.row(RevenueSheet, i+2, line.TestType, line.AnnualVolume, line.Rate, line.Revenue)
	}
}

func writeSavings(s *sheetWriter, res roi.Results, style int) {
	s.header(SavingsSheet, 1, style, SavingsHeaders)
	for i, row := range res.Savings {
		h := row.HoursSaved()
		s.row(SavingsSheet, i+2,
			row.TestType,
			row.AnnualVolume,
			row.TotalSavings,
			h.Admin,
			h.Nurse,
			h.Doctor,
			h.Genetic,
			h.Total(),
		)
	}
}

func writePatientSavings(s *sheetWriter, res roi.Results, style int) {
	s.header(PatientSavingsSheet, 1, style, PatientSavingsHeaders)
	rows := res.PatientSavingsRows()
	for i, row := range rows {
		s.row(PatientSavingsSheet, i+2,
			row.TestType,
			row.AnnualVolume,
			Probability(res.Mode, row),
			row.GeneticCounselorCostAvoided,
		)
	}
	if len(rows) == 0 {
		return
	}

	last := len(rows) + 1
	s.chart(PatientSavingsSheet, "F2", &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$D$1", PatientSavingsSheet),
			Categories: ref(PatientSavingsSheet, "A", 2, last),
			Values:     ref(PatientSavingsSheet, "D", 2, last),
		}},
		Title: []excelize.RichTextRun{{Text: "Potential Patient Savings by Test Type"}},
	})
}
