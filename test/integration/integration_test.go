package integration

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iwvelando/eugene-roi/internal/config"
	"github.com/iwvelando/eugene-roi/internal/intake"
	"github.com/iwvelando/eugene-roi/internal/report"
	"github.com/iwvelando/eugene-roi/internal/roi"
	"github.com/iwvelando/eugene-roi/pkg/constants"
	"github.com/iwvelando/eugene-roi/pkg/mathutil"
	"github.com/iwvelando/eugene-roi/pkg/output"
	"github.com/iwvelando/eugene-roi/pkg/testutil"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exampleConfig = "../../config.yaml.example"

func loadExample(t *testing.T) roi.Results {
	t.Helper()
	conf, err := config.LoadConfiguration(exampleConfig)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Fatalf("example configuration should be clean, got %v", warnings)
	}
	in, _ := conf.Inputs()
	return roi.Calculate(zap.NewNop(), in)
}

// TestMainIntegrationBaseline checks the example configuration against
// baseline values worked out by hand.
func TestMainIntegrationBaseline(t *testing.T) {
	results := loadExample(t)

	if len(results.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", results.Warnings)
	}

	totals := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"StaffCosts", results.StaffCosts, 293400},
		{"LogisticalCosts", results.LogisticalCosts, 21000},
		{"TotalAnnualSavings", results.TotalAnnualSavings, 293400},
		{"TotalRevenue", results.TotalRevenue, 225312},
		{"AdditionalRevenue", results.AdditionalRevenue, 396000},
		{"DoctorHoursSaved", results.DoctorHoursSaved, 660},
		{"PotentialPatientSavings", results.PotentialPatientSavings, 72000},
		{"TotalStaffHoursSaved", results.TotalStaffHoursSaved, 2104},
		{"NetAnnualBenefit", results.NetAnnualBenefit, 204312},
	}
	for _, tt := range totals {
		if !mathutil.WithinTolerance(tt.got, tt.expected, constants.CurrencyTolerance) {
			t.Errorf("%s = %.2f, expected %.2f", tt.name, tt.got, tt.expected)
		}
	}

	rows := []struct {
		testType string
		volume   float64
		savings  float64
		revenue  float64
	}{
		{"Core - Core", 960, 88800, 73920},
		{"Core - Core Complex Cases", 48, 22800, 5472},
		{"Couples - Couples", 480, 76200, 62400},
		{"Couples - Couples Complex Cases", 48, 22800, 8640},
		{"Comprehensive - Comprehensive", 240, 54000, 57600},
		{"Comprehensive - Comprehensive Complex Cases", 48, 28800, 17280},
	}
	for _, row := range rows {
		s := testutil.FindSavings(results, row.testType)
		if s == nil {
			t.Errorf("missing savings row %s", row.testType)
			continue
		}
		if s.AnnualVolume != row.volume {
			t.Errorf("%s: volume = %v, expected %v", row.testType, s.AnnualVolume, row.volume)
		}
		if !mathutil.WithinTolerance(s.TotalSavings, row.savings, constants.CurrencyTolerance) {
			t.Errorf("%s: savings = %.2f, expected %.2f", row.testType, s.TotalSavings, row.savings)
		}

		r := testutil.FindRevenue(results, row.testType)
		if r == nil {
			t.Errorf("missing revenue line %s", row.testType)
			continue
		}
		if !mathutil.WithinTolerance(r.Revenue, row.revenue, constants.CurrencyTolerance) {
			t.Errorf("%s: revenue = %.2f, expected %.2f", row.testType, r.Revenue, row.revenue)
		}
	}
}

// TestDataConsistency checks that the breakdowns add up to the headline totals
// for every combination of form choices.
func TestDataConsistency(t *testing.T) {
	for _, role := range roi.Roles {
		for _, mode := range roi.Modes {
			for _, specialty := range roi.Specialties {
				for _, billing := range roi.BillingModels {
					name := strings.Join([]string{string(role), string(mode), string(specialty), string(billing)}, "|")
					t.Run(name, func(t *testing.T) {
						in, notes := intake.Collect(intake.Values{
							intake.KeyRole:         string(role),
							intake.KeyMode:         string(mode),
							intake.KeySpecialty:    string(specialty),
							intake.KeyBillingModel: string(billing),
						})
						if len(notes) != 0 {
							t.Fatalf("valid choices produced notes: %v", notes)
						}

						results := roi.Calculate(zap.NewNop(), in)
						if len(results.Warnings) != 0 {
							t.Fatalf("unexpected warnings: %v", results.Warnings)
						}
						checkConsistency(t, results)

						if results.LogisticsApplies != (role == roi.RoleOwner && specialty == roi.SpecialtyFertility) {
							t.Errorf("LogisticsApplies = %v", results.LogisticsApplies)
						}
						if billing == roi.BillingBulkBill && results.AdditionalRevenue != 0 {
							t.Errorf("Bulk Bill should have no additional revenue, got %v", results.AdditionalRevenue)
						}
					})
				}
			}
		}
	}
}

func checkConsistency(t *testing.T, results roi.Results) {
	t.Helper()

	var savings, revenue, patient, hours float64
	for _, s := range results.Savings {
		savings += s.TotalSavings
		patient += s.GeneticCounselorCostAvoided
		hours += s.HoursSaved().Total()
	}
	for _, r := range results.Revenue {
		revenue += r.Revenue
	}

	checks := []struct {
		name      string
		breakdown float64
		total     float64
	}{
		{"savings", savings, results.TotalAnnualSavings},
		{"revenue", revenue, results.TotalRevenue},
		{"patient savings", patient, results.PotentialPatientSavings},
		{"staff hours", hours, results.TotalStaffHoursSaved},
		{"net benefit", results.TotalAnnualSavings + results.TotalRevenue - results.StaffCosts - results.LogisticalCosts, results.NetAnnualBenefit},
	}
	for _, c := range checks {
		if !mathutil.WithinTolerance(c.breakdown, c.total, constants.CurrencyTolerance) {
			t.Errorf("%s breakdown %.2f does not match total %.2f", c.name, c.breakdown, c.total)
		}
	}
}

func TestOutputFormats(t *testing.T) {
	results := loadExample(t)

	var pretty bytes.Buffer
	if err := output.Write(&pretty, results, "pretty"); err != nil {
		t.Fatalf("pretty output error = %v", err)
	}
	for _, want := range []string{
		"--- Eugene ROI for Fertility Specialist (Advanced, Mixed) ---",
		"Net Annual Benefit",
		"$204,312.00",
		"Manual Entry",
	} {
		if !strings.Contains(pretty.String(), want) {
			t.Errorf("pretty output missing %q", want)
		}
	}

	var csv bytes.Buffer
	if err := output.Write(&csv, results, "csv"); err != nil {
		t.Fatalf("csv output error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(csv.String()), "\n")
	if len(lines) != len(results.Savings)+2 {
		t.Errorf("expected header, %d rows and a total, got %d lines", len(results.Savings), len(lines))
	}
}

func TestWorkbookExport(t *testing.T) {
	results := loadExample(t)

	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, results); err != nil {
		t.Fatalf("WriteWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(report.PatientSavingsSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	// Header plus the three complex variants.
	if len(rows) != 4 {
		t.Fatalf("expected 4 patient savings rows, got %d", len(rows))
	}
	for _, row := range rows[1:] {
		if row[2] != report.ManualEntry {
			t.Errorf("Advanced mode probability = %q, expected %q", row[2], report.ManualEntry)
		}
	}
}
