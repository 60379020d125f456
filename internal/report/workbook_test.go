package report

import (
	"bytes"
	"testing"

	"github.com/iwvelando/eugene-roi/internal/roi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleResults() roi.Results {
	return roi.Results{
		Specialty:               roi.SpecialtyFertility,
		Mode:                    roi.ModeSimplified,
		BillingModel:            roi.BillingBulkBill,
		LogisticsApplies:        true,
		StaffCosts:              57600,
		LogisticalCosts:         21000,
		TotalAnnualSavings:      57600,
		TotalRevenue:            91200,
		DoctorHoursSaved:        240,
		PotentialPatientSavings: 1000,
		TotalStaffHoursSaved:    610,
		NetAnnualBenefit:        70200,
		Savings: []roi.VariantSavings{
			{
				TestType:     "Core - Core",
				Category:     roi.CategoryCore,
				Variant:      "Core",
				AnnualVolume: 960,
				TotalSavings: 57000,
				TimePerTest:  roi.RoleHours{Admin: 0.25, Doctor: 0.25},
			},
			{
				TestType:                    "Core - Core Complex Cases",
				Category:                    roi.CategoryCore,
				Variant:                     "Core Complex Cases",
				Complex:                     true,
				AnnualVolume:                50,
				TotalSavings:                600,
				GeneticCounselorCostAvoided: 1000,
				Probability:                 0.04,
				TimePerTest:                 roi.RoleHours{Genetic: 2},
			},
		},
		Revenue: []roi.RevenueLine{
			{TestType: "Core - Core", AnnualVolume: 960, Rate: 95, Revenue: 91200},
			{TestType: "Core - Core Complex Cases", AnnualVolume: 0, Rate: 190, Revenue: 0},
		},
	}
}

func readBack(t *testing.T, res roi.Results) *excelize.File {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, res))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = f.Close()
	})
	return f
}

func rows(t *testing.T, f *excelize.File, sheet string) [][]string {
	t.Helper()
	r, err := f.GetRows(sheet)
	require.NoError(t, err)
	return r
}

func TestWorkbookSheets(t *testing.T) {
	f := readBack(t, sampleResults())
	assert.Equal(t, Sheets, f.GetSheetList())
}

func TestWorkbookSummary(t *testing.T) {
	f := readBack(t, sampleResults())
	summary := rows(t, f, SummarySheet)

	require.GreaterOrEqual(t, len(summary), 7)
	assert.Equal(t, []string{
		"Total Revenue",
		"Annual Savings",
		"Potential Patient Savings",
		"Annual Doctor Time Saved (hrs)",
		"Total Staff Time Saved (hrs)",
		"Workload-Based Staff Costs",
		"Net Annual Benefit",
		"Logistical Costs",
	}, summary[0])
	assert.Equal(t, []string{"91200", "57600", "1000", "240", "610", "57600", "70200", "21000"}, summary[1])

	assert.Equal(t, ImpactHeaders, summary[3])
	assert.Equal(t, []string{"Annual Efficiency Savings", "57600"}, summary[4])
	assert.Equal(t, []string{"Potential Additional Revenue", "91200"}, summary[5])
	assert.Equal(t, []string{"Logistics Costs", "21000"}, summary[6])
}

func TestWorkbookSummaryWithoutLogistics(t *testing.T) {
	res := sampleResults()
	res.LogisticsApplies = false
	res.LogisticalCosts = 0

	f := readBack(t, res)
	summary := rows(t, f, SummarySheet)

	assert.Len(t, summary[0], 7)
	assert.NotContains(t, summary[0], "Logistical Costs")
	assert.Len(t, Impact(res), 2)
}

func TestWorkbookBreakdowns(t *testing.T) {
	f := readBack(t, sampleResults())

	revenue := rows(t, f, RevenueSheet)
	require.Len(t, revenue, 3)
	assert.Equal(t, RevenueHeaders, revenue[0])
	assert.Equal(t, []string{"Core - Core", "960", "95", "91200"}, revenue[1])

	savings := rows(t, f, SavingsSheet)
	require.Len(t, savings, 3)
	assert.Equal(t, SavingsHeaders, savings[0])
	assert.Equal(t, []string{"Core - Core", "960", "57000", "240", "0", "240", "0", "480"}, savings[1])
	assert.Equal(t, []string{"Core - Core Complex Cases", "50", "600", "0", "0", "0", "100", "100"}, savings[2])
}

func TestWorkbookPatientSavings(t *testing.T) {
	tests := []struct {
		name        string
		mode        roi.Mode
		probability string
	}{
		{name: "Simplified", mode: roi.ModeSimplified, probability: "4%"},
		{name: "Advanced", mode: roi.ModeAdvanced, probability: ManualEntry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := sampleResults()
			res.Mode = tt.mode

			f := readBack(t, res)
			patient := rows(t, f, PatientSavingsSheet)

			require.Len(t, patient, 2)
			assert.Equal(t, PatientSavingsHeaders, patient[0])
			assert.Equal(t, []string{"Core - Core Complex Cases", "50", tt.probability, "1000"}, patient[1])
		})
	}
}

func TestWorkbookPatientSavingsEmpty(t *testing.T) {
	res := sampleResults()
	res.Savings[1].GeneticCounselorCostAvoided = 0

	f := readBack(t, res)
	patient := rows(t, f, PatientSavingsSheet)

	require.Len(t, patient, 1)
	assert.Equal(t, PatientSavingsHeaders, patient[0])
}

func TestWorkbookFromCalculation(t *testing.T) {
	in := roi.Inputs{
		Role:     roi.RoleClinician,
		Mode:     roi.ModeSimplified,
		Practice: roi.PracticeProfile{Specialty: roi.SpecialtyGP, OperationDays: 5, WeeksPerYear: 48, ConsultsPerHour: 3},
		Staff:    roi.StaffConfig{NumAdmin: 1, NumNurse: 1, NumDoctor: 1, AdminHourly: 45, NurseHourly: 60, DoctorHourly: 180, GeneticHourly: 90},
		Billing:  roi.Billing{Model: roi.BillingBulkBill},
	}
	for _, c := range roi.Categories {
		in.Tests = append(in.Tests, roi.CategoryConfig{
			Category: c,
			Base:     roi.VariantConfig{Name: c.BaseVariant(), WeeklyVolume: 20, AdminMinutes: 20, DoctorMinutes: 15},
			Complex:  roi.VariantConfig{Name: c.ComplexVariant(), Complex: true, WeeklyVolume: 1, GeneticMinutes: 60},
		})
	}

	f := readBack(t, roi.Calculate(nil, in))

	assert.Len(t, rows(t, f, RevenueSheet), 7)
	assert.Len(t, rows(t, f, SavingsSheet), 7)
	assert.Len(t, rows(t, f, PatientSavingsSheet), 4)
	assert.Len(t, rows(t, f, SummarySheet)[0], 7)
}
