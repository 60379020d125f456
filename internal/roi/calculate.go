package roi

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/eugene-roi/pkg/constants"
	"github.com/iwvelando/eugene-roi/pkg/mathutil"
	"go.uber.org/zap"
)

// ErrMissingRate is returned when a variant has no MBS rate for the specialty.
var ErrMissingRate = errors.New("missing MBS rate")

// AnnualVolume converts a weekly volume into tests per year.
func AnnualVolume(weeklyVolume float64, weeksPerYear int) float64 {
	return weeklyVolume * float64(weeksPerYear)
}

// timePerTest converts a variant's minutes into hours per test. Research time
// is doctor time.
func timePerTest(v VariantConfig) RoleHours {
	return RoleHours{
		Admin:   v.AdminMinutes / constants.MinutesPerHour,
		Nurse:   v.NurseMinutes / constants.MinutesPerHour,
		Doctor:  (v.DoctorMinutes + v.ResearchMinutes) / constants.MinutesPerHour,
		Genetic: v.GeneticMinutes / constants.MinutesPerHour,
	}
}

func roleCost(h RoleHours, staff StaffConfig) float64 {
	return h.Admin*staff.AdminHourly +
		h.Nurse*staff.NurseHourly +
		h.Doctor*staff.DoctorHourly +
		h.Genetic*staff.GeneticHourly
}

func checkWeeks(weeksPerYear int) error {
	if weeksPerYear <= 0 {
		return fmt.Errorf("operational weeks per year must be positive, got %d", weeksPerYear)
	}
	return nil
}

func checkVariant(c CategoryConfig, v VariantConfig) error {
	if v.WeeklyVolume < 0 {
		return fmt.Errorf("%s: weekly volume cannot be negative", TestType(c.Category, v.Name))
	}
	return nil
}

// AnnualStaffCost prices the workload the tests generate rather than
// full-time salaries.
func AnnualStaffCost(staff StaffConfig, tests []CategoryConfig, weeksPerYear int) (float64, error) {
	if err := checkWeeks(weeksPerYear); err != nil {
		return 0, err
	}

	var total float64
	for _, c := range tests {
		for _, v := range c.Variants() {
			if err := checkVariant(c, v); err != nil {
				return 0, err
			}
			hours := timePerTest(v).Scale(AnnualVolume(v.WeeklyVolume, weeksPerYear))
			total += roleCost(hours, staff)
		}
	}
	return total, nil
}

// LogisticsCost annualises the monthly logistics line items. A nil value
// means logistics do not apply.
func LogisticsCost(l *Logistics) (float64, error) {
	if l == nil {
		return 0, nil
	}
	for _, item := range l.Monthly() {
		if item < 0 {
			return 0, fmt.Errorf("logistics line items cannot be negative")
		}
	}
	return mathutil.Sum(l.Monthly()...) * constants.MonthsPerYear, nil
}

// EfficiencySavings values the time each variant saves per role and the
// counselling cost patients avoid on complex cases. In Simplified mode the
// complex-case probability weights the patient saving; in Advanced mode the
// entered volume already counts complex cases.
func EfficiencySavings(tests []CategoryConfig, staff StaffConfig, weeksPerYear int, mode Mode) ([]VariantSavings, float64, error) {
	if err := checkWeeks(weeksPerYear); err != nil {
		return nil, 0, err
	}

	var (
		rows           []VariantSavings
		patientTotal   float64
		useProbability = mode != ModeAdvanced
	)
	for _, c := range tests {
		for _, v := range c.Variants() {
			if err := checkVariant(c, v); err != nil {
				return nil, 0, err
			}

			annual := AnnualVolume(v.WeeklyVolume, weeksPerYear)
			perTest := timePerTest(v)
			row := VariantSavings{
				TestType:     TestType(c.Category, v.Name),
				Category:     c.Category,
				Variant:      v.Name,
				Complex:      v.Complex,
				AnnualVolume: annual,
				TotalSavings: roleCost(perTest.Scale(annual), staff),
				TimePerTest:  perTest,
			}

			if v.Complex {
				avoided := perTest.Genetic * annual * GeneticCounsellingMarketRate
				if useProbability {
					row.Probability = ComplexProbability(v.Name)
					avoided *= row.Probability
				}
				row.GeneticCounselorCostAvoided = avoided
				patientTotal += avoided
			}

			rows = append(rows, row)
		}
	}
	return rows, patientTotal, nil
}

// RevenueOutcome is what the revenue step produces.
type RevenueOutcome struct {
	Total            float64
	Additional       float64
	DoctorHoursSaved float64
	Lines            []RevenueLine
}

// variantRevenue bills one variant under the chosen model. Doctor hours here
// exclude research time.
func variantRevenue(billing Billing, annual, rate, doctorMinutes float64) (float64, error) {
	doctorHours := mathutil.MinutesToHours(doctorMinutes, annual)
	switch billing.Model {
	case BillingBulkBill:
		return annual * rate, nil
	case BillingPrivate:
		return doctorHours * billing.PrivateHourly, nil
	case BillingMixed:
		bulkVolume := mathutil.ApplyPercentage(annual, mathutil.Clamp(billing.BulkRate, 0, 100))
		privateVolume := annual - bulkVolume
		return bulkVolume*rate + privateVolume*billing.PrivateHourly*(doctorMinutes/constants.MinutesPerHour), nil
	default:
		return 0, fmt.Errorf("unknown billing model %q", billing.Model)
	}
}

// Revenue bills every variant at its MBS rate or the private hourly rate
// according to the billing model. Outside Bulk Bill the freed doctor hours are
// also valued as additional private consults, reported separately from Total.
func Revenue(tests []CategoryConfig, practice PracticeProfile, billing Billing) (RevenueOutcome, error) {
	if err := checkWeeks(practice.WeeksPerYear); err != nil {
		return RevenueOutcome{}, err
	}

	var out RevenueOutcome
	for _, c := range tests {
		for _, v := range c.Variants() {
			if err := checkVariant(c, v); err != nil {
				return RevenueOutcome{}, err
			}

			rate, ok := MBSRate(practice.Specialty, v.Name)
			if !ok {
				return RevenueOutcome{}, fmt.Errorf("%w for %q under %s", ErrMissingRate, v.Name, practice.Specialty)
			}

			annual := AnnualVolume(v.WeeklyVolume, practice.WeeksPerYear)
			revenue, err := variantRevenue(billing, annual, rate, v.DoctorMinutes)
			if err != nil {
				return RevenueOutcome{}, err
			}

			out.Total += revenue
			out.DoctorHoursSaved += mathutil.MinutesToHours(v.DoctorMinutes, annual)
			out.Lines = append(out.Lines, RevenueLine{
				TestType:     TestType(c.Category, v.Name),
				AnnualVolume: annual,
				Rate:         rate,
				Revenue:      revenue,
			})
		}
	}

	if billing.Model != BillingBulkBill {
		additionalPatients := out.DoctorHoursSaved * float64(practice.ConsultsPerHour)
		out.Additional = additionalPatients * billing.PrivateHourly
	}
	return out, nil
}

// NetBenefit is savings plus revenue less staff and logistics costs.
func NetBenefit(savings, revenue, staffCosts, logisticsCosts float64) float64 {
	return savings + revenue - staffCosts - logisticsCosts
}

// MissingRates lists the configured variants that have no MBS rate for the
// practice's specialty.
func MissingRates(in Inputs) []string {
	var missing []string
	for _, c := range in.Tests {
		for _, v := range c.Variants() {
			if _, ok := MBSRate(in.Practice.Specialty, v.Name); !ok {
				missing = append(missing, fmt.Sprintf("Variant '%s' is missing in MBS rates for %s.", v.Name, in.Practice.Specialty))
			}
		}
	}
	return missing
}

// Calculate runs every step in order and aggregates the results. A failing
// step is logged, recorded as a warning and contributes zero.
func Calculate(logger *zap.Logger, in Inputs) Results {
	if logger == nil {
		logger = zap.NewNop()
	}

	res := Results{
		CalculationID:    uuid.New().String(),
		CalculatedAt:     time.Now().UTC(),
		Specialty:        in.Practice.Specialty,
		Mode:             in.Mode,
		BillingModel:     in.Billing.Model,
		LogisticsApplies: in.Logistics != nil,
	}

	fail := func(step string, err error) {
		logger.Warn("calculation step failed, substituting zero",
			zap.String("op", "roi.Calculate"),
			zap.String("step", step),
			zap.String("calculationId", res.CalculationID),
			zap.Error(err),
		)
		res.Warnings = append(res.Warnings, fmt.Sprintf("Error in %s: %v", step, err))
	}

	weeks := in.Practice.WeeksPerYear

	if cost, err := AnnualStaffCost(in.Staff, in.Tests, weeks); err != nil {
		fail("workload-based staff cost calculation", err)
	} else {
		res.StaffCosts = cost
	}

	if cost, err := LogisticsCost(in.Logistics); err != nil {
		fail("logistics calculation", err)
	} else {
		res.LogisticalCosts = cost
	}

	if rows, patient, err := EfficiencySavings(in.Tests, in.Staff, weeks, in.Mode); err != nil {
		fail("efficiency savings calculation", err)
	} else {
		res.Savings = rows
		res.PotentialPatientSavings = patient
		for _, row := range rows {
			res.TotalAnnualSavings += row.TotalSavings
			res.TotalStaffHoursSaved += row.HoursSaved().Total()
		}
	}

	if out, err := Revenue(in.Tests, in.Practice, in.Billing); err != nil {
		fail("revenue calculation", err)
	} else {
		res.TotalRevenue = out.Total
		res.AdditionalRevenue = out.Additional
		res.DoctorHoursSaved = out.DoctorHoursSaved
		res.Revenue = out.Lines
	}

	res.NetAnnualBenefit = NetBenefit(res.TotalAnnualSavings, res.TotalRevenue, res.StaffCosts, res.LogisticalCosts)

	logger.Debug("roi calculated",
		zap.String("op", "roi.Calculate"),
		zap.String("calculationId", res.CalculationID),
		zap.String("specialty", string(res.Specialty)),
		zap.String("billingModel", string(res.BillingModel)),
		zap.Float64("netAnnualBenefit", res.NetAnnualBenefit),
		zap.Int("warnings", len(res.Warnings)),
	)

	return res
}
