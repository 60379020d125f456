package roi

// Category is a genetic test category. Every category has a base variant and a
// complex-case variant.
type Category string

// Test categories.
const (
	CategoryCore          Category = "Core"
	CategoryCouples       Category = "Couples"
	CategoryComprehensive Category = "Comprehensive"
)

// Categories lists the categories in display order.
var Categories = []Category{CategoryCore, CategoryCouples, CategoryComprehensive}

// BaseVariant is the variant name for routine tests.
func (c Category) BaseVariant() string {
	return string(c)
}

// ComplexVariant is the variant name for cases needing genetic counselling.
func (c Category) ComplexVariant() string {
	return string(c) + " Complex Cases"
}

// TestType is the breakdown key for a variant, e.g. "Core - Core Complex Cases".
func TestType(c Category, variant string) string {
	return string(c) + " - " + variant
}

// RoleMinutes are the assumed minutes per test for each role.
type RoleMinutes struct {
	Admin    float64
	Nurse    float64
	Doctor   float64
	Research float64
}

// SimplifiedDoctorRate is the assumed doctor cost per hour by specialty.
var SimplifiedDoctorRate = map[Specialty]float64{
	SpecialtyGP:        180,
	SpecialtyOBGYN:     220,
	SpecialtyFertility: 250,
}

// FallbackDoctorRate applies when a specialty has no assumed rate.
const FallbackDoctorRate = 180.0

// MBSRates is the Medicare billing rate per test variant by specialty.
var MBSRates = map[Specialty]map[string]float64{
	SpecialtyGP: {
		"Core": 42.50, "Core Complex Cases": 85.00,
		"Couples": 78.20, "Couples Complex Cases": 156.40,
		"Comprehensive": 210.50, "Comprehensive Complex Cases": 421.00,
	},
	SpecialtyOBGYN: {
		"Core": 85.20, "Core Complex Cases": 170.40,
		"Couples": 120.75, "Couples Complex Cases": 241.50,
		"Comprehensive": 250.00, "Comprehensive Complex Cases": 500.00,
	},
	SpecialtyFertility: {
		"Core": 95.00, "Core Complex Cases": 190.00,
		"Couples": 150.00, "Couples Complex Cases": 300.00,
		"Comprehensive": 300.00, "Comprehensive Complex Cases": 600.00,
	},
}

// SimplifiedTimes are the per-test minute assumptions. Nurse time is zero
// because samples are collected at home.
var SimplifiedTimes = map[Category]RoleMinutes{
	CategoryCore:          {Admin: 20, Nurse: 0, Doctor: 15, Research: 0},
	CategoryCouples:       {Admin: 25, Nurse: 0, Doctor: 30, Research: 30},
	CategoryComprehensive: {Admin: 30, Nurse: 0, Doctor: 45, Research: 60},
}

// SimplifiedGeneticMinutes is the counselling time per complex case.
const SimplifiedGeneticMinutes = 60.0

// Default hourly staff rates used outside Advanced mode.
const (
	DefaultAdminHourly   = 45.0
	DefaultNurseHourly   = 60.0
	DefaultGeneticHourly = 90.0
)

// DefaultLogistics are the monthly logistics costs of a fertility clinic.
var DefaultLogistics = Logistics{
	Shipping:       500,
	Storage:        200,
	AdminLogistics: 750,
	MiscLogistics:  300,
}

// GeneticCounsellingMarketRate is the private market cost of genetic
// counselling per hour.
const GeneticCounsellingMarketRate = 500.0

// ComplexCaseProbability is the chance a test of a category produces a
// complex finding.
var ComplexCaseProbability = map[string]float64{
	"Core Complex Cases":          0.04,
	"Couples Complex Cases":       0.06,
	"Comprehensive Complex Cases": 0.08,
}

// FallbackComplexProbability applies to variants missing from ComplexCaseProbability.
const FallbackComplexProbability = 0.05

// WorkSchedule is the reference weekly schedule of a single-doctor clinic.
type WorkSchedule struct {
	DoctorsPerClinic   int `json:"doctorsPerClinic"`
	PatientsPerHour    int `json:"patientsPerHour"`
	WorkingHoursPerDay int `json:"workingHoursPerDay"`
	DaysPerWeek        int `json:"daysPerWeek"`
}

// DefaultWorkSchedule is shown alongside Simplified assumptions.
var DefaultWorkSchedule = WorkSchedule{
	DoctorsPerClinic:   1,
	PatientsPerHour:    4,
	WorkingHoursPerDay: 8,
	DaysPerWeek:        5,
}

// DoctorRate returns the assumed doctor rate for a specialty.
func DoctorRate(s Specialty) float64 {
	if rate, ok := SimplifiedDoctorRate[s]; ok {
		return rate
	}
	return FallbackDoctorRate
}

// ComplexProbability returns the complex-finding probability of a variant.
func ComplexProbability(variant string) float64 {
	if p, ok := ComplexCaseProbability[variant]; ok {
		return p
	}
	return FallbackComplexProbability
}

// MBSRate looks up the billing rate of a variant for a specialty.
func MBSRate(s Specialty, variant string) (float64, bool) {
	rates, ok := MBSRates[s]
	if !ok {
		return 0, false
	}
	rate, ok := rates[variant]
	return rate, ok
}
