// Package roi holds the practice model, the reference rate tables and the
// workload-based formulas that turn a practice configuration into ROI results.
package roi

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/eugene-roi/pkg/mathutil"
)

// Specialty is the medical specialty of the practice.
type Specialty string

// Supported specialties.
const (
	SpecialtyGP        Specialty = "GP"
	SpecialtyOBGYN     Specialty = "OB/GYN"
	SpecialtyFertility Specialty = "Fertility Specialist"
)

// Specialties lists the specialties in display order.
var Specialties = []Specialty{SpecialtyGP, SpecialtyOBGYN, SpecialtyFertility}

// Role is the kind of user filling in the calculator.
type Role string

// Supported roles.
const (
	RoleClinician Role = "Doctor/Clinician"
	RoleOwner     Role = "Owner/Manager"
)

// Roles lists the roles in display order.
var Roles = []Role{RoleClinician, RoleOwner}

// Mode toggles between predefined assumptions and full manual entry.
type Mode string

// Supported input modes.
const (
	ModeSimplified Mode = "Simplified"
	ModeAdvanced   Mode = "Advanced"
)

// Modes lists the input modes in display order.
var Modes = []Mode{ModeSimplified, ModeAdvanced}

// BillingModel is how the practice bills consultations.
type BillingModel string

// Supported billing models.
const (
	BillingBulkBill BillingModel = "Bulk Bill"
	BillingMixed    BillingModel = "Mixed"
	BillingPrivate  BillingModel = "Private"
)

// BillingModels lists the billing models in display order.
var BillingModels = []BillingModel{BillingBulkBill, BillingMixed, BillingPrivate}

// ParseSpecialty matches a specialty name case-insensitively.
func ParseSpecialty(s string) (Specialty, error) {
	for _, v := range Specialties {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown specialty %q", s)
}

// ParseRole matches a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	for _, v := range Roles {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// ParseMode matches a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	for _, v := range Modes {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown input mode %q", s)
}

// ParseBillingModel matches a billing model name case-insensitively.
func ParseBillingModel(s string) (BillingModel, error) {
	for _, v := range BillingModels {
		if strings.EqualFold(strings.TrimSpace(s), string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown billing model %q", s)
}

// PracticeProfile describes how the clinic operates.
type PracticeProfile struct {
	Specialty       Specialty `json:"specialty"`
	OperationDays   int       `json:"operationDays"`
	WeeksPerYear    int       `json:"weeksPerYear"`
	ConsultsPerHour int       `json:"consultsPerHour"`
}

// StaffConfig holds headcounts and hourly rates per role.
type StaffConfig struct {
	NumAdmin            int     `json:"numAdmin"`
	NumNurse            int     `json:"numNurse"`
	NumDoctor           int     `json:"numDoctor"`
	NumGeneticCounselor int     `json:"numGeneticCounselor"`
	AdminHourly         float64 `json:"adminHourly"`
	NurseHourly         float64 `json:"nurseHourly"`
	DoctorHourly        float64 `json:"doctorHourly"`
	GeneticHourly       float64 `json:"geneticHourly"`
}

// Billing holds the billing model and its conditional fields. PrivateHourly is
// ignored for Bulk Bill and BulkRate (a percentage) only applies to Mixed.
type Billing struct {
	Model         BillingModel `json:"model"`
	PrivateHourly float64      `json:"privateHourly,omitempty"`
	BulkRate      float64      `json:"bulkRate,omitempty"`
}

// Logistics holds monthly logistics line items for fertility clinic owners.
type Logistics struct {
	Shipping       float64 `json:"shipping"`
	Storage        float64 `json:"storage"`
	AdminLogistics float64 `json:"adminLogistics"`
	MiscLogistics  float64 `json:"miscLogistics"`
}

// Monthly returns the line items in display order.
func (l Logistics) Monthly() []float64 {
	return []float64{l.Shipping, l.Storage, l.AdminLogistics, l.MiscLogistics}
}

// VariantConfig is the weekly volume and per-test minutes of one test variant.
type VariantConfig struct {
	Name            string  `json:"name"`
	Complex         bool    `json:"complex"`
	WeeklyVolume    float64 `json:"weeklyVolume"`
	AdminMinutes    float64 `json:"adminMinutes,omitempty"`
	NurseMinutes    float64 `json:"nurseMinutes,omitempty"`
	DoctorMinutes   float64 `json:"doctorMinutes,omitempty"`
	ResearchMinutes float64 `json:"researchMinutes,omitempty"`
	GeneticMinutes  float64 `json:"geneticMinutes,omitempty"`
}

// CategoryConfig pairs the base and complex-case variants of a category.
type CategoryConfig struct {
	Category Category      `json:"category"`
	Base     VariantConfig `json:"base"`
	Complex  VariantConfig `json:"complex"`
}

// Variants returns base then complex.
func (c CategoryConfig) Variants() []VariantConfig {
	return []VariantConfig{c.Base, c.Complex}
}

// Inputs is everything the calculator needs for a single run.
type Inputs struct {
	Role      Role             `json:"role"`
	Mode      Mode             `json:"mode"`
	Practice  PracticeProfile  `json:"practice"`
	Staff     StaffConfig      `json:"staff"`
	Billing   Billing          `json:"billing"`
	Tests     []CategoryConfig `json:"tests"`
	Logistics *Logistics       `json:"logistics,omitempty"`
}

// LogisticsApplies reports whether logistics costs are collected for a role
// and specialty. Only fertility clinic owners carry them.
func LogisticsApplies(role Role, specialty Specialty) bool {
	return role == RoleOwner && specialty == SpecialtyFertility
}

// RoleHours is a time split across the four staff roles, in hours.
type RoleHours struct {
	Admin   float64 `json:"admin"`
	Nurse   float64 `json:"nurse"`
	Doctor  float64 `json:"doctor"`
	Genetic float64 `json:"genetic"`
}

// Total sums all roles.
func (r RoleHours) Total() float64 {
	return r.Admin + r.Nurse + r.Doctor + r.Genetic
}

// Scale multiplies every role by n.
func (r RoleHours) Scale(n float64) RoleHours {
	return RoleHours{
		Admin:   r.Admin * n,
		Nurse:   r.Nurse * n,
		Doctor:  r.Doctor * n,
		Genetic: r.Genetic * n,
	}
}

// VariantSavings is one row of the time and cost savings breakdown.
type VariantSavings struct {
	TestType     string   `json:"testType"`
	Category     Category `json:"category"`
	Variant      string   `json:"variant"`
	Complex      bool     `json:"complex"`
	AnnualVolume float64  `json:"annualVolume"`
	TotalSavings float64  `json:"totalSavings"`
	// GeneticCounselorCostAvoided is the patient-side saving for complex cases.
	GeneticCounselorCostAvoided float64 `json:"geneticCounselorCostAvoided"`
	// Probability is the complex-finding probability applied, zero when the
	// volume was entered manually.
	Probability float64   `json:"probability,omitempty"`
	TimePerTest RoleHours `json:"timePerTest"`
}

// HoursSaved is the annual time saved per role.
func (v VariantSavings) HoursSaved() RoleHours {
	return v.TimePerTest.Scale(v.AnnualVolume)
}

// RevenueLine is one row of the revenue breakdown.
type RevenueLine struct {
	TestType     string  `json:"testType"`
	AnnualVolume float64 `json:"annualVolume"`
	Rate         float64 `json:"rate"`
	Revenue      float64 `json:"revenue"`
}

// Results is the derived aggregate of one calculation.
type Results struct {
	CalculationID    string       `json:"calculationId"`
	CalculatedAt     time.Time    `json:"calculatedAt"`
	Specialty        Specialty    `json:"specialty"`
	Mode             Mode         `json:"mode"`
	BillingModel     BillingModel `json:"billingModel"`
	LogisticsApplies bool         `json:"logisticsApplies"`

	StaffCosts              float64 `json:"staffCosts"`
	LogisticalCosts         float64 `json:"logisticalCosts"`
	TotalAnnualSavings      float64 `json:"totalAnnualSavings"`
	TotalRevenue            float64 `json:"totalRevenue"`
	AdditionalRevenue       float64 `json:"additionalRevenue"`
	DoctorHoursSaved        float64 `json:"doctorHoursSaved"`
	PotentialPatientSavings float64 `json:"potentialPatientSavings"`
	TotalStaffHoursSaved    float64 `json:"totalStaffHoursSaved"`
	NetAnnualBenefit        float64 `json:"netAnnualBenefit"`

	Savings  []VariantSavings `json:"savings"`
	Revenue  []RevenueLine    `json:"revenue"`
	Warnings []string         `json:"warnings,omitempty"`
}

// BeforeRevenue is the revenue the practice would see without the time savings.
func (r Results) BeforeRevenue() float64 {
	return r.TotalRevenue - r.TotalAnnualSavings
}

// HoursSavedByRole sums annual hours saved per role across all variants.
func (r Results) HoursSavedByRole() RoleHours {
	var total RoleHours
	for _, s := range r.Savings {
		h := s.HoursSaved()
		total.Admin += h.Admin
		total.Nurse += h.Nurse
		total.Doctor += h.Doctor
		total.Genetic += h.Genetic
	}
	return total
}

// PatientSavingsRows returns complex variants with a positive patient saving.
func (r Results) PatientSavingsRows() []VariantSavings {
	var rows []VariantSavings
	for _, s := range r.Savings {
		if s.Complex && !mathutil.IsZero(s.GeneticCounselorCostAvoided) {
			rows = append(rows, s)
		}
	}
	return rows
}
