// Package intake reads practice configuration from form-like key/value
// sources. Numeric fields carry their widget bounds; clamping to those bounds
// is the only validation applied.
package intake

import (
	"fmt"
	"strings"

	"github.com/iwvelando/eugene-roi/internal/roi"
)

// Field is a bounded numeric input.
type Field struct {
	Key     string
	Label   string
	Help    string
	Min     float64
	Max     float64
	Default float64
	Integer bool
}

// Choice keys.
const (
	KeyRole         = "user_type"
	KeyMode         = "input_mode"
	KeySpecialty    = "specialty"
	KeyBillingModel = "billing_model"
)

// Practice profile fields.
var (
	OperationDays = Field{Key: "operation_days", Label: "Clinical Days/Week", Min: 1, Max: 7, Default: 5, Integer: true,
		Help: "Number of days per week your clinic operates."}
	WeeksPerYear = Field{Key: "weeks_year", Label: "Operational Weeks/Year", Min: 40, Max: 52, Default: 48, Integer: true,
		Help: "Total weeks in the year that your clinic operates. Default is 48."}
	ConsultsPerHour = Field{Key: "consults_per_hour", Label: "Patient Consults/Hour", Min: 1, Max: 6, Default: 3, Integer: true,
		Help: "Average number of patient consultations per doctor, per hour."}
)

// Staff fields for Advanced mode.
var (
	NumAdmin = Field{Key: "num_admin", Label: "Admin Staff", Min: 1, Max: 50, Default: 1, Integer: true,
		Help: "Number of administrative staff employed."}
	NumNurse = Field{Key: "num_nurse", Label: "Nurses", Min: 1, Max: 50, Default: 1, Integer: true,
		Help: "Number of nurses in the clinic."}
	NumDoctor = Field{Key: "num_doctor", Label: "Doctors", Min: 1, Max: 50, Default: 1, Integer: true,
		Help: "Number of doctors working in the clinic."}
	NumGeneticCounselor = Field{Key: "num_genetic_counselor", Label: "Genetic Counselors", Min: 0, Max: 50, Default: 0, Integer: true,
		Help: "Number of in-house genetic counselors (if any)."}
	AdminHourly = Field{Key: "admin_hourly", Label: "Admin Hourly Rate ($)", Min: 25, Max: 100, Default: 45,
		Help: "Hourly cost for administrative staff."}
	NurseHourly = Field{Key: "nurse_hourly", Label: "Nurse Hourly Rate ($)", Min: 25, Max: 100, Default: 60,
		Help: "Hourly cost for nursing staff."}
	DoctorHourly = Field{Key: "doctor_hourly", Label: "Doctor Hourly Rate ($)", Min: 80, Max: 300, Default: 180,
		Help: "Hourly cost for doctors, based on specialty."}
	GeneticHourly = Field{Key: "genetic_hourly", Label: "Genetic Counselor Hourly Rate ($)", Min: 60, Max: 200, Default: 100,
		Help: "Hourly cost for genetic counseling staff."}
)

// OwnerDoctors is the only staff input an owner sees in Simplified mode. It
// shares its key with NumDoctor.
var OwnerDoctors = Field{Key: "num_doctor", Label: "Number of Doctors", Min: 1, Max: 50, Default: 3, Integer: true,
	Help: "Total number of doctors in the clinic."}

// Logistics fields, monthly.
var (
	Shipping = Field{Key: "shipping", Label: "Monthly Shipping Costs ($)", Min: 0, Max: 10000, Default: roi.DefaultLogistics.Shipping,
		Help: "Shipping and transportation costs for tests and samples."}
	Storage = Field{Key: "storage", Label: "Monthly Storage Costs ($)", Min: 0, Max: 5000, Default: roi.DefaultLogistics.Storage,
		Help: "Costs of storing samples or kits."}
	AdminLogistics = Field{Key: "admin_logistics", Label: "Admin Logistics ($/month)", Min: 0, Max: 5000, Default: roi.DefaultLogistics.AdminLogistics,
		Help: "Administrative overhead costs related to logistics."}
	MiscLogistics = Field{Key: "misc_logistics", Label: "Miscellaneous Logistics ($/month)", Min: 0, Max: 3000, Default: roi.DefaultLogistics.MiscLogistics,
		Help: "Any other logistics expenses."}
)

// Billing fields.
var (
	PrivateHourly = Field{Key: "private_hourly", Label: "Private Rate ($/hr)", Min: 100, Max: 800, Default: 200,
		Help: "Your clinic's private billing hourly rate for consultations."}
	BulkRate = Field{Key: "bulk_rate", Label: "Bulk Bill Percentage (%)", Min: 0, Max: 100, Default: 60, Integer: true,
		Help: "Percentage of patients billed via Bulk Bill. The rest will be billed privately."}
)

// TestFields are the per-category inputs. Simplified mode only reads BaseVolume.
type TestFields struct {
	BaseVolume      Field
	AdminMinutes    Field
	NurseMinutes    Field
	DoctorMinutes   Field
	ComplexVolume   Field
	ResearchMinutes Field
	GeneticMinutes  Field
}

// FieldsFor builds the test inputs of a category.
func FieldsFor(c roi.Category) TestFields {
	base := c.BaseVariant()
	return TestFields{
		BaseVolume: Field{Key: fmt.Sprintf("vol_%s_base", c), Label: base + " Tests per Week", Min: 0, Max: 1000, Default: 20, Integer: true,
			Help: fmt.Sprintf("Number of %s tests conducted each week.", strings.ToLower(base))},
		AdminMinutes: Field{Key: fmt.Sprintf("admin_%s_base", c), Label: "Admin Time (minutes per test)", Min: 0, Max: 240, Default: 20, Integer: true,
			Help: "Average admin processing time for each test."},
		NurseMinutes: Field{Key: fmt.Sprintf("nurse_%s_base", c), Label: "Nurse Time (minutes per test)", Min: 0, Max: 240, Default: 15, Integer: true,
			Help: "Nursing time involved per test (if any)."},
		DoctorMinutes: Field{Key: fmt.Sprintf("doctor_%s_base", c), Label: "Doctor Time (minutes per test)", Min: 0, Max: 240, Default: 15, Integer: true,
			Help: "Doctor consultation time spent per test."},
		ComplexVolume: Field{Key: fmt.Sprintf("vol_%s_complex", c), Label: "Complex Cases per Week", Min: 0, Max: 500, Default: 1, Integer: true,
			Help: "Number of tests per week expected to result in complex findings."},
		ResearchMinutes: Field{Key: fmt.Sprintf("research_%s_complex", c), Label: "Research Time (minutes per complex case)", Min: 0, Max: 480, Default: 90, Integer: true,
			Help: "Time the doctor spends researching complex cases."},
		GeneticMinutes: Field{Key: fmt.Sprintf("genetic_%s_complex", c), Label: "Genetic Counseling Time (minutes per complex case)", Min: 0, Max: 360, Default: 60, Integer: true,
			Help: "Time spent in genetic counseling for each complex case."},
	}
}
