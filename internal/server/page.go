package server

import (
	"fmt"
	"html/template"

	"github.com/goccy/go-json"
	"github.com/iwvelando/eugene-roi/internal/chart"
	"github.com/iwvelando/eugene-roi/internal/intake"
	"github.com/iwvelando/eugene-roi/internal/report"
	"github.com/iwvelando/eugene-roi/internal/roi"
	"github.com/iwvelando/eugene-roi/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type formField struct {
	intake.Field
	Value float64
}

// Step is the HTML input step for the field.
func (f formField) Step() string {
	if f.Integer {
		return "1"
	}
	return "any"
}

type option struct {
	Value    string
	Selected bool
}

func options[T ~string](all []T, selected T) []option {
	out := make([]option, len(all))
	for i, v := range all {
		out[i] = option{Value: string(v), Selected: v == selected}
	}
	return out
}

type testSection struct {
	Category roi.Category
	Fields   []formField
}

type card struct {
	Label string
	Value string
	Help  string
}

type patientRow struct {
	TestType    string
	Volume      float64
	Probability string
	Savings     float64
}

type resultsView struct {
	Res            roi.Results
	Cards          []card
	PatientSavings card
	Impact         chart.BarChart
	BeforeAfter    chart.BarChart
	RolePie        chart.PieChart
	PatientRows    []patientRow
}

type debugView struct {
	Inputs       string
	MissingRates []string
	Schedule     roi.WorkSchedule
}

type page struct {
	Version       string
	Roles         []option
	Modes         []option
	Specialties   []option
	BillingModels []option
	Practice      []formField
	Staff         []formField
	Logistics     []formField
	Billing       []formField
	Tests         []testSection
	Debug         bool
	Notes         []string
	Results       *resultsView
	DebugInfo     *debugView
}

func fields(src intake.Source, fs ...intake.Field) []formField {
	out := make([]formField, len(fs))
	for i, f := range fs {
		out[i] = formField{Field: f, Value: intake.Value(src, f)}
	}
	return out
}

// buildPage lays out the form for the inputs Collect produced from src, so the
// visible sections follow the same role, mode and billing rules.
func buildPage(src intake.Source, in roi.Inputs, version string) page {
	p := page{
		Version:       version,
		Roles:         options(roi.Roles, in.Role),
		Modes:         options(roi.Modes, in.Mode),
		Specialties:   options(roi.Specialties, in.Practice.Specialty),
		BillingModels: options(roi.BillingModels, in.Billing.Model),
	}
	advanced := in.Mode == roi.ModeAdvanced

	if advanced {
		p.Practice = fields(src, intake.OperationDays, intake.WeeksPerYear, intake.ConsultsPerHour)
	} else {
		p.Practice = fields(src, intake.OperationDays, intake.ConsultsPerHour)
	}

	switch {
	case in.Role == roi.RoleOwner && advanced:
		p.Staff = fields(src,
			intake.NumAdmin, intake.NumNurse, intake.NumDoctor, intake.NumGeneticCounselor,
			intake.AdminHourly, intake.NurseHourly, intake.DoctorHourly, intake.GeneticHourly)
	case in.Role == roi.RoleOwner:
		p.Staff = fields(src, intake.OwnerDoctors)
	}

	if in.Logistics != nil {
		p.Logistics = fields(src, intake.Shipping, intake.Storage, intake.AdminLogistics, intake.MiscLogistics)
	}

	if in.Billing.Model != roi.BillingBulkBill {
		p.Billing = append(p.Billing, fields(src, intake.PrivateHourly)...)
	}
	if in.Billing.Model == roi.BillingMixed {
		p.Billing = append(p.Billing, fields(src, intake.BulkRate)...)
	}

	for _, c := range roi.Categories {
		tf := intake.FieldsFor(c)
		section := testSection{Category: c}
		if advanced {
			section.Fields = fields(src,
				tf.BaseVolume, tf.AdminMinutes, tf.NurseMinutes, tf.DoctorMinutes,
				tf.ComplexVolume, tf.ResearchMinutes, tf.GeneticMinutes)
		} else {
			section.Fields = fields(src, tf.BaseVolume)
		}
		p.Tests = append(p.Tests, section)
	}

	return p
}

func buildResults(res roi.Results) *resultsView {
	v := &resultsView{
		Res: res,
		Cards: []card{
			{"Staff Costs", format.WholeDollars(res.StaffCosts), "Total annual staff costs based on actual workload."},
			{"Total Revenue", format.WholeDollars(res.TotalRevenue), "Total revenue from tests, based on billing model and doctor time."},
			{"Annual Efficiency Savings", format.WholeDollars(res.TotalAnnualSavings), "Annual time and efficiency savings from using Eugene."},
			{"Net Annual Benefit", format.WholeDollars(res.NetAnnualBenefit), "Revenue plus savings minus staff and logistics costs."},
		},
		PatientSavings: card{
			Label: "Potential Patient Savings",
			Value: format.WholeDollars(res.PotentialPatientSavings),
			Help:  fmt.Sprintf("Genetic counselling for complex cases, valued at %s/hour.", format.WholeDollars(roi.GeneticCounsellingMarketRate)),
		},
		Impact:      chart.Impact(res),
		BeforeAfter: chart.BeforeAfter(res),
		RolePie:     chart.HoursByRole(res),
	}
	for _, row := range res.PatientSavingsRows() {
		v.PatientRows = append(v.PatientRows, patientRow{
			TestType:    row.TestType,
			Volume:      row.AnnualVolume,
			Probability: report.Probability(res.Mode, row),
			Savings:     row.GeneticCounselorCostAvoided,
		})
	}
	return v
}

func buildDebug(in roi.Inputs) *debugView {
	inputs, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		inputs = []byte(err.Error())
	}
	return &debugView{
		Inputs:       string(inputs),
		MissingRates: roi.MissingRates(in),
		Schedule:     roi.DefaultWorkSchedule,
	}
}

var templateFuncs = template.FuncMap{
	"dollars": format.WholeDollars,
	"money":   format.Currency,
	"hours":   format.Hours,
	"num": func(v float64) string {
		return message.NewPrinter(language.English).Sprintf("%.1f", v)
	},
	"coord": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
}
