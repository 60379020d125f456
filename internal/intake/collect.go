package intake

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/iwvelando/eugene-roi/internal/roi"
	"github.com/iwvelando/eugene-roi/pkg/constants"
	"github.com/iwvelando/eugene-roi/pkg/mathutil"
)

// Source yields raw input values by key.
type Source interface {
	Get(key string) (string, bool)
}

// Values is a plain map Source.
type Values map[string]string

// Get implements Source.
func (v Values) Get(key string) (string, bool) {
	s, ok := v[key]
	return s, ok
}

type formSource url.Values

func (f formSource) Get(key string) (string, bool) {
	vals, ok := f[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// FromForm adapts posted form values.
func FromForm(v url.Values) Source {
	return formSource(v)
}

// reader pulls typed values out of a Source, noting anything it had to
// replace or clamp.
type reader struct {
	src   Source
	notes []string
}

func (r *reader) notef(format string, args ...interface{}) {
	r.notes = append(r.notes, fmt.Sprintf(format, args...))
}

func (r *reader) number(f Field) float64 {
	raw, ok := r.src.Get(f.Key)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return f.Default
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.notef("%s: %q is not a number, using %v", f.Label, raw, f.Default)
		return f.Default
	}

	clamped := mathutil.Clamp(v, f.Min, f.Max)
	if clamped != v {
		r.notef("%s: %v is outside %v-%v, using %v", f.Label, v, f.Min, f.Max, clamped)
	}
	if f.Integer {
		clamped = math.Round(clamped)
	}
	return clamped
}

// Value reads a single field the way Collect would, for redisplaying a form.
func Value(src Source, f Field) float64 {
	r := &reader{src: src}
	return r.number(f)
}

func (r *reader) integer(f Field) int {
	return int(r.number(f))
}

func choice[T ~string](r *reader, key string, parse func(string) (T, error), def T) T {
	raw, ok := r.src.Get(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		r.notef("%v, using %s", err, def)
		return def
	}
	return v
}

// Collect builds the calculator inputs from a Source. The returned notes
// describe values that were replaced by defaults or clamped into range.
func Collect(src Source) (roi.Inputs, []string) {
	r := &reader{src: src}

	var in roi.Inputs
	in.Role = choice(r, KeyRole, roi.ParseRole, roi.RoleClinician)
	in.Mode = choice(r, KeyMode, roi.ParseMode, roi.ModeSimplified)
	in.Practice = r.practiceProfile(in.Mode)
	in.Staff = r.staffCosts(in.Role, in.Mode, in.Practice.Specialty)
	if roi.LogisticsApplies(in.Role, in.Practice.Specialty) {
		l := r.logistics()
		in.Logistics = &l
	}
	in.Billing = r.billingModel()
	for _, c := range roi.Categories {
		in.Tests = append(in.Tests, r.testConfiguration(c, in.Mode))
	}

	return in, r.notes
}

func (r *reader) practiceProfile(mode roi.Mode) roi.PracticeProfile {
	p := roi.PracticeProfile{
		Specialty:       choice(r, KeySpecialty, roi.ParseSpecialty, roi.SpecialtyGP),
		OperationDays:   r.integer(OperationDays),
		WeeksPerYear:    constants.DefaultWeeksPerYear,
		ConsultsPerHour: r.integer(ConsultsPerHour),
	}
	if mode == roi.ModeAdvanced {
		p.WeeksPerYear = r.integer(WeeksPerYear)
	}
	return p
}

// DefaultStaff is the staffing assumed when rates are not entered by hand.
func DefaultStaff(specialty roi.Specialty, doctors int) roi.StaffConfig {
	return roi.StaffConfig{
		NumAdmin:            1,
		NumNurse:            1,
		NumDoctor:           doctors,
		NumGeneticCounselor: 0,
		AdminHourly:         roi.DefaultAdminHourly,
		NurseHourly:         roi.DefaultNurseHourly,
		DoctorHourly:        roi.DoctorRate(specialty),
		GeneticHourly:       roi.DefaultGeneticHourly,
	}
}

func (r *reader) staffCosts(role roi.Role, mode roi.Mode, specialty roi.Specialty) roi.StaffConfig {
	if role != roi.RoleOwner {
		return DefaultStaff(specialty, 1)
	}
	if mode != roi.ModeAdvanced {
		return DefaultStaff(specialty, r.integer(OwnerDoctors))
	}
	return roi.StaffConfig{
		NumAdmin:            r.integer(NumAdmin),
		NumNurse:            r.integer(NumNurse),
		NumDoctor:           r.integer(NumDoctor),
		NumGeneticCounselor: r.integer(NumGeneticCounselor),
		AdminHourly:         r.number(AdminHourly),
		NurseHourly:         r.number(NurseHourly),
		DoctorHourly:        r.number(DoctorHourly),
		GeneticHourly:       r.number(GeneticHourly),
	}
}

func (r *reader) logistics() roi.Logistics {
	return roi.Logistics{
		Shipping:       r.number(Shipping),
		Storage:        r.number(Storage),
		AdminLogistics: r.number(AdminLogistics),
		MiscLogistics:  r.number(MiscLogistics),
	}
}

func (r *reader) billingModel() roi.Billing {
	b := roi.Billing{Model: choice(r, KeyBillingModel, roi.ParseBillingModel, roi.BillingBulkBill)}
	if b.Model != roi.BillingBulkBill {
		b.PrivateHourly = r.number(PrivateHourly)
	}
	if b.Model == roi.BillingMixed {
		b.BulkRate = r.number(BulkRate)
	}
	return b
}

func (r *reader) testConfiguration(c roi.Category, mode roi.Mode) roi.CategoryConfig {
	fields := FieldsFor(c)
	cfg := roi.CategoryConfig{
		Category: c,
		Base:     roi.VariantConfig{Name: c.BaseVariant()},
		Complex:  roi.VariantConfig{Name: c.ComplexVariant(), Complex: true},
	}

	if mode != roi.ModeAdvanced {
		times := roi.SimplifiedTimes[c]
		baseVolume := r.number(fields.BaseVolume)

		cfg.Base.WeeklyVolume = baseVolume
		cfg.Base.AdminMinutes = times.Admin
		cfg.Base.NurseMinutes = times.Nurse
		cfg.Base.DoctorMinutes = times.Doctor

		cfg.Complex.WeeklyVolume = baseVolume * roi.ComplexProbability(c.ComplexVariant())
		cfg.Complex.ResearchMinutes = times.Research
		cfg.Complex.GeneticMinutes = roi.SimplifiedGeneticMinutes
		return cfg
	}

	cfg.Base.WeeklyVolume = r.number(fields.BaseVolume)
	cfg.Base.AdminMinutes = r.number(fields.AdminMinutes)
	cfg.Base.NurseMinutes = r.number(fields.NurseMinutes)
	cfg.Base.DoctorMinutes = r.number(fields.DoctorMinutes)

	cfg.Complex.WeeklyVolume = r.number(fields.ComplexVolume)
	cfg.Complex.ResearchMinutes = r.number(fields.ResearchMinutes)
	cfg.Complex.GeneticMinutes = r.number(fields.GeneticMinutes)
	return cfg
}
