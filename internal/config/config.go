// Package config defines the practice configuration file and converts it into
// calculator inputs. Every value is optional; anything left out takes the same
// default the web form would show.
package config

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/iwvelando/eugene-roi/internal/intake"
	"github.com/iwvelando/eugene-roi/internal/roi"
	"github.com/spf13/viper"
)

// EnvPrefix scopes environment overrides, e.g. EUGENE_PRACTICE_WEEKSPERYEAR.
const EnvPrefix = "EUGENE"

// Configuration holds a practice description plus the CLI's logging and
// output preferences.
type Configuration struct {
	Role      string                `mapstructure:"role" json:"role,omitempty"`
	Mode      string                `mapstructure:"mode" json:"mode,omitempty"`
	Practice  Practice              `mapstructure:"practice" json:"practice"`
	Staff     Staff                 `mapstructure:"staff" json:"staff"`
	Logistics *Logistics            `mapstructure:"logistics" json:"logistics,omitempty"`
	Billing   Billing               `mapstructure:"billing" json:"billing"`
	Tests     map[string]TestVolume `mapstructure:"tests" json:"tests,omitempty"`
	Logging   LoggingConfig         `mapstructure:"logging" json:"-"`
	Output    OutputConfig          `mapstructure:"output" json:"-"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, json
}

// Practice is the practice profile.
type Practice struct {
	Specialty       string   `mapstructure:"specialty" json:"specialty,omitempty"`
	OperationDays   *float64 `mapstructure:"operationDays" json:"operationDays,omitempty"`
	WeeksPerYear    *float64 `mapstructure:"weeksPerYear" json:"weeksPerYear,omitempty"`
	ConsultsPerHour *float64 `mapstructure:"consultsPerHour" json:"consultsPerHour,omitempty"`
}

// Staff only matters for owners; NumDoctor is the single field read in
// Simplified mode.
type Staff struct {
	NumAdmin            *float64 `mapstructure:"numAdmin" json:"numAdmin,omitempty"`
	NumNurse            *float64 `mapstructure:"numNurse" json:"numNurse,omitempty"`
	NumDoctor           *float64 `mapstructure:"numDoctor" json:"numDoctor,omitempty"`
	NumGeneticCounselor *float64 `mapstructure:"numGeneticCounselor" json:"numGeneticCounselor,omitempty"`
	AdminHourly         *float64 `mapstructure:"adminHourly" json:"adminHourly,omitempty"`
	NurseHourly         *float64 `mapstructure:"nurseHourly" json:"nurseHourly,omitempty"`
	DoctorHourly        *float64 `mapstructure:"doctorHourly" json:"doctorHourly,omitempty"`
	GeneticHourly       *float64 `mapstructure:"geneticHourly" json:"geneticHourly,omitempty"`
}

// Logistics are monthly costs, read only for fertility clinic owners.
type Logistics struct {
	Shipping       *float64 `mapstructure:"shipping" json:"shipping,omitempty"`
	Storage        *float64 `mapstructure:"storage" json:"storage,omitempty"`
	AdminLogistics *float64 `mapstructure:"adminLogistics" json:"adminLogistics,omitempty"`
	MiscLogistics  *float64 `mapstructure:"miscLogistics" json:"miscLogistics,omitempty"`
}

// Billing selects the billing model.
type Billing struct {
	Model         string   `mapstructure:"model" json:"model,omitempty"`
	PrivateHourly *float64 `mapstructure:"privateHourly" json:"privateHourly,omitempty"`
	BulkRate      *float64 `mapstructure:"bulkRate" json:"bulkRate,omitempty"`
}

// TestVolume configures one test category. Simplified mode only reads
// WeeklyVolume.
type TestVolume struct {
	WeeklyVolume    *float64 `mapstructure:"weeklyVolume" json:"weeklyVolume,omitempty"`
	AdminMinutes    *float64 `mapstructure:"adminMinutes" json:"adminMinutes,omitempty"`
	NurseMinutes    *float64 `mapstructure:"nurseMinutes" json:"nurseMinutes,omitempty"`
	DoctorMinutes   *float64 `mapstructure:"doctorMinutes" json:"doctorMinutes,omitempty"`
	ComplexVolume   *float64 `mapstructure:"complexVolume" json:"complexVolume,omitempty"`
	ResearchMinutes *float64 `mapstructure:"researchMinutes" json:"researchMinutes,omitempty"`
	GeneticMinutes  *float64 `mapstructure:"geneticMinutes" json:"geneticMinutes,omitempty"`
}

// newViper returns a viper instance, with EUGENE_* environment overrides bound
// when env is set.
func newViper(env bool) *viper.Viper {
	v := viper.New()
	if env {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper(true)
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a configuration from r. configType is any
// type viper understands, in practice "yaml" or "json". EUGENE_* environment
// variables are not applied.
func LoadConfigurationFromReader(r io.Reader, configType string) (*Configuration, error) {
	v := newViper(false)
	v.SetConfigType(configType)

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// testVolume finds a category's entry. Viper folds map keys to lower case so
// the match is case-insensitive.
func (c *Configuration) testVolume(cat roi.Category) (TestVolume, bool) {
	for name, t := range c.Tests {
		if strings.EqualFold(name, string(cat)) {
			return t, true
		}
	}
	return TestVolume{}, false
}

// Values flattens the configuration into the key/value form the intake
// builder reads.
func (c *Configuration) Values() intake.Values {
	v := intake.Values{}
	setString(v, intake.KeyRole, c.Role)
	setString(v, intake.KeyMode, c.Mode)

	setString(v, intake.KeySpecialty, c.Practice.Specialty)
	setNumber(v, intake.OperationDays, c.Practice.OperationDays)
	setNumber(v, intake.WeeksPerYear, c.Practice.WeeksPerYear)
	setNumber(v, intake.ConsultsPerHour, c.Practice.ConsultsPerHour)

	setNumber(v, intake.NumAdmin, c.Staff.NumAdmin)
	setNumber(v, intake.NumNurse, c.Staff.NumNurse)
	setNumber(v, intake.NumDoctor, c.Staff.NumDoctor)
	setNumber(v, intake.NumGeneticCounselor, c.Staff.NumGeneticCounselor)
	setNumber(v, intake.AdminHourly, c.Staff.AdminHourly)
	setNumber(v, intake.NurseHourly, c.Staff.NurseHourly)
	setNumber(v, intake.DoctorHourly, c.Staff.DoctorHourly)
	setNumber(v, intake.GeneticHourly, c.Staff.GeneticHourly)

	if l := c.Logistics; l != nil {
		setNumber(v, intake.Shipping, l.Shipping)
		setNumber(v, intake.Storage, l.Storage)
		setNumber(v, intake.AdminLogistics, l.AdminLogistics)
		setNumber(v, intake.MiscLogistics, l.MiscLogistics)
	}

	setString(v, intake.KeyBillingModel, c.Billing.Model)
	setNumber(v, intake.PrivateHourly, c.Billing.PrivateHourly)
	setNumber(v, intake.BulkRate, c.Billing.BulkRate)

	for _, cat := range roi.Categories {
		t, ok := c.testVolume(cat)
		if !ok {
			continue
		}
		f := intake.FieldsFor(cat)
		setNumber(v, f.BaseVolume, t.WeeklyVolume)
		setNumber(v, f.AdminMinutes, t.AdminMinutes)
		setNumber(v, f.NurseMinutes, t.NurseMinutes)
		setNumber(v, f.DoctorMinutes, t.DoctorMinutes)
		setNumber(v, f.ComplexVolume, t.ComplexVolume)
		setNumber(v, f.ResearchMinutes, t.ResearchMinutes)
		setNumber(v, f.GeneticMinutes, t.GeneticMinutes)
	}

	return v
}

func setString(v intake.Values, key, s string) {
	if s != "" {
		v[key] = s
	}
}

func setNumber(v intake.Values, f intake.Field, n *float64) {
	if n != nil {
		v[f.Key] = strconv.FormatFloat(*n, 'f', -1, 64)
	}
}

// Inputs builds the calculator inputs. The notes list every value that was
// replaced or clamped.
func (c *Configuration) Inputs() (roi.Inputs, []string) {
	return intake.Collect(c.Values())
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. None of them stop a calculation.
func (c *Configuration) ValidateConfiguration() []string {
	in, warnings := c.Inputs()

	var unknown []string
	for name := range c.Tests {
		known := false
		for _, cat := range roi.Categories {
			if strings.EqualFold(name, string(cat)) {
				known = true
				break
			}
		}
		if !known {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		warnings = append(warnings, fmt.Sprintf("Test category '%s' is not recognised and will be ignored", name))
	}

	if c.Logistics != nil && in.Logistics == nil {
		warnings = append(warnings, "Logistics costs only apply to Owner/Manager of a Fertility Specialist practice and will be ignored")
	}
	if c.Billing.PrivateHourly != nil && in.Billing.Model == roi.BillingBulkBill {
		warnings = append(warnings, "privateHourly is ignored under Bulk Bill")
	}
	if c.Billing.BulkRate != nil && in.Billing.Model != roi.BillingMixed {
		warnings = append(warnings, fmt.Sprintf("bulkRate is ignored under %s", in.Billing.Model))
	}
	if c.Practice.WeeksPerYear != nil && in.Mode != roi.ModeAdvanced {
		warnings = append(warnings, "weeksPerYear is fixed at 48 in Simplified mode")
	}

	return append(warnings, roi.MissingRates(in)...)
}
