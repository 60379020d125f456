// Package constants provides shared constants for the eugene-roi application.
package constants

// Time constants
const (
	// MonthsPerYear converts monthly logistics line items to annual figures
	MonthsPerYear = 12

	// MinutesPerHour converts per-test minutes into role hours
	MinutesPerHour = 60.0

	// DefaultWeeksPerYear is the operational weeks/year assumed in Simplified mode
	DefaultWeeksPerYear = 48
)

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default practice configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes bounds form and JSON request bodies (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultSessionTTL is how long an idle session keeps its last results
	DefaultSessionTTL = "30m"

	// SessionCookieName holds the id of the browser session's result slot
	SessionCookieName = "eugene_roi_session"
)

// Report constants
const (
	// ReportFileName is the download name of the exported workbook
	ReportFileName = "Eugene_ROI_Workload_Report.xlsx"

	// XLSXContentType is the MIME type of the exported workbook
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)
