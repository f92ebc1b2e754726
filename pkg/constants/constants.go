// Package constants provides shared constants for the payroll-estimate application.
package constants

// Estimator defaults
const (
	// DefaultNActive is the number of active professionals in the baseline population
	DefaultNActive = 9631

	// DefaultAvgSalary is the annual salary of the standard-earning subgroup
	DefaultAvgSalary = 48000.0

	// DefaultHighPercentile is the fraction of the population in the high-earning subgroup
	DefaultHighPercentile = 0.05

	// DefaultHighSalary is the annual salary of the high-earning subgroup
	DefaultHighSalary = 110000.0
)

// Report constants
const (
	// DefaultCurrencySymbol prefixes every monetary amount in the text report
	DefaultCurrencySymbol = "€"

	// DefaultPopulationLabel names the population in the text report
	DefaultPopulationLabel = "doctors"

	// Million is the divisor for payroll figures expressed in millions
	Million = 1e6

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Output format constants
const (
	// OutputFormatText is the human-readable six-line report
	OutputFormatText = "text"

	// OutputFormatJSON is the indented JSON document
	OutputFormatJSON = "json"

	// OutputFormatYAML is the YAML document
	OutputFormatYAML = "yaml"

	// OutputFormatCSV is the field/value CSV format
	OutputFormatCSV = "csv"

	// OutputFormatXLSX is the single-sheet spreadsheet format
	OutputFormatXLSX = "xlsx"
)

// Configuration constants
const (
	// EnvPrefix prefixes every environment override, e.g. PAYROLL_ESTIMATE_N_ACTIVE
	EnvPrefix = "PAYROLL"

	// DefaultEnvFile is loaded into the environment when present
	DefaultEnvFile = ".env"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the estimate API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultShutdownTimeoutSeconds bounds graceful shutdown of the HTTP server
	DefaultShutdownTimeoutSeconds = 5
)
