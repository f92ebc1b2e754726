// Package config defines the configuration of payroll-estimate and loads it
// from defaults, an optional YAML file, the environment and CLI flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/iwvelando/payroll-estimate/pkg/constants"
	"github.com/iwvelando/payroll-estimate/pkg/estimator"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for payroll-estimate.
type Configuration struct {
	Estimate EstimateConfig `mapstructure:"estimate" yaml:"estimate"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging,omitempty"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output,omitempty"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server,omitempty"`
}

// EstimateConfig holds the estimator inputs and whether to reject
// out-of-domain values instead of only warning about them.
type EstimateConfig struct {
	estimator.Inputs `mapstructure:",squash" yaml:",inline"`
	Strict           bool `mapstructure:"strict" yaml:"strict,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format          string `mapstructure:"format" yaml:"format,omitempty"` // text, json, yaml, csv
	JSONOut         string `mapstructure:"json_out" yaml:"json_out,omitempty"`
	XLSXOut         string `mapstructure:"xlsx_out" yaml:"xlsx_out,omitempty"`
	CurrencySymbol  string `mapstructure:"currency" yaml:"currency,omitempty"`
	PopulationLabel string `mapstructure:"population_label" yaml:"population_label,omitempty"`
}

// ServerConfig defines runtime parameters for the HTTP server.
type ServerConfig struct {
	Address         string `mapstructure:"address" yaml:"address,omitempty"`
	MaxBodySize     string `mapstructure:"maxBodySize" yaml:"maxBodySize,omitempty"`
	ShutdownTimeout int    `mapstructure:"shutdownTimeout" yaml:"shutdownTimeout,omitempty"` // seconds
}

// FlagBindings maps CLI flag names onto configuration keys. Flags only
// override a key when they were set on the command line.
var FlagBindings = map[string]string{
	"n-active":         "estimate.n_active",
	"avg-salary":       "estimate.avg_salary",
	"percent-high":     "estimate.high_percentile",
	"high-salary":      "estimate.high_salary",
	"strict":           "estimate.strict",
	"log-level":        "logging.level",
	"output-format":    "output.format",
	"json-out":         "output.json_out",
	"xlsx-out":         "output.xlsx_out",
	"currency":         "output.currency",
	"population-label": "output.population_label",
	"address":          "server.address",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("estimate.n_active", constants.DefaultNActive)
	v.SetDefault("estimate.avg_salary", constants.DefaultAvgSalary)
	v.SetDefault("estimate.high_percentile", constants.DefaultHighPercentile)
	v.SetDefault("estimate.high_salary", constants.DefaultHighSalary)
	v.SetDefault("estimate.strict", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.outputFile", "")

	v.SetDefault("output.format", constants.OutputFormatText)
	v.SetDefault("output.json_out", "")
	v.SetDefault("output.xlsx_out", "")
	v.SetDefault("output.currency", constants.DefaultCurrencySymbol)
	v.SetDefault("output.population_label", constants.DefaultPopulationLabel)

	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxBodySize", fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes))
	v.SetDefault("server.shutdownTimeout", constants.DefaultShutdownTimeoutSeconds)
}

// LoadConfiguration builds the configuration. Precedence, highest first:
// flags set on the command line, PAYROLL_* environment variables (including
// those from a .env file in the working directory), the YAML file at
// configPath, then built-in defaults. An empty configPath skips the file;
// flags may be nil.
func LoadConfiguration(configPath string, flags *pflag.FlagSet) (*Configuration, error) {
	if _, err := LoadEnvFile(constants.DefaultEnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
	}

	if flags != nil {
		for name, key := range FlagBindings {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("unable to bind flag %s: %w", name, err)
			}
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &configuration, nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error; the boolean reports whether a file was loaded.
func LoadEnvFile(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return false, fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return true, nil
}

// Inputs returns the estimator inputs held by the configuration.
func (c *Configuration) Inputs() estimator.Inputs {
	return c.Estimate.Inputs
}
