package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/payroll-estimate/internal/config"
	"github.com/iwvelando/payroll-estimate/pkg/constants"
	"github.com/iwvelando/payroll-estimate/pkg/output"
	"github.com/prometheus/client_golang/prometheus"
)

// Options defines runtime parameters for the estimate API.
type Options struct {
	Address         string
	MaxBodySize     int64
	ShutdownTimeout time.Duration
	Strict          bool
	Version         string
	Report          output.ReportOptions
	// Registry receives the API metrics and backs /metrics. A fresh registry
	// is created when nil.
	Registry *prometheus.Registry
}

// OptionsFromConfig derives server options from the loaded configuration.
func OptionsFromConfig(conf *config.Configuration, version string) (Options, error) {
	size, err := ParseSize(conf.Server.MaxBodySize)
	if err != nil {
		return Options{}, err
	}

	timeout := time.Duration(conf.Server.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = constants.DefaultShutdownTimeoutSeconds * time.Second
	}

	address := conf.Server.Address
	if address == "" {
		address = constants.DefaultServerAddress
	}

	return Options{
		Address:         address,
		MaxBodySize:     size,
		ShutdownTimeout: timeout,
		Strict:          conf.Estimate.Strict,
		Version:         version,
		Report: output.ReportOptions{
			PopulationLabel: conf.Output.PopulationLabel,
			CurrencySymbol:  conf.Output.CurrencySymbol,
		},
	}, nil
}

// ParseSize converts a human-friendly byte string (e.g., "64K", "1M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result <= 0 {
		return 0, fmt.Errorf("size must be positive: %s", value)
	}
	return result, nil
}
