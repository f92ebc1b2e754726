// Package output provides utilities for formatting and writing estimate results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/iwvelando/payroll-estimate/pkg/constants"
	"github.com/iwvelando/payroll-estimate/pkg/estimator"
	"github.com/iwvelando/payroll-estimate/pkg/format"
	"github.com/iwvelando/payroll-estimate/pkg/validation"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// nbsp separates a percentage from its sign in the text report.
const nbsp = "\u00a0"

// SheetName is the worksheet holding the estimate in XLSX output.
const SheetName = "Estimate"

// ReportOptions controls the wording of the text report.
type ReportOptions struct {
	PopulationLabel string
	CurrencySymbol  string
}

// DefaultReportOptions returns the report wording used when nothing is configured.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		PopulationLabel: constants.DefaultPopulationLabel,
		CurrencySymbol:  constants.DefaultCurrencySymbol,
	}
}

func (o ReportOptions) withDefaults() ReportOptions {
	if o.PopulationLabel == "" {
		o.PopulationLabel = constants.DefaultPopulationLabel
	}
	if o.CurrencySymbol == "" {
		o.CurrencySymbol = constants.DefaultCurrencySymbol
	}
	return o
}

// Text writes the six-line human-readable report.
func Text(w io.Writer, r estimator.Result, opts ReportOptions) error {
	opts = opts.withDefaults()
	sym := opts.CurrencySymbol
	pct := format.Percent(r.HighPercentile)

	_, err := fmt.Fprintf(w,
		"Number of active %s: %d\n"+
			"Average salary (remaining %d%s%%): %s\n"+
			"Top %d%s%% count: %d, with average salary %s\n"+
			"Total payroll for high earners: %s\n"+
			"Total payroll for remaining %s: %s\n"+
			"Estimated total market cap (annual salary expenditure): %s\n",
		opts.PopulationLabel, r.NActive,
		100-pct, nbsp, format.Currency(r.AvgSalary, sym),
		pct, nbsp, r.CountHigh, format.Currency(r.HighSalary, sym),
		format.Millions(r.TotalHighPayroll, sym),
		opts.PopulationLabel, format.Millions(r.TotalRemainingPayroll, sym),
		format.Millions(r.TotalMarketCap, sym),
	)
	return err
}

// JSON writes the result as a two-space indented JSON object.
func JSON(w io.Writer, r estimator.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// YAML writes the result as a YAML mapping.
func YAML(w io.Writer, r estimator.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// fields returns the result as ordered field/value pairs for tabular formats.
func fields(r estimator.Result) [][2]string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return [][2]string{
		{"n_active", strconv.Itoa(r.NActive)},
		{"avg_salary", f(r.AvgSalary)},
		{"high_percentile", f(r.HighPercentile)},
		{"high_salary", f(r.HighSalary)},
		{"count_high", strconv.Itoa(r.CountHigh)},
		{"count_remaining", strconv.Itoa(r.CountRemaining)},
		{"total_high_payroll", f(r.TotalHighPayroll)},
		{"total_remaining_payroll", f(r.TotalRemainingPayroll)},
		{"total_market_cap", f(r.TotalMarketCap)},
	}
}

// CSV writes a field,value header followed by one row per result field.
func CSV(w io.Writer, r estimator.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"field", "value"}); err != nil {
		return err
	}
	for _, kv := range fields(r) {
		if err := cw.Write(kv[:]); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// XLSX writes a single-sheet workbook with one row per result field.
func XLSX(w io.Writer, r estimator.Result) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	idx, err := f.NewSheet(SheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	if err := f.SetSheetRow(SheetName, "A1", &[]any{"field", "value"}); err != nil {
		return err
	}
	values := []any{
		r.NActive, r.AvgSalary, r.HighPercentile, r.HighSalary, r.CountHigh,
		r.CountRemaining, r.TotalHighPayroll, r.TotalRemainingPayroll, r.TotalMarketCap,
	}
	for i, kv := range fields(r) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &[]any{kv[0], values[i]}); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}

// Render writes the result to w in the given format.
func Render(w io.Writer, outputFormat string, r estimator.Result, opts ReportOptions) error {
	switch outputFormat {
	case constants.OutputFormatText:
		return Text(w, r, opts)
	case constants.OutputFormatJSON:
		return JSON(w, r)
	case constants.OutputFormatYAML:
		return YAML(w, r)
	case constants.OutputFormatCSV:
		return CSV(w, r)
	case constants.OutputFormatXLSX:
		return XLSX(w, r)
	}
	return validation.ValidateFileFormat(outputFormat)
}

// WriteFile creates or truncates path and renders the result into it.
func WriteFile(path, outputFormat string, r estimator.Result, opts ReportOptions) error {
	if err := validation.ValidateFileFormat(outputFormat); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := Render(file, outputFormat, r, opts); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s output to %s: %w", outputFormat, path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
