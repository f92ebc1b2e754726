// Package validation provides input and option validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/payroll-estimate/pkg/constants"
)

// StdoutFormats lists the formats that can be printed to standard output.
var StdoutFormats = []string{
	constants.OutputFormatText,
	constants.OutputFormatJSON,
	constants.OutputFormatYAML,
	constants.OutputFormatCSV,
}

// FileFormats lists the formats that can be written to a file.
var FileFormats = append(append([]string{}, StdoutFormats...), constants.OutputFormatXLSX)

// ValidateOutputFormat checks if the output format can be printed to standard output.
func ValidateOutputFormat(format string) error {
	return oneOf(format, StdoutFormats)
}

// ValidateFileFormat checks if the output format can be written to a file.
func ValidateFileFormat(format string) error {
	return oneOf(format, FileFormats)
}

func oneOf(format string, allowed []string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("expected output format of %s, got %q", strings.Join(allowed, ", "), format)
}
