package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/payroll-estimate/pkg/estimator"
	"github.com/iwvelando/payroll-estimate/pkg/mathutil"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type floatField struct {
	name  string
	value float64
}

func floatFields(in estimator.Inputs) []floatField {
	return []floatField{
		{"avg_salary", in.AvgSalary},
		{"high_percentile", in.HighPercentile},
		{"high_salary", in.HighSalary},
	}
}

// Representable rejects inputs the estimate cannot be expressed for: NaN or
// infinite parameters, head counts beyond mathutil.MaxCount, and payrolls that
// overflow float64. It applies whether or not strict mode is on.
func Representable(in estimator.Inputs) error {
	var msgs []string

	for _, f := range floatFields(in) {
		if !mathutil.IsFinite(f.value) {
			msgs = append(msgs, fmt.Sprintf("%s must be a finite number (got %v)", f.name, f.value))
		}
	}
	if in.NActive > mathutil.MaxCount || in.NActive < -mathutil.MaxCount {
		msgs = append(msgs, fmt.Sprintf("n_active must be within ±%d (got %d)", mathutil.MaxCount, in.NActive))
	}
	if len(msgs) > 0 {
		return fmt.Errorf("invalid inputs: %s", strings.Join(msgs, "; "))
	}

	if product := float64(in.NActive) * in.HighPercentile; math.Abs(product) > mathutil.MaxCount {
		return fmt.Errorf("invalid inputs: n_active * high_percentile must be within ±%d (got %g)", mathutil.MaxCount, product)
	}

	r := in.Compute()
	for _, total := range []float64{r.TotalHighPayroll, r.TotalRemainingPayroll, r.TotalMarketCap} {
		if !mathutil.IsFinite(total) {
			return fmt.Errorf("invalid inputs: payroll totals overflow (high %v, remaining %v, total %v)",
				r.TotalHighPayroll, r.TotalRemainingPayroll, r.TotalMarketCap)
		}
	}
	return nil
}

// Warnings reports inputs that are arithmetically valid but unlikely to be
// meaningful. The estimate is still computed for every one of them.
func Warnings(in estimator.Inputs) []string {
	var warnings []string

	for _, f := range floatFields(in) {
		if !mathutil.IsFinite(f.value) {
			warnings = append(warnings, fmt.Sprintf("%s is not a finite number (%v)", f.name, f.value))
		}
	}
	if in.NActive < 0 {
		warnings = append(warnings, fmt.Sprintf("n_active is negative (%d) - head counts will be negative", in.NActive))
	}
	if in.AvgSalary < 0 {
		warnings = append(warnings, fmt.Sprintf("avg_salary is negative (%.2f)", in.AvgSalary))
	}
	if in.HighSalary < 0 {
		warnings = append(warnings, fmt.Sprintf("high_salary is negative (%.2f)", in.HighSalary))
	}
	if in.HighPercentile < 0 || in.HighPercentile > 1 {
		warnings = append(warnings, fmt.Sprintf("high_percentile %.4f is outside [0, 1] - one subgroup will have a negative head count", in.HighPercentile))
	}
	if in.HighSalary < in.AvgSalary {
		warnings = append(warnings, fmt.Sprintf("high_salary (%.2f) is below avg_salary (%.2f)", in.HighSalary, in.AvgSalary))
	}

	return warnings
}

// Strict rejects inputs outside their intended domain: negative population
// or salaries, or a high percentile outside [0, 1].
func Strict(in estimator.Inputs) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("invalid inputs: %s", strings.Join(msgs, "; "))
}
