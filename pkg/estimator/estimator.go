// Package estimator computes the aggregate annual payroll ("market cap") of a
// population split into a high-earning and a standard-earning subgroup.
package estimator

import (
	"fmt"

	"github.com/iwvelando/payroll-estimate/pkg/constants"
	"github.com/iwvelando/payroll-estimate/pkg/mathutil"
)

// Inputs holds the four parameters of an estimate. The validate tags are only
// enforced in strict mode; Compute accepts any values.
type Inputs struct {
	NActive        int     `json:"n_active" yaml:"n_active" mapstructure:"n_active" validate:"gte=0"`
	AvgSalary      float64 `json:"avg_salary" yaml:"avg_salary" mapstructure:"avg_salary" validate:"gte=0"`
	HighPercentile float64 `json:"high_percentile" yaml:"high_percentile" mapstructure:"high_percentile" validate:"gte=0,lte=1"`
	HighSalary     float64 `json:"high_salary" yaml:"high_salary" mapstructure:"high_salary" validate:"gte=0"`
}

// Result is the outcome of one estimate. It is a value: nothing mutates it
// after Compute returns.
type Result struct {
	NActive               int     `json:"n_active" yaml:"n_active"`
	AvgSalary             float64 `json:"avg_salary" yaml:"avg_salary"`
	HighPercentile        float64 `json:"high_percentile" yaml:"high_percentile"`
	HighSalary            float64 `json:"high_salary" yaml:"high_salary"`
	CountHigh             int     `json:"count_high" yaml:"count_high"`
	CountRemaining        int     `json:"count_remaining" yaml:"count_remaining"`
	TotalHighPayroll      float64 `json:"total_high_payroll" yaml:"total_high_payroll"`
	TotalRemainingPayroll float64 `json:"total_remaining_payroll" yaml:"total_remaining_payroll"`
	TotalMarketCap        float64 `json:"total_market_cap" yaml:"total_market_cap"`
}

// DefaultInputs returns the baseline population and salary assumptions.
func DefaultInputs() Inputs {
	return Inputs{
		NActive:        constants.DefaultNActive,
		AvgSalary:      constants.DefaultAvgSalary,
		HighPercentile: constants.DefaultHighPercentile,
		HighSalary:     constants.DefaultHighSalary,
	}
}

// Compute runs the estimate for the receiver's parameters.
func (in Inputs) Compute() Result {
	return Compute(in.NActive, in.AvgSalary, in.HighPercentile, in.HighSalary)
}

// Compute estimates total annual payroll. The high-earner head count is
// nActive*highPercentile rounded half to even; everyone else earns avgSalary.
// Out-of-domain inputs are not rejected, they are computed mechanically. A
// NaN or oversized head-count product is clamped by mathutil.RoundCount, so
// the head counts always add up to nActive.
func Compute(nActive int, avgSalary, highPercentile, highSalary float64) Result {
	countHigh := mathutil.RoundCount(float64(nActive) * highPercentile)
	countRemaining := nActive - countHigh

	totalHigh := float64(countHigh) * highSalary
	totalRemaining := float64(countRemaining) * avgSalary

	return Result{
		NActive:               nActive,
		AvgSalary:             avgSalary,
		HighPercentile:        highPercentile,
		HighSalary:            highSalary,
		CountHigh:             countHigh,
		CountRemaining:        countRemaining,
		TotalHighPayroll:      totalHigh,
		TotalRemainingPayroll: totalRemaining,
		TotalMarketCap:        totalHigh + totalRemaining,
	}
}

// Check verifies the internal consistency of a Result, which matters for
// results decoded from JSON or YAML rather than produced by Compute.
func (r Result) Check() error {
	if r.CountHigh+r.CountRemaining != r.NActive {
		return fmt.Errorf("head counts do not add up: %d + %d != %d",
			r.CountHigh, r.CountRemaining, r.NActive)
	}
	sum := r.TotalHighPayroll + r.TotalRemainingPayroll
	if !mathutil.IsFinite(sum) || !mathutil.IsFinite(r.TotalMarketCap) {
		// Overflowed totals agree only when they are the same infinity.
		if sum != r.TotalMarketCap {
			return fmt.Errorf("payrolls are not finite: %v + %v != %v",
				r.TotalHighPayroll, r.TotalRemainingPayroll, r.TotalMarketCap)
		}
		return nil
	}
	if !mathutil.CurrencyEqual(sum, r.TotalMarketCap) {
		return fmt.Errorf("payrolls do not add up: %.2f + %.2f != %.2f",
			r.TotalHighPayroll, r.TotalRemainingPayroll, r.TotalMarketCap)
	}
	return nil
}
