// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/payroll-estimate/pkg/constants"
)

// MaxCount is the largest head count handled exactly. Every integer up to it
// converts to float64 and back without loss.
const MaxCount = 1 << 53

// RoundCount rounds a fractional head count to the nearest whole person.
// Ties go to the even neighbour, so 2.5 becomes 2 and 3.5 becomes 4.
// NaN rounds to 0 and values beyond ±MaxCount saturate at ±MaxCount.
func RoundCount(val float64) int {
	switch {
	case math.IsNaN(val):
		return 0
	case val >= MaxCount:
		return MaxCount
	case val <= -MaxCount:
		return -MaxCount
	}
	return int(math.RoundToEven(val))
}

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// CurrencyEqual checks if two amounts are equal to the cent.
func CurrencyEqual(val1, val2 float64) bool {
	return WithinTolerance(val1, val2, constants.CurrencyTolerance)
}

// ToMillions expresses an amount in millions.
func ToMillions(val float64) float64 {
	return val / constants.Million
}
