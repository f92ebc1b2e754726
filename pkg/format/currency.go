// Package format renders monetary amounts and percentages for reports.
package format

import (
	"github.com/iwvelando/payroll-estimate/pkg/constants"
	"github.com/iwvelando/payroll-estimate/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with the given symbol and thousands separators.
// The symbol always leads, so negatives render as "€-1,234.56".
func Currency(amount float64, symbol string) string {
	return symbol + NumericCurrency(amount)
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	return printer.Sprintf("%.2f", amount)
}

// Millions returns an amount expressed in millions with two decimals (e.g., "€53.02M").
func Millions(amount float64, symbol string) string {
	return Currency(mathutil.ToMillions(amount), symbol) + "M"
}

// Percent converts a fraction into a whole percentage, truncating toward zero.
func Percent(fraction float64) int {
	return int(fraction * constants.PercentageMultiplier)
}
