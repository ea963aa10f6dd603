package output

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	decimalHundred = decimal.NewFromInt(100)

	// compactINR groups whole rupees below one lakh, e.g. ₹12,345.
	compactINR = money.NewFormatter(0, ".", ",", "₹", "$1")
)

const (
	crore = 10_000_000
	lakh  = 100_000
)

// FormatCurrency formats amount in the given ISO currency with its grouping
// and minor-unit precision. Unknown codes fall back to "1234.56 CODE".
func FormatCurrency(amount float64, currency string) string {
	if !isFinite(amount) {
		return "n/a"
	}
	code := strings.ToUpper(currency)
	cur := money.GetCurrency(code)
	if cur == nil {
		return fmt.Sprintf("%s %s", decimal.NewFromFloat(amount).StringFixed(2), code)
	}
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatCompactINR abbreviates rupee amounts in crore (Cr) and lakh (L),
// e.g. ₹1.2Cr, ₹3.4L, and ₹12,345 below one lakh.
func FormatCompactINR(value float64) string {
	if !isFinite(value) {
		return "₹0"
	}
	switch abs := math.Abs(value); {
	case abs >= crore:
		return "₹" + decimal.NewFromFloat(value/crore).StringFixed(1) + "Cr"
	case abs >= lakh:
		return "₹" + decimal.NewFromFloat(value/lakh).StringFixed(1) + "L"
	default:
		return compactINR.Format(decimal.NewFromFloat(value).Round(0).IntPart())
	}
}

// FormatPercentage formats a rate (0.0625) as a percentage with 2 decimals (6.25%).
func FormatPercentage(rate float64) string {
	if !isFinite(rate) {
		return "n/a"
	}
	return decimal.NewFromFloat(rate).Mul(decimalHundred).StringFixed(2) + "%"
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
