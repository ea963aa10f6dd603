package calculation

import (
	"fmt"
	"math"
)

const epsilon = 1e-10

// SafeDivide returns numerator/denominator, or def when the denominator is
// within epsilon of zero or either operand is NaN.
func SafeDivide(numerator, denominator, def float64) float64 {
	if math.IsNaN(numerator) || math.IsNaN(denominator) || math.Abs(denominator) < epsilon {
		return def
	}
	return numerator / denominator
}

// SafePower returns base^exponent, or def for a non-positive base with a
// non-integer exponent and for results that overflow or are NaN.
func SafePower(base, exponent, def float64) float64 {
	if base <= 0 && exponent != math.Trunc(exponent) {
		return def
	}
	v := math.Pow(base, exponent)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// ValidatePositive returns an ErrInvalidInput error unless value is a positive number.
func ValidatePositive(value float64, name string) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %s must be a finite number, got %v", ErrInvalidInput, name, value)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidInput, name, value)
	}
	return value, nil
}

// CompoundGrowth grows principal at rate for the given number of years.
// A non-positive principal is returned unchanged.
func CompoundGrowth(principal, rate, years float64) float64 {
	p, err := ValidatePositive(principal, "principal")
	if err != nil {
		return principal
	}
	return p * SafePower(1+rate, years, 1)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
