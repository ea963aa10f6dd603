package calculation

import (
	"errors"
	"math"
	"testing"
)

func TestSafeDivide(t *testing.T) {
	tests := []struct {
		name        string
		numerator   float64
		denominator float64
		def         float64
		want        float64
	}{
		{"regular division", 10, 4, 0, 2.5},
		{"zero denominator", 10, 0, -1, -1},
		{"near-zero denominator", 10, 1e-11, 7, 7},
		{"negative denominator", 10, -2, 0, -5},
		{"NaN numerator", math.NaN(), 2, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeDivide(tt.numerator, tt.denominator, tt.def); got != tt.want {
				t.Errorf("SafeDivide(%v, %v, %v) = %v, want %v", tt.numerator, tt.denominator, tt.def, got, tt.want)
			}
		})
	}
}

func TestSafePower(t *testing.T) {
	tests := []struct {
		name     string
		base     float64
		exponent float64
		def      float64
		want     float64
	}{
		{"positive base", 2, 10, 1, 1024},
		{"fractional exponent", 4, 0.5, 1, 2},
		{"negative base integer exponent", -2, 3, 1, -8},
		{"negative base fractional exponent", -8, 1.0 / 3, 42, 42},
		{"zero base fractional exponent", 0, 0.5, 9, 9},
		{"overflow", 10, 400, -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafePower(tt.base, tt.exponent, tt.def); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("SafePower(%v, %v, %v) = %v, want %v", tt.base, tt.exponent, tt.def, got, tt.want)
			}
		})
	}
}

func TestValidatePositive(t *testing.T) {
	if v, err := ValidatePositive(5, "value"); err != nil || v != 5 {
		t.Errorf("ValidatePositive(5) = %v, %v; want 5, nil", v, err)
	}

	for _, bad := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		_, err := ValidatePositive(bad, "value")
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ValidatePositive(%v) error = %v, want ErrInvalidInput", bad, err)
		}
	}
}

func TestCompoundGrowth(t *testing.T) {
	got := CompoundGrowth(1000, 0.1, 2)
	if math.Abs(got-1210) > 1e-9 {
		t.Errorf("CompoundGrowth(1000, 0.1, 2) = %v, want 1210", got)
	}

	if got := CompoundGrowth(-50, 0.1, 2); got != -50 {
		t.Errorf("CompoundGrowth with invalid principal = %v, want principal unchanged", got)
	}

	// 1+rate negative with a fractional horizon falls back to a growth factor of 1
	if got := CompoundGrowth(1000, -1.5, 0.5); got != 1000 {
		t.Errorf("CompoundGrowth with domain error = %v, want 1000", got)
	}
}
