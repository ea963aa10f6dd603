package calculation

import "errors"

var (
	// ErrInvalidInput marks caller errors: non-positive values or horizons,
	// impossible ages, a missing historical series. Never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCalculationFailed wraps arithmetic or domain failures inside the goal calculators.
	ErrCalculationFailed = errors.New("calculation failed")

	// ErrProviderUnavailable is returned by providers that cannot currently serve data.
	// The engine recovers from it by substituting defaults.
	ErrProviderUnavailable = errors.New("market data provider unavailable")
)
