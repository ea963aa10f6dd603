package domain

import "time"

// MarketParameters holds the annualized rates that drive parametric projections
type MarketParameters struct {
	ExpectedReturn float64 `json:"expected_return" yaml:"expected_return"`
	Volatility     float64 `json:"volatility" yaml:"volatility"`
	RiskFreeRate   float64 `json:"risk_free_rate" yaml:"risk_free_rate"`
	InflationRate  float64 `json:"inflation_rate" yaml:"inflation_rate"`
}

// DefaultMarketParameters returns the fallback parameters used when no provider
// is configured or the provider cannot be reached.
func DefaultMarketParameters() MarketParameters {
	return MarketParameters{
		ExpectedReturn: 0.12,
		Volatility:     0.22,
		RiskFreeRate:   0.0625,
		InflationRate:  0.046,
	}
}

// Scenario defines a named macro scenario as a (return, volatility) pair
type Scenario struct {
	Key         string  `json:"key" yaml:"key"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Return      float64 `json:"return" yaml:"return"`
	Volatility  float64 `json:"volatility" yaml:"volatility"`
}

// ScenarioOutcome summarizes the projection for one scenario
type ScenarioOutcome struct {
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	ExpectedReturn     float64 `json:"expected_return"`
	ExpectedVolatility float64 `json:"expected_volatility"`
	ProjectedValue     float64 `json:"projected_value"`
	ProbabilityOfLoss  float64 `json:"probability_of_loss"`
}

// ReturnObservation is a single period return. Return is NaN when missing.
// Date is zero for undated series.
type ReturnObservation struct {
	Date   time.Time `json:"date"`
	Return float64   `json:"return"`
}

// ReturnSeries is an ordered sequence of period returns
type ReturnSeries []ReturnObservation

// ReturnSeriesFromValues builds an undated series from raw returns.
func ReturnSeriesFromValues(values ...float64) ReturnSeries {
	series := make(ReturnSeries, len(values))
	for i, v := range values {
		series[i] = ReturnObservation{Return: v}
	}
	return series
}

// Dated reports whether every observation carries a date.
func (s ReturnSeries) Dated() bool {
	if len(s) == 0 {
		return false
	}
	for _, o := range s {
		if o.Date.IsZero() {
			return false
		}
	}
	return true
}
