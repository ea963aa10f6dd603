package calculation

import (
	"fmt"
	"math"
	"sort"

	"github.com/rpgo/portfolio-projector/internal/domain"
)

const (
	// minReliableObservations is the sample size below which bootstrap results
	// are flagged as statistically weak.
	minReliableObservations = 30

	// subAnnualThreshold: series longer than this are assumed to be sub-annual
	// (daily) and compressed to calendar-year returns before sampling. The series
	// carries no frequency metadata, so this is an inferred-frequency heuristic.
	subAnnualThreshold = 250

	// tradingDaysPerYear groups undated sub-annual series into pseudo-years.
	tradingDaysPerYear = 252

	// minPartialYear is the shortest trailing block kept as its own pseudo-year;
	// shorter tails are folded into the preceding block.
	minPartialYear = tradingDaysPerYear / 2
)

// ReturnStatistics provides a statistical summary of a return series
type ReturnStatistics struct {
	Count        int     `json:"count"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	StdDev       float64 `json:"std_dev"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	MissingYears []int   `json:"missing_years,omitempty"`
}

// CleanReturns drops missing (NaN) and infinite observations.
func CleanReturns(series domain.ReturnSeries) domain.ReturnSeries {
	clean := make(domain.ReturnSeries, 0, len(series))
	for _, o := range series {
		if finite(o.Return) {
			clean = append(clean, o)
		}
	}
	return clean
}

// AnnualizeReturns compounds sub-annual returns into one return per calendar
// year, Π(1+r) − 1. Undated series are grouped in consecutive blocks of
// tradingDaysPerYear observations; a trailing partial block forms its own year.
func AnnualizeReturns(series domain.ReturnSeries) []float64 {
	if series.Dated() {
		growth := make(map[int]float64)
		for _, o := range series {
			y := o.Date.Year()
			if _, ok := growth[y]; !ok {
				growth[y] = 1
			}
			growth[y] *= 1 + o.Return
		}
		years := make([]int, 0, len(growth))
		for y := range growth {
			years = append(years, y)
		}
		sort.Ints(years)
		annual := make([]float64, len(years))
		for i, y := range years {
			annual[i] = growth[y] - 1
		}
		return annual
	}

	var annual []float64
	for start := 0; start < len(series); {
		end := min(start+tradingDaysPerYear, len(series))
		if tail := len(series) - end; tail > 0 && tail < minPartialYear {
			end = len(series)
		}
		g := 1.0
		for _, o := range series[start:end] {
			g *= 1 + o.Return
		}
		annual = append(annual, g-1)
		start = end
	}
	return annual
}

// bootstrapPool prepares the values the historical sampler draws from.
func bootstrapPool(series domain.ReturnSeries, logger Logger) ([]float64, error) {
	clean := CleanReturns(series)
	if len(clean) == 0 {
		return nil, fmt.Errorf("%w: historical series has no usable returns", ErrInvalidInput)
	}
	if len(clean) < minReliableObservations {
		logger.Warnf("Limited historical data: only %d returns available", len(clean))
	}
	if len(clean) > subAnnualThreshold {
		annual := AnnualizeReturns(clean)
		logger.Debugf("Compressed %d sub-annual returns into %d annual returns", len(clean), len(annual))
		return annual, nil
	}
	pool := make([]float64, len(clean))
	for i, o := range clean {
		pool[i] = o.Return
	}
	return pool, nil
}

// SummarizeReturns computes summary statistics over the usable observations.
func SummarizeReturns(series domain.ReturnSeries) ReturnStatistics {
	clean := CleanReturns(series)
	if len(clean) == 0 {
		return ReturnStatistics{}
	}

	values := make([]float64, len(clean))
	for i, o := range clean {
		values[i] = o.Return
	}
	stats := describe(values)

	if clean.Dated() {
		seen := make(map[int]bool)
		minYear, maxYear := clean[0].Date.Year(), clean[0].Date.Year()
		for _, o := range clean {
			y := o.Date.Year()
			seen[y] = true
			minYear = min(minYear, y)
			maxYear = max(maxYear, y)
		}
		for y := minYear; y <= maxYear; y++ {
			if !seen[y] {
				stats.MissingYears = append(stats.MissingYears, y)
			}
		}
	}
	return stats
}

// EstimateParameters derives an annual expected return and volatility from a
// series, using the same annual pool the bootstrap sampler draws from. Risk-free
// and inflation rates are carried over from base.
func EstimateParameters(series domain.ReturnSeries, base domain.MarketParameters) (domain.MarketParameters, error) {
	pool, err := bootstrapPool(series, NopLogger{})
	if err != nil {
		return base, err
	}
	stats := describe(pool)
	base.ExpectedReturn = stats.Mean
	base.Volatility = stats.StdDev
	return base, nil
}

func describe(values []float64) ReturnStatistics {
	n := len(values)
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	var varianceSum float64
	for _, v := range values {
		d := v - mean
		varianceSum += d * d
	}

	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return ReturnStatistics{
		Count:  n,
		Mean:   mean,
		Median: median,
		StdDev: math.Sqrt(varianceSum / float64(n)),
		Min:    sorted[0],
		Max:    sorted[n-1],
	}
}
