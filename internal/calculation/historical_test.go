package calculation

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rpgo/portfolio-projector/internal/domain"
)

// dailySeries builds one observation per weekday between start and end.
func dailySeries(start, end time.Time, r float64) domain.ReturnSeries {
	var series domain.ReturnSeries
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		series = append(series, domain.ReturnObservation{Date: d, Return: r})
	}
	return series
}

func TestCleanReturns(t *testing.T) {
	series := domain.ReturnSeriesFromValues(0.1, math.NaN(), -0.05, math.Inf(1), 0.02)

	clean := CleanReturns(series)

	if len(clean) != 3 {
		t.Fatalf("Expected 3 usable returns, got %d", len(clean))
	}
	for i, want := range []float64{0.1, -0.05, 0.02} {
		if clean[i].Return != want {
			t.Errorf("clean[%d] = %v, want %v", i, clean[i].Return, want)
		}
	}
}

func TestAnnualizeReturns_Dated(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC)
	series := dailySeries(start, end, 0.0004)

	annual := AnnualizeReturns(series)

	if len(annual) != 2 {
		t.Fatalf("Expected 2 annual returns, got %d", len(annual))
	}
	days2021 := 0
	for _, o := range series {
		if o.Date.Year() == 2021 {
			days2021++
		}
	}
	want := math.Pow(1.0004, float64(days2021)) - 1
	if math.Abs(annual[0]-want) > 1e-12 {
		t.Errorf("2021 annual return = %v, want %v", annual[0], want)
	}
}

func TestAnnualizeReturns_UndatedBlocks(t *testing.T) {
	tests := []struct {
		name string
		days int
		want []int
	}{
		{"long tail kept", 2*tradingDaysPerYear + minPartialYear, []int{tradingDaysPerYear, tradingDaysPerYear, minPartialYear}},
		{"short tail folded", 2*tradingDaysPerYear + 10, []int{tradingDaysPerYear, tradingDaysPerYear + 10}},
		{"single extra day", tradingDaysPerYear + 1, []int{tradingDaysPerYear + 1}},
		{"short series", 100, []int{100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := make([]float64, tt.days)
			for i := range values {
				values[i] = 0.001
			}

			annual := AnnualizeReturns(domain.ReturnSeriesFromValues(values...))

			if len(annual) != len(tt.want) {
				t.Fatalf("Expected %d pseudo-years, got %d", len(tt.want), len(annual))
			}
			for i, days := range tt.want {
				want := math.Pow(1.001, float64(days)) - 1
				if math.Abs(annual[i]-want) > 1e-12 {
					t.Errorf("annual[%d] = %v, want %v (%d days)", i, annual[i], want, days)
				}
			}
		})
	}
}

func TestBootstrapPool(t *testing.T) {
	t.Run("short series is sampled directly and warns", func(t *testing.T) {
		logger := &recordingLogger{}
		pool, err := bootstrapPool(domain.ReturnSeriesFromValues(0.1, math.NaN(), 0.2), logger)
		if err != nil {
			t.Fatalf("bootstrapPool failed: %v", err)
		}
		if len(pool) != 2 {
			t.Errorf("Expected pool of 2, got %d", len(pool))
		}
		if len(logger.warns) != 1 || !strings.Contains(logger.warns[0], "only 2 returns") {
			t.Errorf("Expected a limited data warning, got %v", logger.warns)
		}
	})

	t.Run("long series is compressed to annual returns", func(t *testing.T) {
		start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC)
		logger := &recordingLogger{}
		pool, err := bootstrapPool(dailySeries(start, end, 0.0003), logger)
		if err != nil {
			t.Fatalf("bootstrapPool failed: %v", err)
		}
		if len(pool) != 5 {
			t.Errorf("Expected 5 annual returns, got %d", len(pool))
		}
		if len(logger.warns) != 0 {
			t.Errorf("Did not expect warnings, got %v", logger.warns)
		}
	})

	t.Run("no usable returns", func(t *testing.T) {
		_, err := bootstrapPool(domain.ReturnSeriesFromValues(math.NaN()), NopLogger{})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestSummarizeReturns(t *testing.T) {
	series := domain.ReturnSeries{
		{Date: time.Date(2018, 12, 31, 0, 0, 0, 0, time.UTC), Return: 0.10},
		{Date: time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC), Return: -0.10},
		{Date: time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC), Return: 0.30},
		{Date: time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC), Return: math.NaN()},
	}

	stats := SummarizeReturns(series)

	if stats.Count != 3 {
		t.Errorf("Count = %d, want 3", stats.Count)
	}
	if math.Abs(stats.Mean-0.1) > 1e-12 {
		t.Errorf("Mean = %v, want 0.1", stats.Mean)
	}
	if stats.Median != 0.10 || stats.Min != -0.10 || stats.Max != 0.30 {
		t.Errorf("Median/Min/Max = %v/%v/%v, want 0.1/-0.1/0.3", stats.Median, stats.Min, stats.Max)
	}
	wantStd := math.Sqrt((0.0 + 0.04 + 0.04) / 3)
	if math.Abs(stats.StdDev-wantStd) > 1e-12 {
		t.Errorf("StdDev = %v, want %v", stats.StdDev, wantStd)
	}
	if len(stats.MissingYears) != 1 || stats.MissingYears[0] != 2020 {
		t.Errorf("MissingYears = %v, want [2020]", stats.MissingYears)
	}

	if empty := SummarizeReturns(nil); empty.Count != 0 {
		t.Errorf("Expected empty statistics for nil series, got %+v", empty)
	}
}

func TestEstimateParameters(t *testing.T) {
	base := domain.DefaultMarketParameters()

	params, err := EstimateParameters(domain.ReturnSeriesFromValues(0.05, 0.15), base)
	if err != nil {
		t.Fatalf("EstimateParameters failed: %v", err)
	}
	if math.Abs(params.ExpectedReturn-0.10) > 1e-12 || math.Abs(params.Volatility-0.05) > 1e-12 {
		t.Errorf("Estimated return/vol = %v/%v, want 0.10/0.05", params.ExpectedReturn, params.Volatility)
	}
	if params.InflationRate != base.InflationRate || params.RiskFreeRate != base.RiskFreeRate {
		t.Errorf("Expected inflation and risk-free rate to be carried over, got %+v", params)
	}

	if _, err := EstimateParameters(nil, base); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty series, got %v", err)
	}
}
