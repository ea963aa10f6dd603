package calculation

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rpgo/portfolio-projector/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_ZeroVolatilityScenario(t *testing.T) {
	projector := NewProjector(nil)

	result, err := projector.Project(context.Background(), ProjectionRequest{
		InitialValue:   100000,
		ExpectedReturn: ptr(0.10),
		Volatility:     ptr(0.0),
		Years:          10,
		Simulations:    5,
		Method:         domain.MethodParametric,
	})
	require.NoError(t, err)

	require.Len(t, result.FinalValues, 5)
	for _, v := range result.FinalValues {
		assert.InDelta(t, 271828.18, v, 0.01)
	}
	assert.Equal(t, 0.0, result.ProbabilityOfLoss)
	assert.InDelta(t, math.E-1, (result.Percentiles.P50/100000)-1, 1e-9)
	assert.InDelta(t, math.Exp(0.1)-1, result.ExpectedReturn, 1e-12)
	assert.LessOrEqual(t, result.CVaR95, result.VaR95)
	assert.Equal(t, 10, result.ProjectionYears)
	assert.Equal(t, 5, result.Simulations)
	assert.Equal(t, 100000.0, result.InitialValue)
}

func TestProject_Invariants(t *testing.T) {
	projector := NewProjector(nil)
	ctx := context.Background()

	cases := []struct {
		name string
		req  ProjectionRequest
	}{
		{"parametric default market", ProjectionRequest{InitialValue: 250000, Years: 5, Simulations: 2000, Seed: ptr(int64(1))}},
		{"parametric high volatility", ProjectionRequest{InitialValue: 1000, Years: 20, Simulations: 500, ExpectedReturn: ptr(0.02), Volatility: ptr(0.6), Seed: ptr(int64(2))}},
		{"historical", ProjectionRequest{
			InitialValue: 50000, Years: 8, Simulations: 1500, Method: domain.MethodHistorical, Seed: ptr(int64(3)),
			Historical: domain.ReturnSeriesFromValues(0.21, -0.12, 0.08, 0.15, -0.3, 0.27, 0.04, 0.11, -0.02, 0.19),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := projector.Project(ctx, tc.req)
			require.NoError(t, err)

			p := result.Percentiles
			assert.LessOrEqual(t, p.P5, p.P25)
			assert.LessOrEqual(t, p.P25, p.P50)
			assert.LessOrEqual(t, p.P50, p.P75)
			assert.LessOrEqual(t, p.P75, p.P95)
			assert.LessOrEqual(t, result.CVaR95, result.VaR95)
			assert.Equal(t, p.P5, result.VaR95)
			assert.GreaterOrEqual(t, result.ProbabilityOfLoss, 0.0)
			assert.LessOrEqual(t, result.ProbabilityOfLoss, 1.0)
			assert.Len(t, result.FinalValues, tc.req.Simulations)
		})
	}
}

func TestProject_SeedReproducible(t *testing.T) {
	projector := NewProjector(nil)
	req := ProjectionRequest{
		InitialValue:   10000,
		ExpectedReturn: ptr(0.09),
		Volatility:     ptr(0.18),
		Years:          12,
		Simulations:    2500,
		Seed:           ptr(int64(42)),
	}

	a, err := projector.Project(context.Background(), req)
	require.NoError(t, err)
	b, err := projector.Project(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, a.FinalValues, b.FinalValues)
	assert.Equal(t, a.Percentiles, b.Percentiles)
}

func TestProject_UnseededRunsDiffer(t *testing.T) {
	seeds := []int64{100, 200}
	SetSeedFunc(func() int64 {
		s := seeds[0]
		seeds = seeds[1:]
		return s
	})
	t.Cleanup(func() { SetSeedFunc(func() int64 { return nowFunc().UnixNano() }) })

	projector := NewProjector(nil)
	req := ProjectionRequest{InitialValue: 1000, Years: 3, Simulations: 10}
	a, err := projector.Project(context.Background(), req)
	require.NoError(t, err)
	b, err := projector.Project(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, a.FinalValues, b.FinalValues)
}

func TestProject_HistoricalSingleReturn(t *testing.T) {
	projector := NewProjector(nil)

	result, err := projector.Project(context.Background(), ProjectionRequest{
		InitialValue: 20000,
		Years:        4,
		Simulations:  25,
		Method:       domain.MethodHistorical,
		Historical:   domain.ReturnSeriesFromValues(0.07),
	})
	require.NoError(t, err)

	want := 20000 * math.Pow(1.07, 4)
	for _, v := range result.FinalValues {
		assert.InDelta(t, want, v, 1e-9)
	}
	assert.InDelta(t, 0.07, result.ExpectedReturn, 1e-12)
}

func TestProject_ProbabilityOfLossCountsLosses(t *testing.T) {
	projector := NewProjector(nil)

	result, err := projector.Project(context.Background(), ProjectionRequest{
		InitialValue: 100,
		Years:        1,
		Simulations:  4000,
		Method:       domain.MethodHistorical,
		Historical:   domain.ReturnSeriesFromValues(-0.5, 0.5),
		Seed:         ptr(int64(9)),
	})
	require.NoError(t, err)

	losses := 0
	for _, v := range result.FinalValues {
		if v < 100 {
			losses++
		}
	}
	assert.Equal(t, float64(losses)/4000, result.ProbabilityOfLoss)
	assert.InDelta(t, 0.5, result.ProbabilityOfLoss, 0.05)
	assert.Equal(t, 50.0, result.VaR95)
	assert.Equal(t, 50.0, result.CVaR95)
}

func TestProject_UsesMarketParametersWhenNotSupplied(t *testing.T) {
	provider := &fakeProvider{params: domain.MarketParameters{ExpectedReturn: 0.05, Volatility: 0.0}}
	projector := NewProjector(provider)

	result, err := projector.Project(context.Background(), ProjectionRequest{
		InitialValue: 1000,
		Years:        2,
		Simulations:  3,
	})
	require.NoError(t, err)
	for _, v := range result.FinalValues {
		assert.InDelta(t, 1000*math.Exp(0.10), v, 1e-9)
	}

	// an explicit zero volatility is respected while the return still comes from the provider
	provider.params.Volatility = 0.4
	result, err = projector.Project(context.Background(), ProjectionRequest{
		InitialValue: 1000,
		Years:        2,
		Simulations:  3,
		Volatility:   ptr(0.0),
	})
	require.NoError(t, err)
	for _, v := range result.FinalValues {
		assert.InDelta(t, 1000*math.Exp(0.10), v, 1e-9)
	}
	assert.Equal(t, 1, provider.callCount())
}

func TestProject_InvalidInput(t *testing.T) {
	projector := NewProjector(nil)
	ctx := context.Background()

	cases := map[string]ProjectionRequest{
		"zero value":           {InitialValue: 0, Years: 5, Simulations: 10},
		"negative value":       {InitialValue: -100, Years: 5, Simulations: 10},
		"NaN value":            {InitialValue: math.NaN(), Years: 5, Simulations: 10},
		"infinite value":       {InitialValue: math.Inf(1), Years: 5, Simulations: 10},
		"zero years":           {InitialValue: 100, Years: 0, Simulations: 10},
		"zero simulations":     {InitialValue: 100, Years: 5, Simulations: 0},
		"missing history":      {InitialValue: 100, Years: 5, Simulations: 10, Method: domain.MethodHistorical},
		"history without data": {InitialValue: 100, Years: 5, Simulations: 10, Method: domain.MethodHistorical, Historical: domain.ReturnSeriesFromValues(math.NaN())},
		"unknown method":       {InitialValue: 100, Years: 5, Simulations: 10, Method: "garch"},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			result, err := projector.Project(ctx, req)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, ErrInvalidInput), "expected ErrInvalidInput, got %v", err)
		})
	}
}

func TestProject_Cancelled(t *testing.T) {
	projector := NewProjector(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := projector.Project(ctx, ProjectionRequest{InitialValue: 100, Years: 5, Simulations: 10})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestProject_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	projector := NewProjector(nil)
	projector.SetMetrics(metrics)

	_, err := projector.Project(context.Background(), ProjectionRequest{InitialValue: 100, Years: 2, Simulations: 300, Seed: ptr(int64(5))})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ProjectionRuns.WithLabelValues("parametric")))
	assert.Equal(t, 300.0, testutil.ToFloat64(metrics.ProjectionPaths.WithLabelValues("parametric")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.ProjectionDuration))
}

func TestProjectionResult_ToMapExcludesFinalValues(t *testing.T) {
	projector := NewProjector(nil)
	result, err := projector.Project(context.Background(), ProjectionRequest{InitialValue: 100, Years: 2, Simulations: 50, Seed: ptr(int64(8))})
	require.NoError(t, err)

	m := result.ToMap()

	assert.NotContains(t, m, "final_values")
	for _, key := range []string{"percentiles", "expected_return", "probability_of_loss", "var_95", "cvar_95", "projection_years", "simulations", "initial_value"} {
		assert.Contains(t, m, key)
	}
	pct, ok := m["percentiles"].(map[int]float64)
	require.True(t, ok)
	assert.Len(t, pct, 5)
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{5, 1.2},
		{25, 2},
		{50, 3},
		{62.5, 3.5},
		{95, 4.8},
		{100, 5},
	}
	for _, tt := range tests {
		if got := Percentile(sorted, tt.p); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	if got := Percentile([]float64{7}, 95); got != 7 {
		t.Errorf("Percentile of single value = %v, want 7", got)
	}
	if got := Percentile(nil, 50); got != 0 {
		t.Errorf("Percentile of empty slice = %v, want 0", got)
	}
}
