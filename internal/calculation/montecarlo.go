package calculation

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/rpgo/portfolio-projector/internal/domain"
)

const (
	DefaultSimulations     = 10000
	DefaultProjectionYears = 5

	// scenarioSimulations is the reduced path count used for per-scenario loss probability.
	scenarioSimulations = 1000

	// simulationBatch is the number of paths sampled between cancellation checks.
	simulationBatch = 1000
)

// Projector runs Monte Carlo projections and the planning calculators built on them
type Projector struct {
	market  *MarketParameterCache
	logger  Logger
	metrics *Metrics
}

// ProjectionRequest describes a single Monte Carlo projection
type ProjectionRequest struct {
	InitialValue float64
	Years        int
	Simulations  int
	Method       domain.ProjectionMethod

	// Parametric inputs. Nil fields are filled from the market parameters.
	ExpectedReturn *float64
	Volatility     *float64

	// Historical input, required for MethodHistorical.
	Historical domain.ReturnSeries

	// Rand takes precedence over Seed. With neither, a fresh seed is drawn.
	Seed *int64
	Rand *rand.Rand
}

// NewProjector creates a projector backed by provider. provider may be nil,
// in which case the default market parameters are used.
func NewProjector(provider MarketDataProvider) *Projector {
	return &Projector{
		market: NewMarketParameterCache(provider, DefaultCacheTTL),
		logger: NopLogger{},
	}
}

// SetLogger sets the logger. If nil is provided, a no-op logger is used.
func (p *Projector) SetLogger(l Logger) {
	p.logger = loggerOrNop(l)
	p.market.logger = p.logger
}

// SetMetrics attaches Prometheus metrics. nil disables recording.
func (p *Projector) SetMetrics(m *Metrics) {
	p.metrics = m
	p.market.metrics = m
}

// SetCacheTTL replaces the market parameter cache with one using ttl.
func (p *Projector) SetCacheTTL(ttl time.Duration) {
	cache := NewMarketParameterCache(p.market.provider, ttl)
	cache.logger = p.logger
	cache.metrics = p.metrics
	p.market = cache
}

// MarketParameters returns the current (possibly cached) market parameters.
func (p *Projector) MarketParameters(ctx context.Context) domain.MarketParameters {
	return p.market.Get(ctx)
}

// Project runs a Monte Carlo projection and aggregates the final values.
func (p *Projector) Project(ctx context.Context, req ProjectionRequest) (*domain.ProjectionResult, error) {
	if req.Method == "" {
		req.Method = domain.MethodParametric
	}

	if _, err := ValidatePositive(req.InitialValue, "current portfolio value"); err != nil {
		return nil, err
	}
	if req.Years <= 0 {
		return nil, fmt.Errorf("%w: projection years must be positive, got %d", ErrInvalidInput, req.Years)
	}
	if req.Simulations <= 0 {
		return nil, fmt.Errorf("%w: simulations must be positive, got %d", ErrInvalidInput, req.Simulations)
	}

	rng := req.Rand
	if rng == nil {
		seed := seedFunc()
		if req.Seed != nil {
			seed = *req.Seed
		}
		rng = NewRand(seed)
	}

	p.logger.Infof("Running %s Monte Carlo with %d simulations for %d years", req.Method, req.Simulations, req.Years)
	start := nowFunc()

	var sample func(n int) []float64
	switch req.Method {
	case domain.MethodParametric:
		mu, sigma := p.resolveParametric(ctx, req.ExpectedReturn, req.Volatility)
		sample = func(n int) []float64 {
			return SampleParametric(rng, req.InitialValue, mu, sigma, req.Years, n)
		}
	case domain.MethodHistorical:
		if len(req.Historical) == 0 {
			return nil, fmt.Errorf("%w: historical returns required for historical method", ErrInvalidInput)
		}
		pool, err := bootstrapPool(req.Historical, p.logger)
		if err != nil {
			return nil, err
		}
		sample = func(n int) []float64 {
			return bootstrapFromPool(rng, pool, req.InitialValue, req.Years, n)
		}
	default:
		return nil, fmt.Errorf("%w: unknown projection method %q", ErrInvalidInput, req.Method)
	}

	finals := make([]float64, 0, req.Simulations)
	for len(finals) < req.Simulations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		finals = append(finals, sample(min(simulationBatch, req.Simulations-len(finals)))...)
	}

	result := aggregate(finals, req.InitialValue, req.Years)
	result.Method = req.Method

	p.metrics.observeProjection(string(req.Method), req.Simulations, nowFunc().Sub(start))
	p.logger.Infof("Projection complete. Expected return: %.2f%%", result.ExpectedReturn*100)
	return result, nil
}

func (p *Projector) resolveParametric(ctx context.Context, expectedReturn, volatility *float64) (float64, float64) {
	if expectedReturn != nil && volatility != nil {
		return *expectedReturn, *volatility
	}
	params := p.market.Get(ctx)
	mu, sigma := params.ExpectedReturn, params.Volatility
	if expectedReturn != nil {
		mu = *expectedReturn
	}
	if volatility != nil {
		sigma = *volatility
	}
	p.logger.Infof("Using market parameters: return=%.2f%%, volatility=%.2f%%", mu*100, sigma*100)
	return mu, sigma
}

// aggregate turns final values into percentile and tail-risk statistics.
func aggregate(finals []float64, initialValue float64, years int) *domain.ProjectionResult {
	sorted := append([]float64(nil), finals...)
	sort.Float64s(sorted)

	var returnSum float64
	losses := 0
	for _, v := range finals {
		returnSum += SafePower(v/initialValue, 1/float64(years), 0) - 1
		if v < initialValue {
			losses++
		}
	}

	pct := domain.Percentiles{
		P5:  Percentile(sorted, 5),
		P25: Percentile(sorted, 25),
		P50: Percentile(sorted, 50),
		P75: Percentile(sorted, 75),
		P95: Percentile(sorted, 95),
	}

	var95 := pct.P5
	cvar95 := var95
	var tailSum float64
	tail := 0
	for _, v := range sorted {
		if v > var95 {
			break
		}
		tailSum += v
		tail++
	}
	if tail > 0 {
		// the tail mean cannot exceed its upper bound; min absorbs summation rounding
		cvar95 = min(tailSum/float64(tail), var95)
	}

	n := float64(len(finals))
	return &domain.ProjectionResult{
		FinalValues:       finals,
		Percentiles:       pct,
		ExpectedReturn:    returnSum / n,
		ProbabilityOfLoss: float64(losses) / n,
		VaR95:             var95,
		CVaR95:            cvar95,
		ProjectionYears:   years,
		Simulations:       len(finals),
		InitialValue:      initialValue,
	}
}

// Percentile returns the p-th percentile (0-100) of an ascending slice using
// linear interpolation between closest ranks.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(rank)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
