package provider

import (
	"context"
	"errors"
	"time"

	"github.com/rpgo/portfolio-projector/internal/calculation"
	"github.com/rpgo/portfolio-projector/internal/domain"
	"github.com/sony/gobreaker"
)

// BreakerSettings configures the circuit breaker around a provider.
type BreakerSettings struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

// Breaker guards a provider with a circuit breaker. While the circuit is open,
// calls fail fast with calculation.ErrProviderUnavailable.
type Breaker struct {
	inner  calculation.MarketDataProvider
	cb     *gobreaker.CircuitBreaker
	logger calculation.Logger
}

// scenarioBreaker is returned when the wrapped provider also serves scenarios.
type scenarioBreaker struct {
	*Breaker
	scenarios calculation.ScenarioProvider
}

// NewBreaker wraps inner. The result implements calculation.ScenarioProvider
// exactly when inner does.
func NewBreaker(inner calculation.MarketDataProvider, st BreakerSettings, logger calculation.Logger) calculation.MarketDataProvider {
	b := newBreaker(inner, st, logger)
	if sp, ok := inner.(calculation.ScenarioProvider); ok {
		return &scenarioBreaker{Breaker: b, scenarios: sp}
	}
	return b
}

func newBreaker(inner calculation.MarketDataProvider, st BreakerSettings, logger calculation.Logger) *Breaker {
	if logger == nil {
		logger = calculation.NopLogger{}
	}

	failureRatio := st.FailureRatio
	if failureRatio <= 0 {
		failureRatio = 0.5
	}
	minRequests := st.MinRequests
	if minRequests == 0 {
		minRequests = 5
	}
	name := st.Name
	if name == "" {
		name = "market-data"
	}

	b := &Breaker{inner: inner, logger: logger}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: st.MaxRequests,
		Interval:    st.Interval,
		Timeout:     st.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minRequests && ratio >= failureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("Circuit breaker %s changed from %s to %s", name, from.String(), to.String())
		},
	})
	return b
}

// State reports the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker) MarketParameters(ctx context.Context) (domain.MarketParameters, error) {
	return execute(b, func() (domain.MarketParameters, error) {
		return b.inner.MarketParameters(ctx)
	})
}

func (s *scenarioBreaker) Scenarios(ctx context.Context) ([]domain.Scenario, error) {
	return execute(s.Breaker, func() ([]domain.Scenario, error) {
		return s.scenarios.Scenarios(ctx)
	})
}

func execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, calculation.ErrProviderUnavailable
		}
		return zero, err
	}
	return res.(T), nil
}
