package calculation

import (
	"context"
	"sync"
	"time"

	"github.com/rpgo/portfolio-projector/internal/domain"
)

// DefaultCacheTTL is how long fetched market parameters stay fresh.
const DefaultCacheTTL = time.Hour

// MarketDataProvider supplies market parameters from an external source.
type MarketDataProvider interface {
	MarketParameters(ctx context.Context) (domain.MarketParameters, error)
}

// ScenarioProvider is implemented by providers that also publish scenario definitions.
type ScenarioProvider interface {
	Scenarios(ctx context.Context) ([]domain.Scenario, error)
}

// MarketParameterCache caches the provider's parameters for a fixed TTL.
//
// Only the snapshot is locked. The provider call is not serialized, so callers
// racing an expired entry may each fetch; the last write wins. Failed fetches
// are never cached.
type MarketParameterCache struct {
	provider MarketDataProvider
	ttl      time.Duration
	logger   Logger
	metrics  *Metrics

	mu        sync.Mutex
	cached    *domain.MarketParameters
	fetchedAt time.Time
}

// NewMarketParameterCache creates a cache over provider. A nil provider
// always yields the default parameters. ttl <= 0 selects DefaultCacheTTL.
func NewMarketParameterCache(provider MarketDataProvider, ttl time.Duration) *MarketParameterCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MarketParameterCache{
		provider: provider,
		ttl:      ttl,
		logger:   NopLogger{},
	}
}

// Provider returns the underlying provider (may be nil).
func (c *MarketParameterCache) Provider() MarketDataProvider {
	return c.provider
}

// Get returns fresh cached parameters, fetching from the provider when the
// entry is missing or stale. Provider failures yield the defaults.
func (c *MarketParameterCache) Get(ctx context.Context) domain.MarketParameters {
	if c.provider == nil {
		return domain.DefaultMarketParameters()
	}

	if params, ok := c.fresh(); ok {
		c.metrics.cacheLookup("hit")
		return params
	}
	c.metrics.cacheLookup("miss")

	params, err := c.provider.MarketParameters(ctx)
	if err != nil {
		c.logger.Errorf("Error fetching market parameters: %v", err)
		c.metrics.providerFailure("market_parameters")
		return domain.DefaultMarketParameters()
	}

	c.mu.Lock()
	c.cached = &params
	c.fetchedAt = nowFunc()
	c.mu.Unlock()
	return params
}

func (c *MarketParameterCache) fresh() (domain.MarketParameters, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached == nil || nowFunc().Sub(c.fetchedAt) >= c.ttl {
		return domain.MarketParameters{}, false
	}
	return *c.cached, true
}
