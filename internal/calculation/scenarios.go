package calculation

import (
	"context"
	"math/rand"

	"github.com/rpgo/portfolio-projector/internal/domain"
)

// ScenarioRequest describes a scenario analysis. A nil or empty Scenarios slice asks the
// provider for its scenario set, falling back to DefaultScenarios.
type ScenarioRequest struct {
	InitialValue float64
	Years        int
	Scenarios    []domain.Scenario
	Seed         *int64
	Rand         *rand.Rand
}

// DefaultScenarios derives the built-in bull/base/bear/crash set from base parameters.
func DefaultScenarios(params domain.MarketParameters) []domain.Scenario {
	r, vol := params.ExpectedReturn, params.Volatility
	return []domain.Scenario{
		{
			Key:         "bull",
			Name:        "Bull Market",
			Description: "Strong economic growth, positive reforms",
			Return:      r * 1.5,
			Volatility:  vol * 0.8,
		},
		{
			Key:         "base",
			Name:        "Base Case",
			Description: "Normal market conditions based on historical average",
			Return:      r,
			Volatility:  vol,
		},
		{
			Key:         "bear",
			Name:        "Bear Market",
			Description: "Economic slowdown, global headwinds",
			Return:      r * 0.3,
			Volatility:  vol * 1.5,
		},
		{
			Key:         "crash",
			Name:        "Market Crash",
			Description: "Severe recession, systemic crisis",
			Return:      -0.20,
			Volatility:  vol * 2.5,
		},
	}
}

// RunScenarios projects the portfolio under each scenario. Failures inside a
// scenario never abort the analysis; see lossProbabilityHeuristic.
func (p *Projector) RunScenarios(ctx context.Context, req ScenarioRequest) []domain.ScenarioOutcome {
	scenarios := p.resolveScenarios(ctx, req.Scenarios)

	rng := req.Rand
	if rng == nil {
		seed := seedFunc()
		if req.Seed != nil {
			seed = *req.Seed
		}
		rng = NewRand(seed)
	}

	outcomes := make([]domain.ScenarioOutcome, 0, len(scenarios))
	for _, sc := range scenarios {
		expected := CompoundGrowth(req.InitialValue, sc.Return, float64(req.Years))

		ret, vol := sc.Return, sc.Volatility
		probLoss := 0.0
		result, err := p.Project(ctx, ProjectionRequest{
			InitialValue:   req.InitialValue,
			Years:          req.Years,
			Simulations:    scenarioSimulations,
			Method:         domain.MethodParametric,
			ExpectedReturn: &ret,
			Volatility:     &vol,
			Rand:           rng,
		})
		if err != nil {
			p.logger.Errorf("Error in scenario Monte Carlo for %s: %v", sc.Name, err)
			probLoss = lossProbabilityHeuristic(sc.Return)
		} else {
			probLoss = result.ProbabilityOfLoss
		}

		outcomes = append(outcomes, domain.ScenarioOutcome{
			Name:               sc.Name,
			Description:        sc.Description,
			ExpectedReturn:     sc.Return,
			ExpectedVolatility: sc.Volatility,
			ProjectedValue:     expected,
			ProbabilityOfLoss:  probLoss,
		})
	}
	return outcomes
}

func (p *Projector) resolveScenarios(ctx context.Context, explicit []domain.Scenario) []domain.Scenario {
	if len(explicit) > 0 {
		return explicit
	}
	if sp, ok := p.market.Provider().(ScenarioProvider); ok {
		scenarios, err := sp.Scenarios(ctx)
		if err == nil {
			return scenarios
		}
		p.logger.Errorf("Error getting scenarios from market service: %v", err)
		p.metrics.providerFailure("scenarios")
	}
	return DefaultScenarios(p.market.Get(ctx))
}

// lossProbabilityHeuristic stands in for a failed scenario simulation.
func lossProbabilityHeuristic(scenarioReturn float64) float64 {
	if scenarioReturn < 0 {
		return 0.5
	}
	return 0.2
}
