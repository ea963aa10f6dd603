// Package provider contains market data sources for the projection engine.
package provider

import (
	"context"

	"github.com/rpgo/portfolio-projector/internal/calculation"
	"github.com/rpgo/portfolio-projector/internal/domain"
)

// Static serves fixed market parameters and, optionally, a fixed scenario set.
type Static struct {
	Params      domain.MarketParameters
	ScenarioSet []domain.Scenario
}

// NewStatic creates a static provider. With no scenarios, Scenarios derives
// the built-in set from params.
func NewStatic(params domain.MarketParameters, scenarios ...domain.Scenario) *Static {
	return &Static{Params: params, ScenarioSet: scenarios}
}

func (s *Static) MarketParameters(ctx context.Context) (domain.MarketParameters, error) {
	if err := ctx.Err(); err != nil {
		return domain.MarketParameters{}, err
	}
	return s.Params, nil
}

func (s *Static) Scenarios(ctx context.Context) ([]domain.Scenario, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.ScenarioSet) == 0 {
		return calculation.DefaultScenarios(s.Params), nil
	}
	return append([]domain.Scenario(nil), s.ScenarioSet...), nil
}
