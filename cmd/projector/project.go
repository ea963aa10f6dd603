package main

import (
	"github.com/rpgo/portfolio-projector/internal/calculation"
	"github.com/rpgo/portfolio-projector/internal/domain"
	"github.com/rpgo/portfolio-projector/internal/output"
	"github.com/spf13/cobra"
)

func newProjectCmd(a *app) *cobra.Command {
	var (
		value       float64
		years       int
		simulations int
		method      string
		ret         float64
		volatility  float64
		seed        int64
		historyPath string
		estimate    bool
	)

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Run a Monte Carlo projection of a portfolio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			req := calculation.ProjectionRequest{
				InitialValue:   value,
				Years:          a.cfg.Simulation.Years,
				Simulations:    a.cfg.Simulation.Simulations,
				Method:         a.cfg.Simulation.Method,
				ExpectedReturn: optionalFloat(cmd, "return", ret),
				Volatility:     optionalFloat(cmd, "volatility", volatility),
				Seed:           a.seed(cmd, seed),
			}
			if cmd.Flags().Changed("years") {
				req.Years = years
			}
			if cmd.Flags().Changed("simulations") {
				req.Simulations = simulations
			}
			if cmd.Flags().Changed("method") {
				req.Method = domain.ProjectionMethod(method)
			}

			market := a.projector.MarketParameters(ctx)
			if req.Method == domain.MethodHistorical || estimate {
				series, err := a.history(historyPath)
				if err != nil {
					return err
				}
				req.Historical = series
				if estimate && req.Method != domain.MethodHistorical {
					est, err := calculation.EstimateParameters(series, market)
					if err != nil {
						return err
					}
					a.logger.Infof("Estimated from history: return=%.2f%%, volatility=%.2f%%", est.ExpectedReturn*100, est.Volatility*100)
					if req.ExpectedReturn == nil {
						req.ExpectedReturn = &est.ExpectedReturn
					}
					if req.Volatility == nil {
						req.Volatility = &est.Volatility
					}
					market = est
				}
			}

			result, err := a.projector.Project(ctx, req)
			if err != nil {
				return err
			}
			return a.emit(cmd, &output.Report{Projection: result, Market: &market})
		},
	}

	f := cmd.Flags()
	f.Float64Var(&value, "value", 0, "current portfolio value (required)")
	f.IntVar(&years, "years", calculation.DefaultProjectionYears, "projection horizon in years")
	f.IntVar(&simulations, "simulations", calculation.DefaultSimulations, "number of simulated paths")
	f.StringVar(&method, "method", string(domain.MethodParametric), "sampling method (parametric or historical)")
	f.Float64Var(&ret, "return", 0, "expected annual return (default from market data)")
	f.Float64Var(&volatility, "volatility", 0, "annual volatility (default from market data)")
	f.Int64Var(&seed, "seed", 0, "random seed for reproducible runs")
	f.StringVar(&historyPath, "history", "", "CSV of historical returns (date,return)")
	f.BoolVar(&estimate, "estimate", false, "estimate return and volatility from the history file")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}
