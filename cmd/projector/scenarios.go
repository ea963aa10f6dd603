package main

import (
	"github.com/rpgo/portfolio-projector/internal/calculation"
	"github.com/rpgo/portfolio-projector/internal/output"
	"github.com/spf13/cobra"
)

func newScenariosCmd(a *app) *cobra.Command {
	var (
		value float64
		years int
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Project a portfolio under bull, base, bear and crash scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := calculation.ValidatePositive(value, "portfolio value"); err != nil {
				return err
			}
			if !cmd.Flags().Changed("years") {
				years = a.cfg.Simulation.Years
			}

			outcomes := a.projector.RunScenarios(cmd.Context(), calculation.ScenarioRequest{
				InitialValue: value,
				Years:        years,
				Seed:         a.seed(cmd, seed),
			})
			market := a.projector.MarketParameters(cmd.Context())
			return a.emit(cmd, &output.Report{Scenarios: outcomes, Market: &market})
		},
	}

	f := cmd.Flags()
	f.Float64Var(&value, "value", 0, "current portfolio value (required)")
	f.IntVar(&years, "years", calculation.DefaultProjectionYears, "projection horizon in years")
	f.Int64Var(&seed, "seed", 0, "random seed for reproducible runs")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}
