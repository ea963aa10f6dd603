package main

import (
	"fmt"

	"github.com/rpgo/portfolio-projector/internal/calculation"
	"github.com/rpgo/portfolio-projector/internal/config"
	"github.com/rpgo/portfolio-projector/internal/output"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	var historyPath string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Summarize a historical return series and the parameters it implies",
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := a.history(historyPath)
			if err != nil {
				return err
			}
			stats := calculation.SummarizeReturns(series)
			est, err := calculation.EstimateParameters(series, a.projector.MarketParameters(cmd.Context()))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Observations: %d\n", stats.Count)
			fmt.Fprintf(w, "Mean: %s  Median: %s  Std Dev: %s\n", output.FormatPercentage(stats.Mean), output.FormatPercentage(stats.Median), output.FormatPercentage(stats.StdDev))
			fmt.Fprintf(w, "Min: %s  Max: %s\n", output.FormatPercentage(stats.Min), output.FormatPercentage(stats.Max))
			if len(stats.MissingYears) > 0 {
				fmt.Fprintf(w, "Missing years: %v\n", stats.MissingYears)
			}
			fmt.Fprintf(w, "Estimated annual return: %s  volatility: %s\n", output.FormatPercentage(est.ExpectedReturn), output.FormatPercentage(est.Volatility))
			return nil
		},
	}
	cmd.Flags().StringVar(&historyPath, "history", "", "CSV of historical returns (date,return)")
	return cmd
}

func newExampleConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "example-config",
		Short: "Print an example configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			data, err := parser.Marshal(parser.CreateExampleConfiguration())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
