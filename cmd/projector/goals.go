package main

import (
	"fmt"
	"time"

	"github.com/rpgo/portfolio-projector/internal/calculation"
	"github.com/rpgo/portfolio-projector/internal/output"
	"github.com/rpgo/portfolio-projector/pkg/dateutil"
	"github.com/spf13/cobra"
)

// today is replaced in tests.
var today = time.Now

func newFireCmd(a *app) *cobra.Command {
	var (
		req       calculation.FIRERequest
		inflation float64
		birthDate string
	)

	cmd := &cobra.Command{
		Use:   "fire",
		Short: "Calculate the portfolio needed for financial independence",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.InflationRate = optionalFloat(cmd, "inflation", inflation)
			if birthDate != "" {
				born, err := dateutil.ParseDate(birthDate)
				if err != nil {
					return fmt.Errorf("%w: birth date: %w", calculation.ErrInvalidInput, err)
				}
				req.CurrentAge = dateutil.Age(born, today())
			}
			plan, err := a.projector.FireNumber(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.emit(cmd, &output.Report{FIRE: plan})
		},
	}

	f := cmd.Flags()
	f.Float64Var(&req.AnnualExpenses, "expenses", 0, "annual expenses in today's money (required)")
	f.IntVar(&req.CurrentAge, "age", 0, "current age")
	f.StringVar(&birthDate, "birth-date", "", "birth date (2006-01-02), used instead of --age")
	f.IntVar(&req.RetirementAge, "retire-at", 0, "target retirement age (required)")
	f.IntVar(&req.LifeExpectancy, "life-expectancy", calculation.DefaultLifeExpectancy, "life expectancy")
	f.Float64Var(&inflation, "inflation", 0, "annual inflation (default from market data)")
	f.Float64Var(&req.WithdrawalRate, "withdrawal-rate", calculation.DefaultWithdrawalRate, "safe withdrawal rate")
	_ = cmd.MarkFlagRequired("expenses")
	cmd.MarkFlagsOneRequired("age", "birth-date")
	cmd.MarkFlagsMutuallyExclusive("age", "birth-date")
	_ = cmd.MarkFlagRequired("retire-at")
	return cmd
}

func newSavingsCmd(a *app) *cobra.Command {
	var (
		req calculation.SavingsRequest
		ret float64
	)

	cmd := &cobra.Command{
		Use:   "savings",
		Short: "Calculate the monthly savings needed to reach a target",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.ExpectedReturn = optionalFloat(cmd, "return", ret)
			plan, err := a.projector.RequiredSavings(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.emit(cmd, &output.Report{Savings: plan})
		},
	}

	f := cmd.Flags()
	f.Float64Var(&req.CurrentValue, "current", 0, "current portfolio value")
	f.Float64Var(&req.TargetValue, "target", 0, "target portfolio value (required)")
	f.IntVar(&req.Years, "years", 0, "years to reach the target (required)")
	f.Float64Var(&ret, "return", 0, "expected annual return (default from market data)")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("years")
	return cmd
}
