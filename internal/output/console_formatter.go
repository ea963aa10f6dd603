package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/portfolio-projector/internal/domain"
)

// ConsoleFormatter renders a human-readable summary.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	if report.empty() {
		return nil, ErrEmptyReport
	}

	money := func(v float64) string { return c.money(v, report.currency()) }

	var buf bytes.Buffer
	if p := report.Projection; p != nil {
		fmt.Fprintln(&buf, "PORTFOLIO PROJECTION")
		fmt.Fprintln(&buf, "================================")
		fmt.Fprintf(&buf, "Initial Value: %s  Horizon: %d years  Paths: %d (%s)\n", money(p.InitialValue), p.ProjectionYears, p.Simulations, p.Method)
		fmt.Fprintf(&buf, "Expected Annual Return: %s\n", FormatPercentage(p.ExpectedReturn))
		fmt.Fprintf(&buf, "Probability of Loss: %s\n", FormatPercentage(p.ProbabilityOfLoss))
		fmt.Fprintf(&buf, "VaR (95%%): %s  CVaR (95%%): %s\n", money(p.VaR95), money(p.CVaR95))
		fmt.Fprintln(&buf, "Percentiles:")
		pct := p.Percentiles.Map()
		for _, level := range domain.PercentileLevels {
			fmt.Fprintf(&buf, "  P%-3d %s\n", level, money(pct[level]))
		}
		fmt.Fprintln(&buf)
	}

	if len(report.Scenarios) > 0 {
		fmt.Fprintln(&buf, "SCENARIO ANALYSIS")
		fmt.Fprintln(&buf, "================================")
		for _, sc := range report.Scenarios {
			fmt.Fprintf(&buf, "%s: Return=%s Volatility=%s Projected=%s LossProbability=%s\n",
				sc.Name,
				FormatPercentage(sc.ExpectedReturn),
				FormatPercentage(sc.ExpectedVolatility),
				money(sc.ProjectedValue),
				FormatPercentage(sc.ProbabilityOfLoss),
			)
			if sc.Description != "" {
				fmt.Fprintf(&buf, "  %s\n", sc.Description)
			}
		}
		fmt.Fprintln(&buf)
	}

	if f := report.FIRE; f != nil {
		fmt.Fprintln(&buf, "FIRE PLAN")
		fmt.Fprintln(&buf, "================================")
		fmt.Fprintf(&buf, "FIRE Number: %s (withdrawal rate %s)\n", money(f.FIRENumber), FormatPercentage(f.WithdrawalRate))
		fmt.Fprintf(&buf, "Annual Expenses: %s today, %s at retirement\n", money(f.AnnualExpensesToday), money(f.AnnualExpensesAtRetirement))
		fmt.Fprintf(&buf, "Years to Retirement: %d  Years in Retirement: %d\n", f.YearsToRetirement, f.RetirementYears)
		fmt.Fprintf(&buf, "Total Retirement Needs: %s\n", money(f.TotalRetirementNeeds))
		fmt.Fprintln(&buf)
	}

	if s := report.Savings; s != nil {
		fmt.Fprintln(&buf, "SAVINGS PLAN")
		fmt.Fprintln(&buf, "================================")
		fmt.Fprintf(&buf, "Current: %s  Target: %s  Current grows to: %s\n", money(s.CurrentValue), money(s.TargetValue), money(s.FutureValueCurrent))
		if s.OnTrack {
			fmt.Fprintf(&buf, "On track. Surplus: %s\n", money(s.Surplus))
		} else {
			fmt.Fprintf(&buf, "Monthly Savings Needed: %s (total %s, gap %s)\n", money(s.MonthlySavingsNeeded), money(s.TotalSavingsNeeded), money(s.Gap))
		}
		fmt.Fprintln(&buf)
	}

	if assumptions := GenerateAssumptions(report.Market); len(assumptions) > 0 {
		fmt.Fprintln(&buf, "Assumptions:")
		for _, a := range assumptions {
			fmt.Fprintf(&buf, "  - %s\n", a)
		}
	}
	return buf.Bytes(), nil
}

// money uses lakh/crore abbreviations for rupees and full ISO formatting otherwise.
func (c ConsoleFormatter) money(v float64, currency string) string {
	if currency == "INR" {
		return FormatCompactINR(v)
	}
	return FormatCurrency(v, currency)
}
