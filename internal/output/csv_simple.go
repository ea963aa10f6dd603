package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rpgo/portfolio-projector/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVSummarizer writes one section,item,metric,value row per reported figure.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *Report) ([]byte, error) {
	if report.empty() {
		return nil, ErrEmptyReport
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Section", "Item", "Metric", "Value"}); err != nil {
		return nil, err
	}
	row := func(section, item, metric, value string) {
		_ = w.Write([]string{section, item, metric, value})
	}

	if p := report.Projection; p != nil {
		row("projection", string(p.Method), "initial_value", fixed(p.InitialValue, 2))
		row("projection", string(p.Method), "projection_years", strconv.Itoa(p.ProjectionYears))
		row("projection", string(p.Method), "simulations", strconv.Itoa(p.Simulations))
		row("projection", string(p.Method), "expected_return", fixed(p.ExpectedReturn, 6))
		row("projection", string(p.Method), "probability_of_loss", fixed(p.ProbabilityOfLoss, 6))
		row("projection", string(p.Method), "var_95", fixed(p.VaR95, 2))
		row("projection", string(p.Method), "cvar_95", fixed(p.CVaR95, 2))
		pct := p.Percentiles.Map()
		for _, level := range domain.PercentileLevels {
			row("projection", string(p.Method), "p"+strconv.Itoa(level), fixed(pct[level], 2))
		}
	}

	for _, sc := range report.Scenarios {
		row("scenario", sc.Name, "expected_return", fixed(sc.ExpectedReturn, 6))
		row("scenario", sc.Name, "expected_volatility", fixed(sc.ExpectedVolatility, 6))
		row("scenario", sc.Name, "projected_value", fixed(sc.ProjectedValue, 2))
		row("scenario", sc.Name, "probability_of_loss", fixed(sc.ProbabilityOfLoss, 6))
	}

	if f := report.FIRE; f != nil {
		row("fire", "", "fire_number", fixed(f.FIRENumber, 2))
		row("fire", "", "annual_expenses_today", fixed(f.AnnualExpensesToday, 2))
		row("fire", "", "annual_expenses_at_retirement", fixed(f.AnnualExpensesAtRetirement, 2))
		row("fire", "", "years_to_retirement", strconv.Itoa(f.YearsToRetirement))
		row("fire", "", "retirement_years", strconv.Itoa(f.RetirementYears))
		row("fire", "", "total_retirement_needs", fixed(f.TotalRetirementNeeds, 2))
		row("fire", "", "withdrawal_rate", fixed(f.WithdrawalRate, 6))
	}

	if s := report.Savings; s != nil {
		row("savings", "", "monthly_savings_needed", fixed(s.MonthlySavingsNeeded, 2))
		row("savings", "", "total_savings_needed", fixed(s.TotalSavingsNeeded, 2))
		row("savings", "", "future_value_current", fixed(s.FutureValueCurrent, 2))
		if s.OnTrack {
			row("savings", "", "surplus", fixed(s.Surplus, 2))
		} else {
			row("savings", "", "gap", fixed(s.Gap, 2))
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fixed renders v with the given decimals; non-finite values become "NaN".
func fixed(v float64, places int32) string {
	if !isFinite(v) {
		return "NaN"
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}
