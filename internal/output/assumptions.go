package output

import (
	"fmt"

	"github.com/rpgo/portfolio-projector/internal/domain"
)

// GenerateAssumptions lists the market assumptions behind a report.
func GenerateAssumptions(params *domain.MarketParameters) []string {
	if params == nil {
		return nil
	}
	return []string{
		fmt.Sprintf("Expected annual return: %s", FormatPercentage(params.ExpectedReturn)),
		fmt.Sprintf("Annual volatility: %s", FormatPercentage(params.Volatility)),
		fmt.Sprintf("Risk-free rate: %s", FormatPercentage(params.RiskFreeRate)),
		fmt.Sprintf("Inflation: %s", FormatPercentage(params.InflationRate)),
	}
}
