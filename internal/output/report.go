package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rpgo/portfolio-projector/internal/domain"
)

// Report bundles the results a CLI run produced. Nil sections are omitted.
type Report struct {
	Projection  *domain.ProjectionResult
	Scenarios   []domain.ScenarioOutcome
	FIRE        *domain.FIREPlan
	Savings     *domain.SavingsPlan
	Market      *domain.MarketParameters
	Currency    string
	GeneratedAt time.Time
}

func (r *Report) empty() bool {
	return r.Projection == nil && len(r.Scenarios) == 0 && r.FIRE == nil && r.Savings == nil
}

func (r *Report) currency() string {
	if r.Currency == "" {
		return "INR"
	}
	return strings.ToUpper(r.Currency)
}

// GenerateReport renders report in the named format and writes it to w.
func GenerateReport(w io.Writer, report *Report, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	return WriteFormatted(w, f, report)
}
