package domain

import "encoding/json"

// ProjectionMethod selects the return path sampler
type ProjectionMethod string

const (
	MethodParametric ProjectionMethod = "parametric"
	MethodHistorical ProjectionMethod = "historical"
)

// PercentileLevels are the fixed percentiles reported for every projection.
var PercentileLevels = []int{5, 25, 50, 75, 95}

// Percentiles holds the final value at each reported percentile
type Percentiles struct {
	P5  float64 `json:"5"`
	P25 float64 `json:"25"`
	P50 float64 `json:"50"`
	P75 float64 `json:"75"`
	P95 float64 `json:"95"`
}

// Map returns the percentiles keyed by level.
func (p Percentiles) Map() map[int]float64 {
	return map[int]float64{5: p.P5, 25: p.P25, 50: p.P50, 75: p.P75, 95: p.P95}
}

// ProjectionResult is the aggregate of a Monte Carlo projection
type ProjectionResult struct {
	FinalValues       []float64
	Percentiles       Percentiles
	ExpectedReturn    float64
	ProbabilityOfLoss float64
	VaR95             float64
	CVaR95            float64
	ProjectionYears   int
	Simulations       int
	InitialValue      float64
	Method            ProjectionMethod
}

// ToMap flattens the result for serialization. FinalValues is left out on purpose;
// the raw distribution can be large and is exported separately.
func (r *ProjectionResult) ToMap() map[string]any {
	return map[string]any{
		"percentiles":         r.Percentiles.Map(),
		"expected_return":     r.ExpectedReturn,
		"probability_of_loss": r.ProbabilityOfLoss,
		"var_95":              r.VaR95,
		"cvar_95":             r.CVaR95,
		"projection_years":    r.ProjectionYears,
		"simulations":         r.Simulations,
		"initial_value":       r.InitialValue,
	}
}

func (r *ProjectionResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToMap())
}

// FIREPlan is the output of a FIRE number calculation
type FIREPlan struct {
	FIRENumber                 float64 `json:"fire_number"`
	AnnualExpensesToday        float64 `json:"annual_expenses_today"`
	AnnualExpensesAtRetirement float64 `json:"annual_expenses_at_retirement"`
	YearsToRetirement          int     `json:"years_to_retirement"`
	RetirementYears            int     `json:"retirement_years"`
	TotalRetirementNeeds       float64 `json:"total_retirement_needs"`
	WithdrawalRate             float64 `json:"withdrawal_rate"`
}

func (p *FIREPlan) ToMap() map[string]any {
	return map[string]any{
		"fire_number":                   p.FIRENumber,
		"annual_expenses_today":         p.AnnualExpensesToday,
		"annual_expenses_at_retirement": p.AnnualExpensesAtRetirement,
		"years_to_retirement":           p.YearsToRetirement,
		"retirement_years":              p.RetirementYears,
		"total_retirement_needs":        p.TotalRetirementNeeds,
		"withdrawal_rate":               p.WithdrawalRate,
	}
}

// SavingsPlan is the output of a required savings calculation. Exactly one of
// Surplus (target already reached) or Gap is meaningful, selected by OnTrack.
type SavingsPlan struct {
	MonthlySavingsNeeded float64 `json:"monthly_savings_needed"`
	TotalSavingsNeeded   float64 `json:"total_savings_needed"`
	CurrentValue         float64 `json:"current_value"`
	TargetValue          float64 `json:"target_value"`
	FutureValueCurrent   float64 `json:"future_value_current"`
	Surplus              float64 `json:"surplus,omitempty"`
	Gap                  float64 `json:"gap,omitempty"`
	OnTrack              bool    `json:"-"`
}

func (p *SavingsPlan) ToMap() map[string]any {
	m := map[string]any{
		"monthly_savings_needed": p.MonthlySavingsNeeded,
		"total_savings_needed":   p.TotalSavingsNeeded,
		"current_value":          p.CurrentValue,
		"target_value":           p.TargetValue,
		"future_value_current":   p.FutureValueCurrent,
	}
	if p.OnTrack {
		m["surplus"] = p.Surplus
	} else {
		m["gap"] = p.Gap
	}
	return m
}
