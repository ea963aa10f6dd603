package calculation

import (
	"context"
	"fmt"
	"math"

	"github.com/rpgo/portfolio-projector/internal/domain"
)

const (
	DefaultLifeExpectancy = 90
	// DefaultWithdrawalRate is a conservative safe withdrawal rate for high-inflation markets.
	DefaultWithdrawalRate = 0.03
	// defaultRetirementYears is assumed when life expectancy does not exceed retirement age.
	defaultRetirementYears = 30
)

// FIRERequest holds the inputs of a FIRE number calculation. Zero LifeExpectancy
// and WithdrawalRate select the defaults; nil InflationRate uses market data.
type FIRERequest struct {
	AnnualExpenses float64
	CurrentAge     int
	RetirementAge  int
	LifeExpectancy int
	InflationRate  *float64
	WithdrawalRate float64
}

// SavingsRequest holds the inputs of a required savings calculation.
// nil ExpectedReturn uses market data.
type SavingsRequest struct {
	CurrentValue   float64
	TargetValue    float64
	Years          int
	ExpectedReturn *float64
}

// FireNumber computes the portfolio needed to retire at RetirementAge.
func (p *Projector) FireNumber(ctx context.Context, req FIRERequest) (*domain.FIREPlan, error) {
	if req.LifeExpectancy == 0 {
		req.LifeExpectancy = DefaultLifeExpectancy
	}
	if req.WithdrawalRate == 0 {
		req.WithdrawalRate = DefaultWithdrawalRate
	}

	if !finite(req.AnnualExpenses) {
		return nil, fmt.Errorf("%w: annual expenses must be a finite number, got %v", ErrInvalidInput, req.AnnualExpenses)
	}

	yearsToRetirement := req.RetirementAge - req.CurrentAge
	if yearsToRetirement <= 0 {
		return nil, fmt.Errorf("%w: retirement age must be greater than current age", ErrInvalidInput)
	}

	params := p.market.Get(ctx)
	inflation := params.InflationRate
	if req.InflationRate != nil {
		inflation = *req.InflationRate
	}

	plan, err := fireNumber(req, yearsToRetirement, inflation, params.ExpectedReturn)
	if err != nil {
		p.logger.Errorf("Error in FIRE calculation: %v", err)
		return nil, fmt.Errorf("%w: FIRE calculation: %w", ErrCalculationFailed, err)
	}
	return plan, nil
}

func fireNumber(req FIRERequest, yearsToRetirement int, inflation, expectedReturn float64) (*domain.FIREPlan, error) {
	if math.Abs(req.WithdrawalRate) < epsilon {
		return nil, fmt.Errorf("withdrawal rate %v is too close to zero", req.WithdrawalRate)
	}

	futureExpenses := req.AnnualExpenses * math.Pow(1+inflation, float64(yearsToRetirement))
	fire := futureExpenses / req.WithdrawalRate
	if !finite(futureExpenses) || !finite(fire) {
		return nil, fmt.Errorf("non-finite expenses at retirement (inflation %v over %d years)", inflation, yearsToRetirement)
	}

	retirementYears := req.LifeExpectancy - req.RetirementAge
	if retirementYears <= 0 {
		retirementYears = defaultRetirementYears
	}

	return &domain.FIREPlan{
		FIRENumber:                 fire,
		AnnualExpensesToday:        req.AnnualExpenses,
		AnnualExpensesAtRetirement: futureExpenses,
		YearsToRetirement:          yearsToRetirement,
		RetirementYears:            retirementYears,
		TotalRetirementNeeds:       RetirementNeeds(futureExpenses, retirementYears, inflation, expectedReturn),
		WithdrawalRate:             req.WithdrawalRate,
	}, nil
}

// RetirementNeeds is the present value, at retirement, of annualExpenses
// growing with inflation for years, discounted at returnRate. It never falls
// below the undiscounted total annualExpenses × years.
func RetirementNeeds(annualExpenses float64, years int, inflation, returnRate float64) float64 {
	n := float64(years)
	if annualExpenses <= 0 || years <= 0 {
		return annualExpenses * n
	}

	total, ok := retirementNeedsPrimary(annualExpenses, years, inflation, returnRate)
	if !ok {
		return retirementNeedsFallback(annualExpenses, years, inflation)
	}
	return math.Max(total, annualExpenses*n)
}

// retirementNeedsPrimary evaluates the growing annuity. ok is false when the
// arithmetic leaves the finite range.
func retirementNeedsPrimary(annualExpenses float64, years int, inflation, returnRate float64) (float64, bool) {
	n := float64(years)
	var total float64

	switch {
	case returnRate <= inflation:
		// non-positive real return: plain sum of inflated expenses
		for i := 0; i < years; i++ {
			total += annualExpenses * math.Pow(1+inflation, float64(i))
		}
	default:
		realReturn := (1+returnRate)/(1+inflation) - 1
		if realReturn <= 0 {
			return retirementNeedsFallback(annualExpenses, years, inflation), true
		}
		g := (1 + inflation) / (1 + returnRate)
		if math.Abs(g-1) < epsilon {
			total = annualExpenses * n
		} else {
			total = annualExpenses * (1 - math.Pow(g, n)) / (1 - g)
		}
	}

	return total, finite(total)
}

// retirementNeedsFallback approximates total needs by inflating every year's
// expenses to the midpoint of the horizon.
func retirementNeedsFallback(annualExpenses float64, years int, inflation float64) float64 {
	n := float64(years)
	return annualExpenses * n * SafePower(1+inflation, n/2, 1)
}

// RequiredSavings computes the monthly contribution needed to grow
// CurrentValue into TargetValue over Years.
func (p *Projector) RequiredSavings(ctx context.Context, req SavingsRequest) (*domain.SavingsPlan, error) {
	if !finite(req.CurrentValue) {
		return nil, fmt.Errorf("%w: current value must be a finite number, got %v", ErrInvalidInput, req.CurrentValue)
	}
	if _, err := ValidatePositive(req.TargetValue, "target value"); err != nil {
		return nil, err
	}
	if req.CurrentValue < 0 || req.Years <= 0 {
		return nil, fmt.Errorf("%w: current value must be non-negative, target value and years positive", ErrInvalidInput)
	}

	var expectedReturn float64
	if req.ExpectedReturn != nil {
		expectedReturn = *req.ExpectedReturn
	} else {
		expectedReturn = p.market.Get(ctx).ExpectedReturn
	}

	plan, err := requiredSavings(req, expectedReturn)
	if err != nil {
		p.logger.Errorf("Error in savings calculation: %v", err)
		return nil, fmt.Errorf("%w: savings calculation: %w", ErrCalculationFailed, err)
	}
	return plan, nil
}

func requiredSavings(req SavingsRequest, expectedReturn float64) (*domain.SavingsPlan, error) {
	months := req.Years * 12
	monthlyReturn := expectedReturn / 12

	fvCurrent := req.CurrentValue * math.Pow(1+expectedReturn, float64(req.Years))
	remaining := req.TargetValue - fvCurrent
	if !finite(remaining) {
		return nil, fmt.Errorf("non-finite future value of current portfolio (return %v over %d years)", expectedReturn, req.Years)
	}

	plan := &domain.SavingsPlan{
		CurrentValue:       req.CurrentValue,
		TargetValue:        req.TargetValue,
		FutureValueCurrent: fvCurrent,
	}

	if remaining <= 0 {
		plan.OnTrack = true
		plan.Surplus = math.Abs(remaining)
		return plan, nil
	}

	var monthly float64
	if monthlyReturn == 0 {
		monthly = remaining / float64(months)
	} else {
		// future value of an ordinary annuity solved for the payment
		denominator := math.Pow(1+monthlyReturn, float64(months)) - 1
		monthly = SafeDivide(remaining*monthlyReturn, denominator, remaining/float64(months))
	}
	if !finite(monthly) {
		return nil, fmt.Errorf("non-finite monthly contribution (return %v over %d months)", expectedReturn, months)
	}

	plan.MonthlySavingsNeeded = monthly
	plan.TotalSavingsNeeded = monthly * float64(months)
	plan.Gap = remaining
	return plan, nil
}
