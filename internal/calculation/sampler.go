package calculation

import (
	"math"
	"math/rand"

	"github.com/rpgo/portfolio-projector/internal/domain"
)

// SampleParametric simulates paths of geometric Brownian motion with an annual
// step and returns the final value of each path. Each year's gross return is
// exp(μ − σ²/2 + σ·z) with z standard normal drawn from rng.
func SampleParametric(rng *rand.Rand, initialValue, annualReturn, annualVolatility float64, years, simulations int) []float64 {
	drift := annualReturn - 0.5*annualVolatility*annualVolatility

	finals := make([]float64, simulations)
	for i := range finals {
		value := initialValue
		for y := 0; y < years; y++ {
			z := rng.NormFloat64()
			value *= math.Exp(drift + annualVolatility*z)
		}
		finals[i] = value
	}
	return finals
}

// SampleHistorical bootstraps paths by drawing years returns with replacement
// from the historical pool and returns the final value of each path.
func SampleHistorical(rng *rand.Rand, logger Logger, initialValue float64, historical domain.ReturnSeries, years, simulations int) ([]float64, error) {
	pool, err := bootstrapPool(historical, loggerOrNop(logger))
	if err != nil {
		return nil, err
	}

	return bootstrapFromPool(rng, pool, initialValue, years, simulations), nil
}

func bootstrapFromPool(rng *rand.Rand, pool []float64, initialValue float64, years, simulations int) []float64 {
	finals := make([]float64, simulations)
	for i := range finals {
		growth := 1.0
		for y := 0; y < years; y++ {
			growth *= 1 + pool[rng.Intn(len(pool))]
		}
		finals[i] = initialValue * growth
	}
	return finals
}
