package calculation

import (
	"math/rand"
	"time"
)

// nowFunc returns the current time (override in tests for cache expiry).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

// seedFunc returns a seed for projections that were not given one.
var seedFunc = func() int64 { return time.Now().UnixNano() }

// SetSeedFunc overrides the seed provider (use only in tests).
func SetSeedFunc(f func() int64) { seedFunc = f }

// NewRand returns an isolated random stream. A *rand.Rand is not safe for
// concurrent use, so each concurrent projection needs its own.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
