package engine

import (
	"math/rand"
	"time"
)

// DefaultRetryInterval spaces re-attempts after a statement error.
const DefaultRetryInterval = 10 * time.Second

// RetryConfig controls the per-statement error retry delay.
type RetryConfig struct {
	// Interval is the base delay; zero selects DefaultRetryInterval.
	Interval time.Duration
	// Jitter spreads the delay over [0.5x, 1.5x) of the interval.
	Jitter bool
}

// retryDelay returns the delay until the next advance attempt.
func retryDelay(cfg RetryConfig, rng *rand.Rand) time.Duration {
	d := cfg.Interval
	if d <= 0 {
		d = DefaultRetryInterval
	}
	if cfg.Jitter {
		f := 0.5
		if rng != nil {
			f = 0.5 + rng.Float64()
		}
		d = time.Duration(float64(d) * f)
	}
	return d
}
