package replay

import (
	"math"
	"math/rand"
	"time"
)

// RetryConfig bounds the per-record retry loop.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt; a record
	// is attempted MaxRetries+1 times in total.
	MaxRetries int
	// InitialDelay is the backoff before the first retry.
	InitialDelay time.Duration
	// MaxDelay caps the exponential growth. Jitter is applied after the cap
	// and may push a single delay up to 25% above it.
	MaxDelay time.Duration
	// Multiplier is the geometric growth factor, >= 1.
	Multiplier float64
}

// DefaultRetryConfig returns the documented defaults: 3 retries, 100ms
// initial delay, 5s cap, multiplier 2.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2,
	}
}

// normalize replaces out-of-range values with the documented defaults.
func (c RetryConfig) normalize() RetryConfig {
	def := DefaultRetryConfig()
	if c.MaxRetries < 0 {
		c.MaxRetries = def.MaxRetries
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = def.InitialDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = def.MaxDelay
	}
	if c.MaxDelay < c.InitialDelay {
		c.MaxDelay = c.InitialDelay
	}
	if c.Multiplier < 1 {
		c.Multiplier = def.Multiplier
	}
	return c
}

// computeBackoff returns the delay before the retry following the attempt-th
// failure (0-indexed): floor(min(maxDelay, initial*multiplier^attempt) * (1+jitter)).
func computeBackoff(cfg RetryConfig, attempt int, jitter float64) time.Duration {
	ms := float64(cfg.InitialDelay.Milliseconds()) * math.Pow(cfg.Multiplier, float64(attempt))
	if capMs := float64(cfg.MaxDelay.Milliseconds()); ms > capMs {
		ms = capMs
	}
	ms = math.Floor(ms * (1 + jitter))
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms) * time.Millisecond
}

// defaultJitter draws uniformly from [-0.25, 0.25] to avoid synchronized
// retry storms.
func defaultJitter() float64 { return rand.Float64()*0.5 - 0.25 }
