package wal

import "time"

// MetricsHook is a minimal hook surface for storage observations. Optional.
type MetricsHook interface {
	ObserveAppend(elapsed time.Duration, bytes int)
	ObserveRead(elapsed time.Duration, bytes int)
	ObserveTruncate(elapsed time.Duration)
}

// NoopMetrics is used when no metrics hook is provided.
type NoopMetrics struct{}

func (NoopMetrics) ObserveAppend(time.Duration, int) {}
func (NoopMetrics) ObserveRead(time.Duration, int)   {}
func (NoopMetrics) ObserveTruncate(time.Duration)    {}
