// Package replay implements sequential re-delivery of the most recent log
// records with bounded retries and exponential backoff.
//
// An Engine is bound to one registered log name. Replay(count, fn) reads the
// full log through the registry, keeps the last count non-blank lines
// (oldest to newest), and delivers them one at a time. Each record runs an
// independent retry loop of MaxRetries+1 attempts; the delay before the
// retry after the attempt-th failure is
//
//	floor(min(maxDelay, initialDelay*multiplier^attempt) * (1 + jitter))
//
// with jitter drawn uniformly from [-0.25, 0.25]. A record that exhausts its
// retries is reported in the aggregate Result; it never aborts the rest of
// the window and stays in the log for manual follow-up.
//
// Replay is single-flight per Engine: a second call while one is running
// fails with ErrReplayInProgress instead of queuing. Once started, a replay
// runs to completion; there is no mid-flight cancellation.
package replay
