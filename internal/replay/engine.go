package replay

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/benbjohnson/clock"

	"github.com/rzbill/relog/internal/wal"
	logpkg "github.com/rzbill/relog/pkg/log"
)

// ErrReplayInProgress reports a second Replay call on an engine instance
// while one is still running.
var ErrReplayInProgress = errors.New("replay already in progress")

// Processor handles one replayed record.
type Processor func(ctx context.Context, record string) error

// Observer is invoked once per record after its final outcome is known.
type Observer func(record string, success bool)

// RecordError captures one record that exhausted its retries.
type RecordError struct {
	Record   string
	Err      error
	Attempts int
}

// Result aggregates one Replay call. Processed+Failed equals the number of
// records selected for the call, and Success holds exactly when Failed is 0.
type Result struct {
	Success   bool
	Processed int
	Failed    int
	Errors    []RecordError
}

// Engine re-delivers the most recent records of one log name to a Processor
// with bounded retries and exponential backoff. An Engine allows at most one
// in-flight Replay; independent engines on different names run concurrently.
type Engine struct {
	reg    *wal.Registry
	name   string
	cfg    RetryConfig
	obs    Observer
	clk    clock.Clock
	jitter func() float64
	logger logpkg.Logger
	active atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRetryConfig overrides the default retry policy.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithObserver sets the per-record outcome observer.
func WithObserver(obs Observer) Option {
	return func(e *Engine) { e.obs = obs }
}

// WithClock overrides the clock used for backoff sleeps.
func WithClock(clk clock.Clock) Option {
	return func(e *Engine) { e.clk = clk }
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger logpkg.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New binds an Engine to one registered log name.
func New(reg *wal.Registry, name string, opts ...Option) *Engine {
	e := &Engine{
		reg:    reg,
		name:   name,
		cfg:    DefaultRetryConfig(),
		clk:    clock.New(),
		jitter: defaultJitter,
		logger: logpkg.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cfg = e.cfg.normalize()
	return e
}

// Replay delivers the last count records (oldest to newest) to fn, strictly
// sequentially. Each record gets an independent retry loop; a record that
// exhausts its retries is recorded in the Result and never aborts the rest
// of the window. Once started, a replay runs to completion; there is no
// mid-flight cancellation.
func (e *Engine) Replay(ctx context.Context, count int, fn Processor) (Result, error) {
	if !e.active.CompareAndSwap(false, true) {
		return Result{}, fmt.Errorf("%w: %s", ErrReplayInProgress, e.name)
	}
	defer e.active.Store(false)

	content, err := e.reg.Read(ctx, e.name)
	if err != nil {
		return Result{}, err
	}
	window := lastN(wal.Lines(content), count)

	var res Result
	for _, rec := range window {
		attempts, err := e.deliver(ctx, rec, fn)
		ok := err == nil
		if ok {
			res.Processed++
		} else {
			res.Failed++
			res.Errors = append(res.Errors, RecordError{Record: rec, Err: err, Attempts: attempts})
			e.logger.Warn("record failed after retries",
				logpkg.Str("name", e.name),
				logpkg.Int("attempts", attempts),
				logpkg.Err(err),
			)
		}
		if e.obs != nil {
			e.obs(rec, ok)
		}
	}
	res.Success = res.Failed == 0
	return res, nil
}

// deliver runs the retry loop for one record: attempts 0..MaxRetries
// inclusive, sleeping between failures. There is no wait after a success or
// after the final failure. Returns the attempt count and the last error.
func (e *Engine) deliver(ctx context.Context, rec string, fn Processor) (int, error) {
	var lastErr error
	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		err := fn(ctx, rec)
		if err == nil {
			return attempt + 1, nil
		}
		lastErr = err
		if attempt < e.cfg.MaxRetries {
			e.clk.Sleep(computeBackoff(e.cfg, attempt, e.jitter()))
		}
	}
	return e.cfg.MaxRetries + 1, lastErr
}

// EventCount returns the number of non-blank lines currently stored for the
// bound name.
func (e *Engine) EventCount(ctx context.Context) (int, error) {
	content, err := e.reg.Read(ctx, e.name)
	if err != nil {
		return 0, err
	}
	return len(wal.Lines(content)), nil
}

// lastN selects the record window: the last min(n, len) lines, oldest to
// newest. n <= 0 selects nothing; n beyond the available lines is not an
// error.
func lastN(lines []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if n >= len(lines) {
		return lines
	}
	return lines[len(lines)-n:]
}
