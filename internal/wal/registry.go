package wal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	logpkg "github.com/rzbill/relog/pkg/log"
)

// Options configures the Registry.
type Options struct {
	// DataDir is the base directory holding one file per registered log.
	// It is created recursively on first registration if absent.
	DataDir string
	// Metrics allows observing append/read/truncate latencies and sizes. Optional.
	Metrics MetricsHook
	// Logger receives registry diagnostics. Optional.
	Logger logpkg.Logger
}

// Registry owns the physical log files and serializes all write-class
// operations per log name. Construct one per process and thread it to every
// consumer; there is no hidden global instance.
type Registry struct {
	dataDir string
	metrics MetricsHook
	logger  logpkg.Logger

	mu      sync.RWMutex
	logs    map[string]*walLog
	pending map[string]struct{}
	closed  bool
}

// Open creates a Registry rooted at opts.DataDir. The directory itself is
// created lazily on first registration.
func Open(opts Options) (*Registry, error) {
	if opts.DataDir == "" {
		return nil, errors.New("wal: Options.DataDir is required")
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	return &Registry{
		dataDir: opts.DataDir,
		metrics: metrics,
		logger:  logger,
		logs:    make(map[string]*walLog),
		pending: make(map[string]struct{}),
	}, nil
}

// Register makes the handle's name usable for append/read/truncate.
// Idempotent: registering an already-registered name returns immediately
// with no I/O. A second concurrent registration of the same unregistered
// name fails with ErrAlreadyRegistering instead of racing to create the
// file twice. Unrelated names register independently.
func (r *Registry) Register(h Handle) error {
	if !h.valid() {
		return fmt.Errorf("%w: handle was not built through HandleBuilder", ErrInvalidInput)
	}
	name := h.FileName()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if _, ok := r.logs[name]; ok {
		r.mu.Unlock()
		return nil
	}
	if _, ok := r.pending[name]; ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyRegistering, name)
	}
	r.pending[name] = struct{}{}
	r.mu.Unlock()

	path := filepath.Join(r.dataDir, name)
	file, err := openLogFile(path)

	r.mu.Lock()
	delete(r.pending, name)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	if r.closed {
		r.mu.Unlock()
		_ = file.Close()
		return ErrClosed
	}
	r.logs[name] = newWalLog(name, path, file, r.metrics)
	r.mu.Unlock()

	r.logger.Debug("log registered", logpkg.Str("name", name), logpkg.Str("path", path))
	return nil
}

// openLogFile ensures the parent directory exists and opens the backing file
// in append mode, creating it only if absent.
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// Append enqueues a line append (payload + newline) on the name's
// serialization chain and returns once that specific operation completed.
func (r *Registry) Append(ctx context.Context, name, data string) error {
	l, err := r.lookup(name)
	if err != nil {
		return err
	}
	_, err = l.submit(ctx, opAppend, data)
	return err
}

// Read waits for all operations already chained on name at call time to
// finish, then returns the full current file content as one string.
func (r *Registry) Read(ctx context.Context, name string) (string, error) {
	l, err := r.lookup(name)
	if err != nil {
		return "", err
	}
	return l.submit(ctx, opRead, "")
}

// Truncate enqueues a clear-content operation on the same per-name chain as
// Append, so it never interleaves with concurrent appends to the same name.
func (r *Registry) Truncate(ctx context.Context, name string) error {
	l, err := r.lookup(name)
	if err != nil {
		return err
	}
	_, err = l.submit(ctx, opTruncate, "")
	return err
}

// WaitForAppend blocks until a new append lands on name or timeout elapses
// (timeout <= 0 waits until the registry closes). It returns true if woken
// by an append.
func (r *Registry) WaitForAppend(name string, timeout time.Duration) (bool, error) {
	l, err := r.lookup(name)
	if err != nil {
		return false, err
	}
	return l.waitForAppend(timeout), nil
}

// Close stops all per-name workers and closes the backing files.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	for _, l := range r.logs {
		l.close()
	}
	r.logs = make(map[string]*walLog)
	return nil
}

func (r *Registry) lookup(name string) (*walLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrClosed
	}
	l, ok := r.logs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	return l, nil
}
