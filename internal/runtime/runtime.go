package runtime

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/rzbill/relog/internal/client"
	cfgpkg "github.com/rzbill/relog/internal/config"
	"github.com/rzbill/relog/internal/replay"
	"github.com/rzbill/relog/internal/wal"
	logpkg "github.com/rzbill/relog/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	DataDir string
	Config  cfgpkg.Config
	Logger  logpkg.Logger
	Metrics wal.MetricsHook
}

// Runtime wires the single process-wide registry, config, and client
// construction for one instance. Consumers receive the registry by shared
// ownership through OpenClient; nothing here is global.
type Runtime struct {
	registry *wal.Registry
	config   cfgpkg.Config
	logger   logpkg.Logger
}

// Open initializes the registry and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	reg, err := wal.Open(wal.Options{
		DataDir: filepath.Join(opts.DataDir, "logs"),
		Metrics: opts.Metrics,
		Logger:  logger.WithComponent("wal"),
	})
	if err != nil {
		return nil, err
	}
	return &Runtime{registry: reg, config: opts.Config, logger: logger}, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.registry == nil {
		return nil
	}
	return r.registry.Close()
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.registry == nil {
		return errors.New("registry not open")
	}
	return nil
}

// OpenClient registers name (idempotently) and returns a client bound to it,
// carrying the configured replay defaults.
func (r *Runtime) OpenClient(name string) (*client.Client, error) {
	return client.New(r.registry, name,
		client.WithRetryConfig(r.retryConfig()),
		client.WithLogger(r.logger.WithComponent("client")),
	)
}

// Truncate clears the stored content of a registered log name.
func (r *Runtime) Truncate(ctx context.Context, name string) error {
	return r.registry.Truncate(ctx, name)
}

// WaitForAppend blocks until a new append lands on name or timeout elapses.
func (r *Runtime) WaitForAppend(name string, timeout time.Duration) (bool, error) {
	return r.registry.WaitForAppend(name, timeout)
}

// Registry exposes the underlying registry for advanced operations (internal use only).
func (r *Runtime) Registry() *wal.Registry { return r.registry }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

func (r *Runtime) retryConfig() replay.RetryConfig {
	d := r.config.Replay
	cfg := replay.DefaultRetryConfig()
	if d.MaxRetries >= 0 {
		cfg.MaxRetries = d.MaxRetries
	}
	if d.InitialDelayMs > 0 {
		cfg.InitialDelay = time.Duration(d.InitialDelayMs) * time.Millisecond
	}
	if d.MaxDelayMs > 0 {
		cfg.MaxDelay = time.Duration(d.MaxDelayMs) * time.Millisecond
	}
	if d.BackoffMultiplier >= 1 {
		cfg.Multiplier = d.BackoffMultiplier
	}
	return cfg
}
