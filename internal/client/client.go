package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rzbill/relog/internal/replay"
	"github.com/rzbill/relog/internal/wal"
	"github.com/rzbill/relog/pkg/id"
	logpkg "github.com/rzbill/relog/pkg/log"
)

// ErrReplayFailed reports a replay that completed with one or more records
// exhausting their retries.
var ErrReplayFailed = errors.New("replay failed")

// ReplayError carries the failed/total counts of a partially failed replay.
type ReplayError struct {
	Failed int
	Total  int
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("replay failed: %d of %d records exhausted retries", e.Failed, e.Total)
}

func (e *ReplayError) Is(target error) bool { return target == ErrReplayFailed }

// Processor handles one replayed payload.
type Processor func(ctx context.Context, payload string) error

// Client is the facade over registry and replay engine for one log name. It
// stamps entries with generated ids and timestamps, encodes the on-disk
// envelope, and decodes envelope or legacy lines on the way out.
type Client struct {
	reg    *wal.Registry
	eng    *replay.Engine
	name   string
	ids    *id.Generator
	logger logpkg.Logger
}

type config struct {
	retry    *replay.RetryConfig
	observer replay.Observer
	logger   logpkg.Logger
}

// Option configures a Client.
type Option func(*config)

// WithRetryConfig overrides the replay engine's retry policy.
func WithRetryConfig(cfg replay.RetryConfig) Option {
	return func(c *config) { c.retry = &cfg }
}

// WithObserver sets the per-record replay outcome observer.
func WithObserver(obs replay.Observer) Option {
	return func(c *config) { c.observer = obs }
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger logpkg.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// New builds a handle for name, registers it (idempotently), and returns a
// Client bound to it.
func New(reg *wal.Registry, name string, opts ...Option) (*Client, error) {
	h, err := wal.NewHandleBuilder().File(name).Build()
	if err != nil {
		return nil, err
	}
	if err := reg.Register(h); err != nil {
		return nil, err
	}

	cfg := config{logger: logpkg.NewNopLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}
	engOpts := []replay.Option{replay.WithLogger(cfg.logger)}
	if cfg.retry != nil {
		engOpts = append(engOpts, replay.WithRetryConfig(*cfg.retry))
	}
	if cfg.observer != nil {
		engOpts = append(engOpts, replay.WithObserver(cfg.observer))
	}

	return &Client{
		reg:    reg,
		eng:    replay.New(reg, h.FileName(), engOpts...),
		name:   h.FileName(),
		ids:    id.NewGenerator(),
		logger: cfg.logger,
	}, nil
}

// Name returns the bound log name.
func (c *Client) Name() string { return c.name }

// Append records content in a fresh envelope and returns the generated entry
// id. Content must not be empty or all-whitespace.
func (c *Client) Append(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: content must not be empty", wal.ErrInvalidInput)
	}
	eid := c.ids.Next()
	line, err := encodeEntry(Entry{ID: eid.String(), Timestamp: eid.Ms(), Data: content})
	if err != nil {
		return "", err
	}
	if err := c.reg.Append(ctx, c.name, line); err != nil {
		return "", err
	}
	c.logger.Debug("entry appended", logpkg.Str("name", c.name), logpkg.Str("id", eid.String()))
	return eid.String(), nil
}

// Replay delivers the payloads of the last count entries to fn, oldest to
// newest, with the engine's retry policy. Envelope lines are unwrapped to
// their data field; legacy lines pass through unchanged. If any record
// exhausts its retries the call fails with a ReplayError carrying the
// failed/total counts; the record itself stays in the log.
func (c *Client) Replay(ctx context.Context, count int, fn Processor) error {
	if count < 0 {
		return fmt.Errorf("%w: count must not be negative", wal.ErrInvalidInput)
	}
	if fn == nil {
		return fmt.Errorf("%w: processor is required", wal.ErrInvalidInput)
	}
	res, err := c.eng.Replay(ctx, count, func(ctx context.Context, line string) error {
		return fn(ctx, decodePayload(line))
	})
	if err != nil {
		return err
	}
	if !res.Success {
		return &ReplayError{Failed: res.Failed, Total: res.Processed + res.Failed}
	}
	return nil
}

// Inspect returns the payloads of the last count entries, oldest to newest,
// decoded with the same envelope-or-legacy rule as Replay. count 0 yields an
// empty result; counts beyond the stored entries are not an error.
func (c *Client) Inspect(ctx context.Context, count int) ([]string, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count must not be negative", wal.ErrInvalidInput)
	}
	content, err := c.reg.Read(ctx, c.name)
	if err != nil {
		return nil, err
	}
	lines := wal.Lines(content)
	if count < len(lines) {
		lines = lines[len(lines)-count:]
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, decodePayload(line))
	}
	return out, nil
}

// EntryCount returns the number of entries currently stored.
func (c *Client) EntryCount(ctx context.Context) (int, error) {
	return c.eng.EventCount(ctx)
}
