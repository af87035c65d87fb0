package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	cfgpkg "github.com/rzbill/relog/internal/config"
)

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	rt, err := Open(Options{DataDir: t.TempDir(), Config: cfgpkg.Default()})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}

func TestOpenClientAppendInspect(t *testing.T) {
	rt := newTestRuntime(t)
	c, err := rt.OpenClient("orders.wal")
	if err != nil {
		t.Fatalf("open client: %v", err)
	}
	ctx := context.Background()
	if _, err := c.Append(ctx, "first"); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := c.Inspect(ctx, 1)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if diff := cmp.Diff([]string{"first"}, got); diff != "" {
		t.Fatalf("inspect mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenClientTwiceSharesLog(t *testing.T) {
	rt := newTestRuntime(t)
	c1, err := rt.OpenClient("shared.wal")
	if err != nil {
		t.Fatalf("open client 1: %v", err)
	}
	c2, err := rt.OpenClient("shared.wal")
	if err != nil {
		t.Fatalf("open client 2 (registration is idempotent): %v", err)
	}
	ctx := context.Background()
	if _, err := c1.Append(ctx, "from c1"); err != nil {
		t.Fatalf("append: %v", err)
	}
	n, err := c2.EntryCount(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected shared content, got %d entries", n)
	}
}

func TestTruncateThroughRuntime(t *testing.T) {
	rt := newTestRuntime(t)
	c, err := rt.OpenClient("t.wal")
	if err != nil {
		t.Fatalf("open client: %v", err)
	}
	ctx := context.Background()
	if _, err := c.Append(ctx, "gone soon"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := rt.Truncate(ctx, "t.wal"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	n, _ := c.EntryCount(ctx)
	if n != 0 {
		t.Fatalf("expected empty log after truncate, got %d", n)
	}
}

func TestRetryConfigFromConfig(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Replay.MaxRetries = 1
	cfg.Replay.InitialDelayMs = 10
	cfg.Replay.MaxDelayMs = 20
	cfg.Replay.BackoffMultiplier = 1.5
	rt, err := Open(Options{DataDir: t.TempDir(), Config: cfg})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })

	rc := rt.retryConfig()
	if rc.MaxRetries != 1 || rc.InitialDelay != 10*time.Millisecond || rc.MaxDelay != 20*time.Millisecond || rc.Multiplier != 1.5 {
		t.Fatalf("retry config: %+v", rc)
	}
}

func TestCheckHealth(t *testing.T) {
	rt := newTestRuntime(t)
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
}
