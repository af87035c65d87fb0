package replay

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/go-cmp/cmp"

	"github.com/rzbill/relog/internal/wal"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxRetries: 3, InitialDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond, Multiplier: 2}
}

func newTestEngine(t *testing.T, name string, opts ...Option) (*Engine, *wal.Registry) {
	t.Helper()
	reg, err := wal.Open(wal.Options{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("open registry: %v", err)
	}
	t.Cleanup(func() { _ = reg.Close() })
	h, err := wal.NewHandleBuilder().File(name).Build()
	if err != nil {
		t.Fatalf("build handle: %v", err)
	}
	if err := reg.Register(h); err != nil {
		t.Fatalf("register: %v", err)
	}
	opts = append([]Option{WithRetryConfig(fastRetry())}, opts...)
	return New(reg, name, opts...), reg
}

func appendLines(t *testing.T, reg *wal.Registry, name string, lines ...string) {
	t.Helper()
	for _, line := range lines {
		if err := reg.Append(context.Background(), name, line); err != nil {
			t.Fatalf("append %q: %v", line, err)
		}
	}
}

func TestReplayWindowSelection(t *testing.T) {
	e, reg := newTestEngine(t, "w.wal")
	ctx := context.Background()
	for i := 1; i <= 10; i++ {
		appendLines(t, reg, "w.wal", fmt.Sprintf("e%d", i))
	}

	var got []string
	res, err := e.Replay(ctx, 5, func(_ context.Context, rec string) error {
		got = append(got, rec)
		return nil
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	want := []string{"e6", "e7", "e8", "e9", "e10"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("window mismatch (-want +got):\n%s", diff)
	}
	if !res.Success || res.Processed != 5 || res.Failed != 0 {
		t.Fatalf("result: %+v", res)
	}

	// zero window never invokes the processor
	calls := 0
	res, err = e.Replay(ctx, 0, func(context.Context, string) error { calls++; return nil })
	if err != nil || calls != 0 || res.Processed != 0 {
		t.Fatalf("count=0: err=%v calls=%d res=%+v", err, calls, res)
	}

	// asking for more than available is not an error
	calls = 0
	res, err = e.Replay(ctx, 100, func(context.Context, string) error { calls++; return nil })
	if err != nil {
		t.Fatalf("count=100: %v", err)
	}
	if calls != 10 || res.Processed != 10 {
		t.Fatalf("count=100: calls=%d res=%+v", calls, res)
	}
}

func TestReplayRetriesThenSucceeds(t *testing.T) {
	e, reg := newTestEngine(t, "r.wal")
	appendLines(t, reg, "r.wal", "rec")

	invocations := 0
	res, err := e.Replay(context.Background(), 1, func(context.Context, string) error {
		invocations++
		if invocations <= 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if invocations != 3 {
		t.Fatalf("expected 3 invocations (2 failures + success), got %d", invocations)
	}
	if !res.Success || res.Processed != 1 || res.Failed != 0 {
		t.Fatalf("result: %+v", res)
	}
}

func TestReplayExhaustionContinuesWindow(t *testing.T) {
	var outcomes []bool
	e, reg := newTestEngine(t, "x.wal", WithObserver(func(_ string, ok bool) {
		outcomes = append(outcomes, ok)
	}))
	appendLines(t, reg, "x.wal", "bad", "good")

	badCalls := 0
	res, err := e.Replay(context.Background(), 2, func(_ context.Context, rec string) error {
		if rec == "bad" {
			badCalls++
			return errors.New("permanent")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if badCalls != 4 {
		t.Fatalf("expected maxRetries+1=4 attempts for failing record, got %d", badCalls)
	}
	if res.Success {
		t.Fatalf("expected partial failure: %+v", res)
	}
	if res.Processed != 1 || res.Failed != 1 {
		t.Fatalf("counts: %+v", res)
	}
	if len(res.Errors) != 1 || res.Errors[0].Record != "bad" || res.Errors[0].Attempts != 4 {
		t.Fatalf("errors: %+v", res.Errors)
	}
	if diff := cmp.Diff([]bool{false, true}, outcomes); diff != "" {
		t.Fatalf("observer outcomes (-want +got):\n%s", diff)
	}
}

func TestReplaySingleFlight(t *testing.T) {
	e, reg := newTestEngine(t, "s.wal")
	appendLines(t, reg, "s.wal", "rec")

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := e.Replay(context.Background(), 1, func(context.Context, string) error {
			close(started)
			<-release
			return nil
		})
		done <- err
	}()
	<-started

	if _, err := e.Replay(context.Background(), 1, func(context.Context, string) error { return nil }); !errors.Is(err, ErrReplayInProgress) {
		t.Fatalf("expected ErrReplayInProgress, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first replay: %v", err)
	}

	// guard released: a fresh call succeeds
	if _, err := e.Replay(context.Background(), 1, func(context.Context, string) error { return nil }); err != nil {
		t.Fatalf("replay after completion: %v", err)
	}
}

func TestReplayErrorReleasesGuard(t *testing.T) {
	reg, err := wal.Open(wal.Options{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("open registry: %v", err)
	}
	t.Cleanup(func() { _ = reg.Close() })

	// bound to a name that was never registered: the read fails
	e := New(reg, "ghost.wal")
	if _, err := e.Replay(context.Background(), 1, func(context.Context, string) error { return nil }); !errors.Is(err, wal.ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
	// the guard must have been released on the error path
	if _, err := e.Replay(context.Background(), 1, func(context.Context, string) error { return nil }); !errors.Is(err, wal.ErrNotRegistered) {
		t.Fatalf("second call: expected ErrNotRegistered, got %v", err)
	}
}

func TestReplayBackoffUsesInjectedClock(t *testing.T) {
	mock := clock.NewMock()
	e, reg := newTestEngine(t, "m.wal", WithClock(mock), WithRetryConfig(DefaultRetryConfig()))
	appendLines(t, reg, "m.wal", "rec")

	done := make(chan Result, 1)
	go func() {
		res, _ := e.Replay(context.Background(), 1, func(context.Context, string) error {
			return errors.New("always")
		})
		done <- res
	}()

	// drive the mock clock until the replay finishes; with a real clock this
	// would take seconds, with the mock it is immediate
	for {
		select {
		case res := <-done:
			if res.Failed != 1 {
				t.Fatalf("result: %+v", res)
			}
			return
		default:
			mock.Add(time.Second)
			time.Sleep(time.Millisecond)
		}
	}
}

func TestEventCountIgnoresBlankLines(t *testing.T) {
	e, reg := newTestEngine(t, "c.wal")
	ctx := context.Background()
	appendLines(t, reg, "c.wal", "one", "", "  ", "two")

	n, err := e.EventCount(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 non-blank lines, got %d", n)
	}
}
