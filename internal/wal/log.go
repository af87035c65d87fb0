package wal

import (
	"context"
	"os"
	"sync"
	"time"
)

type opKind int

const (
	opAppend opKind = iota
	opTruncate
	opRead
)

type op struct {
	kind opKind
	data string
	done chan opResult
}

type opResult struct {
	content string
	err     error
}

// walLog owns the physical file for one registered name. A single worker
// goroutine drains ops in FIFO order, so effect order equals submission
// order for writes targeting the same name.
type walLog struct {
	name string
	path string
	file *os.File

	ops  chan op
	quit chan struct{}

	mu      sync.Mutex
	notify  chan struct{}
	metrics MetricsHook
}

func newWalLog(name, path string, file *os.File, metrics MetricsHook) *walLog {
	l := &walLog{
		name:    name,
		path:    path,
		file:    file,
		ops:     make(chan op, 64),
		quit:    make(chan struct{}),
		notify:  make(chan struct{}),
		metrics: metrics,
	}
	go l.run()
	return l
}

func (l *walLog) run() {
	for {
		select {
		case o := <-l.ops:
			o.done <- l.apply(o)
		case <-l.quit:
			return
		}
	}
}

func (l *walLog) apply(o op) opResult {
	start := time.Now()
	switch o.kind {
	case opAppend:
		if _, err := l.file.WriteString(o.data + "\n"); err != nil {
			return opResult{err: err}
		}
		l.metrics.ObserveAppend(time.Since(start), len(o.data)+1)
		l.wake()
		return opResult{}
	case opTruncate:
		// Truncate empties content; the file itself persists. The fd is in
		// append mode, so later writes land at the new end.
		if err := l.file.Truncate(0); err != nil {
			return opResult{err: err}
		}
		l.metrics.ObserveTruncate(time.Since(start))
		return opResult{}
	case opRead:
		b, err := os.ReadFile(l.path)
		if err != nil {
			return opResult{err: err}
		}
		l.metrics.ObserveRead(time.Since(start), len(b))
		return opResult{content: string(b)}
	}
	return opResult{}
}

// submit enqueues an op and waits for that specific op to complete. Ops
// already submitted cannot be canceled; ctx only guards the enqueue.
func (l *walLog) submit(ctx context.Context, kind opKind, data string) (string, error) {
	o := op{kind: kind, data: data, done: make(chan opResult, 1)}
	select {
	case l.ops <- o:
	case <-l.quit:
		return "", ErrClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case res := <-o.done:
		return res.content, res.err
	case <-l.quit:
		return "", ErrClosed
	}
}

// wake notifies WaitForAppend callers that a new append landed.
func (l *walLog) wake() {
	l.mu.Lock()
	close(l.notify)
	l.notify = make(chan struct{})
	l.mu.Unlock()
}

// waitForAppend blocks until either a new append occurs or timeout elapses.
// It returns true if woken by an append, false on timeout.
func (l *walLog) waitForAppend(timeout time.Duration) bool {
	l.mu.Lock()
	ch := l.notify
	l.mu.Unlock()
	if timeout <= 0 {
		select {
		case <-ch:
			return true
		case <-l.quit:
			return false
		}
	}
	select {
	case <-ch:
		return true
	case <-l.quit:
		return false
	case <-time.After(timeout):
		return false
	}
}

func (l *walLog) close() {
	close(l.quit)
	_ = l.file.Close()
}
