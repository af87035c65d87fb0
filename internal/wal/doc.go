// Package wal implements relog's append-only log storage and registry.
//
// # Overview
//
// Each registered name owns one UTF-8 text file under the registry's base
// directory, one payload per line. A file may mix two line kinds: envelope
// lines (JSON, produced by the client facade) and legacy bare-payload lines;
// the storage layer treats both as opaque.
//
// # Serialization
//
// Every name has a single worker goroutine draining an op channel, so
// write-class operations (append, truncate) targeting the same name execute
// in strict submission order without busy-waiting. Operations on different
// names are fully independent. A read is chained on the same channel, so it
// observes every operation submitted before it.
//
// API surface (internal)
//
//	r, _ := wal.Open(wal.Options{DataDir: dir})
//	h, _ := wal.NewHandleBuilder().File("orders.wal").Build()
//	_ = r.Register(h)                  // idempotent
//	_ = r.Append(ctx, "orders.wal", line)
//	content, _ := r.Read(ctx, "orders.wal")
//	_ = r.Truncate(ctx, "orders.wal")  // empties content, file persists
//	woke, _ := r.WaitForAppend("orders.wal", time.Second)
//	_ = woke
//
// Appends are acknowledged once the write syscall returns; no fsync is
// forced, so durability across a crash mid-write follows the OS page cache.
package wal
