// Package id provides 128-bit, lexicographically sortable entry identifiers.
//
// # Format
//
// An ID is 16 bytes big-endian: [8 bytes ms_timestamp][8 bytes sequence].
// Byte-wise comparison preserves chronological order, and IDs generated
// within the same millisecond remain strictly increasing by sequence. The
// embedded millisecond value is exposed via Ms and doubles as the append
// timestamp of the entry it names.
//
// # Monotonicity
//
// The Generator is monotonic per process:
//   - If the system clock regresses, it pins to the last seen millisecond so
//     newly issued IDs never sort before earlier ones.
//   - If the sequence would overflow within a millisecond, it waits for the
//     next millisecond before emitting the next ID.
//
// Usage
//
//	g := id.NewGenerator()
//	eid := g.Next()
//	s := eid.String() // hex form used as the entry id
//	ts := eid.Ms()    // entry timestamp in epoch milliseconds
package id
