// Package runtime wires the process-wide wal registry and client
// construction for a single relog instance. Construct one Runtime at
// startup and thread it to every consumer.
package runtime
