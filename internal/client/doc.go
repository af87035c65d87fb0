// Package client provides the public facade over the wal registry and the
// replay engine for a single log name.
//
// Append validates the payload, wraps it in a JSON envelope
// {"id","timestamp","data"} stamped from a monotonic id generator, and hands
// the line to the registry. Replay and Inspect run the reverse direction: a
// total envelope-or-legacy decode extracts the caller payload from each
// stored line, so files predating the envelope format keep working with no
// stored format marker.
//
//	c, _ := client.New(reg, "orders.wal")
//	id, _ := c.Append(ctx, "payload")
//	last, _ := c.Inspect(ctx, 10)
//	err := c.Replay(ctx, 10, func(ctx context.Context, payload string) error {
//	    return deliver(payload)
//	})
//	if errors.Is(err, client.ErrReplayFailed) {
//	    // some records exhausted retries; they remain in the log
//	}
package client
