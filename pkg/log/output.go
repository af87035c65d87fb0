package log

import (
	"io"
	"os"
	"sync"
)

// ConsoleOutput writes formatted entries to stdout, errors and above to stderr.
type ConsoleOutput struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
}

// NewConsoleOutput creates a ConsoleOutput bound to the process streams.
func NewConsoleOutput() *ConsoleOutput {
	return &ConsoleOutput{out: os.Stdout, errOut: os.Stderr}
}

// Write implements Output.
func (c *ConsoleOutput) Write(entry *Entry, formattedEntry []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	w := c.out
	if entry.Level >= ErrorLevel {
		w = c.errOut
	}
	_, err := w.Write(formattedEntry)
	return err
}

// Close implements Output.
func (c *ConsoleOutput) Close() error { return nil }

// WriterOutput sends formatted entries to an arbitrary io.Writer.
type WriterOutput struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterOutput creates an Output over w.
func NewWriterOutput(w io.Writer) *WriterOutput { return &WriterOutput{w: w} }

// Write implements Output.
func (o *WriterOutput) Write(_ *Entry, formattedEntry []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, err := o.w.Write(formattedEntry)
	return err
}

// Close implements Output.
func (o *WriterOutput) Close() error { return nil }

// Discard drops every entry.
type Discard struct{}

// Write implements Output.
func (Discard) Write(*Entry, []byte) error { return nil }

// Close implements Output.
func (Discard) Close() error { return nil }
