package wal

import (
	"fmt"
	"strings"
)

// Handle names one physical log file. It is immutable and can only be
// obtained through HandleBuilder; the zero Handle is invalid and rejected by
// Registry.Register.
type Handle struct {
	name string
}

// FileName returns the log file name the handle was built with.
func (h Handle) FileName() string { return h.name }

// valid reports whether the handle went through the builder.
func (h Handle) valid() bool { return h.name != "" }

// HandleBuilder assembles a Handle.
type HandleBuilder struct {
	name string
}

// NewHandleBuilder creates an empty builder.
func NewHandleBuilder() *HandleBuilder { return &HandleBuilder{} }

// File sets the log file name.
func (b *HandleBuilder) File(name string) *HandleBuilder {
	b.name = name
	return b
}

// Build validates the builder state and returns an immutable Handle.
func (b *HandleBuilder) Build() (Handle, error) {
	if strings.TrimSpace(b.name) == "" {
		return Handle{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	return Handle{name: b.name}, nil
}
