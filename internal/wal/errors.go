package wal

import "errors"

var (
	// ErrInvalidInput reports a validation failure before any I/O is attempted.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotRegistered reports an operation against an unknown log name.
	ErrNotRegistered = errors.New("log not registered")
	// ErrAlreadyRegistering reports a concurrent first registration of the same name.
	ErrAlreadyRegistering = errors.New("registration already in progress")
	// ErrClosed reports an operation against a closed registry.
	ErrClosed = errors.New("registry closed")
)
