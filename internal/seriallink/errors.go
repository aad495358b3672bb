package seriallink

import "errors"

// Package-level errors for link operations.
var (
	// ErrClosed indicates the link has been closed.
	ErrClosed = errors.New("seriallink: link closed")

	// ErrUnsupportedBaud indicates the configured baud rate has no
	// matching termios constant.
	ErrUnsupportedBaud = errors.New("seriallink: unsupported baud rate")

	// ErrUnsupportedTransport indicates an unknown transport name.
	ErrUnsupportedTransport = errors.New("seriallink: unsupported transport")
)
