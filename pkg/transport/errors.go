// This file has no build tags so errors are available in all build configurations.
package transport

import "errors"

var (
	// ErrSerialOpen is returned when the serial device cannot be opened.
	ErrSerialOpen = errors.New("failed to open serial port")

	// ErrTimeout marks a response that never produced a final result line.
	ErrTimeout = errors.New("timed out waiting for response")

	// ErrClosed is returned for I/O on a closed connection.
	ErrClosed = errors.New("connection closed")
)
