package modem

import "errors"

var (
	// ErrNoDevice is returned when no serial modem device could be found.
	// Callers degrade voice and SMS features instead of failing the process.
	ErrNoDevice = errors.New("no serial modem device found")

	// ErrTimeout is returned by Execute when no final result code arrived
	// within the command window. The partial response, if any, is still
	// returned; callers treat the outcome as unknown.
	ErrTimeout = errors.New("command timeout")

	// ErrClosed is returned when an operation is attempted after Close.
	ErrClosed = errors.New("modem closed")
)
