package mux

import "errors"

var (
	// ErrSessionClosed names a session that failed to start or was
	// evicted. No function in this package returns it: OpenStream has no
	// error result.
	ErrSessionClosed = errors.New("mux: session closed")

	// ErrQueueFull names a session at its MaxQueue cap. No function in
	// this package returns it: Pool.Select starts a new session instead.
	ErrQueueFull = errors.New("mux: stream queue full")
)
