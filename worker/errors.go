package worker

import "errors"

var (
	// ErrAlreadyStarted guards Orchestrator.Start against being called
	// twice.
	ErrAlreadyStarted = errors.New("worker: orchestrator already started")

	// ErrNotStarted guards Reload/Shutdown against running before Start.
	ErrNotStarted = errors.New("worker: orchestrator not started")
)
