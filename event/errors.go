package event

import "errors"

var (
	// ErrDoubleStart is returned by Validator when a second MessageStart
	// arrives before the matching MessageEnd.
	ErrDoubleStart = errors.New("event: message already started")

	// ErrNotStarted is returned by Validator when MessageEnd arrives
	// outside of a message. Data outside a message is accepted.
	ErrNotStarted = errors.New("event: no message in progress")

	// ErrAfterEnd is returned by Validator when any event arrives after
	// a StreamEnd has already closed the stream.
	ErrAfterEnd = errors.New("event: stream already ended")
)
