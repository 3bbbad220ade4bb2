// Package xthread implements the cross-thread transport: an MPSC
// EventQueue and the AsyncWrapper that pairs two queues with wake
// callbacks, letting one worker thread's pipeline feed events to
// another's without either thread blocking on the other. Grounded on the
// teacher's Direction.In/Out channel pair and its panic-safe
// CloseInput/CloseOutput idiom, generalized from "two BGP directions on
// one goroutine" to "two pipelines on two different reactor threads".
package xthread

import (
	"context"

	"github.com/pipyfix/pipy/event"
)

// EventQueue is a buffered, many-producer/single-consumer channel of
// events. Enqueue never blocks (a full queue rejects the new event and
// returns false, leaving queued events untouched, so the caller can decide
// how to react — e.g. emit BufferOverflow), matching the teacher's
// sendEvent(..., noblock=true) path.
type EventQueue struct {
	ch chan event.Event
}

func NewEventQueue(capacity int) *EventQueue {
	return &EventQueue{ch: make(chan event.Event, capacity)}
}

// Enqueue attempts a non-blocking send, returning false if the queue is
// full.
func (q *EventQueue) Enqueue(ev event.Event) bool {
	select {
	case q.ch <- ev:
		return true
	default:
		return false
	}
}

// Dequeue blocks until an event is available or ctx is done.
func (q *EventQueue) Dequeue(ctx context.Context) (event.Event, bool) {
	select {
	case ev := <-q.ch:
		return ev, true
	case <-ctx.Done():
		return nil, false
	}
}

// Close releases the channel. After Close, further Enqueue calls panic;
// callers must ensure no producer is still active, matching the
// teacher's "don't write to a closed Direction.In" contract.
func (q *EventQueue) Close() {
	close(q.ch)
}
