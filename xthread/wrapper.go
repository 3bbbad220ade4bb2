package xthread

import (
	"context"
	"sync/atomic"

	"github.com/pipyfix/pipy/event"
	"github.com/pipyfix/pipy/pipeline"
	"github.com/pipyfix/pipy/plumbing"
)

// AsyncWrapper bridges a sender on one thread to a pool of
// pipeline.Instances living on another, round-robining across Targets
// when more than one is registered (e.g. fanning a shared upstream
// connection's events across several worker threads). Post callbacks
// wake the destination reactor after Send so it is not left blocking on
// an empty queue, matching the spec's "post" wake-up requirement.
type AsyncWrapper struct {
	In  *EventQueue
	Out *EventQueue

	srcPost func()
	dstPost func()

	Targets []*pipeline.Instance
	next    atomic.Uint32
}

// NewAsyncWrapper pairs two bounded queues and their wake callbacks. Nil
// callbacks are allowed when the destination never sleeps (e.g. it is
// driven by an external select loop that already polls In).
func NewAsyncWrapper(capacity int, srcPost, dstPost func()) *AsyncWrapper {
	return &AsyncWrapper{
		In:      NewEventQueue(capacity),
		Out:     NewEventQueue(capacity),
		srcPost: srcPost,
		dstPost: dstPost,
	}
}

// Send enqueues ev for the destination side and wakes it. Returns false
// if the inbound queue is full — callers should treat this as
// back-pressure, not a dropped-and-forgotten event.
func (w *AsyncWrapper) Send(ev event.Event) bool {
	ok := w.In.Enqueue(ev)
	if ok && w.dstPost != nil {
		w.dstPost()
	}
	return ok
}

// Reply enqueues ev for the source side and wakes it.
func (w *AsyncWrapper) Reply(ev event.Event) bool {
	ok := w.Out.Enqueue(ev)
	if ok && w.srcPost != nil {
		w.srcPost()
	}
	return ok
}

// Pump drains w.In on the destination side until ctx is done, resolving a
// single target Instance on the first event — round-robin among Targets
// when more than one shares this wrapper's workload, then pinned for the
// rest of the stream — and routes that target's replies back through
// Reply. Run this as the destination reactor's per-wrapper task.
func (w *AsyncWrapper) Pump(ctx context.Context) {
	if len(w.Targets) == 0 {
		return
	}
	idx := w.next.Add(1) % uint32(len(w.Targets))
	target := w.Targets[idx]
	target.Chain(plumbing.FuncInput(func(ev event.Event) { w.Reply(ev) }))

	for {
		ev, ok := w.In.Dequeue(ctx)
		if !ok {
			return
		}
		target.Input(ev)
	}
}

// Close releases both queues. Callers must ensure the producing side(s)
// have stopped sending first.
func (w *AsyncWrapper) Close() {
	w.In.Close()
	w.Out.Close()
}
