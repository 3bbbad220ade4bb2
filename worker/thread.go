// Package worker orchestrates the per-thread cooperative reactors a
// running instance of the engine is built from: each Thread owns a
// private mux.Pool and a task queue that every socket/timer callback
// created "on" it posts through, giving single-threaded semantics within
// a Thread without requiring real OS thread pinning. Orchestrator drives
// the startup barrier, graceful reload, and shutdown protocols across all
// Threads. Grounded on pipe.Pipe.Start/Stop's started/stopped atomic-bool
// guard plus WaitGroup drain, and on speaker.Speaker's
// context.WithCancelCause usage.
package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/pipyfix/pipy/mux"
	"github.com/pipyfix/pipy/netio"
)

// Thread is one cooperative reactor: a single goroutine drains tasks
// posted to it, so any state touched only from within those tasks needs
// no further locking — the same guarantee a single-threaded event loop
// gives the teacher's per-Pipe callback dispatch, here scaled out to N
// independent reactors instead of one global one.
type Thread struct {
	Name   string
	Logger *zerolog.Logger

	Mux      *mux.Pool
	Ports    *netio.Registry
	Listeners []*netio.Listener

	tasks   chan func()
	started atomic.Bool
	stopped atomic.Bool

	ctx    context.Context
	cancel context.CancelCauseFunc

	wg sync.WaitGroup
}

// NewThread constructs an idle Thread; call Start to begin its reactor
// loop.
func NewThread(name string, logger *zerolog.Logger) *Thread {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &Thread{
		Name:   name,
		Logger: logger,
		Mux:    mux.NewPool(logger),
		Ports:  netio.NewRegistry(),
		tasks:  make(chan func(), 256),
	}
}

// Post queues fn to run on this Thread's reactor goroutine. Safe to call
// from any goroutine; this is how cross-thread code (xthread.AsyncWrapper
// wake callbacks) schedules work onto a specific Thread.
func (t *Thread) Post(fn func()) {
	select {
	case t.tasks <- fn:
	default:
		// task queue saturated: run inline rather than drop work, same
		// fallback the teacher's sendEvent(noblock=false) path takes.
		fn()
	}
}

// Start launches the reactor loop and the mux idle recycler. Returns
// once the loop goroutine is confirmed running (closing over a
// synchronous start barrier), matching the spec's "worker fails to start
// unless force=true" requirement at the Orchestrator level.
func (t *Thread) Start(ctx context.Context) error {
	if !t.started.CompareAndSwap(false, true) {
		return nil
	}
	t.ctx, t.cancel = context.WithCancelCause(ctx)
	t.Mux.StartRecycler(t.ctx)

	ready := make(chan struct{})
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		close(ready)
		t.loop()
	}()
	<-ready
	return nil
}

func (t *Thread) loop() {
	for {
		select {
		case fn := <-t.tasks:
			fn()
		case <-t.ctx.Done():
			return
		}
	}
}

// Stop requests the reactor to exit. If force is false, callers are
// expected to have already told every Listener to stop accepting and
// waited for active pipeline.Layout.Active() counts to reach zero before
// calling Stop — force=true skips that and cancels immediately.
func (t *Thread) Stop(force bool, cause error) {
	if !t.stopped.CompareAndSwap(false, true) {
		return
	}
	if cause == nil {
		cause = context.Canceled
	}
	t.cancel(cause)
}

// Wait blocks until the reactor loop has fully exited.
func (t *Thread) Wait() {
	t.wg.Wait()
}

// Context returns the Thread's lifetime context, canceled by Stop.
func (t *Thread) Context() context.Context { return t.ctx }
