package worker

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Build constructs one Thread's configuration (its listeners, layouts,
// pools) from whatever external module system supplies it — the
// orchestrator itself is configuration-agnostic, matching the spec's
// separation between "core" and "scripting host".
type Build func(ctx context.Context, name string) (*Thread, error)

// StartOptions controls Orchestrator.Start's failure handling.
type StartOptions struct {
	// Force, when true, keeps any threads that did start even if others
	// failed; when false (the default) a single failing thread aborts
	// the whole startup and every thread that did come up is stopped.
	Force bool
}

// Orchestrator owns the full set of running Threads and drives start,
// reload, and shutdown across all of them in parallel, using errgroup to
// fan the per-thread work out and collect the first error — grounded on
// speaker.Speaker's single context.WithCancelCause per unit of work,
// generalized from one BGP speaker to N worker threads built and reloaded
// together.
type Orchestrator struct {
	mu      sync.Mutex
	threads []*Thread
	build   Build
	started bool
}

func NewOrchestrator(build Build) *Orchestrator {
	return &Orchestrator{build: build}
}

// Start builds and starts n threads in parallel. With opts.Force=false
// (default), any single failure stops every thread that did start and
// returns the error, matching the spec's "worker fails to start unless
// force=true" rule.
func (o *Orchestrator) Start(ctx context.Context, n int, opts StartOptions) error {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return ErrAlreadyStarted
	}
	o.mu.Unlock()

	threads := make([]*Thread, n)
	g, _ := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			th, err := o.build(ctx, threadName(i))
			if err != nil {
				return err
			}
			// ctx, not gctx: errgroup cancels gctx when Wait returns,
			// which would stop every thread as soon as Start returns.
			if err := th.Start(ctx); err != nil {
				return err
			}
			threads[i] = th
			return nil
		})
	}

	err := g.Wait()
	if err != nil && !opts.Force {
		for _, th := range threads {
			if th != nil {
				th.Stop(true, err)
			}
		}
		return err
	}

	kept := threads[:0]
	for _, th := range threads {
		if th != nil {
			kept = append(kept, th)
		}
	}

	o.mu.Lock()
	o.threads = kept
	o.started = true
	o.mu.Unlock()
	return nil
}

// Reload builds a full replacement set of threads (parsing configuration
// and binding listeners in parallel, per thread) and, only if every
// replacement succeeds, atomically swaps them in; the old threads are
// stopped gracefully afterward. If any replacement fails, every
// replacement thread built so far is discarded and the running set is
// left untouched — the spec's "parse+bind in parallel, atomic swap"
// reload protocol.
func (o *Orchestrator) Reload(ctx context.Context) error {
	o.mu.Lock()
	if !o.started {
		o.mu.Unlock()
		return ErrNotStarted
	}
	old := o.threads
	n := len(old)
	o.mu.Unlock()

	next := make([]*Thread, n)
	g, _ := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			th, err := o.build(ctx, threadName(i))
			if err != nil {
				return err
			}
			if err := th.Start(ctx); err != nil {
				return err
			}
			next[i] = th
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, th := range next {
			if th != nil {
				th.Stop(true, err)
			}
		}
		return err
	}

	o.mu.Lock()
	o.threads = next
	o.mu.Unlock()

	for _, th := range old {
		th.Stop(false, nil)
	}
	return nil
}

// Shutdown stops every thread and waits for each reactor loop to exit.
// Both modes cancel every thread's context; graceful (force=false)
// shutdown relies on the caller having already stopped listeners and
// drained pipeline.Layout.Active() counts to zero.
func (o *Orchestrator) Shutdown(force bool) {
	o.mu.Lock()
	threads := o.threads
	o.mu.Unlock()

	for _, th := range threads {
		th.Stop(force, nil)
	}
	for _, th := range threads {
		th.Wait()
	}
}

// Threads returns a snapshot of the currently running threads.
func (o *Orchestrator) Threads() []*Thread {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*Thread(nil), o.threads...)
}

func threadName(i int) string {
	const letters = "0123456789abcdefghijklmnopqrstuvwxyz"
	if i < len(letters) {
		return "worker-" + string(letters[i])
	}
	return "worker-N"
}
