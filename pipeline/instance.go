package pipeline

import (
	"sync/atomic"

	"github.com/pipyfix/pipy/event"
	"github.com/pipyfix/pipy/plumbing"
)

// Instance is a pooled clone of a Layout's filter chain, carrying the
// mutable per-stream state (Context, refcount) that a Layout itself must
// not own. Implements plumbing.Function so it can be chained like any
// other stage, letting fork/link/use splice Instances transparently.
type Instance struct {
	layout  *Layout
	filters []Filter
	stage   []plumbing.Input // stage[i] runs filters[i]; stage[i+1] is its "next"
	ctx     Context
	output  plumbing.Input
	refs    atomic.Int32
	linkHop int
}

const maxLinkDepth = 64

// stageInput adapts one position in the chain to plumbing.Input: feeding
// it an event runs the filter at that index with the following stage (or
// inst.output, past the last filter) as its next.
type stageInput struct {
	inst *Instance
	i    int
}

func (s stageInput) Input(ev event.Event) {
	inst := s.inst
	if s.i >= len(inst.filters) {
		inst.output.Input(ev)
		return
	}
	inst.filters[s.i].Process(&inst.ctx, ev, inst.stage[s.i+1])
}

// Input feeds ev to filter 0, matching plumbing.Function.
func (inst *Instance) Input(ev event.Event) {
	if len(inst.filters) == 0 {
		inst.output.Input(ev)
		return
	}
	inst.filters[0].Process(&inst.ctx, ev, inst.stage[1])
}

// Chain installs out as the outlet the last filter's output is forwarded
// to. A nil out installs plumbing.Dummy.
func (inst *Instance) Chain(out plumbing.Input) {
	if out == nil {
		out = plumbing.Dummy
	}
	inst.output = out
}

// buildStages wires stage[i] for every index in [0, len(filters)], where
// stage[len(filters)] is the sentinel that forwards straight to
// inst.output. Called once per Instance at construction time; the
// closures read inst.output dynamically so Chain can be called any
// number of times afterward.
func (inst *Instance) buildStages() {
	inst.stage = make([]plumbing.Input, len(inst.filters)+1)
	for i := range inst.stage {
		inst.stage[i] = stageInput{inst: inst, i: i}
	}
}

// Retain bumps the refcount — called by anything that queues this
// Instance for deferred delivery (xthread.AsyncWrapper, mux.Session).
func (inst *Instance) Retain() { inst.refs.Add(1) }

// Release drops the refcount and returns the new count. It does not
// return the Instance to its Layout's pool itself: only the release
// registered by MarkAutoRelease does, if the count is zero when its Tick
// exits.
func (inst *Instance) Release() int32 { return inst.refs.Add(-1) }

// MarkAutoRelease registers this Instance's pool-return with tick, to run
// once the current batch of processing settles, matching the spec's
// "auto-release on next InputContext boundary" rule. Safe to call
// multiple times per tick: only one of the registrations frees the
// Instance. Callers must not also call Layout.Free on it directly.
func (inst *Instance) MarkAutoRelease(tick *plumbing.Tick) {
	tick.Defer(func() {
		// CompareAndSwap to -1 marks the Instance freed, so a second
		// registration in the same tick finds refs != 0 and does nothing.
		if inst.refs.CompareAndSwap(0, -1) {
			inst.layout.Free(inst)
		}
	})
}

// Context exposes the per-stream Context for filters that need direct
// access outside of Process (e.g. a joint filter inspecting variables
// before routing).
func (inst *Instance) Context() *Context { return &inst.ctx }

func (inst *Instance) reset() {
	for _, f := range inst.filters {
		f.Reset()
	}
	inst.ctx.reset()
	inst.output = plumbing.Dummy
	inst.refs.Store(0)
	inst.linkHop = 0
}

// EnterLink is called by filters.Link before splicing a sub-pipeline
// inline; it enforces maxLinkDepth since link targets may be chosen by
// runtime configuration and cannot be statically cycle-checked at Bind
// time. Pair with ExitLink once the splice returns.
func (inst *Instance) EnterLink() error {
	inst.linkHop++
	if inst.linkHop > maxLinkDepth {
		inst.linkHop--
		return ErrLinkDepth
	}
	return nil
}

func (inst *Instance) ExitLink() {
	inst.linkHop--
}
