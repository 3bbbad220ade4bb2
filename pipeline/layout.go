package pipeline

import (
	"sync"
	"sync/atomic"
)

// LayoutType distinguishes how a Layout is instantiated (spec §4.2).
type LayoutType byte

const (
	Named LayoutType = iota
	Listen
	Task
	Exit
	Admin
	Watch
)

// Layout is an immutable pipeline template: an ordered list of bound
// Filters, plus a free list of Instances for reuse. One Layout exists per
// configured pipeline shape, shared by every connection/session that uses
// it — grounded on pipe.Pipe being "one shape, many messages", turned
// inside out into "one shape, many instances".
type Layout struct {
	Name    string
	Type    LayoutType
	Module  *Module
	Filters []Filter

	pool   sync.Pool
	active atomic.Int64
}

// NewLayout builds a Layout from already-constructed, unbound filters and
// binds each of them. A bind error aborts construction — this is a
// configuration-time error, never surfaced as a runtime event.
func NewLayout(name string, typ LayoutType, filters ...Filter) (*Layout, error) {
	l := &Layout{Name: name, Type: typ, Filters: filters}
	for _, f := range filters {
		if err := f.Bind(l); err != nil {
			return nil, err
		}
	}
	l.pool.New = func() any { return l.newInstance() }
	return l, nil
}

// Alloc returns a pooled Instance with freshly cloned+reset filter state,
// ready to process a new stream.
func (l *Layout) Alloc() *Instance {
	inst := l.pool.Get().(*Instance)
	inst.reset()
	l.active.Add(1)
	return inst
}

// Free returns inst to the pool. Callers must not use inst afterward.
// Normally invoked indirectly via Instance.MarkAutoRelease registering
// with the current plumbing.Tick.
func (l *Layout) Free(inst *Instance) {
	l.active.Add(-1)
	l.pool.Put(inst)
}

// Active returns the number of Instances currently allocated from this
// Layout, e.g. for a caller of worker.Orchestrator.Shutdown to check that
// pipelines have drained before a graceful shutdown.
func (l *Layout) Active() int64 { return l.active.Load() }

func (l *Layout) newInstance() *Instance {
	filters := make([]Filter, len(l.Filters))
	for i, f := range l.Filters {
		filters[i] = f.Clone()
	}
	inst := &Instance{layout: l, filters: filters}
	inst.ctx.owner = inst
	if l.Module != nil {
		inst.ctx.Slots = make([]any, l.Module.NumVariables())
	}
	inst.buildStages()
	return inst
}
