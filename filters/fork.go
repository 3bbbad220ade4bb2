package filters

import (
	"github.com/pipyfix/pipy/event"
	"github.com/pipyfix/pipy/pipeline"
	"github.com/pipyfix/pipy/plumbing"
)

// Fork clones every event it sees into a named sub-pipeline (its replies,
// if any, are discarded — fork is fire-and-forget, e.g. for logging or
// metrics taps) and always continues the original event downstream
// unmodified.
type Fork struct {
	Target string

	layout *pipeline.Layout
	inst   *pipeline.Instance
}

func NewFork(target string) *Fork {
	return &Fork{Target: target}
}

func (f *Fork) Bind(layout *pipeline.Layout) error {
	sub, ok := layout.Slot(f.Target)
	if !ok {
		return pipeline.ErrUnknownSlot
	}
	f.layout = sub
	return nil
}

func (f *Fork) Clone() pipeline.Filter {
	return &Fork{Target: f.Target, layout: f.layout}
}

func (f *Fork) Reset() {
	if f.inst != nil {
		f.layout.Free(f.inst)
		f.inst = nil
	}
}

func (f *Fork) Process(ctx *pipeline.Context, ev event.Event, next plumbing.Input) {
	if f.inst == nil {
		f.inst = f.layout.Alloc()
		f.inst.Context().Parent = ctx
		f.inst.Chain(plumbing.Dummy)
	}
	f.inst.Input(ev)
	next.Input(ev)
}

func (f *Fork) Dump(d *pipeline.Dump) {
	d.Field("type", "fork")
	d.Field("target", f.Target)
}
