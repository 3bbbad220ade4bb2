package filters

import (
	"github.com/pipyfix/pipy/event"
	"github.com/pipyfix/pipy/pipeline"
	"github.com/pipyfix/pipy/plumbing"
)

// Link splices a named sub-pipeline inline: the sub-pipeline's output
// becomes this filter's output, so from downstream's point of view the
// link is transparent. Because the target may be chosen by
// runtime-evaluated configuration, cycles cannot be ruled out at Bind
// time — EnterLink/ExitLink enforce a per-stream depth budget instead.
type Link struct {
	Target string

	layout *pipeline.Layout
	inst   *pipeline.Instance
}

func NewLink(target string) *Link {
	return &Link{Target: target}
}

func (l *Link) Bind(layout *pipeline.Layout) error {
	sub, ok := layout.Slot(l.Target)
	if !ok {
		return pipeline.ErrUnknownSlot
	}
	l.layout = sub
	return nil
}

func (l *Link) Clone() pipeline.Filter {
	return &Link{Target: l.Target, layout: l.layout}
}

func (l *Link) Reset() {
	if l.inst != nil {
		l.layout.Free(l.inst)
		l.inst = nil
	}
}

func (l *Link) Process(ctx *pipeline.Context, ev event.Event, next plumbing.Input) {
	owner := ctx.Instance()
	if err := owner.EnterLink(); err != nil {
		next.Input(event.StreamEnd{Kind: event.ProtocolError, Err: err})
		return
	}
	defer owner.ExitLink()

	if l.inst == nil {
		l.inst = l.layout.Alloc()
		l.inst.Context().Parent = ctx
		l.inst.Chain(next)
	}
	l.inst.Input(ev)
}

func (l *Link) Dump(d *pipeline.Dump) {
	d.Field("type", "link")
	d.Field("target", l.Target)
}
