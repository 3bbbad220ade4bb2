package filters

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipyfix/pipy/event"
	"github.com/pipyfix/pipy/mux"
	"github.com/pipyfix/pipy/pipeline"
	"github.com/pipyfix/pipy/plumbing"
)

type collector struct{ events []event.Event }

func (c *collector) Input(ev event.Event) { c.events = append(c.events, ev) }

func TestDummyPassesThrough(t *testing.T) {
	r := require.New(t)

	out := &collector{}
	var f pipeline.Filter = Dummy{}
	f.Process(nil, event.MessageStart{}, out)
	r.Len(out.events, 1)
}

func TestCounterTalliesByKind(t *testing.T) {
	r := require.New(t)

	c := NewCounter()
	out := &collector{}
	c.Process(nil, event.MessageStart{}, out)
	c.Process(nil, event.NewData([]byte("x"), "t"), out)
	c.Process(nil, event.NewData([]byte("y"), "t"), out)
	c.Process(nil, event.MessageEnd{}, out)
	c.Process(nil, event.StreamEnd{Kind: event.NoError}, out)

	r.EqualValues(1, c.MessageStart.Load())
	r.EqualValues(2, c.Data.Load())
	r.EqualValues(1, c.MessageEnd.Load())
	r.EqualValues(1, c.StreamEnd.Load())
	r.Len(out.events, 5)
}

func TestForkFansOutAndContinuesDownstream(t *testing.T) {
	r := require.New(t)

	mod := pipeline.NewModule("m")
	sub, err := pipeline.NewLayout("sub", pipeline.Named, NewCounter())
	r.NoError(err)
	mod.Register("sub", sub)

	top, err := pipeline.NewLayout("top", pipeline.Named, NewFork("sub"))
	r.NoError(err)
	mod.Register("top", top)

	out := &collector{}
	inst := top.Alloc()
	inst.Chain(out)
	inst.Input(event.MessageStart{})

	r.Len(out.events, 1, "fork must still forward the original event downstream")
}

func TestLinkSplicesSubPipelineOutputInline(t *testing.T) {
	r := require.New(t)

	mod := pipeline.NewModule("m")
	sub, err := pipeline.NewLayout("sub", pipeline.Named, NewCounter())
	r.NoError(err)
	mod.Register("sub", sub)

	top, err := pipeline.NewLayout("top", pipeline.Named, NewLink("sub"))
	r.NoError(err)
	mod.Register("top", top)

	out := &collector{}
	inst := top.Alloc()
	inst.Chain(out)
	inst.Input(event.MessageStart{})

	r.Len(out.events, 1, "link must forward the sub-pipeline's output downstream")
}

func TestLinkUnknownSlotFailsBind(t *testing.T) {
	r := require.New(t)

	_, err := pipeline.NewLayout("top", pipeline.Named, NewLink("nowhere"))
	r.ErrorIs(err, pipeline.ErrUnknownSlot)
}

func TestRateLimitedForwardsToInner(t *testing.T) {
	r := require.New(t)

	rl := NewRateLimited(NewCounter(), 1000, 10)
	out := &collector{}
	rl.Process(nil, event.MessageStart{}, out)

	r.Len(out.events, 1)
}

func TestMuxThreadsConfiguredOptionsIntoPoolSelect(t *testing.T) {
	r := require.New(t)

	// upstream is the shared session layout; each new Session allocates
	// exactly one Instance from it, so Active() counts sessions created.
	upstream, err := pipeline.NewLayout("upstream", pipeline.Named, Dummy{})
	r.NoError(err)

	pool := mux.NewPool(nil)
	key := func(*pipeline.Context) (string, bool) { return "k", false }

	// maxQueue=1 caps a session's share_count at 1: a second stream for
	// the same key must start a second session rather than share the
	// first, which only happens if Options actually reached
	// Pool.Select instead of falling back to mux.DefaultOptions (100).
	f1 := NewMux(pool, upstream, key, mux.Options{MaxQueue: 1})
	f1.Process(nil, event.MessageStart{}, &collector{})
	r.EqualValues(1, upstream.Active())

	f2 := f1.Clone().(*Mux)
	f2.Process(nil, event.MessageStart{}, &collector{})
	r.EqualValues(2, upstream.Active(), "a second stream for the same key must start a new session under maxQueue=1")
}

var _ plumbing.Input = (*collector)(nil)
