package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipyfix/pipy/event"
	"github.com/pipyfix/pipy/plumbing"
)

// tagFilter appends its Name to a Context tag list, so chain order can be
// asserted from the tags a downstream collector sees.
type tagFilter struct{ name string }

func (tagFilter) Bind(*Layout) error { return nil }
func (f tagFilter) Clone() Filter    { return f }
func (tagFilter) Reset()             {}
func (tagFilter) Dump(*Dump)         {}
func (f tagFilter) Process(ctx *Context, ev event.Event, next plumbing.Input) {
	seen, _ := ctx.GetTag("order")
	var order []string
	if seen != nil {
		order = seen.([]string)
	}
	ctx.Tag("order", append(order, f.name))
	next.Input(ev)
}

// swallowFilter drops every event it sees.
type swallowFilter struct{}

func (swallowFilter) Bind(*Layout) error                                    { return nil }
func (swallowFilter) Clone() Filter                                         { return swallowFilter{} }
func (swallowFilter) Reset()                                                {}
func (swallowFilter) Dump(*Dump)                                            {}
func (swallowFilter) Process(*Context, event.Event, plumbing.Input) {}

// fanFilter emits two events for every one it receives.
type fanFilter struct{}

func (fanFilter) Bind(*Layout) error { return nil }
func (fanFilter) Clone() Filter      { return fanFilter{} }
func (fanFilter) Reset()             {}
func (fanFilter) Dump(*Dump)         {}
func (fanFilter) Process(ctx *Context, ev event.Event, next plumbing.Input) {
	next.Input(ev)
	next.Input(ev)
}

type collector struct{ events []event.Event }

func (c *collector) Input(ev event.Event) { c.events = append(c.events, ev) }

func TestInstanceChainsFiltersInOrder(t *testing.T) {
	r := require.New(t)

	layout, err := NewLayout("chain", Named, tagFilter{"a"}, tagFilter{"b"})
	r.NoError(err)

	out := &collector{}
	inst := layout.Alloc()
	inst.Chain(out)

	inst.Input(event.MessageStart{})

	order, ok := inst.Context().GetTag("order")
	r.True(ok)
	r.Equal([]string{"a", "b"}, order)
	r.Len(out.events, 1)
}

func TestInstanceSwallowStopsChain(t *testing.T) {
	r := require.New(t)

	layout, err := NewLayout("swallow", Named, swallowFilter{}, tagFilter{"never"})
	r.NoError(err)

	out := &collector{}
	inst := layout.Alloc()
	inst.Chain(out)
	inst.Input(event.MessageStart{})

	r.Empty(out.events)
	_, ok := inst.Context().GetTag("order")
	r.False(ok)
}

func TestInstanceFanOutEmitsMultiple(t *testing.T) {
	r := require.New(t)

	layout, err := NewLayout("fan", Named, fanFilter{})
	r.NoError(err)

	out := &collector{}
	inst := layout.Alloc()
	inst.Chain(out)
	inst.Input(event.MessageStart{})

	r.Len(out.events, 2)
}

func TestLayoutAllocFreePoolsAndResetsState(t *testing.T) {
	r := require.New(t)

	layout, err := NewLayout("pooled", Named, tagFilter{"x"})
	r.NoError(err)

	inst1 := layout.Alloc()
	r.EqualValues(1, layout.Active())
	inst1.Chain(&collector{})
	inst1.Input(event.MessageStart{})
	_, ok := inst1.Context().GetTag("order")
	r.True(ok)

	layout.Free(inst1)
	r.EqualValues(0, layout.Active())

	inst2 := layout.Alloc()
	_, ok = inst2.Context().GetTag("order")
	r.False(ok, "pooled instance must reset per-stream context state")
}

func TestModuleSlotResolution(t *testing.T) {
	r := require.New(t)

	mod := NewModule("m")
	sub, err := NewLayout("sub", Named, tagFilter{"sub"})
	r.NoError(err)
	mod.Register("sub", sub)

	top, err := NewLayout("top", Named, tagFilter{"top"})
	r.NoError(err)
	mod.Register("top", top)

	got, ok := top.Slot("sub")
	r.True(ok)
	r.Same(sub, got)

	_, ok = top.Slot("missing")
	r.False(ok)
}

func TestInstanceLinkDepthGuard(t *testing.T) {
	r := require.New(t)

	layout, err := NewLayout("depth", Named)
	r.NoError(err)
	inst := layout.Alloc()

	for i := 0; i < maxLinkDepth; i++ {
		r.NoError(inst.EnterLink())
	}
	r.ErrorIs(inst.EnterLink(), ErrLinkDepth)

	for i := 0; i < maxLinkDepth; i++ {
		inst.ExitLink()
	}
}

func TestDumpFieldsEscapeQuotes(t *testing.T) {
	r := require.New(t)

	d := NewDump()
	d.Field("name", `say "hi"`)
	r.Equal(`{"name":"say \"hi\""}`, string(d.Close()))
}
