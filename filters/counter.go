package filters

import (
	"sync/atomic"

	"github.com/pipyfix/pipy/event"
	"github.com/pipyfix/pipy/pipeline"
	"github.com/pipyfix/pipy/plumbing"
)

// Counter tallies events by kind as they pass through, forwarding every
// event unchanged. Used by this package's tests to observe pipeline
// traffic without a full protocol filter.
type Counter struct {
	Data         atomic.Int64
	MessageStart atomic.Int64
	MessageEnd   atomic.Int64
	StreamEnd    atomic.Int64
}

func NewCounter() *Counter { return &Counter{} }

func (c *Counter) Bind(*pipeline.Layout) error { return nil }
func (c *Counter) Clone() pipeline.Filter      { return &Counter{} }
func (c *Counter) Reset()                      {}

func (c *Counter) Process(ctx *pipeline.Context, ev event.Event, next plumbing.Input) {
	switch ev.Kind() {
	case event.KindData:
		c.Data.Add(1)
	case event.KindMessageStart:
		c.MessageStart.Add(1)
	case event.KindMessageEnd:
		c.MessageEnd.Add(1)
	case event.KindStreamEnd:
		c.StreamEnd.Add(1)
	}
	next.Input(ev)
}

func (c *Counter) Dump(d *pipeline.Dump) {
	d.Field("type", "counter")
}
