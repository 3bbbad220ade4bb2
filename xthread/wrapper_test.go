package xthread

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pipyfix/pipy/event"
	"github.com/pipyfix/pipy/pipeline"
	"github.com/pipyfix/pipy/plumbing"
)

type echoFilter struct{}

func (echoFilter) Bind(*pipeline.Layout) error { return nil }
func (f echoFilter) Clone() pipeline.Filter    { return f }
func (echoFilter) Reset()                      {}
func (echoFilter) Dump(*pipeline.Dump)         {}
func (echoFilter) Process(ctx *pipeline.Context, ev event.Event, next plumbing.Input) {
	next.Input(ev)
}

func TestAsyncWrapperRoundTrip(t *testing.T) {
	r := require.New(t)

	layout, err := pipeline.NewLayout("echo", pipeline.Named, echoFilter{})
	r.NoError(err)
	inst := layout.Alloc()

	var woke atomic.Int32
	w := NewAsyncWrapper(4, func() { woke.Add(1) }, nil)
	w.Targets = []*pipeline.Instance{inst}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Pump(ctx)

	r.True(w.Send(event.NewData([]byte("hi"), "t")))

	ev, ok := w.Out.Dequeue(context.Background())
	r.True(ok)
	d, ok := ev.(*event.Data)
	r.True(ok)
	r.Equal("hi", string(d.Bytes()))
	r.Eventually(func() bool { return woke.Load() >= 1 }, time.Second, time.Millisecond,
		"srcPost must be called once the reply is enqueued")
}

func TestEventQueueNonBlockingEnqueue(t *testing.T) {
	r := require.New(t)

	q := NewEventQueue(1)
	r.True(q.Enqueue(event.StreamEnd{}))
	r.False(q.Enqueue(event.StreamEnd{}))

	_, ok := q.Dequeue(context.Background())
	r.True(ok)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, ok = q.Dequeue(ctx)
	r.False(ok, "Dequeue must block until an event is enqueued or the context ends")
}
