package netio

import (
	"net"
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

func newEchoInstance(t *testing.T) *pipeline.Instance {
	layout, err := pipeline.NewLayout("echo", pipeline.Named, echoFilter{})
	require.NoError(t, err)
	return layout.Alloc()
}

func TestInboundEchoesData(t *testing.T) {
	r := require.New(t)

	client, server := net.Pipe()
	defer client.Close()

	inst := newEchoInstance(t)
	ib := NewInbound(server, inst, 0, Timeouts{})
	go ib.Start()

	_, err := client.Write([]byte("ping"))
	r.NoError(err)

	buf := make([]byte, 16)
	client.SetReadDeadline(time.Now().Add(time.Second))
	n, err := client.Read(buf)
	r.NoError(err)
	r.Equal("ping", string(buf[:n]))
}

func TestInboundBufferOverflowCloses(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	inst := newEchoInstance(t)
	ib := NewInbound(server, inst, 2, Timeouts{})
	done := make(chan struct{})
	go func() {
		ib.Start()
		close(done)
	}()

	client.Write([]byte("abcd"))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after buffer_limit exceeded")
	}
}

func TestPortAdmissionCap(t *testing.T) {
	r := require.New(t)

	p := newPort("tcp", "0.0.0.0", 8080)
	p.MaxConnections.Store(1)

	r.True(p.TryAdmit())
	r.False(p.TryAdmit())
	p.Release()
	r.True(p.TryAdmit())
}
