package netio

import (
	"errors"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/pipyfix/pipy/event"
	"github.com/pipyfix/pipy/pipeline"
)

// Timeouts bounds how long an Inbound tolerates silence. Zero disables
// the corresponding timer, matching net.Conn's own SetDeadline(zero)
// convention.
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
	Idle  time.Duration
}

// Inbound wraps one accepted net.Conn and bridges it to a
// pipeline.Instance: bytes read from conn become event.Data fed into the
// instance; the instance's reply events are written back to conn.
// Grounded directly on util.CopyThrough, generalized from a fixed
// Pipe.L/Pipe.R pair to one Instance with a single logical input/output,
// and extended with a configurable buffer_limit and per-kind timeouts
// that CopyThrough did not need (a BGP session has no such cap).
type Inbound struct {
	conn     net.Conn
	instance *pipeline.Instance

	bufferLimit int
	buffered    atomic.Int64
	timeouts    Timeouts

	tap *Tap

	closed atomic.Bool
}

// NewInbound wires conn to instance and installs the reply sink before
// any bytes are read, so nothing written by the instance during Start is
// lost.
func NewInbound(conn net.Conn, instance *pipeline.Instance, bufferLimit int, timeouts Timeouts) *Inbound {
	ib := &Inbound{conn: conn, instance: instance, bufferLimit: bufferLimit, timeouts: timeouts}
	instance.Chain(ib)
	return ib
}

// SetTap enables length-prefixed capture of every chunk this Inbound
// reads and writes, for offline replay/debugging. Call before Start.
func (ib *Inbound) SetTap(t *Tap) { ib.tap = t }

// Input implements plumbing.Input: it is the instance's reply sink,
// writing event.Data payloads back to the socket. A StreamEnd with
// NoError half-closes the write side when the connection supports
// CloseWrite; any other StreamEnd closes the connection.
func (ib *Inbound) Input(ev event.Event) {
	switch e := ev.(type) {
	case *event.Data:
		ib.writeTimeout()
		ib.tap.Write(tapDirWrite, e.Bytes())
		if _, err := e.WriteTo(ib.conn); err != nil {
			ib.Close()
		}
	case event.StreamEnd:
		if cw, ok := ib.conn.(interface{ CloseWrite() error }); ok && e.Kind == event.NoError {
			cw.CloseWrite()
			return
		}
		ib.Close()
	}
}

// Start runs the blocking read loop on the calling goroutine, feeding
// event.Data into the instance until the connection closes or the
// buffer_limit is exceeded. Mirrors the teacher's single read-loop
// goroutine per direction (example.go's io.Copy(p.R, conn)).
func (ib *Inbound) Start() {
	buf := make([]byte, event.DefaultChunkSize)
	ib.instance.Input(event.MessageStart{})
	for {
		ib.readTimeout()
		n, err := ib.conn.Read(buf)
		if n > 0 {
			if ib.bufferLimit > 0 && ib.buffered.Add(int64(n)) > int64(ib.bufferLimit) {
				ib.instance.Input(event.StreamEnd{Kind: event.BufferOverflow})
				ib.Close()
				return
			}
			chunk := append([]byte(nil), buf[:n]...)
			ib.tap.Write(tapDirRead, chunk)
			ib.instance.Input(event.NewData(chunk, "netio.Inbound"))
		}
		if err != nil {
			kind := classifyReadError(err)
			if kind == event.NoError {
				err = nil
			}
			ib.instance.Input(event.StreamEnd{Kind: kind, Err: err})
			ib.Close()
			return
		}
	}
}

func (ib *Inbound) readTimeout() {
	if ib.timeouts.Read > 0 {
		ib.conn.SetReadDeadline(time.Now().Add(ib.timeouts.Read))
	} else if ib.timeouts.Idle > 0 {
		ib.conn.SetReadDeadline(time.Now().Add(ib.timeouts.Idle))
	}
}

func (ib *Inbound) writeTimeout() {
	if ib.timeouts.Write > 0 {
		ib.conn.SetWriteDeadline(time.Now().Add(ib.timeouts.Write))
	}
}

// Close closes the underlying connection exactly once.
func (ib *Inbound) Close() {
	if ib.closed.CompareAndSwap(false, true) {
		ib.conn.Close()
	}
}

func classifyReadError(err error) event.StreamEndKind {
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return event.ReadTimeout
	}
	if errors.Is(err, io.EOF) {
		return event.NoError
	}
	return event.ReadError
}
