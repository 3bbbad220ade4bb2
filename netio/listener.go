package netio

import (
	"context"
	"net"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pipyfix/pipy/pipeline"
)

// ListenOptions configures one Listener.
type ListenOptions struct {
	Proto          string // "tcp" or "udp"
	Address        string
	MaxConnections int64 // per-listener cap; 0 = unlimited
	BufferLimit    int
	Timeouts       Timeouts
	AcceptRate     rate.Limit // 0 = unlimited
}

// NewInstance builds a fresh pipeline.Instance for one accepted
// connection.
type NewInstance func() (*pipeline.Instance, error)

// Listener runs the accept loop for one bound address, applying both its
// own MaxConnections cap and the shared Port's cap. Accept keeps calling
// accept while either cap is reached: each connection that arrives then
// is accepted and closed at once, and Paused reports true until a
// connection is admitted or released again.
type Listener struct {
	Port   *Port
	Layout NewInstance
	Logger *zerolog.Logger

	bufferLimit int
	timeouts    Timeouts

	maxConnections atomic.Int64
	numConnections atomic.Int64
	paused         atomic.Bool

	limiter *rate.Limiter

	ln  net.Listener
	pc  net.PacketConn
}

// Listen binds opts.Address over opts.Proto and registers the listener
// with port's shared counters.
func Listen(port *Port, opts ListenOptions, build NewInstance, logger *zerolog.Logger) (*Listener, error) {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	l := &Listener{Port: port, Layout: build, Logger: logger, bufferLimit: opts.BufferLimit, timeouts: opts.Timeouts}
	l.maxConnections.Store(opts.MaxConnections)
	if opts.AcceptRate > 0 {
		l.limiter = rate.NewLimiter(opts.AcceptRate, 1)
	}

	switch opts.Proto {
	case "udp":
		pc, err := net.ListenPacket("udp", opts.Address)
		if err != nil {
			return nil, err
		}
		l.pc = pc
	default:
		ln, err := net.Listen("tcp", opts.Address)
		if err != nil {
			return nil, err
		}
		l.ln = ln
	}

	port.addListener(l)
	return l, nil
}

// Accept runs the TCP accept loop until ctx is canceled or the listener
// is closed. Each accepted connection gets one goroutine running
// Inbound.Start (the read loop); replies are written to the connection
// synchronously from whichever goroutine delivers them.
func (l *Listener) Accept(ctx context.Context) error {
	if l.ln == nil {
		return nil // UDP has no accept loop; see ReadPacketLoop
	}
	go func() {
		<-ctx.Done()
		l.ln.Close()
	}()
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if l.limiter != nil {
			l.limiter.Wait(ctx)
		}
		if !l.admit() {
			l.Logger.Warn().Str("addr", conn.RemoteAddr().String()).Msg("netio: connection rejected, at capacity")
			conn.Close()
			continue
		}
		inst, err := l.Layout()
		if err != nil {
			l.Logger.Error().Err(err).Msg("netio: instance build failed")
			l.release()
			conn.Close()
			continue
		}
		ib := NewInbound(conn, inst, l.bufferLimit, l.timeouts)
		go func() {
			ib.Start()
			l.release()
		}()
	}
}

// admit enforces both the listener's own cap and the shared port's cap,
// setting the paused flag (logged once) when either is hit.
func (l *Listener) admit() bool {
	max := l.maxConnections.Load()
	if max > 0 {
		for {
			cur := l.numConnections.Load()
			if cur >= max {
				l.pause()
				return false
			}
			if l.numConnections.CompareAndSwap(cur, cur+1) {
				break
			}
		}
	} else {
		l.numConnections.Add(1)
	}
	if !l.Port.TryAdmit() {
		l.numConnections.Add(-1)
		l.pause()
		return false
	}
	l.resume()
	return true
}

func (l *Listener) release() {
	l.numConnections.Add(-1)
	l.Port.Release()
	l.resume()
}

func (l *Listener) pause() {
	if l.paused.CompareAndSwap(false, true) {
		l.Logger.Debug().Msg("netio: listener paused, at capacity")
	}
}

func (l *Listener) resume() {
	l.paused.CompareAndSwap(true, false)
}

// Paused reports whether this listener is currently refusing new
// connections due to a cap.
func (l *Listener) Paused() bool { return l.paused.Load() }

// Close stops accepting and unregisters from the Port.
func (l *Listener) Close() error {
	l.Port.removeListener(l)
	if l.ln != nil {
		return l.ln.Close()
	}
	if l.pc != nil {
		return l.pc.Close()
	}
	return nil
}
