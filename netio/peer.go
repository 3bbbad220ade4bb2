package netio

import (
	"net"
	"sync"
	"time"

	"github.com/pipyfix/pipy/event"
	"github.com/pipyfix/pipy/pipeline"
)

// Peer is one UDP correspondent, keyed by its source address, carrying
// its own pipeline.Instance exactly like a TCP Inbound does — UDP has no
// accept() but the spec still models each remote address as its own
// session, torn down after the idle duration given to ReadPacketLoop.
type Peer struct {
	addr     net.Addr
	instance *pipeline.Instance
	pc       net.PacketConn
	lastSeen atomic64
}

type atomic64 struct {
	mu sync.Mutex
	t  time.Time
}

func (a *atomic64) touch() {
	a.mu.Lock()
	a.t = time.Now()
	a.mu.Unlock()
}

func (a *atomic64) since() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return time.Since(a.t)
}

// Input implements plumbing.Input: the instance's reply sink for a UDP
// peer writes straight back to the source address on the shared
// PacketConn.
func (p *Peer) Input(ev event.Event) {
	if d, ok := ev.(*event.Data); ok {
		p.pc.WriteTo(d.Bytes(), p.addr)
	}
}

// ReadPacketLoop runs the UDP receive loop until the PacketConn is
// closed, demultiplexing datagrams to a Peer per source address and
// evicting peers idle past idle. One goroutine per Listener,
// matching the TCP accept loop's single-goroutine-per-listener shape.
func (l *Listener) ReadPacketLoop(idle time.Duration) error {
	if l.pc == nil {
		return nil
	}
	peers := make(map[string]*Peer)
	var mu sync.Mutex

	go func() {
		if idle <= 0 {
			return
		}
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			for key, p := range peers {
				if p.lastSeen.since() >= idle {
					p.instance.Input(event.StreamEnd{Kind: event.IdleTimeout})
					delete(peers, key)
				}
			}
			mu.Unlock()
		}
	}()

	buf := make([]byte, event.DefaultChunkSize)
	for {
		n, addr, err := l.pc.ReadFrom(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		key := addr.String()
		mu.Lock()
		p, ok := peers[key]
		if !ok {
			inst, err := l.Layout()
			if err != nil {
				mu.Unlock()
				l.Logger.Error().Err(err).Msg("netio: udp instance build failed")
				continue
			}
			p = &Peer{addr: addr, instance: inst, pc: l.pc}
			inst.Chain(p)
			peers[key] = p
		}
		p.lastSeen.touch()
		mu.Unlock()

		chunk := append([]byte(nil), buf[:n]...)
		p.instance.Input(event.NewData(chunk, "netio.Peer"))
	}
}
