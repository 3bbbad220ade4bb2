// Package netio implements the listener/admission path: a Port tracks
// connection counts shared by every Listener bound to the same
// proto/ip/port triple, a Listener runs the accept loop and applies
// back-pressure, and Inbound carries bytes between a net.Conn and a
// pipeline.Instance. Grounded on example.go's net.Dial + io.Copy bridging
// and util.CopyThrough's bidirectional-copy-with-waitgroup idiom.
package netio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// Port is the shared, cross-listener admission counter for one
// proto/ip/port triple — the one piece of deliberately global mutable
// state this package has, exactly as the spec calls out. Guarded by
// atomics for the hot counters and a mutex only around listener-set
// membership changes (rare: bind/unbind, not per-connection).
type Port struct {
	Proto string
	IP    string
	Number uint16

	NumConnections atomic.Int64
	MaxConnections atomic.Int64

	mu        sync.Mutex
	listeners map[*Listener]struct{}
}

func newPort(proto, ip string, number uint16) *Port {
	return &Port{Proto: proto, IP: ip, Number: number, listeners: make(map[*Listener]struct{})}
}

// TryAdmit atomically increments NumConnections if doing so would not
// exceed MaxConnections (0 = unlimited), returning whether admission
// succeeded.
func (p *Port) TryAdmit() bool {
	max := p.MaxConnections.Load()
	for {
		cur := p.NumConnections.Load()
		if max > 0 && cur >= max {
			return false
		}
		if p.NumConnections.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

func (p *Port) Release() {
	p.NumConnections.Add(-1)
}

func (p *Port) addListener(l *Listener) {
	p.mu.Lock()
	p.listeners[l] = struct{}{}
	p.mu.Unlock()
}

func (p *Port) removeListener(l *Listener) {
	p.mu.Lock()
	delete(p.listeners, l)
	p.mu.Unlock()
}

// Registry is the process-wide (per-worker-thread, in this design — see
// worker.Thread) map from proto/ip/port to Port, keyed by string so two
// Listeners for the same triple share one admission counter.
type Registry struct {
	ports *xsync.MapOf[string, *Port]
}

func NewRegistry() *Registry {
	return &Registry{ports: xsync.NewMapOf[*Port]()}
}

// Get returns the shared Port for proto/ip/number, creating it on first
// use.
func (r *Registry) Get(proto, ip string, number uint16) *Port {
	key := fmt.Sprintf("%s/%s/%d", proto, ip, number)
	port, _ := r.ports.LoadOrCompute(key, func() *Port {
		return newPort(proto, ip, number)
	})
	return port
}
