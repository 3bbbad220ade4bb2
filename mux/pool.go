// Package mux implements the session multiplexer: several logical
// Streams share a pooled pipeline.Instance ("Session") keyed by
// destination, within configured share-count/queue-depth/message caps,
// demultiplexing replies via a FIFO StreamQueue. Grounded on pipe.Pipe
// being "one wire, several message producers" (pipe/input.go's multiple
// Input feeding one Pipe) and on xsync.MapOf backing pipe.Pipe.KV,
// generalized from a single BGP session to many concurrently pooled
// sessions per worker thread.
package mux

import (
	"context"
	"sync"
	"time"

	"github.com/ezex-io/gopkg/scheduler"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"

	"github.com/pipyfix/pipy/pipeline"
)

// Pool owns every Cluster for one worker thread. A Pool must not be
// shared across threads — it has no internal locking beyond what
// xsync.MapOf and the weakMu mutex provide for the (rare) weak-key path.
type Pool struct {
	Logger *zerolog.Logger

	byKey  *xsync.MapOf[string, *Cluster]
	weakMu sync.Mutex
	byWeak map[*WeakKey]*Cluster
}

func NewPool(logger *zerolog.Logger) *Pool {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &Pool{
		Logger: logger,
		byKey:  xsync.NewMapOf[*Cluster](),
		byWeak: make(map[*WeakKey]*Cluster),
	}
}

// NewFactory builds a fresh pipeline.Instance for a new Session. The
// Session itself is passed in so the factory can wire the Instance's
// reply output to session.route before any event flows, without Select
// having to know anything about pipeline wiring itself. Errors abort the
// session (spec's failure mode for pending-session creation).
type NewFactory func(session *Session) (*pipeline.Instance, error)

// Select finds or creates a Session for key, creating a new Session
// (and, synchronously via newInstance, a new Instance) when every
// existing session in the cluster is at capacity. The returned bool
// reports whether the session is still pending construction.
func (p *Pool) Select(key string, weak *WeakKey, newInstance NewFactory, opts Options) (*Session, bool) {
	c := p.cluster(key, weak, opts)

	for _, s := range c.sessions {
		if c.fits(s) {
			return s, s.pending
		}
	}

	s := newPendingSession(c)
	c.add(s)
	p.Logger.Debug().Str("key", key).Int("sessions", len(c.sessions)).Msg("mux: new session")

	inst, err := newInstance(s)
	s.start(inst, err)
	c.resort()
	return s, false
}

func (p *Pool) cluster(key string, weak *WeakKey, opts Options) *Cluster {
	if weak != nil {
		p.weakMu.Lock()
		defer p.weakMu.Unlock()
		if c, ok := p.byWeak[weak]; ok {
			return c
		}
		c := newCluster(p, key, weak, opts)
		p.byWeak[weak] = c
		return c
	}
	c, _ := p.byKey.LoadOrCompute(key, func() *Cluster {
		return newCluster(p, key, nil, opts)
	})
	return c
}

func (p *Pool) removeCluster(c *Cluster) {
	if c.weakKey != nil {
		p.weakMu.Lock()
		delete(p.byWeak, c.weakKey)
		p.weakMu.Unlock()
		return
	}
	p.byKey.Delete(c.key)
}

// StartRecycler runs a once-per-second idle sweep until ctx is canceled,
// using the same Every(ctx, d).Do(fn) ticker builder the rest of the
// ecosystem uses for periodic cleanup (see the cache package's
// cleanup-interval sweep for the pattern this is lifted from).
func (p *Pool) StartRecycler(ctx context.Context) {
	scheduler.Every(ctx, time.Second).Do(p.sweep)
}

// sweep evicts sessions with ShareCount 0 that are closed, have reached
// the cluster's MaxMessages, or whose freeTime has exceeded its MaxIdle:
// each is marked closed and dropped. Pending or dedicated sessions are
// never evicted, and only string-keyed clusters are swept (weak-key
// clusters are not visited).
func (p *Pool) sweep() {
	now := time.Now()
	p.byKey.Range(func(key string, c *Cluster) bool {
		for _, s := range append([]*Session(nil), c.sessions...) {
			if s.pending || s.shareCount > 0 || s.dedicated != nil {
				continue
			}
			spent := c.opts.MaxMessages > 0 && s.messageCount >= c.opts.MaxMessages
			idle := c.opts.MaxIdle > 0 && now.Sub(s.freeTime) >= c.opts.MaxIdle
			if s.closed || spent || idle {
				s.closed = true
				c.drop(s)
				p.Logger.Debug().Str("key", key).Msg("mux: evicted idle session")
			}
		}
		return true
	})
}
