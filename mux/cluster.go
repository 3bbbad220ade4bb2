package mux

import "slices"

// WeakKey identifies a cluster by pointer identity in the Pool's weak-key
// map instead of by string Key. Clusters of both kinds are removed from
// the Pool as soon as their last session is dropped; nothing here tracks
// whether the key object is still referenced elsewhere.
type WeakKey struct {
	value string
}

func NewWeakKey(v string) *WeakKey { return &WeakKey{value: v} }

// Cluster groups every Session sharing one routing key. Sessions is kept
// sorted by ShareCount ascending so Pool.Select can scan from the front
// and stop at the first session with spare capacity — grounded on the
// teacher's slices.SortStableFunc(cbs, ...) ordering idiom in
// pipe/output.go, applied here to sessions instead of callbacks.
type Cluster struct {
	key      string
	weakKey  *WeakKey
	sessions []*Session
	opts     Options
	pool     *Pool
}

func newCluster(pool *Pool, key string, weak *WeakKey, opts Options) *Cluster {
	return &Cluster{key: key, weakKey: weak, opts: opts, pool: pool}
}

func (c *Cluster) resort() {
	slices.SortStableFunc(c.sessions, func(a, b *Session) int {
		return a.shareCount - b.shareCount
	})
	if len(c.sessions) == 0 {
		c.pool.removeCluster(c)
	}
}

func (c *Cluster) drop(s *Session) {
	for i, sess := range c.sessions {
		if sess == s {
			c.sessions = append(c.sessions[:i], c.sessions[i+1:]...)
			break
		}
	}
	if len(c.sessions) == 0 {
		c.pool.removeCluster(c)
	}
}

func (c *Cluster) add(s *Session) {
	c.sessions = append(c.sessions, s)
}

// fits reports whether a session has spare capacity under this cluster's
// caps — a session at its share_count/message_count limit is skipped in
// favor of starting a new one, per the spec's
// "(max_queue<=0 ∨ share_count<max_queue) ∧ (max_messages<=0 ∨
// message_count<max_messages)" selection rule. max_queue bounds
// share_count directly, not the StreamQueue's FIFO depth (a session's
// queue only ever holds at most share_count pending replies anyway).
func (c *Cluster) fits(s *Session) bool {
	if s.closed || s.dedicated != nil {
		return false
	}
	if c.opts.MaxQueue > 0 && s.shareCount >= c.opts.MaxQueue {
		return false
	}
	if c.opts.MaxMessages > 0 && s.messageCount >= c.opts.MaxMessages {
		return false
	}
	return true
}
