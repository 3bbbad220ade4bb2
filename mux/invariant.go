//go:build muxdebug

package mux

// AssertInvariant checks that, across every session in the pool, total
// queued stream messages equals total sent messages minus total
// completed ones. Gated behind the muxdebug build tag so the hot path
// pays nothing for it in production builds.
func (p *Pool) AssertInvariant() bool {
	ok := true
	p.byKey.Range(func(_ string, c *Cluster) bool {
		for _, s := range c.sessions {
			queued := 0
			for _, st := range s.queue.items {
				queued += st.queuedCount
			}
			if queued != s.messageCount-s.completed {
				ok = false
			}
		}
		return true
	})
	return ok
}
