package pipeline

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// Context carries per-stream scratch state through a pipeline: a typed
// slot vector sized to the owning Module's declared variables (spec's
// "pipeline context" define_variable mechanism), a generic tag map for ad
// hoc key/value data filters want to stash without a module declaration,
// and a link to a Parent context when a sub-pipeline (fork/link/use) is
// entered — so a nested filter can still read its ancestor's variables.
// Grounded 1:1 on pipe.Context's tag map, generalized from
// map[string]string to a typed slot vector plus an xsync-backed fallback
// map (reusing the teacher's Pipe.KV concurrent-map pattern, since a
// joint/mux filter's Context may be touched from more than one goroutine
// across a reply boundary).
type Context struct {
	Slots  []any
	Parent *Context

	tags *xsync.MapOf[string, any]

	owner *Instance
}

// Instance returns the Instance this Context belongs to, letting a
// filter reach instance-level operations (e.g. the link-depth guard)
// without Filter.Process needing an *Instance parameter of its own.
func (c *Context) Instance() *Instance { return c.owner }

// Get returns a module-declared variable slot by index.
func (c *Context) Get(slot int) any {
	if slot < 0 || slot >= len(c.Slots) {
		if c.Parent != nil {
			return c.Parent.Get(slot)
		}
		return nil
	}
	return c.Slots[slot]
}

// Set assigns a module-declared variable slot by index.
func (c *Context) Set(slot int, value any) {
	if slot < 0 || slot >= len(c.Slots) {
		return
	}
	c.Slots[slot] = value
}

// Tag stores an ad hoc key/value pair not backed by a declared variable.
func (c *Context) Tag(key string, value any) {
	if c.tags == nil {
		c.tags = xsync.NewMapOf[any]()
	}
	c.tags.Store(key, value)
}

// GetTag reads back a value stored with Tag.
func (c *Context) GetTag(key string) (any, bool) {
	if c.tags == nil {
		return nil, false
	}
	return c.tags.Load(key)
}

// reset clears per-stream state for pool reuse without discarding the
// slot vector's capacity.
func (c *Context) reset() {
	for i := range c.Slots {
		c.Slots[i] = nil
	}
	c.Parent = nil
	c.tags = nil
}
