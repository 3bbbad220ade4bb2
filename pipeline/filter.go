// Package pipeline implements the filter-chain composition layer: an
// immutable Layout (template) is cloned into pooled Instances that carry
// per-stream state. Grounded on pipe.Pipe (one shape, pooled messages) and
// pipe.Options' ordered callback registration, generalized from "BGP
// message callbacks" to "typed filter chain".
package pipeline

import (
	"github.com/pipyfix/pipy/event"
	pjson "github.com/pipyfix/pipy/json"
	"github.com/pipyfix/pipy/plumbing"
)

// Dump accumulates a filter's debug representation as JSON bytes, built
// with the hand-rolled json package rather than encoding/json so filters
// can append fields with zero reflection, matching pipe/context.go's
// ToJSON.
type Dump struct {
	buf []byte
}

func NewDump() *Dump { return &Dump{buf: append([]byte(nil), '{')} }

// Field appends a quoted string field. Call Close once all fields are
// appended.
func (d *Dump) Field(name string, value string) {
	if len(d.buf) > 1 {
		d.buf = append(d.buf, ',')
	}
	d.buf = pjson.Str(d.buf, name)
	d.buf = append(d.buf, ':')
	d.buf = pjson.Str(d.buf, value)
}

func (d *Dump) Close() []byte { return append(d.buf, '}') }

// Filter is one stage of a pipeline. Bind is called once per Layout at
// build time (bind-time errors are layout errors, never runtime events);
// Clone/Reset/Process happen per Instance. Dump produces a debug
// snapshot for tooling.
type Filter interface {
	// Bind wires the filter to its Layout, resolving any declared
	// SubSlot names against layout.Slot. Returning an error fails the
	// whole Layout construction.
	Bind(layout *Layout) error

	// Clone returns a fresh, independent copy of this filter for a new
	// Instance — the teacher's per-connection state duplication idiom,
	// generalized from "duplicate Options.Callbacks" to "duplicate
	// filter state".
	Clone() Filter

	// Reset returns a cloned filter to its zero per-stream state so the
	// Instance it belongs to can be pooled and reused.
	Reset()

	// Process handles one event for one stream. It may call next.Input
	// zero or more times — zero to swallow the event, once to pass it
	// through (possibly transformed), more than once to fan an event
	// out (e.g. a buffering filter flushing several chunks for one
	// input). next is stable for the lifetime of the Instance this
	// filter was cloned into.
	Process(ctx *Context, ev event.Event, next plumbing.Input)

	// Dump appends this filter's debug fields.
	Dump(d *Dump)
}

// Named is an optional interface filters may implement to appear by name
// in debug dumps and error messages.
type Named interface {
	Name() string
}
