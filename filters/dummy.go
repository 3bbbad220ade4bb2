// Package filters provides the illustrative filter implementations named
// by the spec: a linear passthrough, fork, link, a session-multiplexing
// joint filter, a per-event rate limiter, and a counter used by tests.
// None of these are protocol filters — they are the composition
// primitives a real protocol module would be built from, matching the
// spec's Non-goal of shipping concrete protocol filters.
package filters

import (
	"github.com/pipyfix/pipy/event"
	"github.com/pipyfix/pipy/pipeline"
	"github.com/pipyfix/pipy/plumbing"
)

// Dummy forwards every event unchanged — the identity filter, used to
// anchor the simplest possible pipeline (spec's Echo scenario).
type Dummy struct{}

func (Dummy) Bind(*pipeline.Layout) error { return nil }
func (Dummy) Clone() pipeline.Filter      { return Dummy{} }
func (Dummy) Reset()                      {}
func (Dummy) Name() string                { return "dummy" }

func (Dummy) Process(ctx *pipeline.Context, ev event.Event, next plumbing.Input) {
	next.Input(ev)
}

func (Dummy) Dump(d *pipeline.Dump) {
	d.Field("type", "dummy")
}
