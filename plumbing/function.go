package plumbing

import "github.com/pipyfix/pipy/event"

// Function is one-in-one-out: it receives events via Input and forwards
// (possibly transformed) events to whatever Chain last installed. This is
// the spec's EventFunction.
type Function interface {
	Input
	// Chain installs out as the downstream outlet. A nil out installs
	// Dummy, so Input() can always call its outlet unconditionally.
	Chain(out Input)
}

// Source is a one-out source of events with no event-shaped input of its
// own: Reply delivers events travelling back upstream. This is the spec's
// EventSource (e.g. a socket read loop feeding a pipeline, receiving
// replies to write back out).
type Source interface {
	Chain(out Input)
	Reply(ev event.Event)
}

// Proxy is both a Function and a Source: forward events flow in via
// Input and out via Chain's outlet; reply events flow in via Reply and
// out via whatever installed the proxy as its own downstream. No type in
// this module implements Proxy: netio.Inbound is a plain Input (the
// instance's reply sink) and filters.Mux is a pipeline.Filter.
type Proxy interface {
	Function
	Source
}
