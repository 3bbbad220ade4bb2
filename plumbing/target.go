// Package plumbing provides the composition primitives every pipeline
// stage is built from: one-way sinks, one-in-one-out functions, and
// two-way proxies, plus the InputContext auto-release mechanism. Grounded
// on the teacher's pipe.Direction (an In/Out channel pair glued together
// by a Handler) and pipe.Output.WriteMsg's outlet-chaining idiom,
// generalized from BGP messages to any event.Event.
package plumbing

import "github.com/pipyfix/pipy/event"

// Input is anything that can receive an event — the spec's EventTarget.
type Input interface {
	Input(ev event.Event)
}

// FuncInput adapts a plain function to Input, mirroring the teacher's use
// of closures wherever a Handler/CallbackFunc is expected.
type FuncInput func(ev event.Event)

func (f FuncInput) Input(ev event.Event) { f(ev) }

// Dummy discards every event it receives. It is the default outlet
// installed by Function.Chain(nil), so hot-path code never needs to
// nil-check its downstream — matching the teacher's habit of always
// having a live d.Out channel.
var Dummy Input = FuncInput(func(event.Event) {})
