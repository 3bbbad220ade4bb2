package plumbing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipyfix/pipy/event"
)

func TestTickRunsDeferredInLIFOOrder(t *testing.T) {
	r := require.New(t)

	tick := Enter()
	var order []int
	tick.Defer(func() { order = append(order, 1) })
	tick.Defer(func() { order = append(order, 2) })
	tick.Defer(func() { order = append(order, 3) })
	tick.Exit()

	r.Equal([]int{3, 2, 1}, order)
}

func TestTickReusableAcrossExits(t *testing.T) {
	r := require.New(t)

	tick := Enter()
	ran := false
	tick.Defer(func() { ran = true })
	tick.Exit()
	r.True(ran)

	ran = false
	tick.Exit() // nothing deferred since last Exit
	r.False(ran)
}

func TestDummyDiscardsEvents(t *testing.T) {
	require.NotPanics(t, func() {
		Dummy.Input(event.MessageStart{})
	})
}

func TestFuncInputAdaptsPlainFunction(t *testing.T) {
	r := require.New(t)

	var got event.Event
	in := FuncInput(func(ev event.Event) { got = ev })

	var target Input = in
	target.Input(event.MessageStart{Head: "x"})

	r.Equal(event.MessageStart{Head: "x"}, got)
}
