package filters

import (
	"github.com/pipyfix/pipy/event"
	"github.com/pipyfix/pipy/mux"
	"github.com/pipyfix/pipy/pipeline"
	"github.com/pipyfix/pipy/plumbing"
)

// KeyFunc derives a session's routing key from the stream about to open —
// e.g. a destination address read from the Context, letting many client
// streams share one upstream session per distinct destination.
type KeyFunc func(ctx *pipeline.Context) (key string, oneWay bool)

// Mux is the joint filter that hands a stream off to the session
// multiplexer: on the stream's first event it resolves (or creates) a
// shared Session for the derived key from Pool, opens a mux.Stream on it,
// and from then on simply forwards events to that Stream while the
// Stream's replies are delivered to whatever this filter's next was at
// open time. Grounded on pipe.Pipe being "one wire, many producers",
// here reusing a mux.Pool per worker thread.
type Mux struct {
	Pool    *mux.Pool
	Target  *pipeline.Layout // layout each session's shared Instance is built from
	Key     KeyFunc
	Options mux.Options // the mux()/merge() call's maxIdle/maxQueue/maxMessages, per spec.md §6

	stream *mux.Stream
}

// NewMux builds a Mux filter with the given session caps, decoded by the
// layout builder from the mux()/merge() call's option map (see
// options.MuxOptions) and threaded straight into every Pool.Select this
// filter makes, rather than the pool's zero-config default.
func NewMux(pool *mux.Pool, target *pipeline.Layout, key KeyFunc, opts mux.Options) *Mux {
	return &Mux{Pool: pool, Target: target, Key: key, Options: opts}
}

func (m *Mux) Bind(*pipeline.Layout) error { return nil }

func (m *Mux) Clone() pipeline.Filter {
	return &Mux{Pool: m.Pool, Target: m.Target, Key: m.Key, Options: m.Options}
}

func (m *Mux) Reset() {
	if m.stream != nil {
		m.stream.Close()
		m.stream = nil
	}
}

func (m *Mux) Process(ctx *pipeline.Context, ev event.Event, next plumbing.Input) {
	if m.stream == nil {
		key, oneWay := m.Key(ctx)
		session, _ := m.Pool.Select(key, nil, func(session *mux.Session) (*pipeline.Instance, error) {
			inst := m.Target.Alloc()
			inst.Chain(session.Router())
			return inst, nil
		}, m.Options)
		m.stream = session.OpenStream(oneWay)
		m.stream.Chain(next)
	}
	m.stream.Input(ev)
}

func (m *Mux) Dump(d *pipeline.Dump) {
	d.Field("type", "mux")
}
