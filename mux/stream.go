package mux

import (
	"github.com/pipyfix/pipy/event"
	"github.com/pipyfix/pipy/plumbing"
)

// Stream is one logical request/response exchange multiplexed onto a
// shared Session. It implements plumbing.Function: forward events are
// written via Input, reply events arrive via the Session's routing FSM
// and are delivered to whatever Chain installed.
type Stream struct {
	session     *Session
	out         plumbing.Input
	queuedCount int  // messages sent, not yet matched by a reply MessageEnd
	started     bool // current head-of-line reply has seen MessageStart
	dedicated   bool
	oneWay      bool
	closed      bool
}

func newStream(s *Session, oneWay bool) *Stream {
	return &Stream{session: s, out: plumbing.Dummy, oneWay: oneWay}
}

// Chain installs the downstream consumer of reply events for this stream.
func (s *Stream) Chain(out plumbing.Input) {
	if out == nil {
		out = plumbing.Dummy
	}
	s.out = out
}

// Input sends ev downstream through the session's shared pipeline. While
// the session is still pending (its Instance not yet created), events are
// buffered in FIFO order and flushed once the session starts.
func (s *Stream) Input(ev event.Event) {
	if s.session.pending {
		s.session.bufferWrite(s, ev)
		return
	}
	s.write(ev)
}

func (s *Stream) write(ev event.Event) {
	if !s.oneWay && ev.Kind() == event.KindMessageStart {
		s.queuedCount++
		s.session.queue.Push(s)
	}
	s.session.instance.Input(ev)
}

// deliverReply is called by Session.route for events addressed to this
// stream.
func (s *Stream) deliverReply(ev event.Event) {
	s.out.Input(ev)
}

// Close detaches the stream from its session's reply routing. Safe to
// call multiple times.
func (s *Stream) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.session.detach(s)
}
