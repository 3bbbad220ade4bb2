package mux

import (
	"time"

	"github.com/pipyfix/pipy/event"
	"github.com/pipyfix/pipy/pipeline"
	"github.com/pipyfix/pipy/plumbing"
)

// Session wraps one shared pipeline.Instance and the bookkeeping needed
// to multiplex several logical Streams onto it. Grounded on pipe.Pipe
// being the one shared "wire" several Inputs write onto (pipe/input.go),
// turned into a poolable, evictable unit keyed by SessionCluster.
type Session struct {
	cluster *Cluster

	instance *pipeline.Instance
	queue    StreamQueue
	dedicated *Stream

	shareCount   int
	messageCount int
	completed    int

	pending       bool
	closed        bool
	pendingWrites []pendingWrite

	freeTime time.Time // set when ShareCount drops to zero
}

type pendingWrite struct {
	stream *Stream
	ev     event.Event
}

func newPendingSession(c *Cluster) *Session {
	return &Session{cluster: c, pending: true}
}

// Router returns a plumbing.Input that feeds reply events from this
// session's shared Instance into route. Factories passed to Pool.Select
// must Chain their Instance's output to this before returning it.
func (s *Session) Router() plumbing.Input {
	return plumbing.FuncInput(s.route)
}

// start is called once the Instance is ready (or failed). It flushes
// every stream that queued writes while pending, in FIFO order, matching
// the spec's "pending-session fan-in" rule.
func (s *Session) start(inst *pipeline.Instance, err error) {
	s.pending = false
	if err != nil {
		s.closed = true
		for _, pw := range s.pendingWrites {
			pw.stream.deliverReply(event.StreamEnd{Kind: event.ProtocolError, Err: err})
		}
		s.pendingWrites = nil
		s.cluster.drop(s)
		return
	}
	s.instance = inst
	for _, pw := range s.pendingWrites {
		pw.stream.write(pw.ev)
	}
	s.pendingWrites = nil
}

func (s *Session) bufferWrite(stream *Stream, ev event.Event) {
	s.pendingWrites = append(s.pendingWrites, pendingWrite{stream, ev})
}

// OpenStream attaches a new Stream to this session. oneWay streams never
// enter the reply queue (fire-and-forget writes).
func (s *Session) OpenStream(oneWay bool) *Stream {
	s.shareCount++
	s.messageCount++
	st := newStream(s, oneWay)
	s.cluster.resort()
	return st
}

// Dedicate switches this session to tunnel mode: routing bypasses the
// StreamQueue FSM and goes straight to st (e.g. CONNECT, WebSocket
// upgrade). Dedication lasts while st stays attached: when st detaches,
// the session returns to queue-head routing.
func (s *Session) Dedicate(st *Stream) {
	s.dedicated = st
	st.dedicated = true
}

func (s *Session) detach(st *Stream) {
	if s.dedicated == st {
		s.dedicated = nil
	}
	s.queue.Remove(st)
	s.shareCount--
	s.completed++
	if s.shareCount == 0 {
		s.freeTime = time.Now()
	}
	s.cluster.resort()
}

// route delivers a reply event arriving from the shared instance to the
// correct Stream, per the queue-head FSM: MessageStart addresses the
// current head and marks it started; Data continues to the head only
// while started; MessageEnd closes out the head and advances the queue;
// StreamEnd is fanned out to every outstanding stream, synthesizing a
// MessageStart for any stream whose reply never started.
func (s *Session) route(ev event.Event) {
	if s.dedicated != nil {
		s.dedicated.deliverReply(ev)
		return
	}
	switch ev.Kind() {
	case event.KindMessageStart:
		head := s.queue.Head()
		if head == nil {
			return
		}
		head.started = true
		head.deliverReply(ev)
	case event.KindData:
		if head := s.queue.Head(); head != nil && head.started {
			head.deliverReply(ev)
		}
	case event.KindMessageEnd:
		head := s.queue.Head()
		if head == nil {
			return
		}
		head.deliverReply(ev)
		head.queuedCount--
		if head.queuedCount <= 0 {
			s.queue.Pop()
		} else {
			head.started = false
		}
	case event.KindStreamEnd:
		se := ev.(event.StreamEnd)
		for _, st := range s.queue.Drain() {
			if !st.started {
				st.deliverReply(event.MessageStart{})
			}
			st.deliverReply(se)
		}
		s.closed = true
	}
}
