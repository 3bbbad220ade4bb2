package event

// Kind identifies the concrete type of an Event without a type switch.
type Kind byte

const (
	KindData Kind = iota
	KindMessageStart
	KindMessageEnd
	KindStreamEnd
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "Data"
	case KindMessageStart:
		return "MessageStart"
	case KindMessageEnd:
		return "MessageEnd"
	case KindStreamEnd:
		return "StreamEnd"
	default:
		return "?"
	}
}

// Event is the single unit flowing through a pipeline. MessageStart,
// MessageEnd and StreamEnd are values (not pointers) so filters can copy
// and requeue them freely; Data is the exception: it travels as *Data,
// and its chunks are shared by reference, never deep-copied on the hot
// path.
type Event interface {
	Kind() Kind
}

// MessageStart opens a logical message. Head carries protocol-specific
// framing metadata (headers, a status line, ...) produced by the filter
// that recognizes message boundaries in a raw byte stream.
type MessageStart struct {
	Head any
}

func (MessageStart) Kind() Kind { return KindMessageStart }

// MessageEnd closes the message opened by the most recent MessageStart.
// Tail and Payload mirror Head: protocol-specific trailer and, optionally,
// a fully buffered representation of the message body for filters that
// chose to buffer rather than stream.
type MessageEnd struct {
	Tail    any
	Payload any
}

func (MessageEnd) Kind() Kind { return KindMessageEnd }
