package event

// StreamEndKind is the closed set of reasons a stream can end. The zero
// value, NoError, means a clean, expected end of stream.
type StreamEndKind int

const (
	NoError StreamEndKind = iota
	RuntimeError
	UnknownError
	ReadError
	WriteError
	CannotResolve
	ConnectionCanceled
	ConnectionReset
	ConnectionRefused
	ConnectionTimeout
	ReadTimeout
	WriteTimeout
	IdleTimeout
	Unauthorized
	ProtocolError
	BufferOverflow
	Replay
)

var streamEndNames = map[StreamEndKind]string{
	NoError:             "NoError",
	RuntimeError:        "RuntimeError",
	UnknownError:        "UnknownError",
	ReadError:           "ReadError",
	WriteError:          "WriteError",
	CannotResolve:       "CannotResolve",
	ConnectionCanceled:  "ConnectionCanceled",
	ConnectionReset:     "ConnectionReset",
	ConnectionRefused:   "ConnectionRefused",
	ConnectionTimeout:   "ConnectionTimeout",
	ReadTimeout:         "ReadTimeout",
	WriteTimeout:        "WriteTimeout",
	IdleTimeout:         "IdleTimeout",
	Unauthorized:        "Unauthorized",
	ProtocolError:       "ProtocolError",
	BufferOverflow:      "BufferOverflow",
	Replay:              "Replay",
}

// String implements fmt.Stringer by hand, in the manner of the teacher's
// dir.Dir.String() — this repo has no code-generated enums.
func (k StreamEndKind) String() string {
	if s, ok := streamEndNames[k]; ok {
		return s
	}
	return "?"
}

// ParseStreamEndKind reverses String, for config/debug-dump round-trips.
func ParseStreamEndKind(s string) (StreamEndKind, bool) {
	for k, name := range streamEndNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// StreamEnd terminates a stream permanently; no further events follow it.
// Err carries the underlying cause when Kind indicates a failure; it is
// nil for NoError.
type StreamEnd struct {
	Kind StreamEndKind
	Err  error
}

// Kind implements Event.
func (StreamEnd) Kind() Kind { return KindStreamEnd }

// NewStreamEnd is a convenience constructor mirroring the teacher's
// Pipe.Event(et, args...) helper: kind and err are stored exactly as
// given.
func NewStreamEnd(kind StreamEndKind, err error) StreamEnd {
	return StreamEnd{Kind: kind, Err: err}
}
