package event

// Validator tracks message-boundary state for one stream and rejects
// malformed event sequences: a second MessageStart before the matching
// MessageEnd, a MessageEnd outside of a message, or any event after
// StreamEnd. Data is accepted both inside and outside a message. Grounded on the small per-message state machines in the
// teacher's Input.process (OPEN/KEEPALIVE/UPDATE tracking) generalized
// into a reusable, protocol-agnostic guard.
type Validator struct {
	started bool
	ended   bool
}

// Check advances the validator with ev and returns an error if ev
// violates the event-ordering invariant.
func (v *Validator) Check(ev Event) error {
	if v.ended {
		return ErrAfterEnd
	}
	switch ev.Kind() {
	case KindMessageStart:
		if v.started {
			return ErrDoubleStart
		}
		v.started = true
	case KindData:
		// Data is legal both inside and outside a message (raw stream
		// bytes before framing is recognized), so no check here.
	case KindMessageEnd:
		if !v.started {
			return ErrNotStarted
		}
		v.started = false
	case KindStreamEnd:
		v.ended = true
	}
	return nil
}

// Reset clears the validator for reuse, matching pipeline.Filter.Reset.
func (v *Validator) Reset() {
	v.started = false
	v.ended = false
}
