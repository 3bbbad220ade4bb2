package netio

import (
	"io"
	"sync"

	"github.com/pipyfix/pipy/binary"
)

// Tap records every byte chunk an Inbound reads or writes as a
// length-prefixed frame, for offline capture/replay tooling. Framing
// uses the teacher's big-endian Msb helpers (binary/msb.go) the same way
// bgpfix's MRT/update dumpers length-prefix each record, generalized
// from "one MRT record" to "one Data chunk, either direction".
type Tap struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTap wraps w; nil disables capture (Write becomes a no-op).
func NewTap(w io.Writer) *Tap { return &Tap{w: w} }

// Write appends one frame: a 1-byte direction tag (0 = read from peer, 1
// = write to peer), a big-endian uint32 length, then the payload.
func (t *Tap) Write(dir uint8, b []byte) error {
	if t == nil || t.w == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := binary.Msb.WriteUint8(t.w, dir); err != nil {
		return err
	}
	if _, err := binary.Msb.WriteUint32(t.w, uint32(len(b))); err != nil {
		return err
	}
	_, err := t.w.Write(b)
	return err
}

const (
	tapDirRead  = 0
	tapDirWrite = 1
)
