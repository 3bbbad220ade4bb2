package netio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipyfix/pipy/binary"
)

func TestTapFramesReadAndWrite(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	tap := NewTap(&buf)

	r.NoError(tap.Write(tapDirRead, []byte("hi")))
	r.NoError(tap.Write(tapDirWrite, []byte("bye")))

	b := buf.Bytes()
	r.Equal(uint8(tapDirRead), b[0])
	n := binary.Msb.Uint32(b[1:5])
	r.EqualValues(2, n)
	r.Equal("hi", string(b[5:7]))

	rest := b[7:]
	r.Equal(uint8(tapDirWrite), rest[0])
	n2 := binary.Msb.Uint32(rest[1:5])
	r.EqualValues(3, n2)
	r.Equal("bye", string(rest[5:8]))
}

func TestTapNilIsNoOp(t *testing.T) {
	var tap *Tap
	require.NoError(t, tap.Write(tapDirRead, []byte("x")))
}
