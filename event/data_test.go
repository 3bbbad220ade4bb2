package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataPushShiftPop(t *testing.T) {
	r := require.New(t)

	d := NewData([]byte("hello "), "test")
	d.Push([]byte("world"), "test")
	r.Equal(11, d.Len())
	r.Equal("hello world", string(d.Bytes()))

	head := d.Shift(5)
	r.Equal("hello", string(head.Bytes()))
	r.Equal(6, d.Len())
	r.Equal(" world", string(d.Bytes()))

	tail := d.Pop(5)
	r.Equal("world", string(tail.Bytes()))
	r.Equal(" ", string(d.Bytes()))
}

func TestDataSplitAt(t *testing.T) {
	r := require.New(t)

	d := NewData([]byte("abc"), "a")
	d.Push([]byte("def"), "b")

	head, tail := d.SplitAt(4)
	r.Equal("abcd", string(head.Bytes()))
	r.Equal("ef", string(tail.Bytes()))
}

func TestDataConcat(t *testing.T) {
	r := require.New(t)

	a := NewData([]byte("foo"), "a")
	b := NewData([]byte("bar"), "b")
	a.Concat(b)
	r.Equal("foobar", string(a.Bytes()))
}

func TestValidator(t *testing.T) {
	r := require.New(t)

	v := &Validator{}
	r.NoError(v.Check(MessageStart{}))
	r.ErrorIs(v.Check(MessageStart{}), ErrDoubleStart)
	r.NoError(v.Check(MessageEnd{}))
	r.ErrorIs(v.Check(MessageEnd{}), ErrNotStarted)
	r.NoError(v.Check(StreamEnd{Kind: NoError}))
	r.ErrorIs(v.Check(MessageStart{}), ErrAfterEnd)
}

func TestStreamEndKindString(t *testing.T) {
	r := require.New(t)

	r.Equal("BufferOverflow", BufferOverflow.String())
	k, ok := ParseStreamEndKind("IdleTimeout")
	r.True(ok)
	r.Equal(IdleTimeout, k)
}
