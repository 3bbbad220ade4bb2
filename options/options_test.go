package options

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListenOptionsCoercion(t *testing.T) {
	r := require.New(t)

	raw := map[string]any{
		"protocol":       "tcp",
		"address":        "0.0.0.0:8080",
		"maxConnections": float64(100),
		"buffer_limit":   "4096",
		"idle_timeout":   "30s",
	}

	o := ListenOptions(raw)
	r.Equal("tcp", o.Proto)
	r.Equal("0.0.0.0:8080", o.Address)
	r.EqualValues(100, o.MaxConnections)
	r.Equal(4096, o.BufferLimit)
	r.Equal(30*time.Second, o.Timeouts.Idle)
}

func TestMuxOptionsDefaults(t *testing.T) {
	r := require.New(t)

	o := MuxOptions(map[string]any{"maxQueue": 5})
	r.Equal(5, o.MaxQueue)
	r.Equal(0, o.MaxMessages) // falls back to DefaultOptions
}
