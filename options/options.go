// Package options decodes the opaque map[string]any option bags a
// layout-builder/script host hands the core into the typed structs
// netio and mux expect, using spf13/cast the way the teacher never
// needed to (pipe.Options is built up imperatively in Go, never decoded
// from an untyped map) but the rest of the retrieved ecosystem leans on
// for exactly this "loosely-typed config in, strict struct out" shape.
package options

import (
	"github.com/spf13/cast"

	"github.com/pipyfix/pipy/mux"
	"github.com/pipyfix/pipy/netio"
)

// ListenOptions decodes script-level listen() options into a typed
// netio.ListenOptions, tolerating the loosely-typed values a JSON or
// scripting host would actually hand over (float64 for integers, string
// durations like "30s", etc).
func ListenOptions(raw map[string]any) netio.ListenOptions {
	return netio.ListenOptions{
		Proto:          cast.ToString(firstOf(raw, "protocol", "proto")),
		Address:        cast.ToString(raw["address"]),
		MaxConnections: cast.ToInt64(raw["maxConnections"]),
		BufferLimit:    cast.ToInt(firstOf(raw, "bufferLimit", "buffer_limit")),
		Timeouts: netio.Timeouts{
			Read:  cast.ToDuration(raw["readTimeout"]),
			Write: cast.ToDuration(raw["writeTimeout"]),
			Idle:  cast.ToDuration(firstOf(raw, "idleTimeout", "idle_timeout")),
		},
	}
}

// MuxOptions decodes script-level mux()/merge() options into mux.Options,
// falling back to mux.DefaultOptions for any field left unset in raw. Keys
// match spec.md §6's documented mux/merge option surface: maxIdle,
// maxQueue, maxMessages (isOneWay is decided per-stream by the caller of
// Session.OpenStream, not here).
func MuxOptions(raw map[string]any) mux.Options {
	o := mux.DefaultOptions
	if v, ok := raw["maxQueue"]; ok {
		o.MaxQueue = cast.ToInt(v)
	}
	if v, ok := raw["maxMessages"]; ok {
		o.MaxMessages = cast.ToInt(v)
	}
	if v, ok := firstOfOK(raw, "maxIdle", "idleTimeout"); ok {
		o.MaxIdle = cast.ToDuration(v)
	}
	if v, ok := raw["maxLifespan"]; ok {
		o.MaxLifespan = cast.ToDuration(v)
	}
	return o
}

func firstOf(raw map[string]any, keys ...string) any {
	v, _ := firstOfOK(raw, keys...)
	return v
}

func firstOfOK(raw map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			return v, true
		}
	}
	return nil, false
}
