package mux

import "time"

// Options bounds how many streams/messages one session may carry before
// a new session is started for the same key, and how long an idle
// session is kept before eviction. Decoded from script-level option maps
// by options.MuxOptions (spf13/cast), mirroring the teacher's
// pipe.Options being built up field by field.
type Options struct {
	MaxQueue    int           // 0 = unlimited; caps concurrent share_count per session
	MaxMessages int           // 0 = unlimited
	MaxIdle     time.Duration // 0 = never evict for idleness
	MaxLifespan time.Duration // decoded by options.MuxOptions; Pool does not read it
}

// DefaultOptions matches the teacher's habit of shipping a usable
// zero-config default (pipe.NewPipe needs no Options at all).
var DefaultOptions = Options{
	MaxQueue: 100,
	MaxIdle:  60 * time.Second,
}
