package pipeline

import "errors"

var (
	// ErrUnknownSlot is returned by a filter's Bind (and so by NewLayout)
	// when its fork/link/use target is not found by Layout.Slot in the
	// layout's Module.
	ErrUnknownSlot = errors.New("pipeline: unknown sub-pipeline slot")

	// ErrLinkDepth is returned when a chain of link() filters exceeds
	// maxLinkDepth within a single tick, guarding against unbounded
	// script-chosen recursion (no static cycle detection is possible
	// since link targets may be picked at runtime).
	ErrLinkDepth = errors.New("pipeline: link depth exceeded")
)
