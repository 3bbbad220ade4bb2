package pipeline

// SlotKind distinguishes the four ways a filter can reference another
// sub-pipeline, per the linear-vs-joint composition split.
type SlotKind byte

const (
	// SlotFork clones each event into the named sub-pipeline and
	// continues downstream unmodified (filters.Fork).
	SlotFork SlotKind = iota
	// SlotLink splices the named sub-pipeline inline: its output becomes
	// this filter's output (filters.Link).
	SlotLink
	// SlotUse is a named, reusable sub-pipeline instantiated once per
	// Instance and referenced by multiple filters.
	SlotUse
	// SlotJoint is a two-way junction (mux's session multiplexer filter).
	SlotJoint
)

// SubSlot is a declared reference from a filter to another named
// pipeline layout, resolved at Bind time.
type SubSlot struct {
	Name string
	Kind SlotKind
}

// Slot resolves a sub-pipeline name to its Layout, looked up from the
// Module this Layout belongs to. Filters call this from Bind.
func (l *Layout) Slot(name string) (*Layout, bool) {
	if l.Module == nil {
		return nil, false
	}
	sub, ok := l.Module.layouts[name]
	return sub, ok
}
