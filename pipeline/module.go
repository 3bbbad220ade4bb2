package pipeline

// Module groups the named layouts a single script/config unit declares
// (spec's "per-module variable" scoping unit), so link()/fork()/use()
// targets resolve only within their own module, matching pipe.Pipe's
// single coherent KV/callback namespace per instance.
type Module struct {
	Name    string
	layouts map[string]*Layout

	// variables declares the per-module context slots, in declaration
	// order; Context.Slots is sized to len(variables) for every
	// Instance rooted at a Layout belonging to this Module.
	variables []string
}

func NewModule(name string) *Module {
	return &Module{Name: name, layouts: make(map[string]*Layout)}
}

// DefineVariable reserves a new Context slot and returns its index,
// mirroring the spec's pipeline-context "define_variable" builder call.
func (m *Module) DefineVariable(name string) int {
	m.variables = append(m.variables, name)
	return len(m.variables) - 1
}

func (m *Module) NumVariables() int { return len(m.variables) }

// Register adds layout under name so other layouts in the same module
// can reference it via SubSlot.
func (m *Module) Register(name string, layout *Layout) {
	layout.Module = m
	m.layouts[name] = layout
}
