package runtime

// Binding maps a name to the cell that holds it.
type Binding struct {
	Name string
	Type Type
	Loc  int
}

// Scope is one lexical mapping from names to store locations. Declaration
// order is preserved for display.
type Scope struct {
	bindings []Binding
	index    map[string]int
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{index: make(map[string]int)}
}

// Define adds a binding; redeclaring a name in the same scope fails.
func (s *Scope) Define(name string, typ Type, loc int) error {
	if _, ok := s.index[name]; ok {
		return Detailf(ErrRedeclared, "variable %s already declared", name)
	}
	s.index[name] = len(s.bindings)
	s.bindings = append(s.bindings, Binding{Name: name, Type: typ, Loc: loc})
	return nil
}

// Lookup finds a binding in this scope only.
func (s *Scope) Lookup(name string) (Binding, bool) {
	idx, ok := s.index[name]
	if !ok {
		return Binding{}, false
	}
	return s.bindings[idx], true
}

// Has reports whether name is bound in this scope.
func (s *Scope) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Bindings returns the bindings in declaration order.
func (s *Scope) Bindings() []Binding {
	out := make([]Binding, len(s.bindings))
	copy(out, s.bindings)
	return out
}

// Frame is a saved block-scope chain captured at a call site.
type Frame struct {
	Function string
	Scopes   []*Scope

	params *Scope
}

// Environment holds the global scope, the block scopes of the running
// function, and the call stack of suspended callers.
type Environment struct {
	Globals   *Scope
	blocks    []*Scope
	params    *Scope
	callStack []Frame
}

// NewEnvironment creates an environment with empty globals.
func NewEnvironment() *Environment {
	return &Environment{Globals: NewScope()}
}

// PushScope enters a new innermost block scope.
func (e *Environment) PushScope() *Scope {
	s := NewScope()
	e.blocks = append(e.blocks, s)
	return s
}

// PopScope leaves the innermost block scope and returns it.
func (e *Environment) PopScope() *Scope {
	if len(e.blocks) == 0 {
		return nil
	}
	s := e.blocks[len(e.blocks)-1]
	e.blocks = e.blocks[:len(e.blocks)-1]
	return s
}

// Current returns the innermost block scope, or nil at global level.
func (e *Environment) Current() *Scope {
	if len(e.blocks) == 0 {
		return nil
	}
	return e.blocks[len(e.blocks)-1]
}

// Resolve searches the block scopes innermost first, then the globals.
func (e *Environment) Resolve(name string) (Binding, bool) {
	for idx := len(e.blocks) - 1; idx >= 0; idx-- {
		if b, ok := e.blocks[idx].Lookup(name); ok {
			return b, true
		}
	}
	return e.Globals.Lookup(name)
}

// Scopes returns the block-scope chain, outermost first.
func (e *Environment) Scopes() []*Scope {
	out := make([]*Scope, len(e.blocks))
	copy(out, e.blocks)
	return out
}

// Call saves the caller's scope chain and installs a fresh chain holding only
// the callee's parameter scope.
func (e *Environment) Call(function string, params *Scope) {
	e.callStack = append(e.callStack, Frame{Function: function, Scopes: e.blocks, params: e.params})
	e.blocks = nil
	e.params = params
	if params != nil {
		e.blocks = []*Scope{params}
	}
}

// Return restores the most recently saved caller chain and returns the
// callee's remaining scopes so their cells can be released.
func (e *Environment) Return() []*Scope {
	if len(e.callStack) == 0 {
		return nil
	}
	callee := e.blocks
	frame := e.callStack[len(e.callStack)-1]
	e.callStack = e.callStack[:len(e.callStack)-1]
	e.blocks = frame.Scopes
	e.params = frame.params
	return callee
}

// Params returns the running function's parameter scope, or nil.
func (e *Environment) Params() *Scope { return e.params }

// IsFunctionBody reports whether s is the outermost block of the running
// function's body, the block that shares a declarative region with the
// parameters.
func (e *Environment) IsFunctionBody(s *Scope) bool {
	if s == nil {
		return false
	}
	if e.params == nil {
		return len(e.blocks) > 0 && e.blocks[0] == s
	}
	return len(e.blocks) > 1 && e.blocks[0] == e.params && e.blocks[1] == s
}

// CallDepth is the number of unreturned invocations.
func (e *Environment) CallDepth() int { return len(e.callStack) }

// CallStack returns the saved frames, outermost first.
func (e *Environment) CallStack() []Frame {
	out := make([]Frame, len(e.callStack))
	copy(out, e.callStack)
	return out
}
