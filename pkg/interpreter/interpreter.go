package interpreter

import (
	"github.com/zojize/viz-list/pkg/runtime"
	"github.com/zojize/viz-list/pkg/syntax"
)

// Param is one resolved function parameter.
type Param struct {
	Name string
	Type runtime.Type
}

// Function is an entry in the function table.
type Function struct {
	Name       string
	ReturnType runtime.Type
	Params     []Param
	Body       syntax.Node
	Node       syntax.Node
}

// Interpreter owns all state of one program run. It is not safe for
// concurrent use; exactly one goroutine drives it through Init/Step/Reset.
type Interpreter struct {
	structs       map[string]*runtime.StructLayout
	structOrder   []string
	functions     map[string]*Function
	functionOrder []string

	env   *runtime.Environment
	store *runtime.Store

	current syntax.Node

	run *execution
}

// New returns an interpreter with empty state.
func New() *Interpreter {
	i := &Interpreter{}
	i.clear()
	return i
}

func (i *Interpreter) clear() {
	i.structs = make(map[string]*runtime.StructLayout)
	i.structOrder = nil
	i.functions = make(map[string]*Function)
	i.functionOrder = nil
	i.env = runtime.NewEnvironment()
	i.store = runtime.NewStore()
	i.current = nil
	i.run = nil
}

// Layout implements runtime.StructLookup over the struct table.
func (i *Interpreter) Layout(name string) (*runtime.StructLayout, bool) {
	layout, ok := i.structs[name]
	return layout, ok
}

// Function looks up a function by name.
func (i *Interpreter) Function(name string) (*Function, bool) {
	fn, ok := i.functions[name]
	return fn, ok
}

// Store exposes the memory store for inspection. Callers must not mutate it.
func (i *Interpreter) Store() *runtime.Store { return i.store }

// Env exposes the environment for inspection. Callers must not mutate it.
func (i *Interpreter) Env() *runtime.Environment { return i.env }

// CurrentNode is the most recently completed suspension node, or the node
// being evaluated when a failure occurred.
func (i *Interpreter) CurrentNode() syntax.Node { return i.current }

func (i *Interpreter) defineStruct(layout *runtime.StructLayout) {
	if _, ok := i.structs[layout.Name]; !ok {
		i.structOrder = append(i.structOrder, layout.Name)
	}
	i.structs[layout.Name] = layout
}

func (i *Interpreter) defineFunction(fn *Function) error {
	if _, ok := i.functions[fn.Name]; ok {
		return runtime.Detailf(runtime.ErrRedeclared, "function %s already defined", fn.Name)
	}
	i.functions[fn.Name] = fn
	i.functionOrder = append(i.functionOrder, fn.Name)
	return nil
}

func (i *Interpreter) release(scope *runtime.Scope) {
	if scope == nil {
		return
	}
	for _, b := range scope.Bindings() {
		_ = i.store.Kill(b.Loc)
	}
}
