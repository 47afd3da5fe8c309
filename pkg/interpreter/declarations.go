package interpreter

import (
	"strconv"
	"strings"

	"github.com/zojize/viz-list/pkg/runtime"
	"github.com/zojize/viz-list/pkg/syntax"
)

// declared is the outcome of resolving one declarator against a base type.
type declared struct {
	Type       runtime.Type
	Name       string
	IsFunction bool
	Params     []Param
	Value      runtime.Value
}

type declMode int

const (
	// declTypeOnly resolves type and name (fields, parameters, signatures).
	declTypeOnly declMode = iota
	// declWithValue also computes the initial value.
	declWithValue
)

// declareTopLevel registers structs and functions in source order and
// returns the global declarations for later evaluation.
func (i *Interpreter) declareTopLevel(root syntax.Node) ([]syntax.Node, error) {
	var globals []syntax.Node
	for _, node := range root.NamedChildren() {
		switch node.Kind() {
		case "struct_specifier":
			if _, err := i.resolveBaseType(node); err != nil {
				return nil, err
			}
		case "function_definition":
			if err := i.declareFunction(node); err != nil {
				return nil, err
			}
		case "declaration":
			globals = append(globals, node)
		case "comment":
		default:
			return nil, wrapNode(node, runtime.Unsupportedf("top-level %s", node.Kind()))
		}
	}
	return globals, nil
}

func (i *Interpreter) declareFunction(node syntax.Node) error {
	base, err := i.resolveBaseType(node.ChildByField("type"))
	if err != nil {
		return wrapNode(node, err)
	}
	decl, err := i.resolveDeclarator(base, node.ChildByField("declarator"), declTypeOnly)
	if err != nil {
		return wrapNode(node, err)
	}
	if !decl.IsFunction {
		return wrapNode(node, runtime.Unsupportedf("function definition without function declarator"))
	}
	for _, p := range decl.Params {
		if p.Name == "" {
			return wrapNode(node, runtime.Unsupportedf("unnamed parameter in %s", decl.Name))
		}
	}
	body := node.ChildByField("body")
	if body == nil || body.Kind() != "compound_statement" {
		return wrapNode(node, runtime.Unsupportedf("function %s without body", decl.Name))
	}
	return wrapNode(node, i.defineFunction(&Function{
		Name:       decl.Name,
		ReturnType: decl.Type,
		Params:     decl.Params,
		Body:       body,
		Node:       node,
	}))
}

// declareGlobals evaluates global declarations directly, in source order.
func (i *Interpreter) declareGlobals(nodes []syntax.Node) error {
	for _, node := range nodes {
		err := i.declareVariables(node, i.env.Globals, runtime.OriginGlobal)
		if err != nil {
			return err
		}
	}
	return nil
}

// declareVariables handles every declarator of a declaration node, binding
// each new cell in scope.
func (i *Interpreter) declareVariables(node syntax.Node, scope *runtime.Scope, origin runtime.Origin) error {
	base, err := i.resolveBaseType(node.ChildByField("type"))
	if err != nil {
		return wrapNode(node, err)
	}
	for _, d := range node.ChildrenByField("declarator") {
		decl, err := i.resolveDeclarator(base, d, declWithValue)
		if err != nil {
			return wrapNode(d, err)
		}
		if decl.IsFunction {
			if origin == runtime.OriginGlobal {
				// Prototype; the definition is looked up at call time.
				continue
			}
			return wrapNode(d, runtime.Unsupportedf("local function declaration %s", decl.Name))
		}
		if scope.Has(decl.Name) {
			return wrapNode(d, runtime.Detailf(runtime.ErrRedeclared, "variable %s already declared", decl.Name))
		}
		if params := i.env.Params(); params != nil && params.Has(decl.Name) && i.env.IsFunctionBody(scope) {
			return wrapNode(d, runtime.Detailf(runtime.ErrRedeclared, "variable %s shadows a parameter", decl.Name))
		}
		loc := i.store.Allocate(decl.Type, decl.Value, origin)
		if err := scope.Define(decl.Name, decl.Type, loc); err != nil {
			return wrapNode(d, err)
		}
	}
	return nil
}

// resolveBaseType maps a type specifier node to its Type. A struct_specifier
// with a body also declares the struct.
func (i *Interpreter) resolveBaseType(node syntax.Node) (runtime.Type, error) {
	if node == nil {
		return nil, runtime.Unsupportedf("declaration without type")
	}
	switch node.Kind() {
	case "primitive_type":
		p, ok := runtime.ParsePrimitive(node.Text())
		if !ok {
			return nil, wrapNode(node, runtime.Unsupportedf("primitive type %s", node.Text()))
		}
		return runtime.Prim(p), nil
	case "type_identifier":
		return i.structRef(node, node.Text())
	case "struct_specifier":
		name := node.ChildByField("name")
		if name == nil {
			return nil, wrapNode(node, runtime.Unsupportedf("anonymous struct"))
		}
		if body := node.ChildByField("body"); body != nil {
			if err := i.declareStruct(name.Text(), body); err != nil {
				return nil, err
			}
		}
		return i.structRef(node, name.Text())
	default:
		return nil, wrapNode(node, runtime.Unsupportedf("type %s", node.Kind()))
	}
}

func (i *Interpreter) structRef(node syntax.Node, name string) (runtime.Type, error) {
	if _, ok := i.structs[name]; !ok {
		return nil, wrapNode(node, runtime.Detailf(runtime.ErrStructNotFound, "struct %s not found", name))
	}
	return runtime.StructType{Name: name}, nil
}

// declareStruct registers the layout under its name before resolving the
// fields, so fields may point at the struct being declared.
func (i *Interpreter) declareStruct(name string, body syntax.Node) error {
	if _, ok := i.structs[name]; ok {
		return wrapNode(body, runtime.Detailf(runtime.ErrRedeclared, "struct %s already declared", name))
	}
	layout := runtime.NewStructLayout(name)
	i.defineStruct(layout)
	for _, field := range body.NamedChildren() {
		switch field.Kind() {
		case "comment":
			continue
		case "field_declaration":
		default:
			return wrapNode(field, runtime.Unsupportedf("struct member %s", field.Kind()))
		}
		if field.ChildByField("default_value") != nil {
			return wrapNode(field, runtime.Unsupportedf("default member initializer"))
		}
		base, err := i.resolveBaseType(field.ChildByField("type"))
		if err != nil {
			return wrapNode(field, err)
		}
		for _, d := range field.ChildrenByField("declarator") {
			decl, err := i.resolveDeclarator(base, d, declTypeOnly)
			if err != nil {
				return wrapNode(d, err)
			}
			if decl.IsFunction {
				return wrapNode(d, runtime.Unsupportedf("member function %s", decl.Name))
			}
			if containsByValue(decl.Type, name) {
				return wrapNode(d, runtime.Unsupportedf("struct %s contains itself", name))
			}
			if err := layout.AddField(decl.Name, decl.Type); err != nil {
				return wrapNode(d, err)
			}
		}
	}
	return nil
}

func containsByValue(t runtime.Type, name string) bool {
	switch typ := t.(type) {
	case runtime.StructType:
		return typ.Name == name
	case runtime.ArrayType:
		return containsByValue(typ.Of, name)
	default:
		return false
	}
}

// resolveDeclarator wraps base according to the declarator shape and
// extracts the declared name, parameters, and (in declWithValue mode) the
// initial value.
func (i *Interpreter) resolveDeclarator(base runtime.Type, node syntax.Node, mode declMode) (declared, error) {
	if node == nil {
		return declared{}, runtime.Unsupportedf("missing declarator")
	}
	switch node.Kind() {
	case "identifier", "field_identifier":
		decl := declared{Type: base, Name: node.Text()}
		if mode == declWithValue {
			val, err := runtime.ZeroValue(base, i, i.store.Null())
			if err != nil {
				return declared{}, wrapNode(node, err)
			}
			decl.Value = val
		}
		return decl, nil
	case "pointer_declarator":
		return i.resolveDeclarator(runtime.PointerTo(base), node.ChildByField("declarator"), mode)
	case "array_declarator":
		size, err := arraySize(node.ChildByField("size"))
		if err != nil {
			return declared{}, wrapNode(node, err)
		}
		return i.resolveDeclarator(runtime.ArrayType{Of: base, Size: size}, node.ChildByField("declarator"), mode)
	case "function_declarator":
		nameNode := node.ChildByField("declarator")
		if nameNode == nil || nameNode.Kind() != "identifier" {
			return declared{}, wrapNode(node, runtime.Unsupportedf("function declarator shape"))
		}
		params, err := i.resolveParams(node.ChildByField("parameters"))
		if err != nil {
			return declared{}, err
		}
		return declared{Type: base, Name: nameNode.Text(), IsFunction: true, Params: params}, nil
	case "init_declarator":
		decl, err := i.resolveDeclarator(base, node.ChildByField("declarator"), declTypeOnly)
		if err != nil {
			return declared{}, err
		}
		if decl.IsFunction {
			return declared{}, wrapNode(node, runtime.Unsupportedf("initialized function declarator"))
		}
		if mode == declWithValue {
			val, err := i.initialize(decl.Type, node.ChildByField("value"))
			if err != nil {
				return declared{}, wrapNode(node, err)
			}
			decl.Value = val
		}
		return decl, nil
	default:
		return declared{}, wrapNode(node, runtime.Unsupportedf("declarator %s", node.Kind()))
	}
}

func (i *Interpreter) resolveParams(list syntax.Node) ([]Param, error) {
	if list == nil {
		return nil, nil
	}
	var params []Param
	children := list.NamedChildren()
	for _, p := range children {
		if p.Kind() == "comment" {
			continue
		}
		if p.Kind() != "parameter_declaration" {
			return nil, wrapNode(p, runtime.Unsupportedf("parameter %s", p.Kind()))
		}
		base, err := i.resolveBaseType(p.ChildByField("type"))
		if err != nil {
			return nil, wrapNode(p, err)
		}
		d := p.ChildByField("declarator")
		if d == nil {
			if runtime.IsVoid(base) && len(children) == 1 {
				return nil, nil
			}
			// Unnamed parameters are only valid in prototypes.
			params = append(params, Param{Type: base})
			continue
		}
		decl, err := i.resolveDeclarator(base, d, declTypeOnly)
		if err != nil {
			return nil, wrapNode(p, err)
		}
		if decl.IsFunction {
			return nil, wrapNode(p, runtime.Unsupportedf("function parameter %s", decl.Name))
		}
		if runtime.IsVoid(decl.Type) {
			return nil, wrapNode(p, runtime.Mismatchf("parameter %s has type void", decl.Name))
		}
		for _, existing := range params {
			if existing.Name == decl.Name {
				return nil, wrapNode(p, runtime.Detailf(runtime.ErrRedeclared, "parameter %s already declared", decl.Name))
			}
		}
		params = append(params, Param{Name: decl.Name, Type: decl.Type})
	}
	return params, nil
}

func arraySize(node syntax.Node) (int, error) {
	if node == nil {
		return 0, runtime.Unsupportedf("array without size")
	}
	if node.Kind() != "number_literal" {
		return 0, runtime.Unsupportedf("non-literal array size")
	}
	n, err := strconv.ParseInt(strings.TrimRight(node.Text(), "uUlL"), 0, 64)
	if err != nil || n <= 0 {
		return 0, runtime.Unsupportedf("array size %s", node.Text())
	}
	return int(n), nil
}

// initialize computes a declarator's initial value from its initializer.
func (i *Interpreter) initialize(t runtime.Type, init syntax.Node) (runtime.Value, error) {
	if init == nil {
		return runtime.ZeroValue(t, i, i.store.Null())
	}
	if init.Kind() == "initializer_list" {
		return i.initializeList(t, init)
	}
	val, err := i.eval(init)
	if err != nil {
		return nil, err
	}
	return i.cast(t, val)
}

// initializeList handles one level of braces for arrays, structs, and
// scalars. Missing trailing elements are zeroed.
func (i *Interpreter) initializeList(t runtime.Type, list syntax.Node) (runtime.Value, error) {
	var elems []syntax.Node
	for _, child := range list.NamedChildren() {
		switch child.Kind() {
		case "comment":
			continue
		case "initializer_list":
			return nil, wrapNode(child, runtime.Unsupportedf("nested initializer list"))
		case "initializer_pair":
			return nil, wrapNode(child, runtime.Unsupportedf("designated initializer"))
		}
		elems = append(elems, child)
	}

	zero, err := runtime.ZeroValue(t, i, i.store.Null())
	if err != nil {
		return nil, err
	}
	var slots []*runtime.Cell
	switch val := zero.(type) {
	case *runtime.ArrayValue:
		slots = val.Items
	case *runtime.StructValue:
		for _, f := range val.Fields {
			slots = append(slots, f.Cell)
		}
	default:
		switch len(elems) {
		case 0:
			return zero, nil
		case 1:
			return i.initialize(t, elems[0])
		default:
			return nil, runtime.Mismatchf("too many initializers for %s", t)
		}
	}
	if len(elems) > len(slots) {
		return nil, runtime.Mismatchf("too many initializers for %s", t)
	}
	for idx, elem := range elems {
		raw, err := i.eval(elem)
		if err != nil {
			return nil, err
		}
		val, err := i.cast(slots[idx].Type, raw)
		if err != nil {
			return nil, wrapNode(elem, err)
		}
		if err := slots[idx].Assign(val); err != nil {
			return nil, wrapNode(elem, err)
		}
	}
	return zero, nil
}
