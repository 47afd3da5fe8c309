package interpreter

import (
	"strconv"
	"strings"

	"github.com/zojize/viz-list/pkg/runtime"
	"github.com/zojize/viz-list/pkg/syntax"
)

func (i *Interpreter) eval(node syntax.Node) (runtime.Value, error) {
	if node == nil {
		return nil, runtime.Unsupportedf("missing expression")
	}
	i.current = node
	switch node.Kind() {
	case "number_literal":
		val, err := parseNumber(node.Text())
		return val, wrapNode(node, err)
	case "char_literal":
		val, err := parseChar(node.Text())
		return val, wrapNode(node, err)
	case "true":
		return runtime.BoolValue{Val: true}, nil
	case "false":
		return runtime.BoolValue{Val: false}, nil
	case "null", "nullptr":
		return runtime.Null, nil
	case "identifier", "field_expression", "subscript_expression":
		return i.load(node)
	case "parenthesized_expression":
		return i.eval(syntax.FirstNamedChild(node))
	case "binary_expression":
		return i.evalBinary(node)
	case "unary_expression":
		arg, err := i.eval(node.ChildByField("argument"))
		if err != nil {
			return nil, err
		}
		val, err := unaryOp(operatorText(node), arg)
		return val, wrapNode(node, err)
	case "update_expression":
		return i.evalUpdate(node)
	case "assignment_expression":
		return i.evalAssignment(node)
	case "pointer_expression":
		return i.evalPointer(node)
	case "call_expression":
		return i.callFunction(node)
	case "new_expression":
		return i.evalNew(node)
	case "delete_expression":
		return i.evalDelete(node)
	case "conditional_expression":
		return i.evalConditional(node)
	case "comma_expression":
		if _, err := i.eval(node.ChildByField("left")); err != nil {
			return nil, err
		}
		return i.eval(node.ChildByField("right"))
	default:
		return nil, wrapNode(node, runtime.Unsupportedf("expression %s", node.Kind()))
	}
}

func operatorText(node syntax.Node) string {
	if op := node.ChildByField("operator"); op != nil {
		return op.Text()
	}
	return ""
}

// load reads the value stored at an lvalue-shaped expression.
func (i *Interpreter) load(node syntax.Node) (runtime.Value, error) {
	var cell *runtime.Cell
	var err error
	switch node.Kind() {
	case "subscript_expression":
		var base runtime.Value
		base, err = i.eval(node.ChildByField("argument"))
		if err != nil {
			return nil, err
		}
		cell, err = i.element(node, base)
	default:
		cell, err = i.lvalue(node)
	}
	if err != nil {
		return nil, err
	}
	val, err := cell.Load()
	return val, wrapNode(node, err)
}

func (i *Interpreter) evalBinary(node syntax.Node) (runtime.Value, error) {
	op := operatorText(node)
	left, err := i.eval(node.ChildByField("left"))
	if err != nil {
		return nil, err
	}
	if op == "&&" || op == "||" {
		l, err := runtime.Truthy(left)
		if err != nil {
			return nil, wrapNode(node, err)
		}
		if l == (op == "||") {
			return runtime.BoolValue{Val: l}, nil
		}
		right, err := i.eval(node.ChildByField("right"))
		if err != nil {
			return nil, err
		}
		r, err := runtime.Truthy(right)
		if err != nil {
			return nil, wrapNode(node, err)
		}
		return runtime.BoolValue{Val: r}, nil
	}
	right, err := i.eval(node.ChildByField("right"))
	if err != nil {
		return nil, err
	}
	val, err := binaryOp(op, left, right)
	return val, wrapNode(node, err)
}

func (i *Interpreter) evalUpdate(node syntax.Node) (runtime.Value, error) {
	cell, err := i.lvalue(node.ChildByField("argument"))
	if err != nil {
		return nil, err
	}
	old, err := cell.Load()
	if err != nil {
		return nil, wrapNode(node, err)
	}
	next, err := stepValue(operatorText(node), old)
	if err != nil {
		return nil, wrapNode(node, err)
	}
	stored, err := i.cast(cell.Type, next)
	if err != nil {
		return nil, wrapNode(node, err)
	}
	if err := cell.Assign(stored); err != nil {
		return nil, wrapNode(node, err)
	}
	if children := node.Children(); len(children) > 0 && children[0].IsNamed() {
		return old, nil
	}
	return stored, nil
}

// evalAssignment evaluates the right side before resolving the target.
func (i *Interpreter) evalAssignment(node syntax.Node) (runtime.Value, error) {
	op, ok := compoundOperator(operatorText(node))
	if !ok {
		return nil, wrapNode(node, runtime.Unsupportedf("assignment operator %s", operatorText(node)))
	}
	right, err := i.eval(node.ChildByField("right"))
	if err != nil {
		return nil, err
	}
	cell, err := i.lvalue(node.ChildByField("left"))
	if err != nil {
		return nil, err
	}
	val := right
	if op != "" {
		current, err := cell.Load()
		if err != nil {
			return nil, wrapNode(node, err)
		}
		if val, err = binaryOp(op, current, right); err != nil {
			return nil, wrapNode(node, err)
		}
	}
	stored, err := i.cast(cell.Type, val)
	if err != nil {
		return nil, wrapNode(node, err)
	}
	if err := cell.Assign(stored); err != nil {
		return nil, wrapNode(node, err)
	}
	return stored, nil
}

func (i *Interpreter) evalPointer(node syntax.Node) (runtime.Value, error) {
	arg := node.ChildByField("argument")
	switch operatorText(node) {
	case "&":
		cell, err := i.lvalue(arg)
		if err != nil {
			return nil, err
		}
		return runtime.PointerValue{Ref: cell}, nil
	case "*":
		cell, err := i.lvalue(node)
		if err != nil {
			return nil, err
		}
		val, err := cell.Load()
		return val, wrapNode(node, err)
	default:
		return nil, wrapNode(node, runtime.Unsupportedf("pointer operator %s", operatorText(node)))
	}
}

// evalNew allocates one zero-initialized heap cell and returns a pointer to
// it. A single constructor argument or a brace list initializes the cell.
func (i *Interpreter) evalNew(node syntax.Node) (runtime.Value, error) {
	if node.ChildByField("placement") != nil {
		return nil, wrapNode(node, runtime.Unsupportedf("placement new"))
	}
	if node.ChildByField("declarator") != nil {
		return nil, wrapNode(node, runtime.Unsupportedf("array new"))
	}
	typ, err := i.resolveBaseType(node.ChildByField("type"))
	if err != nil {
		return nil, wrapNode(node, err)
	}

	var val runtime.Value
	args := node.ChildByField("arguments")
	switch {
	case args == nil:
		val, err = runtime.ZeroValue(typ, i, i.store.Null())
	case args.Kind() == "initializer_list":
		val, err = i.initializeList(typ, args)
	default:
		var exprs []syntax.Node
		for _, a := range args.NamedChildren() {
			if a.Kind() != "comment" {
				exprs = append(exprs, a)
			}
		}
		switch len(exprs) {
		case 0:
			val, err = runtime.ZeroValue(typ, i, i.store.Null())
		case 1:
			val, err = i.initialize(typ, exprs[0])
		default:
			return nil, wrapNode(node, runtime.Unsupportedf("constructor with %d arguments", len(exprs)))
		}
	}
	if err != nil {
		return nil, wrapNode(node, err)
	}
	cell, err := i.store.Cell(i.store.Allocate(typ, val, runtime.OriginHeap))
	if err != nil {
		return nil, wrapNode(node, err)
	}
	return runtime.PointerValue{Ref: cell}, nil
}

func (i *Interpreter) evalDelete(node syntax.Node) (runtime.Value, error) {
	for _, child := range node.Children() {
		if child.Kind() == "[" {
			return nil, wrapNode(node, runtime.Unsupportedf("array delete"))
		}
	}
	children := node.NamedChildren()
	if len(children) == 0 {
		return nil, wrapNode(node, runtime.Unsupportedf("delete without operand"))
	}
	cell, err := i.lvalue(children[len(children)-1])
	if err != nil {
		return nil, err
	}
	val, err := cell.Load()
	if err != nil {
		return nil, wrapNode(node, err)
	}
	ptr, ok := val.(runtime.PointerValue)
	if !ok {
		return nil, wrapNode(node, runtime.Mismatchf("cannot delete %s", describeValue(val)))
	}
	if err := i.store.Free(ptr.Ref); err != nil {
		return nil, wrapNode(node, err)
	}
	return runtime.NoVal, nil
}

func (i *Interpreter) evalConditional(node syntax.Node) (runtime.Value, error) {
	cond, err := i.eval(node.ChildByField("condition"))
	if err != nil {
		return nil, err
	}
	ok, err := runtime.Truthy(cond)
	if err != nil {
		return nil, wrapNode(node, err)
	}
	if err := i.pause(node); err != nil {
		return nil, err
	}
	if !ok {
		return i.eval(node.ChildByField("alternative"))
	}
	consequence := node.ChildByField("consequence")
	if consequence == nil {
		return nil, wrapNode(node, runtime.Unsupportedf("conditional without middle operand"))
	}
	return i.eval(consequence)
}

// parseNumber reads integer and floating literals, ignoring digit
// separators and type suffixes.
func parseNumber(text string) (runtime.Value, error) {
	lit := strings.ReplaceAll(text, "'", "")
	lower := strings.ToLower(lit)
	hex := strings.HasPrefix(lower, "0x")
	isFloat := strings.Contains(lower, ".") ||
		(!hex && strings.Contains(lower, "e")) ||
		(hex && strings.Contains(lower, "p"))
	if isFloat {
		trimmed := strings.TrimRight(lit, "fFlL")
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, runtime.Unsupportedf("number literal %s", text)
		}
		return runtime.FloatValue{Val: f}, nil
	}
	trimmed := strings.TrimRight(lit, "uUlLzZ")
	n, err := strconv.ParseInt(trimmed, 0, 64)
	if err != nil {
		u, uerr := strconv.ParseUint(trimmed, 0, 64)
		if uerr != nil {
			return nil, runtime.Unsupportedf("number literal %s", text)
		}
		n = int64(u)
	}
	return runtime.Int64(n), nil
}

func parseChar(text string) (runtime.Value, error) {
	if len(text) < 3 || text[0] != '\'' || text[len(text)-1] != '\'' {
		return nil, runtime.Unsupportedf("character literal %s", text)
	}
	r, _, tail, err := strconv.UnquoteChar(text[1:len(text)-1], '\'')
	if err != nil || tail != "" {
		return nil, runtime.Unsupportedf("character literal %s", text)
	}
	return runtime.Int64(int64(r)), nil
}
