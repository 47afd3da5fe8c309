package interpreter

import (
	"github.com/zojize/viz-list/pkg/runtime"
	"github.com/zojize/viz-list/pkg/syntax"
)

func (i *Interpreter) exec(node syntax.Node) (completion, error) {
	if node == nil {
		return normal, runtime.Unsupportedf("missing statement")
	}
	i.current = node
	switch node.Kind() {
	case "compound_statement":
		return i.execBlock(node, false)
	case "declaration":
		scope := i.env.Current()
		if scope == nil {
			return normal, wrapNode(node, runtime.Unsupportedf("declaration outside a block"))
		}
		if err := i.declareVariables(node, scope, runtime.OriginLocal); err != nil {
			return normal, err
		}
		return normal, i.pause(node)
	case "expression_statement":
		if expr := syntax.FirstNamedChild(node); expr != nil {
			if _, err := i.eval(expr); err != nil {
				return normal, err
			}
		}
		return normal, i.pause(node)
	case "return_statement":
		var val runtime.Value = runtime.NoVal
		if expr := syntax.FirstNamedChild(node); expr != nil {
			v, err := i.eval(expr)
			if err != nil {
				return normal, err
			}
			val = v
		}
		if err := i.pause(node); err != nil {
			return normal, err
		}
		return returned(val), nil
	case "if_statement":
		return i.execIf(node)
	case "while_statement":
		return i.execWhile(node)
	case "do_statement":
		return i.execDo(node)
	case "for_statement":
		return i.execFor(node)
	case "break_statement":
		return breakOut, nil
	case "continue_statement":
		return continueOn, nil
	case "comment":
		return normal, nil
	default:
		return normal, wrapNode(node, runtime.Unsupportedf("statement %s", node.Kind()))
	}
}

// execBlock runs a compound statement in a fresh scope and kills the
// scope's cells on exit. A function body also unwinds the call frame. On
// failure the state is left as it was so it can be inspected.
func (i *Interpreter) execBlock(node syntax.Node, functionBody bool) (completion, error) {
	i.env.PushScope()
	c, err := i.execStatements(node.NamedChildren())
	if err != nil {
		return c, err
	}
	i.release(i.env.PopScope())
	if functionBody {
		for _, scope := range i.env.Return() {
			i.release(scope)
		}
	}
	return c, nil
}

func (i *Interpreter) execStatements(stmts []syntax.Node) (completion, error) {
	for _, stmt := range stmts {
		c, err := i.exec(stmt)
		if err != nil {
			return normal, err
		}
		if c.abrupt() {
			return c, nil
		}
	}
	return normal, nil
}

func (i *Interpreter) execIf(node syntax.Node) (completion, error) {
	ok, err := i.test(node.ChildByField("condition"))
	if err != nil {
		return normal, err
	}
	if ok {
		return i.exec(node.ChildByField("consequence"))
	}
	alt := node.ChildByField("alternative")
	if alt == nil {
		return normal, nil
	}
	if alt.Kind() == "else_clause" {
		alt = lastStatement(alt)
		if alt == nil {
			return normal, nil
		}
	}
	return i.exec(alt)
}

func (i *Interpreter) execWhile(node syntax.Node) (completion, error) {
	cond := node.ChildByField("condition")
	body := node.ChildByField("body")
	for {
		ok, err := i.test(cond)
		if err != nil || !ok {
			return normal, err
		}
		c, err := i.exec(body)
		if err != nil {
			return normal, err
		}
		switch c.kind {
		case completeBreak:
			return normal, nil
		case completeReturn:
			return c, nil
		}
	}
}

func (i *Interpreter) execDo(node syntax.Node) (completion, error) {
	cond := node.ChildByField("condition")
	body := node.ChildByField("body")
	for {
		c, err := i.exec(body)
		if err != nil {
			return normal, err
		}
		switch c.kind {
		case completeBreak:
			return normal, nil
		case completeReturn:
			return c, nil
		}
		ok, err := i.test(cond)
		if err != nil || !ok {
			return normal, err
		}
	}
}

// execFor runs a for loop. A declaration in the header lives in its own
// scope that is released when the loop exits.
func (i *Interpreter) execFor(node syntax.Node) (completion, error) {
	init := node.ChildByField("initializer")
	cond := node.ChildByField("condition")
	update := node.ChildByField("update")
	body := node.ChildByField("body")

	scoped := false
	if init != nil {
		if init.Kind() == "declaration" {
			scoped = true
			i.env.PushScope()
			if err := i.declareVariables(init, i.env.Current(), runtime.OriginLocal); err != nil {
				return normal, err
			}
		} else if _, err := i.eval(init); err != nil {
			return normal, err
		}
		if err := i.pause(init); err != nil {
			return normal, err
		}
	}

	c, err := i.forLoop(cond, update, body)
	if err != nil {
		return normal, err
	}
	if scoped {
		i.release(i.env.PopScope())
	}
	return c, nil
}

func (i *Interpreter) forLoop(cond, update, body syntax.Node) (completion, error) {
	for {
		if cond != nil {
			ok, err := i.test(cond)
			if err != nil || !ok {
				return normal, err
			}
		}
		c, err := i.exec(body)
		if err != nil {
			return normal, err
		}
		switch c.kind {
		case completeBreak:
			return normal, nil
		case completeReturn:
			return c, nil
		}
		if update != nil {
			if _, err := i.eval(update); err != nil {
				return normal, err
			}
			if err := i.pause(update); err != nil {
				return normal, err
			}
		}
	}
}

// test evaluates a loop or branch condition, suspends on it, and applies
// truthiness.
func (i *Interpreter) test(node syntax.Node) (bool, error) {
	if node == nil {
		return false, runtime.Unsupportedf("missing condition")
	}
	expr := node
	if node.Kind() == "condition_clause" {
		if node.ChildByField("initializer") != nil {
			return false, wrapNode(node, runtime.Unsupportedf("condition with initializer"))
		}
		expr = node.ChildByField("value")
		if expr == nil {
			return false, wrapNode(node, runtime.Unsupportedf("empty condition"))
		}
		if expr.Kind() == "declaration" {
			return false, wrapNode(node, runtime.Unsupportedf("declaration as condition"))
		}
	}
	val, err := i.eval(expr)
	if err != nil {
		return false, err
	}
	ok, err := runtime.Truthy(val)
	if err != nil {
		return false, wrapNode(node, err)
	}
	return ok, i.pause(node)
}

func lastStatement(n syntax.Node) syntax.Node {
	children := n.NamedChildren()
	for idx := len(children) - 1; idx >= 0; idx-- {
		if children[idx].Kind() != "comment" {
			return children[idx]
		}
	}
	return nil
}

// invoke runs fn's body in the frame its caller installed and casts the
// result to the declared return type.
func (i *Interpreter) invoke(fn *Function) (runtime.Value, error) {
	c, err := i.execBlock(fn.Body, true)
	if err != nil {
		return nil, err
	}
	switch c.kind {
	case completeReturn:
		val, err := i.cast(fn.ReturnType, c.value)
		if err != nil {
			return nil, wrapNode(fn.Node, err)
		}
		return val, nil
	case completeNormal:
		if fn.Name == "main" {
			return runtime.Int64(0), nil
		}
		return runtime.NoVal, nil
	default:
		return nil, wrapNode(fn.Node, runtime.Unsupportedf("%s outside a loop", c.kind))
	}
}

func (i *Interpreter) callFunction(node syntax.Node) (runtime.Value, error) {
	callee := node.ChildByField("function")
	if callee == nil || callee.Kind() != "identifier" {
		return nil, wrapNode(node, runtime.Unsupportedf("indirect call"))
	}
	fn, ok := i.functions[callee.Text()]
	if !ok {
		return nil, wrapNode(callee, runtime.Detailf(runtime.ErrUndeclared, "function %s", callee.Text()))
	}
	var args []syntax.Node
	if list := node.ChildByField("arguments"); list != nil {
		for _, arg := range list.NamedChildren() {
			if arg.Kind() != "comment" {
				args = append(args, arg)
			}
		}
	}
	if len(args) != len(fn.Params) {
		return nil, wrapNode(node, runtime.Detailf(runtime.ErrArity,
			"%s expects %d arguments, got %d", fn.Name, len(fn.Params), len(args)))
	}

	vals := make([]runtime.Value, len(args))
	for idx, arg := range args {
		raw, err := i.eval(arg)
		if err != nil {
			return nil, err
		}
		val, err := i.cast(fn.Params[idx].Type, raw)
		if err != nil {
			return nil, wrapNode(arg, err)
		}
		vals[idx] = val
	}

	params := runtime.NewScope()
	for idx, p := range fn.Params {
		loc := i.store.Allocate(p.Type, vals[idx], runtime.OriginParam)
		if err := params.Define(p.Name, p.Type, loc); err != nil {
			return nil, wrapNode(node, err)
		}
	}
	i.env.Call(fn.Name, params)
	return i.invoke(fn)
}
