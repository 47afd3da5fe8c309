package interpreter

import (
	"github.com/zojize/viz-list/pkg/runtime"
	"github.com/zojize/viz-list/pkg/syntax"
)

// lvalue resolves node to the cell it designates. The cell's Type is the
// static type of the location.
func (i *Interpreter) lvalue(node syntax.Node) (*runtime.Cell, error) {
	if node == nil {
		return nil, runtime.Unsupportedf("missing operand")
	}
	i.current = node
	switch node.Kind() {
	case "identifier":
		b, ok := i.env.Resolve(node.Text())
		if !ok {
			return nil, wrapNode(node, runtime.Detailf(runtime.ErrUndeclared, "%s", node.Text()))
		}
		cell, err := i.store.Cell(b.Loc)
		if err != nil {
			return nil, wrapNode(node, err)
		}
		if !cell.Alive() {
			return nil, wrapNode(node, runtime.Detailf(runtime.ErrDeadCell, "%s is no longer alive", b.Name))
		}
		return cell, nil
	case "parenthesized_expression":
		return i.lvalue(syntax.FirstNamedChild(node))
	case "field_expression":
		return i.fieldCell(node)
	case "subscript_expression":
		base, err := i.lvalue(node.ChildByField("argument"))
		if err != nil {
			return nil, err
		}
		val, err := base.Load()
		if err != nil {
			return nil, wrapNode(node, err)
		}
		return i.element(node, val)
	case "pointer_expression":
		if op := node.ChildByField("operator"); op == nil || op.Text() != "*" {
			return nil, wrapNode(node, runtime.Unsupportedf("address-of is not an lvalue"))
		}
		val, err := i.eval(node.ChildByField("argument"))
		if err != nil {
			return nil, err
		}
		return deref(node, val)
	default:
		return nil, wrapNode(node, runtime.Unsupportedf("%s is not an lvalue", node.Kind()))
	}
}

// deref returns the live cell a pointer value references.
func deref(node syntax.Node, val runtime.Value) (*runtime.Cell, error) {
	switch ptr := val.(type) {
	case runtime.PointerValue:
		if ptr.IsNull() {
			return nil, wrapNode(node, runtime.ErrNullDereference)
		}
		if !ptr.Ref.Alive() {
			return nil, wrapNode(node, runtime.ErrDeadCell)
		}
		return ptr.Ref, nil
	case runtime.NullValue:
		return nil, wrapNode(node, runtime.ErrNullDereference)
	default:
		return nil, wrapNode(node, runtime.Mismatchf("cannot dereference %s", describeValue(val)))
	}
}

// fieldCell resolves a.f and p->f to the member cell.
func (i *Interpreter) fieldCell(node syntax.Node) (*runtime.Cell, error) {
	argument := node.ChildByField("argument")
	fieldNode := node.ChildByField("field")
	op := node.ChildByField("operator")
	if argument == nil || fieldNode == nil || op == nil {
		return nil, wrapNode(node, runtime.Unsupportedf("field expression shape"))
	}

	var holder *runtime.Cell
	switch op.Text() {
	case ".":
		cell, err := i.lvalue(argument)
		if err != nil {
			return nil, err
		}
		holder = cell
	case "->":
		ptr, err := i.eval(argument)
		if err != nil {
			return nil, err
		}
		cell, err := deref(node, ptr)
		if err != nil {
			return nil, err
		}
		holder = cell
	default:
		return nil, wrapNode(node, runtime.Unsupportedf("field operator %s", op.Text()))
	}

	val, err := holder.Load()
	if err != nil {
		return nil, wrapNode(node, err)
	}
	st, ok := val.(*runtime.StructValue)
	if !ok {
		return nil, wrapNode(node, runtime.Mismatchf("operator %s applied to %s", op.Text(), describeValue(val)))
	}
	return i.member(node, st, fieldNode.Text())
}

func (i *Interpreter) member(node syntax.Node, st *runtime.StructValue, name string) (*runtime.Cell, error) {
	layout, ok := i.structs[st.Name]
	if !ok {
		return nil, wrapNode(node, runtime.Detailf(runtime.ErrStructNotFound, "struct %s not found", st.Name))
	}
	if _, ok := layout.Field(name); !ok {
		return nil, wrapNode(node, runtime.Detailf(runtime.ErrFieldNotFound, "struct %s has no field %s", st.Name, name))
	}
	cell, ok := st.Field(name)
	if !ok {
		return nil, wrapNode(node, runtime.Detailf(runtime.ErrFieldNotFound, "struct %s has no field %s", st.Name, name))
	}
	return cell, nil
}

// element indexes an array value with the single subscript of node.
func (i *Interpreter) element(node syntax.Node, base runtime.Value) (*runtime.Cell, error) {
	arr, ok := base.(*runtime.ArrayValue)
	if !ok {
		return nil, wrapNode(node, runtime.Mismatchf("subscript applied to %s", describeValue(base)))
	}
	indexNode, err := subscriptIndex(node)
	if err != nil {
		return nil, wrapNode(node, err)
	}
	idxVal, err := i.eval(indexNode)
	if err != nil {
		return nil, err
	}
	var idx int64
	switch v := idxVal.(type) {
	case runtime.IntValue:
		idx = v.Val
	case runtime.BoolValue:
		idx, _ = runtime.AsInt(v)
	default:
		return nil, wrapNode(indexNode, runtime.Mismatchf("array index must be an integer, got %s", describeValue(idxVal)))
	}
	if idx < 0 || idx >= int64(len(arr.Items)) {
		return nil, wrapNode(node, runtime.Detailf(runtime.ErrOutOfBounds, "index %d outside [0, %d)", idx, len(arr.Items)))
	}
	return arr.Items[idx], nil
}

func subscriptIndex(node syntax.Node) (syntax.Node, error) {
	if idx := node.ChildByField("index"); idx != nil {
		return idx, nil
	}
	list := node.ChildByField("indices")
	if list == nil {
		return nil, runtime.Unsupportedf("subscript without index")
	}
	var indices []syntax.Node
	for _, child := range list.NamedChildren() {
		if child.Kind() != "comment" {
			indices = append(indices, child)
		}
	}
	if len(indices) != 1 {
		return nil, runtime.Unsupportedf("multi-dimensional subscript")
	}
	return indices[0], nil
}
