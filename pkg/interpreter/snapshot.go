package interpreter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zojize/viz-list/pkg/runtime"
	"github.com/zojize/viz-list/pkg/syntax"
)

// Snapshot is a read-only projection of interpreter state for display.
// Scopes is the running function's block chain, outermost first.
type Snapshot struct {
	Running   bool            `yaml:"running" json:"running"`
	Steps     int             `yaml:"steps" json:"steps"`
	Current   *NodeView       `yaml:"current,omitempty" json:"current,omitempty"`
	Structs   []StructView    `yaml:"structs,omitempty" json:"structs,omitempty"`
	Functions []FuncView      `yaml:"functions,omitempty" json:"functions,omitempty"`
	Globals   []BindingView   `yaml:"globals,omitempty" json:"globals,omitempty"`
	Scopes    [][]BindingView `yaml:"scopes,omitempty" json:"scopes,omitempty"`
	CallStack []FrameView     `yaml:"call_stack,omitempty" json:"call_stack,omitempty"`
	Cells     []CellView      `yaml:"cells" json:"cells"`
	Edges     []Edge          `yaml:"edges,omitempty" json:"edges,omitempty"`
}

type NodeView struct {
	Kind     string `yaml:"kind" json:"kind"`
	Text     string `yaml:"text" json:"text"`
	Location string `yaml:"location,omitempty" json:"location,omitempty"`
}

type FieldView struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

type StructView struct {
	Name   string      `yaml:"name" json:"name"`
	Fields []FieldView `yaml:"fields" json:"fields"`
}

type FuncView struct {
	Name    string      `yaml:"name" json:"name"`
	Returns string      `yaml:"returns" json:"returns"`
	Params  []FieldView `yaml:"params,omitempty" json:"params,omitempty"`
}

type BindingView struct {
	Name  string `yaml:"name" json:"name"`
	Type  string `yaml:"type" json:"type"`
	Cell  string `yaml:"cell" json:"cell"`
	Value string `yaml:"value" json:"value"`
}

type FrameView struct {
	Function string          `yaml:"function" json:"function"`
	Scopes   [][]BindingView `yaml:"scopes,omitempty" json:"scopes,omitempty"`
}

type CellView struct {
	Label  string `yaml:"label" json:"label"`
	Type   string `yaml:"type" json:"type"`
	Origin string `yaml:"origin" json:"origin"`
	Alive  bool   `yaml:"alive" json:"alive"`
	Value  string `yaml:"value" json:"value"`
}

// Edge is a pointer stored in cell From referencing cell To.
type Edge struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// Snapshot captures the current state. It never mutates the interpreter.
func (i *Interpreter) Snapshot() Snapshot {
	snap := Snapshot{
		Running: i.Running(),
		Steps:   i.Steps(),
		Current: viewNode(i.current),
	}
	for _, name := range i.structOrder {
		layout := i.structs[name]
		sv := StructView{Name: name}
		for _, f := range layout.Fields {
			sv.Fields = append(sv.Fields, FieldView{Name: f.Name, Type: f.Type.String()})
		}
		snap.Structs = append(snap.Structs, sv)
	}
	for _, name := range i.functionOrder {
		fn := i.functions[name]
		fv := FuncView{Name: name, Returns: fn.ReturnType.String()}
		for _, p := range fn.Params {
			fv.Params = append(fv.Params, FieldView{Name: p.Name, Type: p.Type.String()})
		}
		snap.Functions = append(snap.Functions, fv)
	}
	snap.Globals = i.viewScope(i.env.Globals)
	snap.Scopes = i.viewScopes(i.env.Scopes())
	for _, frame := range i.env.CallStack() {
		snap.CallStack = append(snap.CallStack, FrameView{Function: frame.Function, Scopes: i.viewScopes(frame.Scopes)})
	}
	for _, c := range i.store.Cells() {
		snap.Cells = append(snap.Cells, CellView{
			Label:  CellLabel(c),
			Type:   c.Type.String(),
			Origin: string(c.Origin),
			Alive:  c.Alive(),
			Value:  FormatValue(c.Peek()),
		})
		snap.Edges = appendEdges(snap.Edges, c)
	}
	return snap
}

func viewNode(n syntax.Node) *NodeView {
	if n == nil {
		return nil
	}
	return &NodeView{
		Kind:     n.Kind(),
		Text:     strings.Join(strings.Fields(n.Text()), " "),
		Location: n.Span().String(),
	}
}

func (i *Interpreter) viewScopes(scopes []*runtime.Scope) [][]BindingView {
	var out [][]BindingView
	for _, s := range scopes {
		out = append(out, i.viewScope(s))
	}
	return out
}

func (i *Interpreter) viewScope(s *runtime.Scope) []BindingView {
	if s == nil {
		return nil
	}
	views := []BindingView{}
	for _, b := range s.Bindings() {
		bv := BindingView{Name: b.Name, Type: b.Type.String(), Cell: "#" + strconv.Itoa(b.Loc)}
		if c, err := i.store.Cell(b.Loc); err == nil {
			bv.Value = FormatValue(c.Peek())
		}
		views = append(views, bv)
	}
	return views
}

func appendEdges(edges []Edge, c *runtime.Cell) []Edge {
	switch val := c.Peek().(type) {
	case runtime.PointerValue:
		if !val.IsNull() {
			edges = append(edges, Edge{From: CellLabel(c), To: CellLabel(val.Ref)})
		}
	case *runtime.ArrayValue:
		for _, item := range val.Items {
			edges = appendEdges(edges, item)
		}
	case *runtime.StructValue:
		for _, f := range val.Fields {
			edges = appendEdges(edges, f.Cell)
		}
	}
	return edges
}

// CellLabel names a cell by store position: "#3", "#3.next", "#4[1]".
func CellLabel(c *runtime.Cell) string {
	if c == nil {
		return "#?"
	}
	if c.Index >= 0 {
		return "#" + strconv.Itoa(c.Index)
	}
	parent := c.Parent()
	if parent == nil {
		return "#?"
	}
	prefix := CellLabel(parent)
	switch val := parent.Peek().(type) {
	case *runtime.ArrayValue:
		for idx, item := range val.Items {
			if item == c {
				return fmt.Sprintf("%s[%d]", prefix, idx)
			}
		}
	case *runtime.StructValue:
		for _, f := range val.Fields {
			if f.Cell == c {
				return prefix + "." + f.Name
			}
		}
	}
	return prefix + ".?"
}

// FormatValue renders v the way the snapshot shows it.
func FormatValue(v runtime.Value) string {
	switch val := v.(type) {
	case nil:
		return ""
	case runtime.IntValue:
		return strconv.FormatInt(val.Val, 10)
	case runtime.FloatValue:
		return strconv.FormatFloat(val.Val, 'g', -1, 64)
	case runtime.BoolValue:
		return strconv.FormatBool(val.Val)
	case runtime.NullValue:
		return "nullptr"
	case runtime.VoidValue:
		return "void"
	case runtime.PointerValue:
		if val.IsNull() {
			return "nullptr"
		}
		return "&" + CellLabel(val.Ref)
	case *runtime.ArrayValue:
		parts := make([]string, len(val.Items))
		for idx, item := range val.Items {
			parts[idx] = FormatValue(item.Peek())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *runtime.StructValue:
		parts := make([]string, len(val.Fields))
		for idx, f := range val.Fields {
			parts[idx] = f.Name + ": " + FormatValue(f.Cell.Peek())
		}
		return val.Name + "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}
