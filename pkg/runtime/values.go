package runtime

import (
	"fmt"
	"math"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindPointer
	KindArray
	KindStruct
	KindNull
	KindVoid
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindNull:
		return "null"
	case KindVoid:
		return "void"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type IntValue struct {
	Val int64
}

func (v IntValue) Kind() Kind { return KindInt }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

// NullValue is the nullptr/NULL literal before it is cast to a pointer type.
type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

// VoidValue is what a call produces when the callee returns nothing.
type VoidValue struct{}

func (VoidValue) Kind() Kind { return KindVoid }

var (
	Null  = NullValue{}
	NoVal = VoidValue{}
)

//-----------------------------------------------------------------------------
// References and aggregates
//-----------------------------------------------------------------------------

// PointerValue references exactly one cell.
type PointerValue struct {
	Ref *Cell
}

func (v PointerValue) Kind() Kind { return KindPointer }

// IsNull reports whether the pointer references the NULL cell.
func (v PointerValue) IsNull() bool { return v.Ref == nil || v.Ref.IsNull() }

type ArrayValue struct {
	Items []*Cell
}

func (v *ArrayValue) Kind() Kind { return KindArray }

type StructField struct {
	Name string
	Cell *Cell
}

type StructValue struct {
	Name   string
	Fields []StructField
}

func (v *StructValue) Kind() Kind { return KindStruct }

// Field returns the sub-cell holding the named field.
func (v *StructValue) Field(name string) (*Cell, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Cell, true
		}
	}
	return nil, false
}

//-----------------------------------------------------------------------------
// Helpers
//-----------------------------------------------------------------------------

// Int64 constructs an integer value.
func Int64(n int64) IntValue { return IntValue{Val: n} }

// IsNumeric reports whether v participates in arithmetic directly.
func IsNumeric(v Value) bool {
	switch v.(type) {
	case IntValue, FloatValue, BoolValue:
		return true
	default:
		return false
	}
}

// AsFloat converts a numeric value to float64.
func AsFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case IntValue:
		return float64(n.Val), true
	case FloatValue:
		return n.Val, true
	case BoolValue:
		if n.Val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// AsInt converts a numeric value to int64, truncating floats toward zero.
func AsInt(v Value) (int64, bool) {
	switch n := v.(type) {
	case IntValue:
		return n.Val, true
	case FloatValue:
		if math.IsNaN(n.Val) || math.IsInf(n.Val, 0) {
			return 0, false
		}
		return int64(n.Val), true
	case BoolValue:
		if n.Val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Truthy applies condition semantics: nonzero numbers, true, non-null
// pointers, and every array or struct are true.
func Truthy(v Value) (bool, error) {
	switch val := v.(type) {
	case IntValue:
		return val.Val != 0, nil
	case FloatValue:
		return val.Val != 0, nil
	case BoolValue:
		return val.Val, nil
	case PointerValue:
		return !val.IsNull(), nil
	case NullValue:
		return false, nil
	case *ArrayValue, *StructValue:
		return true, nil
	case nil, VoidValue:
		return false, Mismatchf("void value used as a condition")
	default:
		return false, Mismatchf("%s value used as a condition", v.Kind())
	}
}

// CopyValue duplicates v. Aggregates receive fresh, unattached sub-cells so
// the copy shares no storage with the original.
func CopyValue(v Value) Value {
	switch val := v.(type) {
	case *ArrayValue:
		items := make([]*Cell, len(val.Items))
		for idx, item := range val.Items {
			items[idx] = NewMemberCell(item.Type, CopyValue(item.Peek()))
		}
		return &ArrayValue{Items: items}
	case *StructValue:
		fields := make([]StructField, len(val.Fields))
		for idx, f := range val.Fields {
			fields[idx] = StructField{Name: f.Name, Cell: NewMemberCell(f.Cell.Type, CopyValue(f.Cell.Peek()))}
		}
		return &StructValue{Name: val.Name, Fields: fields}
	default:
		return v
	}
}

// StructLookup resolves struct layouts by name.
type StructLookup interface {
	Layout(name string) (*StructLayout, bool)
}

// ZeroValue builds the default value for t: zero scalars, null pointers, and
// recursively zeroed aggregates. void has no zero value.
func ZeroValue(t Type, structs StructLookup, null *Cell) (Value, error) {
	switch typ := t.(type) {
	case PrimitiveType:
		switch {
		case typ.Integral():
			return IntValue{}, nil
		case typ.Floating():
			return FloatValue{}, nil
		case typ.Name == Bool:
			return BoolValue{}, nil
		default:
			return nil, Mismatchf("cannot initialize void type")
		}
	case PointerType:
		return PointerValue{Ref: null}, nil
	case ArrayType:
		items := make([]*Cell, typ.Size)
		for idx := range items {
			val, err := ZeroValue(typ.Of, structs, null)
			if err != nil {
				return nil, err
			}
			items[idx] = NewMemberCell(typ.Of, val)
		}
		return &ArrayValue{Items: items}, nil
	case StructType:
		layout, ok := structs.Layout(typ.Name)
		if !ok {
			return nil, Detailf(ErrStructNotFound, "struct %s not found", typ.Name)
		}
		fields := make([]StructField, len(layout.Fields))
		for idx, f := range layout.Fields {
			val, err := ZeroValue(f.Type, structs, null)
			if err != nil {
				return nil, err
			}
			fields[idx] = StructField{Name: f.Name, Cell: NewMemberCell(f.Type, val)}
		}
		return &StructValue{Name: typ.Name, Fields: fields}, nil
	default:
		return nil, Unsupportedf("type %v", t)
	}
}
