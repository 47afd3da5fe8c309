package runtime

import (
	"fmt"
	"strings"
)

// TypeKind identifies the static type category.
type TypeKind int

const (
	TypePrimitive TypeKind = iota
	TypePointer
	TypeArray
	TypeStruct
)

func (k TypeKind) String() string {
	switch k {
	case TypePrimitive:
		return "primitive"
	case TypePointer:
		return "pointer"
	case TypeArray:
		return "array"
	case TypeStruct:
		return "struct"
	default:
		return fmt.Sprintf("unknown_type_kind_%d", int(k))
	}
}

// Type is the shared behaviour for all static types.
type Type interface {
	Kind() TypeKind
	String() string
}

// Primitive names the scalar types.
type Primitive string

const (
	Int    Primitive = "int"
	Float  Primitive = "float"
	Double Primitive = "double"
	Char   Primitive = "char"
	Bool   Primitive = "bool"
	Void   Primitive = "void"
)

// ParsePrimitive maps a primitive_type token to its Primitive.
func ParsePrimitive(name string) (Primitive, bool) {
	switch p := Primitive(strings.TrimSpace(name)); p {
	case Int, Float, Double, Char, Bool, Void:
		return p, true
	default:
		return "", false
	}
}

type PrimitiveType struct {
	Name Primitive
}

func (t PrimitiveType) Kind() TypeKind { return TypePrimitive }
func (t PrimitiveType) String() string { return string(t.Name) }

// Integral reports whether values of t are stored as integers.
func (t PrimitiveType) Integral() bool { return t.Name == Int || t.Name == Char }

// Floating reports whether values of t are stored as floats.
func (t PrimitiveType) Floating() bool { return t.Name == Float || t.Name == Double }

type PointerType struct {
	To Type
}

func (t PointerType) Kind() TypeKind { return TypePointer }
func (t PointerType) String() string { return t.To.String() + "*" }

type ArrayType struct {
	Of   Type
	Size int
}

func (t ArrayType) Kind() TypeKind { return TypeArray }
func (t ArrayType) String() string {
	return fmt.Sprintf("%s[%d]", t.Of.String(), t.Size)
}

type StructType struct {
	Name string
}

func (t StructType) Kind() TypeKind { return TypeStruct }
func (t StructType) String() string { return "struct " + t.Name }

// Prim is shorthand for a primitive type.
func Prim(name Primitive) PrimitiveType { return PrimitiveType{Name: name} }

// PointerTo wraps t in a pointer type.
func PointerTo(t Type) PointerType { return PointerType{To: t} }

// IsVoid reports whether t is the void primitive.
func IsVoid(t Type) bool {
	p, ok := t.(PrimitiveType)
	return ok && p.Name == Void
}

// SameType reports structural type equality.
func SameType(a, b Type) bool {
	switch at := a.(type) {
	case PrimitiveType:
		bt, ok := b.(PrimitiveType)
		return ok && at.Name == bt.Name
	case PointerType:
		bt, ok := b.(PointerType)
		return ok && SameType(at.To, bt.To)
	case ArrayType:
		bt, ok := b.(ArrayType)
		return ok && at.Size == bt.Size && SameType(at.Of, bt.Of)
	case StructType:
		bt, ok := b.(StructType)
		return ok && at.Name == bt.Name
	default:
		return false
	}
}

// Field is one member of a struct layout.
type Field struct {
	Name string
	Type Type
}

// StructLayout is an ordered field list with name lookup.
type StructLayout struct {
	Name   string
	Fields []Field
	index  map[string]int
}

// NewStructLayout builds an empty layout for name.
func NewStructLayout(name string) *StructLayout {
	return &StructLayout{Name: name, index: make(map[string]int)}
}

// AddField appends a field; duplicate names are rejected.
func (s *StructLayout) AddField(name string, typ Type) error {
	if _, ok := s.index[name]; ok {
		return Detailf(ErrRedeclared, "field %s already declared in struct %s", name, s.Name)
	}
	s.index[name] = len(s.Fields)
	s.Fields = append(s.Fields, Field{Name: name, Type: typ})
	return nil
}

// Field looks up a field by name.
func (s *StructLayout) Field(name string) (Field, bool) {
	idx, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[idx], true
}
