package interpreter

import (
	"github.com/zojize/viz-list/pkg/runtime"
)

// cast converts v to a value of type t for storage. Aggregates are deep
// copied so the destination never shares cells with the source.
func (i *Interpreter) cast(t runtime.Type, v runtime.Value) (runtime.Value, error) {
	switch typ := t.(type) {
	case runtime.PrimitiveType:
		return castPrimitive(typ, v)
	case runtime.PointerType:
		return i.castPointer(typ, v)
	case runtime.ArrayType:
		arr, ok := v.(*runtime.ArrayValue)
		if !ok || len(arr.Items) != typ.Size {
			return nil, runtime.Mismatchf("cannot convert %s to %s", describeValue(v), t)
		}
		for _, item := range arr.Items {
			if !runtime.SameType(item.Type, typ.Of) {
				return nil, runtime.Mismatchf("cannot convert %s[] to %s", item.Type, t)
			}
		}
		return runtime.CopyValue(arr), nil
	case runtime.StructType:
		st, ok := v.(*runtime.StructValue)
		if !ok || st.Name != typ.Name {
			return nil, runtime.Mismatchf("cannot convert %s to %s", describeValue(v), t)
		}
		return runtime.CopyValue(st), nil
	default:
		return nil, runtime.Unsupportedf("cast to %v", t)
	}
}

func castPrimitive(t runtime.PrimitiveType, v runtime.Value) (runtime.Value, error) {
	if t.Name == runtime.Void {
		switch v.(type) {
		case nil, runtime.VoidValue:
			return runtime.NoVal, nil
		}
		return nil, runtime.Mismatchf("cannot convert %s to void", describeValue(v))
	}
	if t.Name == runtime.Bool {
		switch v.(type) {
		case runtime.IntValue, runtime.FloatValue, runtime.BoolValue, runtime.PointerValue, runtime.NullValue:
			b, err := runtime.Truthy(v)
			if err != nil {
				return nil, err
			}
			return runtime.BoolValue{Val: b}, nil
		}
		return nil, runtime.Mismatchf("cannot convert %s to bool", describeValue(v))
	}
	if !runtime.IsNumeric(v) {
		return nil, runtime.Mismatchf("cannot convert %s to %s", describeValue(v), t)
	}
	switch t.Name {
	case runtime.Int:
		n, ok := runtime.AsInt(v)
		if !ok {
			return nil, runtime.Mismatchf("cannot convert %s to int", describeValue(v))
		}
		return runtime.Int64(int64(int32(n))), nil
	case runtime.Char:
		n, ok := runtime.AsInt(v)
		if !ok {
			return nil, runtime.Mismatchf("cannot convert %s to char", describeValue(v))
		}
		return runtime.Int64(int64(int8(n))), nil
	case runtime.Float:
		f, _ := runtime.AsFloat(v)
		return runtime.FloatValue{Val: float64(float32(f))}, nil
	case runtime.Double:
		f, _ := runtime.AsFloat(v)
		return runtime.FloatValue{Val: f}, nil
	default:
		return nil, runtime.Unsupportedf("primitive %s", t.Name)
	}
}

func (i *Interpreter) castPointer(t runtime.PointerType, v runtime.Value) (runtime.Value, error) {
	switch val := v.(type) {
	case runtime.NullValue:
		return runtime.PointerValue{Ref: i.store.Null()}, nil
	case runtime.IntValue:
		// Only the literal zero converts to a pointer.
		if val.Val == 0 {
			return runtime.PointerValue{Ref: i.store.Null()}, nil
		}
	case runtime.PointerValue:
		if val.IsNull() {
			return runtime.PointerValue{Ref: i.store.Null()}, nil
		}
		if runtime.IsVoid(t.To) || runtime.SameType(val.Ref.Type, t.To) {
			return val, nil
		}
		return nil, runtime.Mismatchf("cannot convert %s* to %s", val.Ref.Type, t)
	}
	return nil, runtime.Mismatchf("cannot convert %s to %s", describeValue(v), t)
}

func describeValue(v runtime.Value) string {
	switch val := v.(type) {
	case nil:
		return "void"
	case *runtime.StructValue:
		return "struct " + val.Name
	default:
		return v.Kind().String()
	}
}
