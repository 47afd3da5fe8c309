package interpreter

import "github.com/zojize/viz-list/pkg/runtime"

// arithmeticOperand coerces null to 0 and rejects non-scalar operands.
func arithmeticOperand(op string, v runtime.Value) (runtime.Value, error) {
	switch val := v.(type) {
	case runtime.NullValue:
		return runtime.Int64(0), nil
	case runtime.BoolValue:
		if val.Val {
			return runtime.Int64(1), nil
		}
		return runtime.Int64(0), nil
	case runtime.IntValue, runtime.FloatValue:
		return v, nil
	case runtime.PointerValue:
		return nil, runtime.Unsupportedf("pointer arithmetic with %s", op)
	default:
		return nil, runtime.Mismatchf("operator %s applied to %s", op, describeValue(v))
	}
}

func binaryOp(op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "==", "!=":
		eq, err := equal(left, right)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: eq == (op == "==")}, nil
	}

	l, err := arithmeticOperand(op, left)
	if err != nil {
		return nil, err
	}
	r, err := arithmeticOperand(op, right)
	if err != nil {
		return nil, err
	}
	li, lInt := l.(runtime.IntValue)
	ri, rInt := r.(runtime.IntValue)
	if lInt && rInt {
		return intOp(op, li.Val, ri.Val)
	}
	lf, _ := runtime.AsFloat(l)
	rf, _ := runtime.AsFloat(r)
	return floatOp(op, lf, rf)
}

func intOp(op string, a, b int64) (runtime.Value, error) {
	switch op {
	case "+":
		return runtime.Int64(a + b), nil
	case "-":
		return runtime.Int64(a - b), nil
	case "*":
		return runtime.Int64(a * b), nil
	case "/":
		if b == 0 {
			return nil, runtime.ErrDivisionByZero
		}
		return runtime.Int64(a / b), nil
	case "%":
		if b == 0 {
			return nil, runtime.ErrDivisionByZero
		}
		return runtime.Int64(a % b), nil
	case "&":
		return runtime.Int64(a & b), nil
	case "|":
		return runtime.Int64(a | b), nil
	case "^":
		return runtime.Int64(a ^ b), nil
	case "<<", ">>":
		if b < 0 || b > 63 {
			return nil, runtime.Unsupportedf("shift count %d", b)
		}
		if op == "<<" {
			return runtime.Int64(a << uint(b)), nil
		}
		return runtime.Int64(a >> uint(b)), nil
	case "<":
		return runtime.BoolValue{Val: a < b}, nil
	case ">":
		return runtime.BoolValue{Val: a > b}, nil
	case "<=":
		return runtime.BoolValue{Val: a <= b}, nil
	case ">=":
		return runtime.BoolValue{Val: a >= b}, nil
	default:
		return nil, runtime.Unsupportedf("binary operator %s", op)
	}
}

func floatOp(op string, a, b float64) (runtime.Value, error) {
	switch op {
	case "+":
		return runtime.FloatValue{Val: a + b}, nil
	case "-":
		return runtime.FloatValue{Val: a - b}, nil
	case "*":
		return runtime.FloatValue{Val: a * b}, nil
	case "/":
		return runtime.FloatValue{Val: a / b}, nil
	case "<":
		return runtime.BoolValue{Val: a < b}, nil
	case ">":
		return runtime.BoolValue{Val: a > b}, nil
	case "<=":
		return runtime.BoolValue{Val: a <= b}, nil
	case ">=":
		return runtime.BoolValue{Val: a >= b}, nil
	case "%", "&", "|", "^", "<<", ">>":
		return nil, runtime.Mismatchf("operator %s requires integer operands", op)
	default:
		return nil, runtime.Unsupportedf("binary operator %s", op)
	}
}

// equal compares pointers by referenced cell, with null standing for the
// NULL cell, and everything else numerically.
func equal(left, right runtime.Value) (bool, error) {
	lp, lPtr := pointerLike(left)
	rp, rPtr := pointerLike(right)
	if lPtr && isZero(right) {
		rp, rPtr = runtime.PointerValue{}, true
	}
	if rPtr && isZero(left) {
		lp, lPtr = runtime.PointerValue{}, true
	}
	if lPtr || rPtr {
		if !lPtr || !rPtr {
			return false, runtime.Mismatchf("cannot compare %s with %s", describeValue(left), describeValue(right))
		}
		if lp.IsNull() || rp.IsNull() {
			return lp.IsNull() && rp.IsNull(), nil
		}
		return lp.Ref == rp.Ref, nil
	}
	if !runtime.IsNumeric(left) || !runtime.IsNumeric(right) {
		return false, runtime.Unsupportedf("comparison of %s with %s", describeValue(left), describeValue(right))
	}
	li, lInt := runtime.AsInt(left)
	ri, rInt := runtime.AsInt(right)
	_, lFloat := left.(runtime.FloatValue)
	_, rFloat := right.(runtime.FloatValue)
	if !lFloat && !rFloat && lInt && rInt {
		return li == ri, nil
	}
	lf, _ := runtime.AsFloat(left)
	rf, _ := runtime.AsFloat(right)
	return lf == rf, nil
}

// pointerLike reports pointer-shaped operands.
func pointerLike(v runtime.Value) (runtime.PointerValue, bool) {
	switch val := v.(type) {
	case runtime.PointerValue:
		return val, true
	case runtime.NullValue:
		return runtime.PointerValue{}, true
	default:
		return runtime.PointerValue{}, false
	}
}

func unaryOp(op string, v runtime.Value) (runtime.Value, error) {
	if op == "!" {
		switch v.(type) {
		case *runtime.ArrayValue, *runtime.StructValue:
			return nil, runtime.Mismatchf("operator ! applied to %s", describeValue(v))
		}
		ok, err := runtime.Truthy(v)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: !ok}, nil
	}
	operand, err := arithmeticOperand(op, v)
	if err != nil {
		return nil, err
	}
	switch val := operand.(type) {
	case runtime.IntValue:
		switch op {
		case "-":
			return runtime.Int64(-val.Val), nil
		case "+":
			return val, nil
		case "~":
			return runtime.Int64(^val.Val), nil
		}
	case runtime.FloatValue:
		switch op {
		case "-":
			return runtime.FloatValue{Val: -val.Val}, nil
		case "+":
			return val, nil
		case "~":
			return nil, runtime.Mismatchf("operator ~ requires an integer operand")
		}
	}
	return nil, runtime.Unsupportedf("unary operator %s", op)
}

// stepValue applies ++ or -- to a scalar.
func stepValue(op string, v runtime.Value) (runtime.Value, error) {
	delta := int64(1)
	if op == "--" {
		delta = -1
	}
	switch val := v.(type) {
	case runtime.IntValue:
		return runtime.Int64(val.Val + delta), nil
	case runtime.FloatValue:
		return runtime.FloatValue{Val: val.Val + float64(delta)}, nil
	case runtime.PointerValue:
		return nil, runtime.Unsupportedf("pointer arithmetic with %s", op)
	default:
		return nil, runtime.Mismatchf("operator %s applied to %s", op, describeValue(v))
	}
}

// compoundOperator maps "+=" to "+"; plain assignment yields "".
func compoundOperator(op string) (string, bool) {
	switch op {
	case "=":
		return "", true
	case "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=":
		return op[:len(op)-1], true
	default:
		return "", false
	}
}

// isZero reports an integer zero, which compares like null against a
// pointer.
func isZero(v runtime.Value) bool {
	n, ok := v.(runtime.IntValue)
	return ok && n.Val == 0
}
