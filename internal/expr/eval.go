package expr

import (
	"math"
)

// normalize folds Go numeric types onto the two numeric kinds the language
// knows about: float64 (Double) and int64 (Integer).
func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int16:
		return int64(n)
	case int8:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case float32:
		return float64(n)
	}
	return v
}

func applyUnary(op Operator, v any) (any, error) {
	switch x := normalize(v).(type) {
	case bool:
		if op == OpNot {
			return !x, nil
		}
	case float64:
		if op == OpNeg {
			return -x, nil
		}
	case int64:
		if op == OpNeg {
			if x == math.MinInt64 {
				return nil, overflow(op)
			}
			return -x, nil
		}
	}
	return nil, &OperandTypeError{Op: op, Left: v}
}

// applyBinary combines two operands of the same type. Mixed numeric types
// are rejected rather than coerced.
func applyBinary(op Operator, left, right any) (any, error) {
	l, r := normalize(left), normalize(right)
	switch a := l.(type) {
	case float64:
		if b, ok := r.(float64); ok {
			return floatOp(op, a, b)
		}
	case int64:
		if b, ok := r.(int64); ok {
			return intOp(op, a, b)
		}
	case string:
		if b, ok := r.(string); ok && op == OpAdd {
			return a + b, nil
		}
	case bool:
		if b, ok := r.(bool); ok {
			switch op {
			case OpAnd:
				return a && b, nil
			case OpOr:
				return a || b, nil
			}
		}
	}
	return nil, &OperandTypeError{Op: op, Left: left, Right: right}
}

func floatOp(op Operator, a, b float64) (any, error) {
	switch op {
	case OpAdd:
		return a + b, nil
	case OpSub:
		return a - b, nil
	case OpMul:
		return a * b, nil
	case OpDiv:
		return a / b, nil
	case OpMod:
		return math.Mod(a, b), nil
	case OpPow:
		return math.Pow(a, b), nil
	}
	return nil, &OperandTypeError{Op: op, Left: a, Right: b}
}

// intOp applies op to two Integers. Results that do not fit in int64 fail
// with an ArithmeticError instead of wrapping.
func intOp(op Operator, a, b int64) (any, error) {
	switch op {
	case OpAdd:
		c := a + b
		if (c > a) != (b > 0) {
			return nil, overflow(op)
		}
		return c, nil
	case OpSub:
		c := a - b
		if (c < a) != (b > 0) {
			return nil, overflow(op)
		}
		return c, nil
	case OpMul:
		c, ok := mulInt(a, b)
		if !ok {
			return nil, overflow(op)
		}
		return c, nil
	case OpDiv:
		if b == 0 {
			return nil, &ArithmeticError{Op: op, Msg: "integer division by zero"}
		}
		if a == math.MinInt64 && b == -1 {
			return nil, overflow(op)
		}
		return a / b, nil
	case OpMod:
		if b == 0 {
			return nil, &ArithmeticError{Op: op, Msg: "integer modulo by zero"}
		}
		return a % b, nil
	case OpPow:
		if b < 0 {
			return nil, &ArithmeticError{Op: op, Msg: "negative integer exponent"}
		}
		result, base := int64(1), a
		var ok bool
		for e := b; e > 0; e >>= 1 {
			if e&1 == 1 {
				if result, ok = mulInt(result, base); !ok {
					return nil, overflow(op)
				}
			}
			if e > 1 {
				if base, ok = mulInt(base, base); !ok {
					return nil, overflow(op)
				}
			}
		}
		return result, nil
	}
	return nil, &OperandTypeError{Op: op, Left: a, Right: b}
}

// mulInt multiplies a and b and reports whether the product fits in int64.
func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) || c/b != a {
		return 0, false
	}
	return c, true
}

func overflow(op Operator) error {
	return &ArithmeticError{Op: op, Msg: "integer overflow"}
}
