package operators

import (
	"fmt"
	"math"

	"veld/semantics-go/pkg/runtime"
)

// strictNumericArithmetic handles the four numeric kind pairs. Two ints stay
// on the int kernel, promoting to float only when the exact result does not
// fit; any float operand widens both sides to the float kernel.
func strictNumericArithmetic(op Op, left, right runtime.Value) (runtime.Value, error) {
	if li, ok := left.(runtime.IntValue); ok {
		if ri, ok := right.(runtime.IntValue); ok {
			return intArithmetic(op, li.Val, ri.Val)
		}
	}
	return floatArithmetic(op, widenFloat(left), widenFloat(right))
}

func widenFloat(v runtime.Value) float64 {
	switch v := v.(type) {
	case runtime.IntValue:
		return float64(v.Val)
	case runtime.FloatValue:
		return v.Val
	}
	return 0
}

func legacyNumericArithmetic(op Op, left, right runtime.Value) (runtime.Value, error) {
	ln, ok := legacyNumber(left)
	if !ok {
		return nil, newUnsupportedBinary(op, left, right)
	}
	rn, ok := legacyNumber(right)
	if !ok {
		return nil, newUnsupportedBinary(op, left, right)
	}
	if op == OpMod {
		// Legacy modulo is integral: both operands truncate to int first.
		return intArithmetic(op, ln.Int(), rn.Int())
	}
	if !ln.isFloat && !rn.isFloat {
		return intArithmetic(op, ln.i, rn.i)
	}
	return floatArithmetic(op, ln.Float(), rn.Float())
}

func intArithmetic(op Op, a, b int64) (runtime.Value, error) {
	switch op {
	case OpAdd:
		if sum, ok := addInt(a, b); ok {
			return runtime.IntValue{Val: sum}, nil
		}
		return runtime.FloatValue{Val: float64(a) + float64(b)}, nil
	case OpSub:
		if diff, ok := subInt(a, b); ok {
			return runtime.IntValue{Val: diff}, nil
		}
		return runtime.FloatValue{Val: float64(a) - float64(b)}, nil
	case OpMul:
		if prod, ok := mulInt(a, b); ok {
			return runtime.IntValue{Val: prod}, nil
		}
		return runtime.FloatValue{Val: float64(a) * float64(b)}, nil
	case OpDiv:
		if b == 0 {
			return nil, newDivisionByZero(false)
		}
		if a%b != 0 {
			return runtime.FloatValue{Val: float64(a) / float64(b)}, nil
		}
		if a == math.MinInt64 && b == -1 {
			return runtime.FloatValue{Val: -float64(math.MinInt64)}, nil
		}
		return runtime.IntValue{Val: a / b}, nil
	case OpMod:
		if b == 0 {
			return nil, newDivisionByZero(true)
		}
		return runtime.IntValue{Val: a % b}, nil
	case OpPow:
		return intPow(a, b)
	}
	return nil, fmt.Errorf("operator %s is not arithmetic", op)
}

func floatArithmetic(op Op, a, b float64) (runtime.Value, error) {
	switch op {
	case OpAdd:
		return runtime.FloatValue{Val: a + b}, nil
	case OpSub:
		return runtime.FloatValue{Val: a - b}, nil
	case OpMul:
		return runtime.FloatValue{Val: a * b}, nil
	case OpDiv:
		if b == 0 {
			return nil, newDivisionByZero(false)
		}
		return runtime.FloatValue{Val: a / b}, nil
	case OpMod:
		// Float remainder follows fmod: a zero divisor yields NAN rather
		// than an error.
		return runtime.FloatValue{Val: math.Mod(a, b)}, nil
	case OpPow:
		return runtime.FloatValue{Val: math.Pow(a, b)}, nil
	}
	return nil, fmt.Errorf("operator %s is not arithmetic", op)
}

func addInt(a, b int64) (int64, bool) {
	sum := a + b
	if (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum >= 0) {
		return 0, false
	}
	return sum, true
}

func subInt(a, b int64) (int64, bool) {
	diff := a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		return 0, false
	}
	return diff, true
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return 0, false
	}
	prod := a * b
	if prod/b != a {
		return 0, false
	}
	return prod, true
}

// intPow exponentiates by squaring on the int kernel, falling to the float
// kernel for negative exponents and whenever a partial product overflows.
func intPow(base, exp int64) (runtime.Value, error) {
	if exp < 0 {
		return runtime.FloatValue{Val: math.Pow(float64(base), float64(exp))}, nil
	}
	result := int64(1)
	b := base
	for e := exp; e > 0; e >>= 1 {
		if e&1 == 1 {
			r, ok := mulInt(result, b)
			if !ok {
				return runtime.FloatValue{Val: math.Pow(float64(base), float64(exp))}, nil
			}
			result = r
		}
		if e > 1 {
			sq, ok := mulInt(b, b)
			if !ok {
				return runtime.FloatValue{Val: math.Pow(float64(base), float64(exp))}, nil
			}
			b = sq
		}
	}
	return runtime.IntValue{Val: result}, nil
}

// arrayUnion implements + over two arrays: the left array's entries in
// order, then the right's entries whose keys the left lacks. No other
// arithmetic operator admits arrays.
func arrayUnion(op Op, left, right runtime.Value) (runtime.Value, error) {
	la, lok := left.(*runtime.ArrayValue)
	ra, rok := right.(*runtime.ArrayValue)
	if op != OpAdd || !lok || !rok {
		return nil, newUnsupportedBinary(op, left, right)
	}
	out := runtime.NewArray()
	for _, e := range la.Entries() {
		out.Set(e.Key, e.Val)
	}
	for _, e := range ra.Entries() {
		if _, exists := out.Get(e.Key); !exists {
			out.Set(e.Key, e.Val)
		}
	}
	return out, nil
}

// strictUnaryNumeric applies unary minus and plus on the numeric kinds.
// Negating the minimum int promotes to float.
func strictUnaryNumeric(op Op, operand runtime.Value) (runtime.Value, error) {
	switch v := operand.(type) {
	case runtime.IntValue:
		if op == OpPlus {
			return v, nil
		}
		return negateInt(v.Val), nil
	case runtime.FloatValue:
		if op == OpPlus {
			return v, nil
		}
		return runtime.FloatValue{Val: -v.Val}, nil
	}
	return nil, newUnsupportedUnary(op, operand)
}

// legacyUnaryNumeric coerces and then applies the sign. Unary plus is a pure
// numeric cast, so +"5" is int 5.
func legacyUnaryNumeric(op Op, operand runtime.Value) (runtime.Value, error) {
	n, ok := legacyNumber(operand)
	if !ok {
		return nil, newUnsupportedUnary(op, operand)
	}
	if op == OpPlus {
		return n.Value(), nil
	}
	if n.isFloat {
		return runtime.FloatValue{Val: -n.f}, nil
	}
	return negateInt(n.i), nil
}

func negateInt(a int64) runtime.Value {
	if a == math.MinInt64 {
		return runtime.FloatValue{Val: -float64(math.MinInt64)}
	}
	return runtime.IntValue{Val: -a}
}
