package operators

import (
	"veld/semantics-go/pkg/runtime"
)

// strictIncDec steps the numeric kinds. Stepping past the int range
// promotes to float.
func strictIncDec(op Op, operand runtime.Value) (runtime.Value, error) {
	step := int64(1)
	if op == OpDec {
		step = -1
	}
	switch v := operand.(type) {
	case runtime.IntValue:
		return stepInt(v.Val, step), nil
	case runtime.FloatValue:
		return runtime.FloatValue{Val: v.Val + float64(step)}, nil
	}
	return nil, newUnsupportedUnary(op, operand)
}

func stepInt(a, step int64) runtime.Value {
	if sum, ok := addInt(a, step); ok {
		return runtime.IntValue{Val: sum}
	}
	return runtime.FloatValue{Val: float64(a) + float64(step)}
}

// legacyIncDec carries the ancestral stepping quirks: null increments to 1
// yet decrements to null, bools never move, numeric strings step as
// numbers, other strings increment with alphanumeric carry and ignore
// decrement. The empty string is its own case both ways.
func legacyIncDec(op Op, operand runtime.Value) (runtime.Value, error) {
	step := int64(1)
	if op == OpDec {
		step = -1
	}
	switch v := operand.(type) {
	case runtime.NullValue:
		if op == OpInc {
			return runtime.IntValue{Val: 1}, nil
		}
		return v, nil
	case runtime.BoolValue:
		return v, nil
	case runtime.IntValue:
		return stepInt(v.Val, step), nil
	case runtime.FloatValue:
		return runtime.FloatValue{Val: v.Val + float64(step)}, nil
	case runtime.StringValue:
		return legacyStringStep(op, v.Val), nil
	}
	return nil, newUnsupportedUnary(op, operand)
}

func legacyStringStep(op Op, s string) runtime.Value {
	if s == "" {
		if op == OpInc {
			return runtime.StringValue{Val: "1"}
		}
		return runtime.IntValue{Val: -1}
	}
	if n, ok := fullNumeric(s); ok {
		if n.isFloat {
			if op == OpDec {
				return runtime.FloatValue{Val: n.f - 1}
			}
			return runtime.FloatValue{Val: n.f + 1}
		}
		if op == OpDec {
			return stepInt(n.i, -1)
		}
		return stepInt(n.i, 1)
	}
	if op == OpDec {
		return runtime.StringValue{Val: s}
	}
	return runtime.StringValue{Val: stringIncrement(s)}
}

// stringIncrement steps the trailing character within its class (a-z, A-Z,
// 0-9), carrying leftward on wrap. A carry past the first character
// prepends a character of the first character's class; a byte outside
// those classes stops the walk and the rest of the string stays put.
func stringIncrement(s string) string {
	b := []byte(s)
	for i := len(b) - 1; i >= 0; i-- {
		c := b[i]
		switch {
		case c >= 'a' && c < 'z', c >= 'A' && c < 'Z', c >= '0' && c < '9':
			b[i] = c + 1
			return string(b)
		case c == 'z':
			b[i] = 'a'
		case c == 'Z':
			b[i] = 'A'
		case c == '9':
			b[i] = '0'
		default:
			return string(b)
		}
		if i == 0 {
			switch c {
			case 'z':
				return "a" + string(b)
			case 'Z':
				return "A" + string(b)
			}
			return "1" + string(b)
		}
	}
	return string(b)
}
