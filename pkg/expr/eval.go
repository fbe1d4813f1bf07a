package expr

import (
	"fmt"
	"math"

	"veld/semantics-go/pkg/operators"
	"veld/semantics-go/pkg/runtime"
)

// Eval computes the value of a parsed expression under the given mode.
// Operator failures come back as *EvalError wrapping the taxonomy error
// from pkg/operators.
func Eval(e Expr, mode operators.Mode) (runtime.Value, error) {
	switch n := e.(type) {
	case *Literal:
		return n.Value, nil
	case *Unary:
		operand, err := Eval(n.Operand, mode)
		if err != nil {
			return nil, err
		}
		out, err := operators.EvalUnary(n.Op, operand, mode)
		if err != nil {
			return nil, &EvalError{Column: n.Column, Err: err}
		}
		return out, nil
	case *Binary:
		left, err := Eval(n.Left, mode)
		if err != nil {
			return nil, err
		}
		right, err := Eval(n.Right, mode)
		if err != nil {
			return nil, err
		}
		out, err := operators.EvalBinary(n.Op, left, right, mode)
		if err != nil {
			return nil, &EvalError{Column: n.Column, Err: err}
		}
		return out, nil
	case *Array:
		return evalArray(n, mode)
	case *Interp:
		return evalInterp(n, mode)
	default:
		return nil, fmt.Errorf("expr: unknown node %T", e)
	}
}

// EvalString parses and evaluates source in one step.
func EvalString(source string, mode operators.Mode) (runtime.Value, error) {
	e, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return Eval(e, mode)
}

func evalArray(n *Array, mode operators.Mode) (runtime.Value, error) {
	a := runtime.NewArray()
	for _, entry := range n.Entries {
		v, err := Eval(entry.Value, mode)
		if err != nil {
			return nil, err
		}
		if entry.Key == nil {
			a.Append(v)
			continue
		}
		kv, err := Eval(entry.Key, mode)
		if err != nil {
			return nil, err
		}
		key, err := arrayKey(kv)
		if err != nil {
			return nil, &EvalError{Column: entry.Key.Pos(), Err: err}
		}
		a.Set(key, v)
	}
	return a, nil
}

func evalInterp(n *Interp, mode operators.Mode) (runtime.Value, error) {
	segments := make([]operators.Segment, 0, len(n.Parts))
	for _, part := range n.Parts {
		if part.Expr == nil {
			segments = append(segments, operators.TextSegment(part.Text))
			continue
		}
		v, err := Eval(part.Expr, mode)
		if err != nil {
			return nil, err
		}
		segments = append(segments, operators.ValueSegment(v))
	}
	out, err := operators.Interpolate(segments, mode)
	if err != nil {
		return nil, &EvalError{Column: n.Column, Err: err}
	}
	return out, nil
}

// arrayKey coerces an evaluated key to an array key the way the host
// coerces literal keys: floats truncate, bools count 0 or 1, null is
// the empty string key.
func arrayKey(v runtime.Value) (runtime.ArrayKey, error) {
	switch k := v.(type) {
	case runtime.IntValue:
		return runtime.IntKey(k.Val), nil
	case runtime.StringValue:
		return runtime.StringKey(k.Val), nil
	case runtime.FloatValue:
		if math.IsNaN(k.Val) || k.Val >= math.MaxInt64 || k.Val < math.MinInt64 {
			return runtime.IntKey(0), nil
		}
		return runtime.IntKey(int64(k.Val)), nil
	case runtime.BoolValue:
		if k.Val {
			return runtime.IntKey(1), nil
		}
		return runtime.IntKey(0), nil
	case runtime.NullValue:
		return runtime.StringKey(""), nil
	default:
		return runtime.ArrayKey{}, fmt.Errorf("%s cannot be used as an array key", v.Kind())
	}
}
