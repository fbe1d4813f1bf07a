package operators

import (
	"math"

	"veld/semantics-go/pkg/runtime"
)

// Identical implements === and its negation. Identity is mode-free: the
// operands must already share a kind, and values are compared with no
// conversion at all, not even int widening. Arrays must match entry for
// entry in insertion order; objects must share a class and property set,
// property order aside.
func Identical(left, right runtime.Value) bool {
	if left == nil || right == nil {
		return false
	}
	if left.Kind() != right.Kind() {
		return false
	}
	switch lv := left.(type) {
	case runtime.NullValue:
		return true
	case runtime.BoolValue:
		rv, ok := right.(runtime.BoolValue)
		return ok && lv.Val == rv.Val
	case runtime.IntValue:
		rv, ok := right.(runtime.IntValue)
		return ok && lv.Val == rv.Val
	case runtime.FloatValue:
		// IEEE equality: NAN is not identical to anything, -0.0 is
		// identical to 0.0.
		rv, ok := right.(runtime.FloatValue)
		return ok && lv.Val == rv.Val
	case runtime.StringValue:
		rv, ok := right.(runtime.StringValue)
		return ok && lv.Val == rv.Val
	case *runtime.ArrayValue:
		rv, ok := right.(*runtime.ArrayValue)
		return ok && arraysIdentical(lv, rv)
	case *runtime.ObjectValue:
		rv, ok := right.(*runtime.ObjectValue)
		return ok && objectsIdentical(lv, rv)
	case runtime.ResourceValue:
		rv, ok := right.(runtime.ResourceValue)
		return ok && lv.ID == rv.ID
	}
	return false
}

func arraysIdentical(a, b *runtime.ArrayValue) bool {
	if a.Len() != b.Len() {
		return false
	}
	be := b.Entries()
	for i, e := range a.Entries() {
		if e.Key != be[i].Key || !Identical(e.Val, be[i].Val) {
			return false
		}
	}
	return true
}

func objectsIdentical(a, b *runtime.ObjectValue) bool {
	if a == b {
		return true
	}
	if a.Class != b.Class || a.NumProps() != b.NumProps() {
		return false
	}
	for _, name := range a.PropNames() {
		av, _ := a.Prop(name)
		bv, ok := b.Prop(name)
		if !ok || !Identical(av, bv) {
			return false
		}
	}
	return true
}

// strictNumericComparison compares two numbers, widening when the kinds mix.
// NAN on either side has no ordering: equality is false, inequality true,
// the relational operators false, and <=> answers 1.
func strictNumericComparison(op Op, left, right runtime.Value) (runtime.Value, error) {
	if li, lok := left.(runtime.IntValue); lok {
		if ri, rok := right.(runtime.IntValue); rok {
			return orderingResult(op, compareInt(li.Val, ri.Val)), nil
		}
	}
	a, b := widenFloat(left), widenFloat(right)
	if math.IsNaN(a) || math.IsNaN(b) {
		return unorderedResult(op), nil
	}
	return orderingResult(op, compareFloat(a, b)), nil
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// orderingResult maps a three-way comparison onto the requested operator.
func orderingResult(op Op, cmp int) runtime.Value {
	switch op {
	case OpEq:
		return runtime.BoolValue{Val: cmp == 0}
	case OpNotEq:
		return runtime.BoolValue{Val: cmp != 0}
	case OpLt:
		return runtime.BoolValue{Val: cmp < 0}
	case OpGt:
		return runtime.BoolValue{Val: cmp > 0}
	case OpLtEq:
		return runtime.BoolValue{Val: cmp <= 0}
	case OpGtEq:
		return runtime.BoolValue{Val: cmp >= 0}
	case OpSpaceship:
		return runtime.IntValue{Val: int64(cmp)}
	}
	return runtime.BoolValue{}
}

// unorderedResult answers a comparison whose operands admit no ordering.
func unorderedResult(op Op) runtime.Value {
	switch op {
	case OpNotEq:
		return runtime.BoolValue{Val: true}
	case OpSpaceship:
		return runtime.IntValue{Val: 1}
	}
	return runtime.BoolValue{Val: false}
}
