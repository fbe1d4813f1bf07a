package operators

import (
	"math"
	"strings"

	"veld/semantics-go/pkg/runtime"
)

// legacyComparison backs every legacy comparison cell: loose equality for ==
// and !=, the ordering walk for the relational operators and <=>.
func legacyComparison(op Op, left, right runtime.Value) (runtime.Value, error) {
	if op == OpEq || op == OpNotEq {
		eq := LooseEquals(left, right)
		return runtime.BoolValue{Val: eq == (op == OpEq)}, nil
	}
	cmp, ordered := looseOrder(left, right)
	if !ordered {
		return unorderedResult(op), nil
	}
	return orderingResult(op, cmp), nil
}

// LooseEquals applies legacy ==. Null or bool on either side collapses both
// operands to truthiness. Numbers meeting strings compare numerically when
// the whole string is numeric and byte-wise against the number's text
// otherwise. Arrays equal when they hold the same keys with loosely equal
// values, order aside; objects equal when class and properties match. It is
// total: every kind pair has an answer.
func LooseEquals(left, right runtime.Value) bool {
	if left == nil || right == nil {
		return false
	}
	lk, rk := left.Kind(), right.Kind()
	if lk == runtime.KindNull || lk == runtime.KindBool ||
		rk == runtime.KindNull || rk == runtime.KindBool {
		return runtime.Truthy(left) == runtime.Truthy(right)
	}
	switch lk {
	case runtime.KindInt, runtime.KindFloat:
		switch rk {
		case runtime.KindInt, runtime.KindFloat:
			return numberEquals(numberOf(left), numberOf(right))
		case runtime.KindString:
			return numberStringEquals(numberOf(left), right.(runtime.StringValue).Val)
		case runtime.KindResource:
			return numberEquals(numberOf(left), intNumber(right.(runtime.ResourceValue).ID))
		}
		return false
	case runtime.KindString:
		ls := left.(runtime.StringValue).Val
		switch rk {
		case runtime.KindInt, runtime.KindFloat:
			return numberStringEquals(numberOf(right), ls)
		case runtime.KindString:
			return stringEquals(ls, right.(runtime.StringValue).Val)
		case runtime.KindObject:
			return objectStringEquals(right.(*runtime.ObjectValue), ls)
		case runtime.KindResource:
			return numberStringEquals(intNumber(right.(runtime.ResourceValue).ID), ls)
		}
		return false
	case runtime.KindArray:
		ra, ok := right.(*runtime.ArrayValue)
		return ok && arraysLooseEqual(left.(*runtime.ArrayValue), ra)
	case runtime.KindObject:
		lo := left.(*runtime.ObjectValue)
		switch rk {
		case runtime.KindObject:
			return objectsLooseEqual(lo, right.(*runtime.ObjectValue))
		case runtime.KindString:
			return objectStringEquals(lo, right.(runtime.StringValue).Val)
		}
		return false
	case runtime.KindResource:
		lid := left.(runtime.ResourceValue).ID
		switch rk {
		case runtime.KindResource:
			return lid == right.(runtime.ResourceValue).ID
		case runtime.KindInt, runtime.KindFloat:
			return numberEquals(intNumber(lid), numberOf(right))
		case runtime.KindString:
			return numberStringEquals(intNumber(lid), right.(runtime.StringValue).Val)
		}
		return false
	}
	return false
}

// looseOrder produces the legacy three-way ordering. The bool reports
// whether the operands order at all: NAN and different-class objects do
// not, and the caller then answers false for every relational operator and
// 1 for <=>.
func looseOrder(left, right runtime.Value) (int, bool) {
	lk, rk := left.Kind(), right.Kind()
	if lk == runtime.KindNull || lk == runtime.KindBool ||
		rk == runtime.KindNull || rk == runtime.KindBool {
		return compareBool(runtime.Truthy(left), runtime.Truthy(right)), true
	}
	switch lk {
	case runtime.KindInt, runtime.KindFloat:
		switch rk {
		case runtime.KindInt, runtime.KindFloat:
			return numberOrder(numberOf(left), numberOf(right))
		case runtime.KindString:
			return numberStringOrder(numberOf(left), right.(runtime.StringValue).Val, false)
		case runtime.KindResource:
			return numberOrder(numberOf(left), intNumber(right.(runtime.ResourceValue).ID))
		}
		// Arrays and objects outrank numbers.
		return -1, true
	case runtime.KindString:
		ls := left.(runtime.StringValue).Val
		switch rk {
		case runtime.KindInt, runtime.KindFloat:
			return numberStringOrder(numberOf(right), ls, true)
		case runtime.KindString:
			return stringOrder(ls, right.(runtime.StringValue).Val)
		case runtime.KindObject:
			ro := right.(*runtime.ObjectValue)
			if text, ok := objectText(ro); ok {
				cmp, ordered := stringOrder(ls, text)
				return cmp, ordered
			}
			return -1, true
		case runtime.KindResource:
			return numberStringOrder(intNumber(right.(runtime.ResourceValue).ID), ls, true)
		}
		return -1, true
	case runtime.KindArray:
		switch rk {
		case runtime.KindArray:
			return arraysOrder(left.(*runtime.ArrayValue), right.(*runtime.ArrayValue))
		case runtime.KindObject:
			// Objects outrank arrays.
			return -1, true
		}
		return 1, true
	case runtime.KindObject:
		lo := left.(*runtime.ObjectValue)
		switch rk {
		case runtime.KindObject:
			return objectsOrder(lo, right.(*runtime.ObjectValue))
		case runtime.KindString:
			if text, ok := objectText(lo); ok {
				return stringOrder(text, right.(runtime.StringValue).Val)
			}
		}
		return 1, true
	case runtime.KindResource:
		lid := left.(runtime.ResourceValue).ID
		switch rk {
		case runtime.KindResource:
			return compareInt(lid, right.(runtime.ResourceValue).ID), true
		case runtime.KindInt, runtime.KindFloat:
			return numberOrder(intNumber(lid), numberOf(right))
		case runtime.KindString:
			return numberStringOrder(intNumber(lid), right.(runtime.StringValue).Val, false)
		}
		return -1, true
	}
	return 0, false
}

func numberOf(v runtime.Value) number {
	switch v := v.(type) {
	case runtime.IntValue:
		return intNumber(v.Val)
	case runtime.FloatValue:
		return floatNumber(v.Val)
	}
	return number{}
}

func numberEquals(a, b number) bool {
	if !a.isFloat && !b.isFloat {
		return a.i == b.i
	}
	return a.Float() == b.Float()
}

func numberOrder(a, b number) (int, bool) {
	if !a.isFloat && !b.isFloat {
		return compareInt(a.i, b.i), true
	}
	af, bf := a.Float(), b.Float()
	if math.IsNaN(af) || math.IsNaN(bf) {
		return 0, false
	}
	return compareFloat(af, bf), true
}

// numberStringEquals is the smart half of string comparison: a wholly
// numeric string compares as a number, anything else compares byte-wise
// against the number's own text.
func numberStringEquals(n number, s string) bool {
	if sn, ok := fullNumeric(s); ok {
		return numberEquals(n, sn)
	}
	return n.text() == s
}

// numberStringOrder orders a number against a string. swapped flips the
// result for callers whose string sits on the left.
func numberStringOrder(n number, s string, swapped bool) (int, bool) {
	var cmp int
	var ordered bool
	if sn, ok := fullNumeric(s); ok {
		cmp, ordered = numberOrder(n, sn)
	} else {
		cmp, ordered = strings.Compare(n.text(), s), true
	}
	if swapped {
		cmp = -cmp
	}
	return cmp, ordered
}

func stringEquals(a, b string) bool {
	an, aok := fullNumeric(a)
	bn, bok := fullNumeric(b)
	if aok && bok {
		return numberEquals(an, bn)
	}
	return a == b
}

func stringOrder(a, b string) (int, bool) {
	an, aok := fullNumeric(a)
	bn, bok := fullNumeric(b)
	if aok && bok {
		return numberOrder(an, bn)
	}
	return strings.Compare(a, b), true
}

func objectText(o *runtime.ObjectValue) (string, bool) {
	if !o.Stringable() {
		return "", false
	}
	text, err := o.Text()
	if err != nil {
		return "", false
	}
	return text, true
}

func objectStringEquals(o *runtime.ObjectValue, s string) bool {
	text, ok := objectText(o)
	return ok && stringEquals(text, s)
}

func arraysLooseEqual(a, b *runtime.ArrayValue) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, e := range a.Entries() {
		bv, ok := b.Get(e.Key)
		if !ok || !LooseEquals(e.Val, bv) {
			return false
		}
	}
	return true
}

// arraysOrder orders arrays by size first. Equal sizes walk the left
// array's entries; a key the right side lacks makes the left compare
// greater, matching the ancestral engine's answer for uncomparable arrays.
func arraysOrder(a, b *runtime.ArrayValue) (int, bool) {
	if c := compareInt(int64(a.Len()), int64(b.Len())); c != 0 {
		return c, true
	}
	for _, e := range a.Entries() {
		bv, ok := b.Get(e.Key)
		if !ok {
			return 1, true
		}
		cmp, ordered := looseOrder(e.Val, bv)
		if !ordered {
			return 1, true
		}
		if cmp != 0 {
			return cmp, true
		}
	}
	return 0, true
}

func objectsLooseEqual(a, b *runtime.ObjectValue) bool {
	if a == b {
		return true
	}
	if a.Class != b.Class || a.NumProps() != b.NumProps() {
		return false
	}
	for _, name := range a.PropNames() {
		av, _ := a.Prop(name)
		bv, ok := b.Prop(name)
		if !ok || !LooseEquals(av, bv) {
			return false
		}
	}
	return true
}

// objectsOrder walks same-class objects property by property. Objects of
// different classes never order.
func objectsOrder(a, b *runtime.ObjectValue) (int, bool) {
	if a == b {
		return 0, true
	}
	if a.Class != b.Class {
		return 0, false
	}
	if c := compareInt(int64(a.NumProps()), int64(b.NumProps())); c != 0 {
		return c, true
	}
	for _, name := range a.PropNames() {
		av, _ := a.Prop(name)
		bv, ok := b.Prop(name)
		if !ok {
			return 1, true
		}
		cmp, ordered := looseOrder(av, bv)
		if !ordered {
			return 1, true
		}
		if cmp != 0 {
			return cmp, true
		}
	}
	return 0, true
}

func compareBool(a, b bool) int {
	if a == b {
		return 0
	}
	if a {
		return 1
	}
	return -1
}
