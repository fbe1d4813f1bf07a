package operators

import (
	"math"
	"testing"

	"veld/semantics-go/pkg/runtime"
)

func TestLooseEqualsTruthinessCollapse(t *testing.T) {
	cases := []struct {
		left, right runtime.Value
		want        bool
	}{
		{null, null, true},
		{null, bv(false), true},
		{null, bv(true), false},
		{bv(true), iv(7), true},
		{bv(true), iv(0), false},
		{bv(false), sv(""), true},
		{bv(false), sv("0"), false}, // "0" is truthy
		{null, sv(""), true},
		{null, sv("0"), false},
		{null, iv(0), true},
		{null, arr(), true},
		{null, arr(iv(1)), false},
		{bv(true), runtime.NewObject("Point"), true},
		{bv(true), fv(math.NaN()), true}, // NAN is truthy
	}
	for _, c := range cases {
		if got := LooseEquals(c.left, c.right); got != c.want {
			t.Fatalf("expected %s == %s to be %v, got %v",
				runtime.Format(c.left), runtime.Format(c.right), c.want, got)
		}
		if got := LooseEquals(c.right, c.left); got != c.want {
			t.Fatalf("expected %s == %s to be symmetric", runtime.Format(c.left), runtime.Format(c.right))
		}
	}
}

func TestLooseEqualsSmartStrings(t *testing.T) {
	cases := []struct {
		left, right runtime.Value
		want        bool
	}{
		{iv(100), sv("100"), true},
		{iv(100), sv("1e2"), true},
		{iv(100), sv(" 100 "), true},
		{sv("100"), sv("1e2"), true},
		{sv("1"), sv("01"), true},
		{sv("10"), sv("1e1"), true},
		{fv(1.5), sv("1.5"), true},
		{iv(0), sv("abc"), false}, // non-numeric string never equals a number
		{sv("abc"), iv(0), false},
		{iv(5), sv("5 apples"), false}, // equality wants the whole string numeric
		{sv("abc"), sv("abc"), true},
		{sv("abc"), sv("ABC"), false},
		{sv("1.0"), sv("1"), true},
		{iv(7), sv("7.0"), true},
	}
	for _, c := range cases {
		if got := LooseEquals(c.left, c.right); got != c.want {
			t.Fatalf("expected %s == %s to be %v, got %v",
				runtime.Format(c.left), runtime.Format(c.right), c.want, got)
		}
	}
}

func TestLegacyRelationalStrings(t *testing.T) {
	assertBool(t, mustEval(t, OpLt, sv("10"), sv("9"), ModeLegacy), true) // numeric compare
	assertBool(t, mustEval(t, OpLt, sv("apple"), sv("banana"), ModeLegacy), true)
	assertBool(t, mustEval(t, OpGt, sv("z"), iv(5), ModeLegacy), true) // "5" < "z" byte-wise
	assertBool(t, mustEval(t, OpLt, iv(5), sv("z"), ModeLegacy), true)
	assertInt(t, mustEval(t, OpSpaceship, sv("2"), sv("10"), ModeLegacy), -1)
	assertInt(t, mustEval(t, OpSpaceship, sv("abc"), sv("abd"), ModeLegacy), -1)
}

func TestLegacyComparisonNaN(t *testing.T) {
	nan := fv(math.NaN())
	assertBool(t, mustEval(t, OpEq, nan, nan, ModeLegacy), false)
	assertBool(t, mustEval(t, OpNotEq, nan, fv(1), ModeLegacy), true)
	assertBool(t, mustEval(t, OpLt, nan, fv(1), ModeLegacy), false)
	assertBool(t, mustEval(t, OpGt, nan, fv(1), ModeLegacy), false)
	assertInt(t, mustEval(t, OpSpaceship, nan, fv(1), ModeLegacy), 1)
}

func TestLooseArrayEqualityIgnoresOrder(t *testing.T) {
	ab := runtime.NewArray()
	ab.Set(runtime.StringKey("a"), iv(1))
	ab.Set(runtime.StringKey("b"), iv(2))
	ba := runtime.NewArray()
	ba.Set(runtime.StringKey("b"), iv(2))
	ba.Set(runtime.StringKey("a"), iv(1))

	if !LooseEquals(ab, ba) {
		t.Fatalf("expected loose array equality to ignore key order")
	}

	loose := runtime.NewArray()
	loose.Set(runtime.StringKey("a"), sv("1"))
	loose.Set(runtime.StringKey("b"), sv("2"))
	if !LooseEquals(ab, loose) {
		t.Fatalf("expected element comparison to be loose")
	}

	shorter := runtime.NewArray()
	shorter.Set(runtime.StringKey("a"), iv(1))
	if LooseEquals(ab, shorter) {
		t.Fatalf("expected size difference to break equality")
	}

	otherKeys := runtime.NewArray()
	otherKeys.Set(runtime.StringKey("a"), iv(1))
	otherKeys.Set(runtime.StringKey("c"), iv(2))
	if LooseEquals(ab, otherKeys) {
		t.Fatalf("expected key difference to break equality")
	}
}

func TestLegacyArrayOrdering(t *testing.T) {
	// Size decides first.
	assertBool(t, mustEval(t, OpLt, arr(iv(9)), arr(iv(1), iv(1)), ModeLegacy), true)
	assertInt(t, mustEval(t, OpSpaceship, arr(iv(1), iv(2)), arr(iv(9)), ModeLegacy), 1)

	// Equal sizes walk the left entries against the right's same-key values.
	assertInt(t, mustEval(t, OpSpaceship, arr(iv(1), iv(5)), arr(iv(1), iv(9)), ModeLegacy), -1)
	assertInt(t, mustEval(t, OpSpaceship, arr(iv(1), iv(5)), arr(iv(1), iv(5)), ModeLegacy), 0)

	// A key the right side lacks makes the left compare greater, from either side.
	a := runtime.NewArray()
	a.Set(runtime.StringKey("x"), iv(1))
	b := runtime.NewArray()
	b.Set(runtime.StringKey("y"), iv(1))
	assertInt(t, mustEval(t, OpSpaceship, a, b, ModeLegacy), 1)
	assertInt(t, mustEval(t, OpSpaceship, b, a, ModeLegacy), 1)
	assertBool(t, mustEval(t, OpGt, a, b, ModeLegacy), true)
	assertBool(t, mustEval(t, OpGt, b, a, ModeLegacy), true)

	// Arrays outrank scalars.
	assertBool(t, mustEval(t, OpGt, arr(), iv(1000), ModeLegacy), true)
	assertBool(t, mustEval(t, OpLt, sv("zzz"), arr(), ModeLegacy), true)
}

func TestLooseObjectComparison(t *testing.T) {
	p1 := runtime.NewObject("Point")
	p1.SetProp("x", iv(1))
	p2 := runtime.NewObject("Point")
	p2.SetProp("x", sv("1"))
	v1 := runtime.NewObject("Vec")
	v1.SetProp("x", iv(1))

	if !LooseEquals(p1, p2) {
		t.Fatalf("expected same-class objects with loosely equal props to match")
	}
	if LooseEquals(p1, v1) {
		t.Fatalf("expected class difference to break loose equality")
	}

	// Different classes do not order: relational always false, <=> answers 1.
	assertBool(t, mustEval(t, OpLt, p1, v1, ModeLegacy), false)
	assertBool(t, mustEval(t, OpGt, p1, v1, ModeLegacy), false)
	assertInt(t, mustEval(t, OpSpaceship, p1, v1, ModeLegacy), 1)

	// Same class orders property-wise.
	p3 := runtime.NewObject("Point")
	p3.SetProp("x", iv(5))
	assertBool(t, mustEval(t, OpLt, p1, p3, ModeLegacy), true)

	// Objects outrank scalars and arrays.
	assertBool(t, mustEval(t, OpGt, p1, iv(1000), ModeLegacy), true)
	assertBool(t, mustEval(t, OpGt, p1, arr(iv(1), iv(2)), ModeLegacy), true)
}

func TestLooseStringableObjectAgainstString(t *testing.T) {
	tag := runtime.NewStringableObject("Tag", func(*runtime.ObjectValue) (string, error) {
		return "veld", nil
	})
	if !LooseEquals(tag, sv("veld")) {
		t.Fatalf("expected stringable object to equal its text")
	}
	if LooseEquals(tag, sv("other")) {
		t.Fatalf("expected text mismatch to break equality")
	}
	assertBool(t, mustEval(t, OpLt, sv("alpha"), tag, ModeLegacy), true)

	plain := runtime.NewObject("Tag")
	if LooseEquals(plain, sv("veld")) {
		t.Fatalf("expected textless object not to equal any string")
	}
}

func TestLooseResourceComparison(t *testing.T) {
	r3 := runtime.ResourceValue{ID: 3, Type: "stream"}
	r4 := runtime.ResourceValue{ID: 4, Type: "stream"}
	if !LooseEquals(r3, runtime.ResourceValue{ID: 3, Type: "socket"}) {
		t.Fatalf("expected resources to compare by id")
	}
	if LooseEquals(r3, r4) {
		t.Fatalf("expected different ids not to match")
	}
	if !LooseEquals(r3, iv(3)) {
		t.Fatalf("expected resource to equal its id number")
	}
	assertBool(t, mustEval(t, OpLt, r3, r4, ModeLegacy), true)
	assertBool(t, mustEval(t, OpGt, iv(9), r3, ModeLegacy), true)
}

func TestLegacyEqualityIsTotal(t *testing.T) {
	for lk, lv := range kindSamples() {
		for rk, rv := range kindSamples() {
			if _, err := EvalBinary(OpEq, lv, rv, ModeLegacy); err != nil {
				t.Fatalf("expected == on %s and %s to be defined, got %v", lk, rk, err)
			}
			if _, err := EvalBinary(OpSpaceship, lv, rv, ModeLegacy); err != nil {
				t.Fatalf("expected <=> on %s and %s to be defined, got %v", lk, rk, err)
			}
		}
	}
}
