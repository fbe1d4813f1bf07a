package operators

import (
	"math"
	"testing"

	"veld/semantics-go/pkg/runtime"
)

func TestStrictIncDec(t *testing.T) {
	assertInt(t, mustEvalUnary(t, OpInc, iv(41), ModeStrict), 42)
	assertInt(t, mustEvalUnary(t, OpDec, iv(0), ModeStrict), -1)
	assertFloat(t, mustEvalUnary(t, OpInc, fv(0.5), ModeStrict), 1.5)
	assertFloat(t, mustEvalUnary(t, OpDec, fv(0.5), ModeStrict), -0.5)

	// Stepping past the int range promotes to float.
	assertFloat(t, mustEvalUnary(t, OpInc, iv(math.MaxInt64), ModeStrict),
		float64(math.MaxInt64)+1)
	assertFloat(t, mustEvalUnary(t, OpDec, iv(math.MinInt64), ModeStrict),
		float64(math.MinInt64)-1)

	_, err := EvalIncDec(OpInc, sv("5"), ModeStrict)
	assertUnsupported(t, err, OpInc)
	_, err = EvalIncDec(OpInc, null, ModeStrict)
	assertUnsupported(t, err, OpInc)
	_, err = EvalIncDec(OpDec, bv(true), ModeStrict)
	assertUnsupported(t, err, OpDec)
}

func TestLegacyIncDecScalars(t *testing.T) {
	assertInt(t, mustEvalUnary(t, OpInc, null, ModeLegacy), 1)
	if got := mustEvalUnary(t, OpDec, null, ModeLegacy); got != null {
		t.Fatalf("expected null decrement to stay null, got %v", got)
	}
	if got := mustEvalUnary(t, OpInc, bv(false), ModeLegacy); got != bv(false) {
		t.Fatalf("expected bool increment to be a no-op, got %v", got)
	}
	assertInt(t, mustEvalUnary(t, OpInc, iv(7), ModeLegacy), 8)
	assertFloat(t, mustEvalUnary(t, OpDec, fv(0.5), ModeLegacy), -0.5)
}

func TestLegacyStringIncrement(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"a", "b"},
		{"z", "aa"},
		{"Az", "Ba"},
		{"Zz", "AAa"},
		{"a9", "b0"},
		{"z9", "aa0"},
		{"99", "100"},
		{"A", "B"},
		{"veld1", "veld2"},
		{"a-9", "a-0"},
		{"--", "--"},
	}
	for _, c := range cases {
		got := mustEvalUnary(t, OpInc, sv(c.in), ModeLegacy)
		assertString(t, got, c.want)
	}
}

func TestLegacyNumericStringStep(t *testing.T) {
	assertInt(t, mustEvalUnary(t, OpInc, sv("5"), ModeLegacy), 6)
	assertInt(t, mustEvalUnary(t, OpDec, sv("5"), ModeLegacy), 4)
	assertFloat(t, mustEvalUnary(t, OpInc, sv("1.5"), ModeLegacy), 2.5)
	assertInt(t, mustEvalUnary(t, OpDec, sv("-1"), ModeLegacy), -2)
	assertFloat(t, mustEvalUnary(t, OpInc, sv("9223372036854775807"), ModeLegacy),
		float64(math.MaxInt64)+1)
}

func TestLegacyIncDecEmptyString(t *testing.T) {
	assertString(t, mustEvalUnary(t, OpInc, sv(""), ModeLegacy), "1")
	assertInt(t, mustEvalUnary(t, OpDec, sv(""), ModeLegacy), -1)
}

func TestLegacyDecrementLeavesPlainStrings(t *testing.T) {
	assertString(t, mustEvalUnary(t, OpDec, sv("abc"), ModeLegacy), "abc")
	assertString(t, mustEvalUnary(t, OpDec, sv("z"), ModeLegacy), "z")
}

func TestIncDecRejectsComposites(t *testing.T) {
	for _, mode := range []Mode{ModeStrict, ModeLegacy} {
		_, err := EvalIncDec(OpInc, arr(iv(1)), mode)
		assertUnsupported(t, err, OpInc)
		_, err = EvalIncDec(OpDec, runtime.NewObject("Point"), mode)
		assertUnsupported(t, err, OpDec)
		_, err = EvalIncDec(OpInc, runtime.ResourceValue{ID: 1}, mode)
		assertUnsupported(t, err, OpInc)
	}
}
