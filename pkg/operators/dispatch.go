package operators

import (
	"fmt"

	"veld/semantics-go/pkg/runtime"
)

// binaryRuleFunc evaluates one admitted operand-kind pair. The operator is
// passed through so a rule shared across a family can branch on it and so
// rejections can name it.
type binaryRuleFunc func(op Op, left, right runtime.Value) (runtime.Value, error)

type unaryRuleFunc func(op Op, operand runtime.Value) (runtime.Value, error)

// rule is one cell of an acceptance table. cond marks cells where the kind
// pair is admitted but the specific operator or operand values may still
// reject: array union outside +, textless objects, non-numeric strings.
type rule struct {
	apply binaryRuleFunc
	cond  bool
}

type unaryRule struct {
	apply unaryRuleFunc
	cond  bool
}

type kindPairTable [runtime.KindCount][runtime.KindCount]*rule

type kindTable [runtime.KindCount]*unaryRule

// ruleSet holds every acceptance table for one mode.
type ruleSet struct {
	arithmetic kindPairTable
	comparison kindPairTable
	bitwise    kindPairTable
	shift      kindPairTable
	concat     kindPairTable

	unaryArith   kindTable // OpNeg, OpPlus
	unaryBitwise kindTable // OpBitNot
	incdec       kindTable // OpInc, OpDec
}

func (s *ruleSet) binaryTable(f Family) *kindPairTable {
	switch f {
	case FamilyArithmetic:
		return &s.arithmetic
	case FamilyComparison:
		return &s.comparison
	case FamilyBitwise:
		return &s.bitwise
	case FamilyShift:
		return &s.shift
	case FamilyConcat:
		return &s.concat
	}
	return nil
}

func (t *kindPairTable) permit(r *rule, lefts, rights []runtime.Kind) {
	for _, l := range lefts {
		for _, rk := range rights {
			t[l][rk] = r
		}
	}
}

func (t *kindTable) permit(r *unaryRule, kinds []runtime.Kind) {
	for _, k := range kinds {
		t[k] = r
	}
}

var (
	numericKinds = []runtime.Kind{runtime.KindInt, runtime.KindFloat}
	intOnly      = []runtime.Kind{runtime.KindInt}
	stringOnly   = []runtime.Kind{runtime.KindString}
	arrayOnly    = []runtime.Kind{runtime.KindArray}

	// The kinds legacy numeric coercion reaches: everything scalar.
	legacyScalarKinds = []runtime.Kind{
		runtime.KindNull, runtime.KindBool, runtime.KindInt,
		runtime.KindFloat, runtime.KindString,
	}

	// Strict concat admits text-like operands plus objects carrying a text
	// conversion.
	strictConcatKinds = []runtime.Kind{
		runtime.KindNull, runtime.KindInt, runtime.KindFloat,
		runtime.KindString, runtime.KindObject,
	}

	allKinds = func() []runtime.Kind {
		ks := make([]runtime.Kind, runtime.KindCount)
		for i := range ks {
			ks[i] = runtime.Kind(i)
		}
		return ks
	}()
)

var (
	legacyRules = buildLegacyRules()
	strictRules = buildStrictRules()
)

func modeRules(mode Mode) *ruleSet {
	if mode == ModeStrict {
		return strictRules
	}
	return legacyRules
}

func buildStrictRules() *ruleSet {
	s := &ruleSet{}

	s.arithmetic.permit(&rule{apply: strictNumericArithmetic}, numericKinds, numericKinds)
	s.arithmetic.permit(&rule{apply: arrayUnion, cond: true}, arrayOnly, arrayOnly)

	s.comparison.permit(&rule{apply: strictNumericComparison}, numericKinds, numericKinds)

	s.bitwise.permit(&rule{apply: intBitwise}, intOnly, intOnly)
	s.bitwise.permit(&rule{apply: stringBitwise}, stringOnly, stringOnly)
	s.shift.permit(&rule{apply: intShift}, intOnly, intOnly)

	for _, l := range strictConcatKinds {
		for _, r := range strictConcatKinds {
			cond := l == runtime.KindObject || r == runtime.KindObject
			s.concat[l][r] = &rule{apply: strictConcat, cond: cond}
		}
	}

	s.unaryArith.permit(&unaryRule{apply: strictUnaryNumeric}, numericKinds)
	s.unaryBitwise.permit(&unaryRule{apply: intBitNot}, intOnly)
	s.unaryBitwise.permit(&unaryRule{apply: stringBitNot}, stringOnly)
	s.incdec.permit(&unaryRule{apply: strictIncDec}, numericKinds)

	return s
}

func buildLegacyRules() *ruleSet {
	l := &ruleSet{}

	for _, lk := range legacyScalarKinds {
		for _, rk := range legacyScalarKinds {
			cond := lk == runtime.KindString || rk == runtime.KindString
			l.arithmetic[lk][rk] = &rule{apply: legacyNumericArithmetic, cond: cond}
			l.shift[lk][rk] = &rule{apply: legacyIntShift, cond: cond}
			if lk == runtime.KindString && rk == runtime.KindString {
				// Two strings stay strings for bitwise: byte-wise kernels.
				l.bitwise[lk][rk] = &rule{apply: stringBitwise}
				continue
			}
			l.bitwise[lk][rk] = &rule{apply: legacyIntBitwise, cond: cond}
		}
	}
	l.arithmetic.permit(&rule{apply: arrayUnion, cond: true}, arrayOnly, arrayOnly)

	// Loose comparison is total: every kind pair has a defined answer.
	l.comparison.permit(&rule{apply: legacyComparison}, allKinds, allKinds)

	for _, lk := range allKinds {
		for _, rk := range allKinds {
			cond := lk == runtime.KindObject || rk == runtime.KindObject
			l.concat[lk][rk] = &rule{apply: legacyConcat, cond: cond}
		}
	}

	l.unaryArith.permit(&unaryRule{apply: legacyUnaryNumeric}, []runtime.Kind{
		runtime.KindNull, runtime.KindBool, runtime.KindInt, runtime.KindFloat,
	})
	l.unaryArith.permit(&unaryRule{apply: legacyUnaryNumeric, cond: true}, stringOnly)
	l.unaryBitwise.permit(&unaryRule{apply: intBitNot}, intOnly)
	l.unaryBitwise.permit(&unaryRule{apply: floatBitNot}, []runtime.Kind{runtime.KindFloat})
	l.unaryBitwise.permit(&unaryRule{apply: stringBitNot}, stringOnly)
	// Legacy stepping is total over scalars: even non-numeric strings have a
	// defined result (alphanumeric carry for ++, unchanged for --).
	l.incdec.permit(&unaryRule{apply: legacyIncDec}, legacyScalarKinds)

	return l
}

func validKind(k runtime.Kind) bool {
	return k >= 0 && int(k) < runtime.KindCount
}

// EvalBinary applies a binary operator to two computed operands under the
// given mode. Any mode other than ModeStrict evaluates as legacy.
func EvalBinary(op Op, left, right runtime.Value, mode Mode) (runtime.Value, error) {
	if left == nil || right == nil {
		return nil, fmt.Errorf("operator %s applied to a nil operand", op)
	}
	if op.Unary() {
		return nil, fmt.Errorf("operator %s is unary", op)
	}
	switch op.Family() {
	case FamilyIdentity:
		same := Identical(left, right)
		return runtime.BoolValue{Val: same == (op == OpIdentical)}, nil
	case FamilyLogical:
		return logicalBinary(op, left, right), nil
	}
	lk, rk := left.Kind(), right.Kind()
	if !validKind(lk) || !validKind(rk) {
		return nil, newUnsupportedBinary(op, left, right)
	}
	table := modeRules(mode).binaryTable(op.Family())
	if table == nil {
		return nil, fmt.Errorf("operator %s has no binary rule table", op)
	}
	r := table[lk][rk]
	if r == nil {
		return nil, newUnsupportedBinary(op, left, right)
	}
	return r.apply(op, left, right)
}

// EvalUnary applies a unary operator to a computed operand under the given
// mode. ++ and -- route to EvalIncDec.
func EvalUnary(op Op, operand runtime.Value, mode Mode) (runtime.Value, error) {
	if operand == nil {
		return nil, fmt.Errorf("operator %s applied to a nil operand", op)
	}
	switch op {
	case OpNot:
		return runtime.BoolValue{Val: !runtime.Truthy(operand)}, nil
	case OpInc, OpDec:
		return EvalIncDec(op, operand, mode)
	case OpNeg, OpPlus, OpBitNot:
	default:
		return nil, fmt.Errorf("operator %s is not unary", op)
	}
	rs := modeRules(mode)
	table := &rs.unaryArith
	if op == OpBitNot {
		table = &rs.unaryBitwise
	}
	k := operand.Kind()
	if !validKind(k) || table[k] == nil {
		return nil, newUnsupportedUnary(op, operand)
	}
	return table[k].apply(op, operand)
}

// EvalIncDec applies ++ or -- to a computed operand and returns the stepped
// value. Writing the result back to the operand's storage is the host's
// concern.
func EvalIncDec(op Op, operand runtime.Value, mode Mode) (runtime.Value, error) {
	if op != OpInc && op != OpDec {
		return nil, fmt.Errorf("operator %s is not an increment or decrement", op)
	}
	if operand == nil {
		return nil, fmt.Errorf("operator %s applied to a nil operand", op)
	}
	k := operand.Kind()
	rs := modeRules(mode)
	if !validKind(k) || rs.incdec[k] == nil {
		return nil, newUnsupportedUnary(op, operand)
	}
	return rs.incdec[k].apply(op, operand)
}

// Acceptance classifies one cell of an acceptance table.
type Acceptance int

const (
	// Rejected combinations always fail with UnsupportedOperandError.
	Rejected Acceptance = iota
	// Accepted combinations always have a defined result, though evaluation
	// may still fail on values (division by zero, negative shift counts).
	Accepted
	// Conditional combinations are admitted at the kind level but the
	// specific operator or operand values decide: array union outside +,
	// textless objects, non-numeric strings.
	Conditional
)

func (a Acceptance) String() string {
	switch a {
	case Accepted:
		return "accepted"
	case Conditional:
		return "conditional"
	}
	return "rejected"
}

// RuleFor reports how a mode treats one operand-kind pair for a binary
// operator family. The identity and logical families are total, so every
// pair is accepted; the inc/dec family is unary, see UnaryRuleFor.
func RuleFor(family Family, left, right runtime.Kind, mode Mode) Acceptance {
	if !validKind(left) || !validKind(right) {
		return Rejected
	}
	switch family {
	case FamilyIdentity, FamilyLogical:
		return Accepted
	}
	table := modeRules(mode).binaryTable(family)
	if table == nil {
		return Rejected
	}
	return table[left][right].acceptance()
}

// UnaryRuleFor reports how a mode treats one operand kind for a unary
// operator.
func UnaryRuleFor(op Op, kind runtime.Kind, mode Mode) Acceptance {
	if !validKind(kind) {
		return Rejected
	}
	rs := modeRules(mode)
	switch op {
	case OpNot:
		return Accepted
	case OpNeg, OpPlus:
		return rs.unaryArith[kind].acceptance()
	case OpBitNot:
		return rs.unaryBitwise[kind].acceptance()
	case OpInc, OpDec:
		return rs.incdec[kind].acceptance()
	}
	return Rejected
}

func (r *rule) acceptance() Acceptance {
	if r == nil {
		return Rejected
	}
	if r.cond {
		return Conditional
	}
	return Accepted
}

func (r *unaryRule) acceptance() Acceptance {
	if r == nil {
		return Rejected
	}
	if r.cond {
		return Conditional
	}
	return Accepted
}
