package operators

import "fmt"

// Mode selects which rule set governs operand acceptance and coercion.
type Mode int

const (
	// ModeLegacy is the ancestral behaviour: operands are coerced by value
	// (numeric strings become numbers, null becomes zero, and so on) and
	// comparisons are smart about mixed kinds.
	ModeLegacy Mode = iota

	// ModeStrict accepts or rejects an operation from the operand kinds
	// alone. The only implicit conversion is int widening to float when the
	// other operand is a float.
	ModeStrict
)

func (m Mode) String() string {
	if m == ModeStrict {
		return "strict"
	}
	return "legacy"
}

// ParseMode maps a mode name to its Mode. The second result reports whether
// the name was recognised.
func ParseMode(name string) (Mode, bool) {
	switch name {
	case "legacy":
		return ModeLegacy, true
	case "strict":
		return ModeStrict, true
	}
	return ModeLegacy, false
}

// Family groups operators that share one acceptance table.
type Family int

const (
	FamilyArithmetic Family = iota
	FamilyIncDec
	FamilyComparison
	FamilyIdentity
	FamilyBitwise
	FamilyShift
	FamilyConcat
	FamilyLogical
)

var familyNames = [...]string{
	FamilyArithmetic: "arithmetic",
	FamilyIncDec:     "incdec",
	FamilyComparison: "comparison",
	FamilyIdentity:   "identity",
	FamilyBitwise:    "bitwise",
	FamilyShift:      "shift",
	FamilyConcat:     "concat",
	FamilyLogical:    "logical",
}

func (f Family) String() string {
	if f < 0 || int(f) >= len(familyNames) {
		return fmt.Sprintf("family(%d)", int(f))
	}
	return familyNames[f]
}

// ParseFamily maps a family name to its Family. The second result reports
// whether the name was recognised.
func ParseFamily(name string) (Family, bool) {
	for f, n := range familyNames {
		if n == name {
			return Family(f), true
		}
	}
	return 0, false
}

// Op identifies one operator. Binary and unary operators share the type; the
// unary spellings that collide with binary ones (minus and plus) have their
// own constants.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpNeg  // unary -
	OpPlus // unary +
	OpInc
	OpDec
	OpEq
	OpNotEq
	OpLt
	OpGt
	OpLtEq
	OpGtEq
	OpSpaceship
	OpIdentical
	OpNotIdentical
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitNot
	OpShl
	OpShr
	OpConcat
	OpNot
	OpAnd
	OpOr
	OpXor
)

type opInfo struct {
	symbol string
	family Family
	unary  bool
}

var opTable = [...]opInfo{
	OpAdd:          {"+", FamilyArithmetic, false},
	OpSub:          {"-", FamilyArithmetic, false},
	OpMul:          {"*", FamilyArithmetic, false},
	OpDiv:          {"/", FamilyArithmetic, false},
	OpMod:          {"%", FamilyArithmetic, false},
	OpPow:          {"**", FamilyArithmetic, false},
	OpNeg:          {"-", FamilyArithmetic, true},
	OpPlus:         {"+", FamilyArithmetic, true},
	OpInc:          {"++", FamilyIncDec, true},
	OpDec:          {"--", FamilyIncDec, true},
	OpEq:           {"==", FamilyComparison, false},
	OpNotEq:        {"!=", FamilyComparison, false},
	OpLt:           {"<", FamilyComparison, false},
	OpGt:           {">", FamilyComparison, false},
	OpLtEq:         {"<=", FamilyComparison, false},
	OpGtEq:         {">=", FamilyComparison, false},
	OpSpaceship:    {"<=>", FamilyComparison, false},
	OpIdentical:    {"===", FamilyIdentity, false},
	OpNotIdentical: {"!==", FamilyIdentity, false},
	OpBitAnd:       {"&", FamilyBitwise, false},
	OpBitOr:        {"|", FamilyBitwise, false},
	OpBitXor:       {"^", FamilyBitwise, false},
	OpBitNot:       {"~", FamilyBitwise, true},
	OpShl:          {"<<", FamilyShift, false},
	OpShr:          {">>", FamilyShift, false},
	OpConcat:       {".", FamilyConcat, false},
	OpNot:          {"!", FamilyLogical, true},
	OpAnd:          {"&&", FamilyLogical, false},
	OpOr:           {"||", FamilyLogical, false},
	OpXor:          {"xor", FamilyLogical, false},
}

// String returns the operator's source spelling.
func (op Op) String() string {
	if op < 0 || int(op) >= len(opTable) {
		return fmt.Sprintf("op(%d)", int(op))
	}
	return opTable[op].symbol
}

// Family returns the acceptance family the operator belongs to.
func (op Op) Family() Family {
	if op < 0 || int(op) >= len(opTable) {
		return FamilyArithmetic
	}
	return opTable[op].family
}

// Unary reports whether the operator takes a single operand.
func (op Op) Unary() bool {
	if op < 0 || int(op) >= len(opTable) {
		return false
	}
	return opTable[op].unary
}

// ParseBinaryOp maps a binary operator spelling to its Op. The word forms
// "and" and "or" are accepted alongside "&&" and "||".
func ParseBinaryOp(symbol string) (Op, bool) {
	switch symbol {
	case "and":
		return OpAnd, true
	case "or":
		return OpOr, true
	}
	for op, info := range opTable {
		if !info.unary && info.symbol == symbol {
			return Op(op), true
		}
	}
	return 0, false
}

// ParseUnaryOp maps a unary operator spelling to its Op. "-" and "+" resolve
// to the unary operators, not their binary namesakes.
func ParseUnaryOp(symbol string) (Op, bool) {
	for op, info := range opTable {
		if info.unary && info.symbol == symbol {
			return Op(op), true
		}
	}
	return 0, false
}
