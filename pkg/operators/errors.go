package operators

import (
	"fmt"

	"veld/semantics-go/pkg/runtime"
)

// UnsupportedOperandError reports an operand kind combination the active mode
// does not admit for the operator. Left and Right are the operand kinds as
// presented; for unary operators Right is unused and Unary is set.
type UnsupportedOperandError struct {
	Op    Op
	Left  runtime.Kind
	Right runtime.Kind
	Unary bool
}

func newUnsupportedBinary(op Op, left, right runtime.Value) *UnsupportedOperandError {
	return &UnsupportedOperandError{Op: op, Left: left.Kind(), Right: right.Kind()}
}

func newUnsupportedUnary(op Op, operand runtime.Value) *UnsupportedOperandError {
	return &UnsupportedOperandError{Op: op, Left: operand.Kind(), Unary: true}
}

func (e *UnsupportedOperandError) Error() string {
	if e.Unary {
		return fmt.Sprintf("unsupported operand type: %s %s", e.Op, e.Left)
	}
	return fmt.Sprintf("unsupported operand types: %s %s %s", e.Left, e.Op, e.Right)
}

// DivisionByZeroError reports division or modulo with a zero divisor. Integer
// and float division both raise it; only float modulo is exempt (it yields
// NAN instead).
type DivisionByZeroError struct {
	Modulo bool
}

func newDivisionByZero(modulo bool) *DivisionByZeroError {
	return &DivisionByZeroError{Modulo: modulo}
}

func (e *DivisionByZeroError) Error() string {
	if e.Modulo {
		return "modulo by zero"
	}
	return "division by zero"
}

// NegativeShiftError reports a shift by a negative bit count.
type NegativeShiftError struct {
	Count int64
}

func (e *NegativeShiftError) Error() string {
	return fmt.Sprintf("bit shift by negative number (%d)", e.Count)
}

// NoMatchingCaseError reports case selection that exhausted every candidate
// without a match and had no default arm to fall back on.
type NoMatchingCaseError struct {
	Subject runtime.Kind
}

func (e *NoMatchingCaseError) Error() string {
	return fmt.Sprintf("no case matches %s subject and no default case is present", e.Subject)
}
