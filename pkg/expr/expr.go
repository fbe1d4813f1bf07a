// Package expr implements the expression notation used by the veldop
// CLI, the REPL, and conformance fixtures.
//
// The notation covers literals for every Veld kind that has a written
// form (decimal, hex, and binary ints, floats with exponents,
// double-quoted strings with ${...} interpolation, true, false, null,
// INF, NAN, and array literals with optional key => value entries)
// combined with the operator set from pkg/operators at host-like
// precedence. There are no identifiers: an expression always denotes a
// value, so a parsed tree can be evaluated under either mode.
package expr

import (
	"veld/semantics-go/pkg/operators"
	"veld/semantics-go/pkg/runtime"
)

// Expr is a parsed expression node.
type Expr interface {
	// Pos reports the 1-based source column errors for the node point at.
	Pos() int
}

// Literal is a value written directly in the source.
type Literal struct {
	Column int
	Value  runtime.Value
}

// ArrayEntry is a single element of an array literal. Key is nil for
// entries that take the next automatic index.
type ArrayEntry struct {
	Key   Expr
	Value Expr
}

// Array is an array literal.
type Array struct {
	Column  int
	Entries []ArrayEntry
}

// Unary applies a prefix operator to its operand.
type Unary struct {
	Column  int
	Op      operators.Op
	Operand Expr
}

// Binary applies an infix operator. Column points at the operator, not
// the left operand.
type Binary struct {
	Column int
	Op     operators.Op
	Left   Expr
	Right  Expr
}

// InterpPart is one piece of an interpolated string: literal text when
// Expr is nil, otherwise an expression whose text is spliced in.
type InterpPart struct {
	Text string
	Expr Expr
}

// Interp is a double-quoted string containing ${...} segments.
type Interp struct {
	Column int
	Parts  []InterpPart
}

func (l *Literal) Pos() int { return l.Column }

func (a *Array) Pos() int { return a.Column }

func (u *Unary) Pos() int { return u.Column }

func (b *Binary) Pos() int { return b.Column }

func (i *Interp) Pos() int { return i.Column }
