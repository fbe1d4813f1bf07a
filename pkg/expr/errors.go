package expr

import "fmt"

// SyntaxError reports a scan or parse failure.
type SyntaxError struct {
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("column %d: %s", e.Column, e.Message)
}

// EvalError wraps an evaluation failure with the column of the node
// that produced it. Unwrap exposes the underlying operator error so
// callers can still match on the taxonomy types.
type EvalError struct {
	Column int
	Err    error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("column %d: %s", e.Column, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }
