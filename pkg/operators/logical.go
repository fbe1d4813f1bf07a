package operators

import "veld/semantics-go/pkg/runtime"

// logicalBinary combines the truthiness of two already-computed operands.
// Short-circuiting is the host evaluator's concern; once both operands
// exist the answer is a pure truth table, identical in both modes.
func logicalBinary(op Op, left, right runtime.Value) runtime.Value {
	lb, rb := runtime.Truthy(left), runtime.Truthy(right)
	switch op {
	case OpAnd:
		return runtime.BoolValue{Val: lb && rb}
	case OpOr:
		return runtime.BoolValue{Val: lb || rb}
	}
	return runtime.BoolValue{Val: lb != rb}
}
