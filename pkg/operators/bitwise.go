package operators

import (
	"fmt"

	"veld/semantics-go/pkg/runtime"
)

func intBitwise(op Op, left, right runtime.Value) (runtime.Value, error) {
	return intBits(op, left.(runtime.IntValue).Val, right.(runtime.IntValue).Val)
}

func intBits(op Op, a, b int64) (runtime.Value, error) {
	switch op {
	case OpBitAnd:
		return runtime.IntValue{Val: a & b}, nil
	case OpBitOr:
		return runtime.IntValue{Val: a | b}, nil
	case OpBitXor:
		return runtime.IntValue{Val: a ^ b}, nil
	}
	return nil, fmt.Errorf("operator %s is not bitwise", op)
}

// stringBitwise applies the operator byte by byte. AND and XOR truncate to
// the shorter operand; OR keeps the longer operand's tail.
func stringBitwise(op Op, left, right runtime.Value) (runtime.Value, error) {
	a := left.(runtime.StringValue).Val
	b := right.(runtime.StringValue).Val
	switch op {
	case OpBitAnd, OpBitXor:
		n := len(a)
		if len(b) < n {
			n = len(b)
		}
		out := make([]byte, n)
		for i := 0; i < n; i++ {
			if op == OpBitAnd {
				out[i] = a[i] & b[i]
			} else {
				out[i] = a[i] ^ b[i]
			}
		}
		return runtime.StringValue{Val: string(out)}, nil
	case OpBitOr:
		long, short := a, b
		if len(b) > len(a) {
			long, short = b, a
		}
		out := make([]byte, len(long))
		copy(out, long)
		for i := 0; i < len(short); i++ {
			out[i] |= short[i]
		}
		return runtime.StringValue{Val: string(out)}, nil
	}
	return nil, fmt.Errorf("operator %s is not bitwise", op)
}

func intShift(op Op, left, right runtime.Value) (runtime.Value, error) {
	return shiftBits(op, left.(runtime.IntValue).Val, right.(runtime.IntValue).Val)
}

// shiftBits shifts with saturating counts: negative counts are an error,
// counts past the word width shift everything out, sign-filling for right
// shifts.
func shiftBits(op Op, a, count int64) (runtime.Value, error) {
	if count < 0 {
		return nil, &NegativeShiftError{Count: count}
	}
	if count >= 64 {
		if op == OpShr && a < 0 {
			return runtime.IntValue{Val: -1}, nil
		}
		return runtime.IntValue{Val: 0}, nil
	}
	switch op {
	case OpShl:
		return runtime.IntValue{Val: a << count}, nil
	case OpShr:
		return runtime.IntValue{Val: a >> count}, nil
	}
	return nil, fmt.Errorf("operator %s is not a shift", op)
}

func legacyIntBitwise(op Op, left, right runtime.Value) (runtime.Value, error) {
	a, ok := legacyNumber(left)
	if !ok {
		return nil, newUnsupportedBinary(op, left, right)
	}
	b, ok := legacyNumber(right)
	if !ok {
		return nil, newUnsupportedBinary(op, left, right)
	}
	return intBits(op, a.Int(), b.Int())
}

func legacyIntShift(op Op, left, right runtime.Value) (runtime.Value, error) {
	a, ok := legacyNumber(left)
	if !ok {
		return nil, newUnsupportedBinary(op, left, right)
	}
	b, ok := legacyNumber(right)
	if !ok {
		return nil, newUnsupportedBinary(op, left, right)
	}
	return shiftBits(op, a.Int(), b.Int())
}

func intBitNot(op Op, operand runtime.Value) (runtime.Value, error) {
	return runtime.IntValue{Val: ^operand.(runtime.IntValue).Val}, nil
}

// floatBitNot truncates to int first; only the legacy tables route here.
func floatBitNot(op Op, operand runtime.Value) (runtime.Value, error) {
	return runtime.IntValue{Val: ^floatNumber(operand.(runtime.FloatValue).Val).Int()}, nil
}

// stringBitNot complements every byte.
func stringBitNot(op Op, operand runtime.Value) (runtime.Value, error) {
	s := operand.(runtime.StringValue).Val
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = ^s[i]
	}
	return runtime.StringValue{Val: string(out)}, nil
}
