package operators

import (
	"strconv"
	"strings"

	"veld/semantics-go/pkg/runtime"
)

// Concat applies the . operator under the given mode.
func Concat(left, right runtime.Value, mode Mode) (runtime.Value, error) {
	return EvalBinary(OpConcat, left, right, mode)
}

func strictConcat(op Op, left, right runtime.Value) (runtime.Value, error) {
	ls, ok, err := strictText(left)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newUnsupportedBinary(op, left, right)
	}
	rs, ok, err := strictText(right)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newUnsupportedBinary(op, left, right)
	}
	return runtime.StringValue{Val: ls + rs}, nil
}

func legacyConcat(op Op, left, right runtime.Value) (runtime.Value, error) {
	ls, ok, err := legacyText(left)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newUnsupportedBinary(op, left, right)
	}
	rs, ok, err := legacyText(right)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newUnsupportedBinary(op, left, right)
	}
	return runtime.StringValue{Val: ls + rs}, nil
}

// strictText renders one strict concat operand: null is empty, numbers
// print canonically, objects must carry a text conversion. ok is false for
// kinds the strict rule rejects; a non-nil error is a failure from the
// object's own text callback and propagates as-is.
func strictText(v runtime.Value) (string, bool, error) {
	switch v := v.(type) {
	case runtime.NullValue:
		return "", true, nil
	case runtime.IntValue:
		return strconv.FormatInt(v.Val, 10), true, nil
	case runtime.FloatValue:
		return runtime.FloatText(v.Val), true, nil
	case runtime.StringValue:
		return v.Val, true, nil
	case *runtime.ObjectValue:
		if !v.Stringable() {
			return "", false, nil
		}
		text, err := v.Text()
		if err != nil {
			return "", true, err
		}
		return text, true, nil
	}
	return "", false, nil
}

// legacyText layers the ancestral casts over the strict set: true prints
// "1", false prints nothing, arrays flatten to the word "Array", resources
// to their id tag.
func legacyText(v runtime.Value) (string, bool, error) {
	switch v := v.(type) {
	case runtime.BoolValue:
		if v.Val {
			return "1", true, nil
		}
		return "", true, nil
	case *runtime.ArrayValue:
		return "Array", true, nil
	case runtime.ResourceValue:
		return "Resource id #" + strconv.FormatInt(v.ID, 10), true, nil
	}
	return strictText(v)
}

// Segment is one piece of an interpolated string: literal text when Value
// is nil, an embedded expression result otherwise.
type Segment struct {
	Text  string
	Value runtime.Value
}

func TextSegment(s string) Segment { return Segment{Text: s} }

func ValueSegment(v runtime.Value) Segment { return Segment{Value: v} }

// Interpolate renders an interpolated string. Every embedded value follows
// the mode's concat operand rule, so one rejected segment fails the whole
// string.
func Interpolate(segments []Segment, mode Mode) (runtime.Value, error) {
	var sb strings.Builder
	for _, seg := range segments {
		if seg.Value == nil {
			sb.WriteString(seg.Text)
			continue
		}
		text, err := operandText(seg.Value, mode)
		if err != nil {
			return nil, err
		}
		sb.WriteString(text)
	}
	return runtime.StringValue{Val: sb.String()}, nil
}

func operandText(v runtime.Value, mode Mode) (string, error) {
	var text string
	var ok bool
	var err error
	if mode == ModeStrict {
		text, ok, err = strictText(v)
	} else {
		text, ok, err = legacyText(v)
	}
	if err != nil {
		return "", err
	}
	if !ok {
		return "", newUnsupportedUnary(OpConcat, v)
	}
	return text, nil
}
