package runtime

import (
	"math"
	"testing"
)

func TestKindNames(t *testing.T) {
	cases := map[Kind]string{
		KindNull:     "null",
		KindBool:     "bool",
		KindInt:      "int",
		KindFloat:    "float",
		KindString:   "string",
		KindArray:    "array",
		KindObject:   "object",
		KindResource: "resource",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}

func TestTruthy(t *testing.T) {
	falsy := []Value{
		NullValue{},
		BoolValue{Val: false},
		IntValue{Val: 0},
		FloatValue{Val: 0},
		StringValue{Val: ""},
		NewArray(),
	}
	for _, v := range falsy {
		if Truthy(v) {
			t.Fatalf("Truthy(%s) = true, want false", Format(v))
		}
	}

	truthy := []Value{
		BoolValue{Val: true},
		IntValue{Val: -1},
		FloatValue{Val: 0.5},
		FloatValue{Val: math.NaN()},
		StringValue{Val: "0"},
		StringValue{Val: " "},
		NewArrayOf(IntValue{Val: 0}),
		NewObject("Point"),
		ResourceValue{ID: 1},
	}
	for _, v := range truthy {
		if !Truthy(v) {
			t.Fatalf("Truthy(%s) = false, want true", Format(v))
		}
	}
}

func TestObjectProps(t *testing.T) {
	obj := NewObject("Point")
	obj.SetProp("x", IntValue{Val: 1})
	obj.SetProp("y", IntValue{Val: 2})
	obj.SetProp("x", IntValue{Val: 9})

	names := obj.PropNames()
	if len(names) != 2 || names[0] != "x" || names[1] != "y" {
		t.Fatalf("PropNames = %v, want [x y]", names)
	}
	x, ok := obj.Prop("x")
	if !ok {
		t.Fatal("Prop(x) missing")
	}
	if iv, ok := x.(IntValue); !ok || iv.Val != 9 {
		t.Fatalf("Prop(x) = %v, want 9 (overwrite keeps position)", x)
	}
	if obj.Stringable() {
		t.Fatal("plain object reports Stringable")
	}
	if _, err := obj.Text(); err == nil {
		t.Fatal("Text() on plain object should error")
	}
}

func TestStringableObject(t *testing.T) {
	obj := NewStringableObject("Temperature", func(o *ObjectValue) (string, error) {
		return "21.5C", nil
	})
	if !obj.Stringable() {
		t.Fatal("stringable object reports no capability")
	}
	text, err := obj.Text()
	if err != nil {
		t.Fatalf("Text() error: %v", err)
	}
	if text != "21.5C" {
		t.Fatalf("Text() = %q, want 21.5C", text)
	}
}
