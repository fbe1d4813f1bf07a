package runtime

import "fmt"

// Kind identifies the runtime value category.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
	KindResource
)

// KindCount is the number of runtime kinds; rule tables are sized by it.
const KindCount = int(KindResource) + 1

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindResource:
		return "resource"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type IntValue struct {
	Val int64
}

func (v IntValue) Kind() Kind { return KindInt }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

//-----------------------------------------------------------------------------
// Objects
//-----------------------------------------------------------------------------

// TextFunc renders an object as text. Classes without one are not stringable.
type TextFunc func(*ObjectValue) (string, error)

// ObjectValue carries a declared class name and an ordered property map. Two
// objects of different classes never compare equal regardless of properties.
type ObjectValue struct {
	Class string
	names []string
	props map[string]Value
	text  TextFunc
}

// NewObject constructs an object of the given class with no text capability.
func NewObject(class string) *ObjectValue {
	return &ObjectValue{Class: class, props: map[string]Value{}}
}

// NewStringableObject constructs an object whose class exposes a text
// conversion, accepted by concatenation and interpolation.
func NewStringableObject(class string, text TextFunc) *ObjectValue {
	return &ObjectValue{Class: class, props: map[string]Value{}, text: text}
}

func (o *ObjectValue) Kind() Kind { return KindObject }

// SetProp defines or replaces a property, keeping first-definition order.
func (o *ObjectValue) SetProp(name string, v Value) {
	if o.props == nil {
		o.props = map[string]Value{}
	}
	if _, ok := o.props[name]; !ok {
		o.names = append(o.names, name)
	}
	o.props[name] = v
}

func (o *ObjectValue) Prop(name string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.props[name]
	return v, ok
}

// PropNames returns property names in definition order.
func (o *ObjectValue) PropNames() []string {
	if o == nil {
		return nil
	}
	return o.names
}

func (o *ObjectValue) NumProps() int {
	if o == nil {
		return 0
	}
	return len(o.names)
}

// Stringable reports whether the object's class exposes a text conversion.
func (o *ObjectValue) Stringable() bool {
	return o != nil && o.text != nil
}

// Text invokes the class text conversion.
func (o *ObjectValue) Text() (string, error) {
	if o == nil || o.text == nil {
		class := ""
		if o != nil {
			class = o.Class
		}
		return "", fmt.Errorf("object of class %s has no text conversion", class)
	}
	return o.text(o)
}

//-----------------------------------------------------------------------------
// Resources
//-----------------------------------------------------------------------------

// ResourceValue is an opaque host handle. No conversions are defined for it;
// resources compare equal only to resources with the same ID.
type ResourceValue struct {
	ID   int64
	Type string
}

func (v ResourceValue) Kind() Kind { return KindResource }

//-----------------------------------------------------------------------------
// Truthiness
//-----------------------------------------------------------------------------

// Truthy applies the language boolean rule, identical in both operator modes:
// null, false, 0, 0.0, the empty string, and the empty array are falsy;
// everything else, including "0", objects, and resources, is truthy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil:
		return false
	case NullValue:
		return false
	case BoolValue:
		return val.Val
	case IntValue:
		return val.Val != 0
	case FloatValue:
		return val.Val != 0
	case StringValue:
		return val.Val != ""
	case *ArrayValue:
		return val.Len() != 0
	default:
		return true
	}
}

// IsNull reports whether the value is the null value.
func IsNull(v Value) bool {
	_, ok := v.(NullValue)
	return ok
}
