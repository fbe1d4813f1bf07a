package runtime

import "strconv"

// ArrayKey is an array subscript: an int64 or a string, never both. String
// keys that spell a canonical base-10 int64 are normalized to int keys, so
// a["7"] and a[7] address the same entry.
type ArrayKey struct {
	n   int64
	s   string
	str bool
}

func IntKey(n int64) ArrayKey {
	return ArrayKey{n: n}
}

func StringKey(s string) ArrayKey {
	if n, ok := canonicalIntString(s); ok {
		return ArrayKey{n: n}
	}
	return ArrayKey{s: s, str: true}
}

// KeyOf derives an array key from an int or string value. Other kinds are not
// usable as keys; the engine never key-casts the way legacy subscripting does.
func KeyOf(v Value) (ArrayKey, bool) {
	switch val := v.(type) {
	case IntValue:
		return IntKey(val.Val), true
	case StringValue:
		return StringKey(val.Val), true
	default:
		return ArrayKey{}, false
	}
}

func (k ArrayKey) IsString() bool { return k.str }

// Int returns the numeric key; only meaningful when IsString is false.
func (k ArrayKey) Int() int64 { return k.n }

// Str returns the raw string key; only meaningful when IsString is true.
func (k ArrayKey) Str() string { return k.s }

// Value converts the key back to its runtime value form.
func (k ArrayKey) Value() Value {
	if k.str {
		return StringValue{Val: k.s}
	}
	return IntValue{Val: k.n}
}

func (k ArrayKey) String() string {
	if k.str {
		return strconv.Quote(k.s)
	}
	return strconv.FormatInt(k.n, 10)
}

// canonicalIntString recognises strings that round-trip to int64 exactly:
// "0", "17", "-3", but not "007", "+1", " 1", or values past the int64 range.
func canonicalIntString(s string) (int64, bool) {
	if s == "" || s == "-" {
		return 0, false
	}
	digits := s
	if s[0] == '-' {
		digits = s[1:]
	}
	if digits == "" || (len(digits) > 1 && digits[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ArrayEntry is a single key/value pair of an ordered array.
type ArrayEntry struct {
	Key ArrayKey
	Val Value
}

// ArrayValue is an ordered mapping from key to value. Insertion order is
// semantically significant: identity comparison is order-sensitive and the
// union operator preserves left-then-right ordering.
type ArrayValue struct {
	entries []ArrayEntry
	index   map[ArrayKey]int
	next    int64
}

func NewArray() *ArrayValue {
	return &ArrayValue{index: map[ArrayKey]int{}}
}

// NewArrayOf builds an array from values with auto-assigned int keys 0..n-1.
func NewArrayOf(values ...Value) *ArrayValue {
	a := NewArray()
	for _, v := range values {
		a.Append(v)
	}
	return a
}

func (a *ArrayValue) Kind() Kind { return KindArray }

func (a *ArrayValue) Len() int {
	if a == nil {
		return 0
	}
	return len(a.entries)
}

// Append inserts under the next free non-negative int key.
func (a *ArrayValue) Append(v Value) {
	a.Set(IntKey(a.next), v)
}

// Set inserts or overwrites; overwriting keeps the entry's original position.
// Non-negative int keys advance the auto-key high-water mark.
func (a *ArrayValue) Set(k ArrayKey, v Value) {
	if a.index == nil {
		a.index = map[ArrayKey]int{}
	}
	if pos, ok := a.index[k]; ok {
		a.entries[pos].Val = v
		return
	}
	a.index[k] = len(a.entries)
	a.entries = append(a.entries, ArrayEntry{Key: k, Val: v})
	if !k.IsString() && k.Int() >= a.next {
		a.next = k.Int() + 1
	}
}

func (a *ArrayValue) Get(k ArrayKey) (Value, bool) {
	if a == nil {
		return nil, false
	}
	pos, ok := a.index[k]
	if !ok {
		return nil, false
	}
	return a.entries[pos].Val, true
}

// Entries exposes the ordered pairs. The slice is the array's backing store;
// callers must treat it as read-only.
func (a *ArrayValue) Entries() []ArrayEntry {
	if a == nil {
		return nil
	}
	return a.entries
}

// Keys returns the keys in insertion order.
func (a *ArrayValue) Keys() []ArrayKey {
	if a == nil {
		return nil
	}
	keys := make([]ArrayKey, len(a.entries))
	for i, e := range a.entries {
		keys[i] = e.Key
	}
	return keys
}
