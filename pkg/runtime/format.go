package runtime

import (
	"math"
	"strconv"
	"strings"
)

// FloatText renders a float the way the language casts floats to text:
// 14 significant digits, shortest form, with INF/-INF/NAN spelled out. The
// same rule backs concatenation casts and value formatting.
func FloatText(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}
	return strconv.FormatFloat(f, 'G', 14, 64)
}

// Format renders a value as a literal: quoted strings, bracketed arrays with
// explicit keys, Class{...} objects, resource(id:type) handles. Scalar and
// array output parses back to an identical value under the notation grammar.
func Format(v Value) string {
	var b strings.Builder
	formatInto(&b, v)
	return b.String()
}

func formatInto(b *strings.Builder, v Value) {
	switch val := v.(type) {
	case nil, NullValue:
		b.WriteString("null")
	case BoolValue:
		if val.Val {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case IntValue:
		b.WriteString(strconv.FormatInt(val.Val, 10))
	case FloatValue:
		text := FloatText(val.Val)
		b.WriteString(text)
		// Keep integral floats distinguishable from ints.
		if !strings.ContainsAny(text, ".EN") {
			b.WriteString(".0")
		}
	case StringValue:
		quoteText(b, val.Val)
	case *ArrayValue:
		b.WriteByte('[')
		for i, entry := range val.Entries() {
			if i > 0 {
				b.WriteString(", ")
			}
			if entry.Key.IsString() {
				quoteText(b, entry.Key.Str())
			} else {
				b.WriteString(strconv.FormatInt(entry.Key.Int(), 10))
			}
			b.WriteString(" => ")
			formatInto(b, entry.Val)
		}
		b.WriteByte(']')
	case *ObjectValue:
		b.WriteString(val.Class)
		b.WriteByte('{')
		for i, name := range val.PropNames() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(name)
			b.WriteString(" => ")
			prop, _ := val.Prop(name)
			formatInto(b, prop)
		}
		b.WriteByte('}')
	case ResourceValue:
		b.WriteString("resource(")
		b.WriteString(strconv.FormatInt(val.ID, 10))
		if val.Type != "" {
			b.WriteByte(':')
			b.WriteString(val.Type)
		}
		b.WriteByte(')')
	default:
		b.WriteString("<unknown>")
	}
}

// quoteText writes s double-quoted using the notation's escape set, so
// the output re-lexes to the same bytes. A "${" pair is broken up
// because it would otherwise read as an interpolation opener.
func quoteText(b *strings.Builder, s string) {
	const hex = "0123456789ABCDEF"
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			b.WriteString(`\"`)
		case c == '\\':
			b.WriteString(`\\`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == 0:
			b.WriteString(`\0`)
		case c == '$' && i+1 < len(s) && s[i+1] == '{':
			b.WriteString(`\x24`)
		case c < 0x20 || c == 0x7f:
			b.WriteString(`\x`)
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0xf])
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
}
