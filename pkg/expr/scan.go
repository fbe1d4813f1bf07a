package expr

import (
	"fmt"
	"strings"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokInt
	tokFloat
	tokString  // complete string literal, lit holds the decoded text
	tokStrHead // text before the first ${ of an interpolated string
	tokStrMid  // text between two interpolations
	tokStrTail // text after the final interpolation
	tokTrue
	tokFalse
	tokNull
	tokInf
	tokNan
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
	tokComma
	tokArrow
	tokOp // operator symbol or word, lit holds the spelling
)

type token struct {
	typ tokenType
	lit string
	col int // 1-based byte column
}

type scanner struct {
	src    string
	pos    int
	interp int // open ${ interpolations
	toks   []token
}

func lexTokens(src string) ([]token, error) {
	s := &scanner{src: src}
	if err := s.run(); err != nil {
		return nil, err
	}
	return s.toks, nil
}

func (s *scanner) emit(typ tokenType, lit string, col int) {
	s.toks = append(s.toks, token{typ: typ, lit: lit, col: col})
}

func (s *scanner) run() error {
	for {
		for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
			s.pos++
		}
		if s.pos >= len(s.src) {
			s.emit(tokEOF, "", s.pos+1)
			return nil
		}
		c := s.src[s.pos]
		switch {
		case c == '"':
			col := s.pos + 1
			s.pos++
			if err := s.scanStringText(col, true); err != nil {
				return err
			}
		case c == '}' && s.interp > 0:
			// Close of an interpolation: resume the surrounding string.
			col := s.pos + 1
			s.interp--
			s.pos++
			if err := s.scanStringText(col, false); err != nil {
				return err
			}
		case isDigit(c) || (c == '.' && s.pos+1 < len(s.src) && isDigit(s.src[s.pos+1])):
			s.scanNumber()
		case isWordStart(c):
			if err := s.scanWord(); err != nil {
				return err
			}
		default:
			if err := s.scanOperator(); err != nil {
				return err
			}
		}
	}
}

// scanStringText consumes string content up to the closing quote or the
// next ${ opener. head marks the piece that starts at the opening
// quote; the emitted token type records which side of an interpolation
// the text sits on.
func (s *scanner) scanStringText(col int, head bool) error {
	var b strings.Builder
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '"':
			s.pos++
			if head {
				s.emit(tokString, b.String(), col)
			} else {
				s.emit(tokStrTail, b.String(), col)
			}
			return nil
		case c == '$' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '{':
			s.pos += 2
			s.interp++
			if head {
				s.emit(tokStrHead, b.String(), col)
			} else {
				s.emit(tokStrMid, b.String(), col)
			}
			return nil
		case c == '\\':
			if err := s.scanEscape(&b); err != nil {
				return err
			}
		default:
			b.WriteByte(c)
			s.pos++
		}
	}
	return &SyntaxError{Column: col, Message: "unterminated string"}
}

func (s *scanner) scanEscape(b *strings.Builder) error {
	col := s.pos + 1
	s.pos++
	if s.pos >= len(s.src) {
		return &SyntaxError{Column: col, Message: "unterminated string"}
	}
	c := s.src[s.pos]
	s.pos++
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case '"':
		b.WriteByte('"')
	case '\\':
		b.WriteByte('\\')
	case '0':
		b.WriteByte(0)
	case 'x':
		if s.pos+2 > len(s.src) || !isHexDigit(s.src[s.pos]) || !isHexDigit(s.src[s.pos+1]) {
			return &SyntaxError{Column: col, Message: `\x escape needs two hex digits`}
		}
		b.WriteByte(hexDigit(s.src[s.pos])<<4 | hexDigit(s.src[s.pos+1]))
		s.pos += 2
	default:
		return &SyntaxError{Column: col, Message: fmt.Sprintf("unknown escape \\%c", c)}
	}
	return nil
}

func (s *scanner) scanNumber() {
	start := s.pos
	col := start + 1
	if s.src[s.pos] == '0' && s.pos+2 < len(s.src) {
		switch {
		case (s.src[s.pos+1] == 'x' || s.src[s.pos+1] == 'X') && isHexDigit(s.src[s.pos+2]):
			s.pos += 2
			for s.pos < len(s.src) && isHexDigit(s.src[s.pos]) {
				s.pos++
			}
			s.emit(tokInt, s.src[start:s.pos], col)
			return
		case (s.src[s.pos+1] == 'b' || s.src[s.pos+1] == 'B') && isBinDigit(s.src[s.pos+2]):
			s.pos += 2
			for s.pos < len(s.src) && isBinDigit(s.src[s.pos]) {
				s.pos++
			}
			s.emit(tokInt, s.src[start:s.pos], col)
			return
		}
	}
	float := false
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}
	if s.pos < len(s.src) && s.src[s.pos] == '.' {
		float = true
		s.pos++
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
		}
	}
	// The exponent is consumed only when at least one digit follows it,
	// so "2e" lexes as the number 2 followed by a word.
	if s.pos < len(s.src) && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		p := s.pos + 1
		if p < len(s.src) && (s.src[p] == '+' || s.src[p] == '-') {
			p++
		}
		if p < len(s.src) && isDigit(s.src[p]) {
			for p < len(s.src) && isDigit(s.src[p]) {
				p++
			}
			s.pos = p
			float = true
		}
	}
	if float {
		s.emit(tokFloat, s.src[start:s.pos], col)
	} else {
		s.emit(tokInt, s.src[start:s.pos], col)
	}
}

func (s *scanner) scanWord() error {
	start := s.pos
	for s.pos < len(s.src) && isWordPart(s.src[s.pos]) {
		s.pos++
	}
	word := s.src[start:s.pos]
	col := start + 1
	switch word {
	case "true":
		s.emit(tokTrue, word, col)
	case "false":
		s.emit(tokFalse, word, col)
	case "null":
		s.emit(tokNull, word, col)
	case "INF":
		s.emit(tokInf, word, col)
	case "NAN":
		s.emit(tokNan, word, col)
	case "and", "or", "xor":
		s.emit(tokOp, word, col)
	default:
		return &SyntaxError{Column: col, Message: fmt.Sprintf("unknown name %q", word)}
	}
	return nil
}

// Longest spellings first so compound symbols win over their prefixes.
var opSymbols = []string{
	"<=>", "===", "!==",
	"**", "==", "!=", "<=", ">=", "<<", ">>", "&&", "||", "++", "--", "=>",
	"+", "-", "*", "/", "%", ".", "~", "!", "&", "|", "^", "<", ">",
}

func (s *scanner) scanOperator() error {
	col := s.pos + 1
	rest := s.src[s.pos:]
	for _, sym := range opSymbols {
		if strings.HasPrefix(rest, sym) {
			s.pos += len(sym)
			if sym == "=>" {
				s.emit(tokArrow, sym, col)
			} else {
				s.emit(tokOp, sym, col)
			}
			return nil
		}
	}
	switch rest[0] {
	case '[':
		s.emit(tokLBracket, "[", col)
	case ']':
		s.emit(tokRBracket, "]", col)
	case '(':
		s.emit(tokLParen, "(", col)
	case ')':
		s.emit(tokRParen, ")", col)
	case ',':
		s.emit(tokComma, ",", col)
	default:
		return &SyntaxError{Column: col, Message: fmt.Sprintf("unexpected character %q", rest[0])}
	}
	s.pos++
	return nil
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isBinDigit(c byte) bool { return c == '0' || c == '1' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexDigit(c byte) byte {
	switch {
	case c <= '9':
		return c - '0'
	case c >= 'a':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordPart(c byte) bool { return isWordStart(c) || isDigit(c) }
