package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"veld/semantics-go/pkg/operators"
	"veld/semantics-go/pkg/runtime"
)

// Binding powers from loosest to tightest, following the host grammar.
// precEquality and precRelational are non-associative; precPower is
// right-associative; everything else associates left.
const (
	precLowest = iota + 1
	precWordOr
	precWordXor
	precWordAnd
	precLogicalOr
	precLogicalAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPower
)

var binaryPrec = map[string]int{
	"or":  precWordOr,
	"xor": precWordXor,
	"and": precWordAnd,
	"||":  precLogicalOr,
	"&&":  precLogicalAnd,
	"|":   precBitOr,
	"^":   precBitXor,
	"&":   precBitAnd,
	"==":  precEquality,
	"!=":  precEquality,
	"===": precEquality,
	"!==": precEquality,
	"<=>": precEquality,
	"<":   precRelational,
	"<=":  precRelational,
	">":   precRelational,
	">=":  precRelational,
	"<<":  precShift,
	">>":  precShift,
	"+":   precAdditive,
	"-":   precAdditive,
	".":   precAdditive,
	"*":   precMultiplicative,
	"/":   precMultiplicative,
	"%":   precMultiplicative,
	"**":  precPower,
}

type parser struct {
	toks []token
	pos  int
}

// Parse reads a complete expression from source. The returned tree is
// inert: evaluation happens separately, so one parse can serve both
// modes.
func Parse(source string) (Expr, error) {
	toks, err := lexTokens(source)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}
	if t := p.current(); t.typ != tokEOF {
		return nil, unexpectedToken(t)
	}
	return e, nil
}

func (p *parser) current() token {
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) parseExpr(min int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.current()
		if t.typ != tokOp {
			return left, nil
		}
		prec, ok := binaryPrec[t.lit]
		if !ok || prec < min {
			return left, nil
		}
		p.advance()
		op, _ := operators.ParseBinaryOp(t.lit)
		next := prec + 1
		if prec == precPower {
			next = prec
		}
		right, err := p.parseExpr(next)
		if err != nil {
			return nil, err
		}
		left = &Binary{Column: t.col, Op: op, Left: left, Right: right}
		if prec == precEquality || prec == precRelational {
			if n := p.current(); n.typ == tokOp && binaryPrec[n.lit] == prec {
				return nil, &SyntaxError{Column: n.col, Message: fmt.Sprintf("operator %s is non-associative", n.lit)}
			}
		}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	t := p.current()
	if t.typ == tokOp {
		if op, ok := operators.ParseUnaryOp(t.lit); ok {
			p.advance()
			operand, err := p.parseExpr(precUnary)
			if err != nil {
				return nil, err
			}
			return &Unary{Column: t.col, Op: op, Operand: operand}, nil
		}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.advance()
	switch t.typ {
	case tokInt:
		return &Literal{Column: t.col, Value: intLiteral(t.lit)}, nil
	case tokFloat:
		f, err := strconv.ParseFloat(t.lit, 64)
		if err != nil && !isRangeErr(err) {
			return nil, &SyntaxError{Column: t.col, Message: fmt.Sprintf("bad number %s", t.lit)}
		}
		return &Literal{Column: t.col, Value: runtime.FloatValue{Val: f}}, nil
	case tokString:
		return &Literal{Column: t.col, Value: runtime.StringValue{Val: t.lit}}, nil
	case tokStrHead:
		return p.parseInterp(t)
	case tokTrue:
		return &Literal{Column: t.col, Value: runtime.BoolValue{Val: true}}, nil
	case tokFalse:
		return &Literal{Column: t.col, Value: runtime.BoolValue{Val: false}}, nil
	case tokNull:
		return &Literal{Column: t.col, Value: runtime.NullValue{}}, nil
	case tokInf:
		return &Literal{Column: t.col, Value: runtime.FloatValue{Val: math.Inf(1)}}, nil
	case tokNan:
		return &Literal{Column: t.col, Value: runtime.FloatValue{Val: math.NaN()}}, nil
	case tokLParen:
		e, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		if closing := p.advance(); closing.typ != tokRParen {
			return nil, &SyntaxError{Column: closing.col, Message: "expected ')'"}
		}
		return e, nil
	case tokLBracket:
		return p.parseArray(t)
	default:
		return nil, unexpectedToken(t)
	}
}

func (p *parser) parseInterp(head token) (Expr, error) {
	parts := make([]InterpPart, 0, 4)
	if head.lit != "" {
		parts = append(parts, InterpPart{Text: head.lit})
	}
	for {
		e, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		parts = append(parts, InterpPart{Expr: e})
		t := p.advance()
		switch t.typ {
		case tokStrMid:
			if t.lit != "" {
				parts = append(parts, InterpPart{Text: t.lit})
			}
		case tokStrTail:
			if t.lit != "" {
				parts = append(parts, InterpPart{Text: t.lit})
			}
			return &Interp{Column: head.col, Parts: parts}, nil
		default:
			return nil, unexpectedToken(t)
		}
	}
}

func (p *parser) parseArray(open token) (Expr, error) {
	entries := make([]ArrayEntry, 0, 4)
	if p.current().typ == tokRBracket {
		p.advance()
		return &Array{Column: open.col, Entries: entries}, nil
	}
	for {
		first, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}
		entry := ArrayEntry{Value: first}
		if p.current().typ == tokArrow {
			p.advance()
			value, err := p.parseExpr(precLowest)
			if err != nil {
				return nil, err
			}
			entry = ArrayEntry{Key: first, Value: value}
		}
		entries = append(entries, entry)
		t := p.advance()
		if t.typ == tokComma {
			if p.current().typ == tokRBracket {
				p.advance()
				break
			}
			continue
		}
		if t.typ == tokRBracket {
			break
		}
		return nil, &SyntaxError{Column: t.col, Message: "expected ',' or ']'"}
	}
	return &Array{Column: open.col, Entries: entries}, nil
}

// intLiteral converts an int spelling, falling back to a float when the
// value exceeds the int range, matching host literal semantics.
func intLiteral(lit string) runtime.Value {
	base := 10
	digits := lit
	switch {
	case strings.HasPrefix(lit, "0x"), strings.HasPrefix(lit, "0X"):
		base, digits = 16, lit[2:]
	case strings.HasPrefix(lit, "0b"), strings.HasPrefix(lit, "0B"):
		base, digits = 2, lit[2:]
	}
	if v, err := strconv.ParseInt(digits, base, 64); err == nil {
		return runtime.IntValue{Val: v}
	}
	f := 0.0
	for i := 0; i < len(digits); i++ {
		f = f*float64(base) + float64(hexDigit(digits[i]))
	}
	return runtime.FloatValue{Val: f}
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

func unexpectedToken(t token) *SyntaxError {
	return &SyntaxError{Column: t.col, Message: "unexpected " + describeToken(t)}
}

func describeToken(t token) string {
	switch t.typ {
	case tokEOF:
		return "end of input"
	case tokInt, tokFloat:
		return "number " + t.lit
	case tokString, tokStrHead, tokStrMid, tokStrTail:
		return "string"
	default:
		return fmt.Sprintf("%q", t.lit)
	}
}
