package expr

import (
	"strconv"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokNumber
	tokString
	tokRef
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	typ tokenType
	pos int
	lit string
	op  Operator
	num float64
}

type lexer struct {
	src string
	cur int
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

func (l *lexer) err(pos int, msg string) error {
	return &SyntaxError{Text: l.src, Pos: pos, Msg: msg}
}

// scan tokenizes the whole source. Whitespace between tokens is dropped.
func (l *lexer) scan() ([]token, error) {
	var toks []token
	for {
		for l.cur < len(l.src) && isSpace(l.src[l.cur]) {
			l.cur++
		}
		if l.cur >= len(l.src) {
			toks = append(toks, token{typ: tokEOF, pos: l.cur})
			return toks, nil
		}
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
}

func (l *lexer) next() (token, error) {
	start := l.cur
	c := l.src[l.cur]
	switch {
	case c == '(':
		l.cur++
		return token{typ: tokLParen, pos: start}, nil
	case c == ')':
		l.cur++
		return token{typ: tokRParen, pos: start}, nil
	case c == '"':
		return l.scanString()
	case isDigit(c) || (c == '.' && l.cur+1 < len(l.src) && isDigit(l.src[l.cur+1])):
		return l.scanNumber()
	case isAlpha(c) || c == '@':
		return l.scanReference()
	}
	return l.scanOperator()
}

func (l *lexer) scanString() (token, error) {
	start := l.cur
	l.cur++
	for l.cur < len(l.src) {
		switch l.src[l.cur] {
		case '\\':
			l.cur += 2
			continue
		case '"':
			l.cur++
			raw := l.src[start:l.cur]
			s, err := strconv.Unquote(raw)
			if err != nil {
				return token{}, l.err(start, "invalid string literal")
			}
			return token{typ: tokString, pos: start, lit: s}, nil
		}
		l.cur++
	}
	return token{}, l.err(start, "unterminated string literal")
}

func (l *lexer) scanNumber() (token, error) {
	start := l.cur
	for l.cur < len(l.src) && isDigit(l.src[l.cur]) {
		l.cur++
	}
	if l.cur < len(l.src) && l.src[l.cur] == '.' {
		l.cur++
		for l.cur < len(l.src) && isDigit(l.src[l.cur]) {
			l.cur++
		}
	}
	if l.cur < len(l.src) && (l.src[l.cur] == 'e' || l.src[l.cur] == 'E') {
		l.cur++
		if l.cur < len(l.src) && (l.src[l.cur] == '+' || l.src[l.cur] == '-') {
			l.cur++
		}
		digits := l.cur
		for l.cur < len(l.src) && isDigit(l.src[l.cur]) {
			l.cur++
		}
		if digits == l.cur {
			return token{}, l.err(start, "malformed exponent")
		}
	}
	lit := l.src[start:l.cur]
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return token{}, l.err(start, "invalid number literal "+strconv.Quote(lit))
	}
	return token{typ: tokNumber, pos: start, lit: lit, num: f}, nil
}

// scanReference consumes identifier characters, dots and bracketed indices.
func (l *lexer) scanReference() (token, error) {
	start := l.cur
	if l.src[l.cur] == '@' {
		l.cur++
	}
	for l.cur < len(l.src) {
		c := l.src[l.cur]
		if isAlpha(c) || isDigit(c) || c == '.' || c == '[' || c == ']' {
			l.cur++
			continue
		}
		break
	}
	lit := l.src[start:l.cur]
	if l.cur < len(l.src) && l.src[l.cur] == '(' {
		return token{}, &UnsupportedError{Text: l.src, Construct: ClassFunctionCall}
	}
	return token{typ: tokRef, pos: start, lit: lit}, nil
}

func (l *lexer) scanOperator() (token, error) {
	start := l.cur
	c := l.src[l.cur]
	two := ""
	if l.cur+1 < len(l.src) {
		two = l.src[l.cur : l.cur+2]
	}
	switch two {
	case "&&":
		l.cur += 2
		return token{typ: tokOp, pos: start, op: OpAnd}, nil
	case "||":
		l.cur += 2
		return token{typ: tokOp, pos: start, op: OpOr}, nil
	}

	ops := map[byte]Operator{
		'+': OpAdd, '-': OpSub, '*': OpMul, '/': OpDiv,
		'%': OpMod, '^': OpPow, '!': OpNot,
	}
	if op, ok := ops[c]; ok {
		l.cur++
		return token{typ: tokOp, pos: start, op: op}, nil
	}
	if c == '[' || c == '{' {
		return token{}, &UnsupportedError{Text: l.src, Construct: ClassCollection}
	}
	return token{}, l.err(start, "unexpected character "+strconv.QuoteRune(rune(c)))
}
