package expr

import (
	"strconv"
	"strings"

	"github.com/specialistvlad/paragrid/internal/refpath"
)

// Parse classifies raw and builds its expression tree.
func Parse(raw string) (Node, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, ErrEmptyExpression
	}

	switch class := Classify(text); class {
	case ClassString:
		s, err := strconv.Unquote(text)
		if err != nil {
			return nil, &SyntaxError{Text: text, Pos: 0, Msg: "invalid string literal"}
		}
		return StringLiteral{Value: s}, nil
	case ClassNumber:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, &SyntaxError{Text: text, Pos: 0, Msg: "invalid number literal"}
		}
		return NumberLiteral{Value: f}, nil
	case ClassReference:
		path, err := refpath.Parse(text)
		if err != nil {
			return nil, &SyntaxError{Text: text, Pos: 0, Msg: err.Error()}
		}
		return Reference{Path: path}, nil
	case ClassCompound:
		return parseTokens(text)
	case ClassCollection, ClassFunctionCall:
		return nil, &UnsupportedError{Text: text, Construct: class}
	default:
		return nil, &SyntaxError{Text: text, Pos: -1, Msg: "not a literal, reference or operator expression"}
	}
}

func parseTokens(text string) (Node, error) {
	lx := &lexer{src: text}
	toks, err := lx.scan()
	if err != nil {
		return nil, err
	}
	p := &parser{src: text, toks: toks}
	n, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.typ != tokEOF {
		return nil, p.err(t, "unexpected trailing input")
	}
	return n, nil
}

type parser struct {
	src  string
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) advance() token {
	t := p.toks[p.i]
	if t.typ != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) err(t token, msg string) error {
	return &SyntaxError{Text: p.src, Pos: t.pos, Msg: msg}
}

// ───────────────────────── precedence / associativity ──────────────────────

// unaryBP sits between the multiplicative operators and `^`, so `-2^2` is -(2^2).
const unaryBP = 72

func lbp(op Operator) int {
	switch op {
	case OpPow:
		return 75
	case OpMul, OpDiv, OpMod:
		return 70
	case OpAdd, OpSub:
		return 60
	case OpAnd:
		return 30
	case OpOr:
		return 20
	}
	return 0
}

func isRightAssoc(op Operator) bool { return op == OpPow }

func (p *parser) expr(minBP int) (Node, error) {
	left, err := p.prefix()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		if t.typ != tokOp {
			return left, nil
		}
		bp := lbp(t.op)
		if bp == 0 {
			return nil, p.err(t, "operator "+t.op.String()+" cannot be used between operands")
		}
		if bp <= minBP {
			return left, nil
		}
		p.advance()

		nextMin := bp
		if isRightAssoc(t.op) {
			nextMin = bp - 1
		}
		right, err := p.expr(nextMin)
		if err != nil {
			return nil, err
		}
		left = Compound{Op: t.op, Children: []Node{left, right}}
	}
}

func (p *parser) prefix() (Node, error) {
	t := p.advance()
	switch t.typ {
	case tokNumber:
		return NumberLiteral{Value: t.num}, nil
	case tokString:
		return StringLiteral{Value: t.lit}, nil
	case tokRef:
		path, err := refpath.Parse(t.lit)
		if err != nil {
			return nil, p.err(t, err.Error())
		}
		return Reference{Path: path}, nil
	case tokLParen:
		inner, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		if closing := p.advance(); closing.typ != tokRParen {
			return nil, p.err(closing, "expected ')'")
		}
		return inner, nil
	case tokOp:
		var op Operator
		switch t.op {
		case OpNot:
			op = OpNot
		case OpSub:
			op = OpNeg
		case OpAdd:
			// Unary plus is a no-op.
			return p.expr(unaryBP)
		default:
			return nil, p.err(t, "operator "+t.op.String()+" is missing its left operand")
		}
		operand, err := p.expr(unaryBP)
		if err != nil {
			return nil, err
		}
		return Compound{Op: op, Children: []Node{operand}}, nil
	case tokEOF:
		return nil, p.err(t, "unexpected end of expression")
	}
	return nil, p.err(t, "unexpected ')'")
}
