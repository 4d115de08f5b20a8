package expr

import (
	"strconv"
	"strings"

	"github.com/specialistvlad/paragrid/internal/refpath"
)

// NodeKind classifies an expression tree node.
type NodeKind int

const (
	NumberLiteralKind NodeKind = iota
	StringLiteralKind
	ReferenceKind
	CompoundKind
)

func (k NodeKind) String() string {
	switch k {
	case NumberLiteralKind:
		return "number"
	case StringLiteralKind:
		return "string"
	case ReferenceKind:
		return "reference"
	case CompoundKind:
		return "compound"
	default:
		return "unknown"
	}
}

// Operator is one of the operators a compound node can apply.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpAnd
	OpOr
	OpNot
	OpNeg
)

var operatorSymbols = map[Operator]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpMod: "%",
	OpPow: "^",
	OpAnd: "&&",
	OpOr:  "||",
	OpNot: "!",
	OpNeg: "-",
}

func (o Operator) String() string {
	if s, ok := operatorSymbols[o]; ok {
		return s
	}
	return "?"
}

// Unary reports whether the operator takes a single operand.
func (o Operator) Unary() bool {
	return o == OpNot || o == OpNeg
}

// Node is an immutable expression tree node.
type Node interface {
	Kind() NodeKind
	String() string
}

// NumberLiteral is a numeric constant.
type NumberLiteral struct {
	Value float64
}

func (NumberLiteral) Kind() NodeKind { return NumberLiteralKind }
func (n NumberLiteral) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// StringLiteral is a quoted string constant.
type StringLiteral struct {
	Value string
}

func (StringLiteral) Kind() NodeKind  { return StringLiteralKind }
func (n StringLiteral) String() string { return strconv.Quote(n.Value) }

// Reference names an entity, or a property of one, through a dotted path.
type Reference struct {
	Path *refpath.Path
}

func (Reference) Kind() NodeKind    { return ReferenceKind }
func (n Reference) String() string { return n.Path.String() }

// Compound applies an operator to one (unary) or two (binary) children.
type Compound struct {
	Op       Operator
	Children []Node
}

func (Compound) Kind() NodeKind { return CompoundKind }
func (n Compound) String() string {
	if n.Op.Unary() {
		return n.Op.String() + n.Children[0].String()
	}
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, n.Op.String()) + ")"
}
