package expr

import (
	"errors"
	"fmt"
)

// ErrEmptyExpression is returned when an expression is blank.
var ErrEmptyExpression = errors.New("expression is empty")

// SyntaxError reports malformed expression text.
type SyntaxError struct {
	Text string
	Pos  int // 0-based byte offset, -1 when unknown
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("syntax error in %q at offset %d: %s", e.Text, e.Pos, e.Msg)
	}
	return fmt.Sprintf("syntax error in %q: %s", e.Text, e.Msg)
}

// UnsupportedError reports a recognised construct that the language does not implement.
type UnsupportedError struct {
	Text      string
	Construct Class
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported %s expression: %q", e.Construct, e.Text)
}

// OperandTypeError reports operands an operator cannot combine.
type OperandTypeError struct {
	Op    Operator
	Left  any
	Right any
}

func (e *OperandTypeError) Error() string {
	if e.Op.Unary() {
		return fmt.Sprintf("operator %s cannot be applied to %T", e.Op, e.Left)
	}
	return fmt.Sprintf("operator %s cannot be applied to %T and %T", e.Op, e.Left, e.Right)
}

// ArithmeticError reports an arithmetic failure such as integer division by zero.
type ArithmeticError struct {
	Op  Operator
	Msg string
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("arithmetic error in %s: %s", e.Op, e.Msg)
}
