// Package expr implements the small expression language used to bind object
// inputs: number and string literals, dotted references to named entities, and
// unary/binary arithmetic and logical operators.
//
// A raw expression is classified first (string literal, number literal,
// collection, reference, function call, compound). Only literals, references
// and compounds are supported; collections and function calls are rejected
// with an UnsupportedError. Compound expressions are parsed with the usual
// operator precedence and parentheses:
//
//	||  <  &&  <  + -  <  * / %  <  unary ! -  <  ^ (right associative)
//
// A prefix operator therefore applies to a whole power: -2^2 is -(2^2).
//
// Parsed trees are immutable and independent of any namespace. An Expression
// binds a tree to a Scope, which is what resolves references when the
// expression is solved or when its dependencies are harvested.
package expr
