package expr

import (
	"fmt"

	"github.com/specialistvlad/paragrid/internal/refpath"
)

// Resolution is the outcome of resolving a reference: the value the path
// denotes and the entity that owns it. For a path that names an entity
// directly, Value and Target are the same entity.
type Resolution struct {
	Value  any
	Target any
}

// Scope resolves reference paths. Namespaces implement it.
type Scope interface {
	Resolve(path *refpath.Path) (Resolution, error)
}

// Expression is a parsed tree bound to the scope its references resolve in.
type Expression struct {
	text  string
	root  Node
	scope Scope
}

// New parses text and binds it to scope without going through a cache.
func New(text string, scope Scope) (*Expression, error) {
	root, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return &Expression{text: text, root: root, scope: scope}, nil
}

// Text returns the source text of the expression.
func (e *Expression) Text() string { return e.text }

// Root returns the parsed tree.
func (e *Expression) Root() Node { return e.root }

// Solve evaluates the expression against its scope.
func (e *Expression) Solve() (any, error) {
	return e.solve(e.root)
}

func (e *Expression) solve(n Node) (any, error) {
	switch node := n.(type) {
	case NumberLiteral:
		return node.Value, nil
	case StringLiteral:
		return node.Value, nil
	case Reference:
		res, err := e.resolve(node)
		if err != nil {
			return nil, err
		}
		if res.Value == nil {
			return nil, fmt.Errorf("reference %q has no value", node.Path)
		}
		return res.Value, nil
	case Compound:
		if node.Op.Unary() {
			v, err := e.solve(node.Children[0])
			if err != nil {
				return nil, err
			}
			return applyUnary(node.Op, v)
		}
		left, err := e.solve(node.Children[0])
		if err != nil {
			return nil, err
		}
		// Logical operators short-circuit on a boolean left operand.
		if b, ok := left.(bool); ok {
			if (node.Op == OpAnd && !b) || (node.Op == OpOr && b) {
				return b, nil
			}
		}
		right, err := e.solve(node.Children[1])
		if err != nil {
			return nil, err
		}
		return applyBinary(node.Op, left, right)
	}
	return nil, fmt.Errorf("expr: unknown node type %T", n)
}

func (e *Expression) resolve(ref Reference) (Resolution, error) {
	if e.scope == nil {
		return Resolution{}, fmt.Errorf("reference %q has no scope to resolve in", ref.Path)
	}
	return e.scope.Resolve(ref.Path)
}

// Dependencies returns the de-duplicated set of entities the expression
// references, in first-seen order. A reference that fails to resolve is
// reported as an error.
func (e *Expression) Dependencies() ([]any, error) {
	var deps []any
	seen := make(map[any]struct{})
	if err := e.collect(e.root, seen, &deps); err != nil {
		return nil, err
	}
	return deps, nil
}

func (e *Expression) collect(n Node, seen map[any]struct{}, deps *[]any) error {
	switch node := n.(type) {
	case Reference:
		res, err := e.resolve(node)
		if err != nil {
			return err
		}
		if res.Target == nil {
			return nil
		}
		if _, ok := seen[res.Target]; !ok {
			seen[res.Target] = struct{}{}
			*deps = append(*deps, res.Target)
		}
	case Compound:
		for _, c := range node.Children {
			if err := e.collect(c, seen, deps); err != nil {
				return err
			}
		}
	}
	return nil
}

// References returns every reference path in the tree, in source order.
func References(n Node) []*refpath.Path {
	var out []*refpath.Path
	var walk func(Node)
	walk = func(n Node) {
		switch node := n.(type) {
		case Reference:
			out = append(out, node.Path)
		case Compound:
			for _, c := range node.Children {
				walk(c)
			}
		}
	}
	walk(n)
	return out
}
