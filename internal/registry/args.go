package registry

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Args are the converted input values passed to an update method.
type Args struct {
	params []Param
	values map[string]cty.Value
}

// NewArgs pairs params with values in order.
func NewArgs(params []Param, values []cty.Value) (Args, error) {
	if len(params) != len(values) {
		return Args{}, fmt.Errorf("expected %d arguments, got %d", len(params), len(values))
	}
	a := Args{params: params, values: make(map[string]cty.Value, len(params))}
	for i, p := range params {
		a.values[p.Name] = values[i]
	}
	return a, nil
}

// Len reports the number of arguments.
func (a Args) Len() int { return len(a.params) }

// Value returns the raw argument named name.
func (a Args) Value(name string) (cty.Value, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Decode stores the argument named name into dst, which must be a pointer.
func (a Args) Decode(name string, dst any) error {
	v, ok := a.values[name]
	if !ok {
		return fmt.Errorf("no argument named '%s'", name)
	}
	if err := gocty.FromCtyValue(v, dst); err != nil {
		return fmt.Errorf("argument '%s': %w", name, err)
	}
	return nil
}

// Float decodes a numeric argument.
func (a Args) Float(name string) (float64, error) {
	var f float64
	err := a.Decode(name, &f)
	return f, err
}

// Int decodes a whole-number argument.
func (a Args) Int(name string) (int64, error) {
	var i int64
	err := a.Decode(name, &i)
	return i, err
}

// Ref returns the entity carried by a RefType argument.
func (a Args) Ref(name string) (any, error) {
	v, ok := a.values[name]
	if !ok {
		return nil, fmt.Errorf("no argument named '%s'", name)
	}
	ref, err := Decapsulate(v)
	if err != nil {
		return nil, fmt.Errorf("argument '%s': %w", name, err)
	}
	return ref, nil
}

// RefState returns the state of the entity carried by a RefType argument,
// asserted to *S.
func RefState[S any](a Args, name string) (*S, error) {
	ref, err := a.Ref(name)
	if err != nil {
		return nil, err
	}
	s, err := StateOf[S](ref)
	if err != nil {
		return nil, fmt.Errorf("argument '%s': %w", name, err)
	}
	return s, nil
}
