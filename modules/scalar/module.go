// Package scalar registers the "scalar" object type: a single named number.
package scalar

import (
	"context"

	"github.com/specialistvlad/paragrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// TypeName is the registered name of the scalar type.
const TypeName = "scalar"

// Module implements the registry.Module interface for this package.
type Module struct{}

// State holds the scalar's value: a float64 after "number", an int64 after
// "integer", nil before the first update.
type State struct {
	Value any
}

// OnNumber stores a floating point value.
func OnNumber(_ context.Context, s *State, args registry.Args) error {
	v, err := args.Float("Value")
	if err != nil {
		return err
	}
	s.Value = v
	return nil
}

// OnInteger stores a whole number. A fractional input fails.
func OnInteger(_ context.Context, s *State, args registry.Args) error {
	v, err := args.Int("Value")
	if err != nil {
		return err
	}
	s.Value = v
	return nil
}

// Register registers the scalar type with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterType(registry.TypeSpec{
		Name:        TypeName,
		Description: "A single number.",
		New:         func() any { return new(State) },
		Methods: []registry.MethodSpec{
			{
				Name:       "number",
				ParamNames: []string{"Value"},
				ParamTypes: []cty.Type{cty.Number},
				Updatable:  true,
				Invoke:     registry.Invoke(OnNumber),
			},
			{
				Name:       "integer",
				ParamNames: []string{"Value"},
				ParamTypes: []cty.Type{cty.Number},
				Updatable:  true,
				Invoke:     registry.Invoke(OnInteger),
			},
		},
		Properties: []registry.PropertySpec{
			{Name: "Value", Get: registry.Get(func(s *State) any { return s.Value })},
		},
	})
}
