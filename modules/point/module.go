// Package point registers the "point" object type: a position in 3D space.
package point

import (
	"context"

	"github.com/specialistvlad/paragrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// TypeName is the registered name of the point type.
const TypeName = "point"

// Module implements the registry.Module interface for this package.
type Module struct{}

// State holds the coordinates of a point.
type State struct {
	X, Y, Z float64
}

// Coordinates returns the point as an [X, Y, Z] slice.
func (s *State) Coordinates() []float64 {
	return []float64{s.X, s.Y, s.Z}
}

// OnCoordinates places the point at explicit coordinates.
func OnCoordinates(_ context.Context, s *State, args registry.Args) error {
	var next State
	var err error
	if next.X, err = args.Float("X"); err != nil {
		return err
	}
	if next.Y, err = args.Float("Y"); err != nil {
		return err
	}
	if next.Z, err = args.Float("Z"); err != nil {
		return err
	}
	*s = next
	return nil
}

// OnOffset places the point relative to another point.
func OnOffset(_ context.Context, s *State, args registry.Args) error {
	base, err := registry.RefState[State](args, "Base")
	if err != nil {
		return err
	}
	dx, err := args.Float("DX")
	if err != nil {
		return err
	}
	dy, err := args.Float("DY")
	if err != nil {
		return err
	}
	dz, err := args.Float("DZ")
	if err != nil {
		return err
	}
	*s = State{X: base.X + dx, Y: base.Y + dy, Z: base.Z + dz}
	return nil
}

// Register registers the point type with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterType(registry.TypeSpec{
		Name:        TypeName,
		Description: "A point in 3D space.",
		New:         func() any { return new(State) },
		Methods: []registry.MethodSpec{
			{
				Name:       "coordinates",
				ParamNames: []string{"X", "Y", "Z"},
				ParamTypes: []cty.Type{cty.Number, cty.Number, cty.Number},
				Updatable:  true,
				Invoke:     registry.Invoke(OnCoordinates),
			},
			{
				Name:       "offset",
				ParamNames: []string{"Base", "DX", "DY", "DZ"},
				ParamTypes: []cty.Type{registry.RefType, cty.Number, cty.Number, cty.Number},
				Updatable:  true,
				Invoke:     registry.Invoke(OnOffset),
			},
		},
		Properties: []registry.PropertySpec{
			{Name: "X", Get: registry.Get(func(s *State) float64 { return s.X }), Set: registry.Set(func(s *State, v float64) { s.X = v })},
			{Name: "Y", Get: registry.Get(func(s *State) float64 { return s.Y }), Set: registry.Set(func(s *State, v float64) { s.Y = v })},
			{Name: "Z", Get: registry.Get(func(s *State) float64 { return s.Z }), Set: registry.Set(func(s *State, v float64) { s.Z = v })},
			{Name: "Coordinates", Get: registry.Get((*State).Coordinates)},
		},
	})
}
