// Package line registers the "line" object type: a segment between two points.
package line

import (
	"context"
	"math"

	"github.com/specialistvlad/paragrid/internal/registry"
	"github.com/specialistvlad/paragrid/modules/point"
	"github.com/zclconf/go-cty/cty"
)

// TypeName is the registered name of the line type.
const TypeName = "line"

// Module implements the registry.Module interface for this package.
type Module struct{}

// State holds the resolved endpoints of a line.
type State struct {
	Start  point.State
	End    point.State
	Length float64
}

// Midpoint returns the point halfway between the endpoints.
func (s *State) Midpoint() []float64 {
	return []float64{
		(s.Start.X + s.End.X) / 2,
		(s.Start.Y + s.End.Y) / 2,
		(s.Start.Z + s.End.Z) / 2,
	}
}

// OnTwoPoints copies the coordinates of two referenced points and measures
// the distance between them.
func OnTwoPoints(_ context.Context, s *State, args registry.Args) error {
	start, err := registry.RefState[point.State](args, "Start")
	if err != nil {
		return err
	}
	end, err := registry.RefState[point.State](args, "End")
	if err != nil {
		return err
	}

	s.Start, s.End = *start, *end
	s.Length = math.Sqrt(
		math.Pow(end.X-start.X, 2) +
			math.Pow(end.Y-start.Y, 2) +
			math.Pow(end.Z-start.Z, 2))
	return nil
}

// Register registers the line type with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterType(registry.TypeSpec{
		Name:        TypeName,
		Description: "A straight segment between two points.",
		New:         func() any { return new(State) },
		Methods: []registry.MethodSpec{
			{
				Name:       "two_points",
				ParamNames: []string{"Start", "End"},
				ParamTypes: []cty.Type{registry.RefType, registry.RefType},
				Updatable:  true,
				Invoke:     registry.Invoke(OnTwoPoints),
			},
		},
		Properties: []registry.PropertySpec{
			{Name: "Start", Get: registry.Get(func(s *State) []float64 { return s.Start.Coordinates() })},
			{Name: "End", Get: registry.Get(func(s *State) []float64 { return s.End.Coordinates() })},
			{Name: "Length", Get: registry.Get(func(s *State) float64 { return s.Length })},
			{Name: "Midpoint", Get: registry.Get((*State).Midpoint)},
		},
	})
}
