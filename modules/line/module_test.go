package line

import (
	"context"
	"testing"

	"github.com/specialistvlad/paragrid/internal/registry"
	"github.com/specialistvlad/paragrid/modules/point"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type holder struct{ state any }

func (h holder) State() any { return h.state }

func TestTwoPoints(t *testing.T) {
	r := registry.New()
	r.Load(&point.Module{}, &Module{})
	spec, err := r.Type(TypeName)
	require.NoError(t, err)
	m, err := spec.Method("two_points")
	require.NoError(t, err)
	params, err := m.Params(TypeName)
	require.NoError(t, err)

	start := holder{state: &point.State{X: 0, Y: 0, Z: 0}}
	end := holder{state: &point.State{X: 3, Y: 4, Z: 0}}
	args, err := registry.NewArgs(params, []cty.Value{registry.Encapsulate(start), registry.Encapsulate(end)})
	require.NoError(t, err)

	s := &State{}
	require.NoError(t, m.Invoke(context.Background(), s, args))
	assert.InDelta(t, 5.0, s.Length, 1e-9)
	assert.Equal(t, []float64{1.5, 2, 0}, s.Midpoint())

	length, ok := spec.Property("Length")
	require.True(t, ok)
	assert.InDelta(t, 5.0, length.Get(s), 1e-9)

	endProp, ok := spec.Property("End")
	require.True(t, ok)
	assert.Equal(t, []float64{3, 4, 0}, endProp.Get(s))
}

func TestTwoPoints_RejectsNonPoints(t *testing.T) {
	params := []registry.Param{{Name: "Start", Type: registry.RefType}, {Name: "End", Type: registry.RefType}}
	args, err := registry.NewArgs(params, []cty.Value{
		registry.Encapsulate(holder{state: &point.State{}}),
		registry.Encapsulate(holder{state: &State{}}),
	})
	require.NoError(t, err)
	err = OnTwoPoints(context.Background(), &State{}, args)
	assert.ErrorContains(t, err, "argument 'End'")
}
