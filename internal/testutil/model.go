package testutil

import (
	"context"
	"testing"

	"github.com/specialistvlad/paragrid/internal/model"
	"github.com/specialistvlad/paragrid/internal/registry"
	"github.com/specialistvlad/paragrid/modules/line"
	"github.com/specialistvlad/paragrid/modules/point"
	"github.com/specialistvlad/paragrid/modules/scalar"
	"github.com/stretchr/testify/require"
)

// NewRegistry returns a registry with the built-in object types and any
// extra modules loaded.
func NewRegistry(extra ...registry.Module) *registry.Registry {
	r := registry.New()
	r.Load(&point.Module{}, &line.Module{}, &scalar.Module{})
	r.Load(extra...)
	return r
}

// NewModel creates an empty model over NewRegistry and a logging context.
func NewModel(t *testing.T, opts ...model.Option) (context.Context, *model.Model) {
	t.Helper()

	ctx, _ := Context(t)
	m, err := model.New(NewRegistry(), opts...)
	require.NoError(t, err)
	return ctx, m
}

// NewPoint creates a point with the coordinates method selected and its
// inputs bound to x, y and z.
func NewPoint(ctx context.Context, t *testing.T, m *model.Model, parent model.Namespace, name, x, y, z string) *model.Object {
	t.Helper()

	p, err := m.NewObject(parent, point.TypeName, name)
	require.NoError(t, err)
	require.NoError(t, p.SetMethod("coordinates"))
	require.NoError(t, p.SetInput(ctx, "X", x))
	require.NoError(t, p.SetInput(ctx, "Y", y))
	require.NoError(t, p.SetInput(ctx, "Z", z))
	return p
}

// NewLine creates a line between the points named by start and end.
func NewLine(ctx context.Context, t *testing.T, m *model.Model, parent model.Namespace, name, start, end string) *model.Object {
	t.Helper()

	l, err := m.NewObject(parent, line.TypeName, name)
	require.NoError(t, err)
	require.NoError(t, l.SetMethod("two_points"))
	require.NoError(t, l.SetInput(ctx, "Start", start))
	require.NoError(t, l.SetInput(ctx, "End", end))
	return l
}
