// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/paragrid/internal/event"
	"github.com/specialistvlad/paragrid/internal/model"
	"github.com/specialistvlad/paragrid/internal/registry"
	"github.com/specialistvlad/paragrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRecorder is a model.Recorder that keeps tallies.
type countingRecorder struct {
	mu         sync.Mutex
	namespaces map[string]int
	failures   int
	objects    map[string]int
	notPrimed  map[string]int
	cycles     []string
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{namespaces: map[string]int{}, objects: map[string]int{}, notPrimed: map[string]int{}}
}

func (r *countingRecorder) NamespaceUpdated(kind string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namespaces[kind]++
	if err != nil {
		r.failures++
	}
}

func (r *countingRecorder) ObjectUpdated(typeName, method string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects[typeName+"."+method]++
}

func (r *countingRecorder) ObjectNotPrimed(typeName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notPrimed[typeName]++
}

func (r *countingRecorder) CycleDetected(namespace string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cycles = append(r.cycles, namespace)
}

// newProbeModel returns a model whose registry also carries the probe type.
func newProbeModel(t *testing.T, opts ...model.Option) (context.Context, *model.Model, *testutil.ProbeModule) {
	t.Helper()
	ctx, _ := testutil.Context(t)
	probes := testutil.NewProbeModule()
	m, err := model.New(testutil.NewRegistry(probes), opts...)
	require.NoError(t, err)
	return ctx, m, probes
}

// probe creates a probe object; an empty in selects "tag", otherwise "watch".
func probe(ctx context.Context, t *testing.T, m *model.Model, parent model.Namespace, name, in string) *model.Object {
	t.Helper()
	o, err := m.NewObject(parent, testutil.ProbeType, name)
	require.NoError(t, err)
	if in == "" {
		require.NoError(t, o.SetMethod("tag"))
	} else {
		require.NoError(t, o.SetMethod("watch"))
		require.NoError(t, o.SetInput(ctx, "In", in))
	}
	require.NoError(t, o.SetInput(ctx, "Tag", `"`+name+`"`))
	return o
}

func TestUpdate_EndToEnd(t *testing.T) {
	ctx, m := testutil.NewModel(t)
	s, err := m.NewScenario(m.Root(), "S")
	require.NoError(t, err)
	a, err := m.NewAssembly(s, "A")
	require.NoError(t, err)
	testutil.NewPoint(ctx, t, m, a, "P1", "0.0", "0.0", "0.0")
	p2 := testutil.NewPoint(ctx, t, m, a, "P2", "3.0", "4.0", "0.0")
	l := testutil.NewLine(ctx, t, m, a, "L", "P1", "P2")

	got, err := m.Lookup("S.A.L.Length")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-9)

	log := &testutil.EventLog{}
	m.Subscribe(l, log.Handle)

	// Rebinding an input of a primed object recomputes the whole assembly.
	require.NoError(t, p2.SetInput(ctx, "X", "6.0"))
	require.NoError(t, p2.SetInput(ctx, "Y", "P1.Y + 8.0"))
	got, err = m.Lookup("S.A.L.Length")
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got, 1e-9)
	assert.Len(t, log.OfKind(event.Updated), 2)

	require.NoError(t, m.Root().Update(ctx))
	assert.Len(t, log.OfKind(event.Updated), 3)
}

func TestUpdate_CrossNamespaceDependencies(t *testing.T) {
	ctx, m := testutil.NewModel(t)
	s, err := m.NewScenario(m.Root(), "S")
	require.NoError(t, err)
	a, err := m.NewAssembly(s, "A")
	require.NoError(t, err)
	origin := testutil.NewPoint(ctx, t, m, s, "Origin", "1.0", "1.0", "1.0")
	testutil.NewPoint(ctx, t, m, a, "Tip", "1.0", "1.0", "3.0")
	testutil.NewLine(ctx, t, m, a, "L", "Origin", "Tip")

	deps, err := a.Dependencies()
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, origin.Handle(), deps[0].Handle())

	order, err := s.ElementsInTopologicalOrder()
	require.NoError(t, err)
	require.Len(t, order, 2)
	assert.Equal(t, []string{"Origin", "A"}, []string{order[0].Name(), order[1].Name()})

	require.NoError(t, origin.SetInput(ctx, "Z", "0.0"))
	got, err := m.Lookup("S.A.L.Length")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got, 1e-9, "the owning scenario update reaches the line")
}

func TestUpdate_TopologicalOrder(t *testing.T) {
	ctx, m, probes := newProbeModel(t)
	a, err := m.NewAssembly(m.Root(), "A")
	require.NoError(t, err)

	// Members are created in reverse dependency order and bound while
	// propagation is suspended.
	require.NoError(t, m.Suspend(func() error {
		for _, name := range []string{"D", "C", "B", "First"} {
			_, err := m.NewObject(a, testutil.ProbeType, name)
			require.NoError(t, err)
		}
		bind := func(name, in string) {
			e, ok := a.Element(name)
			require.True(t, ok)
			o := e.(*model.Object)
			if in == "" {
				require.NoError(t, o.SetMethod("tag"))
			} else {
				require.NoError(t, o.SetMethod("watch"))
				require.NoError(t, o.SetInput(ctx, "In", in))
			}
			require.NoError(t, o.SetInput(ctx, "Tag", `"`+name+`"`))
		}
		bind("D", "C")
		bind("C", "B")
		bind("B", "First")
		bind("First", "")
		return nil
	}))
	assert.Empty(t, probes.Order(), "nothing runs while suspended")

	require.NoError(t, a.Update(ctx))
	assert.Equal(t, []string{"First", "B", "C", "D"}, probes.Order())

	order, err := a.ElementsInTopologicalOrder()
	require.NoError(t, err)
	position := map[string]int{}
	for i, e := range order {
		position[e.Name()] = i
	}
	for _, e := range order {
		deps, err := e.(*model.Object).Dependencies()
		require.NoError(t, err)
		for _, d := range deps {
			assert.Less(t, position[d.Name()], position[e.Name()], "%s must follow %s", e.Name(), d.Name())
		}
	}
}

// bindOffset selects the offset method on o and places it dx along X from
// the point named by base.
func bindOffset(ctx context.Context, t *testing.T, o *model.Object, base, dx string) {
	t.Helper()
	require.NoError(t, o.SetMethod("offset"))
	require.NoError(t, o.SetInput(ctx, "Base", base))
	require.NoError(t, o.SetInput(ctx, "DX", dx))
	require.NoError(t, o.SetInput(ctx, "DY", "0.0"))
	require.NoError(t, o.SetInput(ctx, "DZ", "0.0"))
}

func TestUpdate_OrdersObjectsAcrossNestedNamespaces(t *testing.T) {
	rec := newCountingRecorder()
	ctx, _ := testutil.Context(t)
	m, err := model.New(testutil.NewRegistry(), model.WithRecorder(rec))
	require.NoError(t, err)
	s, err := m.NewScenario(m.Root(), "S")
	require.NoError(t, err)
	log := &testutil.EventLog{}
	m.Subscribe(s, log.Handle)

	// X reads A.P1 and A.P2 reads X: the objects form a chain even though
	// A and X refer to each other as members.
	var p1, p2 *model.Object
	require.NoError(t, m.Suspend(func() error {
		x, err := m.NewObject(s, "point", "X")
		require.NoError(t, err)
		a, err := m.NewAssembly(s, "A")
		require.NoError(t, err)
		p1 = testutil.NewPoint(ctx, t, m, a, "P1", "1.0", "2.0", "3.0")
		p2, err = m.NewObject(a, "point", "P2")
		require.NoError(t, err)
		bindOffset(ctx, t, x, "A.P1", "10.0")
		bindOffset(ctx, t, p2, "X", "100.0")
		return nil
	}))
	log.Reset()

	order, err := s.ElementsInTopologicalOrder()
	require.NoError(t, err)
	require.Len(t, order, 2)
	assert.Equal(t, []string{"X", "A"}, []string{order[0].Name(), order[1].Name()})

	require.NoError(t, s.Update(ctx))
	got, err := m.Lookup("S.X.X")
	require.NoError(t, err)
	assert.Equal(t, 11.0, got)
	got, err = m.Lookup("S.A.P2.X")
	require.NoError(t, err)
	assert.Equal(t, 111.0, got)

	var structure []string
	for _, ev := range log.OfKind(event.StructureChanged) {
		structure = append(structure, ev.Name)
	}
	assert.Equal(t, []string{"A", "S"}, structure, "the nested namespace completes before its parent")

	rec.mu.Lock()
	assert.Equal(t, 1, rec.namespaces["scenario"])
	assert.Equal(t, 1, rec.namespaces["assembly"])
	rec.mu.Unlock()

	// A real loop between objects in different namespaces is still a cycle.
	require.NoError(t, m.Suspend(func() error {
		bindOffset(ctx, t, p1, "X", "1.0")
		return nil
	}))
	var cycle *model.GraphCycleError
	require.ErrorAs(t, s.Update(ctx), &cycle)
	assert.Contains(t, cycle.Path, "X")
	assert.Contains(t, cycle.Path, "A.P1")
	assert.NotContains(t, cycle.Path, "A.P2")
}

func TestUpdate_NotPrimedReportedOnceByTheObject(t *testing.T) {
	rec := newCountingRecorder()
	ctx, m := testutil.NewModel(t, model.WithRecorder(rec))
	s, err := m.NewScenario(m.Root(), "S")
	require.NoError(t, err)
	a, err := m.NewAssembly(s, "A")
	require.NoError(t, err)
	l, err := m.NewObject(a, "line", "L")
	require.NoError(t, err)
	require.NoError(t, l.SetMethod("two_points"))

	require.ErrorIs(t, m.Root().Update(ctx), model.ErrNotPrimed)
	require.ErrorIs(t, s.Update(ctx), model.ErrNotPrimed)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, map[string]int{"line": 2}, rec.notPrimed)
	assert.Equal(t, 2, rec.failures)
	assert.Empty(t, rec.objects, "a refused object never runs its method")
}

func TestUpdate_Cycle(t *testing.T) {
	rec := newCountingRecorder()
	ctx, m, probes := newProbeModel(t, model.WithRecorder(rec))
	a, err := m.NewAssembly(m.Root(), "A")
	require.NoError(t, err)

	require.NoError(t, m.Suspend(func() error {
		x, err := m.NewObject(a, testutil.ProbeType, "X")
		require.NoError(t, err)
		_, err = m.NewObject(a, testutil.ProbeType, "Y")
		require.NoError(t, err)
		probe(ctx, t, m, a, "Z", "X")
		require.NoError(t, x.SetMethod("watch"))
		require.NoError(t, x.SetInput(ctx, "Tag", `"X"`))
		require.NoError(t, x.SetInput(ctx, "In", "Y"))
		y, _ := a.Element("Y")
		require.NoError(t, y.(*model.Object).SetMethod("watch"))
		require.NoError(t, y.(*model.Object).SetInput(ctx, "Tag", `"Y"`))
		return y.(*model.Object).SetInput(ctx, "In", "X")
	}))

	err = a.Update(ctx)
	var cycle *model.GraphCycleError
	require.ErrorAs(t, err, &cycle)
	assert.Contains(t, cycle.Path, "X")
	assert.Contains(t, cycle.Path, "Y")
	assert.NotContains(t, cycle.Path, "Z")
	assert.Contains(t, err.Error(), "cycle detected")
	assert.Empty(t, probes.Order(), "no member runs when a cycle is found")
	assert.Equal(t, []string{"A"}, rec.cycles)

	// The enclosing namespace fails the same way.
	require.ErrorAs(t, m.Root().Update(ctx), &cycle)
}

func TestUpdate_SelfReferenceIsACycle(t *testing.T) {
	ctx, m, _ := newProbeModel(t)
	a, err := m.NewAssembly(m.Root(), "A")
	require.NoError(t, err)

	var cycle *model.GraphCycleError
	require.NoError(t, m.Suspend(func() error {
		o, err := m.NewObject(a, testutil.ProbeType, "Self")
		require.NoError(t, err)
		require.NoError(t, o.SetMethod("watch"))
		require.NoError(t, o.SetInput(ctx, "Tag", `"Self"`))
		return o.SetInput(ctx, "In", "Self")
	}))
	require.ErrorAs(t, a.Update(ctx), &cycle)
}

func TestUpdate_FailureStopsRemainingMembers(t *testing.T) {
	ctx, m, probes := newProbeModel(t)
	a, err := m.NewAssembly(m.Root(), "A")
	require.NoError(t, err)
	log := &testutil.EventLog{}
	m.Subscribe(a, log.Handle)

	require.NoError(t, m.Suspend(func() error {
		probe(ctx, t, m, a, "First", "")
		bad, err := m.NewObject(a, testutil.ProbeType, "Bad")
		require.NoError(t, err)
		require.NoError(t, bad.SetMethod("fail"))
		require.NoError(t, bad.SetInput(ctx, "Tag", `"Bad"`))
		probe(ctx, t, m, a, "After", "Bad")
		return nil
	}))
	log.Reset()

	err = a.Update(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "probe 'Bad' failed")
	assert.Contains(t, err.Error(), "A.Bad")
	assert.Equal(t, []string{"First", "Bad"}, probes.Order())
	assert.Empty(t, log.OfKind(event.StructureChanged))
}

func TestUpdate_Priming(t *testing.T) {
	ctx, m := testutil.NewModel(t)
	a, err := m.NewAssembly(m.Root(), "A")
	require.NoError(t, err)
	p, err := m.NewObject(a, "point", "P")
	require.NoError(t, err)

	// Without a method the object passes through an update.
	assert.False(t, p.Primed())
	require.NoError(t, p.Update(ctx))
	require.NoError(t, a.Update(ctx))
	assert.ErrorIs(t, p.SetInput(ctx, "X", "1.0"), model.ErrNoMethod)

	var unknownMethod *registry.UnknownMethodError
	require.ErrorAs(t, p.SetMethod("polar"), &unknownMethod)

	require.NoError(t, p.SetMethod("coordinates"))
	assert.Equal(t, 3, p.Inputs().Len())
	assert.Equal(t, []string{"X", "Y", "Z"}, p.Inputs().Unbound())

	var unknownInput *model.UnknownInputError
	require.ErrorAs(t, p.SetInput(ctx, "W", "1.0"), &unknownInput)

	// Binding is monotone: the object stays unprimed until the last slot.
	require.NoError(t, p.SetInput(ctx, "X", "1.0"))
	assert.False(t, p.Primed())
	require.NoError(t, p.SetInput(ctx, "Y", "2.0"))
	assert.False(t, p.Primed())
	assert.ErrorIs(t, p.Update(ctx), model.ErrNotPrimed)
	assert.ErrorIs(t, a.Update(ctx), model.ErrNotPrimed)
	got, err := p.Property("X")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got, "an unprimed object is not touched")

	require.NoError(t, p.SetInput(ctx, "Z", "3.0"))
	assert.True(t, p.Primed())
	got, err = p.Property("Coordinates")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, got)

	slot, ok := p.Inputs().Slot("Y")
	require.True(t, ok)
	assert.Equal(t, "2.0", slot.Expression())
	cached, ok := slot.Cached()
	require.True(t, ok)
	f, _ := cached.AsBigFloat().Float64()
	assert.Equal(t, 2.0, f)

	// Clearing a slot, explicitly or with empty text, unprimes the object.
	require.NoError(t, p.ClearInput("Y"))
	assert.False(t, p.Primed())
	require.NoError(t, p.SetInput(ctx, "Y", "2.0"))
	require.NoError(t, p.SetInput(ctx, "Z", "  "))
	assert.Equal(t, []string{"Z"}, p.Inputs().Unbound())

	// A new method drops every binding.
	require.NoError(t, p.SetInput(ctx, "Z", "3.0"))
	require.NoError(t, p.SetMethod("offset"))
	assert.Equal(t, []string{"Base", "DX", "DY", "DZ"}, p.Inputs().Unbound())
}

func TestUpdate_BadInputs(t *testing.T) {
	ctx, m := testutil.NewModel(t)
	a, err := m.NewAssembly(m.Root(), "A")
	require.NoError(t, err)
	p := testutil.NewPoint(ctx, t, m, a, "P", "1.0", "2.0", "3.0")
	l, err := m.NewObject(a, "line", "L")
	require.NoError(t, err)
	require.NoError(t, l.SetMethod("two_points"))

	// A reference that does not resolve fails at bind time.
	err = l.SetInput(ctx, "Start", "Nowhere")
	var inputErr *model.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "Start", inputErr.Slot)
	var lookupErr *model.LookupError
	require.ErrorAs(t, err, &lookupErr)
	slot, _ := l.Inputs().Slot("Start")
	assert.False(t, slot.Bound())

	// Malformed text fails at bind time too.
	require.Error(t, l.SetInput(ctx, "Start", "P +"))

	// A primitive where an entity is expected fails when the object runs.
	require.NoError(t, l.SetInput(ctx, "Start", "P"))
	err = l.SetInput(ctx, "End", "P.X")
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "End", inputErr.Slot)

	// An entity where a number is expected fails the same way.
	err = p.SetInput(ctx, "X", "A")
	require.ErrorAs(t, err, &inputErr)
}

func TestUpdate_Suspend(t *testing.T) {
	ctx, m := testutil.NewModel(t)
	a, err := m.NewAssembly(m.Root(), "A")
	require.NoError(t, err)
	log := &testutil.EventLog{}
	m.SubscribeAll(log.Handle)

	var p *model.Object
	require.NoError(t, m.Suspend(func() error {
		assert.True(t, m.Suspended())
		p = testutil.NewPoint(ctx, t, m, a, "P", "5.0", "6.0", "7.0")
		return nil
	}))
	assert.False(t, m.Suspended())
	assert.Empty(t, log.OfKind(event.Updated))
	got, err := m.Lookup("A.P.X")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	require.NoError(t, m.Root().Update(ctx))
	got, err = p.Property("X")
	require.NoError(t, err)
	assert.Equal(t, 5.0, got)
	assert.NotEmpty(t, log.OfKind(event.Updated))
}

func TestUpdate_Recorder(t *testing.T) {
	rec := newCountingRecorder()
	ctx, _ := testutil.Context(t)
	m, err := model.New(testutil.NewRegistry(), model.WithRecorder(rec))
	require.NoError(t, err)
	s, err := m.NewScenario(m.Root(), "S")
	require.NoError(t, err)
	a, err := m.NewAssembly(s, "A")
	require.NoError(t, err)
	testutil.NewPoint(ctx, t, m, a, "P1", "0.0", "0.0", "0.0")

	rec.mu.Lock()
	assert.Equal(t, 1, rec.namespaces["assembly"])
	assert.Equal(t, 1, rec.objects["point.coordinates"])
	rec.mu.Unlock()

	require.NoError(t, m.Root().Update(ctx))
	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, 1, rec.namespaces["root"])
	assert.Equal(t, 1, rec.namespaces["scenario"])
	assert.Equal(t, 2, rec.namespaces["assembly"])
	assert.Equal(t, 2, rec.objects["point.coordinates"])
	assert.Zero(t, rec.failures)
}

func TestRestore(t *testing.T) {
	ctx, m := testutil.NewModel(t)
	a, err := m.NewAssembly(m.Root(), "A")
	require.NoError(t, err)
	testutil.NewPoint(ctx, t, m, a, "P1", "0.0", "0.0", "0.0")
	testutil.NewPoint(ctx, t, m, a, "P2", "0.0", "2.0", "0.0")
	l := testutil.NewLine(ctx, t, m, a, "L", "P1", "P2")

	require.NoError(t, m.Root().Restore(ctx))
	assert.True(t, l.Primed())
	slot, ok := l.Inputs().Slot("End")
	require.True(t, ok)
	assert.Equal(t, "P2", slot.Expression())

	require.NoError(t, m.Root().Update(ctx))
	got, err := m.Lookup("A.L.Length")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-9)
}

func TestDeletedDependencyFailsUpdate(t *testing.T) {
	ctx, m := testutil.NewModel(t)
	a, err := m.NewAssembly(m.Root(), "A")
	require.NoError(t, err)
	p1 := testutil.NewPoint(ctx, t, m, a, "P1", "0.0", "0.0", "0.0")
	testutil.NewPoint(ctx, t, m, a, "P2", "0.0", "2.0", "0.0")
	testutil.NewLine(ctx, t, m, a, "L", "P1", "P2")

	require.NoError(t, p1.Delete())
	var lookupErr *model.LookupError
	require.ErrorAs(t, a.Update(ctx), &lookupErr)
}

func TestSetProperty(t *testing.T) {
	ctx, m := testutil.NewModel(t)
	p := testutil.NewPoint(ctx, t, m, m.Root(), "P", "1.0", "2.0", "3.0")
	log := &testutil.EventLog{}
	m.Subscribe(p, log.Handle)

	require.NoError(t, p.SetProperty("X", 4.5))
	require.NoError(t, p.SetProperty("Y", int64(7)))
	got, err := p.Property("Coordinates")
	require.NoError(t, err)
	assert.Equal(t, []float64{4.5, 7, 3}, got)
	assert.Len(t, log.OfKind(event.PropertyChanged), 2)

	assert.ErrorContains(t, p.SetProperty("Coordinates", []float64{0, 0, 0}), "read-only")
	assert.Error(t, p.SetProperty("X", "four"))
	var lookupErr *model.LookupError
	require.ErrorAs(t, p.SetProperty("W", 1.0), &lookupErr)
	_, err = p.Property("W")
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, []string{"X", "Y", "Z", "Coordinates"}, p.Properties())

	// The next update overwrites manual edits with the bound inputs.
	require.NoError(t, m.Root().Update(ctx))
	got, err = p.Property("X")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func TestUpdate_FloatingPointLength(t *testing.T) {
	ctx, m := testutil.NewModel(t)
	a, err := m.NewAssembly(m.Root(), "A")
	require.NoError(t, err)
	testutil.NewPoint(ctx, t, m, a, "P1", "1.0", "1.0", "1.0")
	testutil.NewPoint(ctx, t, m, a, "P2", "P1.X * 2.0", "P1.Y * 2.0", "P1.Z * 2.0")
	testutil.NewLine(ctx, t, m, a, "L", "P1", "P2")

	got, err := m.Lookup("A.L.Length")
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(3), got, 1e-9)
}
