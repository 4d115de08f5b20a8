package dag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New[string]()
	require.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.Zero(t, g.Len())
}

func TestAddNode(t *testing.T) {
	g := New[string]()

	g.AddNode("a")
	assert.Equal(t, 1, g.Len())
	nodeA, ok := g.nodes["a"]
	require.True(t, ok)
	assert.Equal(t, "a", nodeA.id)

	g.AddNode("a") // Test idempotency
	assert.Equal(t, 1, g.Len())

	g.AddNode("b")
	assert.Equal(t, []string{"a", "b"}, g.Nodes())
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New[string]()
		g.AddNode("a")
		g.AddNode("b")

		require.NoError(t, g.AddEdge("a", "b")) // b depends on a
		require.NoError(t, g.AddEdge("a", "b")) // duplicate is ignored

		deps, err := g.Dependencies("b")
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, deps)

		dependents, err := g.Dependents("a")
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, dependents)
	})

	t.Run("error cases", func(t *testing.T) {
		g := New[string]()
		g.AddNode("a")

		var notFound *NodeNotFoundError[string]
		err := g.AddEdge("dne", "a")
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "dne", notFound.ID)

		err = g.AddEdge("a", "dne")
		assert.ErrorContains(t, err, "node not found: dne")

		_, err = g.Dependencies("dne")
		assert.Error(t, err)
	})
}

func TestDetectCycles(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		g := New[string]()
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		g := New[string]()
		for _, id := range []string{"a", "b", "c", "d"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "c"))
		require.NoError(t, g.AddEdge("a", "c")) // Transitive edge
		require.NoError(t, g.AddEdge("c", "d"))
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("simple direct cycle is detected", func(t *testing.T) {
		g := New[string]()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "a"))

		err := g.DetectCycles()
		var cycle *CycleError[string]
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, []string{"a", "b", "a"}, cycle.Path)
		assert.ErrorContains(t, err, "cycle detected involving 'a': a -> b -> a")
	})

	t.Run("self edge is a cycle", func(t *testing.T) {
		g := New[string]()
		g.AddNode("a")
		require.NoError(t, g.AddEdge("a", "a"))
		assert.ErrorContains(t, g.DetectCycles(), "cycle detected")
	})

	t.Run("cycle in a disjoint component is detected", func(t *testing.T) {
		g := New[string]()
		for _, id := range []string{"a", "b", "x", "y", "z"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("x", "y"))
		require.NoError(t, g.AddEdge("y", "z"))
		require.NoError(t, g.AddEdge("z", "y"))

		err := g.DetectCycles()
		var cycle *CycleError[string]
		require.True(t, errors.As(err, &cycle))
		assert.Equal(t, []string{"y", "z", "y"}, cycle.Path)
	})
}

func TestTopologicalSort(t *testing.T) {
	t.Run("independent nodes keep insertion order", func(t *testing.T) {
		g := New[string]()
		for _, id := range []string{"c", "a", "b"} {
			g.AddNode(id)
		}
		order, err := g.TopologicalSort()
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "a", "b"}, order)
	})

	t.Run("dependencies come first", func(t *testing.T) {
		g := New[string]()
		for _, id := range []string{"line", "p1", "p2"} {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge("p1", "line"))
		require.NoError(t, g.AddEdge("p2", "line"))

		order, err := g.TopologicalSort()
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p2", "line"}, order)
	})

	t.Run("diamond is emitted once per node", func(t *testing.T) {
		g := New[int]()
		for id := 1; id <= 4; id++ {
			g.AddNode(id)
		}
		require.NoError(t, g.AddEdge(1, 2))
		require.NoError(t, g.AddEdge(1, 3))
		require.NoError(t, g.AddEdge(2, 4))
		require.NoError(t, g.AddEdge(3, 4))

		order, err := g.TopologicalSort()
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4}, order)
	})

	t.Run("cycle returns no partial order", func(t *testing.T) {
		g := New[string]()
		g.AddNode("free")
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "a"))

		order, err := g.TopologicalSort()
		assert.Error(t, err)
		assert.Nil(t, order)
	})
}

func TestSort(t *testing.T) {
	deps := map[string][]string{
		"L":  {"P1", "P2", "outside"},
		"P2": {"P1"},
	}
	order, err := Sort([]string{"L", "P2", "P1"}, func(k string) []string { return deps[k] })
	require.NoError(t, err)
	assert.Equal(t, []string{"P1", "P2", "L"}, order)

	deps["P1"] = []string{"L"}
	_, err = Sort([]string{"L", "P2", "P1"}, func(k string) []string { return deps[k] })
	var cycle *CycleError[string]
	assert.ErrorAs(t, err, &cycle)
}
