package dag

import "sync"

// Graph is a collection of nodes and their dependencies, representing a DAG.
// All operations on the graph are concurrency-safe.
type Graph[K comparable] struct {
	// mutex protects the nodes map and the order slice.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[K]*node[K]
	// order is the insertion order of node IDs.
	order []K
}

// node represents a single vertex in the graph. Edges are kept in slices so
// that a traversal visits them in the order they were declared.
type node[K comparable] struct {
	id         K
	deps       []*node[K]
	dependents []*node[K]
}

func (n *node[K]) hasDep(id K) bool {
	for _, d := range n.deps {
		if d.id == id {
			return true
		}
	}
	return false
}
