package dag

// New creates and returns an initialized, empty Graph.
func New[K comparable]() *Graph[K] {
	return &Graph[K]{
		nodes: make(map[K]*node[K]),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph[K]) AddNode(id K) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node[K]{id: id}
	g.order = append(g.order, id)
}

// AddEdge records that `toID` depends on `fromID`. Adding the same edge twice
// is a no-op. A self edge is accepted and surfaces as a cycle when sorting.
func (g *Graph[K]) AddEdge(fromID, toID K) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return &NodeNotFoundError[K]{ID: fromID}
	}
	toNode, ok := g.nodes[toID]
	if !ok {
		return &NodeNotFoundError[K]{ID: toID}
	}
	if toNode.hasDep(fromID) {
		return nil
	}

	toNode.deps = append(toNode.deps, fromNode)
	fromNode.dependents = append(fromNode.dependents, toNode)
	return nil
}

// Len reports the number of nodes in the graph.
func (g *Graph[K]) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.order)
}

// Nodes returns the node IDs in insertion order.
func (g *Graph[K]) Nodes() []K {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return append([]K(nil), g.order...)
}

// Dependencies returns the IDs the given node depends on, in declaration order.
func (g *Graph[K]) Dependencies(id K) ([]K, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, &NodeNotFoundError[K]{ID: id}
	}
	return ids(n.deps), nil
}

// Dependents returns the IDs of nodes that depend on the given node.
func (g *Graph[K]) Dependents(id K) ([]K, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, &NodeNotFoundError[K]{ID: id}
	}
	return ids(n.dependents), nil
}

// DetectCycles checks the graph for any cycles. It returns a *CycleError
// describing the first cycle found.
func (g *Graph[K]) DetectCycles() error {
	_, err := g.TopologicalSort()
	return err
}

// TopologicalSort orders the nodes so that every node appears after all of
// its dependencies. Nodes are visited in insertion order and each node's
// dependencies are visited depth-first before the node itself is emitted.
// On a cycle no partial order is returned.
func (g *Graph[K]) TopologicalSort() ([]K, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// permanent: nodes already emitted.
	// stack: nodes on the current recursion path, in visiting order.
	permanent := make(map[K]bool, len(g.order))
	onStack := make(map[K]bool)
	var stack []K
	out := make([]K, 0, len(g.order))

	var visit func(n *node[K]) error
	visit = func(n *node[K]) error {
		if permanent[n.id] {
			return nil
		}
		if onStack[n.id] {
			return &CycleError[K]{Path: cyclePath(stack, n.id)}
		}

		onStack[n.id] = true
		stack = append(stack, n.id)
		for _, dep := range n.deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		delete(onStack, n.id)

		permanent[n.id] = true
		out = append(out, n.id)
		return nil
	}

	for _, id := range g.order {
		if err := visit(g.nodes[id]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Sort is a convenience for ordering a slice of items whose dependencies are
// reported by depsOf. Dependencies that are not themselves in items are
// ignored.
func Sort[K comparable](items []K, depsOf func(K) []K) ([]K, error) {
	g := New[K]()
	for _, it := range items {
		g.AddNode(it)
	}
	for _, it := range items {
		for _, dep := range depsOf(it) {
			if _, ok := g.nodes[dep]; !ok {
				continue
			}
			if err := g.AddEdge(dep, it); err != nil {
				return nil, err
			}
		}
	}
	return g.TopologicalSort()
}

func ids[K comparable](nodes []*node[K]) []K {
	out := make([]K, len(nodes))
	for i, n := range nodes {
		out[i] = n.id
	}
	return out
}

// cyclePath returns the tail of stack starting at id, closed with id again.
func cyclePath[K comparable](stack []K, id K) []K {
	for i, s := range stack {
		if s == id {
			path := append([]K(nil), stack[i:]...)
			return append(path, id)
		}
	}
	return []K{id, id}
}
