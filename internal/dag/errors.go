package dag

import (
	"fmt"
	"strings"
)

// CycleError is returned when a traversal revisits a node that is still on
// its recursion stack. Path starts and ends at the node that closed the cycle.
type CycleError[K comparable] struct {
	Path []K
}

func (e *CycleError[K]) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("cycle detected involving '%v': %s", e.Path[0], strings.Join(parts, " -> "))
}

// NodeNotFoundError is returned when an operation names a node that was never added.
type NodeNotFoundError[K comparable] struct {
	ID K
}

func (e *NodeNotFoundError[K]) Error() string {
	return fmt.Sprintf("node not found: %v", e.ID)
}
