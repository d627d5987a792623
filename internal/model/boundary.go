package model

// FindActiveBoundary walks the tree and returns the most recently visited
// boundary that is not embedded in another boundary. Embedded boundaries
// count only when their name is in allow (for example a side menu that is a
// child of a map screen but covers it).
//
// Returns nil when the tree has no qualifying boundary.
func FindActiveBoundary(root *Node, allow []string) *Node {
	allowed := make(map[string]bool, len(allow))
	for _, name := range allow {
		allowed[name] = true
	}
	var active *Node
	Walk(root, func(n *Node, _ int) {
		if n.Kind != KindBoundary {
			return
		}
		if !n.Embedded || allowed[n.Name] {
			active = n
		}
	})
	return active
}

// BoundaryGate tracks whether the walk has reached the active boundary.
// Nodes seen before it are behind the active screen and not candidates.
type BoundaryGate struct {
	active *Node
	passed bool
}

// NewBoundaryGate returns a gate for the given active boundary. A nil
// boundary opens the gate from the start.
func NewBoundaryGate(active *Node) *BoundaryGate {
	return &BoundaryGate{active: active, passed: active == nil}
}

// Admit records n as visited and reports whether it is a candidate.
func (g *BoundaryGate) Admit(n *Node) bool {
	if !g.passed && n == g.active {
		g.passed = true
	}
	return g.passed
}
