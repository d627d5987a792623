package model

// TraversalEntry is one visited node and its depth below the walk root.
type TraversalEntry struct {
	Node  *Node
	Depth int
}

// Walk visits every reachable node of the tree exactly once in depth-first
// pre-order, the way a person inspects nested containers top-to-bottom.
//
// Hidden children are skipped together with their whole subtree. A
// container that carries a Boundary, the root included, is replaced by that
// Boundary; the boundary is then followed by its view one level deeper.
func Walk(root *Node, visit func(n *Node, depth int)) {
	if root == nil {
		return
	}
	if root.Boundary != nil {
		root = root.Boundary
	}
	stack := []TraversalEntry{{Node: root, Depth: 0}}
	seen := make(map[*Node]bool)

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[current.Node] {
			continue
		}
		seen[current.Node] = true

		visit(current.Node, current.Depth)

		switch current.Node.Kind {
		case KindBoundary:
			if v := current.Node.View; v != nil && !v.Hidden {
				stack = append(stack, TraversalEntry{Node: v, Depth: current.Depth + 1})
			}
		case KindText:
			// leaf
		default:
			children := current.Node.Children
			for i := len(children) - 1; i >= 0; i-- {
				c := children[i]
				if c == nil || c.Hidden {
					continue
				}
				next := c
				if c.Boundary != nil {
					next = c.Boundary
				}
				stack = append(stack, TraversalEntry{Node: next, Depth: current.Depth + 1})
			}
		}
	}
}

// Entries returns the full walk as a slice.
func Entries(root *Node) []TraversalEntry {
	var entries []TraversalEntry
	Walk(root, func(n *Node, depth int) {
		entries = append(entries, TraversalEntry{Node: n, Depth: depth})
	})
	return entries
}
