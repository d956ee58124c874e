package doctree

// VisitFunc is called for each node during traversal. pos is the position
// directly before the node. Returning false skips the node's children.
type VisitFunc func(node *Node, pos int, parent *Node, index int) bool

// NodesBetween walks, in pre-order, every descendant that overlaps the
// range [from, to). Ancestors that straddle from are visited too.
func (n *Node) NodesBetween(from, to int, f VisitFunc) {
	n.nodesBetween(from, to, f, 0)
}

func (n *Node) nodesBetween(from, to int, f VisitFunc, startPos int) {
	pos := 0
	for i := 0; pos < to && i < len(n.content); i++ {
		child := n.content[i]
		end := pos + child.size
		if end > from && f(child, startPos+pos, n, i) && child.ContentSize() > 0 {
			start := pos + 1
			child.nodesBetween(max(0, from-start), min(child.ContentSize(), to-start), f, startPos+start)
		}
		pos = end
	}
}

// Descendants walks every descendant in pre-order.
func (n *Node) Descendants(f VisitFunc) {
	n.NodesBetween(0, n.ContentSize(), f)
}

// FindAll returns the positions of every block of the given type, in
// document order. Textblock content is not searched.
func (n *Node) FindAll(typ string) []int {
	var out []int
	n.Descendants(func(c *Node, pos int, _ *Node, _ int) bool {
		if c.typ == typ {
			out = append(out, pos)
		}
		return !c.IsTextblock()
	})
	return out
}
