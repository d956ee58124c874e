package doctree

import "fmt"

type frame struct {
	node  *Node
	index int
	start int // position where the node's content starts
}

// ResolvedPos is a position together with the ancestor chain it sits in.
// Depth 0 is the root; Depth() is the innermost node whose content holds the
// position.
type ResolvedPos struct {
	Pos          int
	ParentOffset int // offset of Pos inside the innermost node's content

	path       []frame
	textOffset int // >0 when Pos falls inside a text leaf
}

// Resolve locates pos inside the tree rooted at n. Positions run from 0 to
// n.ContentSize().
func (n *Node) Resolve(pos int) (*ResolvedPos, error) {
	if pos < 0 || pos > n.ContentSize() {
		return nil, fmt.Errorf("resolve %d: %w", pos, ErrPositionOutOfRange)
	}
	rp := &ResolvedPos{Pos: pos}
	node, start := n, 0
	for {
		offset := pos - start
		index, childStart, inside := node.findIndex(offset)
		rp.path = append(rp.path, frame{node: node, index: index, start: start})
		if !inside {
			rp.ParentOffset = offset
			return rp, nil
		}
		child := node.content[index]
		if child.IsText() {
			rp.ParentOffset = offset
			rp.textOffset = offset - childStart
			return rp, nil
		}
		node = child
		start += childStart + 1
	}
}

// findIndex maps a content offset to a child index. inside reports whether
// the offset falls strictly within that child rather than on its left
// boundary.
func (n *Node) findIndex(offset int) (index, childStart int, inside bool) {
	cur := 0
	for i, c := range n.content {
		if offset == cur {
			return i, cur, false
		}
		end := cur + c.size
		if offset < end {
			return i, cur, true
		}
		cur = end
	}
	return len(n.content), cur, false
}

// Depth returns the depth of the innermost ancestor.
func (rp *ResolvedPos) Depth() int { return len(rp.path) - 1 }

// Node returns the ancestor at depth d.
func (rp *ResolvedPos) Node(d int) *Node { return rp.path[d].node }

// Parent returns the innermost ancestor.
func (rp *ResolvedPos) Parent() *Node { return rp.path[len(rp.path)-1].node }

// Index returns the child index into the ancestor at depth d.
func (rp *ResolvedPos) Index(d int) int { return rp.path[d].index }

// Start returns the position where the content of the depth-d ancestor
// starts.
func (rp *ResolvedPos) Start(d int) int { return rp.path[d].start }

// End returns the position where the content of the depth-d ancestor ends.
func (rp *ResolvedPos) End(d int) int { return rp.path[d].start + rp.path[d].node.ContentSize() }

// Before returns the position directly before the depth-d ancestor. d must
// be at least 1.
func (rp *ResolvedPos) Before(d int) int { return rp.path[d].start - 1 }

// After returns the position directly after the depth-d ancestor. d must be
// at least 1.
func (rp *ResolvedPos) After(d int) int { return rp.Before(d) + rp.path[d].node.size }

// NodeAfter returns the child starting at the position, or nil when the
// position is at the end of its parent or inside a text leaf.
func (rp *ResolvedPos) NodeAfter() *Node {
	parent := rp.Parent()
	idx := rp.Index(rp.Depth())
	if rp.textOffset > 0 || idx >= parent.ChildCount() {
		return nil
	}
	return parent.content[idx]
}

// NodeBefore returns the child ending at the position, or nil.
func (rp *ResolvedPos) NodeBefore() *Node {
	idx := rp.Index(rp.Depth())
	if rp.textOffset > 0 || idx == 0 {
		return nil
	}
	return rp.Parent().content[idx-1]
}

// InText reports whether the position falls inside a text leaf.
func (rp *ResolvedPos) InText() bool { return rp.textOffset > 0 }

// FindAncestor returns the deepest depth >= 1 whose node satisfies pred.
func (rp *ResolvedPos) FindAncestor(pred func(*Node) bool) (int, bool) {
	for d := rp.Depth(); d >= 1; d-- {
		if pred(rp.path[d].node) {
			return d, true
		}
	}
	return 0, false
}
