package doctree

import "fmt"

// Step is a single atomic edit of a document.
type Step interface {
	Apply(doc *Node) (*Node, StepMap, error)
}

// ReplaceStep swaps the range [From, To) for Content. Both endpoints must sit
// on child boundaries of the same parent.
type ReplaceStep struct {
	From    int
	To      int
	Content []*Node
}

// Apply implements Step.
func (s ReplaceStep) Apply(doc *Node) (*Node, StepMap, error) {
	if s.From > s.To {
		return nil, StepMap{}, fmt.Errorf("replace %d-%d: %w", s.From, s.To, ErrInvalidReplace)
	}
	rFrom, err := doc.Resolve(s.From)
	if err != nil {
		return nil, StepMap{}, err
	}
	rTo, err := doc.Resolve(s.To)
	if err != nil {
		return nil, StepMap{}, err
	}
	d := rFrom.Depth()
	if rTo.Depth() != d || rFrom.Start(d) != rTo.Start(d) || rFrom.InText() || rTo.InText() {
		return nil, StepMap{}, fmt.Errorf("replace %d-%d: %w", s.From, s.To, ErrInvalidReplace)
	}
	parent := rFrom.Parent()
	if err := checkContent(parent, s.Content); err != nil {
		return nil, StepMap{}, err
	}
	updated := parent.replaceChildren(rFrom.Index(d), rTo.Index(d), s.Content)
	for depth := d - 1; depth >= 0; depth-- {
		idx := rFrom.Index(depth)
		updated = rFrom.Node(depth).replaceChildren(idx, idx+1, []*Node{updated})
	}
	return updated, StepMap{Start: s.From, OldSize: s.To - s.From, NewSize: sumSizes(s.Content)}, nil
}

func checkContent(parent *Node, content []*Node) error {
	inline := parent.IsTextblock()
	for _, c := range content {
		if c == nil || c.IsInline() != inline {
			return fmt.Errorf("%s in %s: %w", typeName(c), parent.typ, ErrInvalidContent)
		}
	}
	return nil
}

func typeName(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.typ
}

// AttrStep merges Attrs into the attributes of the node at Pos. It never
// moves positions.
type AttrStep struct {
	Pos   int
	Attrs Attrs
}

// Apply implements Step.
func (s AttrStep) Apply(doc *Node) (*Node, StepMap, error) {
	node := doc.NodeAt(s.Pos)
	if node == nil || node.IsText() {
		return nil, StepMap{}, fmt.Errorf("set attrs at %d: %w", s.Pos, ErrNoNodeAt)
	}
	updated := node.WithAttrs(node.attrs.Merge(s.Attrs))
	out, _, err := ReplaceStep{From: s.Pos, To: s.Pos + node.size, Content: []*Node{updated}}.Apply(doc)
	if err != nil {
		return nil, StepMap{}, err
	}
	return out, StepMap{Start: s.Pos}, nil
}
