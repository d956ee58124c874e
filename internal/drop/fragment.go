package drop

import (
	"github.com/google/uuid"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// Fragment is the content being dragged. From and To locate the drag
// source in the document the drop is applied to; they are only read for
// moves.
type Fragment struct {
	Content []*doctree.Node `json:"content"`
	From    int             `json:"from"`
	To      int             `json:"to"`
}

// FragmentAt slices the top-level-or-nested block range [from, to) out of
// doc as a movable fragment. The range must cover whole sibling blocks.
func FragmentAt(doc *doctree.Node, from, to int) (*Fragment, bool) {
	if from >= to {
		return nil, false
	}
	rFrom, err := doc.Resolve(from)
	if err != nil {
		return nil, false
	}
	rTo, err := doc.Resolve(to)
	if err != nil {
		return nil, false
	}
	d := rFrom.Depth()
	if rTo.Depth() != d || rFrom.Start(d) != rTo.Start(d) || rFrom.InText() || rTo.InText() {
		return nil, false
	}
	parent := rFrom.Parent()
	if parent.IsTextblock() {
		return nil, false
	}
	content := parent.Content()[rFrom.Index(d):rTo.Index(d)]
	return &Fragment{
		Content: append([]*doctree.Node(nil), content...),
		From:    from,
		To:      to,
	}, true
}

// normalize prepares fragment content for insertion into a column. Runs of
// inline nodes are wrapped in paragraphs. ok is false when the fragment is
// empty or holds a columns container or column anywhere, since a drop
// must never nest containers.
func normalize(content []*doctree.Node) ([]*doctree.Node, bool) {
	var out, inline []*doctree.Node
	flush := func() {
		if len(inline) > 0 {
			out = append(out, doctree.New(doctree.TypeParagraph, nil, inline...))
			inline = nil
		}
	}
	for _, n := range content {
		if n == nil {
			continue
		}
		if holdsContainer(n) {
			return nil, false
		}
		if n.IsInline() {
			inline = append(inline, n)
			continue
		}
		flush()
		out = append(out, n)
	}
	flush()
	return out, len(out) > 0
}

func holdsContainer(n *doctree.Node) bool {
	if n.Is(doctree.TypeColumns) || n.Is(doctree.TypeColumn) {
		return true
	}
	found := false
	n.Descendants(func(c *doctree.Node, _ int, _ *doctree.Node, _ int) bool {
		if c.Is(doctree.TypeColumns) || c.Is(doctree.TypeColumn) {
			found = true
		}
		return !found && !c.IsTextblock()
	})
	return found
}

// freshHeadingIDs gives every heading in a copied fragment a new id so the
// copy does not share ids with its source.
func freshHeadingIDs(content []*doctree.Node) []*doctree.Node {
	out := make([]*doctree.Node, len(content))
	for i, n := range content {
		out[i] = withFreshIDs(n)
	}
	return out
}

func withFreshIDs(n *doctree.Node) *doctree.Node {
	if n.Is(doctree.TypeHeading) {
		return n.WithAttrs(n.Attrs().Merge(doctree.Attrs{"id": uuid.NewString()}))
	}
	if n.ChildCount() == 0 || n.IsTextblock() {
		return n
	}
	children := make([]*doctree.Node, n.ChildCount())
	for i, c := range n.Content() {
		children[i] = withFreshIDs(c)
	}
	return n.WithContent(children)
}
