package columns

import "github.com/dgallion1/docstruct/internal/doctree"

// Repair rebuilds a tree whose columns structure came from outside the
// editor. Afterwards containers never nest, hold at most MaxColumns columns
// and only column children, and no column sits outside a container.
// Containers left with fewer than two columns are replaced by their
// content. Width attributes are carried over untouched; Rebalance fixes
// them.
func Repair(root *doctree.Node) *doctree.Node {
	if root.ChildCount() == 0 || root.IsTextblock() {
		return root
	}
	return root.WithContent(repairBlocks(root.Content(), false))
}

func repairBlocks(nodes []*doctree.Node, inColumn bool) []*doctree.Node {
	out := make([]*doctree.Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, repairNode(n, inColumn)...)
	}
	return out
}

func repairNode(n *doctree.Node, inColumn bool) []*doctree.Node {
	switch {
	case n.Is(doctree.TypeColumns) && !inColumn:
		return repairContainer(n)
	case n.Is(doctree.TypeColumns), n.Is(doctree.TypeColumn):
		// Nested containers and stray columns keep only their content.
		return repairBlocks(n.Content(), inColumn)
	case n.ChildCount() == 0 || n.IsTextblock():
		return []*doctree.Node{n}
	}
	content := repairBlocks(n.Content(), inColumn)
	if len(content) == 0 {
		content = []*doctree.Node{doctree.Paragraph("")}
	}
	return []*doctree.Node{n.WithContent(content)}
}

func repairContainer(n *doctree.Node) []*doctree.Node {
	var cols []*doctree.Node
	reshaped := false
	for _, child := range n.Content() {
		var content []*doctree.Node
		if child.Is(doctree.TypeColumn) {
			content = repairBlocks(child.Content(), true)
		} else {
			content = repairNode(child, true)
			reshaped = true
		}
		if len(content) == 0 {
			content = []*doctree.Node{doctree.Paragraph("")}
		}

		if len(cols) == MaxColumns {
			// Overflow columns fold into the last one.
			last := cols[len(cols)-1]
			cols[len(cols)-1] = last.WithContent(append(append([]*doctree.Node(nil), last.Content()...), content...))
			reshaped = true
			continue
		}
		if child.Is(doctree.TypeColumn) {
			cols = append(cols, child.WithContent(content))
		} else {
			cols = append(cols, doctree.Column(0, content...))
		}
	}

	switch len(cols) {
	case 0:
		return nil
	case 1:
		return cols[0].Content()
	}
	if !reshaped {
		return []*doctree.Node{n.WithContent(cols)}
	}
	attrs := doctree.ColumnsOf(n)
	attrs.Count = len(cols)
	attrs.Widths = make([]float64, len(cols))
	for i, col := range cols {
		attrs.Widths[i] = doctree.ColumnWidth(col)
	}
	return []*doctree.Node{n.WithAttrs(attrs.Attrs()).WithContent(cols)}
}
