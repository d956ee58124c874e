package hotzone

import (
	"github.com/dgallion1/docstruct/internal/doctree"
)

// Config holds the hotzone sizes in pixels.
type Config struct {
	ColumnGapThreshold    float64
	EditorBorderThreshold float64
	EditorBorderTolerance float64
}

func DefaultConfig() Config {
	return Config{
		ColumnGapThreshold:    12,
		EditorBorderThreshold: 48,
		EditorBorderTolerance: 24,
	}
}

// Classifier turns pointer coordinates into guidelines.
type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify returns the vertical guideline for a pointer at (x, y). Column
// gaps are checked first, then the editor borders. The returned guideline
// is idle when the pointer is in neither family of hotzones or the border
// has no block beside it.
func (c *Classifier) Classify(doc *doctree.Node, s Surface, x, y float64) Guideline {
	if g, ok := c.columnGap(doc, s, x, y); ok {
		return g
	}
	border, ok := DetectEditorBorder(x, y, s.EditorRect(), c.cfg.EditorBorderThreshold, c.cfg.EditorBorderTolerance)
	if !ok {
		return Idle()
	}
	target, ok := ResolveTargetBlock(doc, s, y)
	if !ok {
		return Idle()
	}
	return EditorBorder(border.EdgeX, border.Side, target, insideColumns(doc, target))
}

func (c *Classifier) columnGap(doc *doctree.Node, s Surface, x, y float64) (Guideline, bool) {
	for _, pos := range doc.FindAll(doctree.TypeColumns) {
		container := doc.NodeAt(pos)
		containerRect, ok := s.RectAt(pos)
		if !ok {
			continue
		}
		rects := make([]Rect, 0, container.ChildCount())
		for i := range container.ChildCount() {
			r, ok := s.RectAt(pos + 1 + container.ChildOffset(i))
			if !ok {
				break
			}
			rects = append(rects, r)
		}
		if len(rects) != container.ChildCount() {
			continue
		}
		if gap, ok := DetectColumnGap(x, y, containerRect, rects, c.cfg.ColumnGapThreshold); ok {
			return ColumnsEdge(gap.EdgeX, SideRight, gap.ColumnIndex, pos), true
		}
	}
	return Guideline{}, false
}

// ClassifyHorizontal returns the insert-between-blocks guideline for a
// pointer inside the editor: the nearer horizontal edge of the block under
// the pointer.
func (c *Classifier) ClassifyHorizontal(doc *doctree.Node, s Surface, x, y float64) Horizontal {
	if !s.EditorRect().Contains(x, y) {
		return Horizontal{}
	}
	target, ok := ResolveTargetBlock(doc, s, y)
	if !ok {
		return Horizontal{}
	}
	r, ok := s.RectAt(target)
	if !ok {
		return Horizontal{}
	}
	if y-r.Top <= r.Bottom-y {
		return Horizontal{Active: true, Pos: target, Y: r.Top}
	}
	return Horizontal{Active: true, Pos: target + doc.NodeAt(target).Size(), Y: r.Bottom}
}

// ResolveTargetBlock maps y to the top-level block whose vertical extent
// contains it, so a guideline spans a whole structural unit such as a list
// or columns container rather than one of its items. It probes the editor
// at its centre, then just inside each edge, and falls back to scanning
// the top-level block rectangles.
func ResolveTargetBlock(doc *doctree.Node, s Surface, y float64) (int, bool) {
	editor := s.EditorRect()
	for _, x := range []float64{(editor.Left + editor.Right) / 2, editor.Left + 1, editor.Right - 1} {
		pos, ok := s.PosAtCoords(x, y)
		if !ok {
			continue
		}
		target, ok := outermostBlock(doc, pos)
		if !ok {
			continue
		}
		if r, ok := s.RectAt(target); ok && !r.SpansY(y, 0) {
			continue
		}
		return target, true
	}

	for i := range doc.ChildCount() {
		pos := doc.ChildOffset(i)
		if r, ok := s.RectAt(pos); ok && r.SpansY(y, 0) {
			return pos, true
		}
	}
	return 0, false
}

// outermostBlock returns the position of the top-level block containing
// pos, or the block directly after it when pos sits between top-level
// blocks.
func outermostBlock(doc *doctree.Node, pos int) (int, bool) {
	rp, err := doc.Resolve(pos)
	if err != nil {
		return 0, false
	}
	if rp.Depth() >= 1 {
		return rp.Before(1), true
	}
	if rp.NodeAfter() != nil {
		return pos, true
	}
	if before := rp.NodeBefore(); before != nil {
		return pos - before.Size(), true
	}
	return 0, false
}

func insideColumns(doc *doctree.Node, pos int) bool {
	if doc.NodeAt(pos).Is(doctree.TypeColumns) {
		return true
	}
	rp, err := doc.Resolve(pos)
	if err != nil {
		return false
	}
	_, ok := rp.FindAncestor(func(n *doctree.Node) bool { return n.Is(doctree.TypeColumns) })
	return ok
}
