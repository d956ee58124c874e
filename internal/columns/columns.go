// Package columns maintains the invariants of multi-column containers:
// column count bounds, width bounds and the cleanup of degenerate
// containers after structural edits.
package columns

import (
	"math"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// Container limits.
const (
	MinColumns     = 2
	MaxColumns     = 7
	MinColumnWidth = 5.0
)

// resizeEpsilon is the smallest width change, in percent, that counts as a
// resize.
const resizeEpsilon = 0.1

// EqualWidths splits 100 percent into n shares rounded down to two
// decimals. The last share absorbs the rounding remainder so the sum stays
// exactly 100.
func EqualWidths(n int) []float64 {
	if n <= 0 {
		return nil
	}
	share := math.Floor(100/float64(n)*100) / 100
	widths := make([]float64, n)
	for i := range n - 1 {
		widths[i] = share
	}
	widths[n-1] = round2(100 - share*float64(n-1))
	return widths
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// IsEmptyColumn reports whether col has no children or holds exactly one
// empty paragraph.
func IsEmptyColumn(col *doctree.Node) bool {
	if !col.Is(doctree.TypeColumn) {
		return false
	}
	switch col.ChildCount() {
	case 0:
		return true
	case 1:
		only := col.Child(0)
		return only.Is(doctree.TypeParagraph) && only.ChildCount() == 0
	}
	return false
}

// containerAt returns the columns container starting at pos in tr's
// current document.
func containerAt(tr *doctree.Transaction, pos int) (*doctree.Node, bool) {
	n := tr.Doc().NodeAt(pos)
	return n, n.Is(doctree.TypeColumns)
}

// columnPos returns the position directly before child i of the container
// at pos. i may equal the child count to address the end of the content.
func columnPos(container *doctree.Node, pos, i int) int {
	return pos + 1 + container.ChildOffset(i)
}

// setWidths writes count and widths onto the container at pos and the
// matching width onto every column. Attribute steps never move positions,
// so the column offsets stay valid throughout.
func setWidths(tr *doctree.Transaction, pos int, widths []float64) error {
	container, ok := containerAt(tr, pos)
	if !ok {
		return doctree.ErrNoNodeAt
	}
	attrs := doctree.ColumnsOf(container)
	attrs.Count = len(widths)
	attrs.Widths = widths
	if err := tr.SetNodeAttrs(pos, attrs.Attrs()); err != nil {
		return err
	}
	for i := 0; i < container.ChildCount() && i < len(widths); i++ {
		if err := tr.SetNodeAttrs(columnPos(container, pos, i), doctree.Attrs{"width": widths[i]}); err != nil {
			return err
		}
	}
	return nil
}

// atomically runs fn and rolls tr back to where it started when fn fails.
func atomically(tr *doctree.Transaction, fn func() error) bool {
	mark := tr.Mark()
	if err := fn(); err != nil {
		tr.Rollback(mark)
		return false
	}
	return true
}
