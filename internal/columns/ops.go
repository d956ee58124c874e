package columns

import (
	"fmt"
	"math"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// InsertColumn inserts a new column holding content at child index of the
// container at pos and redistributes all widths equally. Empty content
// becomes an empty paragraph. It is a no-op returning false when the
// container would exceed MaxColumns or index is out of range.
func InsertColumn(tr *doctree.Transaction, pos, index int, content ...*doctree.Node) bool {
	container, ok := containerAt(tr, pos)
	if !ok {
		return false
	}
	count := container.ChildCount()
	if count+1 > MaxColumns || index < 0 || index > count {
		return false
	}
	if len(content) == 0 {
		content = []*doctree.Node{doctree.Paragraph("")}
	}
	widths := EqualWidths(count + 1)
	col := doctree.Column(widths[index], content...)
	return atomically(tr, func() error {
		if err := tr.Insert(columnPos(container, pos, index), col); err != nil {
			return err
		}
		return setWidths(tr, pos, widths)
	})
}

// AddColumn inserts an empty column after afterIndex. afterIndex -1
// prepends.
func AddColumn(tr *doctree.Transaction, pos, afterIndex int) bool {
	return InsertColumn(tr, pos, afterIndex+1)
}

// RemoveColumn deletes the column at index and redistributes the remaining
// widths equally. It is a no-op returning false when fewer than MinColumns
// would remain.
func RemoveColumn(tr *doctree.Transaction, pos, index int) bool {
	container, ok := containerAt(tr, pos)
	if !ok {
		return false
	}
	count := container.ChildCount()
	if count-1 < MinColumns || index < 0 || index >= count {
		return false
	}
	return atomically(tr, func() error {
		from := columnPos(container, pos, index)
		if err := tr.Delete(from, from+container.Child(index).Size()); err != nil {
			return err
		}
		return setWidths(tr, pos, EqualWidths(count-1))
	})
}

// ResizeAdjacentColumns moves the boundary between columns leftIdx and
// rightIdx = leftIdx+1 by deltaPx and returns the new widths. The pair's
// combined width is conserved; a side that would fall below MinColumnWidth
// is clamped and the other takes the rest. changed is false when the
// indexes are invalid, containerWidthPx is not positive, or neither width
// moves by at least resizeEpsilon.
func ResizeAdjacentColumns(leftIdx, rightIdx int, deltaPx, containerWidthPx float64, widths []float64) (resized []float64, changed bool) {
	resized = append([]float64(nil), widths...)
	if containerWidthPx <= 0 || leftIdx < 0 || rightIdx != leftIdx+1 || rightIdx >= len(widths) {
		return resized, false
	}
	oldLeft, oldRight := widths[leftIdx], widths[rightIdx]
	total := oldLeft + oldRight
	if total < 2*MinColumnWidth {
		return resized, false
	}

	deltaPercent := deltaPx / containerWidthPx * 100
	newLeft := oldLeft + deltaPercent
	newRight := oldRight - deltaPercent
	switch {
	case newLeft < MinColumnWidth:
		newLeft = MinColumnWidth
		newRight = total - MinColumnWidth
	case newRight < MinColumnWidth:
		newRight = MinColumnWidth
		newLeft = total - MinColumnWidth
	}

	if math.Abs(newLeft-oldLeft) < resizeEpsilon && math.Abs(newRight-oldRight) < resizeEpsilon {
		return resized, false
	}
	resized[leftIdx] = newLeft
	resized[rightIdx] = newRight
	return resized, true
}

// ResizeColumns applies ResizeAdjacentColumns to the container at pos.
func ResizeColumns(tr *doctree.Transaction, pos, leftIdx int, deltaPx, containerWidthPx float64) bool {
	container, ok := containerAt(tr, pos)
	if !ok {
		return false
	}
	widths := currentWidths(container)
	resized, changed := ResizeAdjacentColumns(leftIdx, leftIdx+1, deltaPx, containerWidthPx, widths)
	if !changed {
		return false
	}
	return atomically(tr, func() error { return setWidths(tr, pos, resized) })
}

// SetWidths replaces the widths of the container at pos after checking
// that there is one width per column, every width is at least
// MinColumnWidth and the total is 100.
func SetWidths(tr *doctree.Transaction, pos int, widths []float64) error {
	container, ok := containerAt(tr, pos)
	if !ok {
		return fmt.Errorf("set widths at %d: %w", pos, doctree.ErrNoNodeAt)
	}
	if err := ValidateWidths(widths, container.ChildCount()); err != nil {
		return err
	}
	mark := tr.Mark()
	if err := setWidths(tr, pos, append([]float64(nil), widths...)); err != nil {
		tr.Rollback(mark)
		return err
	}
	return nil
}

// ValidateWidths checks widths against the container invariants for a
// container holding count columns.
func ValidateWidths(widths []float64, count int) error {
	if len(widths) != count {
		return fmt.Errorf("%d widths for %d columns", len(widths), count)
	}
	sum := 0.0
	for i, w := range widths {
		if w < MinColumnWidth {
			return fmt.Errorf("column %d width %.2f below minimum %.0f", i, w, MinColumnWidth)
		}
		sum += w
	}
	if math.Abs(sum-100) > 0.01 {
		return fmt.Errorf("widths sum to %.2f, want 100", sum)
	}
	return nil
}

// Rebalance rewrites the widths of the container at pos as equal shares
// when its count attribute, width list or column widths disagree with its
// children or break the width bounds. It returns true when it changed
// anything. Containers whose child count is itself out of bounds are left
// to Cleanup.
func Rebalance(tr *doctree.Transaction, pos int) bool {
	container, ok := containerAt(tr, pos)
	if !ok {
		return false
	}
	count := container.ChildCount()
	if count < MinColumns || count > MaxColumns || consistent(container) {
		return false
	}
	return atomically(tr, func() error { return setWidths(tr, pos, EqualWidths(count)) })
}

func consistent(container *doctree.Node) bool {
	attrs := doctree.ColumnsOf(container)
	if attrs.Count != container.ChildCount() {
		return false
	}
	if ValidateWidths(attrs.Widths, container.ChildCount()) != nil {
		return false
	}
	for i, col := range container.Content() {
		if math.Abs(doctree.ColumnWidth(col)-attrs.Widths[i]) > 0.01 {
			return false
		}
	}
	return true
}

// SetLayout switches the container at pos between grid and stacked
// layout.
func SetLayout(tr *doctree.Transaction, pos int, layout string) bool {
	if layout != doctree.LayoutGrid && layout != doctree.LayoutStacked {
		return false
	}
	container, ok := containerAt(tr, pos)
	if !ok || doctree.ColumnsOf(container).Layout == layout {
		return false
	}
	return tr.SetNodeAttrs(pos, doctree.Attrs{"layout": layout}) == nil
}

// currentWidths returns the container's width list, falling back to equal
// shares when it is missing or the wrong length.
func currentWidths(container *doctree.Node) []float64 {
	widths := doctree.ColumnsOf(container).Widths
	if len(widths) != container.ChildCount() {
		return EqualWidths(container.ChildCount())
	}
	return widths
}
