// Package outline computes heading-derived state: fold ranges hidden by
// collapsed headings and hierarchical numbering labels.
package outline

import (
	"sort"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// FoldRange is the half-open interval [From, To) hidden when a heading
// collapses.
type FoldRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Contains reports whether pos lies inside the range.
func (r FoldRange) Contains(pos int) bool { return pos >= r.From && pos < r.To }

// CalculateFoldRange returns the range folded by the heading at headingPos.
// The range ends at the first later heading whose level is less than or
// equal to the origin's, or at the end of the nearest isolating ancestor.
// ok is false when there is nothing to hide or headingPos is not a heading.
func CalculateFoldRange(doc *doctree.Node, headingPos int) (FoldRange, bool) {
	heading := doc.NodeAt(headingPos)
	if !heading.Is(doctree.TypeHeading) {
		return FoldRange{}, false
	}
	rp, err := doc.Resolve(headingPos)
	if err != nil {
		return FoldRange{}, false
	}

	containerEnd := doc.ContentSize()
	if d, ok := rp.FindAncestor((*doctree.Node).IsIsolating); ok {
		containerEnd = rp.End(d)
	}

	from := headingPos + heading.Size()
	if from >= containerEnd {
		return FoldRange{}, false
	}

	level := doctree.HeadingOf(heading).Level
	to := containerEnd
	stopped := false
	doc.NodesBetween(from, containerEnd, func(n *doctree.Node, pos int, _ *doctree.Node, _ int) bool {
		if stopped {
			return false
		}
		if pos < from {
			// Ancestor straddling the start of the range.
			return true
		}
		if n.IsIsolating() {
			return false
		}
		if n.Is(doctree.TypeHeading) {
			if doctree.HeadingOf(n).Level <= level {
				to = pos
				stopped = true
			}
			return false
		}
		return !n.IsTextblock()
	})

	if from >= to {
		return FoldRange{}, false
	}
	return FoldRange{From: from, To: to}, true
}

// HiddenRanges folds every collapsed heading and merges overlapping
// results, in document order.
func HiddenRanges(doc *doctree.Node) []FoldRange {
	var ranges []FoldRange
	for _, pos := range doc.FindAll(doctree.TypeHeading) {
		if !doctree.HeadingOf(doc.NodeAt(pos)).Collapsed {
			continue
		}
		if r, ok := CalculateFoldRange(doc, pos); ok {
			ranges = append(ranges, r)
		}
	}
	return mergeRanges(ranges)
}

func mergeRanges(ranges []FoldRange) []FoldRange {
	if len(ranges) < 2 {
		return ranges
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].From < ranges[j].From })
	out := []FoldRange{ranges[0]}
	for _, r := range ranges[1:] {
		last := &out[len(out)-1]
		if r.From <= last.To {
			last.To = max(last.To, r.To)
			continue
		}
		out = append(out, r)
	}
	return out
}

// ToggleFold flips the collapsed flag of the heading at pos.
func ToggleFold(tr *doctree.Transaction, pos int) bool {
	n := tr.Doc().NodeAt(pos)
	if !n.Is(doctree.TypeHeading) {
		return false
	}
	collapsed := !doctree.HeadingOf(n).Collapsed
	return tr.SetNodeAttrs(pos, doctree.Attrs{"collapsed": collapsed}) == nil
}
