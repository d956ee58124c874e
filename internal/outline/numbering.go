package outline

import (
	"strconv"
	"strings"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// Label is the numbering label of one heading.
type Label struct {
	Pos   int    `json:"pos"`
	Label string `json:"label"`
}

// Numbering maps heading positions to labels, in document order.
type Numbering struct {
	labels []Label
	byPos  map[int]int
}

// Label returns the label of the heading at pos.
func (n Numbering) Label(pos int) (string, bool) {
	i, ok := n.byPos[pos]
	if !ok {
		return "", false
	}
	return n.labels[i].Label, true
}

// Labels returns every label in document order.
func (n Numbering) Labels() []Label { return n.labels }

// Len returns the number of labelled headings.
func (n Numbering) Len() int { return len(n.labels) }

// CalculateNumbering walks the document once and labels every numbered
// heading from a counter stack indexed by indent. Headings that are not
// numbered leave the stack alone. A manual number replaces the computed
// label but the counters still advance.
func CalculateNumbering(doc *doctree.Node) Numbering {
	num := Numbering{byPos: make(map[int]int)}
	var stack []int

	doc.Descendants(func(n *doctree.Node, pos int, _ *doctree.Node, _ int) bool {
		if !n.Is(doctree.TypeHeading) {
			return !n.IsTextblock()
		}
		h := doctree.HeadingOf(n)
		if !h.Numbered {
			return false
		}
		depth := h.Indent + 1
		if len(stack) > depth {
			stack = stack[:depth]
		}
		for len(stack) < depth {
			stack = append(stack, 0)
		}
		stack[h.Indent]++

		label := h.ManualNumber
		if label == "" {
			label = joinCounters(stack)
		}
		num.byPos[pos] = len(num.labels)
		num.labels = append(num.labels, Label{Pos: pos, Label: label})
		return false
	})
	return num
}

func joinCounters(counters []int) string {
	parts := make([]string, len(counters))
	for i, c := range counters {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ".")
}
