package outline

import (
	"github.com/dgallion1/docstruct/internal/doctree"
)

// Entry is one heading in the outline of a document.
type Entry struct {
	Pos        int        `json:"pos"`
	Level      int        `json:"level"`
	Indent     int        `json:"indent"`
	Title      string     `json:"title"`
	Label      string     `json:"label,omitempty"`
	Breadcrumb []string   `json:"breadcrumb"`
	Collapsed  bool       `json:"collapsed"`
	Hidden     bool       `json:"hidden"` // inside a range folded by another heading
	Fold       *FoldRange `json:"fold,omitempty"`
}

// Entries lists every heading with its numbering label, fold range and
// breadcrumb of enclosing heading titles. Breadcrumbs nest by level and
// restart inside each isolating container.
func Entries(doc *doctree.Node) []Entry {
	numbering := CalculateNumbering(doc)
	hidden := HiddenRanges(doc)

	type stackEntry struct {
		title string
		level int
		scope scope
	}
	var stack []stackEntry
	var entries []Entry

	for _, pos := range doc.FindAll(doctree.TypeHeading) {
		n := doc.NodeAt(pos)
		h := doctree.HeadingOf(n)
		sc := scopeOf(doc, pos)

		// Pop until the top is a shallower heading in the same scope or a
		// heading of an enclosing scope.
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.scope == sc {
				if top.level < h.Level {
					break
				}
			} else if sc.within(top.scope) {
				break
			}
			stack = stack[:len(stack)-1]
		}

		bc := make([]string, 0, len(stack))
		for _, s := range stack {
			bc = append(bc, s.title)
		}

		e := Entry{
			Pos:        pos,
			Level:      h.Level,
			Indent:     h.Indent,
			Title:      n.TextContent(),
			Breadcrumb: bc,
			Collapsed:  h.Collapsed,
			Hidden:     insideAny(hidden, pos),
		}
		e.Label, _ = numbering.Label(pos)
		if r, ok := CalculateFoldRange(doc, pos); ok {
			e.Fold = &r
		}
		entries = append(entries, e)
		stack = append(stack, stackEntry{title: e.Title, level: h.Level, scope: sc})
	}
	return entries
}

// scope is the content span of the nearest isolating ancestor.
type scope struct{ from, to int }

func (s scope) within(outer scope) bool {
	return outer.from <= s.from && s.to <= outer.to
}

func scopeOf(doc *doctree.Node, pos int) scope {
	top := scope{from: -1, to: doc.ContentSize() + 1}
	rp, err := doc.Resolve(pos)
	if err != nil {
		return top
	}
	if d, ok := rp.FindAncestor((*doctree.Node).IsIsolating); ok {
		return scope{from: rp.Start(d), to: rp.End(d)}
	}
	return top
}

func insideAny(ranges []FoldRange, pos int) bool {
	for _, r := range ranges {
		if r.Contains(pos) {
			return true
		}
	}
	return false
}
