package parser

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dgallion1/docstruct/internal/columns"
	"github.com/dgallion1/docstruct/internal/doctree"
)

// heading builds a heading carrying a fresh id.
func heading(level int, text string) *doctree.Node {
	h := doctree.HeadingAttrs{Level: level, ID: uuid.NewString()}
	return doctree.New(doctree.TypeHeading, h.Attrs(), doctree.NewText(text))
}

// inlineRun collects inline content for one textblock, turning newlines
// into hard breaks.
type inlineRun struct {
	nodes []*doctree.Node
	buf   strings.Builder
}

func (r *inlineRun) text(s string) { r.buf.WriteString(s) }

func (r *inlineRun) hardBreak() {
	r.flush()
	r.nodes = append(r.nodes, doctree.New(doctree.TypeHardBreak, nil))
}

func (r *inlineRun) flush() {
	if r.buf.Len() > 0 {
		r.nodes = append(r.nodes, doctree.NewText(r.buf.String()))
		r.buf.Reset()
	}
}

// trimmed returns the collected nodes without leading or trailing breaks
// and whitespace.
func (r *inlineRun) trimmed() []*doctree.Node {
	r.flush()
	nodes := r.nodes
	for len(nodes) > 0 && nodes[0].Is(doctree.TypeHardBreak) {
		nodes = nodes[1:]
	}
	for len(nodes) > 0 && nodes[len(nodes)-1].Is(doctree.TypeHardBreak) {
		nodes = nodes[:len(nodes)-1]
	}
	out := make([]*doctree.Node, 0, len(nodes))
	for i, n := range nodes {
		if n.IsText() {
			s := n.Text()
			if i == 0 {
				s = strings.TrimLeft(s, " \t\n")
			}
			if i == len(nodes)-1 {
				s = strings.TrimRight(s, " \t\n")
			}
			n = doctree.NewText(s)
		}
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (r *inlineRun) empty() bool { return len(r.trimmed()) == 0 }

// textblock builds a paragraph or heading from text, splitting lines on
// hard breaks.
func textblock(typ string, attrs doctree.Attrs, text string) *doctree.Node {
	var run inlineRun
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			run.hardBreak()
		}
		run.text(line)
	}
	return doctree.New(typ, attrs, run.trimmed()...)
}

func paragraph(text string) *doctree.Node {
	return textblock(doctree.TypeParagraph, nil, text)
}

// tableFromRows builds a table whose cells each hold one paragraph.
func tableFromRows(rows [][]string) *doctree.Node {
	trs := make([]*doctree.Node, 0, len(rows))
	for _, row := range rows {
		cells := make([]*doctree.Node, 0, len(row))
		for _, cell := range row {
			cells = append(cells, doctree.New(doctree.TypeTableCell, nil, paragraph(cell)))
		}
		trs = append(trs, doctree.New(doctree.TypeTableRow, nil, cells...))
	}
	return doctree.New(doctree.TypeTable, nil, trs...)
}

// finish wraps blocks in a document root and normalizes it.
func finish(title string, blocks []*doctree.Node) *doctree.Document {
	if len(blocks) == 0 {
		blocks = []*doctree.Node{doctree.Paragraph("")}
	}
	return Normalize(title, doctree.Doc(blocks...))
}

// Normalize repairs any columns structure the source described badly.
// Nested containers are flattened, overflow columns fold into the last,
// width attributes are rebalanced and containers with empty or too few
// columns are cleaned up.
func Normalize(title string, root *doctree.Node) *doctree.Document {
	if len(root.FindAll(doctree.TypeColumns))+len(root.FindAll(doctree.TypeColumn)) > 0 {
		root = columns.Repair(root)
		if root.ChildCount() == 0 {
			root = root.WithContent([]*doctree.Node{doctree.Paragraph("")})
		}
		tr := doctree.NewTransaction(root)
		for _, pos := range tr.Doc().FindAll(doctree.TypeColumns) {
			columns.Rebalance(tr, pos)
		}
		columns.CleanupAll(tr)
		root = tr.Doc()
	}
	return &doctree.Document{Title: title, Root: root}
}
