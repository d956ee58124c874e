// Package drop turns a classified drop intent and a dragged fragment into a
// single transaction on the document.
package drop

import (
	"errors"
	"log/slog"

	"github.com/dgallion1/docstruct/internal/columns"
	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/dgallion1/docstruct/internal/hotzone"
)

// Reasons a drop is declined. None of them are failures the caller needs to
// surface; the drop simply does nothing.
var (
	ErrInactiveGuideline = errors.New("no active guideline")
	ErrNoFragment        = errors.New("no dragged content")
	ErrNestedContainer   = errors.New("fragment contains a columns container")
	ErrStaleTarget       = errors.New("drop target no longer resolves")
	ErrOrphanColumn      = errors.New("target column has no columns container")
	ErrMaxColumns        = errors.New("container already has the maximum number of columns")
	ErrSelfDrop          = errors.New("drag source overlaps the drop target")
	ErrStaleSource       = errors.New("drag source no longer resolves")
)

// Case identifies which synthesis path applied a drop.
type Case string

const (
	CaseNone         Case = ""
	CaseInsertColumn Case = "insert-column"
	CaseWrapColumns  Case = "wrap-columns"
)

// Result reports the outcome of Execute. Reason is set when Applied is
// false.
type Result struct {
	Applied bool                    `json:"applied"`
	Case    Case                    `json:"case,omitempty"`
	Reason  error                   `json:"-"`
	Cleanup []columns.CleanupAction `json:"cleanup,omitempty"`
}

func declined(err error) Result { return Result{Reason: err} }

// Synthesizer applies drops.
type Synthesizer struct {
	log *slog.Logger
}

func NewSynthesizer(log *slog.Logger) *Synthesizer {
	return &Synthesizer{log: log}
}

// Execute applies a drop of frag at guideline g to tr. Dropping on a
// columns container, or beside a block inside one, inserts a new column
// holding the fragment. Dropping beside an ordinary top-level block wraps
// that block and the fragment in a new two-column container. With move
// set, the source range is remapped through the insertion and deleted.
//
// On any rejection tr is left exactly as it was.
func (s *Synthesizer) Execute(tr *doctree.Transaction, g hotzone.Guideline, frag *Fragment, move bool) Result {
	if !g.Active() {
		return declined(ErrInactiveGuideline)
	}
	if frag == nil {
		return declined(ErrNoFragment)
	}
	content, ok := normalize(frag.Content)
	if !ok {
		if len(frag.Content) == 0 {
			return declined(ErrNoFragment)
		}
		return s.reject(g, ErrNestedContainer)
	}
	if !move {
		content = freshHeadingIDs(content)
	}

	mark := tr.Mark()
	res := s.insert(tr, g, frag, content, move)
	if !res.Applied {
		tr.Rollback(mark)
		return s.reject(g, res.Reason)
	}

	if move {
		if err := deleteSource(tr, mark, frag); err != nil {
			tr.Rollback(mark)
			return s.reject(g, err)
		}
	}

	res.Cleanup = columns.CleanupAll(tr)
	s.log.Debug("drop applied",
		"case", res.Case,
		"kind", g.Kind,
		"move", move,
		"cleanup_actions", len(res.Cleanup),
	)
	return res
}

func (s *Synthesizer) reject(g hotzone.Guideline, err error) Result {
	s.log.Debug("drop declined", "kind", g.Kind, "reason", err)
	return declined(err)
}

func (s *Synthesizer) insert(tr *doctree.Transaction, g hotzone.Guideline, frag *Fragment, content []*doctree.Node, move bool) Result {
	doc := tr.Doc()
	switch g.Kind {
	case hotzone.KindColumnsEdge:
		if !doc.NodeAt(g.ContainerPos).Is(doctree.TypeColumns) {
			return declined(ErrStaleTarget)
		}
		return insertColumn(tr, g.ContainerPos, g.ColumnIndex, g.Side, content)

	case hotzone.KindEditorBorder:
		target := doc.NodeAt(g.TargetPos)
		if target == nil || target.IsInline() {
			return declined(ErrStaleTarget)
		}
		if target.Is(doctree.TypeColumns) {
			return insertColumn(tr, g.TargetPos, -1, g.Side, content)
		}
		rp, err := doc.Resolve(g.TargetPos)
		if err != nil {
			return declined(ErrStaleTarget)
		}
		if d, ok := rp.FindAncestor(isType(doctree.TypeColumns)); ok {
			return insertColumn(tr, rp.Before(d), -1, g.Side, content)
		}
		if _, ok := rp.FindAncestor(isType(doctree.TypeColumn)); ok || target.Is(doctree.TypeColumn) {
			return declined(ErrOrphanColumn)
		}
		if !flowParents[rp.Parent().Type()] {
			return declined(ErrStaleTarget)
		}
		return wrapColumns(tr, g.TargetPos, target, g.Side, frag, content, move)
	}
	return declined(ErrInactiveGuideline)
}

// insertColumn adds a column holding content to the container at pos.
// afterIndex -1 places it at the edge named by side.
func insertColumn(tr *doctree.Transaction, pos, afterIndex int, side hotzone.Side, content []*doctree.Node) Result {
	count := tr.Doc().NodeAt(pos).ChildCount()
	if count+1 > columns.MaxColumns {
		return declined(ErrMaxColumns)
	}

	index := afterIndex + 1
	if afterIndex < 0 {
		index = 0
		if side == hotzone.SideRight {
			index = count
		}
	}
	if !columns.InsertColumn(tr, pos, index, content...) {
		return declined(ErrStaleTarget)
	}
	return Result{Applied: true, Case: CaseInsertColumn}
}

// wrapColumns replaces the block at pos with a two-column container
// holding the block and the fragment, the fragment on side.
func wrapColumns(tr *doctree.Transaction, pos int, target *doctree.Node, side hotzone.Side, frag *Fragment, content []*doctree.Node, move bool) Result {
	end := pos + target.Size()
	if move && frag.From < end && frag.To > pos {
		return declined(ErrSelfDrop)
	}

	widths := columns.EqualWidths(columns.MinColumns)
	left, right := []*doctree.Node{target}, content
	if side == hotzone.SideLeft {
		left, right = content, left
	}
	container := doctree.Columns(widths,
		doctree.Column(widths[0], left...),
		doctree.Column(widths[1], right...),
	)
	if err := tr.Replace(pos, end, container); err != nil {
		return declined(ErrStaleTarget)
	}
	return Result{Applied: true, Case: CaseWrapColumns}
}

// deleteSource maps the drag source through every step applied since mark
// and deletes it. The source start sticks right and its end sticks left so
// content inserted at either boundary survives.
func deleteSource(tr *doctree.Transaction, mark int, frag *Fragment) error {
	m := tr.Mapping().Slice(mark)
	from := m.MapResult(frag.From, 1)
	to := m.MapResult(frag.To, -1)
	if from.Deleted || to.Deleted || from.Pos >= to.Pos {
		return ErrStaleSource
	}
	if err := tr.Delete(from.Pos, to.Pos); err != nil {
		return ErrStaleSource
	}
	return nil
}

// flowParents are the node types whose children are free-standing blocks,
// so a child may be swapped for a columns container.
var flowParents = map[string]bool{
	doctree.TypeDoc:        true,
	doctree.TypeBlockquote: true,
	doctree.TypeListItem:   true,
	doctree.TypeTableCell:  true,
	doctree.TypeColumn:     true,
}

func isType(typ string) func(*doctree.Node) bool {
	return func(n *doctree.Node) bool { return n.Is(typ) }
}
