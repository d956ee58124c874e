package drop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docstruct/internal/columns"
	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/dgallion1/docstruct/internal/hotzone"
	"github.com/dgallion1/docstruct/internal/logging"
)

// base lays out as:
//
//	0 P x 3 columns( 4 column( 5 P a 8 ) 9 column( 10 P b 13 ) 14 ) 15 P y 18
func base() *doctree.Node {
	return doctree.Doc(
		doctree.Paragraph("x"),
		doctree.Columns([]float64{50, 50},
			doctree.Column(50, doctree.Paragraph("a")),
			doctree.Column(50, doctree.Paragraph("b")),
		),
		doctree.Paragraph("y"),
	)
}

func synth() *Synthesizer { return NewSynthesizer(logging.NewNop()) }

func columnTexts(container *doctree.Node) []string {
	out := make([]string, container.ChildCount())
	for i, col := range container.Content() {
		out[i] = col.TextContent()
	}
	return out
}

func TestExecute_InsertColumnAfterIndex(t *testing.T) {
	tr := doctree.NewTransaction(base())
	g := hotzone.ColumnsEdge(400, hotzone.SideLeft, 0, 3)
	res := synth().Execute(tr, g, &Fragment{Content: []*doctree.Node{doctree.Paragraph("new")}}, false)

	require.True(t, res.Applied, "reason: %v", res.Reason)
	assert.Equal(t, CaseInsertColumn, res.Case)

	container := tr.Doc().NodeAt(3)
	attrs := doctree.ColumnsOf(container)
	assert.Equal(t, 3, attrs.Count)
	assert.Equal(t, []float64{33.33, 33.33, 33.34}, attrs.Widths)
	assert.Equal(t, []string{"a", "new", "b"}, columnTexts(container))
	assert.Equal(t, "y", tr.Doc().Child(2).TextContent(), "copy leaves the rest alone")
}

func TestExecute_MoveIntoContainer(t *testing.T) {
	doc := base()
	frag, ok := FragmentAt(doc, 15, 18)
	require.True(t, ok)

	tr := doctree.NewTransaction(doc)
	res := synth().Execute(tr, hotzone.ColumnsEdge(700, hotzone.SideRight, 1, 3), frag, true)
	require.True(t, res.Applied, "reason: %v", res.Reason)

	out := tr.Doc()
	require.Equal(t, 2, out.ChildCount())
	assert.Equal(t, []string{"a", "b", "y"}, columnTexts(out.NodeAt(3)))
	assert.Equal(t, "xaby", out.TextContent())
}

func TestExecute_MoveWithinContainerCleansUp(t *testing.T) {
	doc := base()
	frag, ok := FragmentAt(doc, 5, 8)
	require.True(t, ok)

	tr := doctree.NewTransaction(doc)
	res := synth().Execute(tr, hotzone.ColumnsEdge(700, hotzone.SideRight, 1, 3), frag, true)
	require.True(t, res.Applied, "reason: %v", res.Reason)

	require.Len(t, res.Cleanup, 1)
	assert.Equal(t, columns.CleanupAction{Kind: columns.CleanupRemoveEmpty, ContainerPos: 3, ColumnIndex: 0}, res.Cleanup[0])

	container := tr.Doc().NodeAt(3)
	assert.Equal(t, []string{"b", "a"}, columnTexts(container))
	assert.Equal(t, []float64{50, 50}, doctree.ColumnsOf(container).Widths)
}

func TestExecute_WrapOrdinaryBlock(t *testing.T) {
	tests := []struct {
		side hotzone.Side
		want []string
	}{
		{hotzone.SideLeft, []string{"new", "x"}},
		{hotzone.SideRight, []string{"x", "new"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.side), func(t *testing.T) {
			tr := doctree.NewTransaction(base())
			g := hotzone.EditorBorder(100, tt.side, 0, false)
			res := synth().Execute(tr, g, &Fragment{Content: []*doctree.Node{doctree.Paragraph("new")}}, false)
			require.True(t, res.Applied, "reason: %v", res.Reason)
			assert.Equal(t, CaseWrapColumns, res.Case)

			container := tr.Doc().NodeAt(0)
			require.True(t, container.Is(doctree.TypeColumns))
			assert.Equal(t, tt.want, columnTexts(container))
			assert.Equal(t, []float64{50, 50}, doctree.ColumnsOf(container).Widths)
			assert.Equal(t, 2, doctree.ColumnsOf(container).Count)
		})
	}
}

func TestExecute_WrapWithMoveRemapsSource(t *testing.T) {
	doc := base()
	frag, ok := FragmentAt(doc, 15, 18)
	require.True(t, ok)

	tr := doctree.NewTransaction(doc)
	res := synth().Execute(tr, hotzone.EditorBorder(100, hotzone.SideLeft, 0, false), frag, true)
	require.True(t, res.Applied, "reason: %v", res.Reason)

	out := tr.Doc()
	require.Equal(t, 2, out.ChildCount(), "source paragraph removed")
	assert.Equal(t, []string{"y", "x"}, columnTexts(out.Child(0)))
	assert.Equal(t, "yxab", out.TextContent())
}

func TestExecute_BorderBesideColumnsInsertsColumn(t *testing.T) {
	tr := doctree.NewTransaction(base())
	res := synth().Execute(tr, hotzone.EditorBorder(700, hotzone.SideRight, 3, true),
		&Fragment{Content: []*doctree.Node{doctree.Paragraph("new")}}, false)
	require.True(t, res.Applied, "reason: %v", res.Reason)
	assert.Equal(t, []string{"a", "b", "new"}, columnTexts(tr.Doc().NodeAt(3)))

	tr = doctree.NewTransaction(base())
	res = synth().Execute(tr, hotzone.EditorBorder(100, hotzone.SideLeft, 5, true),
		&Fragment{Content: []*doctree.Node{doctree.Paragraph("new")}}, false)
	require.True(t, res.Applied, "reason: %v", res.Reason)
	assert.Equal(t, []string{"new", "a", "b"}, columnTexts(tr.Doc().NodeAt(3)))
}

func TestExecute_WrapNeedsBlockParent(t *testing.T) {
	list := doctree.Doc(doctree.New(doctree.TypeBulletList, nil,
		doctree.New(doctree.TypeListItem, nil, doctree.Paragraph("item")),
	))
	table := doctree.Doc(doctree.New(doctree.TypeTable, nil,
		doctree.New(doctree.TypeTableRow, nil,
			doctree.New(doctree.TypeTableCell, nil, doctree.Paragraph("cell")),
		),
	))
	para := &Fragment{Content: []*doctree.Node{doctree.Paragraph("new")}}

	tests := []struct {
		name string
		doc  *doctree.Node
		pos  int
	}{
		{"list item in list", list, 1},
		{"cell in row", table, 2},
		{"row in table", table, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := doctree.NewTransaction(tt.doc)
			res := synth().Execute(tr, hotzone.EditorBorder(100, hotzone.SideLeft, tt.pos, false), para, false)
			assert.False(t, res.Applied)
			assert.ErrorIs(t, res.Reason, ErrStaleTarget)
			assert.False(t, tr.DocChanged())
		})
	}

	t.Run("paragraph in list item wraps", func(t *testing.T) {
		tr := doctree.NewTransaction(list)
		res := synth().Execute(tr, hotzone.EditorBorder(100, hotzone.SideRight, 2, false), para, false)
		require.True(t, res.Applied, "reason: %v", res.Reason)
		item := tr.Doc().NodeAt(1)
		require.True(t, item.Is(doctree.TypeListItem))
		assert.True(t, item.Child(0).Is(doctree.TypeColumns))
	})
}

func TestExecute_OrphanColumnRejected(t *testing.T) {
	doc := doctree.Doc(doctree.Column(50, doctree.Paragraph("orphan")))
	tr := doctree.NewTransaction(doc)
	res := synth().Execute(tr, hotzone.EditorBorder(100, hotzone.SideLeft, 1, false),
		&Fragment{Content: []*doctree.Node{doctree.Paragraph("new")}}, false)

	assert.False(t, res.Applied)
	assert.ErrorIs(t, res.Reason, ErrOrphanColumn)
	assert.Empty(t, doc.FindAll(doctree.TypeColumns))
	assert.False(t, tr.DocChanged())
}

func TestExecute_MaxColumnsRejected(t *testing.T) {
	widths := columns.EqualWidths(columns.MaxColumns)
	cols := make([]*doctree.Node, columns.MaxColumns)
	for i := range cols {
		cols[i] = doctree.Column(widths[i], doctree.Paragraph("c"))
	}
	doc := doctree.Doc(doctree.Columns(widths, cols...))
	tr := doctree.NewTransaction(doc)

	res := synth().Execute(tr, hotzone.ColumnsEdge(400, hotzone.SideRight, 2, 0),
		&Fragment{Content: []*doctree.Node{doctree.Paragraph("new")}}, false)
	assert.False(t, res.Applied)
	assert.ErrorIs(t, res.Reason, ErrMaxColumns)
	assert.False(t, tr.DocChanged())
}

func TestExecute_Declines(t *testing.T) {
	para := &Fragment{Content: []*doctree.Node{doctree.Paragraph("new")}}
	edge := hotzone.ColumnsEdge(400, hotzone.SideRight, 0, 3)

	tests := []struct {
		name string
		g    hotzone.Guideline
		frag *Fragment
		move bool
		want error
	}{
		{"idle", hotzone.Idle(), para, false, ErrInactiveGuideline},
		{"no fragment", edge, nil, false, ErrNoFragment},
		{"empty fragment", edge, &Fragment{}, false, ErrNoFragment},
		{"nested container", edge, &Fragment{Content: []*doctree.Node{base().Child(1)}}, false, ErrNestedContainer},
		{"column in fragment", edge, &Fragment{Content: []*doctree.Node{doctree.Column(50)}}, false, ErrNestedContainer},
		{"stale container", hotzone.ColumnsEdge(400, hotzone.SideRight, 0, 0), para, false, ErrStaleTarget},
		{"stale border target", hotzone.EditorBorder(100, hotzone.SideLeft, 99, false), para, false, ErrStaleTarget},
		{"self drop", hotzone.EditorBorder(100, hotzone.SideLeft, 0, false),
			&Fragment{Content: []*doctree.Node{doctree.Paragraph("x")}, From: 0, To: 3}, true, ErrSelfDrop},
		{"stale source", edge,
			&Fragment{Content: []*doctree.Node{doctree.Paragraph("q")}, From: 1, To: 3}, true, ErrStaleSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := base()
			tr := doctree.NewTransaction(doc)
			res := synth().Execute(tr, tt.g, tt.frag, tt.move)
			assert.False(t, res.Applied)
			assert.ErrorIs(t, res.Reason, tt.want)
			assert.False(t, tr.DocChanged())
			assert.Same(t, doc, tr.Doc())
		})
	}
}

func TestExecute_InlineFragmentWrapped(t *testing.T) {
	tr := doctree.NewTransaction(base())
	frag := &Fragment{Content: []*doctree.Node{doctree.NewText("hi")}}
	res := synth().Execute(tr, hotzone.ColumnsEdge(400, hotzone.SideRight, 0, 3), frag, false)
	require.True(t, res.Applied, "reason: %v", res.Reason)

	col := tr.Doc().NodeAt(3).Child(1)
	require.Equal(t, 1, col.ChildCount())
	assert.True(t, col.Child(0).Is(doctree.TypeParagraph))
	assert.Equal(t, "hi", col.TextContent())
}

func TestExecute_CopyRefreshesHeadingIDs(t *testing.T) {
	h := doctree.New(doctree.TypeHeading, doctree.HeadingAttrs{Level: 2, ID: "h-1"}.Attrs(), doctree.NewText("T"))
	doc := doctree.Doc(h, doctree.Paragraph("p"))
	frag, ok := FragmentAt(doc, 0, 3)
	require.True(t, ok)

	tr := doctree.NewTransaction(doc)
	res := synth().Execute(tr, hotzone.EditorBorder(100, hotzone.SideRight, 3, false), frag, false)
	require.True(t, res.Applied, "reason: %v", res.Reason)

	copied := tr.Doc().NodeAt(3).Child(1).Child(0)
	require.True(t, copied.Is(doctree.TypeHeading))
	assert.NotEmpty(t, doctree.HeadingOf(copied).ID)
	assert.NotEqual(t, "h-1", doctree.HeadingOf(copied).ID)
	assert.Equal(t, "h-1", doctree.HeadingOf(tr.Doc().NodeAt(0)).ID, "source keeps its id")

	tr = doctree.NewTransaction(doc)
	res = synth().Execute(tr, hotzone.EditorBorder(100, hotzone.SideRight, 3, false), frag, true)
	require.True(t, res.Applied, "reason: %v", res.Reason)
	moved := tr.Doc().NodeAt(0).Child(1).Child(0)
	assert.Equal(t, "h-1", doctree.HeadingOf(moved).ID, "move keeps the id")
}

func TestFragmentAt(t *testing.T) {
	doc := base()

	frag, ok := FragmentAt(doc, 5, 8)
	require.True(t, ok)
	require.Len(t, frag.Content, 1)
	assert.Equal(t, "a", frag.Content[0].TextContent())

	frag, ok = FragmentAt(doc, 0, 18)
	require.True(t, ok)
	assert.Len(t, frag.Content, 3)

	_, ok = FragmentAt(doc, 1, 2)
	assert.False(t, ok, "inside text")
	_, ok = FragmentAt(doc, 3, 3)
	assert.False(t, ok, "empty range")
	_, ok = FragmentAt(doc, 5, 10)
	assert.False(t, ok, "crosses columns")
}
