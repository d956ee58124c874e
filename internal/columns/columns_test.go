package columns

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// withContainer lays out as 0 P x 3 container ... P y, so the container
// always starts at 3.
func withContainer(container *doctree.Node) *doctree.Node {
	return doctree.Doc(doctree.Paragraph("x"), container, doctree.Paragraph("y"))
}

func twoColumns() *doctree.Node {
	return withContainer(doctree.Columns([]float64{50, 50},
		doctree.Column(50, doctree.Paragraph("a")),
		doctree.Column(50, doctree.Paragraph("b")),
	))
}

func widthsOf(t *testing.T, doc *doctree.Node, pos int) []float64 {
	t.Helper()
	container := doc.NodeAt(pos)
	require.True(t, container.Is(doctree.TypeColumns))
	attrs := doctree.ColumnsOf(container)
	require.Equal(t, container.ChildCount(), attrs.Count, "count attr tracks children")
	for i, col := range container.Content() {
		assert.InDelta(t, attrs.Widths[i], doctree.ColumnWidth(col), 1e-9, "column %d width attr", i)
	}
	return attrs.Widths
}

func TestEqualWidths(t *testing.T) {
	assert.Equal(t, []float64{50, 50}, EqualWidths(2))
	assert.Equal(t, []float64{33.33, 33.33, 33.34}, EqualWidths(3))
	assert.Nil(t, EqualWidths(0))

	for n := MinColumns; n <= MaxColumns; n++ {
		sum := 0.0
		for _, w := range EqualWidths(n) {
			assert.GreaterOrEqual(t, w, MinColumnWidth)
			sum += w
		}
		assert.InDelta(t, 100, sum, 1e-9, "n=%d", n)
	}
	assert.Equal(t, 14.32, EqualWidths(7)[6])
}

func TestIsEmptyColumn(t *testing.T) {
	assert.True(t, IsEmptyColumn(doctree.Column(50)))
	assert.True(t, IsEmptyColumn(doctree.Column(50, doctree.Paragraph(""))))
	assert.False(t, IsEmptyColumn(doctree.Column(50, doctree.Paragraph("a"))))
	assert.False(t, IsEmptyColumn(doctree.Column(50, doctree.Paragraph(""), doctree.Paragraph(""))))
	assert.False(t, IsEmptyColumn(doctree.Column(50, doctree.Heading(1, ""))))
	assert.False(t, IsEmptyColumn(doctree.Paragraph("")))
	assert.False(t, IsEmptyColumn(nil))
}

func TestDetectCleanupAction(t *testing.T) {
	tests := []struct {
		name      string
		container *doctree.Node
		want      CleanupAction
	}{
		{
			name: "healthy",
			container: doctree.Columns([]float64{50, 50},
				doctree.Column(50, doctree.Paragraph("a")),
				doctree.Column(50, doctree.Paragraph("b"))),
			want: CleanupAction{},
		},
		{
			name: "first empty column wins",
			container: doctree.Columns(EqualWidths(3),
				doctree.Column(33.33, doctree.Paragraph("a")),
				doctree.Column(33.33),
				doctree.Column(33.34, doctree.Paragraph(""))),
			want: CleanupAction{Kind: CleanupRemoveEmpty, ContainerPos: 3, ColumnIndex: 1},
		},
		{
			name:      "too few columns beats empty",
			container: doctree.Columns([]float64{100}, doctree.Column(100)),
			want:      CleanupAction{Kind: CleanupUnwrap, ContainerPos: 3},
		},
		{
			name:      "not a container",
			container: doctree.Paragraph("p"),
			want:      CleanupAction{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCleanupAction(tt.container, 3))
		})
	}
}

func TestCleanupKindNames(t *testing.T) {
	assert.Equal(t, "none", CleanupNone.String())
	assert.Equal(t, "unwrap-single-column", CleanupUnwrap.String())
	text, err := CleanupRemoveEmpty.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "remove-empty-column", string(text))
}

func TestExecuteCleanup_RemoveEmptyCascadesToUnwrap(t *testing.T) {
	doc := withContainer(doctree.Columns([]float64{50, 50},
		doctree.Column(50, doctree.Paragraph("")),
		doctree.Column(50, doctree.Paragraph("b")),
	))
	action := DetectCleanupAction(doc.NodeAt(3), 3)
	require.Equal(t, CleanupAction{Kind: CleanupRemoveEmpty, ContainerPos: 3, ColumnIndex: 0}, action)

	tr := doctree.NewTransaction(doc)
	require.True(t, ExecuteCleanup(tr, action))

	out := tr.Doc()
	require.Equal(t, 3, out.ChildCount())
	assert.Equal(t, "x", out.Child(0).TextContent())
	assert.True(t, out.Child(1).Is(doctree.TypeParagraph))
	assert.Equal(t, "b", out.Child(1).TextContent())
	assert.Equal(t, "y", out.Child(2).TextContent())
	assert.Empty(t, out.FindAll(doctree.TypeColumns))
}

func TestExecuteCleanup_RemoveEmptyRebalances(t *testing.T) {
	doc := withContainer(doctree.Columns(EqualWidths(3),
		doctree.Column(33.33, doctree.Paragraph("a")),
		doctree.Column(33.33),
		doctree.Column(33.34, doctree.Paragraph("c")),
	))
	tr := doctree.NewTransaction(doc)
	require.True(t, ExecuteCleanup(tr, DetectCleanupAction(doc.NodeAt(3), 3)))

	assert.Equal(t, []float64{50, 50}, widthsOf(t, tr.Doc(), 3))
	assert.Equal(t, "ac", tr.Doc().NodeAt(3).TextContent())
}

func TestExecuteCleanup_StaleActionIsNoop(t *testing.T) {
	doc := twoColumns()
	tr := doctree.NewTransaction(doc)

	assert.False(t, ExecuteCleanup(tr, CleanupAction{Kind: CleanupRemoveEmpty, ContainerPos: 3, ColumnIndex: 0}), "column is not empty")
	assert.False(t, ExecuteCleanup(tr, CleanupAction{Kind: CleanupUnwrap, ContainerPos: 0}), "not a container")
	assert.False(t, ExecuteCleanup(tr, CleanupAction{}))
	assert.False(t, tr.DocChanged())
}

func TestUnwrapEmptyContainerLeavesParagraph(t *testing.T) {
	doc := withContainer(doctree.Columns([]float64{100}, doctree.Column(100)))
	tr := doctree.NewTransaction(doc)
	require.True(t, ExecuteCleanup(tr, CleanupAction{Kind: CleanupUnwrap, ContainerPos: 3}))

	out := tr.Doc()
	require.Equal(t, 3, out.ChildCount())
	assert.True(t, out.Child(1).Is(doctree.TypeParagraph))
	assert.Equal(t, 0, out.Child(1).ChildCount())
}

func TestCleanup_RunsUntilNone(t *testing.T) {
	doc := withContainer(doctree.Columns(EqualWidths(3),
		doctree.Column(33.33, doctree.Paragraph("")),
		doctree.Column(33.33, doctree.Paragraph("b")),
		doctree.Column(33.34),
	))
	tr := doctree.NewTransaction(doc)
	applied := Cleanup(tr, 3)

	assert.Equal(t, []CleanupAction{
		{Kind: CleanupRemoveEmpty, ContainerPos: 3, ColumnIndex: 0},
		{Kind: CleanupRemoveEmpty, ContainerPos: 3, ColumnIndex: 1},
	}, applied)
	out := tr.Doc()
	require.Equal(t, 3, out.ChildCount())
	assert.Equal(t, "b", out.Child(1).TextContent())
	assert.Empty(t, Cleanup(tr, 3), "nothing left to clean")
}

func TestCleanupAll(t *testing.T) {
	doc := doctree.Doc(
		doctree.Columns([]float64{50, 50},
			doctree.Column(50, doctree.Paragraph("a")),
			doctree.Column(50),
		),
		doctree.Paragraph("mid"),
		doctree.Columns([]float64{100}, doctree.Column(100, doctree.Paragraph("z"))),
		twoColumns().Child(1),
	)
	tr := doctree.NewTransaction(doc)
	applied := CleanupAll(tr)
	require.Len(t, applied, 2)
	assert.Equal(t, CleanupUnwrap, applied[0].Kind, "later containers first")
	assert.Equal(t, CleanupRemoveEmpty, applied[1].Kind)

	out := tr.Doc()
	assert.Len(t, out.FindAll(doctree.TypeColumns), 1)
	assert.Equal(t, "amidzab", out.TextContent())
	assert.Empty(t, CleanupAll(tr))
}

func TestAddColumn_EqualSplit(t *testing.T) {
	tr := doctree.NewTransaction(twoColumns())
	require.True(t, AddColumn(tr, 3, 0))

	container := tr.Doc().NodeAt(3)
	require.Equal(t, 3, container.ChildCount())
	assert.Equal(t, []float64{33.33, 33.33, 33.34}, widthsOf(t, tr.Doc(), 3))
	assert.True(t, IsEmptyColumn(container.Child(1)), "new column at index 1")
	assert.Equal(t, "a", container.Child(0).TextContent())
	assert.Equal(t, "b", container.Child(2).TextContent())
}

func TestAddColumn_Prepend(t *testing.T) {
	tr := doctree.NewTransaction(twoColumns())
	require.True(t, AddColumn(tr, 3, -1))
	assert.True(t, IsEmptyColumn(tr.Doc().NodeAt(3).Child(0)))
}

func TestAddColumn_RejectsAboveMax(t *testing.T) {
	cols := make([]*doctree.Node, MaxColumns)
	widths := EqualWidths(MaxColumns)
	for i := range cols {
		cols[i] = doctree.Column(widths[i], doctree.Paragraph("c"))
	}
	doc := withContainer(doctree.Columns(widths, cols...))
	tr := doctree.NewTransaction(doc)

	assert.False(t, AddColumn(tr, 3, 0))
	assert.False(t, InsertColumn(tr, 3, MaxColumns, doctree.Paragraph("x")))
	assert.False(t, tr.DocChanged())
}

func TestInsertColumn_BadTarget(t *testing.T) {
	tr := doctree.NewTransaction(twoColumns())
	assert.False(t, InsertColumn(tr, 0, 0), "paragraph is not a container")
	assert.False(t, InsertColumn(tr, 3, 5))
	assert.False(t, tr.DocChanged())
}

func TestRemoveColumn(t *testing.T) {
	doc := withContainer(doctree.Columns(EqualWidths(3),
		doctree.Column(33.33, doctree.Paragraph("a")),
		doctree.Column(33.33, doctree.Paragraph("b")),
		doctree.Column(33.34, doctree.Paragraph("c")),
	))
	tr := doctree.NewTransaction(doc)
	require.True(t, RemoveColumn(tr, 3, 1))
	assert.Equal(t, []float64{50, 50}, widthsOf(t, tr.Doc(), 3))
	assert.Equal(t, "ac", tr.Doc().NodeAt(3).TextContent())

	before := tr.Doc()
	assert.False(t, RemoveColumn(tr, 3, 0), "would drop below minimum")
	assert.Same(t, before, tr.Doc())
}

func TestColumnCountInvariant(t *testing.T) {
	tr := doctree.NewTransaction(twoColumns())
	ops := []bool{true, true, false, true, true, true, true, true, false, false, false, false, false, false, false}
	for i, add := range ops {
		if add {
			AddColumn(tr, 3, 0)
		} else {
			RemoveColumn(tr, 3, 0)
		}
		count := tr.Doc().NodeAt(3).ChildCount()
		assert.GreaterOrEqual(t, count, MinColumns, "op %d", i)
		assert.LessOrEqual(t, count, MaxColumns, "op %d", i)
		widthsOf(t, tr.Doc(), 3)
	}
}

func TestResizeAdjacentColumns(t *testing.T) {
	tests := []struct {
		name        string
		left, right int
		deltaPx     float64
		widthPx     float64
		widths      []float64
		want        []float64
		wantChanged bool
	}{
		{"grow left", 0, 1, 100, 1000, []float64{50, 50}, []float64{60, 40}, true},
		{"clamp left", 0, 1, -480, 1000, []float64{50, 50}, []float64{5, 95}, true},
		{"clamp right", 0, 1, 600, 1000, []float64{50, 50}, []float64{95, 5}, true},
		{"others untouched", 1, 2, 50, 1000, []float64{30, 30, 40}, []float64{30, 35, 35}, true},
		{"below epsilon", 0, 1, 0.5, 1000, []float64{50, 50}, []float64{50, 50}, false},
		{"zero container width", 0, 1, 100, 0, []float64{50, 50}, []float64{50, 50}, false},
		{"not adjacent", 0, 2, 100, 1000, []float64{30, 30, 40}, []float64{30, 30, 40}, false},
		{"out of range", 1, 2, 100, 1000, []float64{50, 50}, []float64{50, 50}, false},
		{"already at minimum", 0, 1, -100, 1000, []float64{5, 95}, []float64{5, 95}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := ResizeAdjacentColumns(tt.left, tt.right, tt.deltaPx, tt.widthPx, tt.widths)
			assert.Equal(t, tt.wantChanged, changed)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-9)
			}
		})
	}
}

func TestResizeConservesWidth(t *testing.T) {
	widths := []float64{33.33, 33.33, 33.34}
	for _, delta := range []float64{-900, -123.4, -7, 0.3, 19.9, 250, 1000} {
		got, _ := ResizeAdjacentColumns(0, 1, delta, 800, widths)
		before, after := 0.0, 0.0
		for i := range widths {
			before += widths[i]
			after += got[i]
			assert.GreaterOrEqual(t, got[i], MinColumnWidth)
		}
		assert.Less(t, math.Abs(before-after), 1e-6, "delta %v", delta)
	}
}

func TestResizeColumns(t *testing.T) {
	tr := doctree.NewTransaction(twoColumns())
	require.True(t, ResizeColumns(tr, 3, 0, 200, 1000))
	widths := widthsOf(t, tr.Doc(), 3)
	assert.InDelta(t, 70, widths[0], 1e-9)
	assert.InDelta(t, 30, widths[1], 1e-9)

	assert.False(t, ResizeColumns(tr, 3, 1, 200, 1000), "no column right of the last")
}

func TestSetWidths(t *testing.T) {
	tr := doctree.NewTransaction(twoColumns())
	require.NoError(t, SetWidths(tr, 3, []float64{25, 75}))
	assert.Equal(t, []float64{25, 75}, widthsOf(t, tr.Doc(), 3))

	assert.Error(t, SetWidths(tr, 3, []float64{100}))
	assert.Error(t, SetWidths(tr, 3, []float64{2, 98}))
	assert.Error(t, SetWidths(tr, 3, []float64{50, 40}))
	assert.ErrorIs(t, SetWidths(tr, 0, []float64{50, 50}), doctree.ErrNoNodeAt)
}

func TestRebalance(t *testing.T) {
	doc := withContainer(doctree.Columns([]float64{80, 10},
		doctree.Column(80, doctree.Paragraph("a")),
		doctree.Column(10, doctree.Paragraph("b")),
	))
	tr := doctree.NewTransaction(doc)
	require.True(t, Rebalance(tr, 3))
	assert.Equal(t, []float64{50, 50}, widthsOf(t, tr.Doc(), 3))
	assert.False(t, Rebalance(tr, 3), "already consistent")

	mismatched := withContainer(doctree.New(doctree.TypeColumns, doctree.Attrs{"count": 3},
		doctree.Column(50, doctree.Paragraph("a")),
		doctree.Column(50, doctree.Paragraph("b")),
	))
	tr = doctree.NewTransaction(mismatched)
	require.True(t, Rebalance(tr, 3))
	assert.Equal(t, []float64{50, 50}, widthsOf(t, tr.Doc(), 3))
}

func TestSetLayout(t *testing.T) {
	tr := doctree.NewTransaction(twoColumns())
	require.True(t, SetLayout(tr, 3, doctree.LayoutStacked))
	assert.Equal(t, doctree.LayoutStacked, doctree.ColumnsOf(tr.Doc().NodeAt(3)).Layout)
	assert.False(t, SetLayout(tr, 3, doctree.LayoutStacked))
	assert.False(t, SetLayout(tr, 3, "masonry"))
}

func TestCleanup_StopsOnceContainerIsUnwrapped(t *testing.T) {
	inner := doctree.Columns(EqualWidths(3),
		doctree.Column(33.33, doctree.Paragraph("a")),
		doctree.Column(33.33),
		doctree.Column(33.34, doctree.Paragraph("c")),
	)
	doc := withContainer(doctree.Columns([]float64{50, 50},
		doctree.Column(50),
		doctree.Column(50, inner),
	))
	tr := doctree.NewTransaction(doc)

	applied := Cleanup(tr, 3)
	assert.Equal(t, []CleanupAction{{Kind: CleanupRemoveEmpty, ContainerPos: 3, ColumnIndex: 0}}, applied)

	out := tr.Doc()
	require.True(t, out.NodeAt(3).Is(doctree.TypeColumns), "inner container moved up to 3")
	assert.Equal(t, 3, out.NodeAt(3).ChildCount(), "inner container left alone")
}

func TestRepair(t *testing.T) {
	t.Run("overflow folds into last column", func(t *testing.T) {
		var cols []*doctree.Node
		for _, s := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"} {
			cols = append(cols, doctree.Column(0, doctree.Paragraph(s)))
		}
		out := Repair(doctree.Doc(doctree.Columns(nil, cols...)))

		container := out.Child(0)
		require.Equal(t, MaxColumns, container.ChildCount())
		assert.Equal(t, MaxColumns, doctree.ColumnsOf(container).Count)
		assert.Equal(t, "789", container.Child(MaxColumns-1).TextContent())
	})

	t.Run("nested containers flatten", func(t *testing.T) {
		inner := doctree.Columns([]float64{50, 50},
			doctree.Column(50, doctree.Paragraph("x")),
			doctree.Column(50, doctree.Paragraph("y")),
		)
		quoted := doctree.New(doctree.TypeBlockquote, nil, doctree.Columns([]float64{50, 50},
			doctree.Column(50, doctree.Paragraph("q")),
			doctree.Column(50, doctree.Paragraph("r")),
		))
		out := Repair(doctree.Doc(doctree.Columns([]float64{50, 50},
			doctree.Column(50, inner),
			doctree.Column(50, quoted),
		)))

		require.Len(t, out.FindAll(doctree.TypeColumns), 1)
		container := out.Child(0)
		assert.Equal(t, []float64{50, 50}, doctree.ColumnsOf(container).Widths, "untouched shape keeps widths")
		assert.Equal(t, "xy", container.Child(0).TextContent())
		assert.Equal(t, "qr", container.Child(1).TextContent())
	})

	t.Run("stray column and lone column unwrap", func(t *testing.T) {
		out := Repair(doctree.Doc(
			doctree.Column(50, doctree.Paragraph("s")),
			doctree.Columns([]float64{100}, doctree.Column(100, doctree.Paragraph("t"))),
		))
		assert.Empty(t, out.FindAll(doctree.TypeColumn))
		assert.Equal(t, "st", out.TextContent())
	})

	t.Run("block child becomes a column", func(t *testing.T) {
		out := Repair(doctree.Doc(doctree.New(doctree.TypeColumns, nil,
			doctree.Column(50, doctree.Paragraph("a")),
			doctree.Paragraph("b"),
		)))
		container := out.Child(0)
		require.Equal(t, 2, container.ChildCount())
		assert.True(t, container.Child(1).Is(doctree.TypeColumn))
		assert.Equal(t, 2, doctree.ColumnsOf(container).Count)
	})
}
