package hotzone

// GuidelineKind tags the variant held by a Guideline.
type GuidelineKind string

const (
	KindIdle         GuidelineKind = "idle"
	KindColumnsEdge  GuidelineKind = "columns-edge"
	KindEditorBorder GuidelineKind = "editor-border"
)

// Guideline is the vertical drop indicator. Which fields are meaningful
// depends on Kind:
//
//	columns-edge:  EdgeX, Side, ColumnIndex, ContainerPos
//	editor-border: EdgeX, Side, TargetPos, InsideColumns
//
// ColumnIndex is the column the new one goes after; -1 means place it by
// Side. Version is the document version the guideline was classified
// against.
type Guideline struct {
	Kind          GuidelineKind `json:"kind"`
	EdgeX         float64       `json:"edge_x,omitempty"`
	Side          Side          `json:"side,omitempty"`
	ColumnIndex   int           `json:"column_index"`
	ContainerPos  int           `json:"container_pos"`
	TargetPos     int           `json:"target_pos"`
	InsideColumns bool          `json:"inside_columns,omitempty"`
	Version       uint64        `json:"version"`
}

func Idle() Guideline {
	return Guideline{Kind: KindIdle, ColumnIndex: -1, ContainerPos: -1, TargetPos: -1}
}

func ColumnsEdge(edgeX float64, side Side, columnIndex, containerPos int) Guideline {
	return Guideline{
		Kind:         KindColumnsEdge,
		EdgeX:        edgeX,
		Side:         side,
		ColumnIndex:  columnIndex,
		ContainerPos: containerPos,
		TargetPos:    -1,
	}
}

func EditorBorder(edgeX float64, side Side, targetPos int, insideColumns bool) Guideline {
	return Guideline{
		Kind:          KindEditorBorder,
		EdgeX:         edgeX,
		Side:          side,
		ColumnIndex:   -1,
		ContainerPos:  -1,
		TargetPos:     targetPos,
		InsideColumns: insideColumns,
	}
}

// Active reports whether g is anything but idle.
func (g Guideline) Active() bool {
	return g.Kind == KindColumnsEdge || g.Kind == KindEditorBorder
}

// Horizontal is the insert-between-blocks indicator. Pos is where a block
// dropped on it would be inserted.
type Horizontal struct {
	Active bool    `json:"active"`
	Pos    int     `json:"pos"`
	Y      float64 `json:"y"`
}

// Guides holds one slot per guideline family. A vertical guideline
// preempts the horizontal one: setting an active vertical guideline forces
// the horizontal slot idle, and the horizontal slot refuses updates while
// a vertical guideline is showing. Guides is not safe for concurrent use.
type Guides struct {
	vertical   Guideline
	horizontal Horizontal
}

func NewGuides() *Guides {
	return &Guides{vertical: Idle()}
}

func (g *Guides) Vertical() Guideline     { return g.vertical }
func (g *Guides) Horizontal() Horizontal { return g.horizontal }

// SetVertical replaces the vertical guideline.
func (g *Guides) SetVertical(v Guideline) {
	if v.Kind == "" {
		v = Idle()
	}
	g.vertical = v
	if v.Active() {
		g.horizontal = Horizontal{}
	}
}

// SetHorizontal replaces the horizontal guideline and reports whether it
// was accepted.
func (g *Guides) SetHorizontal(h Horizontal) bool {
	if g.vertical.Active() && h.Active {
		return false
	}
	g.horizontal = h
	return true
}

// Reset returns both slots to idle.
func (g *Guides) Reset() {
	g.vertical = Idle()
	g.horizontal = Horizontal{}
}
