// Package hotzone classifies pointer coordinates into structural drop
// intents. Everything here is a pure function of coordinates and layout
// rectangles; nothing mutates the document.
package hotzone

import "math"

// Rect is an axis-aligned rectangle in editor pixel coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }
func (r Rect) Area() float64   { return r.Width() * r.Height() }

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// SpansY reports whether y lies within r's vertical extent grown by pad
// on both sides.
func (r Rect) SpansY(y, pad float64) bool {
	return y >= r.Top-pad && y <= r.Bottom+pad
}

// Side is the side of a target a dragged block lands on.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Gap is a hit on the gap between columns ColumnIndex and ColumnIndex+1.
type Gap struct {
	ColumnIndex int
	EdgeX       float64
}

// DetectColumnGap finds the gap between adjacent column rectangles whose
// centre line lies within threshold of x, with y inside the container's
// vertical extent grown by threshold. The outer edges of the container are
// never reported; those belong to editor border detection.
func DetectColumnGap(x, y float64, container Rect, columns []Rect, threshold float64) (Gap, bool) {
	if !container.SpansY(y, threshold) {
		return Gap{}, false
	}
	for i := 0; i+1 < len(columns); i++ {
		center := (columns[i].Right + columns[i+1].Left) / 2
		if math.Abs(x-center) <= threshold {
			return Gap{ColumnIndex: i, EdgeX: center}, true
		}
	}
	return Gap{}, false
}

// Border is a hit just outside the left or right edge of the editor.
type Border struct {
	Side  Side
	EdgeX float64
}

// DetectEditorBorder reports a hit when x lies outside the editor by at most
// horizontalThreshold and y lies within verticalTolerance of the editor's
// vertical extent. Points inside the editor never hit.
func DetectEditorBorder(x, y float64, editor Rect, horizontalThreshold, verticalTolerance float64) (Border, bool) {
	if !editor.SpansY(y, verticalTolerance) {
		return Border{}, false
	}
	switch {
	case x < editor.Left && editor.Left-x <= horizontalThreshold:
		return Border{Side: SideLeft, EdgeX: editor.Left}, true
	case x > editor.Right && x-editor.Right <= horizontalThreshold:
		return Border{Side: SideRight, EdgeX: editor.Right}, true
	}
	return Border{}, false
}
