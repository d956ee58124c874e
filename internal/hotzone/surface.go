package hotzone

// Surface is the hit-testing a rendering front end provides.
type Surface interface {
	// PosAtCoords returns a document position under the point.
	PosAtCoords(x, y float64) (int, bool)
	// RectAt returns the bounding rectangle of the node starting at pos.
	RectAt(pos int) (Rect, bool)
	// EditorRect returns the bounds of the editable area.
	EditorRect() Rect
}

// Box is the rendered bounds of the node starting at Pos.
type Box struct {
	Pos  int  `json:"pos"`
	Rect Rect `json:"rect"`
}

// Layout is a snapshot of rendered rectangles that implements Surface. A
// front end posts one with each hover so classification needs no live
// rendering surface.
type Layout struct {
	Editor Rect  `json:"editor"`
	Boxes  []Box `json:"boxes"`
}

func (l *Layout) EditorRect() Rect { return l.Editor }

func (l *Layout) RectAt(pos int) (Rect, bool) {
	for _, b := range l.Boxes {
		if b.Pos == pos {
			return b.Rect, true
		}
	}
	return Rect{}, false
}

// PosAtCoords returns the position of the innermost box containing the
// point, taken as the one with the smallest area.
func (l *Layout) PosAtCoords(x, y float64) (int, bool) {
	best, found := -1, false
	bestArea := 0.0
	for _, b := range l.Boxes {
		if !b.Rect.Contains(x, y) {
			continue
		}
		if !found || b.Rect.Area() < bestArea {
			best, bestArea, found = b.Pos, b.Rect.Area(), true
		}
	}
	return best, found
}
