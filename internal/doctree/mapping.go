package doctree

// StepMap records how a single step moved positions: the range
// [Start, Start+OldSize) of the old document became
// [Start, Start+NewSize) of the new one.
type StepMap struct {
	Start   int
	OldSize int
	NewSize int
}

// MapResult is a mapped position plus whether the original position sat
// strictly inside a replaced range.
type MapResult struct {
	Pos     int
	Deleted bool
}

// Map maps pos through the step. assoc decides which side of an insertion
// at pos the result sticks to: negative keeps it before, otherwise after.
func (m StepMap) Map(pos, assoc int) int {
	return m.MapResult(pos, assoc).Pos
}

// MapResult maps pos and reports deletion.
func (m StepMap) MapResult(pos, assoc int) MapResult {
	end := m.Start + m.OldSize
	if pos < m.Start {
		return MapResult{Pos: pos}
	}
	if pos > end {
		return MapResult{Pos: pos + m.NewSize - m.OldSize}
	}
	side := assoc
	if m.OldSize > 0 {
		switch pos {
		case m.Start:
			side = -1
		case end:
			side = 1
		}
	}
	res := MapResult{Pos: m.Start, Deleted: pos != m.Start && pos != end}
	if side >= 0 {
		res.Pos += m.NewSize
	}
	return res
}

// Mapping is an ordered list of step maps.
type Mapping struct {
	maps []StepMap
}

// Append adds a step map to the end of the mapping.
func (m *Mapping) Append(sm StepMap) { m.maps = append(m.maps, sm) }

// Len returns the number of step maps.
func (m *Mapping) Len() int { return len(m.maps) }

// Slice returns the mapping made of maps [from, Len()).
func (m *Mapping) Slice(from int) *Mapping {
	out := &Mapping{}
	if from < len(m.maps) {
		out.maps = append(out.maps, m.maps[from:]...)
	}
	return out
}

// Map maps pos through every step map in order.
func (m *Mapping) Map(pos, assoc int) int {
	return m.MapResult(pos, assoc).Pos
}

// MapResult maps pos through every step map and reports whether any step
// deleted it.
func (m *Mapping) MapResult(pos, assoc int) MapResult {
	deleted := false
	for _, sm := range m.maps {
		r := sm.MapResult(pos, assoc)
		pos = r.Pos
		deleted = deleted || r.Deleted
	}
	return MapResult{Pos: pos, Deleted: deleted}
}
