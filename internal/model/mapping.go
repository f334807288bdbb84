package model

// MapResult is the outcome of mapping a position through a change.
type MapResult struct {
	// Pos is the mapped position.
	Pos Pos

	// Deleted is true when the content around the original position was
	// removed and Pos is only the closest surviving location.
	Deleted bool
}

// StepMap describes how a single step moved positions: units [From, To)
// at Path were replaced by NewSize units.
type StepMap struct {
	Path    Path
	From    int
	To      int
	NewSize int

	// Text is true when the step edited the runes of a textblock. Text
	// edits only move positions inside that textblock.
	Text bool
}

// Map moves pos through the step. A negative bias keeps positions at the
// edges of an insertion or deletion on the left side; zero or positive
// bias moves them to the right side.
func (m StepMap) Map(pos Pos, bias int) MapResult {
	if !pos.Path.HasPrefix(m.Path) {
		return MapResult{Pos: pos}
	}
	depth := len(m.Path)
	if len(pos.Path) == depth {
		off, deleted := m.mapOffset(pos.Offset, bias)
		return MapResult{Pos: Pos{Path: pos.Path.Clone(), Offset: off}, Deleted: deleted}
	}
	if m.Text {
		// Textblocks have no children, so nothing can sit below one.
		return MapResult{Pos: pos}
	}

	idx := pos.Path[depth]
	switch {
	case idx < m.From:
		return MapResult{Pos: pos}
	case idx >= m.To:
		path := pos.Path.Clone()
		path[depth] = idx + m.NewSize - (m.To - m.From)
		return MapResult{Pos: Pos{Path: path, Offset: pos.Offset}}
	default:
		off := m.From + m.NewSize
		if bias < 0 {
			off = m.From
		}
		return MapResult{Pos: Pos{Path: m.Path.Clone(), Offset: off}, Deleted: true}
	}
}

func (m StepMap) mapOffset(o, bias int) (int, bool) {
	oldSize := m.To - m.From
	switch {
	case o < m.From || (o == m.From && oldSize > 0):
		return o, false
	case o > m.To || (o == m.To && oldSize > 0):
		return o + m.NewSize - oldSize, false
	case oldSize == 0:
		if bias < 0 {
			return m.From, false
		}
		return m.From + m.NewSize, false
	default:
		if bias < 0 {
			return m.From, true
		}
		return m.From + m.NewSize, true
	}
}

// Mapping is an ordered sequence of step maps. The zero value is the
// identity mapping.
type Mapping struct {
	maps []StepMap
}

// NewMapping creates a mapping from step maps in application order.
func NewMapping(maps ...StepMap) *Mapping {
	m := &Mapping{}
	m.maps = append(m.maps, maps...)
	return m
}

// Identity returns a mapping that leaves every position unchanged.
func Identity() *Mapping {
	return &Mapping{}
}

// Append adds a step map to the end of the mapping.
func (m *Mapping) Append(sm StepMap) {
	m.maps = append(m.maps, sm)
}

// Len returns the number of step maps.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.maps)
}

// Maps returns a copy of the step maps.
func (m *Mapping) Maps() []StepMap {
	if m == nil {
		return nil
	}
	out := make([]StepMap, len(m.maps))
	copy(out, m.maps)
	return out
}

// Map moves pos through every step in order. Deleted is set if any step
// deleted the content around the position.
func (m *Mapping) Map(pos Pos, bias int) MapResult {
	res := MapResult{Pos: pos}
	if m == nil {
		return res
	}
	for _, sm := range m.maps {
		r := sm.Map(res.Pos, bias)
		res.Pos = r.Pos
		res.Deleted = res.Deleted || r.Deleted
	}
	return res
}

// MapPos is like Map but returns only the position.
func (m *Mapping) MapPos(pos Pos, bias int) Pos {
	return m.Map(pos, bias).Pos
}
