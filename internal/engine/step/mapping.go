package step

// Mapping composes a run of StepMaps into one position map, the way a
// Transform's Mapping accumulates one entry per step, and the way history's
// remapping accumulates one entry per item it skips over. Two maps at
// mirrored indices are expected to cancel out (a step's forward map and its
// later inverse); the pairing is recorded via SetMirror and read back with
// GetMirror (Branch.Rebased uses it to find each local item's rebased
// counterpart). MapResult does not consult the pairs: it maps a position
// through every map in the window in turn.
//
// A Mapping is a plain builder, not a persistent structure: callers build a
// fresh one for each transform or each remapping and throw it away once
// they've read the positions they need out of it.
type Mapping struct {
	maps   []*StepMap
	mirror map[int]int
	from   int
	to     int
}

// NewMapping builds a Mapping over maps, defaulting its window to the whole
// slice.
func NewMapping(maps ...*StepMap) *Mapping {
	return &Mapping{maps: maps, mirror: map[int]int{}, to: len(maps)}
}

// Maps returns the underlying StepMap slice. Callers must not mutate it.
func (m *Mapping) Maps() []*StepMap {
	return m.maps
}

// Len reports how many maps are in m's window.
func (m *Mapping) Len() int {
	return m.to - m.from
}

// AppendMap adds sm to the end of m. If mirrorOf is non-negative, the new
// entry and the one at mirrorOf are recorded as mirroring each other.
func (m *Mapping) AppendMap(sm *StepMap, mirrorOf int) int {
	idx := len(m.maps)
	m.maps = append(m.maps, sm)
	if mirrorOf >= 0 {
		m.SetMirror(idx, mirrorOf)
	}
	if m.to == idx {
		m.to = idx + 1
	}
	return idx
}

// SetMirror records that the maps at i and j cancel each other out.
func (m *Mapping) SetMirror(i, j int) {
	if m.mirror == nil {
		m.mirror = map[int]int{}
	}
	m.mirror[i] = j
	m.mirror[j] = i
}

// GetMirror reports the index mirroring i, if any.
func (m *Mapping) GetMirror(i int) (int, bool) {
	j, ok := m.mirror[i]
	return j, ok
}

// Slice returns a view over m restricted to maps [from, to), sharing the
// same underlying maps and mirror table.
func (m *Mapping) Slice(from, to int) *Mapping {
	return &Mapping{maps: m.maps, mirror: m.mirror, from: from, to: to}
}

// Invert returns a Mapping that undoes m: the maps run in reverse order,
// each individually inverted, and mirror indices are flipped to match.
func (m *Mapping) Invert() *Mapping {
	n := len(m.maps)
	maps := make([]*StepMap, n)
	for i, sm := range m.maps {
		maps[n-1-i] = sm.Invert()
	}
	mirror := make(map[int]int, len(m.mirror))
	for i, j := range m.mirror {
		mirror[n-1-i] = n - 1 - j
	}
	return &Mapping{maps: maps, mirror: mirror, to: n}
}

// MapResult maps pos through every map in m's window, in order.
func (m *Mapping) MapResult(pos, assoc int) MapResult {
	deleted := false
	for i := m.from; i < m.to; i++ {
		r := m.maps[i].MapResult(pos, assoc)
		pos = r.Pos
		if r.Deleted {
			deleted = true
		}
	}
	return MapResult{Pos: pos, Deleted: deleted}
}

// Map maps pos forward through m's window with the default bias.
func (m *Mapping) Map(pos int) int {
	return m.MapResult(pos, 1).Pos
}

// ForEach calls cb once per touched range of every map in m's window, in
// order.
func (m *Mapping) ForEach(cb func(r Range)) {
	for i := m.from; i < m.to; i++ {
		for _, r := range m.maps[i].TouchedRanges() {
			cb(r)
		}
	}
}
