package transform

import "fmt"

// Mapper maps positions through one or more edits.
type Mapper interface {
	// Map maps a position. See MapResult.
	Map(pos, assoc int) int

	// MapResult maps a position and reports whether the content around it
	// was deleted.
	MapResult(pos, assoc int) Result
}

// Result is the outcome of mapping a single position.
type Result struct {
	Pos     int  // Mapped position
	Deleted bool // The position was inside a replaced range
}

// StepMap describes a single replacement: OldSize positions starting at
// Start were replaced by NewSize positions.
type StepMap struct {
	Start   int
	OldSize int
	NewSize int
}

// NewStepMap creates a step map.
func NewStepMap(start, oldSize, newSize int) StepMap {
	return StepMap{Start: start, OldSize: oldSize, NewSize: newSize}
}

// String returns a human-readable representation of the step map.
func (m StepMap) String() string {
	return fmt.Sprintf("[%d+%d→%d]", m.Start, m.OldSize, m.NewSize)
}

// Delta returns the change in document size caused by the step.
func (m StepMap) Delta() int {
	return m.NewSize - m.OldSize
}

// Map maps a position through the step.
func (m StepMap) Map(pos, assoc int) int {
	return m.MapResult(pos, assoc).Pos
}

// MapResult maps a position through the step.
//
// Transformation rules:
//   - Before the replaced range: unchanged
//   - After the replaced range: shifted by the step's delta
//   - Exactly at a pure insertion: stays when assoc < 0, moves past the
//     insertion otherwise
//   - Inside (or on the edge of) a replaced range: moves to the start
//     (assoc < 0) or end (assoc >= 0) of the replacement; a strictly inner
//     position is reported as deleted, as is an edge position whose
//     neighbouring content on the assoc side was removed
func (m StepMap) MapResult(pos, assoc int) Result {
	end := m.Start + m.OldSize

	if pos < m.Start {
		return Result{Pos: pos}
	}
	if pos > end {
		return Result{Pos: pos + m.Delta()}
	}

	if m.OldSize == 0 {
		// pos == Start: pure insertion at the position
		if assoc < 0 {
			return Result{Pos: pos}
		}
		return Result{Pos: pos + m.NewSize}
	}

	var deleted bool
	switch {
	case pos == m.Start:
		deleted = assoc >= 0
	case pos == end:
		deleted = assoc < 0
	default:
		deleted = true
	}

	if assoc < 0 {
		return Result{Pos: m.Start, Deleted: deleted}
	}
	return Result{Pos: m.Start + m.NewSize, Deleted: deleted}
}

// Mapping is an ordered list of step maps.
// The zero value is an empty mapping that maps every position to itself.
type Mapping struct {
	maps []StepMap
}

// NewMapping creates a mapping from the given step maps.
func NewMapping(maps ...StepMap) *Mapping {
	m := &Mapping{}
	m.maps = append(m.maps, maps...)
	return m
}

// AppendMap adds a step map to the end of the mapping.
func (m *Mapping) AppendMap(sm StepMap) {
	m.maps = append(m.maps, sm)
}

// AppendMapping adds all step maps of another mapping.
func (m *Mapping) AppendMapping(other *Mapping) {
	if other == nil {
		return
	}
	m.maps = append(m.maps, other.maps...)
}

// Maps returns a copy of the mapping's step maps.
func (m *Mapping) Maps() []StepMap {
	out := make([]StepMap, len(m.maps))
	copy(out, m.maps)
	return out
}

// Len returns the number of step maps.
func (m *Mapping) Len() int {
	return len(m.maps)
}

// Map maps a position through every step in order.
func (m *Mapping) Map(pos, assoc int) int {
	return m.MapResult(pos, assoc).Pos
}

// MapResult maps a position through every step in order.
// The result is deleted if any step deleted it.
func (m *Mapping) MapResult(pos, assoc int) Result {
	res := Result{Pos: pos}
	for _, sm := range m.maps {
		r := sm.MapResult(res.Pos, assoc)
		res.Pos = r.Pos
		res.Deleted = res.Deleted || r.Deleted
	}
	return res
}

// MapRange maps a [from, to) range so that content inserted at either edge
// stays outside it. It reports false when the range collapses.
func MapRange(m Mapper, from, to int) (int, int, bool) {
	newFrom := m.Map(from, 1)
	newTo := m.Map(to, -1)
	if newFrom >= newTo {
		return newFrom, newFrom, false
	}
	return newFrom, newTo, true
}
