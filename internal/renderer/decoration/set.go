package decoration

import (
	"sort"

	"github.com/samber/lo"

	"github.com/dshills/suggest/internal/engine/transform"
)

// Set is an immutable, position-ordered collection of decorations.
// A nil *Set behaves as an empty set.
type Set struct {
	decos []Decoration
}

// Empty is the empty decoration set.
var Empty = &Set{}

// NewSet creates a set from the given decorations.
// Empty ranges are dropped.
func NewSet(decos ...Decoration) *Set {
	return Empty.Add(decos...)
}

// Len returns the number of decorations in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.decos)
}

// All returns every decoration ordered by position.
func (s *Set) All() []Decoration {
	if s == nil {
		return nil
	}
	out := make([]Decoration, len(s.decos))
	copy(out, s.decos)
	return out
}

// Find returns the decorations that overlap or touch [from, to].
func (s *Set) Find(from, to int) []Decoration {
	if s == nil {
		return nil
	}
	return lo.Filter(s.decos, func(d Decoration, _ int) bool {
		return d.From <= to && d.To >= from
	})
}

// FindFunc returns the decorations matching pred.
func (s *Set) FindFunc(pred func(Decoration) bool) []Decoration {
	if s == nil {
		return nil
	}
	return lo.Filter(s.decos, func(d Decoration, _ int) bool {
		return pred(d)
	})
}

// Add returns a new set with the decorations added.
func (s *Set) Add(decos ...Decoration) *Set {
	valid := lo.Filter(decos, func(d Decoration, _ int) bool {
		return d.From < d.To
	})
	if len(valid) == 0 {
		if s == nil {
			return Empty
		}
		return s
	}

	next := make([]Decoration, 0, s.Len()+len(valid))
	next = append(next, s.All()...)
	next = append(next, valid...)
	sortDecorations(next)
	return &Set{decos: next}
}

// Remove returns a new set without the given decorations.
// Decorations are matched by identity, so mapped copies are removed too.
func (s *Set) Remove(decos ...Decoration) *Set {
	if s.Len() == 0 || len(decos) == 0 {
		return s
	}
	next := lo.Reject(s.decos, func(d Decoration, _ int) bool {
		return lo.ContainsBy(decos, d.Same)
	})
	if len(next) == len(s.decos) {
		return s
	}
	return &Set{decos: next}
}

// Map returns a new set with every decoration mapped through m.
// Content inserted at a decoration's edges stays outside it, and
// decorations whose range collapses are dropped.
func (s *Set) Map(m transform.Mapper) *Set {
	if s.Len() == 0 {
		return Empty
	}
	next := make([]Decoration, 0, len(s.decos))
	for _, d := range s.decos {
		from, to, ok := transform.MapRange(m, d.From, d.To)
		if !ok {
			continue
		}
		d.From, d.To = from, to
		next = append(next, d)
	}
	sortDecorations(next)
	return &Set{decos: next}
}

// Merge combines several sets into one.
func Merge(sets ...*Set) *Set {
	var all []Decoration
	for _, s := range sets {
		all = append(all, s.All()...)
	}
	return Empty.Add(all...)
}

func sortDecorations(decos []Decoration) {
	sort.SliceStable(decos, func(i, j int) bool {
		if decos[i].From != decos[j].From {
			return decos[i].From < decos[j].From
		}
		return decos[i].To < decos[j].To
	})
}
