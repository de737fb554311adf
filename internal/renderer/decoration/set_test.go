package decoration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/suggest/internal/engine/transform"
)

func span(from, to int, name string) Decoration {
	return Inline(from, to, Attrs{NodeName: "span", Class: "x"}, Spec{"name": name})
}

func TestNewSetOrdersAndDropsEmpty(t *testing.T) {
	s := NewSet(span(5, 6, "b"), span(1, 2, "a"), span(3, 3, "empty"))

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Spec.String("name"))
	assert.Equal(t, "b", all[1].Spec.String("name"))
}

func TestNilSet(t *testing.T) {
	var s *Set
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.All())
	assert.Nil(t, s.Find(0, 10))
	assert.Equal(t, 1, s.Add(span(1, 2, "a")).Len())
	assert.Equal(t, 0, s.Map(transform.NewMapping()).Len())
}

func TestFind(t *testing.T) {
	s := NewSet(span(1, 2, "a"), span(5, 8, "b"))

	assert.Len(t, s.Find(1, 1), 1)
	assert.Len(t, s.Find(2, 2), 1, "touching the end counts")
	assert.Len(t, s.Find(3, 4), 0)
	assert.Len(t, s.Find(0, 100), 2)

	named := s.FindFunc(func(d Decoration) bool { return d.Spec.String("name") == "b" })
	require.Len(t, named, 1)
	assert.Equal(t, 5, named[0].From)
}

func TestRemoveByIdentity(t *testing.T) {
	a := span(1, 2, "a")
	b := span(1, 2, "a")
	s := NewSet(a, b)

	mapped := s.Map(transform.NewMapping(transform.NewStepMap(0, 0, 3)))
	require.Equal(t, 2, mapped.Len())

	after := mapped.Remove(a)
	require.Equal(t, 1, after.Len())
	assert.True(t, after.All()[0].Same(b))
	assert.Equal(t, 4, after.All()[0].From)

	assert.Same(t, after, after.Remove(a), "removing an absent decoration returns the same set")
}

func TestMapShiftsAndPreservesLength(t *testing.T) {
	s := NewSet(span(4, 5, "a"))

	// insert three characters strictly before the decoration
	mapped := s.Map(transform.NewMapping(transform.NewStepMap(2, 0, 3)))
	require.Equal(t, 1, mapped.Len())
	d := mapped.All()[0]
	assert.Equal(t, 7, d.From)
	assert.Equal(t, 8, d.To)
	assert.Equal(t, 1, d.Len())
	assert.Equal(t, Spec{"name": "a"}, d.Spec)
}

func TestMapDropsDeleted(t *testing.T) {
	s := NewSet(span(4, 5, "a"), span(8, 9, "b"))

	mapped := s.Map(transform.NewMapping(transform.NewStepMap(4, 1, 0)))
	require.Equal(t, 1, mapped.Len())
	assert.Equal(t, "b", mapped.All()[0].Spec.String("name"))
	assert.Equal(t, 7, mapped.All()[0].From)
}

func TestMapGrowsWhenTextInsertedInside(t *testing.T) {
	s := NewSet(span(4, 6, "a"))

	mapped := s.Map(transform.NewMapping(transform.NewStepMap(5, 0, 2)))
	require.Equal(t, 1, mapped.Len())
	assert.Equal(t, 4, mapped.All()[0].Len())
}

func TestMerge(t *testing.T) {
	merged := Merge(NewSet(span(5, 6, "b")), nil, NewSet(span(1, 2, "a")))
	require.Equal(t, 2, merged.Len())
	assert.Equal(t, 1, merged.All()[0].From)
}
