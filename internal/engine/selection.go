package engine

import (
	"fmt"

	"github.com/dshills/suggest/internal/engine/transform"
)

// Selection represents a range of selected text.
// Anchor is where the selection started; Head is where typing occurs.
// When Anchor == Head, this represents a cursor with no selection.
// Selection is an immutable value type.
type Selection struct {
	Anchor int
	Head   int
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head int) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// Cursor creates an empty selection at pos.
func Cursor(pos int) Selection {
	return Selection{Anchor: pos, Head: pos}
}

// Empty returns true if the selection has no extent.
func (s Selection) Empty() bool {
	return s.Anchor == s.Head
}

// From returns the lower bound of the selection.
func (s Selection) From() int {
	if s.Anchor <= s.Head {
		return s.Anchor
	}
	return s.Head
}

// To returns the upper bound of the selection.
func (s Selection) To() int {
	if s.Anchor >= s.Head {
		return s.Anchor
	}
	return s.Head
}

// Map maps both ends of the selection through m.
func (s Selection) Map(m transform.Mapper) Selection {
	return Selection{
		Anchor: m.Map(s.Anchor, 1),
		Head:   m.Map(s.Head, 1),
	}
}

// String returns a human-readable representation of the selection.
func (s Selection) String() string {
	if s.Empty() {
		return fmt.Sprintf("cursor(%d)", s.Head)
	}
	return fmt.Sprintf("selection(%d→%d)", s.Anchor, s.Head)
}
