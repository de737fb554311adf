package doc

import "fmt"

// ResolvedPos is a position with information about its surroundings.
type ResolvedPos struct {
	Pos int // The resolved position

	// Block is the index of the enclosing textblock, or -1 when the
	// position sits between blocks.
	Block int

	// Start and End bound the enclosing textblock's content.
	// Both are zero when Block is -1.
	Start int
	End   int

	// Parent is the enclosing textblock. Zero when Block is -1.
	Parent Block
}

// Resolve resolves a position against the document.
func (d *Doc) Resolve(pos int) (ResolvedPos, error) {
	if pos < 0 || pos > d.size {
		return ResolvedPos{}, fmt.Errorf("resolve %d (size %d): %w", pos, d.size, ErrPositionOutOfRange)
	}

	offset := 0
	for i, b := range d.blocks {
		start := offset + 1
		end := start + len(b.Text)
		if pos >= start && pos <= end {
			return ResolvedPos{
				Pos:    pos,
				Block:  i,
				Start:  start,
				End:    end,
				Parent: b,
			}, nil
		}
		offset += b.NodeSize()
	}
	return ResolvedPos{Pos: pos, Block: -1}, nil
}

// InTextblock returns true if the position lies inside a textblock's content.
func (p ResolvedPos) InTextblock() bool {
	return p.Block >= 0
}

// ParentOffset returns the offset of the position into its parent's text.
func (p ResolvedPos) ParentOffset() int {
	if p.Block < 0 {
		return 0
	}
	return p.Pos - p.Start
}

// TextBefore returns the parent text up to the position.
func (p ResolvedPos) TextBefore() string {
	return p.Parent.Text[:p.ParentOffset()]
}

// TextAfter returns the parent text from the position on.
func (p ResolvedPos) TextAfter() string {
	return p.Parent.Text[p.ParentOffset():]
}

// Before returns the position directly before the enclosing textblock.
func (p ResolvedPos) Before() int {
	if p.Block < 0 {
		return p.Pos
	}
	return p.Start - 1
}

// After returns the position directly after the enclosing textblock.
func (p ResolvedPos) After() int {
	if p.Block < 0 {
		return p.Pos
	}
	return p.End + 1
}

// String returns a debugging representation of the resolved position.
func (p ResolvedPos) String() string {
	if p.Block < 0 {
		return fmt.Sprintf("%d (between blocks)", p.Pos)
	}
	return fmt.Sprintf("%d (block %d, offset %d)", p.Pos, p.Block, p.ParentOffset())
}
