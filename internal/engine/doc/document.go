package doc

import (
	"fmt"
	"strings"
)

// BlockParagraph is the default block type.
const BlockParagraph = "paragraph"

// Block is a single textblock in a document.
type Block struct {
	Type string // Block type, e.g. "paragraph" or "heading"
	Text string // Inline text content
}

// Paragraph creates a paragraph block.
func Paragraph(text string) Block {
	return Block{Type: BlockParagraph, Text: text}
}

// NodeSize returns the number of positions the block occupies,
// including its opening and closing tokens.
func (b Block) NodeSize() int {
	return len(b.Text) + 2
}

// Doc is an immutable document made of textblocks.
type Doc struct {
	blocks []Block
	size   int
}

// New creates a document from the given blocks.
// A document with no blocks gets a single empty paragraph.
func New(blocks ...Block) *Doc {
	if len(blocks) == 0 {
		blocks = []Block{Paragraph("")}
	}
	d := &Doc{blocks: make([]Block, len(blocks))}
	for i, b := range blocks {
		if b.Type == "" {
			b.Type = BlockParagraph
		}
		d.blocks[i] = b
		d.size += b.NodeSize()
	}
	return d
}

// FromText creates a document with one paragraph per line of text.
func FromText(text string) *Doc {
	lines := strings.Split(text, "\n")
	blocks := make([]Block, len(lines))
	for i, line := range lines {
		blocks[i] = Paragraph(line)
	}
	return New(blocks...)
}

// Size returns the size of the document's content in positions.
// Valid positions are 0 through Size() inclusive.
func (d *Doc) Size() int {
	return d.size
}

// BlockCount returns the number of blocks.
func (d *Doc) BlockCount() int {
	return len(d.blocks)
}

// Block returns the block at index i.
func (d *Doc) Block(i int) Block {
	return d.blocks[i]
}

// Blocks returns a copy of the document's blocks.
func (d *Doc) Blocks() []Block {
	out := make([]Block, len(d.blocks))
	copy(out, d.blocks)
	return out
}

// BlockStart returns the position directly before block i.
func (d *Doc) BlockStart(i int) int {
	pos := 0
	for j := 0; j < i && j < len(d.blocks); j++ {
		pos += d.blocks[j].NodeSize()
	}
	return pos
}

// ContentStart returns the position of the first character of block i.
func (d *Doc) ContentStart(i int) int {
	return d.BlockStart(i) + 1
}

// String returns a debugging representation of the document.
func (d *Doc) String() string {
	var sb strings.Builder
	sb.WriteString("doc(")
	for i, b := range d.blocks {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s(%q)", b.Type, b.Text)
	}
	sb.WriteString(")")
	return sb.String()
}

// Text returns the whole document text with blocks joined by newlines.
func (d *Doc) Text() string {
	return d.TextBetween(0, d.size)
}

// TextBetween returns the text between two positions.
// Block boundaries inside the range become "\n".
// Positions are clamped to the document.
func (d *Doc) TextBetween(from, to int) string {
	from = clamp(from, 0, d.size)
	to = clamp(to, 0, d.size)
	if from >= to {
		return ""
	}

	var sb strings.Builder
	pos := 0
	wrote := false
	for _, b := range d.blocks {
		start := pos + 1
		end := start + len(b.Text)
		pos += b.NodeSize()

		if end < from || start > to {
			continue
		}
		lo := clamp(from, start, end) - start
		hi := clamp(to, start, end) - start
		if wrote {
			sb.WriteByte('\n')
		}
		sb.WriteString(b.Text[lo:hi])
		wrote = true
	}
	return sb.String()
}

// ReplaceText returns a new document with [from, to) replaced by text.
// Both ends must lie inside the content of the same textblock.
func (d *Doc) ReplaceText(from, to int, text string) (*Doc, error) {
	if from > to {
		return nil, fmt.Errorf("replace [%d,%d): %w", from, to, ErrRangeInvalid)
	}
	start, err := d.Resolve(from)
	if err != nil {
		return nil, fmt.Errorf("replace at %d: %w", from, err)
	}
	end, err := d.Resolve(to)
	if err != nil {
		return nil, fmt.Errorf("replace at %d: %w", to, err)
	}
	if !start.InTextblock() || !end.InTextblock() {
		return nil, fmt.Errorf("replace [%d,%d): %w", from, to, ErrNotInTextblock)
	}
	if start.Block != end.Block {
		return nil, fmt.Errorf("replace [%d,%d): %w", from, to, ErrCrossesBlocks)
	}

	b := d.blocks[start.Block]
	off := start.ParentOffset()
	b.Text = b.Text[:off] + text + b.Text[end.ParentOffset():]

	next := &Doc{
		blocks: make([]Block, len(d.blocks)),
		size:   d.size - (to - from) + len(text),
	}
	copy(next.blocks, d.blocks)
	next.blocks[start.Block] = b
	return next, nil
}

// Equal reports whether two documents have the same blocks.
func (d *Doc) Equal(other *Doc) bool {
	if d == other {
		return true
	}
	if other == nil || len(d.blocks) != len(other.blocks) {
		return false
	}
	for i := range d.blocks {
		if d.blocks[i] != other.blocks[i] {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
