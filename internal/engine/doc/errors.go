package doc

import "errors"

// Errors returned by document operations.
var (
	// ErrPositionOutOfRange indicates a position outside [0, Size()].
	ErrPositionOutOfRange = errors.New("position out of range")

	// ErrRangeInvalid indicates a range whose end precedes its start.
	ErrRangeInvalid = errors.New("invalid range")

	// ErrNotInTextblock indicates a position that does not fall inside a
	// textblock's content.
	ErrNotInTextblock = errors.New("position is not inside a textblock")

	// ErrCrossesBlocks indicates a text replacement whose ends lie in
	// different blocks.
	ErrCrossesBlocks = errors.New("range crosses block boundaries")
)
