package suggest

// ChangeReason explains why a suggester's OnChange fires.
type ChangeReason uint8

const (
	// ChangeReasonNone means no change happened.
	ChangeReasonNone ChangeReason = iota

	// ChangeReasonStart is a new match appearing where there was none.
	ChangeReasonStart

	// ChangeReasonText is the query text of a match being edited.
	ChangeReasonText

	// ChangeReasonMove is the cursor moving inside an unchanged match.
	ChangeReasonMove

	// ChangeReasonSelectionInside is a selection changing inside a match.
	ChangeReasonSelectionInside

	// ChangeReasonJumpForward is the cursor jumping to a later match.
	ChangeReasonJumpForward

	// ChangeReasonJumpBackward is the cursor jumping to an earlier match.
	ChangeReasonJumpBackward
)

var changeReasonNames = map[ChangeReason]string{
	ChangeReasonNone:            "none",
	ChangeReasonStart:           "start",
	ChangeReasonText:            "text",
	ChangeReasonMove:            "move",
	ChangeReasonSelectionInside: "selection-inside",
	ChangeReasonJumpForward:     "jump-forward",
	ChangeReasonJumpBackward:    "jump-backward",
}

// String returns the reason's name.
func (r ChangeReason) String() string {
	if name, ok := changeReasonNames[r]; ok {
		return name
	}
	return "unknown"
}

// IsJump returns true for both jump directions.
func (r ChangeReason) IsJump() bool {
	return r == ChangeReasonJumpForward || r == ChangeReasonJumpBackward
}

// ExitReason explains why a suggester's OnExit fires.
type ExitReason uint8

const (
	// ExitReasonNone means no exit happened.
	ExitReasonNone ExitReason = iota

	// ExitReasonEnd is text added after the match that ended it.
	ExitReasonEnd

	// ExitReasonRemoved is the match's text being deleted.
	ExitReasonRemoved

	// ExitReasonSplit is the match being split by an edit inside it.
	ExitReasonSplit

	// ExitReasonInvalidSplit is a split that left no valid query.
	ExitReasonInvalidSplit

	// ExitReasonMoveEnd is the cursor leaving past the end of the match.
	ExitReasonMoveEnd

	// ExitReasonMoveStart is the cursor leaving before the start of the match.
	ExitReasonMoveStart

	// ExitReasonSelectionOutside is a selection extending outside the match.
	ExitReasonSelectionOutside

	// ExitReasonJumpForward is the cursor jumping to a later match.
	ExitReasonJumpForward

	// ExitReasonJumpBackward is the cursor jumping to an earlier match.
	ExitReasonJumpBackward
)

var exitReasonNames = map[ExitReason]string{
	ExitReasonNone:             "none",
	ExitReasonEnd:              "end",
	ExitReasonRemoved:          "removed",
	ExitReasonSplit:            "split",
	ExitReasonInvalidSplit:     "invalid-split",
	ExitReasonMoveEnd:          "move-end",
	ExitReasonMoveStart:        "move-start",
	ExitReasonSelectionOutside: "selection-outside",
	ExitReasonJumpForward:      "jump-forward",
	ExitReasonJumpBackward:     "jump-backward",
}

// String returns the reason's name.
func (r ExitReason) String() string {
	if name, ok := exitReasonNames[r]; ok {
		return name
	}
	return "unknown"
}

// IsJump returns true for both jump directions.
func (r ExitReason) IsJump() bool {
	return r == ExitReasonJumpForward || r == ExitReasonJumpBackward
}

// Stage tells whether a match is new or being edited.
type Stage uint8

const (
	StageNew Stage = iota
	StageEdit
)

// String returns "new" or "edit".
func (s Stage) String() string {
	if s == StageNew {
		return "new"
	}
	return "edit"
}

// ChangeMatch is a match paired with the reason it changed.
type ChangeMatch struct {
	Match
	Reason ChangeReason
}

// ExitMatch is a match paired with the reason it was left.
type ExitMatch struct {
	Match
	Reason ExitReason
}

// ReasonMap holds the outcome of classifying one edit. Both entries are set
// only for a jump from one match to another.
type ReasonMap struct {
	Change *ChangeMatch
	Exit   *ExitMatch
}

// Empty returns true if neither a change nor an exit is present.
func (r ReasonMap) Empty() bool {
	return r.Change == nil && r.Exit == nil
}

// IsJump returns true if the map describes a jump between matches.
func (r ReasonMap) IsJump() bool {
	return r.Change != nil && r.Exit != nil && r.Change.Reason.IsJump()
}
