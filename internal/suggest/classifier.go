package suggest

import (
	"github.com/dshills/suggest/internal/engine"
	"github.com/dshills/suggest/internal/engine/transform"
)

// rechecker runs a previous match's suggester again against the new
// document at the previous cursor-bounded end.
type rechecker func(prev Match) *Match

// classify compares the previous and next match for the whole registry
// and explains the difference. m is the mapping of the edit that led from
// prev to s. It has no side effects.
//
// Rules, first match wins:
//   - Jump: both exist with different starts
//   - Entry: only next exists
//   - Exit: only prev exists
//   - Text: same start, different full query
//   - Move: same query, different cursor-bounded end
func classify(prev, next *Match, s *engine.EditorState, m transform.Mapper, recheck rechecker) ReasonMap {
	switch {
	case prev == nil && next == nil:
		return ReasonMap{}

	case prev != nil && next != nil && prev.Range.From != next.Range.From:
		return jumpReason(*prev, *next, s, m, recheck)

	case prev == nil:
		return ReasonMap{Change: &ChangeMatch{Match: *next, Reason: ChangeReasonStart}}

	case next == nil:
		return exitReason(*prev, s, m, recheck)

	case prev.QueryText.Full != next.QueryText.Full:
		return ReasonMap{Change: &ChangeMatch{Match: *next, Reason: ChangeReasonText}}

	case prev.Range.To != next.Range.To:
		reason := ChangeReasonMove
		if !s.Selection().Empty() {
			reason = ChangeReasonSelectionInside
		}
		return ReasonMap{Change: &ChangeMatch{Match: *next, Reason: reason}}
	}
	return ReasonMap{}
}

// jumpReason classifies leaving prev for next. If prev itself was
// changed by the edit, its exit is classified like an insertion.
func jumpReason(prev, next Match, s *engine.EditorState, m transform.Mapper, recheck rechecker) ReasonMap {
	var exit *ExitMatch
	if updated := recheck(prev); updated != nil && updated.QueryText.Full != prev.QueryText.Full {
		exit = insertReason(prev, updated, m)
	}

	forward := prev.Range.From < next.Range.From

	exitReason, changeReason := ExitReasonJumpBackward, ChangeReasonJumpBackward
	if forward {
		exitReason, changeReason = ExitReasonJumpForward, ChangeReasonJumpForward
	}
	if exit == nil {
		exit = &ExitMatch{Match: prev, Reason: exitReason}
	}
	return ReasonMap{
		Exit:   exit,
		Change: &ChangeMatch{Match: next, Reason: changeReason},
	}
}

// exitReason classifies leaving prev without entering another match.
func exitReason(prev Match, s *engine.EditorState, m transform.Mapper, recheck rechecker) ReasonMap {
	updated := recheck(prev)
	if updated == nil || updated.QueryText.Full != prev.QueryText.Full {
		if exit := insertReason(prev, updated, m); exit != nil {
			return ReasonMap{Exit: exit}
		}
		return ReasonMap{}
	}

	sel := s.Selection()
	cursor := sel.From()

	switch {
	case !sel.Empty() && (sel.From() < prev.Range.From || sel.To() > prev.Range.End):
		return ReasonMap{Exit: &ExitMatch{Match: prev, Reason: ExitReasonSelectionOutside}}
	case cursor > prev.Range.End:
		return ReasonMap{Exit: &ExitMatch{Match: prev, Reason: ExitReasonMoveEnd}}
	case cursor <= prev.Range.From:
		return ReasonMap{Exit: &ExitMatch{Match: prev, Reason: ExitReasonMoveStart}}
	}
	return ReasonMap{}
}

// insertReason classifies an exit caused by an edit to the match's own
// text. updated is the re-checked match, possibly nil.
func insertReason(prev Match, updated *Match, m transform.Mapper) *ExitMatch {
	switch {
	case updated == nil && removed(prev, m):
		return &ExitMatch{Match: prev, Reason: ExitReasonRemoved}
	case updated == nil || updated.QueryText.Partial == "":
		return &ExitMatch{Match: prev, Reason: ExitReasonInvalidSplit}
	case prev.Range.To == updated.Range.End:
		return &ExitMatch{Match: *updated, Reason: ExitReasonEnd}
	case prev.QueryText.Partial != "":
		return &ExitMatch{Match: *updated, Reason: ExitReasonSplit}
	}
	return nil
}

// removed reports whether the edit deleted any of the previous match's
// own text, trigger or query. Edits around the match never count.
func removed(prev Match, m transform.Mapper) bool {
	for pos := prev.Range.From; pos < prev.Range.End; pos++ {
		if m.MapResult(pos, 1).Deleted {
			return true
		}
	}
	return false
}
