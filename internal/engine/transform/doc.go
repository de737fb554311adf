// Package transform maps document positions through edits.
//
// Every text replacement produces a StepMap describing the replaced range
// and the size of its replacement. A Mapping chains step maps in the order
// the edits were applied so positions recorded against an old document can
// be carried forward to the current one:
//
//	m := transform.NewMapping()
//	m.AppendMap(transform.NewStepMap(3, 0, 5)) // insert 5 at 3
//	m.Map(10, 1)                               // 15
//
// The assoc argument decides which side a position sticks to when an edit
// happens exactly at it: negative keeps it before inserted content, positive
// moves it after.
package transform
