// Package suggest detects trigger patterns such as "@mention", "#tag" or
// ":emoji:" around the cursor and reports why a match appeared, changed or
// went away between edits.
//
// # Overview
//
// A Suggester describes one trigger: its trigger string, the characters a
// query may contain, what may precede the trigger, and the callbacks to run.
// Suggest wraps any number of suggesters into a single engine plugin:
//
//	plugin, err := suggest.Suggest(suggest.Suggester{
//	    Name: "at",
//	    Char: "@",
//	    OnChange: func(p suggest.ChangeProps, tr *engine.Transaction) {
//	        fmt.Println(p.Reason, p.QueryText.Full)
//	    },
//	    OnExit: func(p suggest.ExitProps, tr *engine.Transaction) {
//	        fmt.Println("exit", p.Reason)
//	    },
//	})
//
// # Two phases
//
// Every transaction is processed in two phases. The plugin's state Apply
// runs the matcher at the new cursor and classifies the difference between
// the previous and the next match into a ReasonMap. Callbacks fire later:
// suggesters with AppendTransaction set run from the plugin's
// AppendTransaction hook and may add steps to the transaction they receive;
// all other suggesters run after the view has been updated.
//
// # Reasons
//
// Change reasons: Start, Text, Move, SelectionInside, JumpForward and
// JumpBackward. Exit reasons: End, Removed, Split, InvalidSplit, MoveEnd,
// MoveStart, SelectionOutside, JumpForward and JumpBackward. A jump from one
// match to another fires the exit of the old match before the change of the
// new one, in both directions.
//
// # Ignored regions
//
// A callback can silence a match location with AddIgnored. The trigger
// characters are then covered by an inline decoration that is carried
// through later edits and dropped once text is typed inside it.
//
// # Errors
//
// Registration errors (duplicate names, missing triggers) are returned. A
// suggester whose pattern fails to compile, or whose IsValidPosition
// predicate panics, is skipped with a warning and never blocks other
// suggesters. Callbacks are not wrapped.
package suggest
