// Package engine provides the editor host the suggestion core plugs into.
//
// The engine package serves as the facade over the document and mapping
// sub-packages, combining an immutable editor state, transactions that
// record every step they apply, a plugin system with per-plugin state, and
// a view that dispatches transactions and forwards input to plugins.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - doc: immutable block document with resolved positions
//   - transform: step maps and mappings for carrying positions through edits
//
// Decoration sets produced by plugins live in renderer/decoration.
//
// # Basic Usage
//
//	state, _ := engine.Create(engine.Config{
//	    Doc:     doc.New(doc.Paragraph("")),
//	    Plugins: []*engine.Plugin{myPlugin},
//	})
//	view := engine.NewView(state)
//
//	view.TypeText("@al")   // each grapheme cluster is its own transaction
//	view.Backspace()
//	view.SetCursor(1)
//
// # Transactions
//
// A transaction starts from a state and accumulates steps:
//
//	tr := view.State().Tr()
//	tr.Insert(1, "hello")
//	tr.SetMeta("source", "paste")
//	view.Dispatch(tr)
//
// Applying a transaction runs every plugin's state Apply, then gives
// plugins a chance to append follow-up transactions. Appended transactions
// carry MetaAppendedTransaction.
//
// # Plugins
//
// Plugins are described by a PluginSpec. Each hook is optional:
//
//   - State: a field initialised with the state and updated on every apply
//   - AppendTransaction: follow-up transactions after an apply
//   - View: a per-view object notified after every state update
//   - Decorations: inline decorations to render
//   - HandleKeyDown / HandleTextInput: input interception
//
// # Threading
//
// States are immutable and may be shared. A View is single-threaded: all
// dispatching happens on the caller's goroutine, and plugin views may
// dispatch re-entrantly from their Update hook.
package engine
