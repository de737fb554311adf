package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrMismatchedTransaction indicates a transaction applied to a state
	// other than the one it was created from.
	ErrMismatchedTransaction = errors.New("transaction does not belong to this state")

	// ErrSelectionOutOfRange indicates a selection endpoint outside the document.
	ErrSelectionOutOfRange = errors.New("selection out of range")

	// ErrDuplicatePluginKey indicates two plugins sharing a key.
	ErrDuplicatePluginKey = errors.New("duplicate plugin key")

	// ErrViewDestroyed indicates an operation on a destroyed view.
	ErrViewDestroyed = errors.New("view is destroyed")
)
