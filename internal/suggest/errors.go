package suggest

import "errors"

// Errors returned by suggester registration and ignored-region operations.
var (
	// ErrDuplicateSuggester indicates two suggesters registered under one name.
	ErrDuplicateSuggester = errors.New("duplicate suggester name")

	// ErrSuggesterNotFound indicates an operation naming an unknown suggester.
	ErrSuggesterNotFound = errors.New("suggester not found")

	// ErrInvalidSuggester indicates a suggester without a name or trigger.
	ErrInvalidSuggester = errors.New("invalid suggester")

	// ErrPluginNotFound indicates an editor state without the suggest plugin.
	ErrPluginNotFound = errors.New("suggest plugin not found in state")
)
