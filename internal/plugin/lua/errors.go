package lua

import "errors"

// Errors for Lua host operations.
var (
	// ErrStateClosed is returned when operating on a closed host.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrInvalidDefinition is returned for a malformed suggest.register call.
	ErrInvalidDefinition = errors.New("invalid suggester definition")
)
