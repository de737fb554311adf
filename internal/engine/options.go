package engine

import "go.uber.org/zap"

// Option configures an EditorState during creation.
type Option func(*EditorState)

// WithLogger sets the logger used by the state and views created from it.
func WithLogger(logger *zap.Logger) Option {
	return func(s *EditorState) {
		if logger != nil {
			s.logger = logger
		}
	}
}
