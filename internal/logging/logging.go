// Package logging builds zap loggers from textual settings.
package logging

import (
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel parses a level name. Unknown names select info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Option configures New.
type Option func(*options)

type options struct {
	writer      io.Writer
	outputPaths []string
}

// WithWriter sends log output to w instead of the configured paths.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// WithOutputPaths sets zap output paths. Defaults to stderr.
func WithOutputPaths(paths ...string) Option {
	return func(o *options) {
		if len(paths) > 0 {
			o.outputPaths = paths
		}
	}
}

// New builds a logger for the given level name. The debug level selects
// zap's development config, every other level the production config.
func New(level string, opts ...Option) (*zap.Logger, error) {
	o := options{outputPaths: []string{"stderr"}}
	for _, opt := range opts {
		opt(&o)
	}

	lvl := ParseLevel(level)
	cfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = o.outputPaths
	cfg.ErrorOutputPaths = []string{"stderr"}

	if o.writer != nil {
		encoder := zapcore.NewJSONEncoder(cfg.EncoderConfig)
		if cfg.Encoding == "console" {
			encoder = zapcore.NewConsoleEncoder(cfg.EncoderConfig)
		}
		core := zapcore.NewCore(encoder, zapcore.AddSync(o.writer), cfg.Level)
		return zap.New(core), nil
	}
	return cfg.Build()
}
