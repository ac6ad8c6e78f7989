// Package log wraps go.uber.org/zap so the core pipeline packages depend on
// a small interface instead of a concrete logger, keeping them free of any
// particular logging transport. Core packages (internal/importresolver)
// only ever call Debugw for tracing; only cmd/nitrogql constructs a real
// *zap.Logger.
package log

import "go.uber.org/zap"

// Logger is the minimal surface the core depends on.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

// zapLogger adapts *zap.SugaredLogger to Logger.
type zapLogger struct{ sugar *zap.SugaredLogger }

func (z *zapLogger) Debugw(msg string, kv ...interface{}) { z.sugar.Debugw(msg, kv...) }
func (z *zapLogger) Infow(msg string, kv ...interface{})  { z.sugar.Infow(msg, kv...) }
func (z *zapLogger) Warnw(msg string, kv ...interface{})  { z.sugar.Warnw(msg, kv...) }
func (z *zapLogger) Errorw(msg string, kv ...interface{}) { z.sugar.Errorw(msg, kv...) }

// New builds a production zap.Logger (JSON, info level) wrapped as a Logger.
// verbose lowers the level to debug, matching a CLI's `-v` flag.
func New(verbose bool) (Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &zapLogger{sugar: zl.Sugar()}, nil
}

// Nop returns a Logger that discards everything, for tests and library
// callers that don't want zap's output on stderr.
func Nop() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}
