package common

import "go.uber.org/zap"

// NewLogger builds the zap logger used across the disk and buffer
// packages. dev selects the human-readable development encoder (used by
// cmd/poolbench); production callers should pass false to get
// json output suitable for log aggregation.
func NewLogger(dev bool) *zap.Logger {
	var l *zap.Logger
	var err error
	if dev {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		// zap's own constructors only fail on a broken encoder/sink config,
		// which can't happen with the built-in presets used here.
		panic(err)
	}
	return l
}

// NopLogger returns a logger that discards everything, for tests that
// don't want log output on the wire.
func NopLogger() *zap.Logger {
	return zap.NewNop()
}
