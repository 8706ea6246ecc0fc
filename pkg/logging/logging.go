// Package logging exposes a zap logger factory with log levels.
//
// Loggers write to stderr so that output from child processes streamed on
// stdout stays machine-consumable.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LogLevelInfo sets the log level to info
	LogLevelInfo = "info"

	// LogLevelDebug sets the log level to debug
	LogLevelDebug = "debug"

	// LogLevelNone disables logging
	LogLevelNone = "none"
)

// Option tunes the underlying zap configuration
type Option func(*zap.Config)

// Console switches the encoder to a human-readable console layout with
// wall-clock timestamps. The default is production JSON.
func Console() Option {
	return func(c *zap.Config) {
		c.Encoding = "console"
		c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		c.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		c.DisableStacktrace = true
	}
}

// GetLogger returns a zap logger with the specified level
func GetLogger(logLevel string, opts ...Option) (*zap.Logger, error) {
	if logLevel == LogLevelNone {
		return zap.NewNop(), nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, err
	}
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	zapConfig.DisableCaller = true
	for _, apply := range opts {
		apply(&zapConfig)
	}
	return zapConfig.Build()
}

// MustGetLogger returns a zap logger with the specified level or panics
func MustGetLogger(logLevel string, opts ...Option) *zap.Logger {
	l, err := GetLogger(logLevel, opts...)
	if err != nil {
		panic(err)
	}
	return l
}
