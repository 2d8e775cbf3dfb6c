// Package logging builds the zap loggers used by registries, tests and examples.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewConsole writes human-readable logs at level and above to stdout.
func NewConsole(level zapcore.Level) *zap.Logger {
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stdout),
		level,
	)
	return zap.New(consoleCore)
}

// NewTest is the debug console logger used by tests.
func NewTest() *zap.Logger {
	return NewConsole(zap.DebugLevel)
}

// ParseLevel accepts zap level names ("debug", "info", ...). An empty string means info.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zap.InfoLevel, nil
	}
	return zapcore.ParseLevel(s)
}
