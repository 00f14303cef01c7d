package logging

import "github.com/vvka-141/sparkify/pkg/sparkify"

// NullLogger is a no-op logger that discards all log messages.
type NullLogger struct{}

var _ sparkify.Logger = (*NullLogger)(nil)

// NewNullLogger creates a new NullLogger.
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Verbose(format string, args ...interface{}) {}

func (l *NullLogger) Info(format string, args ...interface{}) {}

func (l *NullLogger) Error(format string, args ...interface{}) {}
