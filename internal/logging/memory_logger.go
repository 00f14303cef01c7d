package logging

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// Level identifies which Logger method produced an Entry.
type Level string

const (
	LevelVerbose Level = "verbose"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Entry is one formatted message recorded by a MemoryLogger.
type Entry struct {
	Level   Level
	Message string
}

// MemoryLogger records every message, verbose ones included.
type MemoryLogger struct {
	mu      sync.Mutex
	entries []Entry
}

var _ sparkify.Logger = (*MemoryLogger)(nil)

// NewMemoryLogger creates an empty MemoryLogger.
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Verbose(format string, args ...interface{}) {
	l.record(LevelVerbose, format, args)
}

func (l *MemoryLogger) Info(format string, args ...interface{}) {
	l.record(LevelInfo, format, args)
}

func (l *MemoryLogger) Error(format string, args ...interface{}) {
	l.record(LevelError, format, args)
}

// Entries returns a copy of the recorded entries in order.
func (l *MemoryLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Contains reports whether any entry at level contains substr.
func (l *MemoryLogger) Contains(level Level, substr string) bool {
	for _, e := range l.Entries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func (l *MemoryLogger) record(level Level, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Level: level, Message: msg})
}
