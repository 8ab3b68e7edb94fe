package logger

import (
	"sync"
)

// Log levels accepted in config (log.level).
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	// globalLogger is shared by the daemon and the CLI subcommands.
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger. The first call fixes the initial level;
// later calls return the same instance, whose level can still be moved with SetLevel.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level)
	})
	return globalLogger
}
