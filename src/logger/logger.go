package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
)

// -----------------------------------------------------------------------------

// Logger provides named, levelled logging functionality
type Logger struct {
	name   string
	level  Level
	logger *log.Logger
	exit   func(int)
}

// -----------------------------------------------------------------------------

// NewLogger creates a new Logger instance writing to stdout. level is one of
// debug, info, warning, error; anything else means info.
func NewLogger(level string, name string) *Logger {
	return NewLoggerWithWriter(os.Stdout, level, name)
}

// NewLoggerWithWriter is NewLogger with an explicit destination.
func NewLoggerWithWriter(w io.Writer, level string, name string) *Logger {
	return &Logger{
		name:   name,
		level:  ParseLevel(level),
		logger: log.New(w, "", log.LstdFlags),
		exit:   os.Exit,
	}
}

// -----------------------------------------------------------------------------

// Named returns a logger sharing the destination and level under a new name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{name: name, level: l.level, logger: l.logger, exit: l.exit}
}

// -----------------------------------------------------------------------------

// ParseLevel maps a config string to a Level.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarning
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// -----------------------------------------------------------------------------

func (l *Logger) printf(level Level, tag string, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] %s: %s", l.name, tag, msg)
}

// Debug logs diagnostic messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.printf(LevelDebug, "DEBUG", format, args...)
}

// Warning logs recoverable problems
func (l *Logger) Warning(format string, args ...interface{}) {
	l.printf(LevelWarning, "WARNING", format, args...)
}

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.printf(LevelInfo, "INFO", format, args...)
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.printf(LevelError, "ERROR", format, args...)
}

// -----------------------------------------------------------------------------

// Critical logs critical errors and exits the application
func (l *Logger) Critical(format string, args ...interface{}) {
	l.printf(LevelCritical, "CRITICAL", format, args...)
	l.exit(1)
}
