// Package logging provides leveled, structured key-value logging for strobe
// components. Output goes to stderr by default; when the terminal is in raw
// mode for rendering, the engine swaps in a file or discard writer so log
// lines never corrupt the frame buffer.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents a log level.
type Level int

const (
	// LevelDebug is for verbose per-cycle diagnostics.
	LevelDebug Level = iota
	// LevelInfo is for lifecycle events (startup, shutdown, connects).
	LevelInfo
	// LevelWarn is for recoverable per-connection and per-cycle errors.
	LevelWarn
	// LevelError is for failures that disable a feature.
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// Logger writes leveled key-value log lines for one named component.
type Logger struct {
	mu        sync.RWMutex
	minLevel  Level
	component string
	output    *log.Logger
}

// New creates a Logger for the named component, writing to stderr at info
// level.
func New(component string) *Logger {
	return &Logger{
		minLevel:  LevelInfo,
		component: component,
		output:    log.New(os.Stderr, "", log.LstdFlags),
	}
}

// Named returns a Logger for a sub-component, sharing level and output.
func (l *Logger) Named(component string) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return &Logger{
		minLevel:  l.minLevel,
		component: l.component + "." + component,
		output:    l.output,
	}
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.minLevel = level
	l.mu.Unlock()
}

// SetOutput redirects log output to w.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	l.output = log.New(w, "", log.LstdFlags)
	l.mu.Unlock()
}

// Debug logs a message at debug level.
func (l *Logger) Debug(msg string, keyVals ...interface{}) {
	l.log(LevelDebug, msg, keyVals...)
}

// Info logs a message at info level.
func (l *Logger) Info(msg string, keyVals ...interface{}) {
	l.log(LevelInfo, msg, keyVals...)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(msg string, keyVals ...interface{}) {
	l.log(LevelWarn, msg, keyVals...)
}

// Error logs a message at error level.
func (l *Logger) Error(msg string, keyVals ...interface{}) {
	l.log(LevelError, msg, keyVals...)
}

func (l *Logger) log(level Level, msg string, keyVals ...interface{}) {
	l.mu.RLock()
	minLevel := l.minLevel
	component := l.component
	output := l.output
	l.mu.RUnlock()

	if level < minLevel {
		return
	}

	var sb strings.Builder
	sb.WriteString(levelNames[level])
	sb.WriteString(" [")
	sb.WriteString(component)
	sb.WriteString("] ")
	sb.WriteString(msg)

	for i := 0; i+1 < len(keyVals); i += 2 {
		key, ok := keyVals[i].(string)
		if !ok {
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(key)
		sb.WriteString("=")
		sb.WriteString(formatValue(keyVals[i+1]))
	}

	output.Print(sb.String())
}

// formatValue formats a value for logging, quoting strings that contain
// whitespace.
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		if strings.ContainsAny(val, " \t\n") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case error:
		return fmt.Sprintf("%q", val.Error())
	default:
		return fmt.Sprintf("%v", val)
	}
}
