// Package logger provides the levelled diagnostic log of the validator.
// Diagnostics are separate from the progress lines the validator prints and
// are off unless enabled.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents the logging level
type Level int

const (
	// LevelOff disables all logging
	LevelOff Level = iota
	// LevelInfo shows run summaries and warnings
	LevelInfo
	// LevelDebug shows every document load
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "off"
	}
}

// ParseLevel converts a level name to a Level. The empty string is LevelOff.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "none":
		return LevelOff, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	}
	return LevelOff, fmt.Errorf("unknown log level %q (want off, info or debug)", s)
}

var mu sync.Mutex

var (
	currentLevel Level     = LevelOff
	out          io.Writer = os.Stderr
	startTime    time.Time = time.Now()
)

// SetLevel sets the global logging level and restarts the elapsed clock.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
	startTime = time.Now()
}

// GetLevel returns the current logging level
func GetLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return currentLevel
}

// SetOutput redirects log lines, returning the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

// IsDebug returns true if debug logging is enabled
func IsDebug() bool {
	return GetLevel() >= LevelDebug
}

// Info logs an informational message
func Info(format string, args ...any) {
	logf(LevelInfo, "", format, args...)
}

// Warn logs a warning at info level
func Warn(format string, args ...any) {
	logf(LevelInfo, "[WARN] ", format, args...)
}

// Debug logs a debug message
func Debug(format string, args ...any) {
	logf(LevelDebug, "[DEBUG] ", format, args...)
}

func logf(level Level, tag, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if currentLevel < level {
		return
	}
	elapsed := time.Since(startTime).Round(time.Millisecond)
	fmt.Fprintf(out, "[%s] %s%s\n", elapsed, tag, fmt.Sprintf(format, args...))
}
