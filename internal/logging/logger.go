// =============================================================================
// Requisition Filler - Logging
// =============================================================================
//
// Every component logs through the Logger interface so the CLI decides where
// output goes and how verbose it is. The console implementation writes
// "[LEVEL] message" lines with coloured level tags; colour is dropped
// automatically when the output is not a terminal.
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Logger is the logging interface used throughout the application.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel converts "debug", "info", "warn" or "error" into a Level.
// Unknown values fall back to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// =============================================================================
// CONSOLE LOGGER
// =============================================================================

// Console writes levelled log lines to an io.Writer.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
	tags  map[Level]string
}

// NewConsole creates a console logger writing to out at the given level.
func NewConsole(out io.Writer, level Level) *Console {
	return &Console{
		out:   out,
		level: level,
		tags: map[Level]string{
			LevelDebug: color.New(color.FgHiBlack).Sprint("[DEBUG]"),
			LevelInfo:  color.New(color.FgCyan).Sprint("[INFO]"),
			LevelWarn:  color.New(color.FgYellow).Sprint("[WARN]"),
			LevelError: color.New(color.FgRed, color.Bold).Sprint("[ERROR]"),
		},
	}
}

// NewStderr creates a console logger on standard error.
func NewStderr(level Level) *Console {
	return NewConsole(os.Stderr, level)
}

func (c *Console) Debug(msg string, args ...interface{}) { c.log(LevelDebug, msg, args...) }
func (c *Console) Info(msg string, args ...interface{})  { c.log(LevelInfo, msg, args...) }
func (c *Console) Warn(msg string, args ...interface{})  { c.log(LevelWarn, msg, args...) }
func (c *Console) Error(msg string, args ...interface{}) { c.log(LevelError, msg, args...) }

func (c *Console) log(level Level, msg string, args ...interface{}) {
	if level < c.level {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s\n", c.tags[level], fmt.Sprintf(msg, args...))
}

// =============================================================================
// NOP LOGGER
// =============================================================================

// Nop discards everything. Useful as a default and in tests.
type Nop struct{}

func (Nop) Debug(string, ...interface{}) {}
func (Nop) Info(string, ...interface{})  {}
func (Nop) Warn(string, ...interface{})  {}
func (Nop) Error(string, ...interface{}) {}

// OrNop returns l, or a Nop logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop{}
	}
	return l
}
