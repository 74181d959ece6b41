// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package log provides unified logging functionality for the application
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Log levels
const (
	LevelTrace   = "trace"
	LevelDebug   = "debug"
	LevelVerbose = "verbose"
	LevelInfo    = "info"
	LevelWarn    = "warn"
	LevelError   = "error"
)

// levelRank orders levels from most to least severe
var levelRank = map[string]int{
	LevelError:   0,
	LevelWarn:    1,
	LevelInfo:    2,
	LevelVerbose: 3,
	LevelDebug:   4,
	LevelTrace:   5,
}

// Logger provides logging functionality for the application
type Logger struct {
	out            io.Writer
	errOut         io.Writer
	level          string
	showTimestamps bool
	mu             sync.Mutex
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Initialize creates the default logger with the specified level
func Initialize(level string, showTimestamps bool) {
	once.Do(func() {
		defaultLogger = NewLogger(level, showTimestamps)
	})
}

// GetLogger returns the default logger instance
func GetLogger() *Logger {
	once.Do(func() {
		// Default to info if not initialized
		defaultLogger = NewLogger(os.Getenv("LOG_LEVEL"), false)
	})
	return defaultLogger
}

// NewLogger creates a new logger writing to stdout and stderr
func NewLogger(level string, showTimestamps bool) *Logger {
	return &Logger{
		out:            os.Stdout,
		errOut:         os.Stderr,
		level:          normalizeLevel(level),
		showTimestamps: showTimestamps,
	}
}

func normalizeLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if _, ok := levelRank[level]; !ok {
		return LevelInfo
	}
	return level
}

// ValidLevel reports whether level names a known log level
func ValidLevel(level string) bool {
	_, ok := levelRank[strings.ToLower(strings.TrimSpace(level))]
	return ok
}

// SetLevel sets the logger level
func (l *Logger) SetLevel(level string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = normalizeLevel(level)
}

// GetLevel returns the current logger level
func (l *Logger) GetLevel() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetShowTimestamps toggles the timestamp prefix on every line
func (l *Logger) SetShowTimestamps(show bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.showTimestamps = show
}

// SetOutput redirects both standard and error output, mostly for tests
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
	l.errOut = w
}

// Enabled reports whether a message at level would be written
func (l *Logger) Enabled(level string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return levelRank[level] <= levelRank[l.level]
}

func (l *Logger) write(level, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	message := fmt.Sprintf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	w := l.out
	if level == LevelError {
		w = l.errOut
	}
	label := strings.ToUpper(level)
	if l.showTimestamps {
		fmt.Fprintf(w, "%s %s %s\n", time.Now().Format("2006-01-02 15:04:05"), label, message)
		return
	}
	fmt.Fprintf(w, "%s %s\n", label, message)
}

// Trace logs a trace message with optional formatting
func (l *Logger) Trace(format string, args ...interface{}) {
	l.write(LevelTrace, format, args...)
}

// Debug logs a debug message with optional formatting
func (l *Logger) Debug(format string, args ...interface{}) {
	l.write(LevelDebug, format, args...)
}

// Verbose logs a verbose message with optional formatting
func (l *Logger) Verbose(format string, args ...interface{}) {
	l.write(LevelVerbose, format, args...)
}

// Info logs an info message with optional formatting
func (l *Logger) Info(format string, args ...interface{}) {
	l.write(LevelInfo, format, args...)
}

// Warn logs a warning message with optional formatting
func (l *Logger) Warn(format string, args ...interface{}) {
	l.write(LevelWarn, format, args...)
}

// Error logs an error message with optional formatting
func (l *Logger) Error(format string, args ...interface{}) {
	l.write(LevelError, format, args...)
}

// Helper functions that use the default logger

func Trace(format string, args ...interface{}) {
	GetLogger().Trace(format, args...)
}

func Debug(format string, args ...interface{}) {
	GetLogger().Debug(format, args...)
}

func Verbose(format string, args ...interface{}) {
	GetLogger().Verbose(format, args...)
}

func Info(format string, args ...interface{}) {
	GetLogger().Info(format, args...)
}

func Warn(format string, args ...interface{}) {
	GetLogger().Warn(format, args...)
}

func Error(format string, args ...interface{}) {
	GetLogger().Error(format, args...)
}

// GetTimestampsEnabled reports whether the default logger prints timestamps
func GetTimestampsEnabled() bool {
	l := GetLogger()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.showTimestamps
}
