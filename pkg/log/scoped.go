// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package log

import "fmt"

// ScopedLogger prefixes every message and may narrow the global log level
type ScopedLogger struct {
	prefix   string
	logLevel string
}

// NewScopedLogger creates a new scoped logger. An empty logLevel defers to the global level.
func NewScopedLogger(prefix, logLevel string) *ScopedLogger {
	return &ScopedLogger{
		prefix:   prefix,
		logLevel: logLevel,
	}
}

// Prefix returns the scope prefix, e.g. "[resolver]"
func (s *ScopedLogger) Prefix() string {
	return s.prefix
}

// shouldLog checks the scope override; the global logger still applies its own level
func (s *ScopedLogger) shouldLog(level string) bool {
	if s.logLevel == "" {
		return true
	}
	scopeLevel, scopeExists := levelRank[s.logLevel]
	messageLevel, messageExists := levelRank[level]
	if !scopeExists || !messageExists {
		return true
	}
	return messageLevel <= scopeLevel
}

func (s *ScopedLogger) format(format string) string {
	if s.prefix == "" {
		return format
	}
	return fmt.Sprintf("%s %s", s.prefix, format)
}

func (s *ScopedLogger) Trace(format string, args ...interface{}) {
	if s.shouldLog(LevelTrace) {
		Trace(s.format(format), args...)
	}
}

func (s *ScopedLogger) Debug(format string, args ...interface{}) {
	if s.shouldLog(LevelDebug) {
		Debug(s.format(format), args...)
	}
}

func (s *ScopedLogger) Verbose(format string, args ...interface{}) {
	if s.shouldLog(LevelVerbose) {
		Verbose(s.format(format), args...)
	}
}

func (s *ScopedLogger) Info(format string, args ...interface{}) {
	if s.shouldLog(LevelInfo) {
		Info(s.format(format), args...)
	}
}

func (s *ScopedLogger) Warn(format string, args ...interface{}) {
	if s.shouldLog(LevelWarn) {
		Warn(s.format(format), args...)
	}
}

func (s *ScopedLogger) Error(format string, args ...interface{}) {
	if s.shouldLog(LevelError) {
		Error(s.format(format), args...)
	}
}
