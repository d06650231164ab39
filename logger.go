// Copyright 2025 The ratescompare Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with domain-specific methods
type Logger struct {
	*slog.Logger
}

// NewLogger creates a text-formatted logger
func NewLogger(debug bool) *Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	return &Logger{slog.New(handler)}
}

// NewJSONLogger creates a JSON-formatted logger
func NewJSONLogger(debug bool) *Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(os.Stderr, opts)
	return &Logger{slog.New(handler)}
}

// WithComponent adds a component field to the logger
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{l.With("component", component)}
}

// LogIntervalsLoaded logs loader progress
func (l *Logger) LogIntervalsLoaded(source string, count int, days int) {
	l.Info("Usage intervals loaded",
		"source", source,
		"intervals", count,
		"days", days,
	)
}

// LogDataQuality logs a non-fatal data quality condition
func (l *Logger) LogDataQuality(date time.Time, minutes int) {
	l.Warn("Incomplete day coverage",
		"date", date.Format("2006-01-02"),
		"covered_minutes", minutes,
		"expected_minutes", MinutesPerDay,
	)
}

// LogPlanEvaluated logs a completed plan evaluation
func (l *Logger) LogPlanEvaluated(title string, months int) {
	l.Info("Plan evaluated",
		"plan", title,
		"months", months,
	)
}

// LogPlanFailed logs a plan that could not be evaluated
func (l *Logger) LogPlanFailed(title string, err error) {
	l.Error("Plan evaluation failed",
		"plan", title,
		"error", err,
	)
}

// LogStorageOperation logs storage operations
func (l *Logger) LogStorageOperation(operation, path string) {
	l.Debug("Storage operation",
		"operation", operation,
		"path", path,
	)
}

// UserMessage outputs a message directly to stdout (bypassing structured logging)
func (l *Logger) UserMessage(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}
