/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log sets up the process-wide slog logger for blackboard.
// Records carry the static attributes app and ver; callers narrow the
// logger with WithComponent and WithOperation.
package log

import (
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"blackboard/internal/version"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization.
// Values can be provided directly or via environment variables:
//   - BB_LOG_LEVEL=debug|info|warn|error
//   - BB_LOG_FORMAT=console|json
//   - BB_LOG_FILE=<path> (JSON file log with rotation)
//   - BB_LOG_SOURCE=true|false
type Options struct {
	Level     string
	Format    string // "console" or "json"
	AddSource bool
	File      string
}

var (
	defaultLoggerMu sync.RWMutex
	defaultLogger   *slog.Logger
	level           = new(slog.LevelVar)
)

// L returns the default application logger, initializing from env if needed.
func L() *slog.Logger {
	defaultLoggerMu.RLock()
	l := defaultLogger
	defaultLoggerMu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// Init configures the global logger and installs it as slog.Default.
func Init(opts Options) {
	level.Set(parseLevel(opts.Level))
	hopts := &slog.HandlerOptions{Level: level, AddSource: opts.AddSource}

	var handlers []slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		handlers = append(handlers, slog.NewJSONHandler(os.Stderr, hopts))
	} else {
		handlers = append(handlers, &consoleHandler{opts: hopts, w: os.Stderr})
	}
	if f := strings.TrimSpace(opts.File); f != "" {
		w := &lj.Logger{Filename: f, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		handlers = append(handlers, slog.NewJSONHandler(w, hopts))
	}

	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = fanout(handlers)
	}
	logger := slog.New(h).With(
		slog.String("app", "blackboard"),
		slog.String("ver", version.Version),
		slog.Time("ts_init", time.Now()),
	)

	defaultLoggerMu.Lock()
	defaultLogger = logger
	defaultLoggerMu.Unlock()
	slog.SetDefault(logger)
}

// SetLevel changes the minimum level of every installed handler.
func SetLevel(s string) { level.Set(parseLevel(s)) }

// FromEnv builds Options from BB_LOG_* environment variables.
func FromEnv() Options {
	return Options{
		Level:     getenv("BB_LOG_LEVEL", "info"),
		Format:    getenv("BB_LOG_FORMAT", "console"),
		AddSource: strings.EqualFold(getenv("BB_LOG_SOURCE", "false"), "true"),
		File:      os.Getenv("BB_LOG_FILE"),
	}
}

// Overlay fills empty fields of o from fallback. Environment values
// passed as o win over configuration passed as fallback.
func (o Options) Overlay(fallback Options) Options {
	if strings.TrimSpace(o.Level) == "" {
		o.Level = fallback.Level
	}
	if strings.TrimSpace(o.Format) == "" {
		o.Format = fallback.Format
	}
	if strings.TrimSpace(o.File) == "" {
		o.File = fallback.File
	}
	o.AddSource = o.AddSource || fallback.AddSource
	return o
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 100}))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
