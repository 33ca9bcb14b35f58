/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic in the host loop into a crash report and a
// snapshot of the board, then exits.
package crash

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"blackboard/internal/domain"
	applog "blackboard/internal/log"
	"blackboard/internal/storage"
	"blackboard/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Recover captures a panic, logs it with the stack, writes a report next
// to the board's backups and snapshots the live records from current.
// The closers run after the snapshot and before the process exits, since
// deferred calls registered earlier never get the chance. Either of h and
// current may be nil.
//
// Usage: defer crash.Recover(h, b.Records, sess)
func Recover(h *storage.BoardHandle, current func() []domain.Record, closers ...io.Closer) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	reportPath, err := writeReport(h, r, stack)
	if err != nil {
		l.Error("write crash report failed", slog.Any("err", err))
	}
	if h != nil {
		snapshot(l, h, current)
	}
	for _, c := range closers {
		closeQuietly(l, c)
	}

	if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
		l.Error("failed to write crash message to stderr", slog.Any("err", err))
	}
	if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
		l.Error("failed to write version info to stderr", slog.Any("err", err))
	}
	exitFn(2)
}

// snapshot must not panic again; a failing current falls back to the
// records last loaded or saved.
func snapshot(l *slog.Logger, h *storage.BoardHandle, current func() []domain.Record) {
	defer func() {
		if r := recover(); r != nil {
			l.Error("collecting records panicked", slog.Any("panic", r))
		}
	}()
	if current != nil {
		h.Records = current()
	}
	path, err := storage.AutosaveCrashSnapshot(h)
	if err != nil {
		l.Error("autosave crash snapshot failed", slog.Any("err", err))
		return
	}
	l.Info("autosave crash snapshot written", slog.String("path", path))
}

func closeQuietly(l *slog.Logger, c io.Closer) {
	defer func() {
		if r := recover(); r != nil {
			l.Error("close panicked", slog.Any("panic", r))
		}
	}()
	if err := c.Close(); err != nil {
		l.Warn("close after panic failed", slog.Any("err", err))
	}
}

func writeReport(h *storage.BoardHandle, panicVal any, stack []byte) (string, error) {
	dir := os.TempDir()
	if h != nil && h.Path != "" {
		dir = h.BackupsDir()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			dir = os.TempDir()
		}
	}
	now := time.Now()
	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", now.Format("20060102-150405.000")))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Blackboard Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", now.Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if h != nil {
		_, _ = fmt.Fprintf(&buf, "Board: %s\n", h.Path)
		_, _ = fmt.Fprintf(&buf, "Records: %d\n", len(h.Records))
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return path, err
	}
	_ = f.Sync()
	return path, nil
}
