/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blackboard/internal/domain"
	"blackboard/internal/storage"
)

func TestWriteReportCreatesFileInTemp(t *testing.T) {
	path, err := writeReport(nil, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(path) })
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "Blackboard Crash Report") {
		t.Fatalf("report header missing")
	}
	if !strings.Contains(s, "Panic: boom") {
		t.Fatalf("panic content missing: %s", s)
	}
}

func TestWriteReportCreatesFileInBackups(t *testing.T) {
	root := t.TempDir()
	h := &storage.BoardHandle{Path: filepath.Join(root, "save.csv")}

	path, err := writeReport(h, "kaboom", []byte("stack"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	if filepath.Dir(path) != h.BackupsDir() {
		t.Fatalf("expected crash report under backups dir, got %s", path)
	}
}

// muteStderr swaps os.Stderr for a drained pipe until the test ends.
func muteStderr(t *testing.T) {
	t.Helper()
	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stderr = w
	done := make(chan struct{})
	go func() {
		_, _ = io.Copy(io.Discard, r)
		close(done)
	}()
	t.Cleanup(func() {
		_ = w.Close()
		<-done
		os.Stderr = old
	})
}

func stubExit(t *testing.T) *int {
	t.Helper()
	code := -1
	old := exitFn
	exitFn = func(c int) { code = c }
	t.Cleanup(func() { exitFn = old })
	return &code
}

func TestRecoverWritesReportAndSnapshot(t *testing.T) {
	muteStderr(t)
	code := stubExit(t)

	root := t.TempDir()
	h := &storage.BoardHandle{Path: filepath.Join(root, "save.csv")}
	live := []domain.Record{domain.NoteRecord{Text: "unsaved", X: 1, Y: 2, FontSize: 32}}

	func() {
		defer Recover(h, func() []domain.Record { return live })
		panic("boom")
	}()

	if *code != 2 {
		t.Fatalf("expected exit code 2, got %d", *code)
	}
	files, err := os.ReadDir(h.BackupsDir())
	if err != nil {
		t.Fatalf("read backups: %v", err)
	}
	var report, snap string
	for _, f := range files {
		switch {
		case strings.HasPrefix(f.Name(), "crash-") && strings.HasSuffix(f.Name(), ".log"):
			report = filepath.Join(h.BackupsDir(), f.Name())
		case strings.Contains(f.Name(), ".crash-"):
			snap = filepath.Join(h.BackupsDir(), f.Name())
		}
	}
	if report == "" || snap == "" {
		t.Fatalf("missing report or snapshot: %v", files)
	}
	b, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(b), "Panic: boom") {
		t.Fatalf("report does not contain panic: %s", b)
	}
	s, err := os.ReadFile(snap)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if !strings.Contains(string(s), "unsaved") {
		t.Fatalf("snapshot missing live records: %s", s)
	}
}

type closer struct {
	calls int
	err   error
}

func (c *closer) Close() error {
	c.calls++
	return c.err
}

type panicCloser struct{}

func (panicCloser) Close() error { panic("close boom") }

func TestRecoverClosesResourcesBeforeExit(t *testing.T) {
	muteStderr(t)
	code := -1
	a := &closer{err: errors.New("busy")}
	b := &closer{}
	old := exitFn
	exitFn = func(c int) {
		if a.calls != 1 || b.calls != 1 {
			t.Errorf("exit before close: a=%d b=%d", a.calls, b.calls)
		}
		code = c
	}
	t.Cleanup(func() { exitFn = old })

	h := &storage.BoardHandle{Path: filepath.Join(t.TempDir(), "save.csv")}
	func() {
		defer Recover(h, nil, a, panicCloser{}, b)
		panic("boom")
	}()

	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("closers not run once: a=%d b=%d", a.calls, b.calls)
	}
}

func TestRecoverWithoutPanicIsNoop(t *testing.T) {
	code := stubExit(t)
	c := &closer{}
	func() {
		defer Recover(nil, nil, c)
	}()
	if *code != -1 {
		t.Fatalf("exit called with %d", *code)
	}
	if c.calls != 0 {
		t.Fatalf("closer ran without a panic")
	}
}
