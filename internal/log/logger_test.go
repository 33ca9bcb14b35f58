/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestInitWritesJSONFileWithStaticAttrs(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "blackboard.log")
	Init(Options{Level: "debug", Format: "json", File: fpath})
	t.Cleanup(func() { Init(Options{Level: "error"}) })

	l := WithOperation(WithComponent("board"), "spawn")
	l.Info("note spawned", slog.Int("x", 50))

	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var last string
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines found")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	if m["app"] != "blackboard" {
		t.Fatalf("app attr mismatch: %v", m["app"])
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
	if m["component"] != "board" || m["op"] != "spawn" {
		t.Fatalf("context attrs mismatch: %v", m)
	}
	if m["msg"] != "note spawned" || m["x"] != float64(50) {
		t.Fatalf("record mismatch: %v", m)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("BB_LOG_LEVEL", "warn")
	t.Setenv("BB_LOG_FORMAT", "json")
	t.Setenv("BB_LOG_SOURCE", "true")
	t.Setenv("BB_LOG_FILE", "")

	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" || !opts.AddSource || opts.File != "" {
		t.Fatalf("FromEnv mismatch: %+v", opts)
	}
}

func TestOverlayPrefersExplicitValues(t *testing.T) {
	got := Options{Level: "debug"}.Overlay(Options{Level: "error", Format: "json", File: "x.log"})
	if got.Level != "debug" || got.Format != "json" || got.File != "x.log" {
		t.Fatalf("overlay mismatch: %+v", got)
	}
}

func TestConsoleHandlerFormatsAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	lv := new(slog.LevelVar)
	lv.Set(slog.LevelWarn)
	h := &consoleHandler{opts: &slog.HandlerOptions{Level: lv}, w: &buf}

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should be filtered at warn level")
	}
	h2 := h.WithAttrs([]slog.Attr{slog.String("k", "v")}).WithGroup("grp")
	r := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
	r.AddAttrs(slog.Int("n", 42), slog.Float64("pi", 3.14), slog.String("path", "a b"))
	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("handle: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ERR", "boom", "k=v", "grp.n=42", "grp.pi=3.14", `grp.path="a b"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestConsoleHandlerAddsSource(t *testing.T) {
	var buf bytes.Buffer
	h := &consoleHandler{opts: &slog.HandlerOptions{Level: slog.LevelInfo, AddSource: true}, w: &buf}
	slog.New(h).Info("where")
	out := buf.String()
	if !strings.Contains(out, " src=") || !strings.Contains(out, "logger_test.go:") {
		t.Fatalf("output %q missing source", out)
	}

	buf.Reset()
	r := slog.NewRecord(time.Now(), slog.LevelInfo, "nopc", 0)
	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if strings.Contains(buf.String(), "src=") {
		t.Fatalf("record without pc should have no source: %q", buf.String())
	}
}

func TestFanoutReachesAllHandlers(t *testing.T) {
	var a, b bytes.Buffer
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	l := slog.New(fanout([]slog.Handler{slog.NewJSONHandler(&a, opts), &consoleHandler{opts: opts, w: &b}}))
	l.Info("hello")
	if !strings.Contains(a.String(), "hello") || !strings.Contains(b.String(), "hello") {
		t.Fatalf("fanout missed a handler: %q / %q", a.String(), b.String())
	}
}
