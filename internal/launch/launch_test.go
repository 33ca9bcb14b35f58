/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package launch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCommandPerPlatform(t *testing.T) {
	name, args := Command("windows", `C:\tool.exe`)
	if name != "cmd" || len(args) != 4 || args[3] != `C:\tool.exe` {
		t.Fatalf("windows command = %s %v", name, args)
	}
	if name, _ := Command("darwin", "/x"); name != "open" {
		t.Fatalf("darwin command = %s", name)
	}
	if name, _ := Command("linux", "/x"); name != "xdg-open" {
		t.Fatalf("linux command = %s", name)
	}
}

func TestOSLauncherMissingFile(t *testing.T) {
	called := false
	l := OSLauncher{Start: func(string, ...string) error { called = true; return nil }}
	err := l.Launch(filepath.Join(t.TempDir(), "missing.exe"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if called {
		t.Fatalf("start must not run for a missing file")
	}
}

func TestOSLauncherStartsHandler(t *testing.T) {
	p := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	var gotName string
	var gotArgs []string
	l := OSLauncher{GOOS: "linux", Start: func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}}
	if err := l.Launch(p); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if gotName != "xdg-open" || len(gotArgs) != 1 || gotArgs[0] != p {
		t.Fatalf("started %s %v", gotName, gotArgs)
	}

	boom := errors.New("no handler")
	l.Start = func(string, ...string) error { return boom }
	if err := l.Launch(p); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped start error, got %v", err)
	}
}

type fakeRecorder struct {
	paths []string
	errs  []error
	fail  error
}

func (f *fakeRecorder) RecordLaunch(_ context.Context, path string, err error) error {
	f.paths = append(f.paths, path)
	f.errs = append(f.errs, err)
	return f.fail
}

func TestRecordingPassesThroughResult(t *testing.T) {
	rec := &fakeRecorder{fail: errors.New("db locked")}
	boom := errors.New("boom")
	r := Recording{Next: Func(func(string) error { return boom }), Recorder: rec}
	if err := r.Launch("/a"); !errors.Is(err, boom) {
		t.Fatalf("expected launch error, got %v", err)
	}
	if len(rec.paths) != 1 || rec.paths[0] != "/a" || !errors.Is(rec.errs[0], boom) {
		t.Fatalf("recorder saw %v %v", rec.paths, rec.errs)
	}
}
