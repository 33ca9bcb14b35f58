/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


package archive

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"blackboard/internal/storage"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func zipNames(t *testing.T, path string) []string {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer r.Close()
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

func TestPackAndUnpack(t *testing.T) {
	src := t.TempDir()
	board := filepath.Join(src, "board.txt")
	writeFile(t, board, "line\t0\t1\t10\t10\t20\t20\n")
	backup := filepath.Join(src, storage.BackupsDirName, "board.txt.20250101-000000.000.bak")
	writeFile(t, backup, "old\n")
	writeFile(t, filepath.Join(src, storage.BackupsDirName, "other.txt.20250101-000000.000.bak"), "x")

	zipPath := filepath.Join(src, "out", "board.zip")
	n, err := Pack(board, zipPath)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 files, got %d", n)
	}
	want := []string{"backups/board.txt.20250101-000000.000.bak", ManifestName, "board.txt"}
	sort.Strings(want)
	got := zipNames(t, zipPath)
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entries = %v, want %v", got, want)
		}
	}

	dst := t.TempDir()
	installed, err := Unpack(zipPath, dst)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if installed != 2 {
		t.Fatalf("expected 2 installed, got %d", installed)
	}
	b, err := os.ReadFile(filepath.Join(dst, "board.txt"))
	if err != nil || string(b) != "line\t0\t1\t10\t10\t20\t20\n" {
		t.Fatalf("board not restored: %q %v", b, err)
	}
	if _, err := os.Stat(filepath.Join(dst, ManifestName)); !os.IsNotExist(err) {
		t.Fatalf("manifest should not be extracted")
	}

	// Second unpack skips everything.
	again, err := Unpack(zipPath, dst)
	if err != nil {
		t.Fatalf("second unpack: %v", err)
	}
	if again != 0 {
		t.Fatalf("expected existing files to be skipped, installed %d", again)
	}
}

func TestPackMissingBoard(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "empty.zip")
	n, err := Pack(filepath.Join(dir, "nope.txt"), zipPath)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no files, got %d", n)
	}
	if got := zipNames(t, zipPath); len(got) != 1 || got[0] != ManifestName {
		t.Fatalf("entries = %v", got)
	}
}

func TestUnpackRejectsEscapingEntries(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "evil.zip")
	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("../escaped.txt")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = w.Write([]byte("x"))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	target := filepath.Join(dir, "target")
	_, err = Unpack(zipPath, target)
	if !errors.Is(err, ErrUnsafePath) {
		t.Fatalf("expected ErrUnsafePath, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escaped.txt")); !os.IsNotExist(err) {
		t.Fatalf("entry escaped the target directory")
	}
}

func TestArgumentsRequired(t *testing.T) {
	if _, err := Pack("", "x.zip"); err == nil {
		t.Fatal("expected error for empty board path")
	}
	if _, err := Pack("board.txt", " "); err == nil {
		t.Fatal("expected error for empty destination")
	}
	if _, err := Unpack("", t.TempDir()); err == nil {
		t.Fatal("expected error for empty archive path")
	}
	if _, err := Unpack("a.zip", ""); err == nil {
		t.Fatal("expected error for empty dir")
	}
}
