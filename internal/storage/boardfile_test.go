/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"blackboard/internal/domain"
)

func sampleRecords() []domain.Record {
	return []domain.Record{
		domain.NoteRecord{Text: "buy chalk", X: 40, Y: 50, FontSize: 32, Color: 0},
		domain.LineRecord{StartX: 10, StartY: 10, EndX: 200, EndY: 120, Width: 6, Color: 2},
		domain.AppRecord{Path: "/usr/bin/gimp", X: 300, Y: 90, Color: 1, Name: "GIMP"},
	}
}

func TestOpenMissingFileIsEmptyBoard(t *testing.T) {
	h, err := Open(filepath.Join(t.TempDir(), "save.csv"))
	require.NoError(t, err)
	require.Empty(t, h.Records)
	require.Empty(t, h.Warnings)
}

func TestSaveThenOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "save.csv")
	require.NoError(t, Save(&BoardHandle{Path: path, Records: sampleRecords()}))

	h, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, sampleRecords(), h.Records)
	require.Empty(t, h.RestoredFrom)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		require.False(t, strings.Contains(e.Name(), ".tmp-"), "temp file left behind: %s", e.Name())
	}
}

func TestOpenSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.csv")
	content := strings.Join([]string{
		"TextNote,,hello,,1,,2,,32,,0",
		"Line,,1,,2,,three,,4,,6,,0",
		"",
		"App,,/bin/ls,,5,,6,,1,,ls",
		"Bogus,,1",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	h, err := Open(path)
	require.NoError(t, err)
	require.Len(t, h.Records, 2)
	require.Len(t, h.Warnings, 2)
	require.Equal(t, 2, h.Warnings[0].Line)
	require.Equal(t, 5, h.Warnings[1].Line)
	require.ErrorIs(t, h.Warnings[0].Err, ErrMalformedRecord)
}

func TestSaveCreatesBackupAndPrunes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.csv")
	h := &BoardHandle{Path: path, Records: sampleRecords(), MaxBackups: 2}
	for i := 0; i < 5; i++ {
		require.NoError(t, Save(h))
		time.Sleep(5 * time.Millisecond)
	}
	backups, err := Backups(h)
	require.NoError(t, err)
	require.Len(t, backups, 2)
}

func TestOpenFallsBackToLatestBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "save.csv")
	bdir := filepath.Join(dir, BackupsDirName)
	require.NoError(t, os.MkdirAll(bdir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bdir, "save.csv.20200101-000000.000.bak"), []byte("TextNote,,old,,1,,1,,32,,0\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(bdir, "save.csv.20240101-000000.000.bak"), []byte("TextNote,,new,,1,,1,,32,,0\n"), 0o644))
	// a directory where the board file should be makes reading fail
	require.NoError(t, os.MkdirAll(path, 0o755))

	h, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, []domain.Record{domain.NoteRecord{Text: "new", X: 1, Y: 1, FontSize: 32}}, h.Records)
	require.True(t, strings.HasSuffix(h.RestoredFrom, "20240101-000000.000.bak"))
}

func TestAutosaveCrashSnapshotWritesFile(t *testing.T) {
	h := &BoardHandle{Path: filepath.Join(t.TempDir(), "save.csv"), Records: sampleRecords()}
	path, err := AutosaveCrashSnapshot(h)
	require.NoError(t, err)
	require.Contains(t, filepath.Base(path), "save.csv.crash-")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	recs, warns, err := Read(f)
	require.NoError(t, err)
	require.Empty(t, warns)
	require.Equal(t, sampleRecords(), recs)
}
