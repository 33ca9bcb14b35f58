/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"blackboard/internal/domain"
	applog "blackboard/internal/log"
)

const (
	BackupsDirName = "backups"
	backupStamp    = "20060102-150405.000"
)

// LineWarning describes a board file line that was skipped on load.
type LineWarning struct {
	Line int
	Text string
	Err  error
}

func (w LineWarning) String() string { return fmt.Sprintf("line %d: %v", w.Line, w.Err) }

// BoardHandle tracks one board file loaded from or saved to disk.
type BoardHandle struct {
	Path    string
	Records []domain.Record
	// Warnings lists skipped lines from the last Open.
	Warnings []LineWarning
	// MaxBackups caps the timestamped backups kept by Save; <= 0 keeps all.
	MaxBackups int
	// RestoredFrom is the backup file used when the board file was unreadable.
	RestoredFrom string
}

// BackupsDir returns the directory holding backups for the board file.
func (h *BoardHandle) BackupsDir() string {
	return filepath.Join(filepath.Dir(h.Path), BackupsDirName)
}

// Open loads the board file at path. A missing file yields an empty board.
// If the file exists but cannot be read, the latest backup is used instead.
func Open(path string) (*BoardHandle, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "open").With(slog.String("path", path))
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("board path is required")
	}
	h := &BoardHandle{Path: path}
	f, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		l.Info("no board file yet; starting empty")
		return h, nil
	case err != nil:
		recs, warns, bpath, berr := openFromLatestBackup(h)
		if berr != nil {
			return nil, fmt.Errorf("open board: %w; backup attempt: %v", err, berr)
		}
		l.Warn("board file unreadable; restored from backup", slog.String("backup", bpath), slog.Any("err", err))
		h.Records, h.Warnings, h.RestoredFrom = recs, warns, bpath
		return h, nil
	}
	defer func() { _ = f.Close() }()

	recs, warns, rerr := Read(f)
	if rerr != nil {
		recs, warns, bpath, berr := openFromLatestBackup(h)
		if berr != nil {
			return nil, fmt.Errorf("read board: %w; backup attempt: %v", rerr, berr)
		}
		l.Warn("board file unreadable; restored from backup", slog.String("backup", bpath), slog.Any("err", rerr))
		h.Records, h.Warnings, h.RestoredFrom = recs, warns, bpath
		return h, nil
	}
	for _, w := range warns {
		l.Warn("skipping malformed line", slog.Int("line", w.Line), slog.Any("err", w.Err))
	}
	h.Records, h.Warnings = recs, warns
	l.Debug("board loaded", slog.Int("records", len(recs)), slog.Int("skipped", len(warns)))
	return h, nil
}

// Read decodes board records from r. Malformed lines are skipped and
// reported; blank lines are ignored. Only I/O failures return an error.
func Read(r io.Reader) ([]domain.Record, []LineWarning, error) {
	var recs []domain.Record
	var warns []LineWarning
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := DecodeRecord(line)
		if err != nil {
			warns = append(warns, LineWarning{Line: n, Text: line, Err: err})
			continue
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	return recs, warns, nil
}

// Write encodes recs to w, one line each.
func Write(w io.Writer, recs []domain.Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range recs {
		line, err := EncodeRecord(r)
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes h.Records to h.Path with transactional semantics and a
// timestamped backup of the previous file (if present).
func Save(h *BoardHandle) error {
	if h == nil {
		return errors.New("nil BoardHandle")
	}
	if h.Path == "" {
		return errors.New("invalid BoardHandle: missing path")
	}
	l := applog.WithOperation(applog.WithComponent("storage"), "save").With(slog.String("path", h.Path))

	var buf bytes.Buffer
	if err := Write(&buf, h.Records); err != nil {
		return fmt.Errorf("encode board: %w", err)
	}
	dir := filepath.Dir(h.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure board dir: %w", err)
	}

	if _, statErr := os.Stat(h.Path); statErr == nil {
		bdir := h.BackupsDir()
		if err := os.MkdirAll(bdir, 0o755); err != nil {
			return fmt.Errorf("ensure backups dir: %w", err)
		}
		bpath := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(h.Path), time.Now().Format(backupStamp)))
		if err := copyFile(h.Path, bpath); err != nil {
			return fmt.Errorf("backup current board: %w", err)
		}
		if err := pruneBackups(h); err != nil {
			l.Warn("prune backups failed", slog.Any("err", err))
		}
	}

	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(h.Path), os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, buf.Bytes()); err != nil {
		return fmt.Errorf("write temp board: %w", err)
	}
	// Windows refuses to rename over an existing file.
	if _, err := os.Stat(h.Path); err == nil {
		_ = os.Remove(h.Path)
	}
	if err := os.Rename(temp, h.Path); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace board: %w", err)
	}
	l.Info("board saved", slog.Int("records", len(h.Records)))
	return nil
}

// AutosaveCrashSnapshot writes the current records to a crash file in the
// backups dir without touching the board file itself.
func AutosaveCrashSnapshot(h *BoardHandle) (string, error) {
	if h == nil || h.Path == "" {
		return "", errors.New("invalid BoardHandle")
	}
	bdir := h.BackupsDir()
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, h.Records); err != nil {
		return "", fmt.Errorf("encode board: %w", err)
	}
	path := filepath.Join(bdir, fmt.Sprintf("%s.crash-%s", filepath.Base(h.Path), time.Now().Format(backupStamp)))
	if err := writeFileSync(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// Backups lists the backup files for h, oldest first.
func Backups(h *BoardHandle) ([]string, error) {
	ents, err := os.ReadDir(h.BackupsDir())
	if err != nil {
		return nil, err
	}
	prefix := filepath.Base(h.Path) + "."
	var out []string
	for _, e := range ents {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".bak") {
			out = append(out, filepath.Join(h.BackupsDir(), name))
		}
	}
	sort.Strings(out) // timestamp in name yields lexicographic order
	return out, nil
}

func pruneBackups(h *BoardHandle) error {
	if h.MaxBackups <= 0 {
		return nil
	}
	all, err := Backups(h)
	if err != nil {
		return err
	}
	var errs []error
	for len(all) > h.MaxBackups {
		if err := os.Remove(all[0]); err != nil {
			errs = append(errs, err)
		}
		all = all[1:]
	}
	return errors.Join(errs...)
}

func openFromLatestBackup(h *BoardHandle) ([]domain.Record, []LineWarning, string, error) {
	all, err := Backups(h)
	if err != nil {
		return nil, nil, "", fmt.Errorf("read backups dir: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, "", errors.New("no backups found")
	}
	latest := all[len(all)-1]
	f, err := os.Open(latest)
	if err != nil {
		return nil, nil, "", fmt.Errorf("open latest backup: %w", err)
	}
	defer func() { _ = f.Close() }()
	recs, warns, err := Read(f)
	if err != nil {
		return nil, nil, "", fmt.Errorf("read latest backup: %w", err)
	}
	return recs, warns, latest, nil
}

// writeFileSync writes data to a file and flushes it to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies src to dst, overwriting dst.
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
