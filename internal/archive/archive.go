/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */


// Package archive bundles a board file and its backups into a single zip
// and restores such bundles.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "blackboard/internal/log"
	"blackboard/internal/storage"
	"blackboard/internal/version"
)

// ManifestName is the plain-text manifest stored at the archive root.
const ManifestName = "blackboard.manifest.txt"

// ErrUnsafePath reports an archive entry that would land outside the target directory.
var ErrUnsafePath = errors.New("archive entry escapes target directory")

// Pack zips the board file at boardPath together with its backups directory
// into destZipPath. A missing board file still produces an archive holding
// whatever backups exist plus the manifest. Returns the number of files added.
func Pack(boardPath, destZipPath string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("archive"), "pack").With(slog.String("board", boardPath))
	if strings.TrimSpace(boardPath) == "" {
		return 0, errors.New("board path is required")
	}
	if strings.TrimSpace(destZipPath) == "" {
		return 0, errors.New("destination path is required")
	}
	if err := os.MkdirAll(filepath.Dir(destZipPath), 0o755); err != nil {
		return 0, fmt.Errorf("ensure dest dir: %w", err)
	}
	out, err := os.Create(destZipPath)
	if err != nil {
		return 0, fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = out.Close() }()
	zw := zip.NewWriter(out)

	manifest := fmt.Sprintf("Blackboard archive\nBoard: %s\nCreated: %s\nVersion: %s\n",
		filepath.Base(boardPath), time.Now().Format(time.RFC3339), version.String())
	w, err := zw.Create(ManifestName)
	if err != nil {
		return 0, fmt.Errorf("add manifest: %w", err)
	}
	if _, err := io.WriteString(w, manifest); err != nil {
		return 0, fmt.Errorf("write manifest: %w", err)
	}

	added := 0
	if _, err := os.Stat(boardPath); err == nil {
		if err := addFile(zw, boardPath, filepath.Base(boardPath)); err != nil {
			return added, fmt.Errorf("add board: %w", err)
		}
		added++
	}

	h := &storage.BoardHandle{Path: boardPath}
	backups, err := storage.Backups(h)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		l.Error("list backups failed", slog.Any("err", err))
		return added, err
	}
	for _, b := range backups {
		name := storage.BackupsDirName + "/" + filepath.Base(b)
		if err := addFile(zw, b, name); err != nil {
			return added, fmt.Errorf("add backup: %w", err)
		}
		added++
	}
	if err := zw.Close(); err != nil {
		return added, fmt.Errorf("finalize zip: %w", err)
	}
	l.Info("board archived", slog.Int("files", added), slog.String("zip", destZipPath))
	return added, nil
}

func addFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	fw, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(fw, f)
	return err
}

// Unpack extracts an archive made by Pack into dir. Existing files are
// never overwritten; they are skipped and logged. Returns the count of
// files written.
func Unpack(zipPath, dir string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("archive"), "unpack").With(slog.String("dir", dir))
	if strings.TrimSpace(zipPath) == "" {
		return 0, errors.New("archive path is required")
	}
	if strings.TrimSpace(dir) == "" {
		return 0, errors.New("target directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("ensure target dir: %w", err)
	}
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = r.Close() }()

	root, err := filepath.Abs(dir)
	if err != nil {
		return 0, err
	}
	installed := 0
	for _, f := range r.File {
		if f.Name == ManifestName || f.FileInfo().IsDir() {
			continue
		}
		target := filepath.Join(root, filepath.FromSlash(f.Name))
		if rel, err := filepath.Rel(root, target); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return installed, fmt.Errorf("%w: %s", ErrUnsafePath, f.Name)
		}
		if _, err := os.Stat(target); err == nil {
			l.Warn("skip existing file", slog.String("path", target))
			continue
		}
		if err := extract(f, target); err != nil {
			return installed, err
		}
		installed++
	}
	l.Info("archive unpacked", slog.Int("files", installed))
	return installed, nil
}

func extract(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
