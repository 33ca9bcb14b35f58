/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "blackboard/internal/log"
	"blackboard/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	HistoryDirName  = ".blackboard"
	HistoryFileName = "history.sqlite"

	// schemaVersion tracks the history schema. Bump it and add a migration
	// step for breaking changes.
	schemaVersion = 2
)

// language=SQL
// dialect=SQLite
const insertLaunchSQL = `INSERT INTO launches(path, ts, ok, error) VALUES (?, ?, ?, ?)`

// language=SQL
// dialect=SQLite
const insertSearchSQL = `INSERT INTO searches(pattern, ts, results) VALUES (?, ?, ?)`

// language=SQL
// dialect=SQLite
const recentLaunchesSQL = `SELECT path, ts, ok, error FROM launches ORDER BY id DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const recentSearchesSQL = `SELECT pattern, ts, results FROM searches ORDER BY id DESC LIMIT ?`

// LaunchEntry is one recorded launch attempt.
type LaunchEntry struct {
	Path  string
	At    time.Time
	OK    bool
	Error string
}

// SearchEntry is one recorded search.
type SearchEntry struct {
	Pattern string
	At      time.Time
	Results int
}

// History is the embedded launch/search log.
type History struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// HistoryPath returns the database path for a board directory.
func HistoryPath(dir string) string {
	return filepath.Join(dir, HistoryDirName, HistoryFileName)
}

// OpenHistory ensures <dir>/.blackboard/history.sqlite exists, enables WAL
// mode, and brings the schema up to date.
func OpenHistory(dir string) (*History, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "history_open").With(slog.String("dir", dir))
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("history dir is required")
	}
	if err := os.MkdirAll(filepath.Join(dir, HistoryDirName), 0o755); err != nil {
		l.Error("create history dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create %s dir: %w", HistoryDirName, err)
	}

	path := HistoryPath(dir)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureHistorySchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure history schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}
	l.Debug("history ready", slog.String("path", path))
	return &History{db: db, path: path, now: time.Now}, nil
}

// Path returns the database file path.
func (h *History) Path() string { return h.path }

// Close releases the database.
func (h *History) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}

// RecordLaunch stores a launch attempt; launchErr nil means success.
func (h *History) RecordLaunch(ctx context.Context, path string, launchErr error) error {
	msg := ""
	if launchErr != nil {
		msg = launchErr.Error()
	}
	_, err := h.db.ExecContext(ctx, insertLaunchSQL, path, h.stamp(), launchErr == nil, msg)
	if err != nil {
		return fmt.Errorf("record launch: %w", err)
	}
	return nil
}

// RecordSearch stores a submitted search and how many candidates it found.
func (h *History) RecordSearch(ctx context.Context, pattern string, results int) error {
	if _, err := h.db.ExecContext(ctx, insertSearchSQL, pattern, h.stamp(), results); err != nil {
		return fmt.Errorf("record search: %w", err)
	}
	return nil
}

// RecentLaunches returns up to limit launches, newest first.
func (h *History) RecentLaunches(ctx context.Context, limit int) ([]LaunchEntry, error) {
	rows, err := h.db.QueryContext(ctx, recentLaunchesSQL, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query launches: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []LaunchEntry
	for rows.Next() {
		var e LaunchEntry
		var ts string
		if err := rows.Scan(&e.Path, &ts, &e.OK, &e.Error); err != nil {
			return nil, err
		}
		e.At, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// RecentSearches returns up to limit searches, newest first.
func (h *History) RecentSearches(ctx context.Context, limit int) ([]SearchEntry, error) {
	rows, err := h.db.QueryContext(ctx, recentSearchesSQL, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query searches: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []SearchEntry
	for rows.Next() {
		var e SearchEntry
		var ts string
		if err := rows.Scan(&e.Pattern, &ts, &e.Results); err != nil {
			return nil, err
		}
		e.At, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (h *History) stamp() string { return h.now().UTC().Format(time.RFC3339Nano) }

func clampLimit(n int) int {
	if n <= 0 {
		return 20
	}
	return n
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// fresh database: start at 1 and let runMigrations walk forward
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, 1, ?, ?, ?)`, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

func ensureHistorySchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS launches (
			id    INTEGER PRIMARY KEY,
			path  TEXT    NOT NULL,
			ts    TEXT    NOT NULL,
			ok    INTEGER NOT NULL,
			error TEXT    NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS searches (
			id      INTEGER PRIMARY KEY,
			pattern TEXT    NOT NULL,
			ts      TEXT    NOT NULL,
			results INTEGER NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure history schema: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for cur < schemaVersion {
		next := cur + 1
		var stmts []string
		switch next {
		case 2:
			stmts = []string{
				`CREATE INDEX IF NOT EXISTS idx_launches_path ON launches(path);`,
				`CREATE INDEX IF NOT EXISTS idx_searches_pattern ON searches(pattern);`,
			}
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", next, err)
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d stmt failed: %w", next, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d update version: %w", next, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d commit: %w", next, err)
		}
		cur = next
	}
	return nil
}
