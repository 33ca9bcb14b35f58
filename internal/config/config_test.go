/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigFile, p)
	for _, k := range []string{EnvSaveFile, EnvSearchRoots, EnvHistoryDir, EnvLogLevel, EnvLogFormat, EnvLogSource, EnvLogFile} {
		t.Setenv(k, "")
	}
	return p
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Board.Width != 900 || cfg.Board.Height != 600 || cfg.Board.ChalkFontSize != 32 {
		t.Fatalf("unexpected defaults: %+v", cfg.Board)
	}
	if cfg.General.SaveFile != "save.csv" {
		t.Fatalf("SaveFile = %q", cfg.General.SaveFile)
	}
}

func TestSaveThenLoadRoundTripsBoardSection(t *testing.T) {
	isolate(t)
	cfg := Defaults()
	cfg.Board.Palette = []string{"#ffffff", "#ff0000"}
	cfg.Board.MinFontSize = 4
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(got.Board.Palette) != 2 || got.Board.Palette[1] != "#ff0000" || got.Board.MinFontSize != 4 {
		t.Fatalf("board section not persisted: %+v", got.Board)
	}
}

func TestEnvOverridesSaveFileAndRoots(t *testing.T) {
	isolate(t)
	t.Setenv(EnvSaveFile, "/tmp/board.csv")
	t.Setenv(EnvSearchRoots, strings.Join([]string{"/a", " ", "/b"}, string(os.PathListSeparator)))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.General.SaveFile != "/tmp/board.csv" {
		t.Fatalf("SaveFile = %q", cfg.General.SaveFile)
	}
	if len(cfg.General.SearchRoots) != 2 || cfg.General.SearchRoots[0] != "/a" || cfg.General.SearchRoots[1] != "/b" {
		t.Fatalf("SearchRoots = %v", cfg.General.SearchRoots)
	}
	if env, ok := EnvOverrideFor("general.save_file"); !ok || env != EnvSaveFile {
		t.Fatalf("EnvOverrideFor(save_file) = %q, %v", env, ok)
	}
	if _, ok := EnvOverrideFor("board.width"); ok {
		t.Fatalf("board.width has no env override")
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := AppConfig{Logging: LoggingConfig{Level: " DEBUG ", Format: "json", Source: true, File: "/tmp/bb.log"}}
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/bb.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
	if dst.Board.Width != 900 {
		t.Fatalf("zero board fields must not clobber defaults: %+v", dst.Board)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	isolate(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "/tmp/bb.log")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "/tmp/bb.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Defaults()
	cfg.Board.Palette = []string{"white"}
	if err := Validate(cfg); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for bad palette color, got %v", err)
	}
	cfg = Defaults()
	cfg.Board.MinLineWidth = 0
	// zero is merged away on load, but a hand-built config must still be rejected
	if err := Validate(cfg); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for min_line_width 0, got %v", err)
	}
	if err := Validate(Defaults()); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadFileRejectsInvalidYAML(t *testing.T) {
	p := isolate(t)
	if err := os.WriteFile(p, []byte("board: [this is not a map"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(p); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestResolvedHistoryDir(t *testing.T) {
	g := GeneralConfig{SaveFile: filepath.Join("data", "save.csv")}
	if got := g.ResolvedHistoryDir(); got != "data" {
		t.Fatalf("ResolvedHistoryDir = %q", got)
	}
	g.HistoryDir = "/var/bb"
	if got := g.ResolvedHistoryDir(); got != "/var/bb" {
		t.Fatalf("ResolvedHistoryDir = %q", got)
	}
}
