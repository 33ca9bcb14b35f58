/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package session assembles a board from the user configuration: the board
// file, the history index, the search service and the launcher.
package session

import (
	"fmt"
	"log/slog"

	"blackboard/internal/board"
	"blackboard/internal/config"
	"blackboard/internal/domain"
	"blackboard/internal/launch"
	applog "blackboard/internal/log"
	"blackboard/internal/search"
	"blackboard/internal/storage"
	"blackboard/internal/textlayout"
)

// Session is one open board.
type Session struct {
	Config  config.AppConfig
	Handle  *storage.BoardHandle
	History *storage.History // nil when the index could not be opened
	Search  *search.Service
	Board   *board.Board
	Log     *slog.Logger
}

// Options tunes Open. Zero values mean defaults.
type Options struct {
	// SaveFile overrides the configured board file.
	SaveFile string
	Launcher launch.Launcher
	Chooser  search.Chooser
	Notifier board.Notifier
	// NoHistory skips the history index.
	NoHistory bool
}

// InitLogging installs the global logger from the logging section.
func InitLogging(c config.LoggingConfig) {
	applog.Init(applog.Options{Level: c.Level, Format: c.Format, AddSource: c.Source, File: c.File})
}

// Open loads the board file and wires its collaborators. A history index
// that fails to open is logged and skipped.
func Open(cfg config.AppConfig, o Options) (*Session, error) {
	l := applog.WithComponent("session")
	if o.SaveFile != "" {
		cfg.General.SaveFile = o.SaveFile
	}

	measure, err := textlayout.Load(cfg.Board.ChalkFont)
	if err != nil {
		l.Warn("chalk font unavailable; using basic font", slog.String("path", cfg.Board.ChalkFont), slog.Any("err", err))
	}
	settings, err := board.SettingsFrom(cfg.Board, measure)
	if err != nil {
		return nil, fmt.Errorf("board settings: %w", err)
	}

	h, err := storage.Open(cfg.General.SaveFile)
	if err != nil {
		return nil, fmt.Errorf("open board: %w", err)
	}
	h.MaxBackups = cfg.General.MaxBackups
	for _, w := range h.Warnings {
		l.Warn("skipped board line", slog.String("path", h.Path), slog.String("warning", w.String()))
	}
	if h.RestoredFrom != "" {
		l.Warn("board restored from backup", slog.String("backup", h.RestoredFrom))
	}

	s := &Session{Config: cfg, Handle: h, Log: l}
	if !o.NoHistory {
		hist, err := storage.OpenHistory(cfg.General.ResolvedHistoryDir())
		if err != nil {
			l.Warn("history index unavailable", slog.Any("err", err))
		} else {
			s.History = hist
		}
	}

	s.Search = &search.Service{
		Roots:      cfg.General.SearchRoots,
		MaxResults: cfg.General.SearchMaxResults,
		Log:        applog.WithComponent("search"),
	}
	launcher := o.Launcher
	if launcher == nil {
		launcher = launch.OSLauncher{}
	}
	if s.History != nil {
		s.Search.Recorder = s.History
		launcher = launch.Recording{Next: launcher, Recorder: s.History}
	}

	opts := []board.Option{
		board.WithLauncher(launcher),
		board.WithSearch(s.Search, o.Chooser),
	}
	if o.Notifier != nil {
		opts = append(opts, board.WithNotifier(o.Notifier))
	}
	s.Board = board.New(settings, h.Records, opts...)
	l.Info("board opened", slog.String("path", h.Path), slog.Int("records", len(h.Records)), slog.Int("skipped", len(h.Warnings)))
	return s, nil
}

// Records returns the live board records.
func (s *Session) Records() []domain.Record { return s.Board.Records() }

// Save writes the live board through the transactional save.
func (s *Session) Save() error {
	s.Handle.Records = s.Board.Records()
	if err := storage.Save(s.Handle); err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	return nil
}

// Close stops background work and closes the history index. It does not
// save.
func (s *Session) Close() error {
	s.Board.Close()
	if s.History == nil {
		return nil
	}
	if err := s.History.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}
	return nil
}
