//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"

	"blackboard/internal/board"
	"blackboard/internal/config"
	"blackboard/internal/crash"
	applog "blackboard/internal/log"
	"blackboard/internal/session"
	"blackboard/internal/vector"
)

// dropSpacing separates apps pinned from one multi-file drop.
const dropSpacing = 48

// Run opens the configured board in a window and blocks until it closes.
// The board is saved on Ctrl+S and when the window closes.
func Run(cfg config.AppConfig) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	fyneApp := app.NewWithID("blackboard")
	w := fyneApp.NewWindow("Blackboard")
	w.SetPadded(false)

	notify := board.NotifierFunc(func(title, message string) {
		fyne.Do(func() { dialog.ShowInformation(title, message, w) })
	})
	s, err := session.Open(cfg, session.Options{Chooser: dialogChooser{win: w}, Notifier: notify})
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			l.Warn("close session", slog.Any("err", err))
		}
	}()
	defer crash.Recover(s.Handle, s.Records, s)

	bc := NewBoardCanvas(s.Board)
	w.SetContent(bc)
	w.Resize(fyne.NewSize(float32(cfg.Board.Width), float32(cfg.Board.Height)))

	save := func() {
		if err := s.Save(); err != nil {
			l.Error("save failed", slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		l.Info("board saved", slog.String("path", s.Handle.Path))
	}
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		save()
	})

	w.SetOnDropped(func(at fyne.Position, uris []fyne.URI) {
		for i, u := range uris {
			if u.Scheme() != "file" {
				l.Info("ignoring dropped uri", slog.String("uri", u.String()))
				continue
			}
			s.Board.PinAt(u.Path(), vector.P(int(at.X)+i*dropSpacing, int(at.Y)))
		}
		bc.Refresh()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tick(ctx, cfg.Board.FPS, func() {
		if s.Board.Poll() > 0 {
			bc.Refresh()
		}
	})

	w.SetCloseIntercept(func() {
		cancel()
		save()
		w.Close()
	})

	w.ShowAndRun()
	return nil
}

// tick runs fn on the fyne thread fps times per second until ctx ends.
func tick(ctx context.Context, fps int, fn func()) {
	if fps <= 0 {
		fps = 30
	}
	t := time.NewTicker(time.Second / time.Duration(fps))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fyne.Do(fn)
		}
	}
}
