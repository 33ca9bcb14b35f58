//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// These tests validate the Fyne-based UI components. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"blackboard/internal/board"
	"blackboard/internal/input"
	applog "blackboard/internal/log"
)

func newCanvas(t *testing.T) (*BoardCanvas, *board.Board) {
	t.Helper()
	test.NewApp()
	b := board.New(board.DefaultSettings(), nil, board.WithLogger(applog.Discard()))
	t.Cleanup(b.Close)
	return NewBoardCanvas(b), b
}

func mouse(x, y float32, btn desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: btn}
}

func TestBoardCanvas_ClickPlacesNoteAndTypes(t *testing.T) {
	c, b := newCanvas(t)

	c.MouseDown(mouse(50, 50, desktop.MouseButtonPrimary))
	c.MouseUp(mouse(50, 50, desktop.MouseButtonPrimary))
	if b.Len() != 1 {
		t.Fatalf("expected one note, got %d items", b.Len())
	}
	c.TypedRune('h')
	c.TypedRune('i')
	c.TypedKey(&fyne.KeyEvent{Name: fyne.KeyReturn})

	recs := b.Records()
	if len(recs) != 1 {
		t.Fatalf("expected one record, got %d", len(recs))
	}
}

func TestBoardCanvas_DragDrawsLine(t *testing.T) {
	c, b := newCanvas(t)

	c.MouseDown(mouse(100, 100, desktop.MouseButtonPrimary))
	c.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(250, 180)}})
	c.MouseUp(mouse(250, 180, desktop.MouseButtonPrimary))
	c.DragEnd()

	if got := len(b.Records()); got != 1 {
		t.Fatalf("expected one line record, got %d", got)
	}
}

func TestBoardCanvas_CtrlTracking(t *testing.T) {
	c, _ := newCanvas(t)
	c.KeyDown(&fyne.KeyEvent{Name: desktop.KeyControlLeft})
	if !c.ctrl {
		t.Fatal("ctrl not tracked")
	}
	c.FocusLost()
	if c.ctrl {
		t.Fatal("ctrl should reset on focus loss")
	}
}

func TestKeyMapping(t *testing.T) {
	cases := map[fyne.KeyName]input.Key{
		fyne.KeyReturn:    input.KeyEnter,
		fyne.KeyEnter:     input.KeyEnter,
		fyne.KeyBackspace: input.KeyBackspace,
		fyne.KeyEscape:    input.KeyEscape,
		fyne.KeyA:         input.KeyNone,
	}
	for name, want := range cases {
		if got := key(name); got != want {
			t.Fatalf("key(%s) = %v, want %v", name, got, want)
		}
	}
}

func TestRendererBuildsFrame(t *testing.T) {
	c, b := newCanvas(t)
	b.PinAt("/usr/bin/gimp", b.Settings().SearchBarPos(200))
	r := c.CreateRenderer()
	r.Refresh()

	objs := r.Objects()
	if len(objs) < 4 {
		t.Fatalf("expected background, bar, app and border, got %d objects", len(objs))
	}
	if _, ok := objs[0].(*canvas.Rectangle); !ok {
		t.Fatalf("first object should be the background, got %T", objs[0])
	}
}
