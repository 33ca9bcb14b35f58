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
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"blackboard/internal/board"
	"blackboard/internal/input"
)

// BoardCanvas hosts a board in a fyne window. It turns pointer and key
// callbacks into input events and redraws after each one.
type BoardCanvas struct {
	widget.BaseWidget

	board *board.Board
	ctrl  bool
	icons iconCache
}

var (
	_ desktop.Mouseable = (*BoardCanvas)(nil)
	_ desktop.Hoverable = (*BoardCanvas)(nil)
	_ desktop.Keyable   = (*BoardCanvas)(nil)
	_ fyne.Draggable    = (*BoardCanvas)(nil)
	_ fyne.Focusable    = (*BoardCanvas)(nil)
)

func NewBoardCanvas(b *board.Board) *BoardCanvas {
	c := &BoardCanvas{board: b, icons: iconCache{}}
	c.ExtendBaseWidget(c)
	return c
}

func (c *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &boardRenderer{c: c}
}

// MinSize keeps the search bar reachable.
func (c *BoardCanvas) MinSize() fyne.Size { return fyne.NewSize(320, 240) }

func (c *BoardCanvas) dispatch(e input.Event) {
	c.board.HandleEvent(e)
	c.Refresh()
}

func pos(p fyne.Position) (int, int) { return int(p.X), int(p.Y) }

func button(b desktop.MouseButton) input.Button {
	switch b {
	case desktop.MouseButtonPrimary:
		return input.ButtonLeft
	case desktop.MouseButtonSecondary:
		return input.ButtonRight
	case desktop.MouseButtonTertiary:
		return input.ButtonMiddle
	}
	return input.ButtonNone
}

func (c *BoardCanvas) MouseDown(e *desktop.MouseEvent) {
	if cv := fyne.CurrentApp().Driver().CanvasForObject(c); cv != nil {
		cv.Focus(c)
	}
	x, y := pos(e.Position)
	c.ctrl = e.Modifier&fyne.KeyModifierControl != 0
	c.dispatch(input.Down(x, y, button(e.Button)))
}

func (c *BoardCanvas) MouseUp(e *desktop.MouseEvent) {
	x, y := pos(e.Position)
	c.dispatch(input.Up(x, y, button(e.Button)))
}

func (c *BoardCanvas) MouseIn(*desktop.MouseEvent) {}

func (c *BoardCanvas) MouseMoved(e *desktop.MouseEvent) {
	x, y := pos(e.Position)
	c.dispatch(input.Move(x, y))
}

func (c *BoardCanvas) MouseOut() {}

// Dragged replaces MouseMoved while a button is held.
func (c *BoardCanvas) Dragged(e *fyne.DragEvent) {
	x, y := pos(e.Position)
	c.dispatch(input.Move(x, y))
}

func (c *BoardCanvas) DragEnd() {}

func (c *BoardCanvas) FocusGained() {}
func (c *BoardCanvas) FocusLost()   { c.ctrl = false }

func (c *BoardCanvas) TypedRune(r rune) { c.dispatch(input.Type(r)) }

func (c *BoardCanvas) TypedKey(e *fyne.KeyEvent) {
	if k := key(e.Name); k != input.KeyNone {
		c.dispatch(input.Press(k, c.ctrl))
	}
}

func (c *BoardCanvas) KeyDown(e *fyne.KeyEvent) {
	if isCtrl(e.Name) {
		c.ctrl = true
	}
}

func (c *BoardCanvas) KeyUp(e *fyne.KeyEvent) {
	if isCtrl(e.Name) {
		c.ctrl = false
	}
}

// key maps the editing keys; printable input arrives through TypedRune.
func key(n fyne.KeyName) input.Key {
	switch n {
	case fyne.KeyReturn, fyne.KeyEnter:
		return input.KeyEnter
	case fyne.KeyBackspace:
		return input.KeyBackspace
	case fyne.KeyEscape:
		return input.KeyEscape
	}
	return input.KeyNone
}

func isCtrl(n fyne.KeyName) bool {
	return n == desktop.KeyControlLeft || n == desktop.KeyControlRight
}

type boardRenderer struct {
	c       *BoardCanvas
	objects []fyne.CanvasObject
}

func (r *boardRenderer) Destroy()                     {}
func (r *boardRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *boardRenderer) MinSize() fyne.Size           { return r.c.MinSize() }

func (r *boardRenderer) Layout(size fyne.Size) {
	w, h := int(size.Width), int(size.Height)
	if bw, bh := r.c.board.Size(); bw != w || bh != h {
		r.c.board.Resize(w, h)
	}
}

// Refresh rebuilds the frame from scratch.
func (r *boardRenderer) Refresh() {
	s := &fyneSurface{icons: r.c.icons}
	r.c.board.DrawFrame(s)
	r.objects = s.objects
	canvas.Refresh(r.c)
}
