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
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"blackboard/internal/vector"
)

// iconCache keeps one file icon widget per path across frames.
type iconCache map[string]*widget.FileIcon

func (ic iconCache) get(path string) *widget.FileIcon {
	if i, ok := ic[path]; ok {
		return i
	}
	i := widget.NewFileIcon(storage.NewFileURI(path))
	ic[path] = i
	return i
}

// fyneSurface collects canvas objects for one frame in paint order.
type fyneSurface struct {
	objects []fyne.CanvasObject
	icons   iconCache
}

func place(o fyne.CanvasObject, x, y, w, h int) fyne.CanvasObject {
	o.Move(fyne.NewPos(float32(x), float32(y)))
	o.Resize(fyne.NewSize(float32(w), float32(h)))
	return o
}

func (s *fyneSurface) FillRect(r vector.Rect, c vector.Color) {
	s.objects = append(s.objects, place(canvas.NewRectangle(c), r.X, r.Y, r.W, r.H))
}

func (s *fyneSurface) StrokeRect(r vector.Rect, width int, c vector.Color) {
	rect := canvas.NewRectangle(color.Transparent)
	rect.StrokeColor = c
	rect.StrokeWidth = float32(width)
	s.objects = append(s.objects, place(rect, r.X, r.Y, r.W, r.H))
}

func (s *fyneSurface) Line(a, b vector.Pt, width int, c vector.Color) {
	l := canvas.NewLine(c)
	l.StrokeWidth = float32(width)
	l.Position1 = fyne.NewPos(float32(a.X), float32(a.Y))
	l.Position2 = fyne.NewPos(float32(b.X), float32(b.Y))
	s.objects = append(s.objects, l)
}

func (s *fyneSurface) Text(at vector.Pt, txt string, size int, c vector.Color) {
	t := canvas.NewText(txt, c)
	t.TextSize = float32(size)
	t.Move(fyne.NewPos(float32(at.X), float32(at.Y)))
	t.Resize(t.MinSize())
	s.objects = append(s.objects, t)
}

func (s *fyneSurface) Icon(r vector.Rect, path string) {
	s.objects = append(s.objects, place(s.icons.get(path), r.X, r.Y, r.W, r.H))
}
