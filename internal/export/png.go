/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a board to PNG, SVG and PDF files. Each format is
// a board.Surface; the board draws itself onto it exactly as on screen.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"blackboard/internal/board"
	"blackboard/internal/textlayout"
	"blackboard/internal/vector"
)

// PNG rasterizes b at its current size and writes it to path.
func PNG(b *board.Board, path string) error {
	img := Raster(b)
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

// Raster draws b into a new RGBA image.
func Raster(b *board.Board) *image.RGBA {
	s := b.Settings()
	w, h := b.Size()
	rs := &rasterSurface{img: image.NewRGBA(image.Rect(0, 0, w, h)), faces: faceSource(s.Measure)}
	b.DrawFrame(rs)
	return rs.img
}

func faceSource(m textlayout.Measurer) textlayout.FaceSource {
	if fs, ok := m.(textlayout.FaceSource); ok {
		return fs
	}
	return textlayout.BasicMeasurer{}
}

type rasterSurface struct {
	img   *image.RGBA
	faces textlayout.FaceSource
}

func (r *rasterSurface) FillRect(rc vector.Rect, c vector.Color) {
	rect := image.Rect(rc.X, rc.Y, rc.X+rc.W, rc.Y+rc.H)
	draw.Draw(r.img, rect, &image.Uniform{C: c}, image.Point{}, draw.Over)
}

func (r *rasterSurface) StrokeRect(rc vector.Rect, width int, c vector.Color) {
	if width <= 0 {
		return
	}
	r.FillRect(vector.R(rc.X, rc.Y, rc.W, width), c)
	r.FillRect(vector.R(rc.X, rc.Y+rc.H-width, rc.W, width), c)
	r.FillRect(vector.R(rc.X, rc.Y, width, rc.H), c)
	r.FillRect(vector.R(rc.X+rc.W-width, rc.Y, width, rc.H), c)
}

// Line stamps a square brush of the given width along a Bresenham walk.
func (r *rasterSurface) Line(a, b vector.Pt, width int, c vector.Color) {
	width = max(width, 1)
	half := width / 2
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	stamp := func(x, y int) {
		for dy := -half; dy < width-half; dy++ {
			for dx := -half; dx < width-half; dx++ {
				if image.Pt(x+dx, y+dy).In(r.img.Rect) {
					r.img.SetRGBA(x+dx, y+dy, rgba)
				}
			}
		}
	}
	x0, y0, x1, y1 := a.X, a.Y, b.X, b.Y
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		stamp(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (r *rasterSurface) Text(at vector.Pt, s string, size int, c vector.Color) {
	face := r.faces.Face(size)
	d := &font.Drawer{Dst: r.img, Src: &image.Uniform{C: c}, Face: face}
	d.Dot = fixed.P(at.X, at.Y).Add(fixed.Point26_6{Y: face.Metrics().Ascent})
	d.DrawString(s)
}

// Icon draws a neutral tile with the first letter of the file name; there
// is no platform icon lookup outside the UI.
func (r *rasterSurface) Icon(rc vector.Rect, path string) {
	r.FillRect(rc, iconFill)
	r.StrokeRect(rc, 1, iconStroke)
	if l := iconLetter(path); l != "" {
		r.Text(rc.Min().Add(vector.P(rc.W/4, rc.H/4)), l, rc.H/2, iconStroke)
	}
}

var (
	iconFill   = vector.Color{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	iconStroke = vector.Color{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
)

func iconLetter(path string) string {
	for _, r := range board.BaseName(path) {
		return string(r)
	}
	return ""
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
