/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"os"

	"blackboard/internal/board"
	"blackboard/internal/vector"
)

// SVG writes b as a standalone SVG document in board pixels.
func SVG(b *board.Board, path string) error {
	data, err := RenderSVG(b)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// RenderSVG returns the SVG document for b.
func RenderSVG(b *board.Board) ([]byte, error) {
	w, h := b.Size()
	sv := &svgSurface{}
	sv.wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	sv.wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"0 0 %d %d\">\n", w, h, w, h)
	b.DrawFrame(sv)
	sv.wf("</svg>\n")
	if sv.err != nil {
		return nil, fmt.Errorf("build svg: %w", sv.err)
	}
	return sv.buf.Bytes(), nil
}

type svgSurface struct {
	buf bytes.Buffer
	err error
}

func (sv *svgSurface) wf(format string, args ...any) {
	if sv.err != nil {
		return
	}
	_, sv.err = fmt.Fprintf(&sv.buf, format, args...)
}

func (sv *svgSurface) FillRect(r vector.Rect, c vector.Color) {
	sv.wf("  <rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" fill=\"%s\"%s/>\n", r.X, r.Y, r.W, r.H, svgColor(c), opacity("fill", c))
}

// StrokeRect insets the path by half the width so the stroke stays inside r.
func (sv *svgSurface) StrokeRect(r vector.Rect, width int, c vector.Color) {
	h := float64(width) / 2
	sv.wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"%s\" stroke-width=\"%d\"%s/>\n",
		float64(r.X)+h, float64(r.Y)+h, float64(r.W)-2*h, float64(r.H)-2*h, svgColor(c), width, opacity("stroke", c))
}

func (sv *svgSurface) Line(a, b vector.Pt, width int, c vector.Color) {
	sv.wf("  <line x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%d\" stroke=\"%s\" stroke-width=\"%d\" stroke-linecap=\"square\"%s/>\n",
		a.X, a.Y, b.X, b.Y, svgColor(c), width, opacity("stroke", c))
}

func (sv *svgSurface) Text(at vector.Pt, s string, size int, c vector.Color) {
	sv.wf("  <text x=\"%d\" y=\"%d\" font-family=\"sans-serif\" font-size=\"%d\" dominant-baseline=\"hanging\" fill=\"%s\" xml:space=\"preserve\">%s</text>\n",
		at.X, at.Y, size, svgColor(c), escText(s))
}

func (sv *svgSurface) Icon(r vector.Rect, path string) {
	sv.wf("  <g class=\"icon\" data-path=\"%s\">\n", escAttr(path))
	sv.FillRect(r, iconFill)
	sv.StrokeRect(r, 1, iconStroke)
	sv.wf("  </g>\n")
}

func svgColor(c vector.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func opacity(attr string, c vector.Color) string {
	if c.A == 0xff {
		return ""
	}
	return fmt.Sprintf(" %s-opacity=\"%.3g\"", attr, float64(c.A)/255)
}

func escAttr(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '"':
			out = append(out, "&quot;"...)
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '\n':
			out = append(out, ' ')
		case '\r':
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
