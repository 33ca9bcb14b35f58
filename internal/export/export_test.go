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
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blackboard/internal/board"
	"blackboard/internal/domain"
	applog "blackboard/internal/log"
	"blackboard/internal/vector"
)

func rgba(c vector.Color) color.RGBA { return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A} }

func sampleBoard(t *testing.T) *board.Board {
	t.Helper()
	b := board.New(board.DefaultSettings(), []domain.Record{
		domain.NoteRecord{Text: "Tom & <Jerry>", X: 40, Y: 200, FontSize: 32, Color: 1},
		domain.LineRecord{StartX: 10, StartY: 10, EndX: 200, EndY: 120, Width: 6, Color: 2},
		domain.AppRecord{Path: "/usr/bin/gimp", X: 300, Y: 90, Color: 3, Name: "GIMP"},
	}, board.WithLogger(applog.Discard()))
	t.Cleanup(b.Close)
	return b
}

func TestPNG(t *testing.T) {
	b := sampleBoard(t)
	out := filepath.Join(t.TempDir(), "out", "board.png")
	if err := PNG(b, out); err != nil {
		t.Fatalf("export png: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	s := b.Settings()
	if got := img.Bounds().Dx(); got != s.Width {
		t.Fatalf("width = %d, want %d", got, s.Width)
	}
	if got := img.Bounds().Dy(); got != s.Height {
		t.Fatalf("height = %d, want %d", got, s.Height)
	}
}

func TestRasterFollowsResize(t *testing.T) {
	b := sampleBoard(t)
	b.Resize(320, 240)
	img := Raster(b)
	if got := img.Bounds(); got.Dx() != 320 || got.Dy() != 240 {
		t.Fatalf("bounds = %v, want 320x240", got)
	}
	svg, err := RenderSVG(b)
	if err != nil {
		t.Fatalf("svg: %v", err)
	}
	if !bytes.Contains(svg, []byte(`width="320px" height="240px"`)) {
		t.Fatalf("svg header does not carry the new size")
	}
}

func TestRasterPaintsBackgroundBorderAndLine(t *testing.T) {
	b := sampleBoard(t)
	s := b.Settings()
	img := Raster(b)

	if got := img.RGBAAt(0, 0); got != rgba(s.BorderColor) {
		t.Fatalf("corner = %v, want border %v", got, s.BorderColor)
	}
	if got := img.RGBAAt(s.Width/2, s.Height/2); got != rgba(s.Background) {
		t.Fatalf("center = %v, want background %v", got, s.Background)
	}
	// Midpoint of the 10,10 -> 200,120 line.
	if got := img.RGBAAt(105, 65); got != rgba(s.Color(2)) {
		t.Fatalf("line pixel = %v, want %v", got, s.Color(2))
	}
}

func TestSVG(t *testing.T) {
	b := sampleBoard(t)
	out := filepath.Join(t.TempDir(), "board.svg")
	if err := SVG(b, out); err != nil {
		t.Fatalf("export svg: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	doc := string(data)
	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`width="900px" height="600px"`,
		`Tom &amp; &lt;Jerry&gt;`,
		`<line x1="10" y1="10" x2="200" y2="120"`,
		`data-path="/usr/bin/gimp"`,
		`>GIMP</text>`,
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("svg missing %q\n%s", want, doc)
		}
	}
	if !strings.HasSuffix(doc, "</svg>\n") {
		t.Fatalf("svg not terminated")
	}
}

func TestPDF(t *testing.T) {
	b := sampleBoard(t)
	out := filepath.Join(t.TempDir(), "exports", "board.pdf")
	if err := PDF(b, out); err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("not a pdf: %q", data[:min(len(data), 16)])
	}
}

func TestEscapes(t *testing.T) {
	if got := escAttr(`a"b&c<d` + "\n\r"); got != `a&quot;b&amp;c&lt;d ` {
		t.Fatalf("escAttr = %q", got)
	}
	if got := escText("<&>"); got != "&lt;&amp;&gt;" {
		t.Fatalf("escText = %q", got)
	}
}
