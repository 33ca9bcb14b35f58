/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"blackboard/internal/board"
	"blackboard/internal/vector"
	"blackboard/internal/version"
)

// PDF writes b as a single-page PDF, one point per board pixel. Text uses
// the built-in Helvetica so nothing is embedded.
func PDF(b *board.Board, path string) error {
	w, h := b.Size()
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: float64(w), Ht: float64(h)},
	})
	pdf.SetTitle("Blackboard", false)
	pdf.SetCreator("blackboard "+version.String(), false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)

	b.DrawFrame(&pdfSurface{pdf: pdf})

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

type pdfSurface struct {
	pdf *gofpdf.Fpdf
}

func (p *pdfSurface) alpha(c vector.Color) {
	p.pdf.SetAlpha(float64(c.A)/255, "Normal")
}

func (p *pdfSurface) FillRect(r vector.Rect, c vector.Color) {
	p.alpha(c)
	p.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	p.pdf.Rect(float64(r.X), float64(r.Y), float64(r.W), float64(r.H), "F")
}

func (p *pdfSurface) StrokeRect(r vector.Rect, width int, c vector.Color) {
	w := float64(width)
	p.alpha(c)
	p.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	p.pdf.SetLineWidth(w)
	p.pdf.Rect(float64(r.X)+w/2, float64(r.Y)+w/2, float64(r.W)-w, float64(r.H)-w, "D")
}

func (p *pdfSurface) Line(a, b vector.Pt, width int, c vector.Color) {
	p.alpha(c)
	p.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	p.pdf.SetLineWidth(float64(width))
	p.pdf.SetLineCapStyle("square")
	p.pdf.Line(float64(a.X), float64(a.Y), float64(b.X), float64(b.Y))
}

// Text places the baseline at roughly 0.8 of the size below at.
func (p *pdfSurface) Text(at vector.Pt, s string, size int, c vector.Color) {
	p.alpha(c)
	p.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	p.pdf.SetFontSize(float64(size))
	tr := p.pdf.UnicodeTranslatorFromDescriptor("")
	p.pdf.Text(float64(at.X), float64(at.Y)+0.8*float64(size), tr(s))
}

func (p *pdfSurface) Icon(r vector.Rect, path string) {
	p.FillRect(r, iconFill)
	p.StrokeRect(r, 1, iconStroke)
	if l := iconLetter(path); l != "" {
		p.Text(r.Min().Add(vector.P(r.W/4, r.H/4)), l, r.H/2, iconStroke)
	}
}
