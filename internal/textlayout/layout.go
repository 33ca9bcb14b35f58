/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textlayout measures single-line labels for hit geometry and
// resolves font faces for raster export.
package textlayout

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Measurer returns the advance width in pixels of s rendered at size px.
type Measurer interface {
	Width(s string, size int) int
}

// FaceSource resolves a face for the given pixel size.
type FaceSource interface {
	Face(size int) font.Face
}

// BasicMeasurer scales the fixed basicfont Face7x13 advances to the
// requested size. Deterministic, so tests use it.
type BasicMeasurer struct{}

const basicHeight = 13

func (BasicMeasurer) Width(s string, size int) int {
	if s == "" || size <= 0 {
		return 0
	}
	d := &font.Drawer{Face: basicfont.Face7x13}
	return advance(d, s) * size / basicHeight
}

// Face always returns Face7x13; basicfont has no scalable outlines.
func (BasicMeasurer) Face(int) font.Face { return basicfont.Face7x13 }

func advance(d *font.Drawer, s string) int {
	return d.MeasureString(s).Round()
}
