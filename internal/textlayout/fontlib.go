/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// FontLibrary stores parsed OpenType fonts by family name.
type FontLibrary struct {
	mu    sync.RWMutex
	fonts map[string]*opentype.Font
}

func NewFontLibrary() *FontLibrary { return &FontLibrary{fonts: make(map[string]*opentype.Font)} }

// LoadTTF parses a TTF/OTF file and registers it under family.
func (fl *FontLibrary) LoadTTF(family, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return fl.Add(family, data)
}

// Add registers raw font bytes under family.
func (fl *FontLibrary) Add(family string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", family, err)
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.fonts == nil {
		fl.fonts = make(map[string]*opentype.Font)
	}
	fl.fonts[family] = f
	return nil
}

func (fl *FontLibrary) find(family string) *opentype.Font {
	if fl == nil {
		return nil
	}
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	return fl.fonts[family]
}

// FontMeasurer measures with an OpenType family from a FontLibrary.
// Faces are cached per pixel size. Unknown families fall back to
// BasicMeasurer.
type FontMeasurer struct {
	Lib    *FontLibrary
	Family string

	mu    sync.Mutex
	faces map[int]font.Face
}

func (m *FontMeasurer) Width(s string, size int) int {
	if s == "" || size <= 0 {
		return 0
	}
	f := m.Face(size)
	return advance(&font.Drawer{Face: f}, s)
}

func (m *FontMeasurer) Face(size int) font.Face {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.faces[size]; ok {
		return f
	}
	otf := m.Lib.find(m.Family)
	if otf == nil {
		return BasicMeasurer{}.Face(size)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{Size: float64(size), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return BasicMeasurer{}.Face(size)
	}
	if m.faces == nil {
		m.faces = make(map[int]font.Face)
	}
	m.faces[size] = face
	return face
}

// Load returns a FontMeasurer for the font file at path, or BasicMeasurer
// when path is empty. A load failure returns BasicMeasurer with the error.
func Load(path string) (Measurer, error) {
	if path == "" {
		return BasicMeasurer{}, nil
	}
	lib := NewFontLibrary()
	if err := lib.LoadTTF("chalk", path); err != nil {
		return BasicMeasurer{}, err
	}
	return &FontMeasurer{Lib: lib, Family: "chalk"}, nil
}
