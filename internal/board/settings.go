/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"fmt"

	"blackboard/internal/config"
	"blackboard/internal/textlayout"
	"blackboard/internal/vector"
)

// Settings is the immutable look-and-feel of a board. Build it once with
// SettingsFrom and pass it by value.
type Settings struct {
	Width, Height int
	BorderWidth   int

	Background   vector.Color
	BorderColor  vector.Color
	Palette      []vector.Color
	EditingColor vector.Color

	MenuColor      vector.Color
	MenuHoverColor vector.Color
	MenuTextColor  vector.Color
	MenuFontSize   int

	ChalkFontSize int
	AppFontSize   int
	AppIconSize   int
	LineWidth     int
	MinFontSize   int
	MinLineWidth  int
	ShortLine     int
	SpawnMargin   int
	Placeholder   string

	Measure textlayout.Measurer
}

// SettingsFrom converts the board section of the user config.
func SettingsFrom(c config.BoardConfig, m textlayout.Measurer) (Settings, error) {
	if len(c.Palette) == 0 {
		return Settings{}, fmt.Errorf("board palette is empty")
	}
	s := Settings{
		Width:         c.Width,
		Height:        c.Height,
		BorderWidth:   c.BorderWidth,
		MenuFontSize:  c.MenuFontSize,
		ChalkFontSize: c.ChalkFontSize,
		AppFontSize:   c.AppFontSize,
		AppIconSize:   c.AppIconSize,
		LineWidth:     c.LineWidth,
		MinFontSize:   max(c.MinFontSize, 1),
		MinLineWidth:  max(c.MinLineWidth, 1),
		ShortLine:     c.ShortLine,
		SpawnMargin:   c.SpawnMargin,
		Placeholder:   c.Placeholder,
		Measure:       m,
	}
	if s.Measure == nil {
		s.Measure = textlayout.BasicMeasurer{}
	}
	colors := []struct {
		dst *vector.Color
		src string
	}{
		{&s.Background, c.Background},
		{&s.BorderColor, c.BorderColor},
		{&s.EditingColor, c.EditingColor},
		{&s.MenuColor, c.MenuColor},
		{&s.MenuHoverColor, c.MenuHoverColor},
		{&s.MenuTextColor, c.MenuTextColor},
	}
	for _, cc := range colors {
		col, err := vector.ParseHex(cc.src)
		if err != nil {
			return Settings{}, err
		}
		*cc.dst = col
	}
	for _, p := range c.Palette {
		col, err := vector.ParseHex(p)
		if err != nil {
			return Settings{}, err
		}
		s.Palette = append(s.Palette, col)
	}
	return s, nil
}

// DefaultSettings is SettingsFrom(config.Defaults().Board, BasicMeasurer).
func DefaultSettings() Settings {
	s, err := SettingsFrom(config.Defaults().Board, textlayout.BasicMeasurer{})
	if err != nil {
		panic(err)
	}
	return s
}

// NumColors is the palette size.
func (s Settings) NumColors() int { return len(s.Palette) }

// Color returns palette entry i, wrapping out-of-range indexes.
func (s Settings) Color(i int) vector.Color {
	return s.Palette[s.normColor(i)]
}

func (s Settings) normColor(i int) int {
	n := len(s.Palette)
	return ((i % n) + n) % n
}

func (s Settings) width(text string, size int) int { return s.Measure.Width(text, size) }

// SearchBarPos is the search bar anchor for a board of height h.
func (s Settings) SearchBarPos(h int) vector.Pt {
	return vector.P(s.BorderWidth, h-s.BorderWidth-s.ChalkFontSize)
}
