/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"blackboard/internal/input"
	"blackboard/internal/vector"
)

// menuOwner is the non-owning back-reference from a menu to its item.
type menuOwner interface {
	closeMenu()
}

// MenuEntry is one action of an options menu.
type MenuEntry struct {
	Label string
	// Adjuster entries keep the menu open after running.
	Adjuster bool

	action func()
	rect   vector.Rect
	hover  bool
}

func (e *MenuEntry) Rect() vector.Rect { return e.rect }
func (e *MenuEntry) Hovered() bool     { return e.hover }

// OptionsMenu is the popup owned by one item. Rows hold one entry at full
// width or two entries side by side.
type OptionsMenu struct {
	owner menuOwner
	cfg   Settings
	rows  [][]*MenuEntry
}

func entry(label string, adjuster bool, action func()) *MenuEntry {
	return &MenuEntry{Label: label, Adjuster: adjuster, action: action}
}

func newOptionsMenu(owner menuOwner, cfg Settings, rows ...[]*MenuEntry) *OptionsMenu {
	return &OptionsMenu{owner: owner, cfg: cfg, rows: rows}
}

// Entries returns all entries in row order.
func (m *OptionsMenu) Entries() []*MenuEntry {
	var out []*MenuEntry
	for _, r := range m.rows {
		out = append(out, r...)
	}
	return out
}

// Find returns the entry with label, or nil.
func (m *OptionsMenu) Find(label string) *MenuEntry {
	for _, e := range m.Entries() {
		if e.Label == label {
			return e
		}
	}
	return nil
}

func (m *OptionsMenu) rowHeight() int { return m.cfg.MenuFontSize + 10 }

// Open lays the rows out with their top-left corner at at.
func (m *OptionsMenu) Open(at vector.Pt) {
	w := 0
	for _, r := range m.rows {
		need := 0
		for _, e := range r {
			need = max(need, m.cfg.width(e.Label, m.cfg.MenuFontSize)+10)
		}
		w = max(w, need*len(r))
	}
	h := m.rowHeight()
	for i, r := range m.rows {
		cw := w / len(r)
		for j, e := range r {
			e.rect = vector.R(at.X+j*cw, at.Y+i*h, cw, h)
			e.hover = false
		}
	}
}

// Bounds is the union of all entry rectangles.
func (m *OptionsMenu) Bounds() vector.Rect {
	var b vector.Rect
	for i, e := range m.Entries() {
		if i == 0 {
			b = e.rect
			continue
		}
		b = b.Union(e.rect)
	}
	return b
}

// HandleEvent runs, hovers or dismisses. Left release inside an entry runs
// it; outside every entry it closes the menu. Any key closes it.
func (m *OptionsMenu) HandleEvent(e input.Event) {
	switch e.Kind {
	case input.PointerMove:
		for _, en := range m.Entries() {
			en.hover = en.rect.Contains(e.Pos)
		}
	case input.PointerUp:
		if e.Button != input.ButtonLeft {
			return
		}
		for _, en := range m.Entries() {
			if en.rect.Contains(e.Pos) {
				en.action()
				if !en.Adjuster {
					m.owner.closeMenu()
				}
				return
			}
		}
		m.owner.closeMenu()
	case input.KeyDown:
		m.owner.closeMenu()
	}
}

func (m *OptionsMenu) clearHover() {
	for _, e := range m.Entries() {
		e.hover = false
	}
}

// Draw paints every entry with its hover state.
func (m *OptionsMenu) Draw(s Surface) {
	for _, e := range m.Entries() {
		bg := m.cfg.MenuColor
		if e.hover {
			bg = m.cfg.MenuHoverColor
		}
		s.FillRect(e.rect, bg)
		s.Text(e.rect.Min().Add(vector.P(2, 2)), e.Label, m.cfg.MenuFontSize, m.cfg.MenuTextColor)
	}
}
