/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"strings"

	"blackboard/internal/domain"
	"blackboard/internal/input"
	"blackboard/internal/vector"
)

// TextNote is a line of chalk text. A click enters edit mode.
type TextNote struct {
	itemBase

	text     string
	oldText  string
	active   bool
	fontSize int

	rect vector.Rect
}

// newTextNote creates a note. Fresh notes start in edit mode.
func newTextNote(cfg Settings, e *env, text string, pos vector.Pt, fontSize, color int, fresh bool) *TextNote {
	n := &TextNote{
		itemBase: newBase(cfg, e, pos, color),
		text:     text,
		oldText:  text,
		active:   fresh,
		fontSize: max(fontSize, cfg.MinFontSize),
	}
	n.menu = newOptionsMenu(n, cfg,
		[]*MenuEntry{entry("edit", false, n.startEdit)},
		[]*MenuEntry{entry("erase", false, func() { n.keep = false })},
		[]*MenuEntry{entry("color", true, n.cycleColor)},
		[]*MenuEntry{
			entry("size -", true, func() { n.resize(-1) }),
			entry("size +", true, func() { n.resize(+1) }),
		},
	)
	n.Update()
	return n
}

func (n *TextNote) Kind() Kind          { return KindNote }
func (n *TextNote) Text() string        { return n.text }
func (n *TextNote) Active() bool        { return n.active }
func (n *TextNote) FontSize() int       { return n.fontSize }
func (n *TextNote) Bounds() vector.Rect { return n.rect }

func (n *TextNote) startEdit() {
	if !n.active {
		n.oldText = n.text
	}
	n.active = true
}

// finishEdit leaves edit mode; a blank note is discarded.
func (n *TextNote) finishEdit(revert bool) {
	if revert {
		n.text = n.oldText
	}
	n.oldText = n.text
	n.active = false
	if blank(n.text) {
		n.keep = false
	}
}

func (n *TextNote) resize(delta int) {
	if next := n.fontSize + delta; next >= n.cfg.MinFontSize {
		n.fontSize = next
	}
	n.Update()
}

func (n *TextNote) focused() bool { return n.menuOpen || n.dragging || n.active }

func (n *TextNote) HandleEvent(e input.Event) bool {
	n.Update()
	if n.menuOpen {
		n.menu.HandleEvent(e)
		return true
	}
	if n.active {
		switch {
		case e.Kind == input.KeyDown:
			var out editOutcome
			n.text, out = applyEditKey(n.text, e)
			switch out {
			case editCommit:
				n.finishEdit(false)
			case editCancel:
				n.finishEdit(true)
			}
			n.Update()
			return true
		case e.Kind == input.PointerDown && !n.rect.Contains(e.Pos):
			n.finishEdit(false)
			return false
		}
	}
	return n.handlePointer(e, n.rect.Contains, n.startEdit)
}

func (n *TextNote) Update() {
	n.rect = vector.R(n.pos.X, n.pos.Y, n.cfg.width(n.text, n.fontSize)+10, n.fontSize)
}

func (n *TextNote) Draw(s Surface) {
	c := n.cfg.Color(n.color)
	if n.active {
		c = n.cfg.EditingColor
		s.StrokeRect(n.rect, 1, c)
	}
	if n.text != "" {
		s.Text(n.pos, n.text, n.fontSize, c)
	}
}

func (n *TextNote) Record() (domain.Record, bool) {
	if strings.TrimSpace(n.text) == "" {
		return nil, false
	}
	return domain.NoteRecord{Text: n.text, X: n.pos.X, Y: n.pos.Y, FontSize: n.fontSize, Color: n.color}, true
}
