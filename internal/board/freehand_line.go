/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"blackboard/internal/domain"
	"blackboard/internal/input"
	"blackboard/internal/vector"
)

// FreehandLine is a straight chalk stroke. While not drawn it follows the
// pointer; once drawn it drags like any other item.
type FreehandLine struct {
	itemBase

	start, end vector.Pt
	width      int
	drawn      bool

	startOff, endOff vector.Pt
}

func newFreehandLine(cfg Settings, e *env, start, end vector.Pt, width, color int, drawn bool) *FreehandLine {
	l := &FreehandLine{
		itemBase: newBase(cfg, e, start, color),
		start:    start,
		end:      end,
		width:    max(width, cfg.MinLineWidth),
		drawn:    drawn,
	}
	l.menu = newOptionsMenu(l, cfg,
		[]*MenuEntry{entry("erase", false, func() { l.keep = false })},
		[]*MenuEntry{entry("color", true, l.cycleColor)},
		[]*MenuEntry{
			entry("width -", true, func() { l.rewidth(-1) }),
			entry("width +", true, func() { l.rewidth(+1) }),
		},
	)
	return l
}

func (l *FreehandLine) Kind() Kind       { return KindLine }
func (l *FreehandLine) Start() vector.Pt { return l.start }
func (l *FreehandLine) End() vector.Pt   { return l.end }
func (l *FreehandLine) Width() int       { return l.width }
func (l *FreehandLine) Drawn() bool      { return l.drawn }

func (l *FreehandLine) rewidth(delta int) {
	if next := l.width + delta; next >= l.cfg.MinLineWidth {
		l.width = next
	}
}

func (l *FreehandLine) hit(p vector.Pt) bool { return vector.PointOnLine(p, l.start, l.end) }

func (l *FreehandLine) focused() bool { return l.menuOpen || l.dragging || !l.drawn }

func (l *FreehandLine) HandleEvent(e input.Event) bool {
	if !l.drawn {
		return l.shape(e)
	}
	if l.menuOpen {
		l.menu.HandleEvent(e)
		return true
	}
	switch e.Kind {
	case input.PointerDown:
		if !l.hit(e.Pos) {
			return false
		}
		switch e.Button {
		case input.ButtonLeft:
			l.dragging = true
			l.moved = false
			l.startOff = l.start.Sub(e.Pos)
			l.endOff = l.end.Sub(e.Pos)
			return true
		case input.ButtonRight:
			l.openMenu(e.Pos)
			return true
		}
	case input.PointerMove:
		if l.dragging {
			l.start = e.Pos.Add(l.startOff)
			l.end = e.Pos.Add(l.endOff)
			l.pos = l.start
			return true
		}
	case input.PointerUp:
		if l.dragging && e.Button == input.ButtonLeft {
			l.dragging = false
			return true
		}
	}
	return false
}

// shape handles the gesture that creates the line. A release too close to
// the start discards the line and leaves the event unclaimed.
func (l *FreehandLine) shape(e input.Event) bool {
	switch {
	case e.Kind == input.PointerMove:
		l.end = e.Pos
	case e.IsLeftUp():
		if vector.Near(l.start, l.end, l.cfg.ShortLine) {
			l.keep = false
			return false
		}
		l.drawn = true
	}
	return true
}

func (l *FreehandLine) Update() { l.pos = l.start }

func (l *FreehandLine) Draw(s Surface) {
	c := l.cfg.Color(l.color)
	if !l.drawn {
		c = l.cfg.EditingColor
	}
	s.Line(l.start, l.end, l.width, c)
}

func (l *FreehandLine) Record() (domain.Record, bool) {
	if !l.drawn {
		return nil, false
	}
	return domain.LineRecord{
		StartX: l.start.X, StartY: l.start.Y, EndX: l.end.X, EndY: l.end.Y,
		Width: l.width, Color: l.color,
	}, true
}
