/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"blackboard/internal/domain"
	"blackboard/internal/input"
	"blackboard/internal/launch"
	"blackboard/internal/vector"
)

// Kind identifies the item variant.
type Kind uint8

const (
	KindApp Kind = iota + 1
	KindNote
	KindLine
)

func (k Kind) String() string {
	switch k {
	case KindApp:
		return "app"
	case KindNote:
		return "note"
	case KindLine:
		return "line"
	}
	return "unknown"
}

// Item is one placeable board object. The variants are *PinnedApp,
// *TextNote and *FreehandLine.
type Item interface {
	ID() string
	Kind() Kind
	// HandleEvent reports whether the item claimed e.
	HandleEvent(e input.Event) bool
	// Update syncs cached geometry with position and content.
	Update()
	Draw(s Surface)
	// Keep is false once the item should be removed.
	Keep() bool
	ColorIndex() int
	// Record returns the persisted fields; false means not worth keeping.
	Record() (domain.Record, bool)

	// focused reports an open menu, a drag or a modal edit state; such an
	// item sees events before the rest of the board.
	focused() bool
	base() *itemBase
}

// env carries the collaborators items call out to.
type env struct {
	launcher launch.Launcher
	notifier Notifier
	log      *slog.Logger
}

// launch opens path for the item id. The id ties the log lines of one
// pinned app together across launches, moves and removal.
func (e *env) launch(id, path string) {
	l := e.log.With(slog.String("id", id), slog.String("path", path))
	if e.launcher == nil {
		l.Warn("no launcher configured")
		return
	}
	if err := e.launcher.Launch(path); err != nil {
		l.Warn("launch failed", slog.Any("err", err))
		if e.notifier != nil {
			e.notifier.Notify("Could not open", err.Error())
		}
		return
	}
	l.Info("launched")
}

// itemBase is the state shared by all variants.
type itemBase struct {
	id  string
	cfg Settings
	env *env

	pos       vector.Pt
	keep      bool
	dragging  bool
	offset    vector.Pt
	moved     bool
	menuOpen  bool
	menu      *OptionsMenu
	color     int
}

func newBase(cfg Settings, e *env, pos vector.Pt, color int) itemBase {
	return itemBase{
		id:    uuid.NewString(),
		cfg:   cfg,
		env:   e,
		pos:   pos,
		keep:  true,
		color: cfg.normColor(color),
	}
}

func (b *itemBase) base() *itemBase { return b }

func (b *itemBase) ID() string        { return b.id }
func (b *itemBase) Keep() bool        { return b.keep }
func (b *itemBase) ColorIndex() int   { return b.color }
func (b *itemBase) Pos() vector.Pt    { return b.pos }
func (b *itemBase) Dragging() bool    { return b.dragging }
func (b *itemBase) OptionsOpen() bool { return b.menuOpen }

// Menu returns the item's options menu.
func (b *itemBase) Menu() *OptionsMenu { return b.menu }

func (b *itemBase) closeMenu() {
	b.menuOpen = false
	if b.menu != nil {
		b.menu.clearHover()
	}
}

func (b *itemBase) openMenu(at vector.Pt) {
	b.menu.Open(at)
	b.menuOpen = true
}

func (b *itemBase) cycleColor() {
	b.color = (b.color + 1) % b.cfg.NumColors()
}

// handlePointer runs the shared drag/menu/click steps. hit tests pointer
// positions against the item's geometry; activate runs on a click, that is
// a release with no move in between.
func (b *itemBase) handlePointer(e input.Event, hit func(vector.Pt) bool, activate func()) bool {
	switch e.Kind {
	case input.PointerDown:
		if !hit(e.Pos) {
			return false
		}
		switch e.Button {
		case input.ButtonLeft:
			b.dragging = true
			b.moved = false
			b.offset = b.pos.Sub(e.Pos)
			return true
		case input.ButtonRight:
			b.openMenu(e.Pos)
			return true
		}
	case input.PointerMove:
		if b.dragging {
			if p := e.Pos.Add(b.offset); p != b.pos {
				b.pos = p
				b.moved = true
			}
			return true
		}
	case input.PointerUp:
		if b.dragging && e.Button == input.ButtonLeft {
			b.dragging = false
			if !b.moved && activate != nil {
				activate()
			}
			return true
		}
	}
	return false
}

type editOutcome uint8

const (
	editContinue editOutcome = iota
	editCommit
	editCancel
)

// applyEditKey edits text for one key-down.
func applyEditKey(text string, e input.Event) (string, editOutcome) {
	switch e.Key {
	case input.KeyEnter:
		return text, editCommit
	case input.KeyEscape:
		return text, editCancel
	case input.KeyBackspace:
		if e.Ctrl {
			return deleteWord(text), editContinue
		}
		return dropLastRune(text), editContinue
	}
	return text + e.Text(), editContinue
}

// deleteWord cuts back to the last space of the right-trimmed text.
func deleteWord(s string) string {
	i := strings.LastIndex(strings.TrimRightFunc(s, unicode.IsSpace), " ")
	if i < 0 {
		return ""
	}
	return s[:i+1]
}

func dropLastRune(s string) string {
	if s == "" {
		return s
	}
	_, n := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-n]
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
