/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package board implements the blackboard: pinned apps, chalk notes and
// lines, their options menus, and the event router that drives them.
//
// Routing is first-match-wins in insertion order with no promotion to the
// front. Items marked not-keep are swept after each event. Events nobody
// claims fall through to the board: a left drag draws a line, a left
// click places a note.
package board

import (
	"log/slog"
	"math/rand"
	"time"

	"blackboard/internal/domain"
	"blackboard/internal/input"
	"blackboard/internal/launch"
	applog "blackboard/internal/log"
	"blackboard/internal/search"
	"blackboard/internal/vector"
)

// Rand is the random source for placing new apps.
type Rand interface {
	Intn(n int) int
}

// Board owns the items and the search bar. It is not safe for concurrent
// use; drive it from one goroutine.
type Board struct {
	cfg   Settings
	env   *env
	w, h  int
	items []Item
	bar   *SearchBar
	rnd   Rand
	log   *slog.Logger

	defaultColor int
	anchor       *vector.Pt
}

// Option configures a Board.
type Option func(*Board)

// WithLauncher sets the collaborator that opens pinned apps.
func WithLauncher(l launch.Launcher) Option { return func(b *Board) { b.env.launcher = l } }

// WithSearch sets the search service and the chooser that picks results.
func WithSearch(s search.Searcher, c search.Chooser) Option {
	return func(b *Board) {
		b.bar.searcher = s
		b.bar.chooser = c
	}
}

// WithRand sets the random source used to place new apps.
func WithRand(r Rand) Option { return func(b *Board) { b.rnd = r } }

// WithNotifier sets the sink for non-fatal user messages.
func WithNotifier(n Notifier) Option {
	return func(b *Board) {
		b.env.notifier = n
		b.bar.notifier = n
	}
}

// WithLogger replaces the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Board) {
		b.log = l
		b.env.log = l
		b.bar.log = l
	}
}

// New builds a board from persisted records.
func New(cfg Settings, recs []domain.Record, opts ...Option) *Board {
	l := applog.WithComponent("board")
	b := &Board{
		cfg: cfg,
		env: &env{log: l},
		w:   cfg.Width,
		h:   cfg.Height,
		bar: newSearchBar(cfg, cfg.SearchBarPos(cfg.Height), l),
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		log: l,
	}
	for _, o := range opts {
		o(b)
	}
	for _, r := range recs {
		b.add(r)
	}
	return b
}

// add instantiates a persisted record.
func (b *Board) add(r domain.Record) {
	switch v := r.(type) {
	case domain.NoteRecord:
		b.items = append(b.items, newTextNote(b.cfg, b.env, v.Text, vector.P(v.X, v.Y), v.FontSize, v.Color, false))
	case domain.LineRecord:
		b.items = append(b.items, newFreehandLine(b.cfg, b.env, vector.P(v.StartX, v.StartY), vector.P(v.EndX, v.EndY), v.Width, v.Color, true))
	case domain.AppRecord:
		b.items = append(b.items, newPinnedApp(b.cfg, b.env, v.Path, vector.P(v.X, v.Y), v.Color, v.Name))
	default:
		b.log.Warn("ignoring unknown record", slog.Any("record", r))
	}
}

// HandleEvent routes one event and reports whether anything claimed it.
func (b *Board) HandleEvent(e input.Event) bool {
	searched := b.bar.HandleEvent(e)

	interacted := b.routeItems(e)
	b.sweep()

	if !searched && !interacted {
		b.fallthroughEvent(e)
	}
	if e.IsLeftUp() {
		b.anchor = nil
	}
	b.Poll()
	return searched || interacted
}

// routeItems offers e to the focused item first, then to the others in
// insertion order. The first item to claim it wins.
func (b *Board) routeItems(e input.Event) bool {
	first := -1
	for i, it := range b.items {
		if it.focused() {
			first = i
			break
		}
	}
	if first >= 0 && b.claim(b.items[first], e) {
		return true
	}
	for i, it := range b.items {
		if i != first && b.claim(it, e) {
			return true
		}
	}
	return false
}

func (b *Board) claim(it Item, e input.Event) bool {
	if !it.HandleEvent(e) {
		return false
	}
	b.defaultColor = it.ColorIndex()
	return true
}

// sweep drops items whose keep flag was cleared during the last event.
func (b *Board) sweep() {
	kept := b.items[:0]
	for _, it := range b.items {
		if it.Keep() {
			kept = append(kept, it)
			continue
		}
		b.log.Debug("item removed", slog.String("id", it.ID()), slog.String("kind", it.Kind().String()))
	}
	for i := len(kept); i < len(b.items); i++ {
		b.items[i] = nil
	}
	b.items = kept
}

func (b *Board) fallthroughEvent(e input.Event) {
	switch {
	case e.IsLeftDown():
		p := e.Pos
		b.anchor = &p
		b.items = append(b.items, newFreehandLine(b.cfg, b.env, p, p, b.cfg.LineWidth, b.defaultColor, false))
	case e.IsLeftUp():
		if b.anchor != nil && *b.anchor == e.Pos {
			at := vector.P(e.Pos.X, e.Pos.Y-b.cfg.ChalkFontSize/2)
			b.items = append(b.items, newTextNote(b.cfg, b.env, "", at, b.cfg.ChalkFontSize, b.defaultColor, true))
			b.log.Debug("note placed", slog.Int("x", at.X), slog.Int("y", at.Y))
		}
	}
}

// Poll pins every path chosen in the search UI since the last call and
// returns how many apps were added.
func (b *Board) Poll() int {
	paths := b.bar.Results()
	for _, p := range paths {
		x := b.randIn(b.cfg.SpawnMargin, b.w*2/3)
		y := b.randIn(b.cfg.SpawnMargin, b.h*2/3)
		b.PinAt(p, vector.P(x, y))
	}
	return len(paths)
}

// randIn returns a value in [lo, hi], or lo when the range is empty.
func (b *Board) randIn(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + b.rnd.Intn(hi-lo+1)
}

// PinAt adds a pinned app for path at pos with the default color.
func (b *Board) PinAt(path string, pos vector.Pt) *PinnedApp {
	a := newPinnedApp(b.cfg, b.env, path, pos, b.defaultColor, "")
	b.items = append(b.items, a)
	b.log.Info("app pinned", slog.String("path", path), slog.Int("x", pos.X), slog.Int("y", pos.Y))
	return a
}

// Draw renders the search bar, then notes and lines, then apps, each
// back-to-front, and finally any open options menu on top.
func (b *Board) Draw(s Surface) {
	b.bar.Update()
	b.bar.Draw(s)
	for _, it := range b.items {
		it.Update()
	}
	for i := len(b.items) - 1; i >= 0; i-- {
		if it := b.items[i]; it.Kind() != KindApp {
			it.Draw(s)
		}
	}
	for i := len(b.items) - 1; i >= 0; i-- {
		if it := b.items[i]; it.Kind() == KindApp {
			it.Draw(s)
		}
	}
	for i := len(b.items) - 1; i >= 0; i-- {
		if base := b.items[i].base(); base.menuOpen {
			base.menu.Draw(s)
		}
	}
}

// DrawFrame paints background and border around Draw.
func (b *Board) DrawFrame(s Surface) {
	full := vector.R(0, 0, b.w, b.h)
	s.FillRect(full, b.cfg.Background)
	b.Draw(s)
	if b.cfg.BorderWidth > 0 {
		s.StrokeRect(full, b.cfg.BorderWidth, b.cfg.BorderColor)
	}
}

// Records returns the persisted fields of every item worth keeping.
func (b *Board) Records() []domain.Record {
	out := make([]domain.Record, 0, len(b.items))
	for _, it := range b.items {
		if r, ok := it.Record(); ok {
			out = append(out, r)
		}
	}
	return out
}

// Items returns the items in interaction order. The slice is a copy.
func (b *Board) Items() []Item { return append([]Item(nil), b.items...) }

func (b *Board) Len() int { return len(b.items) }

// SearchBar exposes the bar for hosts and tests.
func (b *Board) SearchBar() *SearchBar { return b.bar }

// Settings returns the settings the board was built with. Width and
// Height there are the initial size; Size reports the current one.
func (b *Board) Settings() Settings { return b.cfg }

// Size is the current surface size.
func (b *Board) Size() (w, h int) { return b.w, b.h }

// DefaultColor is the palette index given to new items.
func (b *Board) DefaultColor() int { return b.defaultColor }

// Resize records the new surface size and keeps the search bar anchored
// to the bottom-left corner.
func (b *Board) Resize(w, h int) {
	b.w, b.h = w, h
	p := b.cfg.SearchBarPos(h)
	b.bar.Move(p.X, p.Y)
}

// Close stops background searches.
func (b *Board) Close() { b.bar.Close() }
