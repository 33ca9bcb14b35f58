/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"blackboard/internal/input"
	"blackboard/internal/search"
	"blackboard/internal/vector"
)

// SearchBar is the text field in the bottom-left corner. Submitting a
// pattern runs the search off the event loop; chosen paths are drained
// with Results.
type SearchBar struct {
	cfg    Settings
	rect   vector.Rect
	text   string
	active bool

	searcher search.Searcher
	chooser  search.Chooser
	queue    search.Queue
	log      *slog.Logger
	notifier Notifier

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newSearchBar(cfg Settings, at vector.Pt, log *slog.Logger) *SearchBar {
	ctx, cancel := context.WithCancel(context.Background())
	b := &SearchBar{cfg: cfg, text: cfg.Placeholder, log: log, ctx: ctx, cancel: cancel}
	b.rect.X, b.rect.Y = at.X, at.Y
	b.Update()
	return b
}

func (b *SearchBar) Text() string        { return b.text }
func (b *SearchBar) Active() bool        { return b.active }
func (b *SearchBar) Bounds() vector.Rect { return b.rect }

// HandleEvent reports whether the bar claimed e.
func (b *SearchBar) HandleEvent(e input.Event) bool {
	if e.IsLeftDown() {
		claimed := false
		if b.rect.Contains(e.Pos) {
			claimed = true
			b.active = !b.active
		} else {
			b.active = false
		}
		if b.active {
			b.text = ""
		} else {
			b.text = b.cfg.Placeholder
		}
		b.Update()
		return claimed
	}
	if !b.active || e.Kind != input.KeyDown {
		return false
	}
	switch e.Key {
	case input.KeyEnter:
		b.submit(b.text)
	case input.KeyEscape:
		if b.text == "" {
			b.active = false
			b.text = b.cfg.Placeholder
		} else {
			b.text = ""
		}
	default:
		b.text, _ = applyEditKey(b.text, e)
	}
	b.Update()
	return true
}

func (b *SearchBar) submit(pattern string) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return
	}
	if b.searcher == nil {
		b.log.Warn("search submitted without a search service", slog.String("pattern", pattern))
		return
	}
	if b.ctx.Err() != nil {
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		err := search.Run(b.ctx, b.searcher, b.chooser, &b.queue, pattern)
		switch {
		case err == nil, errors.Is(err, context.Canceled):
		default:
			b.log.Warn("search failed", slog.String("pattern", pattern), slog.Any("err", err))
			if b.notifier != nil {
				b.notifier.Notify("Search failed", err.Error())
			}
		}
	}()
}

// Results drains paths chosen since the last call.
func (b *SearchBar) Results() []string { return b.queue.Drain() }

// Move repositions the bar, e.g. after a window resize.
func (b *SearchBar) Move(x, y int) {
	b.rect.X, b.rect.Y = x, y
	b.Update()
}

func (b *SearchBar) Update() {
	b.rect.W = b.cfg.width(b.text, b.cfg.ChalkFontSize) + 10
	b.rect.H = b.cfg.ChalkFontSize + 5
}

func (b *SearchBar) Draw(s Surface) {
	if b.active {
		s.StrokeRect(b.rect, 1, b.cfg.EditingColor)
	}
	s.Text(b.rect.Min().Add(vector.P(5, 5)), b.text, b.cfg.ChalkFontSize, b.cfg.Color(0))
}

// Close cancels outstanding searches and waits for them to return.
func (b *SearchBar) Close() {
	b.cancel()
	b.wg.Wait()
}
