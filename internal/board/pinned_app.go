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

// PinnedApp is a shortcut to a file or program. A click launches it.
type PinnedApp struct {
	itemBase

	path     string
	name     string
	oldName  string
	renaming bool

	icon  vector.Rect
	label vector.Rect
}

// BaseName returns the last element of path, honoring both Windows and
// POSIX separators.
func BaseName(path string) string {
	p := strings.TrimRight(path, `/\`)
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

// newPinnedApp creates an app item. An empty name defaults to the base
// name of path.
func newPinnedApp(cfg Settings, e *env, path string, pos vector.Pt, color int, name string) *PinnedApp {
	a := &PinnedApp{itemBase: newBase(cfg, e, pos, color), path: path, name: name}
	if strings.TrimSpace(a.name) == "" {
		a.name = BaseName(path)
	}
	a.oldName = a.name
	a.menu = newOptionsMenu(a, cfg,
		[]*MenuEntry{entry("unpin", false, func() { a.keep = false })},
		[]*MenuEntry{entry("rename", false, a.startRename)},
		[]*MenuEntry{entry("color", true, a.cycleColor)},
	)
	a.Update()
	return a
}

func (a *PinnedApp) Kind() Kind          { return KindApp }
func (a *PinnedApp) Path() string        { return a.path }
func (a *PinnedApp) Name() string        { return a.name }
func (a *PinnedApp) Renaming() bool      { return a.renaming }
func (a *PinnedApp) Bounds() vector.Rect { return a.icon }
func (a *PinnedApp) Label() vector.Rect  { return a.label }

func (a *PinnedApp) startRename() {
	a.renaming = true
	a.oldName = a.name
}

func (a *PinnedApp) finishRename(revert bool) {
	if revert {
		a.name = a.oldName
	}
	if strings.TrimSpace(a.name) == "" {
		a.name = BaseName(a.path)
	}
	a.oldName = a.name
	a.renaming = false
}

func (a *PinnedApp) focused() bool { return a.menuOpen || a.dragging || a.renaming }

func (a *PinnedApp) HandleEvent(e input.Event) bool {
	a.Update()
	if a.menuOpen {
		a.menu.HandleEvent(e)
		return true
	}
	if a.renaming {
		switch {
		case e.Kind == input.KeyDown:
			var out editOutcome
			a.name, out = applyEditKey(a.name, e)
			switch out {
			case editCommit:
				a.finishRename(false)
			case editCancel:
				a.finishRename(true)
			}
			a.Update()
			return true
		case e.Kind == input.PointerDown && !a.icon.Union(a.label).Contains(e.Pos):
			a.finishRename(false)
			a.Update()
			return false
		case e.Kind == input.PointerDown:
			return true
		}
	}
	return a.handlePointer(e, a.icon.Contains, func() { a.env.launch(a.id, a.path) })
}

// Update recomputes the icon square and the label box centered below it.
func (a *PinnedApp) Update() {
	size := a.cfg.AppIconSize
	a.icon = vector.R(a.pos.X, a.pos.Y, size, size)
	w := a.cfg.width(a.name, a.cfg.AppFontSize)
	x := a.pos.X
	if w > size {
		x -= (w - size) / 2
	}
	a.label = vector.R(x, a.pos.Y+size-2, w, a.cfg.AppFontSize)
}

func (a *PinnedApp) Draw(s Surface) {
	c := a.cfg.Color(a.color)
	if a.renaming {
		c = a.cfg.EditingColor
	}
	s.Text(a.label.Min(), a.name, a.cfg.AppFontSize, c)
	s.Icon(a.icon, a.path)
}

func (a *PinnedApp) Record() (domain.Record, bool) {
	return domain.AppRecord{Path: a.path, X: a.pos.X, Y: a.pos.Y, Color: a.color, Name: a.name}, true
}
