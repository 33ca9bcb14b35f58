/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Integer board geometry. Board coordinates are whole pixels.

import "math"

// Pt is a 2D point.
type Pt struct{ X, Y int }

// P is shorthand for Pt{x, y}.
func P(x, y int) Pt { return Pt{X: x, Y: y} }

func (p Pt) Add(q Pt) Pt { return Pt{p.X + q.X, p.Y + q.Y} }
func (p Pt) Sub(q Pt) Pt { return Pt{p.X - q.X, p.Y - q.Y} }

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y int
	W, H int
}

func R(x, y, w, h int) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Min() Pt { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt { return Pt{r.X + r.W, r.Y + r.H} }

// Contains reports whether p lies inside r, edges inclusive.
func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// Inset returns a rectangle inset by dx,dy on all sides (negative grows).
func (r Rect) Inset(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	minX := min(r.X, o.X)
	minY := min(r.Y, o.Y)
	maxX := max(r.X+r.W, o.X+o.W)
	maxY := max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Dist is the euclidean distance between a and b.
func Dist(a, b Pt) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
