/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "math"

// Segments shorter than this get the loose corridor.
const shortSegment = 20

// PointOnLine reports whether p lies within the hit corridor of segment ab.
// The corridor is the set of points whose detour |ap|+|pb| exceeds |ab| by at
// most 0.3px for segments under 20px and 0.1px otherwise. A zero-length
// segment only contains its own endpoint.
func PointOnLine(p, a, b Pt) bool {
	if a == b {
		return p == a
	}
	return PointOnLineF(float64(p.X), float64(p.Y), float64(a.X), float64(a.Y), float64(b.X), float64(b.Y))
}

// PointOnLineF is PointOnLine for sub-pixel coordinates.
func PointOnLineF(px, py, ax, ay, bx, by float64) bool {
	d2 := math.Hypot(bx-ax, by-ay)
	if d2 == 0 {
		return px == ax && py == ay
	}
	d1 := math.Hypot(px-ax, py-ay) + math.Hypot(bx-px, by-py)
	return d1/d2-1 <= Tolerance(d2)
}

// Tolerance is the relative slack allowed for a segment of length d.
func Tolerance(d float64) float64 {
	if d <= 0 {
		return 0
	}
	if d < shortSegment {
		return 0.3 / d
	}
	return 0.1 / d
}

// Near reports whether a and b are closer than threshold on both axes.
func Near(a, b Pt, threshold int) bool {
	return abs(a.X-b.X) < threshold && abs(a.Y-b.Y) < threshold
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
