/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"
)

func TestRectContainsAndInset(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	if r.Contains(Pt{9, 20}) || r.Contains(Pt{110, 71}) {
		t.Fatalf("expected outside points to be rejected")
	}
	in := r.Inset(5, 5)
	if in.X != 15 || in.Y != 25 || in.W != 90 || in.H != 40 {
		t.Fatalf("unexpected inset: %+v", in)
	}
	u := R(0, 0, 10, 10).Union(R(20, 5, 5, 20))
	if u != R(0, 0, 25, 25) {
		t.Fatalf("unexpected union: %+v", u)
	}
}

func TestPointOnLineEndpointsAndMidpoint(t *testing.T) {
	a, b := P(0, 0), P(100, 0)
	for _, p := range []Pt{a, b, P(50, 0)} {
		if !PointOnLine(p, a, b) {
			t.Fatalf("%v should be on segment", p)
		}
	}
	if PointOnLine(P(50, 10), a, b) {
		t.Fatalf("point 10px off a long segment must miss")
	}
	if PointOnLine(P(110, 0), a, b) {
		t.Fatalf("collinear point beyond the end must miss")
	}
}

func TestPointOnLineDegenerateSegment(t *testing.T) {
	a := P(7, 7)
	if !PointOnLine(a, a, a) {
		t.Fatalf("zero-length segment must contain its endpoint")
	}
	if PointOnLine(P(7, 8), a, a) {
		t.Fatalf("zero-length segment must not contain other points")
	}
}

// boundaryOffset is the perpendicular distance at the midpoint where the
// detour |ap|+|pb| - |ab| equals the absolute slack.
func boundaryOffset(length, slack float64) float64 {
	half := length / 2
	return math.Sqrt(math.Pow(half+slack/2, 2) - half*half)
}

func TestHitCorridorScaling(t *testing.T) {
	if got := Tolerance(10); math.Abs(got-0.03) > 1e-12 {
		t.Fatalf("Tolerance(10) = %v, want 0.03", got)
	}
	if got := Tolerance(200); math.Abs(got-0.0005) > 1e-12 {
		t.Fatalf("Tolerance(200) = %v, want 0.0005", got)
	}

	short := boundaryOffset(10, 0.3)
	if !PointOnLineF(5, 0.9*short, 0, 0, 10, 0) {
		t.Fatalf("0.9x boundary on short segment should hit")
	}
	if PointOnLineF(5, 1.1*short, 0, 0, 10, 0) {
		t.Fatalf("1.1x boundary on short segment should miss")
	}

	long := boundaryOffset(200, 0.1)
	if !PointOnLineF(100, 0.9*long, 0, 0, 200, 0) {
		t.Fatalf("0.9x boundary on long segment should hit")
	}
	if PointOnLineF(100, 1.1*long, 0, 0, 200, 0) {
		t.Fatalf("1.1x boundary on long segment should miss")
	}
	if short/10 <= long/200 {
		t.Fatalf("short segments must get a relatively wider corridor: %v vs %v", short/10, long/200)
	}
}

func TestNear(t *testing.T) {
	if !Near(P(0, 0), P(4, -4), 5) {
		t.Fatalf("4px in both axes is near")
	}
	if Near(P(0, 0), P(5, 0), 5) || Near(P(0, 0), P(0, -5), 5) {
		t.Fatalf("5px in one axis is not near")
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#965219")
	if err != nil || c != (Color{0x96, 0x52, 0x19, 0xff}) {
		t.Fatalf("ParseHex = %+v, %v", c, err)
	}
	c, err = ParseHex("#01020304")
	if err != nil || c != (Color{1, 2, 3, 4}) {
		t.Fatalf("ParseHex alpha = %+v, %v", c, err)
	}
	if _, err := ParseHex("#12"); err == nil {
		t.Fatalf("short hex must fail")
	}
	if got := MustHex("#cccccc").Hex(); got != "#cccccc" {
		t.Fatalf("Hex round trip = %q", got)
	}
}
