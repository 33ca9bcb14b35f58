/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import "blackboard/internal/vector"

// Surface receives draw effects. Text is anchored at the top-left of its
// line box; Icon draws the platform icon for path into r.
type Surface interface {
	FillRect(r vector.Rect, c vector.Color)
	StrokeRect(r vector.Rect, width int, c vector.Color)
	Line(a, b vector.Pt, width int, c vector.Color)
	Text(at vector.Pt, s string, size int, c vector.Color)
	Icon(r vector.Rect, path string)
}

// Notifier raises a non-fatal message to the user.
type Notifier interface {
	Notify(title, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, message string)

func (f NotifierFunc) Notify(title, message string) { f(title, message) }
