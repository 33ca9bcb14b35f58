/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package input defines the host-independent event stream fed to the board.
package input

import (
	"fmt"

	"blackboard/internal/vector"
)

type Kind uint8

const (
	PointerDown Kind = iota + 1
	PointerMove
	PointerUp
	KeyDown
)

func (k Kind) String() string {
	switch k {
	case PointerDown:
		return "pointer-down"
	case PointerMove:
		return "pointer-move"
	case PointerUp:
		return "pointer-up"
	case KeyDown:
		return "key-down"
	}
	return "unknown"
}

type Button uint8

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

type Key uint8

const (
	KeyNone Key = iota
	KeyEnter
	KeyBackspace
	KeyEscape
	// KeyRune carries printable text in Event.Rune.
	KeyRune
	KeyOther
)

// Event is one pointer or keyboard event in board coordinates.
type Event struct {
	Kind   Kind
	Pos    vector.Pt
	Button Button
	Key    Key
	Rune   rune
	Ctrl   bool
}

func Down(x, y int, b Button) Event {
	return Event{Kind: PointerDown, Pos: vector.P(x, y), Button: b}
}

func Move(x, y int) Event { return Event{Kind: PointerMove, Pos: vector.P(x, y)} }

func Up(x, y int, b Button) Event {
	return Event{Kind: PointerUp, Pos: vector.P(x, y), Button: b}
}

// Press is a non-text key press.
func Press(k Key, ctrl bool) Event { return Event{Kind: KeyDown, Key: k, Ctrl: ctrl} }

// Type is a printable character.
func Type(r rune) Event { return Event{Kind: KeyDown, Key: KeyRune, Rune: r} }

func (e Event) IsLeftDown() bool  { return e.Kind == PointerDown && e.Button == ButtonLeft }
func (e Event) IsRightDown() bool { return e.Kind == PointerDown && e.Button == ButtonRight }
func (e Event) IsLeftUp() bool    { return e.Kind == PointerUp && e.Button == ButtonLeft }

// Text returns the character carried by a KeyRune event, or "".
func (e Event) Text() string {
	if e.Kind != KeyDown || e.Key != KeyRune || e.Rune == 0 {
		return ""
	}
	return string(e.Rune)
}

func (e Event) String() string {
	if e.Kind == KeyDown {
		return fmt.Sprintf("%s key=%d rune=%q ctrl=%t", e.Kind, e.Key, e.Rune, e.Ctrl)
	}
	return fmt.Sprintf("%s (%d,%d) button=%d", e.Kind, e.Pos.X, e.Pos.Y, e.Button)
}
