/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// Persisted board records. Only these fields survive a restart; drag,
// edit and menu state is rebuilt from defaults on load.

// Record is one persisted board item. The set of implementations is closed.
type Record interface {
	Tag() string
	record()
}

// Record tags as written to the board file.
const (
	TagNote = "TextNote"
	TagLine = "Line"
	TagApp  = "App"
)

// NoteRecord is a chalk text note; Y is the top of the text box.
type NoteRecord struct {
	Text     string `json:"text"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	FontSize int    `json:"fontSize"`
	Color    int    `json:"color"`
}

// LineRecord is a committed freehand line.
type LineRecord struct {
	StartX int `json:"startX"`
	StartY int `json:"startY"`
	EndX   int `json:"endX"`
	EndY   int `json:"endY"`
	Width  int `json:"width"`
	Color  int `json:"color"`
}

// AppRecord is a pinned application. Name is the display label and is
// independent of Path.
type AppRecord struct {
	Path  string `json:"path"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Color int    `json:"color"`
	Name  string `json:"name"`
}

func (NoteRecord) Tag() string { return TagNote }
func (LineRecord) Tag() string { return TagLine }
func (AppRecord) Tag() string  { return TagApp }

func (NoteRecord) record() {}
func (LineRecord) record() {}
func (AppRecord) record()  {}
