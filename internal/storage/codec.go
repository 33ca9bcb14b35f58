/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"blackboard/internal/domain"
)

// Delimiter separates fields on a board file line.
const Delimiter = ",,"

// ErrMalformedRecord marks a board file line that could not be decoded.
var ErrMalformedRecord = errors.New("malformed record")

// Tags written by earlier versions of the board file.
const (
	legacyNoteTag = "ChalkText"
	legacyLineTag = "ChalkLine"
)

var escaper = strings.NewReplacer("%", "%25", ",", "%2C", "\r", "%0D", "\n", "%0A")

// escapeField makes free text safe to place between delimiters. Backslashes
// are left alone so Windows paths stay readable.
func escapeField(s string) string { return escaper.Replace(s) }

// unescapeField reverses escapeField. Unknown %-sequences are kept as-is.
func unescapeField(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			switch strings.ToUpper(s[i+1 : i+3]) {
			case "25":
				b.WriteByte('%')
				i += 2
				continue
			case "2C":
				b.WriteByte(',')
				i += 2
				continue
			case "0D":
				b.WriteByte('\r')
				i += 2
				continue
			case "0A":
				b.WriteByte('\n')
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// EncodeRecord renders r as one board file line without the newline.
func EncodeRecord(r domain.Record) (string, error) {
	var f []string
	switch v := r.(type) {
	case domain.NoteRecord:
		f = []string{domain.TagNote, escapeField(v.Text), itoa(v.X), itoa(v.Y), itoa(v.FontSize), itoa(v.Color)}
	case domain.LineRecord:
		f = []string{domain.TagLine, itoa(v.StartX), itoa(v.StartY), itoa(v.EndX), itoa(v.EndY), itoa(v.Width), itoa(v.Color)}
	case domain.AppRecord:
		f = []string{domain.TagApp, escapeField(v.Path), itoa(v.X), itoa(v.Y), itoa(v.Color), escapeField(v.Name)}
	default:
		return "", fmt.Errorf("encode record: unsupported type %T", r)
	}
	return strings.Join(f, Delimiter), nil
}

// DecodeRecord parses one board file line. Errors wrap ErrMalformedRecord.
func DecodeRecord(line string) (domain.Record, error) {
	line = strings.TrimRight(line, "\r\n")
	f := strings.Split(line, Delimiter)
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrMalformedRecord, fmt.Sprintf(format, args...))
	}
	want := map[string]int{
		domain.TagNote: 6, legacyNoteTag: 6,
		domain.TagLine: 7, legacyLineTag: 7,
		domain.TagApp: 6,
	}
	n, ok := want[f[0]]
	if !ok {
		return nil, bad("unknown tag %q", f[0])
	}
	if len(f) != n {
		return nil, bad("%s: want %d fields, got %d", f[0], n, len(f))
	}
	var ints []int
	parse := func(idx ...int) error {
		ints = ints[:0]
		for _, i := range idx {
			v, err := strconv.Atoi(strings.TrimSpace(f[i]))
			if err != nil {
				return bad("%s field %d: %q is not an integer", f[0], i, f[i])
			}
			ints = append(ints, v)
		}
		return nil
	}
	switch f[0] {
	case domain.TagNote, legacyNoteTag:
		if err := parse(2, 3, 4, 5); err != nil {
			return nil, err
		}
		return domain.NoteRecord{Text: unescapeField(f[1]), X: ints[0], Y: ints[1], FontSize: ints[2], Color: ints[3]}, nil
	case domain.TagLine, legacyLineTag:
		if err := parse(1, 2, 3, 4, 5, 6); err != nil {
			return nil, err
		}
		return domain.LineRecord{StartX: ints[0], StartY: ints[1], EndX: ints[2], EndY: ints[3], Width: ints[4], Color: ints[5]}, nil
	default:
		if err := parse(2, 3, 4); err != nil {
			return nil, err
		}
		return domain.AppRecord{Path: unescapeField(f[1]), X: ints[0], Y: ints[1], Color: ints[2], Name: unescapeField(strings.TrimSpace(f[5]))}, nil
	}
}

func itoa(v int) string { return strconv.Itoa(v) }
