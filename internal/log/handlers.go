/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// fanout sends every record to all handlers that accept its level.
type fanoutHandler []slog.Handler

func fanout(hs []slog.Handler) slog.Handler { return fanoutHandler(hs) }

func (f fanoutHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	out := make(fanoutHandler, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// consoleHandler prints one line per record: time level msg key=val...
type consoleHandler struct {
	opts   *slog.HandlerOptions
	w      io.Writer
	mu     *sync.Mutex
	prefix string
	attrs  []string
}

func (h *consoleHandler) Enabled(_ context.Context, l slog.Level) bool {
	min := slog.LevelInfo
	if h.opts != nil && h.opts.Level != nil {
		min = h.opts.Level.Level()
	}
	return l >= min
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	b.WriteString(ts.Format("15:04:05.000"))
	b.WriteByte(' ')
	b.WriteString(levelString(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		b.WriteByte(' ')
		b.WriteString(formatAttr(h.prefix, a))
		return true
	})
	if h.opts != nil && h.opts.AddSource {
		if file, line := recordSource(r); file != "" {
			b.WriteString(" src=")
			b.WriteString(file)
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(line))
		}
	}
	b.WriteByte('\n')
	if h.mu != nil {
		h.mu.Lock()
		defer h.mu.Unlock()
	}
	_, err := io.WriteString(h.w, b.String())
	return err
}

// recordSource resolves the caller recorded in r.PC.
func recordSource(r slog.Record) (string, int) {
	if r.PC == 0 {
		return "", 0
	}
	f, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
	return f.File, f.Line
}

func (h *consoleHandler) clone() *consoleHandler {
	c := *h
	if c.mu == nil {
		c.mu = &sync.Mutex{}
	}
	c.attrs = append([]string(nil), h.attrs...)
	return &c
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	for _, a := range attrs {
		c.attrs = append(c.attrs, formatAttr(h.prefix, a))
	}
	return c
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	c.prefix = h.prefix + name + "."
	return c
}

func formatAttr(prefix string, a slog.Attr) string {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		parts := make([]string, 0, len(a.Value.Group()))
		for _, g := range a.Value.Group() {
			parts = append(parts, formatAttr(prefix+a.Key+".", g))
		}
		return strings.Join(parts, " ")
	}
	return prefix + a.Key + "=" + valueString(a.Value)
}

func levelString(l slog.Level) string {
	switch l {
	case slog.LevelDebug:
		return "DBG"
	case slog.LevelInfo:
		return "INF"
	case slog.LevelWarn:
		return "WRN"
	case slog.LevelError:
		return "ERR"
	default:
		return l.String()
	}
}

func valueString(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " =\"") {
			return strconv.Quote(s)
		}
		return s
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	default:
		return v.String()
	}
}
