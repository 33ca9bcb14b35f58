/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package search finds files for the search bar and hands chosen paths
// back to the board through a Queue.
package search

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	applog "blackboard/internal/log"
)

// Searcher returns candidate paths for a pattern.
type Searcher interface {
	Search(ctx context.Context, pattern string) ([]string, error)
}

// Recorder stores submitted searches.
type Recorder interface {
	RecordSearch(ctx context.Context, pattern string, results int) error
}

// Service walks Roots recursively. Patterns containing glob metacharacters
// match base names case-insensitively; anything else is ranked by fuzzy
// subsequence score against the base name.
type Service struct {
	Roots      []string
	MaxResults int // <= 0 means unlimited
	Recorder   Recorder
	Log        *slog.Logger
}

// IsGlob reports whether pattern uses filepath.Match metacharacters.
func IsGlob(pattern string) bool { return strings.ContainsAny(pattern, "*?[") }

func (s *Service) Search(ctx context.Context, pattern string) ([]string, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, nil
	}
	l := s.Log
	if l == nil {
		l = applog.WithComponent("search")
	}
	l = applog.WithOperation(l, "search").With(slog.String("pattern", pattern))
	start := time.Now()

	var (
		out []string
		err error
	)
	if IsGlob(pattern) {
		if _, merr := filepath.Match(pattern, ""); merr != nil {
			return nil, merr
		}
		out, err = s.glob(ctx, strings.ToLower(pattern))
	} else {
		out, err = s.fuzzy(ctx, pattern)
	}
	if err != nil {
		return out, err
	}
	l.Debug("search done", slog.Int("results", len(out)), slog.Duration("took", time.Since(start)))
	if s.Recorder != nil {
		if rerr := s.Recorder.RecordSearch(ctx, pattern, len(out)); rerr != nil {
			l.Warn("record search failed", slog.Any("err", rerr))
		}
	}
	return out, nil
}

var errLimit = errors.New("result limit reached")

func (s *Service) glob(ctx context.Context, pattern string) ([]string, error) {
	var out []string
	err := s.walk(ctx, func(path, base string) error {
		if ok, _ := filepath.Match(pattern, strings.ToLower(base)); ok {
			out = append(out, path)
			if s.MaxResults > 0 && len(out) >= s.MaxResults {
				return errLimit
			}
		}
		return nil
	})
	return out, err
}

func (s *Service) fuzzy(ctx context.Context, pattern string) ([]string, error) {
	var paths, names []string
	err := s.walk(ctx, func(path, base string) error {
		paths = append(paths, path)
		names = append(names, base)
		return nil
	})
	if err != nil {
		return nil, err
	}
	matches := fuzzy.Find(pattern, names)
	n := len(matches)
	if s.MaxResults > 0 && n > s.MaxResults {
		n = s.MaxResults
	}
	out := make([]string, 0, n)
	for _, m := range matches[:n] {
		out = append(out, paths[m.Index])
	}
	return out, nil
}

// walk visits every entry below the roots, skipping unreadable directories.
func (s *Service) walk(ctx context.Context, visit func(path, base string) error) error {
	for _, root := range s.Roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			if err != nil {
				if d != nil && d.IsDir() && path != root {
					return fs.SkipDir
				}
				return nil
			}
			if path == root {
				return nil
			}
			return visit(path, d.Name())
		})
		if errors.Is(err, errLimit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}
