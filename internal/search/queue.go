/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package search

import (
	"context"
	"sync"
)

// Chooser presents candidates to the user and returns the chosen paths.
// An empty result means the user picked nothing.
type Chooser interface {
	Choose(ctx context.Context, candidates []string) ([]string, error)
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(ctx context.Context, candidates []string) ([]string, error)

func (f ChooserFunc) Choose(ctx context.Context, c []string) ([]string, error) { return f(ctx, c) }

// FirstChooser picks the best-ranked candidate without asking.
type FirstChooser struct{}

func (FirstChooser) Choose(_ context.Context, candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	return candidates[:1], nil
}

// Queue is the hand-off between search workers and the board loop.
type Queue struct {
	mu    sync.Mutex
	items []string
}

func (q *Queue) Push(paths ...string) {
	if len(paths) == 0 {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, paths...)
	q.mu.Unlock()
}

// Drain returns everything pushed since the last Drain, or nil.
func (q *Queue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Run searches for pattern, asks chooser, and pushes the chosen paths.
func Run(ctx context.Context, s Searcher, c Chooser, q *Queue, pattern string) error {
	candidates, err := s.Search(ctx, pattern)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return nil
	}
	if c == nil {
		c = FirstChooser{}
	}
	chosen, err := c.Choose(ctx, candidates)
	if err != nil {
		return err
	}
	q.Push(chosen...)
	return nil
}
