//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// dialogChooser shows search candidates in a modal list. It is called from
// the search goroutine and blocks until the user answers.
type dialogChooser struct {
	win fyne.Window
}

func (d dialogChooser) Choose(ctx context.Context, candidates []string) ([]string, error) {
	answer := make(chan []string, 1)
	fyne.Do(func() {
		selected := -1
		list := widget.NewList(
			func() int { return len(candidates) },
			func() fyne.CanvasObject { return widget.NewLabel("") },
			func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(candidates[i]) },
		)
		list.OnSelected = func(id widget.ListItemID) { selected = int(id) }
		list.OnUnselected = func(widget.ListItemID) { selected = -1 }
		dlg := dialog.NewCustomConfirm("Search Results", "Pin", "Cancel", container.NewStack(list), func(ok bool) {
			if !ok || selected < 0 {
				answer <- nil
				return
			}
			answer <- []string{candidates[selected]}
		}, d.win)
		dlg.Resize(fyne.NewSize(700, 400))
		dlg.Show()
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case picked := <-answer:
		return picked, nil
	}
}
