/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package launch opens files with the platform's default handler.
package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"time"

	applog "blackboard/internal/log"
)

// ErrNotFound is returned when the launch target does not exist.
var ErrNotFound = errors.New("launch target not found")

// Launcher opens a file or application.
type Launcher interface {
	Launch(path string) error
}

// Func adapts a plain function to Launcher.
type Func func(path string) error

func (f Func) Launch(path string) error { return f(path) }

// OSLauncher starts the platform default "open" action without waiting
// for it to finish.
type OSLauncher struct {
	// GOOS overrides runtime.GOOS; empty uses the running platform.
	GOOS string
	// Start runs the command; nil uses exec.Command(...).Start.
	Start func(name string, args ...string) error
}

func (l OSLauncher) Launch(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	goos := l.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	name, args := Command(goos, path)
	start := l.Start
	if start == nil {
		start = func(name string, args ...string) error { return exec.Command(name, args...).Start() }
	}
	if err := start(name, args...); err != nil {
		return fmt.Errorf("launch %s: %w", path, err)
	}
	return nil
}

// Command returns the program and arguments that open path on goos.
func Command(goos, path string) (string, []string) {
	switch goos {
	case "windows":
		// empty title argument so a quoted path is not taken as the window title
		return "cmd", []string{"/c", "start", "", path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}

// Recorder stores launch attempts.
type Recorder interface {
	RecordLaunch(ctx context.Context, path string, launchErr error) error
}

// Recording wraps a Launcher and writes every attempt to a Recorder.
// Recorder failures are logged and never mask the launch result.
type Recording struct {
	Next     Launcher
	Recorder Recorder
	Log      *slog.Logger
}

func (r Recording) Launch(path string) error {
	err := r.Next.Launch(path)
	if r.Recorder == nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if rerr := r.Recorder.RecordLaunch(ctx, path, err); rerr != nil {
		l := r.Log
		if l == nil {
			l = applog.WithComponent("launch")
		}
		l.Warn("record launch failed", slog.String("path", path), slog.Any("err", rerr))
	}
	return err
}
