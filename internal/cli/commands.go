/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"blackboard/internal/archive"
	"blackboard/internal/board"
	"blackboard/internal/config"
	"blackboard/internal/domain"
	"blackboard/internal/export"
	"blackboard/internal/search"
	"blackboard/internal/storage"
)

func newListCmd(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the records of the board file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(false)
			if err != nil {
				return err
			}
			defer s.Close()
			if asJSON {
				return writeRecordsJSON(cmd.OutOrStdout(), s.Records())
			}
			return writeRecords(cmd.OutOrStdout(), s.Records())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func writeRecords(w io.Writer, recs []domain.Record) error {
	for _, r := range recs {
		var err error
		switch v := r.(type) {
		case domain.NoteRecord:
			_, err = fmt.Fprintf(w, "note  (%d,%d) size=%d color=%d %q\n", v.X, v.Y, v.FontSize, v.Color, v.Text)
		case domain.LineRecord:
			_, err = fmt.Fprintf(w, "line  (%d,%d)-(%d,%d) width=%d color=%d\n", v.StartX, v.StartY, v.EndX, v.EndY, v.Width, v.Color)
		case domain.AppRecord:
			_, err = fmt.Fprintf(w, "app   (%d,%d) color=%d %q %s\n", v.X, v.Y, v.Color, v.Name, v.Path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

type taggedRecord struct {
	Tag    string        `json:"tag"`
	Record domain.Record `json:"record"`
}

func writeRecordsJSON(w io.Writer, recs []domain.Record) error {
	out := make([]taggedRecord, 0, len(recs))
	for _, r := range recs {
		out = append(out, taggedRecord{Tag: r.Tag(), Record: r})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func newCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the board file and report skipped lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(false)
			if err != nil {
				return err
			}
			defer s.Close()
			h := s.Handle
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d records\n", h.Path, len(h.Records))
			if h.RestoredFrom != "" {
				fmt.Fprintf(out, "restored from backup %s\n", h.RestoredFrom)
			}
			for _, w := range h.Warnings {
				fmt.Fprintln(out, w.String())
			}
			if n := len(h.Warnings); n > 0 {
				return fmt.Errorf("%w: %d lines skipped", storage.ErrMalformedRecord, n)
			}
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var (
		format, out   string
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the board to a PNG, SVG or PDF file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
			}
			render, ok := exporters[format]
			if !ok {
				return fmt.Errorf("unknown format %q (want png, svg or pdf)", format)
			}
			s, err := app.open(false)
			if err != nil {
				return err
			}
			defer s.Close()
			if width > 0 && height > 0 {
				s.Board.Resize(width, height)
			}
			if err := render(s.Board, out); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "png, svg or pdf (default: from --out extension)")
	cmd.Flags().StringVar(&out, "out", "", "output file")
	cmd.Flags().IntVar(&width, "width", 0, "board width in pixels (default: board.width)")
	cmd.Flags().IntVar(&height, "height", 0, "board height in pixels (default: board.height)")
	return cmd
}

var exporters = map[string]func(*board.Board, string) error{
	"png": export.PNG,
	"svg": export.SVG,
	"pdf": export.PDF,
}

func newSearchCmd(app *App) *cobra.Command {
	var (
		roots   []string
		limit   int
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "search <pattern>",
		Short: "Search the configured roots like the board's search bar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.config()
			if err != nil {
				return err
			}
			svc := &search.Service{Roots: cfg.General.SearchRoots, MaxResults: cfg.General.SearchMaxResults}
			if len(roots) > 0 {
				svc.Roots = roots
			}
			if limit > 0 {
				svc.MaxResults = limit
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			res, err := svc.Search(ctx, args[0])
			if err != nil {
				return err
			}
			for _, p := range res {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), p); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&roots, "root", nil, "search root (repeatable; default: general.search_roots)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (default: general.search_max_results)")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "give up after this long")
	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent launches and searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.config()
			if err != nil {
				return err
			}
			h, err := storage.OpenHistory(cfg.General.ResolvedHistoryDir())
			if err != nil {
				return err
			}
			defer h.Close()
			ctx := cmd.Context()
			launches, err := h.RecentLaunches(ctx, limit)
			if err != nil {
				return err
			}
			searches, err := h.RecentSearches(ctx, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Launches:")
			for _, l := range launches {
				status := "ok"
				if !l.OK {
					status = "failed: " + l.Error
				}
				fmt.Fprintf(out, "  %s  %s  %s\n", l.At.Local().Format(time.DateTime), l.Path, status)
			}
			fmt.Fprintln(out, "Searches:")
			for _, s := range searches {
				fmt.Fprintf(out, "  %s  %q  %d results\n", s.At.Local().Format(time.DateTime), s.Pattern, s.Results)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "entries per section")
	return cmd
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}
	path := func() (string, error) {
		if app.ConfigPath != "" {
			return app.ConfigPath, nil
		}
		return config.ConfigPath()
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), p)
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.config()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(cfg)
		},
	})
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path()
			if err != nil {
				return err
			}
			if _, err := os.Stat(p); err == nil && !force {
				return fmt.Errorf("%s exists (use --force to overwrite)", p)
			}
			if err := config.SaveFile(p, config.Defaults()); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p)
			return err
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}

func newArchiveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Bundle or restore the board file and its backups",
	}
	var out string
	packCmd := &cobra.Command{
		Use:   "pack",
		Short: "Zip the board file and its backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.config()
			if err != nil {
				return err
			}
			board := cfg.General.SaveFile
			if out == "" {
				out = board + ".zip"
			}
			n, err := archive.Pack(board, out)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d files)\n", out, n)
			return err
		},
	}
	packCmd.Flags().StringVarP(&out, "out", "o", "", "zip path (default: <board>.zip)")
	var dir string
	unpackCmd := &cobra.Command{
		Use:   "unpack <zip>",
		Short: "Restore an archive without overwriting existing files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				cfg, err := app.config()
				if err != nil {
					return err
				}
				dir = filepath.Dir(cfg.General.SaveFile)
			}
			n, err := archive.Unpack(args[0], dir)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "restored %d files into %s\n", n, dir)
			return err
		},
	}
	unpackCmd.Flags().StringVar(&dir, "dir", "", "target directory (default: the board file's directory)")
	cmd.AddCommand(packCmd, unpackCmd)
	return cmd
}
