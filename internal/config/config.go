/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config loads the user-editable blackboard configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// AppConfig is persisted as YAML in the user scope. Environment variables
// are read-only overrides applied at load time.
//
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version" json:"config_version"`
	General       GeneralConfig `yaml:"general" json:"general"`
	Board         BoardConfig   `yaml:"board" json:"board"`
	Logging       LoggingConfig `yaml:"logging" json:"logging"`
}

type GeneralConfig struct {
	SaveFile         string   `yaml:"save_file" json:"save_file"`
	SearchRoots      []string `yaml:"search_roots" json:"search_roots"`
	SearchMaxResults int      `yaml:"search_max_results" json:"search_max_results"`
	// HistoryDir holds .blackboard/history.sqlite; empty means next to the save file.
	HistoryDir string `yaml:"history_dir" json:"history_dir"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
}

// BoardConfig carries every visual and interaction constant of the board.
// Colors are "#rrggbb" or "#rrggbbaa".
type BoardConfig struct {
	Width          int      `yaml:"width" json:"width"`
	Height         int      `yaml:"height" json:"height"`
	FPS            int      `yaml:"fps" json:"fps"`
	BorderWidth    int      `yaml:"border_width" json:"border_width"`
	Background     string   `yaml:"background" json:"background"`
	BorderColor    string   `yaml:"border_color" json:"border_color"`
	Palette        []string `yaml:"palette" json:"palette"`
	EditingColor   string   `yaml:"editing_color" json:"editing_color"`
	MenuColor      string   `yaml:"menu_color" json:"menu_color"`
	MenuHoverColor string   `yaml:"menu_hover_color" json:"menu_hover_color"`
	MenuTextColor  string   `yaml:"menu_text_color" json:"menu_text_color"`
	MenuFontSize   int      `yaml:"menu_font_size" json:"menu_font_size"`
	ChalkFont      string   `yaml:"chalk_font" json:"chalk_font"`
	ChalkFontSize  int      `yaml:"chalk_font_size" json:"chalk_font_size"`
	AppFontSize    int      `yaml:"app_font_size" json:"app_font_size"`
	AppIconSize    int      `yaml:"app_icon_size" json:"app_icon_size"`
	LineWidth      int      `yaml:"line_width" json:"line_width"`
	MinFontSize    int      `yaml:"min_font_size" json:"min_font_size"`
	MinLineWidth   int      `yaml:"min_line_width" json:"min_line_width"`
	ShortLine      int      `yaml:"short_line" json:"short_line"`
	SpawnMargin    int      `yaml:"spawn_margin" json:"spawn_margin"`
	Placeholder    string   `yaml:"placeholder" json:"placeholder"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Source bool   `yaml:"source" json:"source"`
	File   string `yaml:"file" json:"file"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General: GeneralConfig{
			SaveFile:         "save.csv",
			SearchRoots:      []string{defaultSearchRoot()},
			SearchMaxResults: 200,
			MaxBackups:       10,
		},
		Board: BoardConfig{
			Width:       900,
			Height:      600,
			FPS:         30,
			BorderWidth: 10,
			Background:  "#2d2d2d",
			BorderColor: "#965219",
			Palette: []string{
				"#cccccc", // white chalk
				"#e05a5a",
				"#e0b44a",
				"#6fcf6f",
				"#5aa6e0",
				"#c77ae0",
			},
			EditingColor:   "#ffe680",
			MenuColor:      "#1e1e1e",
			MenuHoverColor: "#3c3c3c",
			MenuTextColor:  "#f4f4f4",
			MenuFontSize:   22,
			ChalkFontSize:  32,
			AppFontSize:    22,
			AppIconSize:    32,
			LineWidth:      6,
			MinFontSize:    2,
			MinLineWidth:   1,
			ShortLine:      5,
			SpawnMargin:    10,
			Placeholder:    "Type here to search",
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

func defaultSearchRoot() string {
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		return h
	}
	return string(filepath.Separator)
}

// Env var names used as overrides.
const (
	EnvConfigFile  = "BB_CONFIG"
	EnvSaveFile    = "BB_SAVE_FILE"
	EnvSearchRoots = "BB_SEARCH_ROOTS" // os.PathListSeparator separated
	EnvHistoryDir  = "BB_HISTORY_DIR"
	EnvLogLevel    = "BB_LOG_LEVEL"
	EnvLogFormat   = "BB_LOG_FORMAT"
	EnvLogSource   = "BB_LOG_SOURCE"
	EnvLogFile     = "BB_LOG_FILE"
)

// ErrInvalid wraps schema validation failures.
var ErrInvalid = errors.New("invalid configuration")

//go:embed config.schema.json
var schemaJSON []byte

// ConfigPath returns the per-user config file path. BB_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Blackboard")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Blackboard")
	default:
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "blackboard")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "blackboard")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present) over the defaults, applies
// environment overrides and validates the result.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return Defaults(), err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path. A missing file yields the defaults.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg to path, creating parent directories.
func SaveFile(path string, cfg AppConfig) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks cfg against the embedded JSON schema.
func Validate(cfg AppConfig) error {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewGoLoader(cfg))
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	g, sg := &dst.General, src.General
	if s := strings.TrimSpace(sg.SaveFile); s != "" {
		g.SaveFile = s
	}
	if len(sg.SearchRoots) > 0 {
		g.SearchRoots = append([]string(nil), sg.SearchRoots...)
	}
	if sg.SearchMaxResults != 0 {
		g.SearchMaxResults = sg.SearchMaxResults
	}
	if s := strings.TrimSpace(sg.HistoryDir); s != "" {
		g.HistoryDir = s
	}
	if sg.MaxBackups != 0 {
		g.MaxBackups = sg.MaxBackups
	}

	b, sb := &dst.Board, src.Board
	mergeInt(&b.Width, sb.Width)
	mergeInt(&b.Height, sb.Height)
	mergeInt(&b.FPS, sb.FPS)
	mergeInt(&b.BorderWidth, sb.BorderWidth)
	mergeStr(&b.Background, sb.Background)
	mergeStr(&b.BorderColor, sb.BorderColor)
	if len(sb.Palette) > 0 {
		b.Palette = append([]string(nil), sb.Palette...)
	}
	mergeStr(&b.EditingColor, sb.EditingColor)
	mergeStr(&b.MenuColor, sb.MenuColor)
	mergeStr(&b.MenuHoverColor, sb.MenuHoverColor)
	mergeStr(&b.MenuTextColor, sb.MenuTextColor)
	mergeInt(&b.MenuFontSize, sb.MenuFontSize)
	mergeStr(&b.ChalkFont, sb.ChalkFont)
	mergeInt(&b.ChalkFontSize, sb.ChalkFontSize)
	mergeInt(&b.AppFontSize, sb.AppFontSize)
	mergeInt(&b.AppIconSize, sb.AppIconSize)
	mergeInt(&b.LineWidth, sb.LineWidth)
	mergeInt(&b.MinFontSize, sb.MinFontSize)
	mergeInt(&b.MinLineWidth, sb.MinLineWidth)
	mergeInt(&b.ShortLine, sb.ShortLine)
	mergeInt(&b.SpawnMargin, sb.SpawnMargin)
	mergeStr(&b.Placeholder, sb.Placeholder)

	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func mergeInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func mergeStr(dst *string, v string) {
	if s := strings.TrimSpace(v); s != "" {
		*dst = s
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvSaveFile)); v != "" {
		cfg.General.SaveFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSearchRoots)); v != "" {
		var roots []string
		for _, r := range filepath.SplitList(v) {
			if r = strings.TrimSpace(r); r != "" {
				roots = append(roots, r)
			}
		}
		if len(roots) > 0 {
			cfg.General.SearchRoots = roots
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvHistoryDir)); v != "" {
		cfg.General.HistoryDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func truthy(v string) bool {
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	lv := strings.ToLower(v)
	return lv == "on" || lv == "yes"
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	var env string
	switch key {
	case "general.save_file":
		env = EnvSaveFile
	case "general.search_roots":
		env = EnvSearchRoots
	case "general.history_dir":
		env = EnvHistoryDir
	case "logging.level":
		env = EnvLogLevel
	case "logging.format":
		env = EnvLogFormat
	case "logging.source":
		env = EnvLogSource
	case "logging.file":
		env = EnvLogFile
	default:
		return "", false
	}
	if os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// ResolvedHistoryDir returns the directory that holds the history index.
func (g GeneralConfig) ResolvedHistoryDir() string {
	if g.HistoryDir != "" {
		return g.HistoryDir
	}
	if dir := filepath.Dir(g.SaveFile); dir != "" {
		return dir
	}
	return "."
}
