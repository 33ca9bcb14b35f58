/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package cli holds the blackboard command tree. Without a subcommand the
// desktop board opens; the subcommands work on the board file headlessly.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"blackboard/internal/config"
	"blackboard/internal/session"
	"blackboard/internal/ui"
	"blackboard/internal/version"
)

// App carries the persistent flags.
type App struct {
	ConfigPath string
	SaveFile   string
	LogLevel   string

	// runUI is swapped in tests.
	runUI func(config.AppConfig) error
}

func NewRootCmd() *cobra.Command { return newRootCmd(&App{runUI: ui.Run}) }

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "blackboard",
		Short:        "A chalkboard desktop for notes, lines and pinned apps",
		Version:      version.String(),
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the board
  blackboard

  # Use another board file
  blackboard --board ~/boards/work.csv

  # Headless helpers
  blackboard list
  blackboard export --format png --out board.png
  blackboard search "*.desktop"
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.config()
			if err != nil {
				return err
			}
			return app.runUI(cfg)
		},
	}
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "config file (default: per-user config dir, or $"+config.EnvConfigFile+")")
	cmd.PersistentFlags().StringVar(&app.SaveFile, "board", "", "board file (overrides general.save_file)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "log level: debug|info|warn|error")

	cmd.AddCommand(
		newVersionCmd(),
		newListCmd(app),
		newCheckCmd(app),
		newExportCmd(app),
		newSearchCmd(app),
		newHistoryCmd(app),
		newConfigCmd(app),
		newArchiveCmd(app),
	)
	return cmd
}

// config loads the configuration, applies the flags and installs logging.
func (a *App) config() (config.AppConfig, error) {
	var (
		cfg config.AppConfig
		err error
	)
	if a.ConfigPath != "" {
		cfg, err = config.LoadFile(a.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if a.SaveFile != "" {
		cfg.General.SaveFile = a.SaveFile
	}
	if a.LogLevel != "" {
		cfg.Logging.Level = a.LogLevel
	}
	session.InitLogging(cfg.Logging)
	return cfg, nil
}

// open loads a session for headless commands.
func (a *App) open(history bool) (*session.Session, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	return session.Open(cfg, session.Options{NoHistory: !history})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "blackboard %s\n", version.String())
			return err
		},
	}
}
