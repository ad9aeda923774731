// Progress Core
// Copyright (c) 2026 The Progress Core Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Progress Core.
//
// Progress Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Progress Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Progress Core.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/mobhunt/progress-core/internal/telemetry"
	"github.com/mobhunt/progress-core/pkg/config"
	"github.com/mobhunt/progress-core/pkg/database/progressdb"
	"github.com/mobhunt/progress-core/pkg/helpers"
	"github.com/mobhunt/progress-core/pkg/identity"
	"github.com/rs/zerolog/log"
)

// Version is set at build time.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

const appName = "progress"

func defaultConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

func run() error {
	configDir := flag.String(
		"config",
		defaultConfigDir(),
		"directory holding "+config.CfgFile,
	)
	doMigrate := flag.Bool(
		"migrate",
		false,
		"apply schema migrations and exit",
	)
	doClean := flag.Bool(
		"clean",
		false,
		"remove progress rows of deleted players and exit",
	)
	lookupName := flag.String(
		"lookup",
		"",
		"print the stored id of a player by display name and exit",
	)
	showVersion := flag.Bool(
		"version",
		false,
		"print version and exit",
	)
	daemonMode := flag.Bool(
		"daemon",
		false,
		"log to stderr as well as the log file",
	)
	flag.Parse()

	if *showVersion {
		_, _ = fmt.Fprintf(os.Stdout, "progressd %s\n", Version)
		return nil
	}

	var logWriters []io.Writer
	if *daemonMode {
		logWriters = []io.Writer{os.Stderr}
	}
	if err := helpers.InitLogging(*configDir, logWriters); err != nil {
		return fmt.Errorf("error initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(*configDir, config.BaseDefaults)
	if err != nil {
		log.Error().Err(err).Msg("error loading config")
		return fmt.Errorf("error loading config: %w", err)
	}
	helpers.SetLogLevel(cfg.DebugLogging())

	stopWatch, err := cfg.Watch(func() {
		helpers.SetLogLevel(cfg.DebugLogging())
	})
	if err != nil {
		log.Warn().Err(err).Msg("config changes will need a restart")
	} else {
		defer func() {
			if err := stopWatch(); err != nil {
				log.Warn().Err(err).Msg("error stopping config watcher")
			}
		}()
	}

	if err := telemetry.Init(cfg, Version); err != nil {
		log.Warn().Err(err).Msg("error reporting unavailable")
	}
	defer telemetry.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	players := identity.NewDirectory()
	db, err := progressdb.Open(ctx, cfg, players)
	if err != nil {
		log.Error().Err(err).Msg("error opening progress database")
		return fmt.Errorf("error opening progress database: %w", err)
	}
	defer func() {
		if err := db.Shutdown(); err != nil {
			log.Error().Err(err).Msg("error shutting down progress database")
		}
	}()

	switch {
	case *doMigrate:
		// Open already migrated.
		log.Info().Msg("progress database schema is up to date")
		return nil
	case *doClean:
		return runClean(db, os.Stdout)
	case *lookupName != "":
		return runLookup(db, *lookupName, os.Stdout)
	}

	log.Info().
		Str("version", Version).
		Str("driver", cfg.DatabaseDriver()).
		Msg("progress store running")
	<-ctx.Done()
	log.Info().Msg("signal received, shutting down")
	return nil
}
