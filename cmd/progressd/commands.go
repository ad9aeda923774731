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
	"errors"
	"fmt"
	"io"

	"github.com/mobhunt/progress-core/pkg/database"
)

func runClean(db database.ProgressDBI, w io.Writer) error {
	removed, err := db.CleanOrphans()
	if err != nil {
		return fmt.Errorf("error cleaning orphaned rows: %w", err)
	}
	_, _ = fmt.Fprintf(w, "removed %d orphaned rows\n", removed)
	return nil
}

func runLookup(db database.ProgressDBI, name string, w io.Writer) error {
	player, err := db.GetPlayerByName(name)
	if errors.Is(err, database.ErrPlayerNotFound) {
		_, _ = fmt.Fprintf(w, "no player named %q\n", name)
		return nil
	} else if err != nil {
		return fmt.Errorf("error looking up player: %w", err)
	}

	settings, err := db.GetSettings(player)
	switch {
	case errors.Is(err, database.ErrPlayerNotFound):
		_, _ = fmt.Fprintf(w, "%s\t%s\tno settings\n", player.ID, player.Name)
	case err != nil:
		return fmt.Errorf("error loading settings: %w", err)
	default:
		_, _ = fmt.Fprintf(w, "%s\t%s\tid=%d learning=%t muted=%t\n",
			player.ID, player.Name, settings.DBID, settings.LearningMode, settings.Muted)
	}
	return nil
}
