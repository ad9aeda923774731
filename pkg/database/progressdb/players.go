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

package progressdb

import (
	"github.com/mobhunt/progress-core/pkg/database"
	"github.com/rs/zerolog/log"
)

// InsertPlayers adds bare player rows. Players must exist before any of
// their data can be resolved; inserting one that exists fails the batch.
func (db *ProgressDB) InsertPlayers(players []database.PlayerRef) error {
	const op = "insert players"
	release, err := db.acquire(op)
	if err != nil {
		return err
	}
	defer release()

	b := newBatch(InsertPlayer)
	for _, p := range players {
		if err := b.Add(p.ID.String(), p.Name); err != nil {
			return database.NewFault(database.ErrWrite, op, err)
		}
	}
	_, err = db.writeBatches(op, b)
	return err
}

// GetPlayerByName returns the most recently created player stored with
// the given display name.
func (db *ProgressDB) GetPlayerByName(name string) (database.PlayerRef, error) {
	const op = "get player by name"
	release, err := db.acquire(op)
	if err != nil {
		return database.PlayerRef{}, err
	}
	defer release()

	player, _, err := db.playerByName(op, name)
	return player, err
}

func (db *ProgressDB) GetPlayerByDBID(dbid int64) (database.PlayerRef, error) {
	const op = "get player by id"
	release, err := db.acquire(op)
	if err != nil {
		return database.PlayerRef{}, err
	}
	defer release()

	return db.playerByDBID(op, dbid)
}

// CleanOrphans removes settings, achievements and bounties whose players
// no longer exist, in one transaction. It returns the rows removed.
func (db *ProgressDB) CleanOrphans() (int64, error) {
	const op = "clean orphans"
	release, err := db.acquire(op)
	if err != nil {
		return 0, err
	}
	defer release()

	removed, err := db.writeBatches(op,
		cleanBatch(CleanSettings),
		cleanBatch(CleanAchievements),
		cleanBatch(CleanBounties),
	)
	if err != nil {
		return 0, err
	}
	log.Info().Int64("removed", removed).Msg("orphaned progress rows cleaned")
	return removed, nil
}

// cleanBatch is a batch of one parameterless row.
func cleanBatch(kind Kind) *batch {
	b := newBatch(kind)
	b.count = 1
	return b
}
