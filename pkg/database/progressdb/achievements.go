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
	"fmt"
	"time"

	"github.com/mobhunt/progress-core/pkg/database"
)

// LoadAchievements returns every achievement stored for the player. No
// achievements is an empty slice, not an error.
func (db *ProgressDB) LoadAchievements(player database.PlayerRef) ([]database.Achievement, error) {
	const op = "load achievements"
	release, err := db.acquire(op)
	if err != nil {
		return nil, err
	}
	defer release()

	row, err := db.resolveOne(op, player)
	if err != nil {
		return nil, err
	}

	stmt, err := db.stmts.open(LoadAchievements)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(db.ctx, row.dbid)
	if err != nil {
		return nil, database.NewFault(
			database.ErrConnection,
			op,
			fmt.Errorf("failed to query achievements: %w", err),
		)
	}
	defer closeRows(rows)

	list := make([]database.Achievement, 0)
	for rows.Next() {
		a := database.Achievement{Player: row.player}
		var dateMillis int64
		if err := rows.Scan(&a.ID, &dateMillis, &a.Progress); err != nil {
			return nil, database.NewFault(
				database.ErrConnection,
				op,
				fmt.Errorf("failed to scan achievement row: %w", err),
			)
		}
		a.Date = time.UnixMilli(dateMillis).UTC()
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, database.NewFault(
			database.ErrConnection,
			op,
			fmt.Errorf("error iterating achievement rows: %w", err),
		)
	}
	return list, nil
}

// SaveAchievements resolves every owning player in one batched lookup and
// writes all records in one transaction, dated now. Progress overwrites:
// the last record for a (player, achievement) pair wins.
func (db *ProgressDB) SaveAchievements(records []database.Achievement) error {
	const op = "save achievements"
	release, err := db.acquire(op)
	if err != nil {
		return err
	}
	defer release()

	if len(records) == 0 {
		return nil
	}

	players := make([]database.PlayerRef, 0, len(records))
	for i := range records {
		players = append(players, records[i].Player)
	}
	ids, err := db.resolve(op, players)
	if err != nil {
		return err
	}

	now := db.clock.Now().UnixMilli()
	b := newBatch(SaveAchievement)
	for i := range records {
		a := &records[i]
		if err := b.Add(ids[a.Player.ID], a.ID, now, a.Progress); err != nil {
			return database.NewFault(database.ErrWrite, op, err)
		}
	}
	_, err = db.writeBatches(op, b)
	return err
}
