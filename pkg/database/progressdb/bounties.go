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

// LoadBounties returns the bounties the player placed or is wanted for.
// Order is not specified.
func (db *ProgressDB) LoadBounties(player database.PlayerRef) ([]database.Bounty, error) {
	const op = "load bounties"
	release, err := db.acquire(op)
	if err != nil {
		return nil, err
	}
	defer release()

	row, err := db.resolveOne(op, player)
	if err != nil {
		return nil, err
	}

	bounties, err := db.queryBounties(op, row.dbid)
	if err != nil {
		return nil, err
	}

	// Rows are drained before any player lookup runs on the connection.
	// Each stored id is mapped back to a player once per call.
	players := map[int64]database.PlayerRef{row.dbid: row.player}
	playerFor := func(dbid int64) (database.PlayerRef, error) {
		if p, ok := players[dbid]; ok {
			return p, nil
		}
		p, err := db.playerByDBID(op, dbid)
		if err != nil {
			return database.PlayerRef{}, err
		}
		players[dbid] = p
		return p, nil
	}

	for i := range bounties {
		b := &bounties[i]
		if b.Owner, err = playerFor(b.OwnerDBID); err != nil {
			return nil, err
		}
		if b.Wanted, err = playerFor(b.WantedDBID); err != nil {
			return nil, err
		}
	}
	return bounties, nil
}

func (db *ProgressDB) queryBounties(op string, dbid int64) ([]database.Bounty, error) {
	stmt, err := db.stmts.open(GetBounties)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.QueryContext(db.ctx, dbid, dbid)
	if err != nil {
		return nil, database.NewFault(
			database.ErrConnection,
			op,
			fmt.Errorf("failed to query bounties: %w", err),
		)
	}
	defer closeRows(rows)

	list := make([]database.Bounty, 0)
	for rows.Next() {
		var b database.Bounty
		var createdMillis int64
		scanErr := rows.Scan(
			&b.BountyID,
			&b.OwnerDBID,
			&b.MobType,
			&b.WantedDBID,
			&b.NpcID,
			&b.MobID,
			&b.WorldGroup,
			&createdMillis,
			&b.EndDate,
			&b.Prize,
			&b.Message,
			&b.Completed,
		)
		if scanErr != nil {
			return nil, database.NewFault(
				database.ErrConnection,
				op,
				fmt.Errorf("failed to scan bounty row: %w", scanErr),
			)
		}
		b.CreatedDate = time.UnixMilli(createdMillis).UTC()
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, database.NewFault(
			database.ErrConnection,
			op,
			fmt.Errorf("error iterating bounty rows: %w", err),
		)
	}
	return list, nil
}

// InsertBounties resolves the owner and wanted player of each bounty and
// inserts them all in one transaction. CreatedDate is stamped now.
func (db *ProgressDB) InsertBounties(bounties []database.Bounty) error {
	const op = "insert bounties"
	release, err := db.acquire(op)
	if err != nil {
		return err
	}
	defer release()

	now := db.clock.Now().UnixMilli()
	b := newBatch(InsertBounty)
	for i := range bounties {
		bounty := &bounties[i]
		owner, err := db.resolveOne(op, bounty.Owner)
		if err != nil {
			return err
		}
		wanted, err := db.resolveOne(op, bounty.Wanted)
		if err != nil {
			return err
		}
		addErr := b.Add(
			owner.dbid,
			bounty.MobType,
			wanted.dbid,
			bounty.NpcID,
			bounty.MobID,
			bounty.WorldGroup,
			now,
			bounty.EndDate,
			bounty.Prize,
			bounty.Message,
			boolInt(bounty.Completed),
		)
		if addErr != nil {
			return database.NewFault(database.ErrWrite, op, addErr)
		}
	}
	_, err = db.writeBatches(op, b)
	return err
}

// UpdateBountyCompletion writes the completed flag of each bounty, keyed
// by BountyID, in one transaction.
func (db *ProgressDB) UpdateBountyCompletion(bounties []database.Bounty) error {
	const op = "update bounty completion"
	release, err := db.acquire(op)
	if err != nil {
		return err
	}
	defer release()

	b := newBatch(UpdateBounty)
	for i := range bounties {
		if err := b.Add(boolInt(bounties[i].Completed), bounties[i].BountyID); err != nil {
			return database.NewFault(database.ErrWrite, op, err)
		}
	}
	_, err = db.writeBatches(op, b)
	return err
}

func (db *ProgressDB) DeleteBounty(bounty database.Bounty) error {
	const op = "delete bounty"
	release, err := db.acquire(op)
	if err != nil {
		return err
	}
	defer release()

	_, err = db.writeBatch(op, DeleteBounty, []any{bounty.BountyID})
	return err
}
