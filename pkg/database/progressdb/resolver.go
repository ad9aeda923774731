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
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/mobhunt/progress-core/pkg/database"
	"github.com/rs/zerolog/log"
)

// playerRow is one row of a lookup statement.
type playerRow struct {
	player       database.PlayerRef
	dbid         int64
	learningMode sql.NullBool
	mute         sql.NullBool
}

func (r playerRow) hasSettings() bool {
	return r.learningMode.Valid && r.mute.Valid
}

// packBatches splits n identifiers into lookup batches, always taking the
// largest arity that still fits. 13 packs as [10 2 1].
func packBatches(n int) []int {
	var sizes []int
	for n > 0 {
		for _, arity := range lookupArities {
			if arity <= n {
				sizes = append(sizes, arity)
				n -= arity
				break
			}
		}
	}
	return sizes
}

func uniquePlayers(players []database.PlayerRef) []database.PlayerRef {
	seen := make(map[uuid.UUID]struct{}, len(players))
	unique := make([]database.PlayerRef, 0, len(players))
	for _, p := range players {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		unique = append(unique, p)
	}
	return unique
}

// liveName returns the name to compare against storage. An empty result
// means the live name is unknown and no drift check is done.
func (db *ProgressDB) liveName(player database.PlayerRef) string {
	if player.Name != "" || db.identity == nil {
		return player.Name
	}
	name, _, err := db.identity.DisplayName(player.ID)
	if err != nil {
		log.Debug().Err(err).Str("uuid", player.ID.String()).Msg("no live name for player")
		return ""
	}
	return name
}

// lookup resolves players to their stored rows in as few round trips as
// the lookup arities allow. Players with no stored row are returned in
// missing. Name drift found along the way is corrected before returning.
func (db *ProgressDB) lookup(
	op string,
	players []database.PlayerRef,
) (found map[uuid.UUID]playerRow, missing []database.PlayerRef, err error) {
	players = uniquePlayers(players)
	found = make(map[uuid.UUID]playerRow, len(players))
	if len(players) == 0 {
		return found, nil, nil
	}

	group, err := db.stmts.openGroup(lookupKinds...)
	if err != nil {
		return nil, nil, err
	}
	byArity := make(map[int]*sql.Stmt, len(group))
	for i, stmt := range group {
		byArity[lookupKinds[i].Arity()] = stmt
	}

	var drifted []database.PlayerRef
	offset := 0
	for _, size := range packBatches(len(players)) {
		batch := players[offset : offset+size]
		offset += size

		rows, err := db.queryLookup(byArity[size], batch)
		if err != nil {
			db.closeLookupGroup()
			return nil, nil, database.NewFault(database.ErrConnection, op, err)
		}

		for _, p := range batch {
			row, ok := rows[p.ID]
			if !ok {
				continue
			}
			live := db.liveName(p)
			if live != "" && live != row.player.Name {
				log.Warn().
					Str("uuid", p.ID.String()).
					Str("stored", row.player.Name).
					Str("live", live).
					Msg("player name change detected")
				drifted = append(drifted, database.PlayerRef{ID: p.ID, Name: live})
				row.player.Name = live
			}
			found[p.ID] = row
		}
	}
	db.closeLookupGroup()

	for _, p := range drifted {
		db.correctName(p)
	}

	for _, p := range players {
		if _, ok := found[p.ID]; !ok {
			missing = append(missing, p)
		}
	}
	return found, missing, nil
}

func (db *ProgressDB) closeLookupGroup() {
	if err := db.stmts.closeGroup(); err != nil {
		log.Warn().Err(err).Msg("failed to close lookup statements")
	}
}

// queryLookup runs one fixed-arity lookup. The batch size always equals
// the statement's arity. Rows are matched by UUID, never by position,
// and are fully drained before returning.
func (db *ProgressDB) queryLookup(
	stmt *sql.Stmt,
	batch []database.PlayerRef,
) (map[uuid.UUID]playerRow, error) {
	args := make([]any, len(batch))
	for i, p := range batch {
		args[i] = p.ID.String()
	}

	rows, err := stmt.QueryContext(db.ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer closeRows(rows)

	result := make(map[uuid.UUID]playerRow, len(batch))
	for rows.Next() {
		var row playerRow
		var rawUUID string
		scanErr := rows.Scan(
			&rawUUID,
			&row.player.Name,
			&row.dbid,
			&row.learningMode,
			&row.mute,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", scanErr)
		}
		id, parseErr := uuid.Parse(rawUUID)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid stored uuid %q: %w", rawUUID, parseErr)
		}
		row.player.ID = id
		result[id] = row
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player rows: %w", err)
	}
	return result, nil
}

// correctName writes the live display name back to storage in its own
// transaction. Failure is logged and swallowed: the read that found the
// drift still succeeds.
func (db *ProgressDB) correctName(player database.PlayerRef) {
	_, err := db.writeBatch("correct name", UpdatePlayerName, []any{player.Name, player.ID.String()})
	if err != nil {
		log.Warn().Err(err).
			Str("uuid", player.ID.String()).
			Str("name", player.Name).
			Msg("failed to correct player name")
		return
	}
	log.Debug().Str("uuid", player.ID.String()).Str("name", player.Name).Msg("player name corrected")
}

// resolve maps every player to its internal id, failing with
// ErrPlayerNotFound for the first player without a stored row.
func (db *ProgressDB) resolve(op string, players []database.PlayerRef) (map[uuid.UUID]int64, error) {
	found, missing, err := db.lookup(op, players)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, database.PlayerNotFound(op, missing[0])
	}
	ids := make(map[uuid.UUID]int64, len(found))
	for id, row := range found {
		ids[id] = row.dbid
	}
	return ids, nil
}

func (db *ProgressDB) resolveOne(op string, player database.PlayerRef) (playerRow, error) {
	found, missing, err := db.lookup(op, []database.PlayerRef{player})
	if err != nil {
		return playerRow{}, err
	}
	if len(missing) > 0 {
		return playerRow{}, database.PlayerNotFound(op, player)
	}
	return found[player.ID], nil
}

// playerByDBID maps a stored internal id back to a player. The name is
// the live one when the identity provider knows it, else the stored one.
func (db *ProgressDB) playerByDBID(op string, dbid int64) (database.PlayerRef, error) {
	stmt, err := db.stmts.open(GetPlayerByDBID)
	if err != nil {
		return database.PlayerRef{}, err
	}

	var rawUUID, name string
	err = stmt.QueryRowContext(db.ctx, dbid).Scan(&rawUUID, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return database.PlayerRef{}, &database.Fault{
			Kind:   database.ErrPlayerNotFound,
			Op:     op,
			Player: "id " + strconv.FormatInt(dbid, 10),
		}
	} else if err != nil {
		return database.PlayerRef{}, database.NewFault(
			database.ErrConnection,
			op,
			fmt.Errorf("failed to scan player row: %w", err),
		)
	}

	id, err := uuid.Parse(rawUUID)
	if err != nil {
		return database.PlayerRef{}, database.NewFault(
			database.ErrConnection,
			op,
			fmt.Errorf("invalid stored uuid %q: %w", rawUUID, err),
		)
	}

	player := database.PlayerRef{ID: id, Name: name}
	if live := db.liveName(database.PlayerRef{ID: id}); live != "" {
		player.Name = live
	}
	return player, nil
}

func (db *ProgressDB) playerByName(op, name string) (database.PlayerRef, int64, error) {
	stmt, err := db.stmts.open(GetPlayerByName)
	if err != nil {
		return database.PlayerRef{}, 0, err
	}

	var rawUUID string
	var dbid int64
	err = stmt.QueryRowContext(db.ctx, name).Scan(&rawUUID, &dbid)
	if errors.Is(err, sql.ErrNoRows) {
		return database.PlayerRef{}, 0, &database.Fault{
			Kind:   database.ErrPlayerNotFound,
			Op:     op,
			Player: name,
		}
	} else if err != nil {
		return database.PlayerRef{}, 0, database.NewFault(
			database.ErrConnection,
			op,
			fmt.Errorf("failed to scan player row: %w", err),
		)
	}

	id, err := uuid.Parse(rawUUID)
	if err != nil {
		return database.PlayerRef{}, 0, database.NewFault(
			database.ErrConnection,
			op,
			fmt.Errorf("invalid stored uuid %q: %w", rawUUID, err),
		)
	}
	return database.PlayerRef{ID: id, Name: name}, dbid, nil
}
