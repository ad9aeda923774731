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
)

// GetSettings loads the settings of one player. A player without a
// stored row, or without a settings row, is ErrPlayerNotFound.
func (db *ProgressDB) GetSettings(player database.PlayerRef) (database.PlayerSettings, error) {
	const op = "get settings"
	release, err := db.acquire(op)
	if err != nil {
		return database.PlayerSettings{}, err
	}
	defer release()

	row, err := db.resolveOne(op, player)
	if err != nil {
		return database.PlayerSettings{}, err
	}
	if !row.hasSettings() {
		return database.PlayerSettings{}, database.PlayerNotFound(op, player)
	}
	return database.PlayerSettings{
		Player:       row.player,
		DBID:         row.dbid,
		LearningMode: row.learningMode.Bool,
		Muted:        row.mute.Bool,
	}, nil
}

// InsertSettings creates the player rows and their first settings rows
// in one transaction. Use UpsertSettings when some players may exist.
func (db *ProgressDB) InsertSettings(records []database.PlayerSettings) error {
	const op = "insert settings"
	release, err := db.acquire(op)
	if err != nil {
		return err
	}
	defer release()

	players := newBatch(InsertPlayer)
	settings := newBatch(InsertSettings)
	for i := range records {
		if err := addNewSettings(players, settings, &records[i]); err != nil {
			return database.NewFault(database.ErrWrite, op, err)
		}
	}
	_, err = db.writeBatches(op, players, settings)
	return err
}

// UpdateSettings overwrites the settings of existing players.
func (db *ProgressDB) UpdateSettings(records []database.PlayerSettings) error {
	const op = "update settings"
	release, err := db.acquire(op)
	if err != nil {
		return err
	}
	defer release()

	if len(records) == 0 {
		return nil
	}

	refs := make([]database.PlayerRef, len(records))
	for i := range records {
		refs[i] = records[i].Player
	}
	ids, err := db.resolve(op, refs)
	if err != nil {
		return err
	}

	b := newBatch(UpdateSettings)
	for i := range records {
		r := &records[i]
		if err := b.Add(boolInt(r.LearningMode), boolInt(r.Muted), ids[r.Player.ID]); err != nil {
			return database.NewFault(database.ErrWrite, op, err)
		}
	}
	_, err = db.writeBatches(op, b)
	return err
}

// UpsertSettings checks which players and settings rows already exist and
// inserts or updates each record accordingly, all in one transaction.
func (db *ProgressDB) UpsertSettings(records []database.PlayerSettings) error {
	const op = "upsert settings"
	release, err := db.acquire(op)
	if err != nil {
		return err
	}
	defer release()

	if len(records) == 0 {
		return nil
	}

	refs := make([]database.PlayerRef, len(records))
	for i := range records {
		refs[i] = records[i].Player
	}
	found, _, err := db.lookup(op, refs)
	if err != nil {
		return err
	}

	players := newBatch(InsertPlayer)
	inserts := newBatch(InsertSettings)
	updates := newBatch(UpdateSettings)
	for _, r := range latestSettings(records) {
		row, exists := found[r.Player.ID]
		switch {
		case !exists:
			err = addNewSettings(players, inserts, &r)
		case !row.hasSettings():
			err = inserts.Add(boolInt(r.LearningMode), boolInt(r.Muted), r.Player.ID.String())
		default:
			err = updates.Add(boolInt(r.LearningMode), boolInt(r.Muted), row.dbid)
		}
		if err != nil {
			return database.NewFault(database.ErrWrite, op, err)
		}
	}
	_, err = db.writeBatches(op, players, inserts, updates)
	return err
}

// latestSettings keeps the last record for each player, in first-seen order.
func latestSettings(records []database.PlayerSettings) []database.PlayerSettings {
	index := make(map[string]int, len(records))
	latest := make([]database.PlayerSettings, 0, len(records))
	for i := range records {
		key := records[i].Player.ID.String()
		if at, ok := index[key]; ok {
			latest[at] = records[i]
			continue
		}
		index[key] = len(latest)
		latest = append(latest, records[i])
	}
	return latest
}

func addNewSettings(players, settings *batch, r *database.PlayerSettings) error {
	if err := players.Add(r.Player.ID.String(), r.Player.Name); err != nil {
		return err
	}
	return settings.Add(boolInt(r.LearningMode), boolInt(r.Muted), r.Player.ID.String())
}
