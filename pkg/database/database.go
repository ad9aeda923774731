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

package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

/*
 * Record types and interfaces shared by the store implementation and
 * its callers. The concrete store lives in progressdb.
 */

// PlayerRef identifies a player. ID never changes; Name is the live
// display name and may differ from the one cached in storage. An empty
// Name means the live name is not known (e.g. the player is offline).
type PlayerRef struct {
	Name string    `json:"name"`
	ID   uuid.UUID `json:"id"`
}

func (p PlayerRef) String() string {
	if p.Name == "" {
		return p.ID.String()
	}
	return p.Name + " (" + p.ID.String() + ")"
}

/*
 * Structs for SQL records
 */

type PlayerSettings struct {
	Player       PlayerRef `json:"player"`
	DBID         int64     `json:"id"`
	LearningMode bool      `json:"learningMode"`
	Muted        bool      `json:"muted"`
}

type Achievement struct {
	Date     time.Time `json:"date"`
	ID       string    `json:"id"`
	Player   PlayerRef `json:"player"`
	Progress int       `json:"progress"`
}

type Bounty struct {
	CreatedDate time.Time `json:"createdDate"`
	Owner       PlayerRef `json:"owner"`
	Wanted      PlayerRef `json:"wanted"`
	MobType     string    `json:"mobType"`
	MobID       string    `json:"mobId"`
	WorldGroup  string    `json:"worldGroup"`
	Message     string    `json:"message"`
	BountyID    int64     `json:"id"`
	OwnerDBID   int64     `json:"ownerId"`
	WantedDBID  int64     `json:"wantedId"`
	// EndDate is epoch milliseconds.
	EndDate   int64   `json:"endDate"`
	Prize     float64 `json:"prize"`
	NpcID     int     `json:"npcId"`
	Completed bool    `json:"completed"`
}

/*
 * Interfaces for external deps
 */

// IdentityProvider reports the live display name of a player. online is
// false when the player is not connected; name may still be known.
type IdentityProvider interface {
	DisplayName(id uuid.UUID) (name string, online bool, err error)
}

type GenericDBI interface {
	UnsafeGetSQLDb() *sql.DB
	MigrateUp() error
	Shutdown() error
}

type ProgressDBI interface {
	GenericDBI

	InsertPlayers(players []PlayerRef) error
	GetPlayerByName(name string) (PlayerRef, error)
	GetPlayerByDBID(dbid int64) (PlayerRef, error)
	CleanOrphans() (int64, error)

	GetSettings(player PlayerRef) (PlayerSettings, error)
	InsertSettings(records []PlayerSettings) error
	UpdateSettings(records []PlayerSettings) error
	UpsertSettings(records []PlayerSettings) error

	LoadAchievements(player PlayerRef) ([]Achievement, error)
	SaveAchievements(records []Achievement) error

	LoadBounties(player PlayerRef) ([]Bounty, error)
	InsertBounties(bounties []Bounty) error
	UpdateBountyCompletion(bounties []Bounty) error
	DeleteBounty(bounty Bounty) error
}
