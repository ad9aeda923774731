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
	"strings"
)

// Kind names one entry of the fixed statement catalog.
type Kind int

const (
	GetPlayers1 Kind = iota
	GetPlayers2
	GetPlayers5
	GetPlayers10
	GetPlayerByName
	GetPlayerByDBID
	InsertPlayer
	UpdatePlayerName
	InsertSettings
	UpdateSettings
	LoadAchievements
	SaveAchievement
	GetBounties
	InsertBounty
	UpdateBounty
	DeleteBounty
	CleanSettings
	CleanAchievements
	CleanBounties
)

// lookupArities lists the batch sizes that have a lookup statement,
// largest first.
var lookupArities = [...]int{10, 5, 2, 1}

// lookupKinds is the statement group opened for batched resolution.
var lookupKinds = []Kind{GetPlayers1, GetPlayers2, GetPlayers5, GetPlayers10}

type catalogEntry struct {
	name   string
	query  string
	params int
}

const lookupColumns = `
	select
	Players.UUID, Players.Name, Players.PlayerID,
	PlayerSettings.LearningMode, PlayerSettings.Mute
	from Players
	left join PlayerSettings on PlayerSettings.PlayerID = Players.PlayerID
	where Players.UUID in `

// return ?, ?,... based on count
func prepareVariadic(p, s string, c int) string {
	if c < 1 {
		return ""
	}
	q := make([]string, c)
	for i := range q {
		q[i] = p
	}
	return strings.Join(q, s)
}

func lookupQuery(arity int) string {
	return lookupColumns + "(" + prepareVariadic("?", ", ", arity) + ");"
}

// The DML below is valid for both SQLite and MySQL. Only the DDL in
// migrations differs per dialect.
var catalog = map[Kind]catalogEntry{
	GetPlayers1:  {name: "get_players_1", query: lookupQuery(1), params: 1},
	GetPlayers2:  {name: "get_players_2", query: lookupQuery(2), params: 2},
	GetPlayers5:  {name: "get_players_5", query: lookupQuery(5), params: 5},
	GetPlayers10: {name: "get_players_10", query: lookupQuery(10), params: 10},
	GetPlayerByName: {
		name: "get_player_by_name",
		query: `
		select UUID, PlayerID
		from Players
		where Name = ?
		order by PlayerID desc
		limit 1;`,
		params: 1,
	},
	GetPlayerByDBID: {
		name: "get_player_by_dbid",
		query: `
		select UUID, Name
		from Players
		where PlayerID = ?;`,
		params: 1,
	},
	InsertPlayer: {
		name: "insert_player",
		query: `
		insert into Players(
			UUID, Name
		) values (?, ?);`,
		params: 2,
	},
	UpdatePlayerName: {
		name: "update_player_name",
		query: `
		update Players
		set Name = ?
		where UUID = ?;`,
		params: 2,
	},
	InsertSettings: {
		name: "insert_settings",
		query: `
		insert into PlayerSettings(
			PlayerID, LearningMode, Mute
		) select PlayerID, ?, ? from Players where UUID = ?;`,
		params: 3,
	},
	UpdateSettings: {
		name: "update_settings",
		query: `
		update PlayerSettings
		set LearningMode = ?, Mute = ?
		where PlayerID = ?;`,
		params: 3,
	},
	LoadAchievements: {
		name: "load_achievements",
		query: `
		select AchievementID, DateAchieved, Progress
		from Achievements
		where PlayerID = ?;`,
		params: 1,
	},
	SaveAchievement: {
		name: "save_achievement",
		query: `
		replace into Achievements(
			PlayerID, AchievementID, DateAchieved, Progress
		) values (?, ?, ?, ?);`,
		params: 4,
	},
	GetBounties: {
		name: "get_bounties",
		query: `
		select
		BountyID, OwnerID, MobType, WantedID, NpcID, MobID,
		WorldGroup, CreatedDate, EndDate, Prize, Message, Completed
		from Bounties
		where OwnerID = ? or WantedID = ?;`,
		params: 2,
	},
	InsertBounty: {
		name: "insert_bounty",
		query: `
		insert into Bounties(
			OwnerID, MobType, WantedID, NpcID, MobID, WorldGroup,
			CreatedDate, EndDate, Prize, Message, Completed
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		params: 11,
	},
	UpdateBounty: {
		name: "update_bounty",
		query: `
		update Bounties
		set Completed = ?
		where BountyID = ?;`,
		params: 2,
	},
	DeleteBounty: {
		name: "delete_bounty",
		query: `
		delete from Bounties
		where BountyID = ?;`,
		params: 1,
	},
	CleanSettings: {
		name: "clean_settings",
		query: `
		delete from PlayerSettings
		where PlayerID not in (select PlayerID from Players);`,
	},
	CleanAchievements: {
		name: "clean_achievements",
		query: `
		delete from Achievements
		where PlayerID not in (select PlayerID from Players);`,
	},
	CleanBounties: {
		name: "clean_bounties",
		query: `
		delete from Bounties
		where OwnerID not in (select PlayerID from Players)
		or WantedID not in (select PlayerID from Players);`,
	},
}

func (k Kind) String() string {
	if e, ok := catalog[k]; ok {
		return e.name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Query returns the SQL text the kind prepares.
func (k Kind) Query() string {
	return catalog[k].query
}

// Params returns the number of positional parameters the kind binds.
func (k Kind) Params() int {
	return catalog[k].params
}

// Arity returns the number of identifiers a lookup kind accepts, or 0
// for every other kind.
func (k Kind) Arity() int {
	switch k {
	case GetPlayers1:
		return 1
	case GetPlayers2:
		return 2
	case GetPlayers5:
		return 5
	case GetPlayers10:
		return 10
	default:
		return 0
	}
}
