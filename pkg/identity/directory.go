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

// Package identity tracks the players connected to a game server and
// serves their live display names to the progress store.
package identity

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mobhunt/progress-core/pkg/database"
	"github.com/mobhunt/progress-core/pkg/helpers/syncutil"
)

var ErrUnknownPlayer = errors.New("unknown player")

type entry struct {
	name   string
	online bool
}

// Directory is an in-memory IdentityProvider. Names of players who left
// are remembered, so a player that went offline still has a known name.
type Directory struct {
	players map[uuid.UUID]entry
	mu      syncutil.RWMutex
}

var _ database.IdentityProvider = (*Directory)(nil)

func NewDirectory() *Directory {
	return &Directory{
		players: make(map[uuid.UUID]entry),
	}
}

// Join marks the player online under its current name. A name change is
// picked up here and reported by the next DisplayName call.
func (d *Directory) Join(player database.PlayerRef) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.players[player.ID] = entry{name: player.Name, online: true}
}

func (d *Directory) Leave(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.players[id]; ok {
		e.online = false
		d.players[id] = e
	}
}

// Forget drops every trace of the player.
func (d *Directory) Forget(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.players, id)
}

func (d *Directory) DisplayName(id uuid.UUID) (name string, online bool, err error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.players[id]
	if !ok || e.name == "" {
		return "", false, ErrUnknownPlayer
	}
	return e.name, e.online, nil
}

func (d *Directory) Online(id uuid.UUID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.players[id].online
}

// Lookup finds a player by display name, case-insensitively. Online
// players win over offline ones sharing the name.
func (d *Directory) Lookup(name string) (database.PlayerRef, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var match database.PlayerRef
	found := false
	for id, e := range d.players {
		if !strings.EqualFold(e.name, name) {
			continue
		}
		match = database.PlayerRef{ID: id, Name: e.name}
		found = true
		if e.online {
			break
		}
	}
	return match, found
}

// OnlinePlayers returns the players currently connected, in no
// particular order.
func (d *Directory) OnlinePlayers() []database.PlayerRef {
	d.mu.RLock()
	defer d.mu.RUnlock()

	list := make([]database.PlayerRef, 0, len(d.players))
	for id, e := range d.players {
		if e.online {
			list = append(list, database.PlayerRef{ID: id, Name: e.name})
		}
	}
	return list
}
