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

package mocks

import (
	"database/sql"
	"fmt"

	"github.com/mobhunt/progress-core/pkg/database"
	"github.com/stretchr/testify/mock"
)

// MockProgressDB is a mock implementation of the ProgressDBI interface
// using testify/mock
type MockProgressDB struct {
	mock.Mock
}

var _ database.ProgressDBI = (*MockProgressDB)(nil)

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("mock operation failed: %w", err)
}

func (m *MockProgressDB) UnsafeGetSQLDb() *sql.DB {
	args := m.Called()
	if db, ok := args.Get(0).(*sql.DB); ok {
		return db
	}
	return nil
}

func (m *MockProgressDB) MigrateUp() error {
	return wrapErr(m.Called().Error(0))
}

func (m *MockProgressDB) Shutdown() error {
	return wrapErr(m.Called().Error(0))
}

func (m *MockProgressDB) InsertPlayers(players []database.PlayerRef) error {
	return wrapErr(m.Called(players).Error(0))
}

func (m *MockProgressDB) GetPlayerByName(name string) (database.PlayerRef, error) {
	args := m.Called(name)
	player, _ := args.Get(0).(database.PlayerRef)
	return player, wrapErr(args.Error(1))
}

func (m *MockProgressDB) GetPlayerByDBID(dbid int64) (database.PlayerRef, error) {
	args := m.Called(dbid)
	player, _ := args.Get(0).(database.PlayerRef)
	return player, wrapErr(args.Error(1))
}

func (m *MockProgressDB) CleanOrphans() (int64, error) {
	args := m.Called()
	n, _ := args.Get(0).(int64)
	return n, wrapErr(args.Error(1))
}

func (m *MockProgressDB) GetSettings(player database.PlayerRef) (database.PlayerSettings, error) {
	args := m.Called(player)
	settings, _ := args.Get(0).(database.PlayerSettings)
	return settings, wrapErr(args.Error(1))
}

func (m *MockProgressDB) InsertSettings(records []database.PlayerSettings) error {
	return wrapErr(m.Called(records).Error(0))
}

func (m *MockProgressDB) UpdateSettings(records []database.PlayerSettings) error {
	return wrapErr(m.Called(records).Error(0))
}

func (m *MockProgressDB) UpsertSettings(records []database.PlayerSettings) error {
	return wrapErr(m.Called(records).Error(0))
}

func (m *MockProgressDB) LoadAchievements(player database.PlayerRef) ([]database.Achievement, error) {
	args := m.Called(player)
	list, _ := args.Get(0).([]database.Achievement)
	return list, wrapErr(args.Error(1))
}

func (m *MockProgressDB) SaveAchievements(records []database.Achievement) error {
	return wrapErr(m.Called(records).Error(0))
}

func (m *MockProgressDB) LoadBounties(player database.PlayerRef) ([]database.Bounty, error) {
	args := m.Called(player)
	list, _ := args.Get(0).([]database.Bounty)
	return list, wrapErr(args.Error(1))
}

func (m *MockProgressDB) InsertBounties(bounties []database.Bounty) error {
	return wrapErr(m.Called(bounties).Error(0))
}

func (m *MockProgressDB) UpdateBountyCompletion(bounties []database.Bounty) error {
	return wrapErr(m.Called(bounties).Error(0))
}

func (m *MockProgressDB) DeleteBounty(bounty database.Bounty) error {
	return wrapErr(m.Called(bounty).Error(0))
}
