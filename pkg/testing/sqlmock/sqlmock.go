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

// Package sqlmock provides SQL mocking utilities for testing.
// This package is separate from helpers to avoid import cycles with database packages.
package sqlmock

import (
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

// LookupColumns are the columns returned by the player lookup statements.
var LookupColumns = []string{"UUID", "Name", "PlayerID", "LearningMode", "Mute"}

// NewSQLMock creates a new SQL mock for testing database operations.
// Returns a mock database connection and a sqlmock.Sqlmock for setting expectations.
func NewSQLMock() (*sql.DB, sqlmock.Sqlmock, error) {
	db, mockDB, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sqlmock: %w", err)
	}
	return db, mockDB, nil
}

// LookupRow is one stored player as returned by a lookup statement. A
// nil Settings means the player has no settings row.
type LookupRow struct {
	Settings *[2]bool
	Name     string
	ID       uuid.UUID
	DBID     int64
}

// NewLookupRows builds the result set of a player lookup.
func NewLookupRows(rows ...LookupRow) *sqlmock.Rows {
	result := sqlmock.NewRows(LookupColumns)
	for _, r := range rows {
		var learning, mute driver.Value
		if r.Settings != nil {
			learning, mute = r.Settings[0], r.Settings[1]
		}
		result.AddRow(r.ID.String(), r.Name, r.DBID, learning, mute)
	}
	return result
}

// IDArgs converts player ids to the query arguments of a lookup.
func IDArgs(ids ...uuid.UUID) []driver.Value {
	args := make([]driver.Value, len(ids))
	for i, id := range ids {
		args[i] = id.String()
	}
	return args
}

// AnyArgs matches n arguments of any value.
func AnyArgs(n int) []driver.Value {
	args := make([]driver.Value, n)
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	return args
}
