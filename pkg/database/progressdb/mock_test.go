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
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mobhunt/progress-core/pkg/database"
	testsqlmock "github.com/mobhunt/progress-core/pkg/testing/sqlmock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// newMockProgressDB returns a ready store over sqlmock. Migrations are
// skipped: the mock has no schema.
func newMockProgressDB(
	t *testing.T,
	identity database.IdentityProvider,
	opts ...Option,
) (*ProgressDB, sqlmock.Sqlmock, *clockwork.FakeClock) {
	t.Helper()

	sqlDB, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	clock := clockwork.NewFakeClockAt(testNow)
	opts = append([]Option{WithClock(clock), WithGracePeriod(0)}, opts...)
	db := New(context.Background(), DialectSQLite, "", identity, opts...)
	db.attach(sqlDB)
	return db, mock, clock
}

func expectPrepare(mock sqlmock.Sqlmock, kind Kind) *sqlmock.ExpectedPrepare {
	return mock.ExpectPrepare(regexp.QuoteMeta(kind.Query()))
}

// expectLookupGroup registers the prepares of one lookup group, keyed by
// arity, in the order the group opens them.
func expectLookupGroup(mock sqlmock.Sqlmock) map[int]*sqlmock.ExpectedPrepare {
	group := make(map[int]*sqlmock.ExpectedPrepare, len(lookupKinds))
	for _, kind := range lookupKinds {
		group[kind.Arity()] = expectPrepare(mock, kind)
	}
	return group
}

func newPlayers(names ...string) []database.PlayerRef {
	players := make([]database.PlayerRef, len(names))
	for i, name := range names {
		players[i] = database.PlayerRef{ID: uuid.New(), Name: name}
	}
	return players
}

func playerIDs(players []database.PlayerRef) []uuid.UUID {
	ids := make([]uuid.UUID, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}

// storedRows returns lookup rows for players as stored, with internal ids
// starting at firstID and no settings.
func storedRows(players []database.PlayerRef, firstID int64) []testsqlmock.LookupRow {
	rows := make([]testsqlmock.LookupRow, len(players))
	for i, p := range players {
		rows[i] = testsqlmock.LookupRow{ID: p.ID, Name: p.Name, DBID: firstID + int64(i)}
	}
	return rows
}

func withSettings(row testsqlmock.LookupRow, learning, mute bool) testsqlmock.LookupRow {
	row.Settings = &[2]bool{learning, mute}
	return row
}

// expectSingleLookup expects one arity-1 resolution of player.
func expectSingleLookup(mock sqlmock.Sqlmock, player database.PlayerRef, rows ...testsqlmock.LookupRow) {
	group := expectLookupGroup(mock)
	group[1].ExpectQuery().
		WithArgs(player.ID.String()).
		WillReturnRows(testsqlmock.NewLookupRows(rows...))
}
