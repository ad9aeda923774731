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
	"errors"
	"testing"

	"github.com/mobhunt/progress-core/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements_OpenCaches(t *testing.T) {
	t.Parallel()

	db, mock, _ := newMockProgressDB(t, nil)
	expectPrepare(mock, DeleteBounty)

	first, err := db.stmts.open(DeleteBounty)
	require.NoError(t, err)
	second, err := db.stmts.open(DeleteBounty)
	require.NoError(t, err)
	assert.Same(t, first, second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatements_ReleaseReprepares(t *testing.T) {
	t.Parallel()

	db, mock, _ := newMockProgressDB(t, nil)
	expectPrepare(mock, DeleteBounty).WillBeClosed()
	expectPrepare(mock, DeleteBounty)

	first, err := db.stmts.open(DeleteBounty)
	require.NoError(t, err)
	require.NoError(t, db.stmts.release(DeleteBounty))
	require.NoError(t, db.stmts.release(DeleteBounty), "releasing twice is a no-op")

	second, err := db.stmts.open(DeleteBounty)
	require.NoError(t, err)
	assert.NotSame(t, first, second, "a released handle is never handed out again")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatements_PrepareFailureIsConnectionFault(t *testing.T) {
	t.Parallel()

	db, mock, _ := newMockProgressDB(t, nil)
	expectPrepare(mock, InsertBounty).WillReturnError(errors.New("no such table: Bounties"))

	_, err := db.stmts.open(InsertBounty)
	require.ErrorIs(t, err, database.ErrConnection)
	assert.Contains(t, err.Error(), "insert_bounty")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatements_GroupIsAllOrNothing(t *testing.T) {
	t.Parallel()

	db, mock, _ := newMockProgressDB(t, nil)
	expectPrepare(mock, GetPlayers1).WillBeClosed()
	expectPrepare(mock, GetPlayers2).WillBeClosed()
	expectPrepare(mock, GetPlayers5).WillReturnError(errors.New("connection reset"))

	group, err := db.stmts.openGroup(lookupKinds...)
	require.ErrorIs(t, err, database.ErrConnection)
	assert.Nil(t, group)
	assert.False(t, db.stmts.groupOpen())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatements_GroupOpenCloseCycle(t *testing.T) {
	t.Parallel()

	db, mock, _ := newMockProgressDB(t, nil)
	for _, kind := range lookupKinds {
		expectPrepare(mock, kind).WillBeClosed()
	}

	require.NoError(t, db.stmts.closeGroup(), "closing with no group open is a no-op")

	group, err := db.stmts.openGroup(lookupKinds...)
	require.NoError(t, err)
	assert.Len(t, group, len(lookupKinds))
	assert.True(t, db.stmts.groupOpen())

	_, err = db.stmts.openGroup(lookupKinds...)
	require.ErrorIs(t, err, errGroupOpen)

	require.NoError(t, db.stmts.closeGroup())
	assert.False(t, db.stmts.groupOpen())
	require.NoError(t, db.stmts.closeGroup())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatements_CloseAll(t *testing.T) {
	t.Parallel()

	db, mock, _ := newMockProgressDB(t, nil)
	expectPrepare(mock, DeleteBounty).WillBeClosed()
	expectPrepare(mock, UpdateBounty).WillBeClosed()

	_, err := db.stmts.open(DeleteBounty)
	require.NoError(t, err)
	_, err = db.stmts.open(UpdateBounty)
	require.NoError(t, err)

	require.NoError(t, db.stmts.closeAll())
	assert.Empty(t, db.stmts.prepared)
	require.NoError(t, mock.ExpectationsWereMet())
}
