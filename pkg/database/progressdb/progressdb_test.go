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
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mobhunt/progress-core/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkpointQuery = "PRAGMA wal_checkpoint(TRUNCATE);"

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "shutting_down", StateShuttingDown.String())
	assert.Equal(t, "state(9)", State(9).String())
}

func TestAcquire_NotInitialized(t *testing.T) {
	t.Parallel()

	db := New(context.Background(), DialectSQLite, "", nil)
	assert.Equal(t, StateUninitialized, db.State())

	_, err := db.GetSettings(newPlayers("a")[0])
	require.ErrorIs(t, err, database.ErrConnection)
	require.NotErrorIs(t, err, database.ErrStoreClosed)
}

func TestInitialize_PingFailure(t *testing.T) {
	t.Parallel()

	db := New(context.Background(), DialectMySQL, "nobody:nothing@tcp(127.0.0.1:1)/progress?timeout=100ms", nil)
	err := db.Initialize()
	require.ErrorIs(t, err, database.ErrConnection)
	assert.Equal(t, StateUninitialized, db.State())
}

func TestShutdown_IsTerminal(t *testing.T) {
	t.Parallel()

	db, mock, _ := newMockProgressDB(t, nil)
	expectPrepare(mock, DeleteBounty).WillBeClosed()
	mock.ExpectExec(regexp.QuoteMeta(checkpointQuery)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectClose()

	_, err := db.stmts.open(DeleteBounty)
	require.NoError(t, err)

	require.NoError(t, db.Shutdown())
	assert.Equal(t, StateClosed, db.State())
	require.NoError(t, db.Shutdown(), "second shutdown is a no-op")

	player := newPlayers("a")[0]
	_, err = db.GetSettings(player)
	require.ErrorIs(t, err, database.ErrStoreClosed)
	require.ErrorIs(t, db.SaveAchievements(nil), database.ErrStoreClosed)
	require.ErrorIs(t, db.DeleteBounty(database.Bounty{BountyID: 1}), database.ErrStoreClosed)
	_, err = db.CleanOrphans()
	require.ErrorIs(t, err, database.ErrStoreClosed)
	require.ErrorIs(t, db.MigrateUp(), database.ErrStoreClosed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShutdown_WaitsGracePeriodOnClock(t *testing.T) {
	t.Parallel()

	db, mock, clock := newMockProgressDB(t, nil, WithGracePeriod(2*time.Second))
	mock.ExpectExec(regexp.QuoteMeta(checkpointQuery)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectClose()

	done := make(chan error, 1)
	go func() {
		done <- db.Shutdown()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Equal(t, StateShuttingDown, db.State())

	_, err := db.GetPlayerByDBID(1)
	require.ErrorIs(t, err, database.ErrStoreClosed, "no new work once shutdown began")

	clock.Advance(2 * time.Second)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("shutdown did not finish after the grace period")
	}
	assert.Equal(t, StateClosed, db.State())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShutdown_ReportsFlushAndCloseErrors(t *testing.T) {
	t.Parallel()

	db, mock, _ := newMockProgressDB(t, nil)
	mock.ExpectExec(regexp.QuoteMeta(checkpointQuery)).WillReturnError(errors.New("busy"))
	mock.ExpectClose().WillReturnError(errors.New("close failed"))

	err := db.Shutdown()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to checkpoint wal")
	require.ErrorIs(t, err, database.ErrConnection)
	assert.Equal(t, StateClosed, db.State(), "a failed shutdown still ends closed")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShutdown_Uninitialized(t *testing.T) {
	t.Parallel()

	db := New(context.Background(), DialectSQLite, "", nil)
	require.NoError(t, db.Shutdown())
	assert.Equal(t, StateClosed, db.State())
}
